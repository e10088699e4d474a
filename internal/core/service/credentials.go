package service

import (
	"crypto/subtle"
	"encoding/base64"
	"strconv"
	"strings"

	"golang.org/x/crypto/argon2"
)

const digestPrefix = "argon2id$"

// argon2id cost parameters. Changing any of them invalidates stored digests.
const (
	argonTime    = 2
	argonMemory  = 19 * 1024
	argonThreads = 1
	argonKeyLen  = 32
)

// CredentialManager derives and verifies password digests and derives the
// account token used to name profile artefacts. Every derivation is keyed
// with the server-wide salt it was built with.
type CredentialManager struct {
	salt []byte
}

// NewCredentialManager returns a CredentialManager bound to salt.
func NewCredentialManager(salt string) *CredentialManager {
	return &CredentialManager{salt: []byte(salt)}
}

// DerivePasswordDigest returns a deterministic one-way digest of raw.
func (m *CredentialManager) DerivePasswordDigest(raw string) string {
	key := argon2.IDKey([]byte(raw), m.salt, argonTime, argonMemory, argonThreads, argonKeyLen)
	return digestPrefix + base64.RawStdEncoding.EncodeToString(key)
}

// VerifyPassword recomputes the digest of raw and compares it with stored in
// constant time.
func (m *CredentialManager) VerifyPassword(raw, stored string) bool {
	if !strings.HasPrefix(stored, digestPrefix) {
		return false
	}
	computed := m.DerivePasswordDigest(raw)
	return subtle.ConstantTimeCompare([]byte(computed), []byte(stored)) == 1
}

// DeriveAccountToken folds email, names and salt into a 32-bit djb2-xor
// hash rendered in decimal. It is a stable lookup key, not a secret.
func (m *CredentialManager) DeriveAccountToken(email, firstname, lastname string) string {
	var h uint32 = 5381
	for _, r := range email + firstname + lastname + string(m.salt) {
		h = h*33 ^ uint32(r)
	}
	return strconv.FormatUint(uint64(h), 10)
}
