package service

import (
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/protorh/protorh-api/internal/core/domain"
)

type testClock struct{ t time.Time }

func (c *testClock) Now() time.Time { return c.t }

func (c *testClock) Advance(d time.Duration) { c.t = c.t.Add(d) }

func newClockedTokens(secret string) (*SessionTokenService, *testClock) {
	clock := &testClock{t: time.Date(2026, 1, 10, 8, 0, 0, 0, time.UTC)}
	return NewSessionTokenService(secret, 0, WithTokenClock(clock.Now)), clock
}

func TestSessionTokens_RoundTrip(t *testing.T) {
	svc, clock := newClockedTokens("secret")
	identity := &domain.Identity{ID: 42, Email: "a@x.com", Role: domain.RoleManager}

	token, exp, err := svc.Issue(identity)
	require.NoError(t, err)
	assert.Equal(t, clock.Now().Add(10*time.Minute), exp)

	clock.Advance(9*time.Minute + 59*time.Second)
	claims, err := svc.Validate(token)
	require.NoError(t, err)
	assert.Equal(t, domain.SessionClaims{
		SubjectID: 42,
		Email:     "a@x.com",
		Role:      domain.RoleManager,
		ExpiresAt: exp,
	}, claims)
}

func TestSessionTokens_ExpiredIsNeverMalformed(t *testing.T) {
	svc, clock := newClockedTokens("secret")
	token, _, err := svc.Issue(&domain.Identity{ID: 1, Email: "a@x.com", Role: domain.RoleUser})
	require.NoError(t, err)

	for _, d := range []time.Duration{10 * time.Minute, time.Second, time.Hour, 30 * 24 * time.Hour} {
		clock.Advance(d)
		_, err := svc.Validate(token)
		assert.True(t, errors.Is(err, domain.ErrTokenExpired), "after %v: got %v", d, err)
		assert.False(t, errors.Is(err, domain.ErrTokenMalformed))
	}
}

func TestSessionTokens_Malformed(t *testing.T) {
	svc, clock := newClockedTokens("secret")
	other, _ := newClockedTokens("another-secret")

	forged, _, err := other.Issue(&domain.Identity{ID: 1, Email: "a@x.com", Role: domain.RoleAdmin})
	require.NoError(t, err)

	none, err := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.MapClaims{
		"id": 1, "email": "a@x.com", "role": "admin", "exp": clock.Now().Add(time.Hour).Unix(),
	}).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	hs512, err := jwt.NewWithClaims(jwt.SigningMethodHS512, jwt.MapClaims{
		"id": 1, "email": "a@x.com", "role": "admin", "exp": clock.Now().Add(time.Hour).Unix(),
	}).SignedString([]byte("secret"))
	require.NoError(t, err)

	noExp, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"id": 1, "email": "a@x.com", "role": "admin",
	}).SignedString([]byte("secret"))
	require.NoError(t, err)

	badRole, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"id": 1, "email": "a@x.com", "role": "superuser", "exp": clock.Now().Add(time.Hour).Unix(),
	}).SignedString([]byte("secret"))
	require.NoError(t, err)

	tests := map[string]string{
		"garbage":        "not-a-token",
		"empty":          "",
		"wrong secret":   forged,
		"alg none":       none,
		"unexpected alg": hs512,
		"missing exp":    noExp,
		"unknown role":   badRole,
	}
	for name, token := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := svc.Validate(token)
			assert.True(t, errors.Is(err, domain.ErrTokenMalformed), "got %v", err)
			assert.False(t, errors.Is(err, domain.ErrTokenExpired))
		})
	}
}

func TestSessionTokens_ForgedAndExpiredIsMalformed(t *testing.T) {
	svc, clock := newClockedTokens("secret")
	other, _ := newClockedTokens("another-secret")

	forged, _, err := other.Issue(&domain.Identity{ID: 1, Email: "a@x.com", Role: domain.RoleUser})
	require.NoError(t, err)
	clock.Advance(time.Hour)

	_, err = svc.Validate(forged)
	assert.True(t, errors.Is(err, domain.ErrTokenMalformed), "got %v", err)
}

func TestSessionTokens_CustomTTL(t *testing.T) {
	clock := &testClock{t: time.Date(2026, 1, 10, 8, 0, 0, 0, time.UTC)}
	svc := NewSessionTokenService("secret", 2*time.Minute, WithTokenClock(clock.Now))
	assert.Equal(t, 2*time.Minute, svc.TTL())

	token, _, err := svc.Issue(&domain.Identity{ID: 3, Email: "c@x.com", Role: domain.RoleAdmin})
	require.NoError(t, err)

	clock.Advance(2 * time.Minute)
	_, err = svc.Validate(token)
	assert.True(t, errors.Is(err, domain.ErrTokenExpired))
}
