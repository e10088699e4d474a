package service

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/protorh/protorh-api/internal/core/domain"
)

// DefaultTokenTTL is the lifetime of a session token when none is configured.
const DefaultTokenTTL = 10 * time.Minute

type sessionClaims struct {
	ID    int64  `json:"id"`
	Email string `json:"email"`
	Role  string `json:"role"`
	jwt.RegisteredClaims
}

// TokenOption configures a SessionTokenService.
type TokenOption func(*SessionTokenService)

// WithTokenClock overrides the time source used to stamp and check expiry.
func WithTokenClock(now func() time.Time) TokenOption {
	return func(s *SessionTokenService) {
		if now != nil {
			s.now = now
		}
	}
}

// SessionTokenService issues and validates HS256-signed session tokens.
// It keeps no server-side session state.
type SessionTokenService struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewSessionTokenService returns a service signing with secret. A
// non-positive ttl falls back to DefaultTokenTTL.
func NewSessionTokenService(secret string, ttl time.Duration, opts ...TokenOption) *SessionTokenService {
	if ttl <= 0 {
		ttl = DefaultTokenTTL
	}
	s := &SessionTokenService{
		secret: []byte(secret),
		ttl:    ttl,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// TTL returns the configured token lifetime.
func (s *SessionTokenService) TTL() time.Duration { return s.ttl }

// Issue signs a token carrying the identity's id, email and role. The
// returned expiry is the one encoded in the token.
func (s *SessionTokenService) Issue(identity *domain.Identity) (string, time.Time, error) {
	exp := jwt.NewNumericDate(s.now().Add(s.ttl))
	claims := sessionClaims{
		ID:    identity.ID,
		Email: identity.Email,
		Role:  string(identity.Role),
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: exp,
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("sign token: %w", err)
	}
	return signed, exp.Time, nil
}

// Validate verifies the signature and expiry of token. A well-signed token
// past its expiry yields domain.ErrTokenExpired; anything else that fails
// yields domain.ErrTokenMalformed.
func (s *SessionTokenService) Validate(token string) (domain.SessionClaims, error) {
	var claims sessionClaims
	parsed, err := jwt.ParseWithClaims(token, &claims,
		func(*jwt.Token) (any, error) { return s.secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return domain.SessionClaims{}, domain.ErrTokenExpired
		}
		return domain.SessionClaims{}, fmt.Errorf("%w: %v", domain.ErrTokenMalformed, err)
	}
	if !parsed.Valid || claims.ID <= 0 {
		return domain.SessionClaims{}, domain.ErrTokenMalformed
	}

	role, err := domain.ParseRole(claims.Role)
	if err != nil {
		return domain.SessionClaims{}, fmt.Errorf("%w: %v", domain.ErrTokenMalformed, err)
	}

	return domain.SessionClaims{
		SubjectID: claims.ID,
		Email:     claims.Email,
		Role:      role,
		ExpiresAt: claims.ExpiresAt.Time,
	}, nil
}
