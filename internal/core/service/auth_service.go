package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/protorh/protorh-api/internal/core/domain"
	"github.com/protorh/protorh-api/internal/core/ports"
)

type noopLimiter struct{}

func (noopLimiter) Allow(context.Context, string) (bool, error) { return true, nil }
func (noopLimiter) RecordFailure(context.Context, string) error { return nil }
func (noopLimiter) Reset(context.Context, string) error { return nil }

// AuthService implements registration, login and password change.
type AuthService struct {
	repo    ports.IdentityRepository
	creds   *CredentialManager
	tokens  *SessionTokenService
	limiter ports.LoginLimiter
	log     zerolog.Logger
	now     func() time.Time
}

// NewAuthService wires an AuthService. A nil limiter disables throttling.
func NewAuthService(
	repo ports.IdentityRepository,
	creds *CredentialManager,
	tokens *SessionTokenService,
	limiter ports.LoginLimiter,
	log zerolog.Logger,
) *AuthService {
	if limiter == nil {
		limiter = noopLimiter{}
	}
	return &AuthService{
		repo:    repo,
		creds:   creds,
		tokens:  tokens,
		limiter: limiter,
		log:     log,
		now:     time.Now,
	}
}

// Register creates a user-role identity.
func (s *AuthService) Register(ctx context.Context, in ports.RegisterInput) (*domain.Identity, error) {
	email := strings.TrimSpace(in.Email)
	if err := validateEmail(email); err != nil {
		return nil, err
	}
	if len(in.Password) < domain.MinPasswordLength {
		return nil, &domain.ValidationError{Field: "password", Reason: "Too short password"}
	}
	if strings.TrimSpace(in.Firstname) == "" {
		return nil, &domain.ValidationError{Field: "firstname", Reason: "firstname is required"}
	}
	if strings.TrimSpace(in.Lastname) == "" {
		return nil, &domain.ValidationError{Field: "lastname", Reason: "lastname is required"}
	}
	if in.BirthdayDate.IsZero() {
		return nil, &domain.ValidationError{Field: "birthday_date", Reason: "birthday_date is required"}
	}

	taken, err := s.repo.EmailTaken(ctx, email, 0)
	if err != nil {
		return nil, fmt.Errorf("register: %w", err)
	}
	if taken {
		return nil, domain.ErrEmailTaken
	}

	today := domain.Today(s.now())
	identity := &domain.Identity{
		Email:            email,
		PasswordDigest:   s.creds.DerivePasswordDigest(in.Password),
		Firstname:        in.Firstname,
		Lastname:         in.Lastname,
		BirthdayDate:     in.BirthdayDate,
		Address:          in.Address,
		PostalCode:       in.PostalCode,
		Age:              domain.CalculateAge(in.BirthdayDate, today),
		Meta:             map[string]any{},
		RegistrationDate: today,
		AccountToken:     s.creds.DeriveAccountToken(email, in.Firstname, in.Lastname),
		Role:             domain.RoleUser,
	}

	created, err := s.repo.Create(ctx, identity)
	if err != nil {
		return nil, fmt.Errorf("register: %w", err)
	}

	s.log.Info().Int64("user_id", created.ID).Msg("identity registered")
	return created, nil
}

// Login verifies credentials and issues a session token.
func (s *AuthService) Login(ctx context.Context, email, password string) (*ports.LoginResult, error) {
	if email == "" || password == "" {
		return nil, domain.ErrInvalidCredentials
	}

	identity, err := s.authenticate(ctx, email, password)
	if err != nil {
		return nil, err
	}

	token, exp, err := s.tokens.Issue(identity)
	if err != nil {
		return nil, fmt.Errorf("login: %w", err)
	}

	return &ports.LoginResult{Token: token, ExpiresAt: exp, Identity: identity}, nil
}

// ChangePassword replaces the password of the identity matching the given
// credentials once the new password has been confirmed.
func (s *AuthService) ChangePassword(ctx context.Context, in ports.ChangePasswordInput) error {
	identity, err := s.authenticate(ctx, in.Email, in.Password)
	if err != nil {
		return err
	}
	if in.NewPassword != in.RepeatNewPassword {
		return &domain.ValidationError{Field: "repeat_new_password", Reason: "New passwords should be same"}
	}
	if len(in.NewPassword) < domain.MinPasswordLength {
		return &domain.ValidationError{Field: "new_password", Reason: "Too short password"}
	}

	if err := s.repo.UpdatePasswordDigest(ctx, identity.ID, s.creds.DerivePasswordDigest(in.NewPassword)); err != nil {
		return fmt.Errorf("change password: %w", err)
	}

	s.log.Info().Int64("user_id", identity.ID).Msg("password changed")
	return nil
}

// authenticate checks email and password against the stored digest. Login and
// password change share it, so both go through the same failure counter. An
// unknown email and a wrong password give the same error.
func (s *AuthService) authenticate(ctx context.Context, email, password string) (*domain.Identity, error) {
	allowed, err := s.limiter.Allow(ctx, email)
	if err != nil {
		s.log.Warn().Err(err).Msg("login limiter check failed, continuing")
	} else if !allowed {
		return nil, domain.ErrTooManyAttempts
	}

	identity, err := s.lookup(ctx, email, password)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidCredentials) {
			if recErr := s.limiter.RecordFailure(ctx, email); recErr != nil {
				s.log.Warn().Err(recErr).Msg("failed to record login failure")
			}
		}
		return nil, err
	}

	if err := s.limiter.Reset(ctx, email); err != nil {
		s.log.Warn().Err(err).Msg("failed to reset login limiter")
	}
	return identity, nil
}

func (s *AuthService) lookup(ctx context.Context, email, password string) (*domain.Identity, error) {
	identity, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrInvalidCredentials
		}
		return nil, fmt.Errorf("authenticate: %w", err)
	}
	if !s.creds.VerifyPassword(password, identity.PasswordDigest) {
		return nil, domain.ErrInvalidCredentials
	}
	return identity, nil
}

func validateEmail(email string) error {
	if email == "" {
		return &domain.ValidationError{Field: "email", Reason: "Email is required"}
	}
	if len(email) > domain.MaxEmailLength {
		return &domain.ValidationError{Field: "email", Reason: "Too long email adress"}
	}
	return nil
}
