package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/protorh/protorh-api/internal/core/domain"
	"github.com/protorh/protorh-api/internal/core/policy"
	"github.com/protorh/protorh-api/internal/core/ports"
)

// UserService implements profile reads and partial updates.
type UserService struct {
	repo   ports.IdentityRepository
	policy *policy.Engine
	log    zerolog.Logger
	now    func() time.Time
}

func NewUserService(repo ports.IdentityRepository, engine *policy.Engine, log zerolog.Logger) *UserService {
	return &UserService{repo: repo, policy: engine, log: log, now: time.Now}
}

// GetProfile returns the identity together with the fields actor may read.
func (s *UserService) GetProfile(ctx context.Context, actor domain.SessionClaims, userID int64) (*ports.ProfileView, error) {
	decision := s.policy.Decide(actor, domain.ActionReadProfile, policy.Resource{TargetID: userID})
	if err := decision.Err(domain.ActionReadProfile); err != nil {
		return nil, err
	}

	identity, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("get profile: %w", err)
	}
	return &ports.ProfileView{Identity: identity, Fields: decision.Fields}, nil
}

// UpdateProfile applies a partial update. The email checks run before the
// access decision so an oversized or taken email is reported as such.
func (s *UserService) UpdateProfile(ctx context.Context, actor domain.SessionClaims, in ports.UpdateProfileInput) (*domain.Identity, error) {
	targetID := in.TargetID
	if targetID == 0 {
		targetID = actor.SubjectID
	}

	patch := in.Patch
	if patch.Email != nil {
		email := strings.TrimSpace(*patch.Email)
		if err := validateEmail(email); err != nil {
			return nil, err
		}
		taken, err := s.repo.EmailTaken(ctx, email, targetID)
		if err != nil {
			return nil, fmt.Errorf("update profile: %w", err)
		}
		if taken {
			return nil, domain.ErrEmailTaken
		}
		patch.Email = &email
	}

	decision := s.policy.Decide(actor, domain.ActionUpdateProfile, policy.Resource{
		TargetID: in.TargetID,
		Fields:   patch.Fields(),
	})
	if err := decision.Err(domain.ActionUpdateProfile); err != nil {
		return nil, err
	}

	if patch.Empty() {
		return nil, &domain.ValidationError{Field: "body", Reason: "Nothing to update"}
	}
	if patch.Role != nil && !patch.Role.Valid() {
		return nil, &domain.ValidationError{Field: "role", Reason: "Unknown role"}
	}

	identity, err := s.repo.FindByID(ctx, targetID)
	if err != nil {
		return nil, fmt.Errorf("update profile: %w", err)
	}

	applyPatch(identity, patch, decision.Fields, domain.Today(s.now()))

	updated, err := s.repo.Update(ctx, identity)
	if err != nil {
		return nil, fmt.Errorf("update profile: %w", err)
	}

	s.log.Info().
		Int64("user_id", updated.ID).
		Int64("actor_id", actor.SubjectID).
		Msg("profile updated")
	return updated, nil
}

// applyPatch copies the allowed patch fields onto identity. The account
// token is left alone even when names or email change.
func applyPatch(identity *domain.Identity, patch domain.IdentityPatch, allowed domain.FieldSet, today time.Time) {
	if patch.Email != nil && allowed.Has(domain.FieldEmail) {
		identity.Email = *patch.Email
	}
	if patch.Firstname != nil && allowed.Has(domain.FieldFirstname) {
		identity.Firstname = *patch.Firstname
	}
	if patch.Lastname != nil && allowed.Has(domain.FieldLastname) {
		identity.Lastname = *patch.Lastname
	}
	if patch.BirthdayDate != nil && allowed.Has(domain.FieldBirthdayDate) {
		identity.BirthdayDate = *patch.BirthdayDate
		identity.Age = domain.CalculateAge(*patch.BirthdayDate, today)
	}
	if patch.Address != nil && allowed.Has(domain.FieldAddress) {
		identity.Address = *patch.Address
	}
	if patch.PostalCode != nil && allowed.Has(domain.FieldPostalCode) {
		identity.PostalCode = *patch.PostalCode
	}
	if patch.Role != nil && allowed.Has(domain.FieldRole) {
		identity.Role = *patch.Role
	}
}
