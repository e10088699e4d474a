package ports

import (
	"context"
	"time"

	"github.com/protorh/protorh-api/internal/core/domain"
)

// TokenValidator turns a bearer token into verified session claims.
type TokenValidator interface {
	Validate(token string) (domain.SessionClaims, error)
}

// LoginLimiter counts failed credential checks per email. Allow reports
// whether another attempt may be made.
type LoginLimiter interface {
	Allow(ctx context.Context, email string) (bool, error)
	RecordFailure(ctx context.Context, email string) error
	Reset(ctx context.Context, email string) error
}

// RegisterInput carries the data needed to create an identity.
type RegisterInput struct {
	Email        string
	Password     string
	Firstname    string
	Lastname     string
	BirthdayDate time.Time
	Address      string
	PostalCode   string
}

// LoginResult is returned by a successful login.
type LoginResult struct {
	Token     string
	ExpiresAt time.Time
	Identity  *domain.Identity
}

// ChangePasswordInput carries a credential check plus the confirmed new password.
type ChangePasswordInput struct {
	Email             string
	Password          string
	NewPassword       string
	RepeatNewPassword string
}

// AuthService covers registration, login and password change.
type AuthService interface {
	Register(ctx context.Context, in RegisterInput) (*domain.Identity, error)
	Login(ctx context.Context, email, password string) (*LoginResult, error)
	ChangePassword(ctx context.Context, in ChangePasswordInput) error
}

// UpdateProfileInput is a partial profile update. TargetID zero means the
// caller itself.
type UpdateProfileInput struct {
	TargetID int64
	Patch    domain.IdentityPatch
}

// ProfileView is an identity together with the fields the viewer may see.
type ProfileView struct {
	Identity *domain.Identity
	Fields   domain.FieldSet
}

// UserService covers profile reads and updates.
type UserService interface {
	GetProfile(ctx context.Context, actor domain.SessionClaims, userID int64) (*ProfileView, error)
	UpdateProfile(ctx context.Context, actor domain.SessionClaims, in UpdateProfileInput) (*domain.Identity, error)
}

// DepartmentService covers departments and their membership.
type DepartmentService interface {
	Create(ctx context.Context, actor domain.SessionClaims, name string) (*domain.Department, error)
	AddMembers(ctx context.Context, actor domain.SessionClaims, departmentID int64, userIDs []int64) ([]domain.MemberSummary, error)
	RemoveMembers(ctx context.Context, actor domain.SessionClaims, departmentID int64, userIDs []int64) ([]domain.MemberSummary, error)
	ListMembers(ctx context.Context, actor domain.SessionClaims, departmentID int64) ([]ProfileView, error)
}

// CreateHRRequestInput carries the owner and initial content of a new HR request.
type CreateHRRequestInput struct {
	OwnerID int64
	Content string
}

// HRRequestService covers the HR request lifecycle.
type HRRequestService interface {
	Create(ctx context.Context, actor domain.SessionClaims, in CreateHRRequestInput) (*domain.HRRequest, error)
	Update(ctx context.Context, actor domain.SessionClaims, id int64, content string) (*domain.HRRequest, error)
	Close(ctx context.Context, actor domain.SessionClaims, id int64) (*domain.HRRequest, error)
	List(ctx context.Context, actor domain.SessionClaims) ([]domain.HRRequest, error)
}

// PictureService covers profile picture upload and lookup.
type PictureService interface {
	Upload(ctx context.Context, actor domain.SessionClaims, userID int64, filename string, data []byte) (string, error)
	Lookup(ctx context.Context, actor domain.SessionClaims, userID int64) (string, error)
}
