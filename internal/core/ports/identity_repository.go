package ports

import (
	"context"

	"github.com/protorh/protorh-api/internal/core/domain"
)

// IdentityRepository defines persistence operations for identities.
type IdentityRepository interface {
	// Create inserts a new identity and returns it with its assigned id.
	// A duplicate email yields domain.ErrEmailTaken.
	Create(ctx context.Context, identity *domain.Identity) (*domain.Identity, error)
	FindByID(ctx context.Context, id int64) (*domain.Identity, error)
	FindByEmail(ctx context.Context, email string) (*domain.Identity, error)
	// EmailTaken reports whether email belongs to an identity other than exceptID.
	EmailTaken(ctx context.Context, email string, exceptID int64) (bool, error)
	Update(ctx context.Context, identity *domain.Identity) (*domain.Identity, error)
	UpdatePasswordDigest(ctx context.Context, id int64, digest string) error
}

// DepartmentRepository defines persistence operations for departments and
// their membership join.
type DepartmentRepository interface {
	Create(ctx context.Context, name string) (*domain.Department, error)
	FindByID(ctx context.Context, id int64) (*domain.Department, error)
	// AddMembers links the given identities to the department and returns
	// the ones that were not members before. Unknown ids are skipped.
	AddMembers(ctx context.Context, departmentID int64, userIDs []int64) ([]domain.MemberSummary, error)
	// RemoveMembers unlinks the given identities and returns the ones that
	// were actually members.
	RemoveMembers(ctx context.Context, departmentID int64, userIDs []int64) ([]domain.MemberSummary, error)
	Members(ctx context.Context, departmentID int64) ([]domain.Identity, error)
}
