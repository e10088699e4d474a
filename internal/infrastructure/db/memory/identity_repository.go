// Package memory provides process-local implementations of the repository
// ports. They back STORE_DRIVER=memory and the service tests.
package memory

import (
	"context"
	"maps"
	"strings"
	"sync"

	"github.com/protorh/protorh-api/internal/core/domain"
	"github.com/protorh/protorh-api/internal/core/ports"
)

// IdentityRepository implements ports.IdentityRepository in memory.
type IdentityRepository struct {
	mu     sync.RWMutex
	nextID int64
	byID   map[int64]*domain.Identity
}

var _ ports.IdentityRepository = (*IdentityRepository)(nil)

func NewIdentityRepository() *IdentityRepository {
	return &IdentityRepository{byID: make(map[int64]*domain.Identity)}
}

func (r *IdentityRepository) Create(_ context.Context, identity *domain.Identity) (*domain.Identity, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.emailTakenLocked(identity.Email, 0) {
		return nil, domain.ErrEmailTaken
	}
	r.nextID++
	stored := cloneIdentity(identity)
	stored.ID = r.nextID
	r.byID[stored.ID] = stored
	return cloneIdentity(stored), nil
}

func (r *IdentityRepository) FindByID(_ context.Context, id int64) (*domain.Identity, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	identity, ok := r.byID[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return cloneIdentity(identity), nil
}

func (r *IdentityRepository) FindByEmail(_ context.Context, email string) (*domain.Identity, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, identity := range r.byID {
		if strings.EqualFold(identity.Email, email) {
			return cloneIdentity(identity), nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *IdentityRepository) EmailTaken(_ context.Context, email string, exceptID int64) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.emailTakenLocked(email, exceptID), nil
}

func (r *IdentityRepository) Update(_ context.Context, identity *domain.Identity) (*domain.Identity, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.byID[identity.ID]; !ok {
		return nil, domain.ErrUserNotFound
	}
	if r.emailTakenLocked(identity.Email, identity.ID) {
		return nil, domain.ErrEmailTaken
	}
	stored := cloneIdentity(identity)
	r.byID[identity.ID] = stored
	return cloneIdentity(stored), nil
}

func (r *IdentityRepository) UpdatePasswordDigest(_ context.Context, id int64, digest string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	identity, ok := r.byID[id]
	if !ok {
		return domain.ErrUserNotFound
	}
	identity.PasswordDigest = digest
	return nil
}

func (r *IdentityRepository) summary(id int64) (domain.MemberSummary, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	identity, ok := r.byID[id]
	if !ok {
		return domain.MemberSummary{}, false
	}
	return domain.MemberSummary{
		ID:        identity.ID,
		Email:     identity.Email,
		Firstname: identity.Firstname,
		Lastname:  identity.Lastname,
	}, true
}

func (r *IdentityRepository) emailTakenLocked(email string, exceptID int64) bool {
	for id, identity := range r.byID {
		if id != exceptID && strings.EqualFold(identity.Email, email) {
			return true
		}
	}
	return false
}

func cloneIdentity(in *domain.Identity) *domain.Identity {
	out := *in
	out.Meta = maps.Clone(in.Meta)
	return &out
}
