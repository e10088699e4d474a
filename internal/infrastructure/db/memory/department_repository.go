package memory

import (
	"context"
	"slices"
	"sync"

	"github.com/protorh/protorh-api/internal/core/domain"
	"github.com/protorh/protorh-api/internal/core/ports"
)

// DepartmentRepository implements ports.DepartmentRepository in memory. It
// resolves member summaries through the identity repository it shares.
type DepartmentRepository struct {
	mu         sync.RWMutex
	nextID     int64
	depts      map[int64]domain.Department
	members    map[int64]map[int64]struct{}
	identities *IdentityRepository
}

var _ ports.DepartmentRepository = (*DepartmentRepository)(nil)

func NewDepartmentRepository(identities *IdentityRepository) *DepartmentRepository {
	return &DepartmentRepository{
		depts:      make(map[int64]domain.Department),
		members:    make(map[int64]map[int64]struct{}),
		identities: identities,
	}
}

func (r *DepartmentRepository) Create(_ context.Context, name string) (*domain.Department, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.nextID++
	d := domain.Department{ID: r.nextID, Name: name}
	r.depts[d.ID] = d
	r.members[d.ID] = make(map[int64]struct{})
	return &d, nil
}

func (r *DepartmentRepository) FindByID(_ context.Context, id int64) (*domain.Department, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	d, ok := r.depts[id]
	if !ok {
		return nil, domain.ErrDepartmentNotFound
	}
	return &d, nil
}

func (r *DepartmentRepository) AddMembers(_ context.Context, departmentID int64, userIDs []int64) ([]domain.MemberSummary, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	set, ok := r.members[departmentID]
	if !ok {
		return nil, domain.ErrDepartmentNotFound
	}
	added := make([]domain.MemberSummary, 0, len(userIDs))
	for _, id := range userIDs {
		if _, exists := set[id]; exists {
			continue
		}
		sum, ok := r.identities.summary(id)
		if !ok {
			continue
		}
		set[id] = struct{}{}
		added = append(added, sum)
	}
	return added, nil
}

func (r *DepartmentRepository) RemoveMembers(_ context.Context, departmentID int64, userIDs []int64) ([]domain.MemberSummary, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	set, ok := r.members[departmentID]
	if !ok {
		return nil, domain.ErrDepartmentNotFound
	}
	removed := make([]domain.MemberSummary, 0, len(userIDs))
	for _, id := range userIDs {
		if _, exists := set[id]; !exists {
			continue
		}
		delete(set, id)
		if sum, ok := r.identities.summary(id); ok {
			removed = append(removed, sum)
		}
	}
	return removed, nil
}

func (r *DepartmentRepository) Members(ctx context.Context, departmentID int64) ([]domain.Identity, error) {
	r.mu.RLock()
	set, ok := r.members[departmentID]
	if !ok {
		r.mu.RUnlock()
		return nil, domain.ErrDepartmentNotFound
	}
	ids := make([]int64, 0, len(set))
	for id := range set {
		ids = append(ids, id)
	}
	r.mu.RUnlock()

	slices.Sort(ids)
	out := make([]domain.Identity, 0, len(ids))
	for _, id := range ids {
		identity, err := r.identities.FindByID(ctx, id)
		if err != nil {
			continue
		}
		out = append(out, *identity)
	}
	return out, nil
}
