package memory

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/protorh/protorh-api/internal/core/domain"
)

func TestIdentityRepository_CreateAndFind(t *testing.T) {
	ctx := context.Background()
	r := NewIdentityRepository()

	created, err := r.Create(ctx, &domain.Identity{Email: "a@x.com", Role: domain.RoleUser})
	require.NoError(t, err)
	assert.Equal(t, int64(1), created.ID)

	byEmail, err := r.FindByEmail(ctx, "A@x.com")
	require.NoError(t, err)
	assert.Equal(t, created.ID, byEmail.ID)

	_, err = r.Create(ctx, &domain.Identity{Email: "a@x.com"})
	assert.True(t, errors.Is(err, domain.ErrEmailTaken))
	assert.True(t, errors.Is(err, domain.ErrConflict))

	_, err = r.FindByID(ctx, 5)
	assert.True(t, errors.Is(err, domain.ErrUserNotFound))
}

func TestIdentityRepository_EmailTakenIgnoresSelf(t *testing.T) {
	ctx := context.Background()
	r := NewIdentityRepository()
	a, err := r.Create(ctx, &domain.Identity{Email: "a@x.com"})
	require.NoError(t, err)
	_, err = r.Create(ctx, &domain.Identity{Email: "b@x.com"})
	require.NoError(t, err)

	taken, err := r.EmailTaken(ctx, "a@x.com", a.ID)
	require.NoError(t, err)
	assert.False(t, taken)

	taken, err = r.EmailTaken(ctx, "b@x.com", a.ID)
	require.NoError(t, err)
	assert.True(t, taken)
}

func TestDepartmentRepository_Membership(t *testing.T) {
	ctx := context.Background()
	ids := NewIdentityRepository()
	a, _ := ids.Create(ctx, &domain.Identity{Email: "a@x.com", Firstname: "Ada"})
	b, _ := ids.Create(ctx, &domain.Identity{Email: "b@x.com", Firstname: "Bob"})

	r := NewDepartmentRepository(ids)
	dept, err := r.Create(ctx, "Payroll")
	require.NoError(t, err)

	added, err := r.AddMembers(ctx, dept.ID, []int64{a.ID, b.ID, 404})
	require.NoError(t, err)
	require.Len(t, added, 2)
	assert.Equal(t, "Ada", added[0].Firstname)

	again, err := r.AddMembers(ctx, dept.ID, []int64{a.ID})
	require.NoError(t, err)
	assert.Empty(t, again)

	removed, err := r.RemoveMembers(ctx, dept.ID, []int64{b.ID, 404})
	require.NoError(t, err)
	require.Len(t, removed, 1)
	assert.Equal(t, b.ID, removed[0].ID)

	members, err := r.Members(ctx, dept.ID)
	require.NoError(t, err)
	require.Len(t, members, 1)
	assert.Equal(t, a.ID, members[0].ID)

	_, err = r.FindByID(ctx, 77)
	assert.True(t, errors.Is(err, domain.ErrDepartmentNotFound))
}
