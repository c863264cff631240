package user

import (
	"context"
	"testing"

	"github.com/kpata360-rgb/workisready-backend1/internal/common"
	"github.com/kpata360-rgb/workisready-backend1/internal/platform/database/dbtest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newUser(email string) *User {
	return &User{Email: email, PasswordHash: "x", FullName: "Ama Mensah", Role: common.RoleClient}
}

func TestRepository_CreateAndFind(t *testing.T) {
	repo := NewGORMRepository(dbtest.Open(t, &User{}))
	ctx := context.Background()

	u := newUser("  Ama@Example.com ")
	require.NoError(t, repo.Create(ctx, u))
	assert.NotEqual(t, "", u.ID.String())

	found, err := repo.FindByEmail(ctx, "AMA@example.com")
	require.NoError(t, err)
	assert.Equal(t, u.ID, found.ID)
	assert.Equal(t, "ama@example.com", found.Email)

	_, err = repo.FindByEmail(ctx, "nobody@example.com")
	assert.ErrorIs(t, err, common.ErrNotFound)
}

func TestRepository_UniqueEmailIsConflict(t *testing.T) {
	repo := NewGORMRepository(dbtest.Open(t, &User{}))
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, newUser("kofi@example.com")))
	err := repo.Create(ctx, newUser("KOFI@example.com"))
	assert.ErrorIs(t, err, common.ErrConflict)
}

func TestRepository_AbsentPhonesDoNotCollide(t *testing.T) {
	repo := NewGORMRepository(dbtest.Open(t, &User{}))
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, newUser("a@example.com")))
	require.NoError(t, repo.Create(ctx, newUser("b@example.com")))

	withPhone := newUser("c@example.com")
	withPhone.Phone = OptionalString("0244000000")
	require.NoError(t, repo.Create(ctx, withPhone))

	dup := newUser("d@example.com")
	dup.Phone = OptionalString("0244000000")
	assert.ErrorIs(t, repo.Create(ctx, dup), common.ErrConflict)
}

func TestRepository_List(t *testing.T) {
	repo := NewGORMRepository(dbtest.Open(t, &User{}))
	ctx := context.Background()

	for _, email := range []string{"a@example.com", "b@example.com", "c@example.com"} {
		require.NoError(t, repo.Create(ctx, newUser(email)))
	}
	p := newUser("p@example.com")
	p.Role = common.RoleProvider
	require.NoError(t, repo.Create(ctx, p))

	users, total, err := repo.List(ctx, AdminListQuery{Role: common.RoleClient, Page: 1, Limit: 2})
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
	assert.Len(t, users, 2)

	users, total, err = repo.List(ctx, AdminListQuery{Search: "P@EX"})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	assert.Equal(t, p.ID, users[0].ID)
}
