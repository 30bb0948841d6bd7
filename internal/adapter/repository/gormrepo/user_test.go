package gormrepo

import (
	"context"
	"testing"

	"loan-portal/internal/domain/user"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestUserRepository(t *testing.T) {
	gdb := openTestDB(t)
	repo := NewUserRepository(gdb)
	ctx := context.Background()

	phone := "0812345678"
	u := &user.User{Name: "Ann", Email: "ann@example.com", Phone: &phone, PasswordHash: "hash", Role: user.RoleBorrower}
	require.NoError(t, repo.Create(ctx, u))
	require.NotZero(t, u.ID)

	got, err := repo.GetByEmail(ctx, "ann@example.com")
	require.NoError(t, err)
	assert.Equal(t, u.ID, got.ID)
	require.NotNil(t, got.Phone)
	assert.Equal(t, phone, *got.Phone)

	got, err = repo.GetByID(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, user.RoleBorrower, got.Role)

	_, err = repo.GetByID(ctx, 999)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
	_, err = repo.GetByEmail(ctx, "nobody@example.com")
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)

	dup := &user.User{Name: "Other", Email: "ann@example.com", PasswordHash: "hash", Role: user.RoleBorrower}
	assert.ErrorIs(t, repo.Create(ctx, dup), gorm.ErrDuplicatedKey)

	n, err := repo.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
}
