package gormrepo

import (
	"context"
	"testing"
	"time"

	"loan-portal/internal/domain/loan"
	"loan-portal/internal/domain/user"
	"loan-portal/internal/infrastructure/db"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

var t0 = time.Date(2024, 3, 1, 8, 0, 0, 0, time.UTC)

// openTestDB returns a migrated in-memory sqlite database on a single connection.
func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	gdb, err := db.OpenGormWithDialector(sqlite.Open("file::memory:?_foreign_keys=on"))
	require.NoError(t, err)
	require.NoError(t, db.Migrate(gdb))
	t.Cleanup(func() {
		if sqlDB, err := gdb.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return gdb
}

func seedUser(t *testing.T, gdb *gorm.DB, name, email string, role user.Role) *user.User {
	t.Helper()
	u := &user.User{Name: name, Email: email, PasswordHash: "x", Role: role, Employment: user.DefaultEmployment}
	require.NoError(t, NewUserRepository(gdb).Create(context.Background(), u))
	return u
}

func seedApplication(t *testing.T, gdb *gorm.DB, owner uint64, st loan.Status, at time.Time) *loan.Application {
	t.Helper()
	a := &loan.Application{
		UserID:     owner,
		Amount:     500000,
		Tenure:     12,
		Income:     150000,
		Employment: "Full-time",
		Purpose:    "Education",
		AnnualRate: 0.125,
		MonthlyEMI: 44542,
		Status:     st,
		CreatedAt:  at,
		UpdatedAt:  at,
	}
	require.NoError(t, NewApplicationRepository(gdb).Create(context.Background(), a))
	return a
}
