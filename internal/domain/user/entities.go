package user

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"loan-portal/internal/domain/apperr"
)

var (
	ErrNotFound           = fmt.Errorf("user %w", apperr.ErrNotFound)
	ErrEmailTaken         = fmt.Errorf("an account with this email already exists: %w", apperr.ErrConflict)
	ErrInvalidCredentials = fmt.Errorf("invalid credentials: %w", apperr.ErrUnauthenticated)
	ErrUnknownRole        = errors.New("unknown role")
)

type Role string

const (
	RoleBorrower      Role = "borrower"
	RoleAdministrator Role = "admin"
)

// ParseRole accepts the stored values plus the legacy "user" spelling.
func ParseRole(s string) (Role, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "borrower", "user":
		return RoleBorrower, nil
	case "admin", "administrator":
		return RoleAdministrator, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownRole, s)
}

const DefaultEmployment = "unspecified"

// Table: users
type User struct {
	ID           uint64    `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	Name         string    `gorm:"column:name;size:120;not null" json:"name"`
	Email        string    `gorm:"column:email;size:255;not null;uniqueIndex:ux_users_email" json:"email"`
	Phone        *string   `gorm:"column:phone;size:20" json:"phone"`
	Employment   string    `gorm:"column:employment;size:80" json:"employment"`
	PasswordHash string    `gorm:"column:password_hash;size:255;not null" json:"-"`
	Role         Role      `gorm:"column:role;size:16;not null;default:borrower" json:"role"`
	CreatedAt    time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt    time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

func (User) TableName() string { return "users" }

// NormalizeEmail is the canonical form used for uniqueness and lookup.
func NormalizeEmail(email string) string { return strings.ToLower(strings.TrimSpace(email)) }
