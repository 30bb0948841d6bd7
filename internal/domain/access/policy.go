// Package access decides which principal may perform which action. Every use
// case calls Authorize before touching storage.
package access

import (
	"fmt"

	"loan-portal/internal/domain/apperr"
	"loan-portal/internal/domain/user"
)

// Principal is the authenticated caller. A nil *Principal is anonymous.
type Principal struct {
	ID   uint64
	Role user.Role
}

func (p *Principal) IsAdmin() bool { return p != nil && p.Role == user.RoleAdministrator }

type Action int

const (
	CreateApplication Action = iota
	ListOwnApplications
	ListAllApplications
	ReadApplication
	ReviewApplication
	ViewOverview
)

func (a Action) String() string {
	switch a {
	case CreateApplication:
		return "create application"
	case ListOwnApplications:
		return "list own applications"
	case ListAllApplications:
		return "list all applications"
	case ReadApplication:
		return "read application"
	case ReviewApplication:
		return "review application"
	case ViewOverview:
		return "view overview"
	}
	return fmt.Sprintf("action(%d)", int(a))
}

var (
	ErrAdminRequired = fmt.Errorf("administrator access required: %w", apperr.ErrForbidden)
	ErrNotOwner      = fmt.Errorf("unauthorized to access this application: %w", apperr.ErrForbidden)
)

// Authorize checks a capability. ownerID is only consulted for ReadApplication.
func Authorize(p *Principal, action Action, ownerID uint64) error {
	if p == nil {
		return apperr.ErrUnauthenticated
	}
	switch p.Role {
	case user.RoleAdministrator:
		return nil
	case user.RoleBorrower:
		switch action {
		case CreateApplication, ListOwnApplications:
			return nil
		case ReadApplication:
			if ownerID == p.ID {
				return nil
			}
			return ErrNotOwner
		case ListAllApplications, ReviewApplication, ViewOverview:
			return ErrAdminRequired
		}
		return fmt.Errorf("%s: %w", action, apperr.ErrForbidden)
	}
	return fmt.Errorf("role %q: %w", p.Role, apperr.ErrForbidden)
}

// RequireAdmin is Authorize for admin-only actions.
func RequireAdmin(p *Principal, action Action) error { return Authorize(p, action, 0) }
