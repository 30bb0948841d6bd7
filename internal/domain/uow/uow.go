package uow

import (
	"context"

	"loan-portal/internal/domain/loan"
	"loan-portal/internal/domain/user"
)

// Repos are bound to one transaction.
type Repos struct {
	Users        user.Repository
	Applications loan.Repository
	Events       loan.EventRepository
}

type UnitOfWork interface {
	// plain tx
	WithinTx(ctx context.Context, fn func(r Repos) error) error
	// lock the application row first, then pass it in
	WithinApplicationTx(ctx context.Context, applicationID uint64, fn func(r Repos, a *loan.Application) error) error
}
