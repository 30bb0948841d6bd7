package loanmock

import (
	"context"
	"time"

	domain "loan-portal/internal/domain/loan"
)

// Repo is a function-backed mock that satisfies domain.Repository.
type Repo struct {
	CreateFn            func(ctx context.Context, a *domain.Application) error
	GetByIDFn           func(ctx context.Context, id uint64) (*domain.Application, error)
	GetByIDForUpdateFn  func(ctx context.Context, id uint64) (*domain.Application, error)
	SaveReviewFn        func(ctx context.Context, a *domain.Application) error
	ListFn              func(ctx context.Context, f domain.Filter) ([]domain.Application, error)
	ExistingIDsFn       func(ctx context.Context, ids []uint64) ([]uint64, error)
	UpdateStatusBatchFn func(ctx context.Context, ids []uint64, st domain.Status, at time.Time) (int64, error)
	TotalsFn            func(ctx context.Context) (domain.Totals, error)
}

func (m *Repo) Create(ctx context.Context, a *domain.Application) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, a)
	}
	return nil
}

func (m *Repo) GetByID(ctx context.Context, id uint64) (*domain.Application, error) {
	if m.GetByIDFn != nil {
		return m.GetByIDFn(ctx, id)
	}
	return nil, context.Canceled
}

func (m *Repo) GetByIDForUpdate(ctx context.Context, id uint64) (*domain.Application, error) {
	if m.GetByIDForUpdateFn != nil {
		return m.GetByIDForUpdateFn(ctx, id)
	}
	return nil, context.Canceled
}

func (m *Repo) SaveReview(ctx context.Context, a *domain.Application) error {
	if m.SaveReviewFn != nil {
		return m.SaveReviewFn(ctx, a)
	}
	return nil
}

func (m *Repo) List(ctx context.Context, f domain.Filter) ([]domain.Application, error) {
	if m.ListFn != nil {
		return m.ListFn(ctx, f)
	}
	return nil, nil
}

func (m *Repo) ExistingIDs(ctx context.Context, ids []uint64) ([]uint64, error) {
	if m.ExistingIDsFn != nil {
		return m.ExistingIDsFn(ctx, ids)
	}
	return nil, nil
}

func (m *Repo) UpdateStatusBatch(ctx context.Context, ids []uint64, st domain.Status, at time.Time) (int64, error) {
	if m.UpdateStatusBatchFn != nil {
		return m.UpdateStatusBatchFn(ctx, ids, st, at)
	}
	return int64(len(ids)), nil
}

func (m *Repo) Totals(ctx context.Context) (domain.Totals, error) {
	if m.TotalsFn != nil {
		return m.TotalsFn(ctx)
	}
	return domain.Totals{}, nil
}
