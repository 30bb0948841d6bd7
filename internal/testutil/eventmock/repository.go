package eventmock

import (
	"context"

	domain "loan-portal/internal/domain/loan"
)

// Repo is a function-backed mock that satisfies domain.EventRepository.
// With no CreateFn set, Create and CreateBatch record into Created.
type Repo struct {
	CreateFn            func(ctx context.Context, e *domain.Event) error
	CreateBatchFn       func(ctx context.Context, es []domain.Event) error
	ListByApplicationFn func(ctx context.Context, applicationID uint64) ([]domain.Event, error)
	ListRecentFn        func(ctx context.Context, limit int) ([]domain.Event, error)

	Created []domain.Event
}

func (m *Repo) Create(ctx context.Context, e *domain.Event) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, e)
	}
	e.ID = uint64(len(m.Created) + 1)
	m.Created = append(m.Created, *e)
	return nil
}

func (m *Repo) CreateBatch(ctx context.Context, es []domain.Event) error {
	if m.CreateBatchFn != nil {
		return m.CreateBatchFn(ctx, es)
	}
	m.Created = append(m.Created, es...)
	return nil
}

func (m *Repo) ListByApplication(ctx context.Context, applicationID uint64) ([]domain.Event, error) {
	if m.ListByApplicationFn != nil {
		return m.ListByApplicationFn(ctx, applicationID)
	}
	return nil, nil
}

func (m *Repo) ListRecent(ctx context.Context, limit int) ([]domain.Event, error) {
	if m.ListRecentFn != nil {
		return m.ListRecentFn(ctx, limit)
	}
	return nil, nil
}
