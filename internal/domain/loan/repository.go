package loan

import (
	"context"
	"time"
)

type Filter struct {
	// UserID restricts to one owner when set.
	UserID *uint64
	// Status "" matches any.
	Status Status
	// Search is a substring of applicant name, email or application id.
	Search string
	Limit  int
}

type Totals struct {
	Total    int64
	Pending  int64
	Approved int64
	Rejected int64
}

type Repository interface {
	Create(ctx context.Context, a *Application) error
	// GetByID preloads the owning user.
	GetByID(ctx context.Context, id uint64) (*Application, error)
	GetByIDForUpdate(ctx context.Context, id uint64) (*Application, error)
	// SaveReview persists status, admin_notes and updated_at only.
	SaveReview(ctx context.Context, a *Application) error
	// List returns newest first with owning users preloaded.
	List(ctx context.Context, f Filter) ([]Application, error)
	ExistingIDs(ctx context.Context, ids []uint64) ([]uint64, error)
	UpdateStatusBatch(ctx context.Context, ids []uint64, st Status, at time.Time) (int64, error)
	Totals(ctx context.Context) (Totals, error)
}

type EventRepository interface {
	Create(ctx context.Context, e *Event) error
	CreateBatch(ctx context.Context, es []Event) error
	// ListByApplication returns newest first.
	ListByApplication(ctx context.Context, applicationID uint64) ([]Event, error)
	// ListRecent returns newest first with actors preloaded.
	ListRecent(ctx context.Context, limit int) ([]Event, error)
}
