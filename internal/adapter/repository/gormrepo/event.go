package gormrepo

import (
	"context"

	loanDomain "loan-portal/internal/domain/loan"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// EventRepository only ever inserts and reads.
type EventRepository struct{ db *gorm.DB }

func NewEventRepository(db *gorm.DB) *EventRepository { return &EventRepository{db: db} }

func (r *EventRepository) Create(ctx context.Context, e *loanDomain.Event) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(e).Error
}

func (r *EventRepository) CreateBatch(ctx context.Context, es []loanDomain.Event) error {
	if len(es) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Omit(clause.Associations).CreateInBatches(es, 100).Error
}

func (r *EventRepository) ListByApplication(ctx context.Context, applicationID uint64) ([]loanDomain.Event, error) {
	var out []loanDomain.Event
	err := r.db.WithContext(ctx).
		Where("application_id = ?", applicationID).
		Order("created_at DESC, id DESC").
		Find(&out).Error
	return out, err
}

func (r *EventRepository) ListRecent(ctx context.Context, limit int) ([]loanDomain.Event, error) {
	var out []loanDomain.Event
	err := r.db.WithContext(ctx).
		Preload("Actor").
		Order("created_at DESC, id DESC").
		Limit(limit).
		Find(&out).Error
	return out, err
}
