package gormrepo

import (
	"context"
	"time"

	loanDomain "loan-portal/internal/domain/loan"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ApplicationRepository struct{ db *gorm.DB }

func NewApplicationRepository(db *gorm.DB) *ApplicationRepository {
	return &ApplicationRepository{db: db}
}

func (r *ApplicationRepository) Create(ctx context.Context, a *loanDomain.Application) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(a).Error
}

func (r *ApplicationRepository) GetByID(ctx context.Context, id uint64) (*loanDomain.Application, error) {
	var out loanDomain.Application
	res := r.db.WithContext(ctx).Preload("User").Where("id = ?", id).First(&out)
	return &out, res.Error
}

func (r *ApplicationRepository) GetByIDForUpdate(ctx context.Context, id uint64) (*loanDomain.Application, error) {
	var out loanDomain.Application
	res := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ?", id).
		First(&out)
	return &out, res.Error
}

func (r *ApplicationRepository) SaveReview(ctx context.Context, a *loanDomain.Application) error {
	res := r.db.WithContext(ctx).
		Model(&loanDomain.Application{}).
		Where("id = ?", a.ID).
		Updates(map[string]any{
			"status":      a.Status,
			"admin_notes": a.AdminNotes,
			"updated_at":  a.UpdatedAt,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *ApplicationRepository) List(ctx context.Context, f loanDomain.Filter) ([]loanDomain.Application, error) {
	q := r.db.WithContext(ctx).
		Model(&loanDomain.Application{}).
		Preload("User").
		Joins("JOIN users ON users.id = loan_applications.user_id")
	if f.UserID != nil {
		q = q.Where("loan_applications.user_id = ?", *f.UserID)
	}
	if f.Status != "" {
		q = q.Where("loan_applications.status = ?", f.Status)
	}
	if f.Search != "" {
		like := "%" + f.Search + "%"
		q = q.Where("(users.email LIKE ? OR users.name LIKE ? OR CAST(loan_applications.id AS CHAR) LIKE ?)", like, like, like)
	}
	if f.Limit > 0 {
		q = q.Limit(f.Limit)
	}
	var out []loanDomain.Application
	err := q.Order("loan_applications.created_at DESC, loan_applications.id DESC").Find(&out).Error
	return out, err
}

func (r *ApplicationRepository) ExistingIDs(ctx context.Context, ids []uint64) ([]uint64, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var out []uint64
	err := r.db.WithContext(ctx).
		Model(&loanDomain.Application{}).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id IN ?", ids).
		Order("id").
		Pluck("id", &out).Error
	return out, err
}

func (r *ApplicationRepository) UpdateStatusBatch(ctx context.Context, ids []uint64, st loanDomain.Status, at time.Time) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	res := r.db.WithContext(ctx).
		Model(&loanDomain.Application{}).
		Where("id IN ?", ids).
		Updates(map[string]any{"status": st, "updated_at": at})
	return res.RowsAffected, res.Error
}

func (r *ApplicationRepository) Totals(ctx context.Context) (loanDomain.Totals, error) {
	var rows []struct {
		Status loanDomain.Status
		N      int64
	}
	err := r.db.WithContext(ctx).
		Model(&loanDomain.Application{}).
		Select("status, COUNT(*) AS n").
		Group("status").
		Scan(&rows).Error
	if err != nil {
		return loanDomain.Totals{}, err
	}
	var t loanDomain.Totals
	for _, row := range rows {
		t.Total += row.N
		switch row.Status {
		case loanDomain.StatusPending:
			t.Pending = row.N
		case loanDomain.StatusApproved:
			t.Approved = row.N
		case loanDomain.StatusRejected:
			t.Rejected = row.N
		}
	}
	return t, nil
}
