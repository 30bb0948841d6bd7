package application

import (
	"context"
	"errors"
	"strings"
	"time"
	"unicode/utf8"

	"loan-portal/internal/domain/access"
	"loan-portal/internal/domain/apperr"
	"loan-portal/internal/domain/eligibility"
	"loan-portal/internal/domain/loan"
	"loan-portal/internal/domain/uow"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Recorder receives domain counters. *metrics.Metrics satisfies it.
type Recorder interface {
	ApplicationSubmitted(eligible bool)
	EventsAppended(eventType string, n int)
	BatchUpdated(rows int64)
}

type nopRecorder struct{}

func (nopRecorder) ApplicationSubmitted(bool)  {}
func (nopRecorder) EventsAppended(string, int) {}
func (nopRecorder) BatchUpdated(int64)         {}

type Usecase struct {
	apps      loan.Repository
	events    loan.EventRepository
	tx        uow.UnitOfWork
	minAmount int64
	rec       Recorder
	log       *zap.Logger
	now       func() time.Time
}

type Option func(*Usecase)

func WithRecorder(r Recorder) Option { return func(u *Usecase) { u.rec = r } }

func WithLogger(l *zap.Logger) Option { return func(u *Usecase) { u.log = l } }

func WithClock(now func() time.Time) Option { return func(u *Usecase) { u.now = now } }

func NewUsecase(apps loan.Repository, events loan.EventRepository, tx uow.UnitOfWork, minAmount int64, opts ...Option) *Usecase {
	u := &Usecase{
		apps:      apps,
		events:    events,
		tx:        tx,
		minAmount: minAmount,
		rec:       nopRecorder{},
		log:       zap.NewNop(),
		now:       func() time.Time { return time.Now().UTC() },
	}
	for _, o := range opts {
		o(u)
	}
	return u
}

func notFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return loan.ErrNotFound
	}
	return err
}

// Create stores a Pending application with its financial terms and
// eligibility preview, plus the application_created event, atomically.
func (u *Usecase) Create(ctx context.Context, p *access.Principal, in CreateInput) (*ApplicationDTO, error) {
	if err := access.Authorize(p, access.CreateApplication, 0); err != nil {
		return nil, err
	}
	in.normalize()
	if err := in.validate(u.minAmount); err != nil {
		return nil, err
	}

	res := eligibility.Evaluate(eligibility.Input{
		Amount:     in.Amount,
		Tenure:     in.Tenure,
		Income:     in.Income,
		Employment: in.Employment,
		Purpose:    in.Purpose,
	})
	now := u.now()
	a := &loan.Application{
		UserID:          p.ID,
		Amount:          in.Amount,
		Tenure:          in.Tenure,
		Income:          in.Income,
		Employment:      in.Employment,
		Purpose:         in.Purpose,
		Collateral:      optional(in.Collateral),
		Notes:           optional(in.Notes),
		AnnualRate:      res.AnnualRate,
		MonthlyEMI:      res.Installment,
		EligiblePreview: res.Eligible,
		PreviewReasons:  res.Reasons,
		Status:          loan.StatusPending,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	err := u.tx.WithinTx(ctx, func(r uow.Repos) error {
		if err := r.Applications.Create(ctx, a); err != nil {
			return err
		}
		actor := p.ID
		return r.Events.Create(ctx, &loan.Event{
			ApplicationID: a.ID,
			ActorID:       &actor,
			ActorRole:     p.Role,
			Type:          loan.EventApplicationCreated,
			Detail:        loan.CreatedDetail,
			CreatedAt:     now,
		})
	})
	if err != nil {
		return nil, err
	}

	u.rec.ApplicationSubmitted(res.Eligible)
	u.rec.EventsAppended(string(loan.EventApplicationCreated), 1)
	u.log.Info("application submitted",
		zap.Uint64("application_id", a.ID),
		zap.Uint64("user_id", p.ID),
		zap.Bool("eligible_preview", res.Eligible),
	)
	dto := ToApplicationDTO(a, false)
	return &dto, nil
}

// List returns the caller's own applications, or every application for an
// administrator. Status and search filters apply to administrators only.
func (u *Usecase) List(ctx context.Context, p *access.Principal, in ListInput) ([]ApplicationDTO, error) {
	if p.IsAdmin() {
		if err := access.Authorize(p, access.ListAllApplications, 0); err != nil {
			return nil, err
		}
		f := loan.Filter{Search: strings.TrimSpace(in.Search)}
		if s := strings.TrimSpace(in.Status); s != "" {
			st, err := loan.ParseStatus(s)
			if err != nil {
				return nil, err
			}
			f.Status = st
		}
		list, err := u.apps.List(ctx, f)
		if err != nil {
			return nil, err
		}
		return ToApplicationDTOs(list), nil
	}

	if err := access.Authorize(p, access.ListOwnApplications, 0); err != nil {
		return nil, err
	}
	owner := p.ID
	list, err := u.apps.List(ctx, loan.Filter{UserID: &owner})
	if err != nil {
		return nil, err
	}
	return ToApplicationDTOs(list), nil
}

// Get returns the application with its events, newest first. A missing
// application is reported before ownership is checked.
func (u *Usecase) Get(ctx context.Context, p *access.Principal, id uint64) (*DetailDTO, error) {
	if p == nil {
		return nil, apperr.ErrUnauthenticated
	}
	a, err := u.apps.GetByID(ctx, id)
	if err != nil {
		return nil, notFound(err)
	}
	if err := access.Authorize(p, access.ReadApplication, a.UserID); err != nil {
		return nil, err
	}
	events, err := u.events.ListByApplication(ctx, a.ID)
	if err != nil {
		return nil, err
	}
	return &DetailDTO{
		Application: ToApplicationDTO(a, true),
		Events:      ToEventDTOs(events),
	}, nil
}

// UpdateStatus sets the status; a non-empty note replaces the admin notes.
func (u *Usecase) UpdateStatus(ctx context.Context, p *access.Principal, id uint64, in StatusInput) (*ApplicationDTO, error) {
	if err := access.RequireAdmin(p, access.ReviewApplication); err != nil {
		return nil, err
	}
	st, err := loan.ParseStatus(in.Status)
	if err != nil {
		return nil, err
	}
	note := strings.TrimSpace(in.AdminNotes)
	if utf8.RuneCountInString(note) > maxNotes {
		return nil, apperr.Invalid("adminNotes", "must be at most 500 characters")
	}

	var out *loan.Application
	err = u.tx.WithinApplicationTx(ctx, id, func(r uow.Repos, a *loan.Application) error {
		now := u.now()
		a.SetStatus(st, note, now)
		if err := r.Applications.SaveReview(ctx, a); err != nil {
			return err
		}
		out = a
		return r.Events.Create(ctx, u.reviewEvent(p, a.ID, loan.EventStatusUpdate, loan.StatusDetail(st), now))
	})
	if err != nil {
		return nil, notFound(err)
	}

	u.rec.EventsAppended(string(loan.EventStatusUpdate), 1)
	u.log.Info("application status updated",
		zap.Uint64("application_id", id),
		zap.String("status", string(st)),
		zap.Uint64("actor_id", p.ID),
	)
	dto := ToApplicationDTO(out, false)
	return &dto, nil
}

// AddNote appends a timestamped line to the admin notes.
func (u *Usecase) AddNote(ctx context.Context, p *access.Principal, id uint64, in NoteInput) (*ApplicationDTO, error) {
	if err := access.RequireAdmin(p, access.ReviewApplication); err != nil {
		return nil, err
	}
	note := strings.TrimSpace(in.AdminNotes)
	ve := &apperr.ValidationError{}
	lenBetween(ve, "adminNotes", note, 2, maxNotes)
	if err := ve.OrNil(); err != nil {
		return nil, err
	}

	var out *loan.Application
	err := u.tx.WithinApplicationTx(ctx, id, func(r uow.Repos, a *loan.Application) error {
		now := u.now()
		a.AppendNote(note, now)
		if err := r.Applications.SaveReview(ctx, a); err != nil {
			return err
		}
		out = a
		return r.Events.Create(ctx, u.reviewEvent(p, a.ID, loan.EventAdminNote, note, now))
	})
	if err != nil {
		return nil, notFound(err)
	}

	u.rec.EventsAppended(string(loan.EventAdminNote), 1)
	u.log.Info("application note added", zap.Uint64("application_id", id), zap.Uint64("actor_id", p.ID))
	dto := ToApplicationDTO(out, false)
	return &dto, nil
}

// BatchUpdateStatus sets one status on many applications in a single
// transaction. Unknown ids are skipped; the result counts updated rows.
func (u *Usecase) BatchUpdateStatus(ctx context.Context, p *access.Principal, in BatchStatusInput) (int64, error) {
	if err := access.RequireAdmin(p, access.ReviewApplication); err != nil {
		return 0, err
	}
	st, err := loan.ParseStatus(in.Status)
	if err != nil {
		return 0, err
	}
	ids, err := batchIDs(in.IDs)
	if err != nil {
		return 0, err
	}

	var updated int64
	var appended int
	err = u.tx.WithinTx(ctx, func(r uow.Repos) error {
		existing, err := r.Applications.ExistingIDs(ctx, ids)
		if err != nil {
			return err
		}
		if len(existing) == 0 {
			return nil
		}
		now := u.now()
		n, err := r.Applications.UpdateStatusBatch(ctx, existing, st, now)
		if err != nil {
			return err
		}
		events := make([]loan.Event, 0, len(existing))
		for _, appID := range existing {
			events = append(events, *u.reviewEvent(p, appID, loan.EventStatusUpdate, loan.StatusDetail(st), now))
		}
		if err := r.Events.CreateBatch(ctx, events); err != nil {
			return err
		}
		updated, appended = n, len(events)
		return nil
	})
	if err != nil {
		return 0, err
	}

	u.rec.BatchUpdated(updated)
	u.rec.EventsAppended(string(loan.EventStatusUpdate), appended)
	u.log.Info("application batch status update",
		zap.Int("requested", len(ids)),
		zap.Int64("updated", updated),
		zap.String("status", string(st)),
		zap.Uint64("actor_id", p.ID),
	)
	return updated, nil
}

func (u *Usecase) reviewEvent(p *access.Principal, appID uint64, t loan.EventType, detail string, at time.Time) *loan.Event {
	actor := p.ID
	return &loan.Event{
		ApplicationID: appID,
		ActorID:       &actor,
		ActorRole:     p.Role,
		Type:          t,
		Detail:        detail,
		CreatedAt:     at,
	}
}

// batchIDs rejects an empty, oversized or non-positive list and drops duplicates.
func batchIDs(in []uint64) ([]uint64, error) {
	if len(in) == 0 {
		return nil, apperr.Invalid("ids", "must contain at least one id")
	}
	if len(in) > MaxBatchIDs {
		return nil, apperr.Invalid("ids", "must contain at most 500 ids")
	}
	seen := make(map[uint64]struct{}, len(in))
	out := make([]uint64, 0, len(in))
	for _, id := range in {
		if id == 0 {
			return nil, apperr.Invalid("ids", "must be positive integers")
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out, nil
}
