package loan

import (
	"fmt"
	"strings"
	"time"

	"loan-portal/internal/domain/apperr"
	"loan-portal/internal/domain/eligibility"
	"loan-portal/internal/domain/user"
)

var ErrNotFound = fmt.Errorf("application %w", apperr.ErrNotFound)

type Status string

const (
	StatusPending  Status = "Pending"
	StatusApproved Status = "Approved"
	StatusRejected Status = "Rejected"
)

var Statuses = []Status{StatusPending, StatusApproved, StatusRejected}

// ParseStatus accepts exactly the recognized values.
func ParseStatus(s string) (Status, error) {
	for _, st := range Statuses {
		if string(st) == strings.TrimSpace(s) {
			return st, nil
		}
	}
	return "", apperr.Invalid("status", "must be one of Pending, Approved, Rejected")
}

// Table: loan_applications. Financial terms and the eligibility preview are
// written once on create; reviews only touch status, admin_notes, updated_at.
type Application struct {
	ID              uint64               `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	UserID          uint64               `gorm:"column:user_id;not null;index:idx_loans_user_id" json:"user_id"`
	User            *user.User           `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
	Amount          int64                `gorm:"column:amount;not null" json:"amount"`
	Tenure          int                  `gorm:"column:tenure;not null" json:"tenure"`
	Income          int64                `gorm:"column:income;not null" json:"income"`
	Employment      string               `gorm:"column:employment;size:80;not null" json:"employment"`
	Purpose         string               `gorm:"column:purpose;size:80;not null" json:"purpose"`
	Collateral      *string              `gorm:"column:collateral;size:200" json:"collateral"`
	Notes           *string              `gorm:"column:notes;type:text" json:"notes"`
	AnnualRate      float64              `gorm:"column:annual_rate;not null" json:"annual_rate"`
	MonthlyEMI      int64                `gorm:"column:monthly_emi;not null" json:"monthly_emi"`
	EligiblePreview bool                 `gorm:"column:eligible_preview;not null" json:"eligible_preview"`
	PreviewReasons  []eligibility.Reason `gorm:"column:preview_reasons;type:text;serializer:json" json:"preview_reasons"`
	Status          Status               `gorm:"column:status;size:16;not null;default:Pending;index:idx_loans_status_created,priority:1" json:"status"`
	AdminNotes      *string              `gorm:"column:admin_notes;type:text" json:"admin_notes"`
	CreatedAt       time.Time            `gorm:"column:created_at;index:idx_loans_status_created,priority:2" json:"created_at"`
	UpdatedAt       time.Time            `gorm:"column:updated_at" json:"updated_at"`
}

func (Application) TableName() string { return "loan_applications" }

// NoteTimeLayout stamps appended admin notes (UTC, millisecond precision).
const NoteTimeLayout = "2006-01-02T15:04:05.000Z"

const noteSeparator = " — "

// SetStatus applies a status review. A non-empty note replaces AdminNotes.
func (a *Application) SetStatus(st Status, note string, at time.Time) {
	a.Status = st
	if note != "" {
		n := note
		a.AdminNotes = &n
	}
	a.UpdatedAt = at
}

// AppendNote adds a timestamped line below any existing admin notes.
func (a *Application) AppendNote(note string, at time.Time) {
	line := at.UTC().Format(NoteTimeLayout) + noteSeparator + note
	if a.AdminNotes != nil && *a.AdminNotes != "" {
		line = *a.AdminNotes + "\n" + line
	}
	a.AdminNotes = &line
	a.UpdatedAt = at
}

type EventType string

const (
	EventApplicationCreated EventType = "application_created"
	EventStatusUpdate       EventType = "status_update"
	EventAdminNote          EventType = "admin_note"
)

// Table: loan_events. Append-only.
type Event struct {
	ID            uint64       `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	ApplicationID uint64       `gorm:"column:application_id;not null;index:idx_events_application_id,priority:1" json:"application_id"`
	Application   *Application `gorm:"foreignKey:ApplicationID;constraint:OnDelete:CASCADE" json:"-"`
	ActorID       *uint64      `gorm:"column:actor_id" json:"actor_id"`
	Actor         *user.User   `gorm:"foreignKey:ActorID;constraint:OnDelete:SET NULL" json:"-"`
	ActorRole     user.Role    `gorm:"column:actor_role;size:16" json:"actor_role"`
	Type          EventType    `gorm:"column:event_type;size:32;not null" json:"event_type"`
	Detail        string       `gorm:"column:detail;type:text" json:"detail"`
	CreatedAt     time.Time    `gorm:"column:created_at;index:idx_events_application_id,priority:2;index:idx_events_created" json:"created_at"`
}

func (Event) TableName() string { return "loan_events" }

func StatusDetail(st Status) string { return "Status changed to " + string(st) }

const CreatedDetail = "Loan application submitted"
