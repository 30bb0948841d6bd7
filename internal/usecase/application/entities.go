package application

import (
	"time"

	"loan-portal/internal/domain/eligibility"
	"loan-portal/internal/domain/loan"
	"loan-portal/internal/domain/user"
)

type CreateInput struct {
	Amount     int64
	Tenure     int
	Income     int64
	Employment string
	Purpose    string
	Collateral string
	Notes      string
}

type ListInput struct {
	Status string
	Search string
}

type StatusInput struct {
	Status     string
	AdminNotes string
}

type NoteInput struct {
	AdminNotes string
}

type BatchStatusInput struct {
	IDs    []uint64
	Status string
}

type ApplicationDTO struct {
	ID              uint64               `json:"id"`
	UserID          uint64               `json:"userId"`
	UserName        string               `json:"userName,omitempty"`
	UserEmail       string               `json:"userEmail,omitempty"`
	UserPhone       *string              `json:"userPhone,omitempty"`
	Amount          int64                `json:"amount"`
	Tenure          int                  `json:"tenure"`
	Income          int64                `json:"income"`
	Employment      string               `json:"employment"`
	Purpose         string               `json:"purpose"`
	Collateral      *string              `json:"collateral"`
	Notes           *string              `json:"notes"`
	AnnualRate      float64              `json:"annualRate"`
	MonthlyEMI      int64                `json:"monthlyEMI"`
	EligiblePreview bool                 `json:"eligiblePreview"`
	PreviewReasons  []string             `json:"previewReasons"`
	ReasonCodes     []eligibility.Reason `json:"reasonCodes"`
	Status          loan.Status          `json:"status"`
	AdminNotes      *string              `json:"adminNotes"`
	CreatedAt       time.Time            `json:"createdAt"`
	UpdatedAt       time.Time            `json:"updatedAt"`
}

type EventDTO struct {
	ID            uint64         `json:"id"`
	ApplicationID uint64         `json:"applicationId"`
	ActorID       *uint64        `json:"actorId"`
	ActorRole     user.Role      `json:"actorRole"`
	ActorName     string         `json:"actorName,omitempty"`
	EventType     loan.EventType `json:"eventType"`
	Detail        string         `json:"detail"`
	CreatedAt     time.Time      `json:"createdAt"`
}

type DetailDTO struct {
	Application ApplicationDTO `json:"application"`
	Events      []EventDTO     `json:"events"`
}

// ToApplicationDTO includes applicant fields when the owner was preloaded.
func ToApplicationDTO(a *loan.Application, withPhone bool) ApplicationDTO {
	reasons := a.PreviewReasons
	if reasons == nil {
		reasons = []eligibility.Reason{}
	}
	dto := ApplicationDTO{
		ID:              a.ID,
		UserID:          a.UserID,
		Amount:          a.Amount,
		Tenure:          a.Tenure,
		Income:          a.Income,
		Employment:      a.Employment,
		Purpose:         a.Purpose,
		Collateral:      a.Collateral,
		Notes:           a.Notes,
		AnnualRate:      a.AnnualRate,
		MonthlyEMI:      a.MonthlyEMI,
		EligiblePreview: a.EligiblePreview,
		PreviewReasons:  eligibility.Messages(reasons),
		ReasonCodes:     reasons,
		Status:          a.Status,
		AdminNotes:      a.AdminNotes,
		CreatedAt:       a.CreatedAt,
		UpdatedAt:       a.UpdatedAt,
	}
	if a.User != nil {
		dto.UserName = a.User.Name
		dto.UserEmail = a.User.Email
		if withPhone {
			dto.UserPhone = a.User.Phone
		}
	}
	return dto
}

func ToApplicationDTOs(list []loan.Application) []ApplicationDTO {
	out := make([]ApplicationDTO, 0, len(list))
	for i := range list {
		out = append(out, ToApplicationDTO(&list[i], false))
	}
	return out
}

func ToEventDTOs(list []loan.Event) []EventDTO {
	out := make([]EventDTO, 0, len(list))
	for _, e := range list {
		dto := EventDTO{
			ID:            e.ID,
			ApplicationID: e.ApplicationID,
			ActorID:       e.ActorID,
			ActorRole:     e.ActorRole,
			EventType:     e.Type,
			Detail:        e.Detail,
			CreatedAt:     e.CreatedAt,
		}
		if e.Actor != nil {
			dto.ActorName = e.Actor.Name
		}
		out = append(out, dto)
	}
	return out
}
