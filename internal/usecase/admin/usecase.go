package admin

import (
	"context"

	"loan-portal/internal/domain/access"
	"loan-portal/internal/domain/loan"
	"loan-portal/internal/domain/user"
	"loan-portal/internal/usecase/application"
)

type Totals struct {
	Users        int64 `json:"users"`
	Applications int64 `json:"applications"`
	Pending      int64 `json:"pending"`
	Approved     int64 `json:"approved"`
	Rejected     int64 `json:"rejected"`
}

type OverviewDTO struct {
	Totals             Totals                       `json:"totals"`
	RecentApplications []application.ApplicationDTO `json:"recentApplications"`
	RecentEvents       []application.EventDTO       `json:"recentEvents"`
}

type Usecase struct {
	users        user.Repository
	apps         loan.Repository
	events       loan.EventRepository
	recentApps   int
	recentEvents int
}

func NewUsecase(users user.Repository, apps loan.Repository, events loan.EventRepository, recentApps, recentEvents int) *Usecase {
	return &Usecase{users: users, apps: apps, events: events, recentApps: recentApps, recentEvents: recentEvents}
}

// Overview aggregates counts with the newest applications and events.
func (u *Usecase) Overview(ctx context.Context, p *access.Principal) (*OverviewDTO, error) {
	if err := access.RequireAdmin(p, access.ViewOverview); err != nil {
		return nil, err
	}

	users, err := u.users.Count(ctx)
	if err != nil {
		return nil, err
	}
	totals, err := u.apps.Totals(ctx)
	if err != nil {
		return nil, err
	}
	apps, err := u.apps.List(ctx, loan.Filter{Limit: u.recentApps})
	if err != nil {
		return nil, err
	}
	events, err := u.events.ListRecent(ctx, u.recentEvents)
	if err != nil {
		return nil, err
	}

	return &OverviewDTO{
		Totals: Totals{
			Users:        users,
			Applications: totals.Total,
			Pending:      totals.Pending,
			Approved:     totals.Approved,
			Rejected:     totals.Rejected,
		},
		RecentApplications: application.ToApplicationDTOs(apps),
		RecentEvents:       application.ToEventDTOs(events),
	}, nil
}
