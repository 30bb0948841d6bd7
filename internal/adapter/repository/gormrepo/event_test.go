package gormrepo

import (
	"context"
	"testing"
	"time"

	"loan-portal/internal/domain/loan"
	"loan-portal/internal/domain/user"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEventRepository(t *testing.T) {
	gdb := openTestDB(t)
	repo := NewEventRepository(gdb)
	ctx := context.Background()
	owner := seedUser(t, gdb, "Ann", "ann@example.com", user.RoleBorrower)
	adm := seedUser(t, gdb, "Root", "root@example.com", user.RoleAdministrator)
	a := seedApplication(t, gdb, owner.ID, loan.StatusPending, t0)
	b := seedApplication(t, gdb, owner.ID, loan.StatusPending, t0)

	require.NoError(t, repo.Create(ctx, &loan.Event{
		ApplicationID: a.ID, ActorID: &owner.ID, ActorRole: user.RoleBorrower,
		Type: loan.EventApplicationCreated, Detail: loan.CreatedDetail, CreatedAt: t0,
	}))
	require.NoError(t, repo.CreateBatch(ctx, []loan.Event{
		{ApplicationID: a.ID, ActorID: &adm.ID, ActorRole: user.RoleAdministrator, Type: loan.EventStatusUpdate, Detail: loan.StatusDetail(loan.StatusApproved), CreatedAt: t0.Add(time.Minute)},
		{ApplicationID: b.ID, ActorID: &adm.ID, ActorRole: user.RoleAdministrator, Type: loan.EventStatusUpdate, Detail: loan.StatusDetail(loan.StatusApproved), CreatedAt: t0.Add(time.Minute)},
	}))
	require.NoError(t, repo.CreateBatch(ctx, nil))

	evs, err := repo.ListByApplication(ctx, a.ID)
	require.NoError(t, err)
	require.Len(t, evs, 2)
	assert.Equal(t, loan.EventStatusUpdate, evs[0].Type, "newest first")
	assert.Equal(t, loan.EventApplicationCreated, evs[1].Type)

	recent, err := repo.ListRecent(ctx, 2)
	require.NoError(t, err)
	require.Len(t, recent, 2)
	require.NotNil(t, recent[0].Actor)
	assert.Equal(t, "Root", recent[0].Actor.Name)
	assert.Equal(t, b.ID, recent[0].ApplicationID, "ties break on id")
}

func TestEventsCascadeWithApplication(t *testing.T) {
	gdb := openTestDB(t)
	repo := NewEventRepository(gdb)
	ctx := context.Background()
	owner := seedUser(t, gdb, "Ann", "ann@example.com", user.RoleBorrower)
	a := seedApplication(t, gdb, owner.ID, loan.StatusPending, t0)
	require.NoError(t, repo.Create(ctx, &loan.Event{ApplicationID: a.ID, Type: loan.EventApplicationCreated, CreatedAt: t0}))

	require.NoError(t, gdb.Delete(&loan.Application{}, a.ID).Error)

	evs, err := repo.ListByApplication(ctx, a.ID)
	require.NoError(t, err)
	assert.Empty(t, evs)
}

func TestEventActorNulledWhenUserDeleted(t *testing.T) {
	gdb := openTestDB(t)
	repo := NewEventRepository(gdb)
	ctx := context.Background()
	owner := seedUser(t, gdb, "Ann", "ann@example.com", user.RoleBorrower)
	adm := seedUser(t, gdb, "Root", "root@example.com", user.RoleAdministrator)
	a := seedApplication(t, gdb, owner.ID, loan.StatusPending, t0)
	require.NoError(t, repo.Create(ctx, &loan.Event{ApplicationID: a.ID, ActorID: &adm.ID, ActorRole: user.RoleAdministrator, Type: loan.EventAdminNote, Detail: "hi", CreatedAt: t0}))

	require.NoError(t, gdb.Delete(&user.User{}, adm.ID).Error)

	recent, err := repo.ListRecent(ctx, 10)
	require.NoError(t, err)
	require.Len(t, recent, 1)
	assert.Nil(t, recent[0].ActorID)
	assert.Nil(t, recent[0].Actor)
	assert.Equal(t, user.RoleAdministrator, recent[0].ActorRole)
}
