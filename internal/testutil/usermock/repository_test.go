package usermock

import (
	"context"
	"testing"

	domain "loan-portal/internal/domain/user"
)

var _ domain.Repository = (*Repo)(nil)

func TestRepo_Defaults(t *testing.T) {
	ctx := context.Background()
	m := &Repo{}
	if err := m.Create(ctx, &domain.User{}); err != nil {
		t.Fatalf("Create default: %v", err)
	}
	if u, err := m.GetByID(ctx, 1); err != context.Canceled || u != nil {
		t.Fatalf("GetByID default: %v %v", u, err)
	}
	if u, err := m.GetByEmail(ctx, "a@b.c"); err != context.Canceled || u != nil {
		t.Fatalf("GetByEmail default: %v %v", u, err)
	}
	if n, err := m.Count(ctx); err != nil || n != 0 {
		t.Fatalf("Count default: %d %v", n, err)
	}
}

func TestRepo_UsesFns(t *testing.T) {
	ctx := context.Background()
	m := &Repo{
		GetByEmailFn: func(_ context.Context, email string) (*domain.User, error) {
			return &domain.User{ID: 3, Email: email}, nil
		},
		CountFn: func(context.Context) (int64, error) { return 12, nil },
	}
	u, err := m.GetByEmail(ctx, "jane@example.com")
	if err != nil || u.ID != 3 || u.Email != "jane@example.com" {
		t.Fatalf("GetByEmail: %+v %v", u, err)
	}
	if n, _ := m.Count(ctx); n != 12 {
		t.Fatalf("Count = %d", n)
	}
}
