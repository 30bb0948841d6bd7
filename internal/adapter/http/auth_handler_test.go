package http

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"loan-portal/internal/adapter/middleware"
	"loan-portal/internal/domain/user"
	"loan-portal/internal/infrastructure/security"
	"loan-portal/internal/testutil/eventmock"
	"loan-portal/internal/testutil/loanmock"
	"loan-portal/internal/testutil/usermock"

	"gorm.io/gorm"
)

func memUsers(t *testing.T) *usermock.Repo {
	t.Helper()
	byEmail := map[string]*user.User{}
	return &usermock.Repo{
		CreateFn: func(_ context.Context, u *user.User) error {
			u.ID = uint64(len(byEmail) + 1)
			byEmail[u.Email] = u
			return nil
		},
		GetByEmailFn: func(_ context.Context, email string) (*user.User, error) {
			if u, ok := byEmail[email]; ok {
				return u, nil
			}
			return nil, gorm.ErrRecordNotFound
		},
		GetByIDFn: func(_ context.Context, id uint64) (*user.User, error) {
			for _, u := range byEmail {
				if u.ID == id {
					return u, nil
				}
			}
			return nil, gorm.ErrRecordNotFound
		},
	}
}

func sessionCookie(rec interface{ Result() *http.Response }) *http.Cookie {
	for _, ck := range rec.Result().Cookies() {
		if ck.Name == middleware.SessionCookie {
			return ck
		}
	}
	return nil
}

func TestRegisterLoginLogout(t *testing.T) {
	users := memUsers(t)
	r := testRoutes(t, users, &loanmock.Repo{}, &eventmock.Repo{})

	reg := map[string]string{"name": "Ann Lee", "email": "Ann@Example.com", "password": "secret-pass"}
	rec := serve(t, r, nil, http.MethodPost, "/api/auth/register", mustJSON(reg))
	if rec.Code != http.StatusCreated {
		t.Fatalf("register => %d %s", rec.Code, rec.Body.String())
	}
	var s sessionResp
	if err := json.Unmarshal(rec.Body.Bytes(), &s); err != nil {
		t.Fatalf("bad json: %v", err)
	}
	if s.User.Email != "ann@example.com" || s.User.Role != user.RoleBorrower || s.Token == "" {
		t.Fatalf("session = %+v", s)
	}
	ck := sessionCookie(rec)
	if ck == nil || ck.Value != s.Token || !ck.HttpOnly {
		t.Fatalf("cookie = %+v", ck)
	}

	if rec := serve(t, r, nil, http.MethodPost, "/api/auth/register", mustJSON(reg)); rec.Code != http.StatusConflict {
		t.Fatalf("duplicate => %d", rec.Code)
	}

	rec = serve(t, r, nil, http.MethodPost, "/api/auth/login", mustJSON(map[string]string{"email": "ann@example.com", "password": "secret-pass"}))
	if rec.Code != http.StatusOK || sessionCookie(rec) == nil {
		t.Fatalf("login => %d", rec.Code)
	}

	rec = serve(t, r, nil, http.MethodPost, "/api/auth/login", mustJSON(map[string]string{"email": "ann@example.com", "password": "wrong-pass"}))
	if rec.Code != http.StatusUnauthorized || decodeError(t, rec).Error != "invalid credentials" {
		t.Fatalf("bad login => %d %s", rec.Code, rec.Body.String())
	}

	rec = serve(t, r, nil, http.MethodPost, "/api/auth/logout", nil)
	if rec.Code != http.StatusNoContent {
		t.Fatalf("logout => %d", rec.Code)
	}
	if ck := sessionCookie(rec); ck == nil || ck.MaxAge >= 0 {
		t.Fatalf("logout must expire cookie: %+v", ck)
	}
}

func TestRegister_Validation(t *testing.T) {
	r := testRoutes(t, memUsers(t), &loanmock.Repo{}, &eventmock.Repo{})
	rec := serve(t, r, nil, http.MethodPost, "/api/auth/register", mustJSON(map[string]string{
		"name": "A", "email": "not-an-email", "phone": "12", "password": "short",
	}))
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("=> %d", rec.Code)
	}
	er := decodeError(t, rec)
	for _, f := range []string{"name", "email", "phone", "password"} {
		found := false
		for _, d := range er.Details {
			if d.Field == f {
				found = true
			}
		}
		if !found {
			t.Fatalf("missing %s in %+v", f, er.Details)
		}
	}
}

func TestMe(t *testing.T) {
	users := memUsers(t)
	hash, _ := security.HashPassword("pw-123456")
	_ = users.Create(context.Background(), &user.User{Name: "Ann", Email: "ann@example.com", PasswordHash: hash, Role: user.RoleBorrower})
	r := testRoutes(t, users, &loanmock.Repo{}, &eventmock.Repo{})

	rec := serve(t, r, nil, http.MethodGet, "/api/auth/me", nil)
	if rec.Code != http.StatusOK || rec.Body.String() != "{\"user\":null}\n" {
		t.Fatalf("anonymous me => %d %q", rec.Code, rec.Body.String())
	}

	rec = serve(t, r, borrowerWithID(1), http.MethodGet, "/api/auth/me", nil)
	var body struct {
		User struct {
			Email string `json:"email"`
		} `json:"user"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil || body.User.Email != "ann@example.com" {
		t.Fatalf("me => %d %s", rec.Code, rec.Body.String())
	}
}
