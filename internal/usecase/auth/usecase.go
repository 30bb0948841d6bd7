package auth

import (
	"context"
	"errors"
	"strings"
	"time"

	"loan-portal/internal/domain/access"
	"loan-portal/internal/domain/apperr"
	"loan-portal/internal/domain/user"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Hasher interface {
	Hash(password string) (string, error)
	Verify(hash, password string) error
}

type Tokens interface {
	Issue(userID uint64, role user.Role) (string, error)
	Parse(token string) (uint64, error)
	TTL() time.Duration
}

type RegisterInput struct {
	Name       string
	Email      string
	Phone      string
	Employment string
	Password   string
}

type LoginInput struct {
	Email    string
	Password string
}

type UserDTO struct {
	ID         uint64    `json:"id"`
	Name       string    `json:"name"`
	Email      string    `json:"email"`
	Phone      *string   `json:"phone"`
	Employment string    `json:"employment"`
	Role       user.Role `json:"role"`
	CreatedAt  time.Time `json:"createdAt"`
}

type Session struct {
	User  UserDTO
	Token string
}

func toDTO(u *user.User) UserDTO {
	return UserDTO{
		ID:         u.ID,
		Name:       u.Name,
		Email:      u.Email,
		Phone:      u.Phone,
		Employment: u.Employment,
		Role:       u.Role,
		CreatedAt:  u.CreatedAt,
	}
}

type Usecase struct {
	users  user.Repository
	hasher Hasher
	tokens Tokens
	log    *zap.Logger
}

func NewUsecase(users user.Repository, hasher Hasher, tokens Tokens, log *zap.Logger) *Usecase {
	if log == nil {
		log = zap.NewNop()
	}
	return &Usecase{users: users, hasher: hasher, tokens: tokens, log: log}
}

func (u *Usecase) TokenTTL() time.Duration { return u.tokens.TTL() }

// Register creates a borrower account and opens a session for it.
func (u *Usecase) Register(ctx context.Context, in RegisterInput) (*Session, error) {
	name := strings.TrimSpace(in.Name)
	email := user.NormalizeEmail(in.Email)
	ve := &apperr.ValidationError{}
	if name == "" {
		ve.Add("name", "is required")
	}
	if email == "" {
		ve.Add("email", "is required")
	}
	if in.Password == "" {
		ve.Add("password", "is required")
	}
	if err := ve.OrNil(); err != nil {
		return nil, err
	}

	_, err := u.users.GetByEmail(ctx, email)
	switch {
	case err == nil:
		return nil, user.ErrEmailTaken
	case !errors.Is(err, gorm.ErrRecordNotFound):
		return nil, err
	}

	hash, err := u.hasher.Hash(in.Password)
	if err != nil {
		return nil, err
	}
	employment := strings.TrimSpace(in.Employment)
	if employment == "" {
		employment = user.DefaultEmployment
	}
	acct := &user.User{
		Name:         name,
		Email:        email,
		Employment:   employment,
		PasswordHash: hash,
		Role:         user.RoleBorrower,
	}
	if phone := strings.TrimSpace(in.Phone); phone != "" {
		acct.Phone = &phone
	}
	if err := u.users.Create(ctx, acct); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, user.ErrEmailTaken
		}
		return nil, err
	}

	u.log.Info("user registered", zap.Uint64("user_id", acct.ID))
	return u.session(acct)
}

// Login never reveals whether the email exists.
func (u *Usecase) Login(ctx context.Context, in LoginInput) (*Session, error) {
	acct, err := u.users.GetByEmail(ctx, user.NormalizeEmail(in.Email))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, user.ErrInvalidCredentials
		}
		return nil, err
	}
	if err := u.hasher.Verify(acct.PasswordHash, in.Password); err != nil {
		return nil, user.ErrInvalidCredentials
	}
	return u.session(acct)
}

func (u *Usecase) session(acct *user.User) (*Session, error) {
	tok, err := u.tokens.Issue(acct.ID, acct.Role)
	if err != nil {
		return nil, err
	}
	return &Session{User: toDTO(acct), Token: tok}, nil
}

// Authenticate resolves a session token. An unknown, expired or orphaned
// token yields a nil principal and no error.
func (u *Usecase) Authenticate(ctx context.Context, token string) (*access.Principal, error) {
	if token == "" {
		return nil, nil
	}
	id, err := u.tokens.Parse(token)
	if err != nil {
		return nil, nil
	}
	acct, err := u.users.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &access.Principal{ID: acct.ID, Role: acct.Role}, nil
}

// Me returns the caller's profile.
func (u *Usecase) Me(ctx context.Context, p *access.Principal) (*UserDTO, error) {
	if p == nil {
		return nil, apperr.ErrUnauthenticated
	}
	acct, err := u.users.GetByID(ctx, p.ID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.ErrUnauthenticated
		}
		return nil, err
	}
	dto := toDTO(acct)
	return &dto, nil
}

// SeedAdmin creates the administrator account once. It reports whether an
// account was created.
func (u *Usecase) SeedAdmin(ctx context.Context, email, password string) (bool, error) {
	email = user.NormalizeEmail(email)
	if email == "" || password == "" {
		return false, nil
	}
	_, err := u.users.GetByEmail(ctx, email)
	switch {
	case err == nil:
		return false, nil
	case !errors.Is(err, gorm.ErrRecordNotFound):
		return false, err
	}
	hash, err := u.hasher.Hash(password)
	if err != nil {
		return false, err
	}
	acct := &user.User{
		Name:         "Administrator",
		Email:        email,
		Employment:   user.DefaultEmployment,
		PasswordHash: hash,
		Role:         user.RoleAdministrator,
	}
	if err := u.users.Create(ctx, acct); err != nil {
		return false, err
	}
	u.log.Info("administrator account seeded", zap.String("email", email))
	return true, nil
}
