package http

import (
	"net/http"
	"time"

	"loan-portal/internal/adapter/middleware"
	"loan-portal/internal/usecase/auth"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

type AuthHandler struct {
	uc           *auth.Usecase
	log          *zap.Logger
	secureCookie bool
}

func NewAuthHandler(uc *auth.Usecase, log *zap.Logger, secureCookie bool) *AuthHandler {
	return &AuthHandler{uc: uc, log: log, secureCookie: secureCookie}
}

type registerReq struct {
	Name       string `json:"name"       validate:"required,notblank,min=2,max=120"`
	Email      string `json:"email"      validate:"required,email,max=255"`
	Phone      string `json:"phone"      validate:"omitempty,min=7,max=20"`
	Employment string `json:"employment" validate:"omitempty,min=2,max=80"`
	Password   string `json:"password"   validate:"required,min=8,max=128"`
}

type loginReq struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type sessionResp struct {
	User  auth.UserDTO `json:"user"`
	Token string       `json:"token"`
}

func (h *AuthHandler) setCookie(c echo.Context, value string, ttl time.Duration) {
	ck := &http.Cookie{
		Name:     middleware.SessionCookie,
		Value:    value,
		Path:     "/",
		HttpOnly: true,
		Secure:   h.secureCookie,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   int(ttl.Seconds()),
	}
	if ttl <= 0 {
		ck.MaxAge = -1
		ck.Expires = time.Unix(0, 0)
	}
	c.SetCookie(ck)
}

func (h *AuthHandler) Register(c echo.Context) error {
	var req registerReq
	if ok, err := bindAndValidate(c, &req); !ok {
		return err
	}
	s, err := h.uc.Register(c.Request().Context(), auth.RegisterInput(req))
	if err != nil {
		return respondError(c, h.log, err)
	}
	h.setCookie(c, s.Token, h.uc.TokenTTL())
	return c.JSON(http.StatusCreated, sessionResp{User: s.User, Token: s.Token})
}

func (h *AuthHandler) Login(c echo.Context) error {
	var req loginReq
	if ok, err := bindAndValidate(c, &req); !ok {
		return err
	}
	s, err := h.uc.Login(c.Request().Context(), auth.LoginInput(req))
	if err != nil {
		return respondError(c, h.log, err)
	}
	h.setCookie(c, s.Token, h.uc.TokenTTL())
	return c.JSON(http.StatusOK, sessionResp{User: s.User, Token: s.Token})
}

func (h *AuthHandler) Logout(c echo.Context) error {
	h.setCookie(c, "", 0)
	return c.NoContent(http.StatusNoContent)
}

// Me answers {"user": null} for anonymous callers.
func (h *AuthHandler) Me(c echo.Context) error {
	p := middleware.PrincipalFrom(c)
	if p == nil {
		return c.JSON(http.StatusOK, map[string]any{"user": nil})
	}
	u, err := h.uc.Me(c.Request().Context(), p)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(http.StatusOK, map[string]any{"user": u})
}
