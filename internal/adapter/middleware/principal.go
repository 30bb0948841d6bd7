package middleware

import (
	"context"
	"net/http"
	"strings"

	"loan-portal/internal/domain/access"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

const (
	SessionCookie = "loan_session"
	principalKey  = "principal"
)

type Authenticator interface {
	Authenticate(ctx context.Context, token string) (*access.Principal, error)
}

// SessionToken reads the session cookie, falling back to a Bearer header.
func SessionToken(req *http.Request) string {
	if ck, err := req.Cookie(SessionCookie); err == nil && ck.Value != "" {
		return ck.Value
	}
	h := req.Header.Get(echo.HeaderAuthorization)
	if len(h) > 7 && strings.EqualFold(h[:7], "bearer ") {
		return strings.TrimSpace(h[7:])
	}
	return ""
}

// Principal resolves the caller for every request. Failures leave the
// request anonymous.
func Principal(auth Authenticator, log *zap.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			tok := SessionToken(c.Request())
			if tok == "" {
				return next(c)
			}
			p, err := auth.Authenticate(c.Request().Context(), tok)
			if err != nil {
				log.Warn("principal resolution failed",
					zap.Error(err),
					zap.String("request_id", c.Response().Header().Get(echo.HeaderXRequestID)),
				)
				return next(c)
			}
			if p != nil {
				c.Set(principalKey, p)
			}
			return next(c)
		}
	}
}

// PrincipalFrom returns nil for anonymous requests.
func PrincipalFrom(c echo.Context) *access.Principal {
	p, _ := c.Get(principalKey).(*access.Principal)
	return p
}

// WithPrincipal is used by tests and by callers that resolve identity themselves.
func WithPrincipal(c echo.Context, p *access.Principal) { c.Set(principalKey, p) }
