package http

import "github.com/labstack/echo/v4"

// Routes mounts the API. Nil middlewares are skipped.
type Routes struct {
	Health       *Handler
	Auth         *AuthHandler
	Applications *ApplicationHandler
	Admin        *AdminHandler

	AuthLimiter echo.MiddlewareFunc
	Idempotency echo.MiddlewareFunc
}

func optional(mws ...echo.MiddlewareFunc) []echo.MiddlewareFunc {
	out := make([]echo.MiddlewareFunc, 0, len(mws))
	for _, m := range mws {
		if m != nil {
			out = append(out, m)
		}
	}
	return out
}

// Register mounts the API. Idempotency covers the loan mutations only; auth
// responses carry session cookies and tokens that must not be replayed from redis.
func (r Routes) Register(e *echo.Echo) {
	api := e.Group("/api")
	api.GET("/health", r.Health.Health)

	authLimited := optional(r.AuthLimiter)
	api.POST("/auth/register", r.Auth.Register, authLimited...)
	api.POST("/auth/login", r.Auth.Login, authLimited...)
	api.POST("/auth/logout", r.Auth.Logout)
	api.GET("/auth/me", r.Auth.Me)

	idem := optional(r.Idempotency)
	api.POST("/loans", r.Applications.Create, idem...)
	api.GET("/loans", r.Applications.List)
	api.GET("/loans/:id", r.Applications.Get)
	api.PATCH("/loans/:id/status", r.Applications.UpdateStatus, idem...)
	api.PATCH("/loans/:id/notes", r.Applications.AddNote, idem...)

	api.GET("/admin/overview", r.Admin.Overview)
	api.PATCH("/admin/loans/status", r.Applications.BatchUpdateStatus, idem...)
}
