package http

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
)

const healthPingTimeout = 2 * time.Second

// Pinger reports reachability of a backing store; *sql.DB satisfies it.
type Pinger interface {
	PingContext(ctx context.Context) error
}

type Handler struct {
	db    Pinger
	redis Pinger
}

func NewHandler(db Pinger) *Handler { return &Handler{db: db} }

// WithRedis adds the idempotency store to the health report.
func (h *Handler) WithRedis(p Pinger) *Handler {
	h.redis = p
	return h
}

type healthResponse struct {
	Status   string `json:"status"`
	Database string `json:"database"`
	Redis    string `json:"redis,omitempty"`
	Time     string `json:"time"`
}

func ping(ctx context.Context, p Pinger) string {
	if p == nil {
		return "unknown"
	}
	ctx, cancel := context.WithTimeout(ctx, healthPingTimeout)
	defer cancel()
	if err := p.PingContext(ctx); err != nil {
		return "down"
	}
	return "up"
}

// Health answers 503 while any configured store is unreachable.
func (h *Handler) Health(c echo.Context) error {
	ctx := c.Request().Context()
	res := healthResponse{
		Status:   "ok",
		Database: ping(ctx, h.db),
		Time:     time.Now().UTC().Format(time.RFC3339Nano),
	}
	if h.redis != nil {
		res.Redis = ping(ctx, h.redis)
	}
	if res.Database == "down" || res.Redis == "down" {
		res.Status = "degraded"
		return c.JSON(http.StatusServiceUnavailable, res)
	}
	return c.JSON(http.StatusOK, res)
}
