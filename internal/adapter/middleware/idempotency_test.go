package middleware

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"loan-portal/internal/domain/access"
	"loan-portal/internal/domain/user"

	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const testKey = "aaaaaaaa-1111-4222-8333-bbbbbbbbbbbb"

// helper: new Echo with a fixed principal, the middleware and a simple route
func setupEcho(rdb *redis.Client, ttl time.Duration, handler echo.HandlerFunc) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Use(func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			WithPrincipal(c, &access.Principal{ID: 7, Role: user.RoleBorrower})
			return next(c)
		}
	})
	e.Use(Idempotency(rdb, ttl, zap.NewNop()))
	e.POST("/api/loans", handler)
	e.GET("/api/loans", handler)
	return e
}

func mkJSONBody(t *testing.T, v any) io.Reader {
	t.Helper()
	b, err := json.Marshal(v)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	return bytes.NewReader(b)
}

func doReq(t *testing.T, e *echo.Echo, method, path string, body io.Reader, hdr map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, body)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	for k, v := range hdr {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

// counts calls so replays can be told apart from re-execution
func countingCreated(n *int32) echo.HandlerFunc {
	return func(c echo.Context) error {
		v := atomic.AddInt32(n, 1)
		return c.JSON(http.StatusCreated, map[string]any{"ok": true, "n": v})
	}
}

func Test_BypassOnGET(t *testing.T) {
	mr, rdb := newMiniRedis(t)
	defer mr.Close()
	var n int32
	e := setupEcho(rdb, 30*time.Second, countingCreated(&n))

	rec := doReq(t, e, http.MethodGet, "/api/loans", nil, map[string]string{HeaderIdempotencyKey: testKey})
	if rec.Code != http.StatusCreated || len(mr.Keys()) != 0 {
		t.Fatalf("GET must bypass: code=%d keys=%v", rec.Code, mr.Keys())
	}
}

func Test_NoKeyPassesThrough(t *testing.T) {
	mr, rdb := newMiniRedis(t)
	defer mr.Close()
	var n int32
	e := setupEcho(rdb, 30*time.Second, countingCreated(&n))

	for i := 0; i < 2; i++ {
		rec := doReq(t, e, http.MethodPost, "/api/loans", mkJSONBody(t, map[string]int{"x": 1}), nil)
		if rec.Code != http.StatusCreated {
			t.Fatalf("want 201, got %d", rec.Code)
		}
	}
	if n != 2 || len(mr.Keys()) != 0 {
		t.Fatalf("handler calls=%d keys=%v", n, mr.Keys())
	}
}

func Test_InvalidKey(t *testing.T) {
	mr, rdb := newMiniRedis(t)
	defer mr.Close()
	var n int32
	e := setupEcho(rdb, 30*time.Second, countingCreated(&n))

	rec := doReq(t, e, http.MethodPost, "/api/loans", mkJSONBody(t, map[string]int{"x": 1}), map[string]string{HeaderIdempotencyKey: "bad key"})
	if rec.Code != http.StatusBadRequest || n != 0 {
		t.Fatalf("want 400 without handler call, got %d (calls=%d)", rec.Code, n)
	}
}

func Test_HappyPath_Then_Replay(t *testing.T) {
	mr, rdb := newMiniRedis(t)
	defer mr.Close()
	var n int32
	e := setupEcho(rdb, 2*time.Minute, countingCreated(&n))
	h := map[string]string{HeaderIdempotencyKey: testKey}

	rec1 := doReq(t, e, http.MethodPost, "/api/loans", mkJSONBody(t, map[string]any{"amount": 500000}), h)
	if rec1.Code != http.StatusCreated {
		t.Fatalf("first request => want 201, got %d, body: %s", rec1.Code, rec1.Body.String())
	}

	rec2 := doReq(t, e, http.MethodPost, "/api/loans", mkJSONBody(t, map[string]any{"amount": 500000}), h)
	if rec2.Code != http.StatusCreated {
		t.Fatalf("replay => want 201, got %d, body: %s", rec2.Code, rec2.Body.String())
	}
	if rec1.Body.String() != rec2.Body.String() {
		t.Fatalf("replay body mismatch: %q vs %q", rec1.Body.String(), rec2.Body.String())
	}
	if rec2.Header().Get("Idempotent-Replayed") != "true" {
		t.Fatalf("replay header missing")
	}
	if n != 1 {
		t.Fatalf("handler must run once, ran %d", n)
	}
}

func Test_Conflict_When_InProgress(t *testing.T) {
	mr, rdb := newMiniRedis(t)
	defer mr.Close()
	var n int32
	e := setupEcho(rdb, 2*time.Minute, countingCreated(&n))

	body := []byte(`{"x":1}`)
	key := buildKey(http.MethodPost, "/api/loans", 7, testKey)
	entry := idempEntry{InProgress: true, BodySHA256: bodyHash(body), CreatedAt: time.Now().UTC()}
	if ok, err := provisionalSet(context.Background(), rdb, key, entry); err != nil || !ok {
		t.Fatalf("seed provisional failed, ok=%v err=%v", ok, err)
	}

	rec := doReq(t, e, http.MethodPost, "/api/loans", bytes.NewReader(body), map[string]string{HeaderIdempotencyKey: testKey})
	if rec.Code != http.StatusConflict {
		t.Fatalf("in-progress => want 409, got %d body=%s", rec.Code, rec.Body.String())
	}
}

func Test_Conflict_When_SameKey_DifferentBody(t *testing.T) {
	mr, rdb := newMiniRedis(t)
	defer mr.Close()
	var n int32
	e := setupEcho(rdb, 2*time.Minute, countingCreated(&n))
	h := map[string]string{HeaderIdempotencyKey: testKey}

	if rec := doReq(t, e, http.MethodPost, "/api/loans", bytes.NewReader([]byte(`{"x":1}`)), h); rec.Code != http.StatusCreated {
		t.Fatalf("first => %d", rec.Code)
	}
	rec := doReq(t, e, http.MethodPost, "/api/loans", bytes.NewReader([]byte(`{"x":2}`)), h)
	if rec.Code != http.StatusConflict {
		t.Fatalf("different body same key => want 409, got %d", rec.Code)
	}
}

func Test_ServerErrorIsNotStored(t *testing.T) {
	mr, rdb := newMiniRedis(t)
	defer mr.Close()
	var calls int32
	e := setupEcho(rdb, time.Minute, func(c echo.Context) error {
		atomic.AddInt32(&calls, 1)
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "internal server error"})
	})
	h := map[string]string{HeaderIdempotencyKey: testKey}

	for i := 0; i < 2; i++ {
		if rec := doReq(t, e, http.MethodPost, "/api/loans", bytes.NewReader([]byte(`{}`)), h); rec.Code != http.StatusInternalServerError {
			t.Fatalf("want 500, got %d", rec.Code)
		}
	}
	if calls != 2 {
		t.Fatalf("5xx must stay retryable, handler ran %d times", calls)
	}
}

func Test_StoreUnavailable_Returns503(t *testing.T) {
	rdb := redis.NewClient(&redis.Options{Addr: "127.0.0.1:1"})
	var n int32
	e := setupEcho(rdb, time.Minute, countingCreated(&n))

	rec := doReq(t, e, http.MethodPost, "/api/loans", bytes.NewReader([]byte(`{}`)), map[string]string{HeaderIdempotencyKey: testKey})
	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("store unavailable => want 503, got %d", rec.Code)
	}
}
