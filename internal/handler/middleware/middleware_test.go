//go:build unit

package middleware_test

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	nethttptest "net/http/httptest"
	"testing"
	"time"

	"meeting-room-booking/internal/domain/auth"
	"meeting-room-booking/internal/handler/middleware"
	"meeting-room-booking/internal/infra/ratelimit"
	"meeting-room-booking/internal/pkg/errs"
	"meeting-room-booking/tests/common/httptest"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func newEngine() *gin.Engine {
	gin.SetMode(gin.TestMode)
	engine := gin.New()
	engine.Use(middleware.CustomRecovery())
	engine.Use(middleware.ErrorHandler())
	return engine
}

func TestErrorHandler(t *testing.T) {
	engine := newEngine()
	engine.GET("/conflict", func(c *gin.Context) {
		_ = c.Error(errs.Mark(errs.New("room 7 taken"), errs.ErrSlotUnavailable))
	})
	engine.GET("/boom", func(c *gin.Context) {
		_ = c.Error(errs.New("connection reset"))
	})
	engine.GET("/panic", func(c *gin.Context) {
		panic("nil map")
	})
	engine.GET("/ok", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	tests := []struct {
		name   string
		path   string
		status int
		msg    string
	}{
		{"domain error is mapped", "/conflict", http.StatusConflict, "Time slot is not available"},
		{"unknown error is 500", "/boom", http.StatusInternalServerError, "Internal server error"},
		{"panic is recovered", "/panic", http.StatusInternalServerError, "Internal server error"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			rec := httptest.PerformRequest(t, engine, http.MethodGet, tc.path, nil, "")
			httptest.AssertErrorResponse(t, rec, tc.status, tc.msg)
		})
	}

	t.Run("written responses are left alone", func(t *testing.T) {
		var body map[string]string
		rec := httptest.PerformRequest(t, engine, http.MethodGet, "/ok", nil, "")
		httptest.AssertSuccessResponse(t, rec, http.StatusOK, &body)
		assert.Equal(t, "ok", body["status"])
	})
}

type stubLimiter struct {
	decision ratelimit.Decision
	err      error
}

func (s stubLimiter) Allow(context.Context, string) (ratelimit.Decision, error) {
	return s.decision, s.err
}

func TestAllowRequest(t *testing.T) {
	route := func(l ratelimit.Limiter) *gin.Engine {
		engine := newEngine()
		engine.POST("/verify", func(c *gin.Context) {
			if !middleware.AllowRequest(c, l, "key") {
				return
			}
			c.Status(http.StatusNoContent)
		})
		return engine
	}

	t.Run("allowed request carries the bucket headers", func(t *testing.T) {
		engine := route(stubLimiter{decision: ratelimit.Decision{Allowed: true, Limit: 5, Remaining: 4}})
		rec := httptest.PerformRequest(t, engine, http.MethodPost, "/verify", nil, "")
		assert.Equal(t, http.StatusNoContent, rec.Code)
		httptest.AssertHeaders(t, rec, map[string]string{
			"X-RateLimit-Limit":     "5",
			"X-RateLimit-Remaining": "4",
		})
	})

	t.Run("drained bucket is 429 with retry hint rounded up", func(t *testing.T) {
		engine := route(stubLimiter{decision: ratelimit.Decision{Limit: 5, RetryAfter: 1500 * time.Millisecond}})
		rec := httptest.PerformRequest(t, engine, http.MethodPost, "/verify", nil, "")
		httptest.AssertRateLimited(t, rec)
		assert.Equal(t, "2", rec.Header().Get("Retry-After"))
	})

	t.Run("limiter failure lets the request through", func(t *testing.T) {
		engine := route(stubLimiter{err: errs.New("redis down")})
		rec := httptest.PerformRequest(t, engine, http.MethodPost, "/verify", nil, "")
		assert.Equal(t, http.StatusNoContent, rec.Code)
		assert.Empty(t, rec.Header().Get("X-RateLimit-Limit"))
	})
}

type stubValidator struct{ actor auth.Actor }

func (v stubValidator) ValidateToken(string) (auth.Actor, error) { return v.actor, nil }

type stubGuard struct{ locked map[uuid.UUID]bool }

func (g stubGuard) EnsureActive(_ context.Context, id uuid.UUID) error {
	if g.locked[id] {
		return errs.ErrEmployeeLocked
	}
	return nil
}

func TestRequireActiveAccount(t *testing.T) {
	active := auth.NewActor(uuid.New())
	locked := auth.NewActor(uuid.New())
	guard := stubGuard{locked: map[uuid.UUID]bool{locked.EmployeeID(): true}}

	route := func(actor auth.Actor) *gin.Engine {
		m := middleware.NewAuthMiddleware(stubValidator{actor: actor}, guard)
		engine := newEngine()
		engine.POST("/bookings", m.RequireAuth(), m.RequireActiveAccount(), func(c *gin.Context) {
			c.Status(http.StatusCreated)
		})
		return engine
	}

	t.Run("active employee reaches the handler", func(t *testing.T) {
		rec := httptest.PerformRequest(t, route(active), http.MethodPost, "/bookings", nil, "token")
		assert.Equal(t, http.StatusCreated, rec.Code)
	})

	t.Run("locked employee is 403", func(t *testing.T) {
		rec := httptest.PerformRequest(t, route(locked), http.MethodPost, "/bookings", nil, "token")
		httptest.AssertErrorResponse(t, rec, http.StatusForbidden, "Employee account is locked")
	})

	t.Run("without RequireAuth there is no actor", func(t *testing.T) {
		m := middleware.NewAuthMiddleware(stubValidator{actor: active}, guard)
		engine := newEngine()
		engine.POST("/bookings", m.RequireActiveAccount(), func(c *gin.Context) {
			c.Status(http.StatusCreated)
		})
		rec := httptest.PerformRequest(t, engine, http.MethodPost, "/bookings", nil, "token")
		httptest.AssertErrorResponse(t, rec, http.StatusInternalServerError, "")
	})
}

func TestRequestLogger(t *testing.T) {
	gin.SetMode(gin.TestMode)
	engine := gin.New()
	engine.Use(middleware.RequestLogger(slog.New(slog.NewTextHandler(io.Discard, nil))))
	engine.GET("/health", func(c *gin.Context) {
		c.String(http.StatusOK, middleware.GetRequestID(c))
	})

	t.Run("generates an id and echoes it", func(t *testing.T) {
		rec := httptest.PerformRequest(t, engine, http.MethodGet, "/health", nil, "")
		id := rec.Header().Get("X-Request-ID")
		assert.NotEmpty(t, id)
		assert.Equal(t, id, rec.Body.String())
	})

	t.Run("keeps the caller's id", func(t *testing.T) {
		req := nethttptest.NewRequest(http.MethodGet, "/health", nil)
		req.Header.Set("X-Request-ID", "door-42")
		rec := nethttptest.NewRecorder()
		engine.ServeHTTP(rec, req)
		assert.Equal(t, "door-42", rec.Header().Get("X-Request-ID"))
		assert.Equal(t, "door-42", rec.Body.String())
	})
}
