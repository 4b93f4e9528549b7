package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"necx-chat/internal/ratelimit"
	"necx-chat/internal/transport/httpdto"
	necx_errors "necx-chat/pkg/errors"
	"necx-chat/pkg/logger"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) httpdto.ErrorResponse {
	t.Helper()
	var body httpdto.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

func TestErrorHandlerMapsKinds(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		production bool
		wantStatus int
		wantCode   string
		wantMsg    string
	}{
		{"validation", necx_errors.Validation("User name is required"), false, http.StatusBadRequest, "VALIDATION_ERROR", "User name is required"},
		{"not found", necx_errors.NotFound("Message not found"), false, http.StatusNotFound, "NOT_FOUND", "Message not found"},
		{"conflict", necx_errors.Conflict("User with this name already exists"), false, http.StatusConflict, "CONFLICT", "User with this name already exists"},
		{"storage", necx_errors.Storage("fetch users", errors.New("dial tcp: refused")), false, http.StatusInternalServerError, "DATABASE_ERROR", "failed to fetch users"},
		{"storage in production", necx_errors.Storage("fetch users", errors.New("dial tcp: refused")), true, http.StatusInternalServerError, "DATABASE_ERROR", "An unexpected error occurred"},
		{"unclassified", errors.New("boom"), false, http.StatusInternalServerError, "DATABASE_ERROR", "boom"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := gin.New()
			r.Use(ErrorHandler(logger.NewNop(), tt.production))
			r.GET("/x", func(c *gin.Context) { _ = c.Error(tt.err) })

			w := httptest.NewRecorder()
			r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/x", nil))

			require.Equal(t, tt.wantStatus, w.Code)
			body := decodeError(t, w)
			require.False(t, body.Success)
			require.Equal(t, tt.wantCode, body.Code)
			require.Equal(t, tt.wantMsg, body.Message)
			require.NotContains(t, w.Body.String(), "dial tcp")
		})
	}
}

func TestErrorHandlerBindErrors(t *testing.T) {
	r := gin.New()
	r.Use(ErrorHandler(logger.NewNop(), false), BodyLimit(16))
	r.POST("/x", func(c *gin.Context) {
		var body map[string]any
		if err := c.ShouldBindJSON(&body); err != nil {
			_ = c.Error(err).SetType(gin.ErrorTypeBind)
		}
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/x", strings.NewReader(`{"a":`)))
	require.Equal(t, http.StatusBadRequest, w.Code)
	require.Equal(t, "Invalid JSON", decodeError(t, w).Error)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/x", strings.NewReader(`{"content":"`+strings.Repeat("x", 64)+`"}`)))
	require.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
}

type stubLimiter struct {
	result *ratelimit.Result
	err    error
}

func (s stubLimiter) Allow(context.Context, string) (*ratelimit.Result, error) {
	return s.result, s.err
}

func TestRateLimitMiddleware(t *testing.T) {
	newRouter := func(l ratelimit.Limiter) *gin.Engine {
		r := gin.New()
		r.Use(RateLimitMiddleware(l, logger.NewNop()))
		r.GET("/x", func(c *gin.Context) { c.Status(http.StatusNoContent) })
		return r
	}

	t.Run("allowed", func(t *testing.T) {
		w := httptest.NewRecorder()
		newRouter(stubLimiter{result: &ratelimit.Result{Allowed: true, Remaining: 99, Limit: 100, ResetIn: time.Minute}}).
			ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/x", nil))

		require.Equal(t, http.StatusNoContent, w.Code)
		require.Equal(t, "100", w.Header().Get("X-RateLimit-Limit"))
		require.Equal(t, "99", w.Header().Get("X-RateLimit-Remaining"))
		require.Equal(t, "60", w.Header().Get("X-RateLimit-Reset"))
	})

	t.Run("exhausted", func(t *testing.T) {
		w := httptest.NewRecorder()
		newRouter(stubLimiter{result: &ratelimit.Result{Allowed: false, Limit: 100}}).
			ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/x", nil))

		require.Equal(t, http.StatusTooManyRequests, w.Code)
		require.Equal(t, "RATE_LIMITED", decodeError(t, w).Code)
	})

	t.Run("limiter failure lets the request through", func(t *testing.T) {
		w := httptest.NewRecorder()
		newRouter(stubLimiter{err: errors.New("redis down")}).
			ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/x", nil))

		require.Equal(t, http.StatusNoContent, w.Code)
	})

	t.Run("local limiter", func(t *testing.T) {
		local := ratelimit.NewLocalLimiter(1, time.Hour, ratelimit.CleanupOpts{})
		defer local.Close()
		r := newRouter(local)

		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/x", nil))
		require.Equal(t, http.StatusNoContent, w.Code)

		w = httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/x", nil))
		require.Equal(t, http.StatusTooManyRequests, w.Code)
	})
}

func TestSecurityHeaders(t *testing.T) {
	for _, production := range []bool{false, true} {
		r := gin.New()
		r.Use(SecurityHeaders(production))
		r.GET("/x", func(c *gin.Context) { c.Status(http.StatusOK) })

		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/x", nil))

		require.Equal(t, "nosniff", w.Header().Get("X-Content-Type-Options"))
		require.Equal(t, "DENY", w.Header().Get("X-Frame-Options"))
		require.Equal(t, "strict-origin-when-cross-origin", w.Header().Get("Referrer-Policy"))
		require.Equal(t, production, w.Header().Get("Content-Security-Policy") != "")
	}
}

func TestResponseTimeHeader(t *testing.T) {
	r := gin.New()
	r.Use(ResponseTime(time.Second, logger.NewNop()))
	r.GET("/x", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"ok": true}) })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/x", nil))

	require.Equal(t, http.StatusOK, w.Code)
	require.Regexp(t, `^\d+ms$`, w.Header().Get("X-Response-Time"))
}

func TestRequestIDMiddleware(t *testing.T) {
	r := gin.New()
	r.Use(RequestIDMiddleware())
	var seen string
	r.GET("/x", func(c *gin.Context) {
		seen, _ = c.Request.Context().Value(logger.RequestIdKey).(string)
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/x", nil)
	req.Header.Set(RequestIDHeader, "given-id")
	r.ServeHTTP(w, req)
	require.Equal(t, "given-id", seen)
	require.Equal(t, "given-id", w.Header().Get(RequestIDHeader))

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/x", nil))
	require.Len(t, w.Header().Get(RequestIDHeader), 32)
	require.Equal(t, seen, w.Header().Get(RequestIDHeader))
}

func TestNotFoundAndRecovery(t *testing.T) {
	r := gin.New()
	r.Use(Recovery(logger.NewNop()))
	r.NoRoute(NotFound())
	r.GET("/panic", func(c *gin.Context) { panic("boom") })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/nope?x=1", nil))
	require.Equal(t, http.StatusNotFound, w.Code)
	require.Equal(t, "The route GET /api/nope?x=1 does not exist on this server", decodeError(t, w).Message)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/panic", nil))
	require.Equal(t, http.StatusInternalServerError, w.Code)
	require.Equal(t, "INTERNAL_ERROR", decodeError(t, w).Code)
}
