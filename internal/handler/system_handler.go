package handler

import (
	"context"
	"net/http"
	"time"

	"necx-chat/internal/transport/httpdto"
	"necx-chat/pkg/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// HealthChecker reports whether the backing store is reachable.
type HealthChecker interface {
	HealthCheck(ctx context.Context) error
}

type SystemHandler struct {
	store       HealthChecker
	storeName   string
	environment string
	log         *logger.Logger
}

func NewSystemHandler(store HealthChecker, storeName, environment string, l *logger.Logger) *SystemHandler {
	if l == nil {
		l = logger.GetGlobalLogger()
	}
	return &SystemHandler{store: store, storeName: storeName, environment: environment, log: l}
}

func (h *SystemHandler) Ping(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"message": "pong"})
}

func (h *SystemHandler) Health(c *gin.Context) {
	resp := httpdto.HealthResponse{
		Status:      "OK",
		Message:     "NECX Messaging Backend is running successfully!",
		Timestamp:   time.Now().UTC(),
		Version:     httpdto.APIVersion,
		Environment: h.environment,
		Store:       h.storeName,
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()
	if h.store != nil {
		if err := h.store.HealthCheck(ctx); err != nil {
			h.log.WithContext(c.Request.Context()).Warn("store health check failed", zap.Error(err))
			resp.Status = "DEGRADED"
			resp.Message = "Store is unreachable"
			c.JSON(http.StatusServiceUnavailable, resp)
			return
		}
	}
	c.JSON(http.StatusOK, resp)
}

func (h *SystemHandler) Index(c *gin.Context) {
	c.JSON(http.StatusOK, httpdto.IndexResponse{
		Message: "Welcome to the NECX Messaging API",
		Version: httpdto.APIVersion,
		Endpoints: map[string]any{
			"health": "GET /api/health",
			"messages": map[string]string{
				"description": "Message management endpoints",
				"getAll":      "GET /api/messages",
				"between":     "GET /api/messages/between?user1=&user2=",
				"search":      "GET /api/messages/search?q=&sender=&recipient=&dateFrom=&dateTo=",
				"create":      "POST /api/messages",
				"update":      "PUT /api/messages/:id",
				"delete":      "DELETE /api/messages/:id",
			},
			"users": map[string]string{
				"description": "User management endpoints",
				"getAll":      "GET /api/users",
				"create":      "POST /api/users",
				"delete":      "DELETE /api/users/:id",
			},
		},
	})
}
