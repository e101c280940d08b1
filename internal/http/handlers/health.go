package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/smartpath-backend/internal/platform/logger"
)

const pingTimeout = 2 * time.Second

// StoreStatus is satisfied by graph stores that can fall back to the static catalogue.
type StoreStatus interface {
	Degraded() bool
}

type HealthHandler struct {
	log    *logger.Logger
	status StoreStatus
	ping   func(context.Context) error
}

// NewHealthHandler builds the health endpoint. ping may be nil when no primary store is configured.
func NewHealthHandler(log *logger.Logger, status StoreStatus, ping func(context.Context) error) *HealthHandler {
	return &HealthHandler{log: log.With("handler", "HealthHandler"), status: status, ping: ping}
}

func (h *HealthHandler) HealthCheck(c *gin.Context) {
	database := "disconnected"
	if h.ping != nil {
		ctx, cancel := context.WithTimeout(c.Request.Context(), pingTimeout)
		defer cancel()
		if err := h.ping(ctx); err != nil {
			h.log.Warn("Graph store ping failed", "error", err)
		} else {
			database = "connected"
		}
	}

	status := "healthy"
	if database != "connected" || (h.status != nil && h.status.Degraded()) {
		status = "degraded"
	}
	c.JSON(http.StatusOK, gin.H{
		"status":   status,
		"database": database,
	})
}
