package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// ServiceName is reported by the root status endpoint
const ServiceName = "agri-ai"

// ComponentCheck reports the state of an optional component.
// An empty result means "ok".
type ComponentCheck struct {
	Name  string
	Check func(ctx context.Context) string
}

// HealthHandler handles health check endpoints
type HealthHandler struct {
	db     *gorm.DB
	redis  redis.Cmdable
	checks []ComponentCheck
}

// NewHealthHandler creates a new health handler. redis may be nil; the
// service runs without a response cache.
func NewHealthHandler(db *gorm.DB, redis redis.Cmdable, checks ...ComponentCheck) *HealthHandler {
	return &HealthHandler{
		db:     db,
		redis:  redis,
		checks: checks,
	}
}

// HealthStatus represents the health check response
type HealthStatus struct {
	Status     string            `json:"status"`
	Components map[string]string `json:"components"`
}

// Root handles GET /
func (h *HealthHandler) Root(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok", "service": ServiceName})
}

// Health handles GET /health
func (h *HealthHandler) Health(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	components := make(map[string]string)
	status := "healthy"

	if err := h.pingDB(ctx); err != nil {
		components["database"] = "error: " + err.Error()
		status = "unhealthy"
	} else if h.db == nil {
		components["database"] = "not configured"
	} else {
		components["database"] = "ok"
	}

	// redis only backs the weather cache, so a failure degrades rather than fails
	switch {
	case h.redis == nil:
		components["redis"] = "not configured"
	case h.redis.Ping(ctx).Err() != nil:
		components["redis"] = "unreachable"
		if status == "healthy" {
			status = "degraded"
		}
	default:
		components["redis"] = "ok"
	}

	for _, check := range h.checks {
		if state := check.Check(ctx); state != "" {
			components[check.Name] = state
		} else {
			components[check.Name] = "ok"
		}
	}

	httpStatus := http.StatusOK
	if status == "unhealthy" {
		httpStatus = http.StatusServiceUnavailable
	}

	c.JSON(httpStatus, HealthStatus{
		Status:     status,
		Components: components,
	})
}

// Ready handles GET /ready
func (h *HealthHandler) Ready(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	if err := h.pingDB(ctx); err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "not ready", "reason": "database unreachable"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "ready"})
}

func (h *HealthHandler) pingDB(ctx context.Context) error {
	if h.db == nil {
		return nil
	}
	sqlDB, err := h.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}
