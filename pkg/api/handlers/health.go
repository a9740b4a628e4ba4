package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
)

// Pinger is anything with a connectivity check
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthResponse reports dependency status
type HealthResponse struct {
	Status   string `json:"status"`
	Database string `json:"database"`
	Redis    string `json:"redis"`
}

// HealthHandler reports whether the service can reach its stores
type HealthHandler struct {
	db    Pinger
	redis Pinger
}

// NewHealthHandler creates a health handler. redis may be nil when caching
// is disabled.
func NewHealthHandler(db, redis Pinger) *HealthHandler {
	return &HealthHandler{db: db, redis: redis}
}

// Check pings the database and Redis. Only a database failure makes the
// service unhealthy; Redis only backs the analytics cache.
func (h *HealthHandler) Check(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 3*time.Second)
	defer cancel()

	resp := HealthResponse{Status: "ok", Database: "ok", Redis: "disabled"}
	status := http.StatusOK

	if err := h.db.Ping(ctx); err != nil {
		resp.Status = "unhealthy"
		resp.Database = "error"
		status = http.StatusServiceUnavailable
	}

	if h.redis != nil {
		resp.Redis = "ok"
		if err := h.redis.Ping(ctx); err != nil {
			resp.Redis = "error"
			if resp.Status == "ok" {
				resp.Status = "degraded"
			}
		}
	}

	return c.JSON(status, resp)
}
