package handler // declare the package name; contains HTTP handlers

import (
	"context"
	"database/sql"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
)

// HealthHandler reports service health for load balancers and
// monitoring. The database is the hard dependency: when it is
// unreachable the endpoint answers 503. Redis is best-effort (the API
// works without it) and is only reported, never fatal.
type HealthHandler struct {
	DB  *sql.DB
	RDB *redis.Client // may be nil when caching is disabled
}

// Health handles GET /api/health.
func (h *HealthHandler) Health(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 2*time.Second)
	defer cancel()

	services := echo.Map{}
	status := http.StatusOK

	if err := h.DB.PingContext(ctx); err != nil {
		services["database"] = "unavailable"
		status = http.StatusServiceUnavailable
	} else {
		services["database"] = "ok"
	}

	if h.RDB == nil {
		services["cache"] = "disabled"
	} else if err := h.RDB.Ping(ctx).Err(); err != nil {
		services["cache"] = "unavailable"
	} else {
		services["cache"] = "ok"
	}

	body := echo.Map{
		"status":    "ok",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"services":  services,
	}
	if status != http.StatusOK {
		body["status"] = "degraded"
	}
	return c.JSON(status, body)
}
