package handlers

import (
	"context"

	"homyhive/internal/pkg/metrics"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
)

// HealthHandler handles health check endpoints
type HealthHandler struct {
	mode   string
	report func(ctx context.Context) map[string]string
}

// NewHealthHandler creates a new health handler. report returns "ok" or an
// error description per backing store.
func NewHealthHandler(mode string, report func(ctx context.Context) map[string]string) *HealthHandler {
	return &HealthHandler{mode: mode, report: report}
}

// Root handles root endpoint
// @Summary Root endpoint
// @Description Returns API status
// @Tags Health
// @Accept json
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router / [get]
func (h *HealthHandler) Root(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status":  "running",
		"message": "🏡 HomyHive API is running",
		"mode":    h.mode,
		"docs":    "/swagger/index.html",
	})
}

// HealthCheck handles health check
// @Summary Health check
// @Description Check API, database, review store and redis health
// @Tags Health
// @Accept json
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Failure 503 {object} map[string]interface{}
// @Router /health [get]
func (h *HealthHandler) HealthCheck(c *fiber.Ctx) error {
	checks := fiber.Map{"api": "healthy"}
	status := "ok"

	for name, result := range h.report(c.UserContext()) {
		if result == "ok" {
			checks[name] = "healthy"
			continue
		}
		checks[name] = "unhealthy"
		status = "degraded"
	}

	code := fiber.StatusOK
	if status != "ok" {
		code = fiber.StatusServiceUnavailable
	}
	return c.Status(code).JSON(fiber.Map{
		"status": status,
		"checks": checks,
	})
}

// Metrics serves the prometheus registry
// @Summary Prometheus metrics
// @Tags Health
// @Produce plain
// @Success 200 {string} string
// @Router /metrics [get]
func (h *HealthHandler) Metrics() fiber.Handler {
	return adaptor.HTTPHandler(metrics.Handler())
}
