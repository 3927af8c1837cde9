package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/crm-service/internal/auth"
	"github.com/spec-kit/crm-service/internal/observability"
	"github.com/spec-kit/crm-service/internal/service"
)

// DebugHandler exposes diagnostic endpoints. It is never registered in
// production. Token inspection here is unverified and must not be
// mistaken for an authorization check.
type DebugHandler struct {
	metrics  *observability.Metrics
	activity *service.ActivityService
}

// NewDebugHandler constructs handler.
func NewDebugHandler(metrics *observability.Metrics, activity *service.ActivityService) *DebugHandler {
	return &DebugHandler{metrics: metrics, activity: activity}
}

// TokenInfo handles GET /api/debug/token?token=...
func (h *DebugHandler) TokenInfo(c *fiber.Ctx) error {
	token := c.Query("token")
	if token == "" {
		return fiber.NewError(http.StatusBadRequest, "token query parameter is required")
	}

	return c.JSON(fiber.Map{
		"info":    auth.Info(token),
		"decoded": auth.DecodeUnverified(token),
	})
}

// Metrics handles GET /api/debug/metrics.
func (h *DebugHandler) Metrics(c *fiber.Ctx) error {
	requests, errors := h.metrics.Snapshot()
	return c.JSON(fiber.Map{
		"requests": requests,
		"errors":   errors,
	})
}

// Activity handles GET /api/debug/activity.
func (h *DebugHandler) Activity(c *fiber.Ctx) error {
	limit := c.QueryInt("limit", 20)
	recent, err := h.activity.Recent(c.Context(), limit)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"activity": recent})
}
