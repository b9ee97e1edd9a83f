package health

import (
	"transfer-relay/core/logger"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Handler handles HTTP requests for health checks.
type Handler struct {
	service *Service
}

// NewHandler creates a new HTTP handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes registers the health routes.
func (h *Handler) RegisterRoutes(app fiber.Router) {
	group := app.Group("/health")
	group.Get("/", h.HandleHealth)
	group.Get("/storage", h.HandleStorage)
	group.Get("/schema", h.HandleSchema)
}

// HandleHealth reports liveness.
// @Summary Health
// @Description Pings the database and reports the storage serving transfers.
// @Tags health
// @Produce json
// @Success 200 {object} Status
// @Failure 503 {object} Status "Degraded"
// @Router /health [get]
func (h *Handler) HandleHealth(c *fiber.Ctx) error {
	status := h.service.Check(c.UserContext())
	if status.Status != "ok" {
		return c.Status(fiber.StatusServiceUnavailable).JSON(status)
	}
	return c.JSON(status)
}

// HandleStorage reports every configured object store.
// @Summary Storage Health
// @Description Probes each configured object store and the local fallback directory. The backend transfers would use is marked selected.
// @Tags health
// @Produce json
// @Success 200 {object} StorageReport
// @Router /health/storage [get]
func (h *Handler) HandleStorage(c *fiber.Ctx) error {
	report := h.service.Storage(c.UserContext())
	if report.Error != "" {
		logger.WithRayID(h.service.logger, c).Warn("Storage configuration unreadable", zap.String("error", report.Error))
	}
	return c.JSON(report)
}

// HandleSchema checks the transfer tables.
// @Summary Schema Check
// @Description Validates that the connected database has every table and column the service writes.
// @Tags health
// @Produce json
// @Success 200 {object} SchemaReport
// @Failure 500 {object} map[string]string "Internal Server Error"
// @Router /health/schema [get]
func (h *Handler) HandleSchema(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)

	report, err := h.service.Schema()
	if err != nil {
		l.Error("Schema check failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	if !report.Matched {
		l.Warn("Schema mismatch detected", zap.Strings("errors", report.Errors))
	}
	return c.JSON(report)
}
