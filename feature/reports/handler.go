package reports

import (
	"errors"

	"admanager-sync/core/gam"
	"admanager-sync/core/logger"
	"admanager-sync/core/table"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Handler handles HTTP requests for reports.
type Handler struct {
	service *Service
}

// NewHandler creates a new HTTP handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes registers the report routes.
func (h *Handler) RegisterRoutes(app fiber.Router) {
	group := app.Group("/reports")
	group.Post("/saved/:id/run", h.HandleRunSaved)
	group.Post("/run", h.HandleRunQuery)
}

type runSavedRequest struct {
	Overrides *Overrides  `json:"overrides"`
	Filter    *gam.Filter `json:"filter"`
}

type runQueryRequest struct {
	Query  gam.ReportQuery `json:"query"`
	Filter *gam.Filter     `json:"filter"`
}

// HandleRunSaved runs a saved query and returns the resulting table.
func (h *Handler) HandleRunSaved(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)

	id, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid saved query id"})
	}

	var req runSavedRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
		}
	}

	result, err := h.service.RunSaved(c.Context(), int64(id), req.Overrides, req.Filter)
	if err != nil {
		return h.reportError(c, l, err)
	}
	return c.JSON(result)
}

// HandleRunQuery runs an ad-hoc report query and returns the resulting table.
func (h *Handler) HandleRunQuery(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)

	var req runQueryRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}
	if len(req.Query.Dimensions) == 0 && len(req.Query.Columns) == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "query must name dimensions or columns"})
	}

	result, err := h.service.RunQuery(c.Context(), req.Query, req.Filter)
	if err != nil {
		return h.reportError(c, l, err)
	}
	return c.JSON(result)
}

func (h *Handler) reportError(c *fiber.Ctx, l *zap.Logger, err error) error {
	switch {
	case errors.Is(err, gam.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": err.Error()})
	case errors.Is(err, table.ErrEmpty):
		// An empty report is a legitimate outcome, not a server fault.
		return c.Status(fiber.StatusNoContent).Send(nil)
	default:
		l.Error("Report run failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
}
