package targeting

import (
	"errors"

	"admanager-sync/core/gam"
	"admanager-sync/core/importer"
	"admanager-sync/core/logger"
	"admanager-sync/core/sync"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Handler handles HTTP requests for targeting.
type Handler struct {
	service *Service
}

// NewHandler creates a new HTTP handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes registers the targeting routes.
func (h *Handler) RegisterRoutes(app fiber.Router) {
	group := app.Group("/targeting")
	group.Post("/keys", h.HandleCreateKey)
	group.Get("/keys/:name/values", h.HandleListValues)
	group.Post("/keys/:name/values", h.HandleUploadValues)
	group.Post("/keys/:name/values/deactivate", h.HandleDeactivateValues)
}

type createKeyRequest struct {
	Name string `json:"name"`
}

type uploadRequest struct {
	Values    []any `json:"values"`
	CreateKey bool  `json:"create_key"`
	BatchSize int   `json:"batch_size"`
}

type deactivateRequest struct {
	Values []any `json:"values"`
}

// HandleCreateKey creates a freeform targeting key.
func (h *Handler) HandleCreateKey(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)

	var req createKeyRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}
	if req.Name == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "name is required"})
	}

	key, err := h.service.CreateKey(c.Context(), req.Name)
	if err != nil {
		l.Error("Key creation failed", zap.String("key", req.Name), zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(key)
}

// HandleListValues returns the key's current values. The attribute query
// parameter selects the projection (name by default, id on request).
func (h *Handler) HandleListValues(c *fiber.Ctx) error {
	keyName := c.Params("name")
	l := logger.WithRayID(h.service.logger, c)

	attr := sync.AttributeName
	if c.Query("attribute") == "id" {
		attr = sync.AttributeID
	}

	values, err := h.service.ListValues(c.Context(), keyName, attr)
	if err != nil {
		if errors.Is(err, gam.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": err.Error()})
		}
		l.Error("Value listing failed", zap.String("key", keyName), zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(fiber.Map{"key": keyName, "values": values})
}

// HandleUploadValues reconciles the posted values onto the key.
func (h *Handler) HandleUploadValues(c *fiber.Ctx) error {
	keyName := c.Params("name")
	l := logger.WithRayID(h.service.logger, c)

	var req uploadRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}
	if len(req.Values) == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "values are required"})
	}

	opts := sync.UploadOptions{
		CreateKey: req.CreateKey,
		BatchSize: req.BatchSize,
	}
	result, err := h.service.Upload(c.Context(), keyName, importer.FromAny(req.Values), opts)
	if err != nil {
		if errors.Is(err, gam.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": err.Error()})
		}
		l.Error("Value upload failed", zap.String("key", keyName), zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(result)
}

// HandleDeactivateValues bulk-deactivates the posted values on the key.
func (h *Handler) HandleDeactivateValues(c *fiber.Ctx) error {
	keyName := c.Params("name")
	l := logger.WithRayID(h.service.logger, c)

	var req deactivateRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}
	if len(req.Values) == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "values are required"})
	}

	result, err := h.service.Deactivate(c.Context(), keyName, importer.FromAny(req.Values))
	if err != nil {
		if errors.Is(err, gam.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": err.Error()})
		}
		l.Error("Value deactivation failed", zap.String("key", keyName), zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(result)
}
