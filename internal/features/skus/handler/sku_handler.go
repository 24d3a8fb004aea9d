package handler

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"sku-tracker/internal/core/logger"
	"sku-tracker/internal/features/skus/domain"
	"sku-tracker/internal/features/skus/ports"
	"sku-tracker/internal/features/skus/service"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// SkuHandler handles HTTP requests for the SKU catalogue and timelines.
type SkuHandler struct {
	service ports.SkuService
}

// NewSkuHandler creates a new SkuHandler.
func NewSkuHandler(s ports.SkuService) *SkuHandler {
	return &SkuHandler{
		service: s,
	}
}

// Register mounts the SKU routes on router.
func (h *SkuHandler) Register(router fiber.Router) {
	router.Post("/skus", h.CreateSku)
	router.Get("/skus/search", h.SearchSkus)
	router.Post("/skus/:id/events", h.RecordEvent)
	router.Get("/skus/:id/timeline", h.GetTimeline)
}

// ErrorResponse represents the structure of an error response.
type ErrorResponse struct {
	// Message is the error description.
	Message string `json:"message"`
	// RayID is the unique request identifier for debugging.
	RayID string `json:"ray_id"`
}

// IdentityRequest is one external identifier of a new SKU.
type IdentityRequest struct {
	Provider   string  `json:"provider"`
	Identifier string  `json:"identifier"`
	Confidence float64 `json:"confidence"`
}

// CreateSkuRequest represents the request body for creating a SKU.
type CreateSkuRequest struct {
	CanonicalSku string            `json:"canonical_sku"`
	Name         string            `json:"name"`
	Description  *string           `json:"description"`
	Brand        *string           `json:"brand"`
	Identities   []IdentityRequest `json:"identities"`
}

// RecordEventRequest represents the request body for recording a manual event.
type RecordEventRequest struct {
	SkuID      int64          `json:"sku_id"`
	EventType  string         `json:"event_type"`
	Provider   string         `json:"provider"`
	Location   *string        `json:"location"`
	Payload    map[string]any `json:"payload"`
	RawPayload map[string]any `json:"raw_payload"`
	// ObservedAt defaults to now.
	ObservedAt *time.Time `json:"observed_at"`
	Confidence float64    `json:"confidence"`
}

func rayID(c *fiber.Ctx) string {
	id, ok := c.Locals("requestid").(string)
	if !ok {
		return "unknown"
	}
	return id
}

func fail(c *fiber.Ctx, status int, msg string) error {
	return c.Status(status).JSON(ErrorResponse{
		Message: msg,
		RayID:   rayID(c),
	})
}

func (h *SkuHandler) internalError(c *fiber.Ctx, msg string, err error) error {
	logger.Get().Error(msg,
		zap.String("path", c.Path()),
		zap.String("ray_id", rayID(c)),
		zap.Error(err),
	)
	return fail(c, http.StatusInternalServerError, "Internal Server Error")
}

// CreateSku handles POST /skus.
// @Summary Create a SKU
// @Description Creates a SKU together with its external identities.
// @Tags skus
// @Accept json
// @Produce json
// @Param sku body CreateSkuRequest true "SKU details"
// @Success 201 {object} domain.Sku
// @Failure 400 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /skus [post]
func (h *SkuHandler) CreateSku(c *fiber.Ctx) error {
	var req CreateSkuRequest
	if err := c.BodyParser(&req); err != nil {
		return fail(c, http.StatusBadRequest, "Invalid request body")
	}

	identities := make([]domain.Identity, 0, len(req.Identities))
	for _, id := range req.Identities {
		identities = append(identities, domain.Identity{
			Provider:   id.Provider,
			Identifier: id.Identifier,
			Confidence: id.Confidence,
		})
	}

	sku, err := domain.NewSku(req.CanonicalSku, req.Name, req.Description, req.Brand, identities)
	if err != nil {
		return fail(c, http.StatusBadRequest, err.Error())
	}

	created, err := h.service.CreateSku(c.Context(), sku)
	if err != nil {
		return h.internalError(c, "Failed to create SKU", err)
	}

	return c.Status(http.StatusCreated).JSON(created)
}

// RecordEvent handles POST /skus/{id}/events.
// @Summary Record a manual event
// @Description Appends an event to a SKU. The body sku_id must match the path.
// @Tags skus
// @Accept json
// @Produce json
// @Param id path int true "SKU ID"
// @Param event body RecordEventRequest true "Event details"
// @Success 201 {object} domain.Event
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /skus/{id}/events [post]
func (h *SkuHandler) RecordEvent(c *fiber.Ctx) error {
	skuID, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil {
		return fail(c, http.StatusBadRequest, "Invalid SKU ID")
	}

	var req RecordEventRequest
	if err := c.BodyParser(&req); err != nil {
		return fail(c, http.StatusBadRequest, "Invalid request body")
	}

	if req.SkuID != skuID {
		return fail(c, http.StatusBadRequest, "SKU ID mismatch")
	}

	var observedAt time.Time
	if req.ObservedAt != nil {
		observedAt = *req.ObservedAt
	}

	event, err := domain.NewManualEvent(skuID, req.EventType, req.Provider, req.Location, req.Payload, req.RawPayload, observedAt, req.Confidence)
	if err != nil {
		return fail(c, http.StatusBadRequest, err.Error())
	}

	recorded, err := h.service.RecordEvent(c.Context(), event)
	if err != nil {
		if errors.Is(err, domain.ErrSkuNotFound) {
			return fail(c, http.StatusNotFound, "SKU not found")
		}
		return h.internalError(c, "Failed to record event", err)
	}

	return c.Status(http.StatusCreated).JSON(recorded)
}

// GetTimeline handles GET /skus/{id}/timeline.
// @Summary Get the SKU timeline
// @Description Returns the SKU, its events most recent first, the inferred status and the last known location.
// @Tags skus
// @Produce json
// @Param id path int true "SKU ID"
// @Success 200 {object} domain.Timeline
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /skus/{id}/timeline [get]
func (h *SkuHandler) GetTimeline(c *fiber.Ctx) error {
	skuID, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil {
		return fail(c, http.StatusBadRequest, "Invalid SKU ID")
	}

	timeline, err := h.service.GetTimeline(c.Context(), skuID)
	if err != nil {
		if errors.Is(err, domain.ErrSkuNotFound) {
			return fail(c, http.StatusNotFound, "SKU not found")
		}
		return h.internalError(c, "Failed to build timeline", err)
	}

	return c.Status(http.StatusOK).JSON(timeline)
}

// SearchSkus handles GET /skus/search.
// @Summary Search SKUs by name
// @Description Case-insensitive substring match on the SKU name.
// @Tags skus
// @Produce json
// @Param q query string true "Name fragment"
// @Success 200 {array} domain.Sku
// @Failure 400 {object} ErrorResponse
// @Router /skus/search [get]
func (h *SkuHandler) SearchSkus(c *fiber.Ctx) error {
	skus, err := h.service.SearchSkus(c.Context(), c.Query("q"))
	if err != nil {
		if errors.Is(err, service.ErrEmptyQuery) {
			return fail(c, http.StatusBadRequest, "Query parameter q is required")
		}
		return h.internalError(c, "Failed to search SKUs", err)
	}

	return c.Status(http.StatusOK).JSON(skus)
}
