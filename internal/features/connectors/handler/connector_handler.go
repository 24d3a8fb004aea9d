package handler

import (
	"errors"
	"net/http"

	"sku-tracker/internal/core/logger"
	"sku-tracker/internal/features/connectors/domain"
	"sku-tracker/internal/features/connectors/ports"
	skudomain "sku-tracker/internal/features/skus/domain"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// maxBatchSize bounds the number of shipments accepted by one batch request.
const maxBatchSize = 100

// ConnectorHandler handles HTTP requests that reach out to external providers.
type ConnectorHandler struct {
	service ports.IngestionService
}

// NewConnectorHandler creates a new ConnectorHandler.
func NewConnectorHandler(s ports.IngestionService) *ConnectorHandler {
	return &ConnectorHandler{
		service: s,
	}
}

// Register mounts the connector routes on router.
func (h *ConnectorHandler) Register(router fiber.Router) {
	router.Post("/connectors/track", h.TrackShipment)
	router.Post("/connectors/track/batch", h.TrackBatch)
	router.Post("/connectors/catalog", h.LookupCatalog)
}

// ErrorResponse represents an error response with Ray ID.
type ErrorResponse struct {
	// Message is the error description.
	Message string `json:"message"`
	// RayID is the unique request identifier for tracing.
	RayID string `json:"ray_id"`
}

// TrackShipmentResponse lists the events created by one ingestion.
type TrackShipmentResponse struct {
	Events []skudomain.Event `json:"events"`
}

// TrackBatchRequest is the body of a batch ingestion.
type TrackBatchRequest struct {
	Requests []ports.TrackRequest `json:"requests"`
}

// TrackBatchResult is the outcome of one shipment of a batch.
type TrackBatchResult struct {
	Events []skudomain.Event `json:"events,omitempty"`
	Error  string            `json:"error,omitempty"`
}

// TrackBatchResponse holds one result per request, in request order.
type TrackBatchResponse struct {
	Results []TrackBatchResult `json:"results"`
}

// CatalogLookupRequest is the body of a catalog lookup.
type CatalogLookupRequest struct {
	Identifier string                 `json:"identifier"`
	Provider   domain.CatalogProvider `json:"provider"`
}

func rayID(c *fiber.Ctx) string {
	id, ok := c.Locals("requestid").(string)
	if !ok {
		return "unknown"
	}
	return id
}

// fail maps a service error: validation failures are the caller's fault, everything else is ours.
func fail(c *fiber.Ctx, err error) error {
	var vErr *domain.ValidationError
	if errors.As(err, &vErr) {
		return c.Status(http.StatusBadRequest).JSON(ErrorResponse{
			Message: vErr.Message,
			RayID:   rayID(c),
		})
	}

	logger.Get().Error("Connector request failed",
		zap.String("path", c.Path()),
		zap.String("ray_id", rayID(c)),
		zap.Error(err),
	)
	return c.Status(http.StatusInternalServerError).JSON(ErrorResponse{
		Message: "Internal Server Error",
		RayID:   rayID(c),
	})
}

func badRequest(c *fiber.Ctx, msg string) error {
	return c.Status(http.StatusBadRequest).JSON(ErrorResponse{
		Message: msg,
		RayID:   rayID(c),
	})
}

// TrackShipment godoc
// @Summary Ingest shipment events for a SKU
// @Description Fetches the tracking events of a shipment from the carrier and stores them on the SKU.
// @Tags connectors
// @Accept json
// @Produce json
// @Param request body ports.TrackRequest true "Shipment to ingest (provider: fedex, ups, usps)"
// @Success 200 {object} TrackShipmentResponse
// @Failure 400 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /connectors/track [post]
func (h *ConnectorHandler) TrackShipment(c *fiber.Ctx) error {
	var req ports.TrackRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	events, err := h.service.TrackShipment(c.Context(), req)
	if err != nil {
		return fail(c, err)
	}

	return c.Status(http.StatusOK).JSON(TrackShipmentResponse{Events: events})
}

// TrackBatch godoc
// @Summary Ingest several shipments
// @Description Runs independent ingestions concurrently. One failure does not affect the others.
// @Tags connectors
// @Accept json
// @Produce json
// @Param request body TrackBatchRequest true "Shipments to ingest"
// @Success 200 {object} TrackBatchResponse
// @Failure 400 {object} ErrorResponse
// @Router /connectors/track/batch [post]
func (h *ConnectorHandler) TrackBatch(c *fiber.Ctx) error {
	var req TrackBatchRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}
	if len(req.Requests) == 0 {
		return badRequest(c, "requests must not be empty")
	}
	if len(req.Requests) > maxBatchSize {
		return badRequest(c, "too many requests in one batch")
	}

	results := h.service.IngestBatch(c.Context(), req.Requests)

	resp := TrackBatchResponse{Results: make([]TrackBatchResult, len(results))}
	for i, r := range results {
		if r.Err != nil {
			resp.Results[i] = TrackBatchResult{Error: r.Err.Error()}
			continue
		}
		events := r.Events
		if events == nil {
			events = []skudomain.Event{}
		}
		resp.Results[i] = TrackBatchResult{Events: events}
	}

	return c.Status(http.StatusOK).JSON(resp)
}

// LookupCatalog godoc
// @Summary Look up a product
// @Description Resolves a UPC, EAN or barcode through a catalog provider.
// @Tags connectors
// @Accept json
// @Produce json
// @Param request body CatalogLookupRequest true "Identifier and provider (upcitemdb, barcodelookup)"
// @Success 200 {object} domain.CanonicalProduct
// @Failure 400 {object} ErrorResponse
// @Router /connectors/catalog [post]
func (h *ConnectorHandler) LookupCatalog(c *fiber.Ctx) error {
	var req CatalogLookupRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	product, err := h.service.LookupCatalog(c.Context(), req.Identifier, req.Provider)
	if err != nil {
		return fail(c, err)
	}

	return c.Status(http.StatusOK).JSON(product)
}
