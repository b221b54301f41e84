package handlers

import (
	"crypto/subtle"

	"github.com/docuvault/docuvault/internal/config"
	"github.com/docuvault/docuvault/internal/dto"
	"github.com/docuvault/docuvault/internal/models"
	"github.com/docuvault/docuvault/internal/services"
	"github.com/gofiber/fiber/v2"
)

type IngestionHandler struct {
	ingestionService *services.IngestionService
	cfg              *config.Config
}

func NewIngestionHandler(ingestionService *services.IngestionService, cfg *config.Config) *IngestionHandler {
	return &IngestionHandler{ingestionService: ingestionService, cfg: cfg}
}

// Trigger starts a new ingestion attempt. Accepted rather than OK: in async
// mode the work finishes later via the webhook.
func (h *IngestionHandler) Trigger(c *fiber.Ctx) error {
	documentID, err := c.ParamsInt("documentId")
	if err != nil || documentID < 1 {
		return renderBadRequest(c, "Invalid document id")
	}

	ingestion, err := h.ingestionService.Trigger(uint(documentID))
	if err != nil {
		return renderError(c, err)
	}

	return c.Status(fiber.StatusAccepted).JSON(ingestion)
}

func (h *IngestionHandler) Status(c *fiber.Ctx) error {
	documentID, err := c.ParamsInt("documentId")
	if err != nil || documentID < 1 {
		return renderBadRequest(c, "Invalid document id")
	}

	ingestion, err := h.ingestionService.CheckStatus(uint(documentID))
	if err != nil {
		return renderError(c, err)
	}

	return c.JSON(ingestion)
}

// Webhook accepts status callbacks from the external ingestion system,
// authenticated by a shared secret header.
func (h *IngestionHandler) Webhook(c *fiber.Ctx) error {
	secret := c.Get("x-webhook-secret")
	if h.cfg.WebhookSecret == "" ||
		subtle.ConstantTimeCompare([]byte(secret), []byte(h.cfg.WebhookSecret)) != 1 {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid webhook secret",
		})
	}

	var req dto.IngestionWebhookRequest
	if err := c.BodyParser(&req); err != nil {
		return renderBadRequest(c, "Invalid webhook payload")
	}
	if req.DocumentID < 1 {
		return renderBadRequest(c, "Invalid document id")
	}
	if !models.ValidStatus(req.Status) {
		return renderBadRequest(c, "Invalid ingestion status")
	}

	if err := h.ingestionService.HandleCallback(req.DocumentID, req.Status); err != nil {
		return renderError(c, err)
	}

	return c.JSON(dto.WebhookAck{Success: true})
}
