package handlers

import (
	"errors"
	"log/slog"

	"github.com/gofiber/fiber/v2"
	"github.com/toptally/scoreboard-backend/internal/billing"
	"github.com/toptally/scoreboard-backend/internal/config"
	"github.com/toptally/scoreboard-backend/internal/dto"
	"github.com/toptally/scoreboard-backend/internal/services"
)

type WebhookHandler struct {
	subscriptionService *services.SubscriptionService
	cfg                 *config.Config
}

func NewWebhookHandler(subscriptionService *services.SubscriptionService, cfg *config.Config) *WebhookHandler {
	return &WebhookHandler{subscriptionService: subscriptionService, cfg: cfg}
}

// HandleLemonSqueezy receives billing webhooks. The raw body is verified
// against the X-Signature header before any parsing happens.
func (h *WebhookHandler) HandleLemonSqueezy(c *fiber.Ctx) error {
	if h.cfg.LemonSqueezySigningSecret == "" {
		slog.Error("webhook received but LEMONSQUEEZY_SIGNING_SECRET is not set")
		return c.Status(fiber.StatusServiceUnavailable).JSON(dto.ErrorResponse{
			Error: true, Message: "Webhooks not configured",
		})
	}

	body := c.Body()
	signature := c.Get("X-Signature")
	if !billing.VerifySignature(h.cfg.LemonSqueezySigningSecret, body, signature) {
		slog.Warn("webhook signature mismatch", "ip", c.IP())
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid signature",
		})
	}

	event, err := billing.ParseWebhook(body)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Malformed webhook payload",
		})
	}

	if err := h.subscriptionService.HandleWebhookEvent(c.UserContext(), event); err != nil {
		if errors.Is(err, services.ErrUnknownWebhookUser) {
			slog.Warn("webhook for unknown user", "event", event.EventName)
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
				Error: true, Message: "Unknown user",
			})
		}
		slog.Error("webhook processing failed", "event", event.EventName, "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Failed to process event",
		})
	}

	return c.JSON(fiber.Map{"received": true})
}
