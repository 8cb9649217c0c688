package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/toptally/scoreboard-backend/internal/billing"
	"github.com/toptally/scoreboard-backend/internal/dto"
	"github.com/toptally/scoreboard-backend/internal/middleware"
	"github.com/toptally/scoreboard-backend/internal/models"
	"github.com/toptally/scoreboard-backend/internal/services"
)

type AdminHandler struct {
	subscriptionService *services.SubscriptionService
	pricingService      *services.PricingService
	auditService        *services.AuditService
}

func NewAdminHandler(
	subscriptionService *services.SubscriptionService,
	pricingService *services.PricingService,
	auditService *services.AuditService,
) *AdminHandler {
	return &AdminHandler{
		subscriptionService: subscriptionService,
		pricingService:      pricingService,
		auditService:        auditService,
	}
}

func (h *AdminHandler) ListSubscriptions(c *fiber.Ctx) error {
	limit, offset := pagination(c)

	subs, total, err := h.subscriptionService.List(limit, offset)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Failed to fetch subscriptions",
		})
	}
	return c.JSON(fiber.Map{
		"subscriptions": subs,
		"total":         total,
		"limit":         limit,
		"offset":        offset,
	})
}

// RefetchSubscription pulls the authoritative state from Lemon Squeezy and
// overwrites the local row.
func (h *AdminHandler) RefetchSubscription(c *fiber.Ctx) error {
	actorID, err := middleware.GetUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
			Error: true, Message: "Unauthorized",
		})
	}

	subID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid subscription ID",
		})
	}

	sub, err := h.subscriptionService.Reconcile(c.UserContext(), actorID, subID)
	if err != nil {
		return subscriptionError(c, err, "Failed to refetch subscription")
	}
	return c.JSON(sub)
}

func (h *AdminHandler) CancelSubscription(c *fiber.Ctx) error {
	actorID, err := middleware.GetUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
			Error: true, Message: "Unauthorized",
		})
	}

	subID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid subscription ID",
		})
	}

	sub, err := h.subscriptionService.Cancel(c.UserContext(), actorID, subID)
	if err != nil {
		return subscriptionError(c, err, "Failed to cancel subscription")
	}
	return c.JSON(sub)
}

func (h *AdminHandler) GiftSubscription(c *fiber.Ctx) error {
	actorID, err := middleware.GetUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
			Error: true, Message: "Unauthorized",
		})
	}

	targetID, err := uuid.Parse(c.Params("userId"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid user ID",
		})
	}

	var req dto.GiftSubscriptionRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid request body",
		})
	}
	if req.ExpiresAt.IsZero() {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "expires_at is required",
		})
	}
	if req.Tier != "" && !models.ValidTier(req.Tier) {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid tier",
		})
	}

	sub, err := h.subscriptionService.Gift(actorID, targetID, req.Tier, req.ExpiresAt)
	if err != nil {
		return subscriptionError(c, err, "Failed to gift subscription")
	}
	return c.Status(fiber.StatusCreated).JSON(sub)
}

func (h *AdminHandler) RemoveGift(c *fiber.Ctx) error {
	actorID, err := middleware.GetUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
			Error: true, Message: "Unauthorized",
		})
	}

	targetID, err := uuid.Parse(c.Params("userId"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid user ID",
		})
	}

	if err := h.subscriptionService.RemoveGift(actorID, targetID); err != nil {
		return subscriptionError(c, err, "Failed to remove gift")
	}
	return c.JSON(fiber.Map{"message": "Gift removed"})
}

func (h *AdminHandler) LinkSubscription(c *fiber.Ctx) error {
	actorID, err := middleware.GetUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
			Error: true, Message: "Unauthorized",
		})
	}

	var req dto.LinkSubscriptionRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid request body",
		})
	}
	if req.UserID == uuid.Nil || req.LemonSqueezySubscriptionID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "user_id and lemonsqueezy_subscription_id are required",
		})
	}

	sub, err := h.subscriptionService.Link(c.UserContext(), actorID, req.UserID, req.LemonSqueezySubscriptionID)
	if err != nil {
		return subscriptionError(c, err, "Failed to link subscription")
	}
	return c.Status(fiber.StatusCreated).JSON(sub)
}

func (h *AdminHandler) SyncPricing(c *fiber.Ctx) error {
	actorID, err := middleware.GetUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
			Error: true, Message: "Unauthorized",
		})
	}

	synced, err := h.pricingService.Sync(c.UserContext(), actorID)
	if err != nil {
		slog.Error("pricing sync failed", "error", err, "variants_synced", synced)
		return subscriptionError(c, err, "Pricing sync failed")
	}
	return c.JSON(fiber.Map{"variants_synced": synced})
}

func (h *AdminHandler) ListAuditLogs(c *fiber.Ctx) error {
	limit, offset := pagination(c)

	entries, total, err := h.auditService.List(limit, offset)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Failed to fetch audit logs",
		})
	}

	out := make([]dto.AuditLogResponse, 0, len(entries))
	for _, e := range entries {
		var details any
		if len(e.Details) > 0 {
			_ = json.Unmarshal(e.Details, &details)
		}
		out = append(out, dto.AuditLogResponse{
			ID:           e.ID,
			ActorID:      e.ActorID,
			Action:       e.Action,
			Label:        e.Label(),
			TargetUserID: e.TargetUserID,
			Details:      details,
			CreatedAt:    e.CreatedAt,
		})
	}

	return c.JSON(fiber.Map{
		"logs":   out,
		"total":  total,
		"limit":  limit,
		"offset": offset,
	})
}

func pagination(c *fiber.Ctx) (limit, offset int) {
	limit, _ = strconv.Atoi(c.Query("limit", "50"))
	offset, _ = strconv.Atoi(c.Query("offset", "0"))
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}

// subscriptionError maps service and billing errors to HTTP statuses.
// Upstream details stay in the server log; clients get generic messages.
func subscriptionError(c *fiber.Ctx, err error, fallback string) error {
	var upstream *billing.UpstreamError

	switch {
	case errors.Is(err, services.ErrSubscriptionNotFound):
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{
			Error: true, Message: "Subscription not found",
		})
	case errors.Is(err, services.ErrUserNotFound):
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{
			Error: true, Message: "User not found",
		})
	case errors.Is(err, services.ErrGiftedSubscription),
		errors.Is(err, services.ErrNoExternalID):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: err.Error(),
		})
	case errors.Is(err, billing.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{
			Error: true, Message: "Subscription not found at billing provider",
		})
	case errors.As(err, &upstream):
		slog.Error("billing provider error", "status", upstream.StatusCode, "error", err)
		return c.Status(fiber.StatusBadGateway).JSON(dto.ErrorResponse{
			Error: true, Message: "Billing provider unavailable",
		})
	default:
		slog.Error(fallback, "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: fallback,
		})
	}
}
