package handlers

import (
	"log/slog"

	"github.com/gofiber/fiber/v2"
	"github.com/toptally/scoreboard-backend/internal/dto"
	"github.com/toptally/scoreboard-backend/internal/middleware"
	"github.com/toptally/scoreboard-backend/internal/services"
)

type ProfileHandler struct {
	authService         *services.AuthService
	subscriptionService *services.SubscriptionService
	scoreboardService   *services.ScoreboardService
	pricingService      *services.PricingService
}

func NewProfileHandler(
	authService *services.AuthService,
	subscriptionService *services.SubscriptionService,
	scoreboardService *services.ScoreboardService,
	pricingService *services.PricingService,
) *ProfileHandler {
	return &ProfileHandler{
		authService:         authService,
		subscriptionService: subscriptionService,
		scoreboardService:   scoreboardService,
		pricingService:      pricingService,
	}
}

// Me returns the profile with current supporter status. Downgrades are
// detected here: the first profile load after losing entitlement locks all
// of the owner's scoreboards in one batch.
func (h *ProfileHandler) Me(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
			Error: true, Message: "Unauthorized",
		})
	}

	user, err := h.authService.GetUser(userID)
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{
			Error: true, Message: "User not found",
		})
	}

	supporter, sub, err := h.subscriptionService.IsSupporter(user)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Failed to load subscription",
		})
	}

	if !supporter && sub != nil && sub.LockEnforcedAt == nil {
		locked, err := h.scoreboardService.LockAllForOwner(user.ID)
		if err != nil {
			slog.Error("downgrade lock failed", "user_id", user.ID.String(), "error", err)
		} else {
			if err := h.subscriptionService.MarkLockEnforced(sub.ID); err != nil {
				slog.Error("failed to mark downgrade lock", "subscription_id", sub.ID.String(), "error", err)
			}
			slog.Info("downgrade detected, scoreboards locked",
				"user_id", user.ID.String(), "boards_locked", locked)
		}
	}

	return c.JSON(dto.MeResponse{
		User: dto.UserResponse{
			ID:          user.ID,
			Email:       user.Email,
			DisplayName: user.DisplayName,
			Role:        user.Role,
		},
		IsSupporter:  supporter,
		Subscription: sub,
	})
}

// Pricing returns the public tier pricing table.
func (h *ProfileHandler) Pricing(c *fiber.Ctx) error {
	pricing, err := h.pricingService.List()
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Failed to load pricing",
		})
	}
	return c.JSON(fiber.Map{"tiers": pricing})
}
