package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/toptally/scoreboard-backend/internal/entitlement"
)

// denied renders an entitlement denial. The payload carries the reason
// code and upgrade call-to-action the UI branches on; it is a business
// outcome, not a server fault.
func denied(c *fiber.Ctx, d *entitlement.Decision) error {
	return c.Status(fiber.StatusForbidden).JSON(d)
}
