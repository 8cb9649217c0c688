package entitlement

import (
	"time"

	"github.com/toptally/scoreboard-backend/internal/models"
)

// IsSupporter decides whether an account currently has supporter-level
// privileges. Pure function of its inputs; evaluated in order, first match
// wins:
//
//  1. admins are always supporters, independent of any subscription row
//  2. a gift with an expiry strictly in the future
//  3. status active or trialing
//  4. status cancelled with the cancellation taking effect strictly in the
//     future (cancellation applies at period end, not immediately)
func IsSupporter(role string, sub *models.Subscription, now time.Time) bool {
	if role == "admin" {
		return true
	}
	if sub == nil {
		return false
	}
	if sub.IsGifted && sub.GiftedExpiresAt != nil && sub.GiftedExpiresAt.After(now) {
		return true
	}
	if sub.Status == models.StatusActive || sub.Status == models.StatusTrialing {
		return true
	}
	if sub.Status == models.StatusCancelled && sub.CancelledAt != nil && sub.CancelledAt.After(now) {
		return true
	}
	return false
}
