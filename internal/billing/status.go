package billing

import "github.com/toptally/scoreboard-backend/internal/models"

// NormalizeStatus maps a Lemon Squeezy subscription status onto the local
// enumeration. Unrecognized values fall back to active (known=false) so a
// provider-side schema addition degrades availability-first instead of
// failing every reconciliation; callers should log the miss.
func NormalizeStatus(external string) (status string, known bool) {
	switch external {
	case "on_trial":
		return models.StatusTrialing, true
	case "active":
		return models.StatusActive, true
	case "paused":
		return models.StatusPaused, true
	case "past_due":
		return models.StatusPastDue, true
	case "unpaid":
		return models.StatusUnpaid, true
	case "cancelled":
		return models.StatusCancelled, true
	case "expired":
		return models.StatusExpired, true
	default:
		return models.StatusActive, false
	}
}
