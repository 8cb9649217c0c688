package models

import (
	"time"

	"github.com/google/uuid"
)

// Subscription statuses, normalized from Lemon Squeezy's status strings.
const (
	StatusActive    = "active"
	StatusTrialing  = "trialing"
	StatusPastDue   = "past_due"
	StatusPaused    = "paused"
	StatusExpired   = "expired"
	StatusCancelled = "cancelled"
	StatusUnpaid    = "unpaid"
)

// Supporter tiers. Appreciation is a non-monetary grant.
const (
	TierSupporter    = "supporter"
	TierChampion     = "champion"
	TierLegend       = "legend"
	TierHallOfFamer  = "hall_of_famer"
	TierAppreciation = "appreciation"
)

const (
	IntervalMonthly = "monthly"
	IntervalYearly  = "yearly"
)

// Subscription is one row per user/provider relationship. Users can have
// multiple historical rows; the most recently created one is authoritative.
// Rows are never deleted, status moves to cancelled/expired instead.
type Subscription struct {
	ID              uuid.UUID  `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	UserID          uuid.UUID  `gorm:"type:uuid;not null;index" json:"user_id"`
	Status          string     `gorm:"not null;default:'active';size:50" json:"status"`
	Tier            string     `gorm:"not null;default:'supporter';size:50" json:"tier"`
	BillingInterval string     `gorm:"not null;default:'monthly';size:20" json:"billing_interval"`
	AmountCents     int        `json:"amount_cents"`
	Currency        string     `gorm:"size:3;default:'USD'" json:"currency"`
	IsGifted        bool       `gorm:"default:false" json:"is_gifted"`
	GiftedExpiresAt *time.Time `json:"gifted_expires_at"`
	CancelledAt     *time.Time `json:"cancelled_at"`

	// LockEnforcedAt marks that the downgrade scoreboard lock has already
	// been applied for this row, so profile loads don't re-lock boards the
	// owner has since unlocked.
	LockEnforcedAt *time.Time `json:"-"`

	LemonSqueezySubscriptionID string `gorm:"column:lemonsqueezy_subscription_id;index;size:255" json:"lemonsqueezy_subscription_id"`
	LemonSqueezyCustomerID     string `gorm:"column:lemonsqueezy_customer_id;size:255" json:"lemonsqueezy_customer_id"`
	LemonSqueezyVariantID      string `gorm:"column:lemonsqueezy_variant_id;size:255" json:"lemonsqueezy_variant_id"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	User      User      `gorm:"foreignKey:UserID" json:"-"`
}

func ValidStatus(s string) bool {
	switch s {
	case StatusActive, StatusTrialing, StatusPastDue, StatusPaused, StatusExpired, StatusCancelled, StatusUnpaid:
		return true
	}
	return false
}

func ValidTier(t string) bool {
	switch t {
	case TierSupporter, TierChampion, TierLegend, TierHallOfFamer, TierAppreciation:
		return true
	}
	return false
}
