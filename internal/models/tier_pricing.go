package models

import (
	"time"

	"github.com/google/uuid"
)

// TierPricing holds the canonical price per (tier, interval) pair, last
// synced from Lemon Squeezy. Written only by the admin pricing sync.
type TierPricing struct {
	ID              uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Tier            string    `gorm:"size:50;not null;uniqueIndex:idx_tier_pricing_pair" json:"tier"`
	BillingInterval string    `gorm:"size:20;not null;uniqueIndex:idx_tier_pricing_pair" json:"billing_interval"`
	AmountCents     int       `gorm:"not null" json:"amount_cents"`
	Currency        string    `gorm:"size:3;default:'USD'" json:"currency"`
	VariantID       string    `gorm:"size:255" json:"variant_id"`
	SyncedAt        time.Time `json:"synced_at"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}
