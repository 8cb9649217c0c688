package dto

import (
	"time"

	"github.com/google/uuid"
)

type GiftSubscriptionRequest struct {
	Tier      string    `json:"tier"`
	ExpiresAt time.Time `json:"expires_at"`
}

type LinkSubscriptionRequest struct {
	UserID                     uuid.UUID `json:"user_id"`
	LemonSqueezySubscriptionID string    `json:"lemonsqueezy_subscription_id"`
}

type AuditLogResponse struct {
	ID           uuid.UUID  `json:"id"`
	ActorID      uuid.UUID  `json:"actor_id"`
	Action       string     `json:"action"`
	Label        string     `json:"label"`
	TargetUserID *uuid.UUID `json:"target_user_id,omitempty"`
	Details      any        `json:"details"`
	CreatedAt    time.Time  `json:"created_at"`
}
