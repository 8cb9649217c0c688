package dto

import (
	"github.com/toptally/scoreboard-backend/internal/models"
)

type MeResponse struct {
	User         UserResponse         `json:"user"`
	IsSupporter  bool                 `json:"is_supporter"`
	Subscription *models.Subscription `json:"subscription,omitempty"`
}

type TierPricingResponse struct {
	Tier        string `json:"tier"`
	Label       string `json:"label"`
	Emoji       string `json:"emoji"`
	Interval    string `json:"interval"`
	AmountCents int    `json:"amount_cents"`
	Currency    string `json:"currency"`
	VariantID   string `json:"variant_id,omitempty"`
}
