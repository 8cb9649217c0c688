package entitlement

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/toptally/scoreboard-backend/internal/models"
)

func TestIsSupporter(t *testing.T) {
	now := time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)
	future := now.Add(30 * 24 * time.Hour)
	past := now.Add(-24 * time.Hour)

	tests := []struct {
		name string
		role string
		sub  *models.Subscription
		want bool
	}{
		{
			name: "no subscription",
			role: "user",
			sub:  nil,
			want: false,
		},
		{
			name: "active",
			role: "user",
			sub:  &models.Subscription{Status: models.StatusActive},
			want: true,
		},
		{
			name: "trialing",
			role: "user",
			sub:  &models.Subscription{Status: models.StatusTrialing},
			want: true,
		},
		{
			name: "past due",
			role: "user",
			sub:  &models.Subscription{Status: models.StatusPastDue},
			want: false,
		},
		{
			name: "paused",
			role: "user",
			sub:  &models.Subscription{Status: models.StatusPaused},
			want: false,
		},
		{
			name: "expired",
			role: "user",
			sub:  &models.Subscription{Status: models.StatusExpired},
			want: false,
		},
		{
			name: "unpaid",
			role: "user",
			sub:  &models.Subscription{Status: models.StatusUnpaid},
			want: false,
		},
		{
			name: "cancelled, period end in the future",
			role: "user",
			sub: &models.Subscription{
				Status:      models.StatusCancelled,
				CancelledAt: &future,
			},
			want: true,
		},
		{
			name: "cancelled, period end passed",
			role: "user",
			sub: &models.Subscription{
				Status:      models.StatusCancelled,
				CancelledAt: &past,
			},
			want: false,
		},
		{
			name: "cancelled without effective date",
			role: "user",
			sub:  &models.Subscription{Status: models.StatusCancelled},
			want: false,
		},
		{
			name: "gift with future expiry overrides dead status",
			role: "user",
			sub: &models.Subscription{
				Status:          models.StatusExpired,
				IsGifted:        true,
				GiftedExpiresAt: &future,
			},
			want: true,
		},
		{
			name: "expired gift",
			role: "user",
			sub: &models.Subscription{
				Status:          models.StatusExpired,
				IsGifted:        true,
				GiftedExpiresAt: &past,
			},
			want: false,
		},
		{
			name: "gift flagged but no expiry set",
			role: "user",
			sub: &models.Subscription{
				Status:   models.StatusExpired,
				IsGifted: true,
			},
			want: false,
		},
		{
			name: "admin without subscription",
			role: "admin",
			sub:  nil,
			want: true,
		},
		{
			name: "admin with dead subscription",
			role: "admin",
			sub:  &models.Subscription{Status: models.StatusExpired},
			want: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsSupporter(tt.role, tt.sub, now))
		})
	}
}

func TestIsSupporterBoundaryIsExclusive(t *testing.T) {
	now := time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)

	// Expiry exactly at "now" is already expired.
	sub := &models.Subscription{
		Status:          models.StatusExpired,
		IsGifted:        true,
		GiftedExpiresAt: &now,
	}
	assert.False(t, IsSupporter("user", sub, now))

	sub = &models.Subscription{
		Status:      models.StatusCancelled,
		CancelledAt: &now,
	}
	assert.False(t, IsSupporter("user", sub, now))
}
