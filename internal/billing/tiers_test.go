package billing

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/toptally/scoreboard-backend/internal/models"
)

func TestTierCatalog(t *testing.T) {
	tiers := Tiers()
	require.Len(t, tiers, 5)

	for _, info := range tiers {
		assert.True(t, models.ValidTier(info.Tier), info.Tier)
		assert.NotEmpty(t, info.Label)
		assert.NotEmpty(t, info.Emoji)
	}

	// Paid tiers are strictly ordered by price.
	for i := 1; i < 4; i++ {
		assert.Greater(t, tiers[i].MonthlyCents, tiers[i-1].MonthlyCents)
	}

	// Appreciation is free and only ever granted, never sold.
	info, ok := LookupTier(models.TierAppreciation)
	require.True(t, ok)
	assert.Zero(t, info.MonthlyCents)
	assert.Zero(t, info.YearlyCents)
}

func TestDefaultPriceCents(t *testing.T) {
	cents, ok := DefaultPriceCents(models.TierChampion, models.IntervalMonthly)
	assert.True(t, ok)
	assert.Equal(t, 600, cents)

	cents, ok = DefaultPriceCents(models.TierChampion, models.IntervalYearly)
	assert.True(t, ok)
	assert.Equal(t, 6000, cents)

	_, ok = DefaultPriceCents("platinum", models.IntervalMonthly)
	assert.False(t, ok)

	_, ok = DefaultPriceCents(models.TierChampion, "weekly")
	assert.False(t, ok)
}

func TestLowestPaidTier(t *testing.T) {
	assert.Equal(t, models.TierSupporter, LowestPaidTier)
}
