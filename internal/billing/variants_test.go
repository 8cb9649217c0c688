package billing

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/toptally/scoreboard-backend/internal/config"
	"github.com/toptally/scoreboard-backend/internal/models"
)

func testVariantConfig() *config.Config {
	return &config.Config{
		VariantSupporterMonthly:   "101",
		VariantSupporterYearly:    "102",
		VariantChampionMonthly:    "201",
		VariantChampionYearly:     "202",
		VariantLegendMonthly:      "301",
		VariantLegendYearly:       "302",
		VariantHallOfFamerMonthly: "401",
		VariantHallOfFamerYearly:  "402",
	}
}

func TestVariantMapRoundTrip(t *testing.T) {
	m := NewVariantMap(testVariantConfig())

	plan, ok := m.Plan("201")
	assert.True(t, ok)
	assert.Equal(t, models.TierChampion, plan.Tier)
	assert.Equal(t, models.IntervalMonthly, plan.Interval)

	id, ok := m.Variant(models.TierChampion, models.IntervalMonthly)
	assert.True(t, ok)
	assert.Equal(t, "201", id)

	assert.Len(t, m.Variants(), 8)
}

func TestVariantMapUnknownVariant(t *testing.T) {
	m := NewVariantMap(testVariantConfig())

	_, ok := m.Plan("999")
	assert.False(t, ok)

	_, ok = m.Plan("")
	assert.False(t, ok)
}

func TestVariantMapUnconfiguredPairsAreAbsent(t *testing.T) {
	cfg := &config.Config{
		VariantSupporterMonthly: "101",
	}
	m := NewVariantMap(cfg)

	assert.Len(t, m.Variants(), 1)

	_, ok := m.Variant(models.TierSupporter, models.IntervalYearly)
	assert.False(t, ok)

	// Appreciation is never sold, so it has no variant mapping.
	_, ok = m.Variant(models.TierAppreciation, models.IntervalMonthly)
	assert.False(t, ok)
}
