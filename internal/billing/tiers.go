package billing

import "github.com/toptally/scoreboard-backend/internal/models"

// TierInfo is the static catalog entry for a supporter tier. Prices here
// are display defaults; the canonical prices live in the tier_pricing table
// and are refreshed from Lemon Squeezy by the admin pricing sync.
type TierInfo struct {
	Tier         string `json:"tier"`
	Label        string `json:"label"`
	Emoji        string `json:"emoji"`
	MonthlyCents int    `json:"monthly_cents"`
	YearlyCents  int    `json:"yearly_cents"`
}

// LowestPaidTier is the safe fallback for subscriptions arriving with a
// variant id we have no mapping for.
const LowestPaidTier = models.TierSupporter

var tierCatalog = []TierInfo{
	{Tier: models.TierSupporter, Label: "Supporter", Emoji: "⭐", MonthlyCents: 300, YearlyCents: 3000},
	{Tier: models.TierChampion, Label: "Champion", Emoji: "🏆", MonthlyCents: 600, YearlyCents: 6000},
	{Tier: models.TierLegend, Label: "Legend", Emoji: "👑", MonthlyCents: 1200, YearlyCents: 12000},
	{Tier: models.TierHallOfFamer, Label: "Hall of Famer", Emoji: "🏛️", MonthlyCents: 2500, YearlyCents: 25000},
	{Tier: models.TierAppreciation, Label: "Appreciation", Emoji: "💜", MonthlyCents: 0, YearlyCents: 0},
}

// Tiers returns the full catalog in display order.
func Tiers() []TierInfo {
	out := make([]TierInfo, len(tierCatalog))
	copy(out, tierCatalog)
	return out
}

func LookupTier(tier string) (TierInfo, bool) {
	for _, t := range tierCatalog {
		if t.Tier == tier {
			return t, true
		}
	}
	return TierInfo{}, false
}

// DefaultPriceCents returns the catalog default for a (tier, interval) pair.
func DefaultPriceCents(tier, interval string) (int, bool) {
	info, ok := LookupTier(tier)
	if !ok {
		return 0, false
	}
	switch interval {
	case models.IntervalMonthly:
		return info.MonthlyCents, true
	case models.IntervalYearly:
		return info.YearlyCents, true
	}
	return 0, false
}
