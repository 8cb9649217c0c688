package billing

import (
	"github.com/toptally/scoreboard-backend/internal/config"
	"github.com/toptally/scoreboard-backend/internal/models"
)

// Plan is the local meaning of a Lemon Squeezy product variant.
type Plan struct {
	Tier     string
	Interval string
}

// VariantMap translates opaque Lemon Squeezy variant ids to plans and back.
// An unmapped variant id is reported explicitly (ok=false); callers decide
// whether a miss is fatal or falls back to a default.
type VariantMap struct {
	byVariant map[string]Plan
	byPlan    map[Plan]string
}

func NewVariantMap(cfg *config.Config) *VariantMap {
	m := &VariantMap{
		byVariant: make(map[string]Plan),
		byPlan:    make(map[Plan]string),
	}
	m.add(cfg.VariantSupporterMonthly, models.TierSupporter, models.IntervalMonthly)
	m.add(cfg.VariantSupporterYearly, models.TierSupporter, models.IntervalYearly)
	m.add(cfg.VariantChampionMonthly, models.TierChampion, models.IntervalMonthly)
	m.add(cfg.VariantChampionYearly, models.TierChampion, models.IntervalYearly)
	m.add(cfg.VariantLegendMonthly, models.TierLegend, models.IntervalMonthly)
	m.add(cfg.VariantLegendYearly, models.TierLegend, models.IntervalYearly)
	m.add(cfg.VariantHallOfFamerMonthly, models.TierHallOfFamer, models.IntervalMonthly)
	m.add(cfg.VariantHallOfFamerYearly, models.TierHallOfFamer, models.IntervalYearly)
	return m
}

func (m *VariantMap) add(variantID, tier, interval string) {
	if variantID == "" {
		return
	}
	plan := Plan{Tier: tier, Interval: interval}
	m.byVariant[variantID] = plan
	m.byPlan[plan] = variantID
}

// Plan resolves a variant id to its (tier, interval) pair.
func (m *VariantMap) Plan(variantID string) (Plan, bool) {
	plan, ok := m.byVariant[variantID]
	return plan, ok
}

// Variant resolves a (tier, interval) pair to the variant id used when
// initiating checkout or plan changes.
func (m *VariantMap) Variant(tier, interval string) (string, bool) {
	id, ok := m.byPlan[Plan{Tier: tier, Interval: interval}]
	return id, ok
}

// Variants returns every mapped variant id, for the pricing sync.
func (m *VariantMap) Variants() []string {
	ids := make([]string, 0, len(m.byVariant))
	for id := range m.byVariant {
		ids = append(ids, id)
	}
	return ids
}
