package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/toptally/scoreboard-backend/internal/billing"
	"github.com/toptally/scoreboard-backend/internal/dto"
	"github.com/toptally/scoreboard-backend/internal/models"
	"gorm.io/gorm"
)

// PricingService maintains the canonical tier_pricing table. Rows are
// written only by the admin-triggered sync, never by users.
type PricingService struct {
	db       *gorm.DB
	client   BillingClient
	variants *billing.VariantMap
	audit    *AuditService
}

func NewPricingService(db *gorm.DB, client BillingClient, variants *billing.VariantMap, audit *AuditService) *PricingService {
	return &PricingService{db: db, client: client, variants: variants, audit: audit}
}

// List returns the public pricing table: the static catalog overlaid with
// any synced canonical prices.
func (s *PricingService) List() ([]dto.TierPricingResponse, error) {
	var rows []models.TierPricing
	if err := s.db.Find(&rows).Error; err != nil {
		return nil, err
	}

	synced := make(map[billing.Plan]models.TierPricing, len(rows))
	for _, row := range rows {
		synced[billing.Plan{Tier: row.Tier, Interval: row.BillingInterval}] = row
	}

	var out []dto.TierPricingResponse
	for _, info := range billing.Tiers() {
		if info.Tier == models.TierAppreciation {
			continue // not sold, granted by admins only
		}
		for _, interval := range []string{models.IntervalMonthly, models.IntervalYearly} {
			amount, _ := billing.DefaultPriceCents(info.Tier, interval)
			currency := "USD"
			variantID, _ := s.variants.Variant(info.Tier, interval)
			if row, ok := synced[billing.Plan{Tier: info.Tier, Interval: interval}]; ok {
				amount = row.AmountCents
				currency = row.Currency
			}
			out = append(out, dto.TierPricingResponse{
				Tier:        info.Tier,
				Label:       info.Label,
				Emoji:       info.Emoji,
				Interval:    interval,
				AmountCents: amount,
				Currency:    currency,
				VariantID:   variantID,
			})
		}
	}
	return out, nil
}

// Sync pulls the current price of every mapped variant from Lemon Squeezy
// and upserts the tier_pricing rows.
func (s *PricingService) Sync(ctx context.Context, actorID uuid.UUID) (int, error) {
	syncedCount := 0
	for _, variantID := range s.variants.Variants() {
		plan, _ := s.variants.Plan(variantID)

		variant, err := s.client.GetVariant(ctx, variantID)
		if err != nil {
			return syncedCount, fmt.Errorf("failed to fetch variant %s: %w", variantID, err)
		}

		row := models.TierPricing{
			Tier:            plan.Tier,
			BillingInterval: plan.Interval,
		}
		err = s.db.Where(&row).
			Assign(models.TierPricing{
				AmountCents: variant.PriceCents,
				VariantID:   variantID,
				SyncedAt:    time.Now(),
			}).
			FirstOrCreate(&row).Error
		if err != nil {
			return syncedCount, fmt.Errorf("failed to upsert pricing for %s/%s: %w", plan.Tier, plan.Interval, err)
		}
		syncedCount++
	}

	s.audit.RecordBestEffort(actorID, models.AuditActionSyncPricing, nil, map[string]interface{}{
		"variants_synced": syncedCount,
	})
	return syncedCount, nil
}
