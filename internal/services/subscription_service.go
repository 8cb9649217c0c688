package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/toptally/scoreboard-backend/internal/billing"
	"github.com/toptally/scoreboard-backend/internal/entitlement"
	"github.com/toptally/scoreboard-backend/internal/models"
	"gorm.io/gorm"
)

var (
	ErrSubscriptionNotFound = errors.New("subscription not found")
	ErrGiftedSubscription   = errors.New("gifted subscriptions have no external record to reconcile")
	ErrNoExternalID         = errors.New("subscription has no external subscription id")
	ErrUnknownWebhookUser   = errors.New("could not resolve webhook to a user")
)

// BillingClient is the slice of the Lemon Squeezy API the subscription
// service depends on.
type BillingClient interface {
	GetSubscription(ctx context.Context, subscriptionID string) (*billing.RemoteSubscription, error)
	CancelSubscription(ctx context.Context, subscriptionID string) (*billing.RemoteSubscription, error)
	GetPrice(ctx context.Context, priceID string) (*billing.RemotePrice, error)
	GetVariant(ctx context.Context, variantID string) (*billing.RemoteVariant, error)
}

type SubscriptionService struct {
	db       *gorm.DB
	client   BillingClient
	variants *billing.VariantMap
	audit    *AuditService
}

func NewSubscriptionService(db *gorm.DB, client BillingClient, variants *billing.VariantMap, audit *AuditService) *SubscriptionService {
	return &SubscriptionService{db: db, client: client, variants: variants, audit: audit}
}

// Latest returns the authoritative subscription row for a user: the most
// recently created one. nil without error when the user never subscribed.
func (s *SubscriptionService) Latest(userID uuid.UUID) (*models.Subscription, error) {
	var sub models.Subscription
	err := s.db.Where("user_id = ?", userID).Order("created_at DESC").First(&sub).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &sub, nil
}

// IsSupporter evaluates supporter status for a user against their latest
// subscription row.
func (s *SubscriptionService) IsSupporter(user *models.User) (bool, *models.Subscription, error) {
	sub, err := s.Latest(user.ID)
	if err != nil {
		return false, nil, err
	}
	return entitlement.IsSupporter(user.Role, sub, time.Now()), sub, nil
}

// MarkLockEnforced stamps the downgrade lock marker so subsequent profile
// loads don't re-lock boards the owner has since unlocked.
func (s *SubscriptionService) MarkLockEnforced(subscriptionID uuid.UUID) error {
	return s.db.Model(&models.Subscription{}).
		Where("id = ?", subscriptionID).
		Update("lock_enforced_at", time.Now()).Error
}

func (s *SubscriptionService) Get(subscriptionID uuid.UUID) (*models.Subscription, error) {
	var sub models.Subscription
	if err := s.db.First(&sub, "id = ?", subscriptionID).Error; err != nil {
		return nil, ErrSubscriptionNotFound
	}
	return &sub, nil
}

func (s *SubscriptionService) List(limit, offset int) ([]models.Subscription, int64, error) {
	var subs []models.Subscription
	var total int64

	query := s.db.Model(&models.Subscription{})
	query.Count(&total)

	if err := query.Order("created_at DESC").Limit(limit).Offset(offset).Find(&subs).Error; err != nil {
		return nil, 0, err
	}
	return subs, total, nil
}

// remoteState is the local meaning of a fetched provider subscription.
type remoteState struct {
	Status       string
	StatusKnown  bool
	Tier         string
	Interval     string
	VariantKnown bool
	CancelledAt  *time.Time
}

// resolveRemoteState normalizes the provider's status and re-derives
// tier/interval from the variant id, falling back to the previous local
// values when the variant is unmapped.
func resolveRemoteState(remote *billing.RemoteSubscription, variants *billing.VariantMap, fallbackTier, fallbackInterval string) remoteState {
	state := remoteState{
		Tier:     fallbackTier,
		Interval: fallbackInterval,
	}
	state.Status, state.StatusKnown = billing.NormalizeStatus(remote.Status)

	if plan, ok := variants.Plan(remote.VariantID); ok {
		state.Tier = plan.Tier
		state.Interval = plan.Interval
		state.VariantKnown = true
	}

	// Cancellation takes effect at period end; ends_at is that moment.
	if (remote.Cancelled || state.Status == models.StatusCancelled) && remote.EndsAt != nil {
		state.CancelledAt = remote.EndsAt
	}
	return state
}

// resolveAmountCents prefers the price the provider reports for this
// billing item, then the canonical tier_pricing row, then 0. A price that
// cannot be resolved never fails the update.
func (s *SubscriptionService) resolveAmountCents(ctx context.Context, remote *billing.RemoteSubscription, tier, interval string) int {
	if remote.PriceID != "" {
		price, err := s.client.GetPrice(ctx, remote.PriceID)
		if err == nil {
			return price.UnitPriceCents
		}
		slog.Warn("price lookup failed, falling back to tier pricing", "price_id", remote.PriceID, "error", err)
	}

	var pricing models.TierPricing
	if err := s.db.Where("tier = ? AND billing_interval = ?", tier, interval).First(&pricing).Error; err == nil {
		return pricing.AmountCents
	}
	return 0
}

// Reconcile fetches the authoritative subscription state from Lemon
// Squeezy and overwrites the local row. The local row is untouched on any
// upstream failure. Re-running with no upstream change produces no diff in
// status/tier/interval.
func (s *SubscriptionService) Reconcile(ctx context.Context, actorID uuid.UUID, subscriptionID uuid.UUID) (*models.Subscription, error) {
	sub, err := s.Get(subscriptionID)
	if err != nil {
		return nil, err
	}
	if sub.IsGifted {
		return nil, ErrGiftedSubscription
	}
	if sub.LemonSqueezySubscriptionID == "" {
		return nil, ErrNoExternalID
	}

	remote, err := s.client.GetSubscription(ctx, sub.LemonSqueezySubscriptionID)
	if err != nil {
		return nil, err
	}

	state := resolveRemoteState(remote, s.variants, sub.Tier, sub.BillingInterval)
	if !state.StatusKnown {
		// Fail-open: unrecognized provider statuses degrade to active
		// rather than failing every refetch.
		slog.Warn("unrecognized subscription status from billing provider",
			"status", remote.Status, "subscription_id", sub.ID.String())
	}

	before := map[string]interface{}{
		"status":           sub.Status,
		"tier":             sub.Tier,
		"billing_interval": sub.BillingInterval,
	}

	updates := map[string]interface{}{
		"status":                   state.Status,
		"tier":                     state.Tier,
		"billing_interval":         state.Interval,
		"amount_cents":             s.resolveAmountCents(ctx, remote, state.Tier, state.Interval),
		"cancelled_at":             state.CancelledAt,
		"lemonsqueezy_variant_id":  remote.VariantID,
		"lemonsqueezy_customer_id": remote.CustomerID,
	}
	updated := *sub
	updated.Status = state.Status
	updated.CancelledAt = state.CancelledAt
	if sub.LockEnforcedAt != nil && entitlement.IsSupporter("user", &updated, time.Now()) {
		// Re-subscribing lifts the downgrade marker.
		updates["lock_enforced_at"] = nil
	}

	if err := s.db.Model(&models.Subscription{}).Where("id = ?", sub.ID).Updates(updates).Error; err != nil {
		return nil, fmt.Errorf("failed to persist reconciled subscription: %w", err)
	}

	// Not transactional with the update above: a crash here loses the
	// audit entry but never the reconciliation itself.
	s.audit.RecordBestEffort(actorID, models.AuditActionRefetchSubscription, &sub.UserID, map[string]interface{}{
		"before": before,
		"after": map[string]interface{}{
			"status":           state.Status,
			"tier":             state.Tier,
			"billing_interval": state.Interval,
		},
	})

	return s.Get(sub.ID)
}

// Cancel cancels upstream when an external record exists, then marks the
// local row cancelled.
func (s *SubscriptionService) Cancel(ctx context.Context, actorID uuid.UUID, subscriptionID uuid.UUID) (*models.Subscription, error) {
	sub, err := s.Get(subscriptionID)
	if err != nil {
		return nil, err
	}

	before := sub.Status
	updates := map[string]interface{}{"status": models.StatusCancelled}

	if !sub.IsGifted && sub.LemonSqueezySubscriptionID != "" {
		remote, err := s.client.CancelSubscription(ctx, sub.LemonSqueezySubscriptionID)
		if err != nil {
			return nil, err
		}
		state := resolveRemoteState(remote, s.variants, sub.Tier, sub.BillingInterval)
		updates["status"] = state.Status
		if state.CancelledAt != nil {
			updates["cancelled_at"] = state.CancelledAt
		}
	}
	if _, ok := updates["cancelled_at"]; !ok {
		now := time.Now()
		updates["cancelled_at"] = &now
	}

	if err := s.db.Model(&models.Subscription{}).Where("id = ?", sub.ID).Updates(updates).Error; err != nil {
		return nil, fmt.Errorf("failed to cancel subscription: %w", err)
	}

	s.audit.RecordBestEffort(actorID, models.AuditActionCancelSubscription, &sub.UserID, map[string]interface{}{
		"before_status": before,
		"after_status":  updates["status"],
	})

	return s.Get(sub.ID)
}

// Gift grants a supporter entitlement without an external billing record.
func (s *SubscriptionService) Gift(actorID, targetUserID uuid.UUID, tier string, expiresAt time.Time) (*models.Subscription, error) {
	if tier == "" {
		tier = models.TierAppreciation
	}
	if !models.ValidTier(tier) {
		return nil, fmt.Errorf("invalid tier: %s", tier)
	}

	var user models.User
	if err := s.db.First(&user, "id = ?", targetUserID).Error; err != nil {
		return nil, ErrUserNotFound
	}

	sub := models.Subscription{
		ID:              uuid.New(),
		UserID:          targetUserID,
		Status:          models.StatusActive,
		Tier:            tier,
		BillingInterval: models.IntervalMonthly,
		AmountCents:     0,
		IsGifted:        true,
		GiftedExpiresAt: &expiresAt,
	}
	if err := s.db.Create(&sub).Error; err != nil {
		return nil, fmt.Errorf("failed to create gifted subscription: %w", err)
	}

	s.audit.RecordBestEffort(actorID, models.AuditActionGiftSubscription, &targetUserID, map[string]interface{}{
		"tier":       tier,
		"expires_at": expiresAt,
	})

	return &sub, nil
}

// RemoveGift expires the latest gifted subscription of a user.
func (s *SubscriptionService) RemoveGift(actorID, targetUserID uuid.UUID) error {
	var sub models.Subscription
	err := s.db.Where("user_id = ? AND is_gifted = true", targetUserID).
		Order("created_at DESC").First(&sub).Error
	if err != nil {
		return ErrSubscriptionNotFound
	}

	now := time.Now()
	if err := s.db.Model(&sub).Updates(map[string]interface{}{
		"status":            models.StatusExpired,
		"gifted_expires_at": &now,
	}).Error; err != nil {
		return fmt.Errorf("failed to remove gift: %w", err)
	}

	s.audit.RecordBestEffort(actorID, models.AuditActionRemoveGift, &targetUserID, map[string]interface{}{
		"subscription_id": sub.ID.String(),
	})
	return nil
}

// Link attaches an external subscription id to a user and immediately
// reconciles the new row against the provider.
func (s *SubscriptionService) Link(ctx context.Context, actorID, userID uuid.UUID, externalID string) (*models.Subscription, error) {
	var user models.User
	if err := s.db.First(&user, "id = ?", userID).Error; err != nil {
		return nil, ErrUserNotFound
	}

	sub := models.Subscription{
		ID:                         uuid.New(),
		UserID:                     userID,
		Status:                     models.StatusActive,
		Tier:                       billing.LowestPaidTier,
		BillingInterval:            models.IntervalMonthly,
		LemonSqueezySubscriptionID: externalID,
	}
	if err := s.db.Create(&sub).Error; err != nil {
		return nil, fmt.Errorf("failed to link subscription: %w", err)
	}

	s.audit.RecordBestEffort(actorID, models.AuditActionLinkSubscription, &userID, map[string]interface{}{
		"lemonsqueezy_subscription_id": externalID,
	})

	return s.Reconcile(ctx, actorID, sub.ID)
}

// HandleWebhookEvent upserts the local row from a verified webhook payload,
// using the same normalization and mapping as the reconciliation routine.
func (s *SubscriptionService) HandleWebhookEvent(ctx context.Context, event *billing.WebhookEvent) error {
	switch event.EventName {
	case billing.EventSubscriptionCreated,
		billing.EventSubscriptionUpdated,
		billing.EventSubscriptionResumed,
		billing.EventSubscriptionCancelled,
		billing.EventSubscriptionExpired,
		billing.EventSubscriptionPaymentSuccess:
	default:
		return nil
	}

	remote := event.Subscription
	if remote == nil || remote.ID == "" {
		return errors.New("webhook payload missing subscription data")
	}

	var sub models.Subscription
	err := s.db.Where("lemonsqueezy_subscription_id = ?", remote.ID).
		Order("created_at DESC").First(&sub).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return s.createFromWebhook(ctx, event)
	}
	if err != nil {
		return err
	}

	state := resolveRemoteState(remote, s.variants, sub.Tier, sub.BillingInterval)
	if !state.StatusKnown {
		slog.Warn("unrecognized subscription status in webhook", "status", remote.Status)
	}

	updates := map[string]interface{}{
		"status":                   state.Status,
		"tier":                     state.Tier,
		"billing_interval":         state.Interval,
		"amount_cents":             s.resolveAmountCents(ctx, remote, state.Tier, state.Interval),
		"cancelled_at":             state.CancelledAt,
		"lemonsqueezy_variant_id":  remote.VariantID,
		"lemonsqueezy_customer_id": remote.CustomerID,
	}
	updated := sub
	updated.Status = state.Status
	updated.CancelledAt = state.CancelledAt
	if sub.LockEnforcedAt != nil && entitlement.IsSupporter("user", &updated, time.Now()) {
		updates["lock_enforced_at"] = nil
	}

	return s.db.Model(&models.Subscription{}).Where("id = ?", sub.ID).Updates(updates).Error
}

func (s *SubscriptionService) createFromWebhook(ctx context.Context, event *billing.WebhookEvent) error {
	remote := event.Subscription

	var user models.User
	if event.UserID != "" {
		if userID, err := uuid.Parse(event.UserID); err == nil {
			if err := s.db.First(&user, "id = ?", userID).Error; err != nil {
				return ErrUnknownWebhookUser
			}
		}
	}
	if user.ID == uuid.Nil && remote.UserEmail != "" {
		if err := s.db.Where("email = ?", remote.UserEmail).First(&user).Error; err != nil {
			return ErrUnknownWebhookUser
		}
	}
	if user.ID == uuid.Nil {
		return ErrUnknownWebhookUser
	}

	// New subscriptions with unmapped variants default to the lowest paid
	// tier instead of failing the checkout.
	state := resolveRemoteState(remote, s.variants, billing.LowestPaidTier, models.IntervalMonthly)
	if !state.VariantKnown {
		slog.Warn("unmapped variant on new subscription, defaulting tier",
			"variant_id", remote.VariantID, "tier", billing.LowestPaidTier)
	}

	sub := models.Subscription{
		ID:                         uuid.New(),
		UserID:                     user.ID,
		Status:                     state.Status,
		Tier:                       state.Tier,
		BillingInterval:            state.Interval,
		AmountCents:                s.resolveAmountCents(ctx, remote, state.Tier, state.Interval),
		CancelledAt:                state.CancelledAt,
		LemonSqueezySubscriptionID: remote.ID,
		LemonSqueezyCustomerID:     remote.CustomerID,
		LemonSqueezyVariantID:      remote.VariantID,
	}
	return s.db.Create(&sub).Error
}
