package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// Admin audit action kinds. Closed enumeration; labels derive from the kind.
const (
	AuditActionCancelSubscription  = "cancel_subscription"
	AuditActionLinkSubscription    = "link_subscription"
	AuditActionGiftSubscription    = "gift_subscription"
	AuditActionRemoveGift          = "remove_gift"
	AuditActionRefetchSubscription = "refetch_subscription"
	AuditActionSyncPricing         = "sync_pricing"
)

var auditActionLabels = map[string]string{
	AuditActionCancelSubscription:  "Cancelled subscription",
	AuditActionLinkSubscription:    "Linked subscription",
	AuditActionGiftSubscription:    "Gifted subscription",
	AuditActionRemoveGift:          "Removed gifted subscription",
	AuditActionRefetchSubscription: "Refetched subscription from billing provider",
	AuditActionSyncPricing:         "Synced tier pricing",
}

func ValidAuditAction(action string) bool {
	_, ok := auditActionLabels[action]
	return ok
}

func AuditActionLabel(action string) string {
	if label, ok := auditActionLabels[action]; ok {
		return label
	}
	return action
}

// AdminAuditLog is append-only: one row per administrative mutation,
// no update or delete path.
type AdminAuditLog struct {
	ID           uuid.UUID      `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	ActorID      uuid.UUID      `gorm:"type:uuid;not null;index" json:"actor_id"`
	Action       string         `gorm:"size:50;not null;index" json:"action"`
	TargetUserID *uuid.UUID     `gorm:"type:uuid;index" json:"target_user_id,omitempty"`
	Details      datatypes.JSON `gorm:"type:jsonb;default:'{}'" json:"details"`
	CreatedAt    time.Time      `gorm:"index" json:"created_at"`
}

func (l *AdminAuditLog) Label() string {
	return AuditActionLabel(l.Action)
}
