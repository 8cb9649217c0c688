package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAuditActionEnum(t *testing.T) {
	actions := []string{
		AuditActionCancelSubscription,
		AuditActionLinkSubscription,
		AuditActionGiftSubscription,
		AuditActionRemoveGift,
		AuditActionRefetchSubscription,
		AuditActionSyncPricing,
	}

	for _, action := range actions {
		assert.True(t, ValidAuditAction(action), action)
		assert.NotEqual(t, action, AuditActionLabel(action), "label should be human-readable")
	}

	assert.False(t, ValidAuditAction("delete_user"))
	assert.False(t, ValidAuditAction(""))
}

func TestAuditActionLabelUnknownPassesThrough(t *testing.T) {
	assert.Equal(t, "whatever", AuditActionLabel("whatever"))
}

func TestAuditLogLabel(t *testing.T) {
	l := AdminAuditLog{Action: AuditActionGiftSubscription}
	assert.Equal(t, "Gifted subscription", l.Label())
}
