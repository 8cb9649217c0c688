package billing

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/toptally/scoreboard-backend/internal/models"
)

func TestNormalizeStatus(t *testing.T) {
	tests := []struct {
		external string
		want     string
		known    bool
	}{
		{"on_trial", models.StatusTrialing, true},
		{"active", models.StatusActive, true},
		{"paused", models.StatusPaused, true},
		{"past_due", models.StatusPastDue, true},
		{"unpaid", models.StatusUnpaid, true},
		{"cancelled", models.StatusCancelled, true},
		{"expired", models.StatusExpired, true},
	}

	for _, tt := range tests {
		t.Run(tt.external, func(t *testing.T) {
			got, known := NormalizeStatus(tt.external)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.known, known)
		})
	}
}

func TestNormalizeStatusUnknownFallsBackToActive(t *testing.T) {
	for _, external := range []string{"", "refunded", "ACTIVE", "something_new"} {
		got, known := NormalizeStatus(external)
		assert.Equal(t, models.StatusActive, got)
		assert.False(t, known)
	}
}
