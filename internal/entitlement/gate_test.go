package entitlement

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/toptally/scoreboard-backend/internal/models"
)

const testUpgradeURL = "https://example.test/upgrade"

func newTestGate() *Gate {
	return NewGate(testUpgradeURL)
}

func TestCanCreateScoreboard(t *testing.T) {
	g := newTestGate()

	t.Run("free under cap", func(t *testing.T) {
		d := g.CanCreateScoreboard(false, models.VisibilityPublic, 1)
		assert.True(t, d.Allowed)
		assert.Empty(t, d.Reason)
	})

	t.Run("free at cap", func(t *testing.T) {
		d := g.CanCreateScoreboard(false, models.VisibilityPublic, 2)
		assert.False(t, d.Allowed)
		assert.Equal(t, ReasonLimitReached, d.Reason)
		assert.Equal(t, testUpgradeURL, d.UpgradeURL)
	})

	t.Run("free private", func(t *testing.T) {
		d := g.CanCreateScoreboard(false, models.VisibilityPrivate, 0)
		assert.False(t, d.Allowed)
		assert.Equal(t, ReasonLimitReached, d.Reason)
	})

	t.Run("supporter over cap", func(t *testing.T) {
		d := g.CanCreateScoreboard(true, models.VisibilityPrivate, 40)
		assert.True(t, d.Allowed)
	})
}

func TestCanMutateScoreboard(t *testing.T) {
	g := newTestGate()

	t.Run("free unlocked public", func(t *testing.T) {
		d := g.CanMutateScoreboard(false, &models.Scoreboard{Visibility: models.VisibilityPublic})
		assert.True(t, d.Allowed)
	})

	t.Run("free locked", func(t *testing.T) {
		d := g.CanMutateScoreboard(false, &models.Scoreboard{
			Visibility: models.VisibilityPublic,
			IsLocked:   true,
		})
		assert.False(t, d.Allowed)
		assert.Equal(t, ReasonLocked, d.Reason)
	})

	t.Run("free private board frozen", func(t *testing.T) {
		d := g.CanMutateScoreboard(false, &models.Scoreboard{Visibility: models.VisibilityPrivate})
		assert.False(t, d.Allowed)
		assert.Equal(t, ReasonLocked, d.Reason)
	})

	t.Run("supporter locked board", func(t *testing.T) {
		d := g.CanMutateScoreboard(true, &models.Scoreboard{IsLocked: true})
		assert.True(t, d.Allowed)
	})
}

func TestCanAddEntries(t *testing.T) {
	g := newTestGate()

	tests := []struct {
		name      string
		supporter bool
		current   int64
		incoming  int64
		want      bool
	}{
		{"free one below cap", false, 49, 1, true},
		{"free exactly at cap", false, 50, 1, false},
		{"free import filling to cap", false, 30, 20, true},
		{"free import overflowing cap", false, 30, 21, false},
		{"supporter past cap", true, 500, 100, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := g.CanAddEntries(tt.supporter, tt.current, tt.incoming)
			assert.Equal(t, tt.want, d.Allowed)
			if !tt.want {
				assert.Equal(t, ReasonLimitReached, d.Reason)
			}
		})
	}
}

func TestCanUseTheme(t *testing.T) {
	g := newTestGate()

	assert.True(t, g.CanUseTheme(false, "dark", false).Allowed)
	assert.True(t, g.CanUseTheme(false, "", false).Allowed)
	assert.False(t, g.CanUseTheme(false, "vaporwave", false).Allowed)
	assert.False(t, g.CanUseTheme(false, "classic", true).Allowed)
	assert.True(t, g.CanUseTheme(true, "vaporwave", true).Allowed)
}

func TestCanEnableKiosk(t *testing.T) {
	g := newTestGate()

	assert.False(t, g.CanEnableKiosk(false).Allowed)
	assert.True(t, g.CanEnableKiosk(true).Allowed)
}

func TestCanSetVisibility(t *testing.T) {
	g := newTestGate()

	assert.True(t, g.CanSetVisibility(false, models.VisibilityPublic).Allowed)
	assert.False(t, g.CanSetVisibility(false, models.VisibilityPrivate).Allowed)
	assert.True(t, g.CanSetVisibility(true, models.VisibilityPrivate).Allowed)
}

func TestCanUnlock(t *testing.T) {
	g := newTestGate()

	t.Run("free with a slot available", func(t *testing.T) {
		d := g.CanUnlock(false, 1)
		assert.True(t, d.Allowed)
	})

	t.Run("free with both slots taken", func(t *testing.T) {
		d := g.CanUnlock(false, 2)
		assert.False(t, d.Allowed)
		assert.Equal(t, ReasonLimitReached, d.Reason)
	})

	t.Run("supporter always", func(t *testing.T) {
		assert.True(t, g.CanUnlock(true, 10).Allowed)
	})
}

func TestDenialCarriesUpgradeURL(t *testing.T) {
	g := newTestGate()

	d := g.CanEnableKiosk(false)
	assert.False(t, d.Allowed)
	assert.Equal(t, testUpgradeURL, d.UpgradeURL)
	assert.NotEmpty(t, d.Message)
}
