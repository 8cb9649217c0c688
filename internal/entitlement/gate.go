package entitlement

import (
	"fmt"

	"github.com/toptally/scoreboard-backend/internal/models"
)

// Free-plan limits.
const (
	MaxFreeUnlockedBoards  = 2
	MaxEntriesPerFreeBoard = 50
)

// Machine-readable denial reasons.
const (
	ReasonLocked       = "locked"
	ReasonLimitReached = "limit_reached"
)

// Decision is the outcome of an entitlement check. A denial is a normal
// business result the caller must branch on, not an error.
type Decision struct {
	Allowed    bool   `json:"allowed"`
	Reason     string `json:"reason,omitempty"`
	Message    string `json:"message,omitempty"`
	UpgradeURL string `json:"upgrade_url,omitempty"`
}

// Preset themes available on the free plan.
var presetThemes = map[string]bool{
	"classic": true,
	"dark":    true,
	"neon":    true,
	"minimal": true,
}

func IsPresetTheme(name string) bool {
	return presetThemes[name]
}

// Gate enforces plan limits before state is mutated. Count inputs are read
// by the caller; the gate itself is side-effect free.
type Gate struct {
	upgradeURL string
}

func NewGate(upgradeURL string) *Gate {
	return &Gate{upgradeURL: upgradeURL}
}

func (g *Gate) allow() Decision {
	return Decision{Allowed: true}
}

func (g *Gate) deny(reason, message string) Decision {
	return Decision{
		Allowed:    false,
		Reason:     reason,
		Message:    message,
		UpgradeURL: g.upgradeURL,
	}
}

// CanCreateScoreboard checks the per-owner cap and visibility rules for a
// new scoreboard. unlockedPublicCount counts the owner's existing public
// boards that are not locked.
func (g *Gate) CanCreateScoreboard(supporter bool, visibility string, unlockedPublicCount int64) Decision {
	if supporter {
		return g.allow()
	}
	if visibility == models.VisibilityPrivate {
		return g.deny(ReasonLimitReached, "Private scoreboards require a supporter plan.")
	}
	if unlockedPublicCount >= MaxFreeUnlockedBoards {
		return g.deny(ReasonLimitReached,
			fmt.Sprintf("The free plan is limited to %d scoreboards. Upgrade to create more.", MaxFreeUnlockedBoards))
	}
	return g.allow()
}

// CanMutateScoreboard checks whether a board accepts further mutation
// (entries, styling, settings). Locked or private boards are frozen for
// free accounts until unlocked. Note that a private board whose owner lost
// supporter status accepts no edits at all, visibility changes included;
// the owner's options are deleting the board or resubscribing.
func (g *Gate) CanMutateScoreboard(supporter bool, board *models.Scoreboard) Decision {
	if supporter {
		return g.allow()
	}
	if board.IsLocked {
		return g.deny(ReasonLocked, "This scoreboard is locked. Unlock it or upgrade to make changes.")
	}
	if board.Visibility == models.VisibilityPrivate {
		return g.deny(ReasonLocked, "Private scoreboards require a supporter plan. Make it public or upgrade.")
	}
	return g.allow()
}

// CanSetVisibility rejects private visibility for free accounts, on create
// and update alike.
func (g *Gate) CanSetVisibility(supporter bool, visibility string) Decision {
	if supporter || visibility != models.VisibilityPrivate {
		return g.allow()
	}
	return g.deny(ReasonLimitReached, "Private scoreboards require a supporter plan.")
}

// CanAddEntries checks the per-board entry cap, covering single adds
// (incoming=1) and bulk imports.
func (g *Gate) CanAddEntries(supporter bool, current, incoming int64) Decision {
	if supporter {
		return g.allow()
	}
	if current+incoming > MaxEntriesPerFreeBoard {
		return g.deny(ReasonLimitReached,
			fmt.Sprintf("The free plan is limited to %d entries per scoreboard.", MaxEntriesPerFreeBoard))
	}
	return g.allow()
}

// CanUseTheme rejects non-preset themes and custom theme payloads for free
// accounts.
func (g *Gate) CanUseTheme(supporter bool, theme string, hasCustomTheme bool) Decision {
	if supporter {
		return g.allow()
	}
	if hasCustomTheme || (theme != "" && !IsPresetTheme(theme)) {
		return g.deny(ReasonLimitReached, "Custom themes require a supporter plan.")
	}
	return g.allow()
}

// CanEnableKiosk gates kiosk mode behind supporter status.
func (g *Gate) CanEnableKiosk(supporter bool) Decision {
	if supporter {
		return g.allow()
	}
	return g.deny(ReasonLimitReached, "Kiosk mode requires a supporter plan.")
}

// CanUnlock checks whether unlocking one more board stays within the free
// cap. unlockedPublicCount excludes the board being unlocked.
func (g *Gate) CanUnlock(supporter bool, unlockedPublicCount int64) Decision {
	if supporter {
		return g.allow()
	}
	if unlockedPublicCount >= MaxFreeUnlockedBoards {
		return g.deny(ReasonLimitReached,
			fmt.Sprintf("The free plan allows %d unlocked scoreboards. Lock another board or upgrade.", MaxFreeUnlockedBoards))
	}
	return g.allow()
}
