package services

import (
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/toptally/scoreboard-backend/internal/dto"
	"github.com/toptally/scoreboard-backend/internal/entitlement"
	"github.com/toptally/scoreboard-backend/internal/models"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newScoreboardService(db *gorm.DB) *ScoreboardService {
	return NewScoreboardService(db, entitlement.NewGate("https://example.test/upgrade"))
}

func seedBoard(t *testing.T, db *gorm.DB, ownerID uuid.UUID, boardSlug string, locked bool) *models.Scoreboard {
	t.Helper()

	board := &models.Scoreboard{
		ID:         uuid.New(),
		OwnerID:    ownerID,
		Title:      boardSlug,
		Slug:       boardSlug,
		Visibility: models.VisibilityPublic,
		IsLocked:   locked,
		Theme:      "classic",
	}
	require.NoError(t, db.Create(board).Error)
	return board
}

func TestLockAllForOwnerBatches(t *testing.T) {
	db := newTestDB(t)
	svc := newScoreboardService(db)

	ownerID := uuid.New()
	seedBoard(t, db, ownerID, "board-one", false)
	seedBoard(t, db, ownerID, "board-two", false)
	seedBoard(t, db, ownerID, "board-three", true)
	other := seedBoard(t, db, uuid.New(), "someone-elses", false)

	locked, err := svc.LockAllForOwner(ownerID)
	require.NoError(t, err)
	assert.EqualValues(t, 2, locked, "already-locked boards are not re-counted")

	var remaining int64
	db.Model(&models.Scoreboard{}).
		Where("owner_id = ? AND is_locked = false", ownerID).
		Count(&remaining)
	assert.Zero(t, remaining)

	reloaded, err := svc.Get(other.ID)
	require.NoError(t, err)
	assert.False(t, reloaded.IsLocked, "other owners are untouched")
}

// A private board whose owner is no longer a supporter accepts no edits,
// including a flip back to public.
func TestUpdatePrivateBoardFrozenForFreeOwner(t *testing.T) {
	svc := newScoreboardService(nil)

	visibility := models.VisibilityPublic
	board := &models.Scoreboard{Visibility: models.VisibilityPrivate}

	updated, denial, err := svc.Update(board, false, &dto.UpdateScoreboardRequest{Visibility: &visibility})
	require.NoError(t, err)
	require.NotNil(t, denial)
	assert.Equal(t, entitlement.ReasonLocked, denial.Reason)
	assert.Nil(t, updated)
}

func TestUniqueSlugAppendsSuffixOnCollision(t *testing.T) {
	db := newTestDB(t)
	svc := newScoreboardService(db)

	seedBoard(t, db, uuid.New(), "game-night", false)

	got := svc.uniqueSlug("Game Night")
	assert.NotEqual(t, "game-night", got)
	assert.True(t, strings.HasPrefix(got, "game-night-"), got)
}

func TestUniqueSlugSurvivesQueryFailure(t *testing.T) {
	// No schema at all: the existence check errors, which must not read as
	// "slug free".
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	svc := newScoreboardService(db)

	got := svc.uniqueSlug("Game Night")
	assert.NotEqual(t, "game-night", got)
	assert.True(t, strings.HasPrefix(got, "game-night-"), got)
}
