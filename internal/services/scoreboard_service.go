package services

import (
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/gosimple/slug"
	"github.com/toptally/scoreboard-backend/internal/dto"
	"github.com/toptally/scoreboard-backend/internal/entitlement"
	"github.com/toptally/scoreboard-backend/internal/models"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

var (
	ErrScoreboardNotFound = errors.New("scoreboard not found")
	ErrEntryNotFound      = errors.New("entry not found")
)

// ScoreboardService owns scoreboard and entry mutation. Every mutation
// passes the entitlement gate first; a denial comes back as a Decision the
// handler renders, not as an error.
type ScoreboardService struct {
	db   *gorm.DB
	gate *entitlement.Gate
}

func NewScoreboardService(db *gorm.DB, gate *entitlement.Gate) *ScoreboardService {
	return &ScoreboardService{db: db, gate: gate}
}

func (s *ScoreboardService) Get(id uuid.UUID) (*models.Scoreboard, error) {
	var board models.Scoreboard
	err := s.db.Preload("Entries", func(db *gorm.DB) *gorm.DB {
		return db.Order("score DESC, created_at ASC")
	}).First(&board, "id = ?", id).Error
	if err != nil {
		return nil, ErrScoreboardNotFound
	}
	return &board, nil
}

func (s *ScoreboardService) GetBySlug(boardSlug string) (*models.Scoreboard, error) {
	var board models.Scoreboard
	err := s.db.Preload("Entries", func(db *gorm.DB) *gorm.DB {
		return db.Order("score DESC, created_at ASC")
	}).First(&board, "slug = ?", boardSlug).Error
	if err != nil {
		return nil, ErrScoreboardNotFound
	}
	return &board, nil
}

func (s *ScoreboardService) ListByOwner(ownerID uuid.UUID) ([]models.Scoreboard, error) {
	var boards []models.Scoreboard
	if err := s.db.Where("owner_id = ?", ownerID).Order("created_at DESC").Find(&boards).Error; err != nil {
		return nil, err
	}
	return boards, nil
}

// countUnlockedPublic counts boards against the free-plan cap: public and
// not locked. excludeID keeps the board being unlocked out of its own count.
func (s *ScoreboardService) countUnlockedPublic(ownerID uuid.UUID, excludeID *uuid.UUID) (int64, error) {
	var count int64
	query := s.db.Model(&models.Scoreboard{}).
		Where("owner_id = ? AND visibility = ? AND is_locked = false", ownerID, models.VisibilityPublic)
	if excludeID != nil {
		query = query.Where("id <> ?", *excludeID)
	}
	err := query.Count(&count).Error
	return count, err
}

func (s *ScoreboardService) CountEntries(boardID uuid.UUID) (int64, error) {
	var count int64
	err := s.db.Model(&models.ScoreEntry{}).Where("scoreboard_id = ?", boardID).Count(&count).Error
	return count, err
}

func (s *ScoreboardService) Create(ownerID uuid.UUID, supporter bool, req *dto.CreateScoreboardRequest) (*models.Scoreboard, *entitlement.Decision, error) {
	title := strings.TrimSpace(req.Title)
	if title == "" {
		return nil, nil, errors.New("title is required")
	}

	visibility := req.Visibility
	if visibility == "" {
		visibility = models.VisibilityPublic
	}
	if visibility != models.VisibilityPublic && visibility != models.VisibilityPrivate {
		return nil, nil, fmt.Errorf("invalid visibility: %s", visibility)
	}

	count, err := s.countUnlockedPublic(ownerID, nil)
	if err != nil {
		return nil, nil, err
	}
	if d := s.gate.CanCreateScoreboard(supporter, visibility, count); !d.Allowed {
		return nil, &d, nil
	}

	theme := req.Theme
	if theme == "" {
		theme = "classic"
	}
	if d := s.gate.CanUseTheme(supporter, theme, len(req.CustomTheme) > 0); !d.Allowed {
		return nil, &d, nil
	}
	if req.KioskEnabled {
		if d := s.gate.CanEnableKiosk(supporter); !d.Allowed {
			return nil, &d, nil
		}
	}

	board := models.Scoreboard{
		ID:           uuid.New(),
		OwnerID:      ownerID,
		Title:        title,
		Slug:         s.uniqueSlug(title),
		Visibility:   visibility,
		Theme:        theme,
		KioskEnabled: req.KioskEnabled,
	}
	if len(req.CustomTheme) > 0 {
		board.CustomTheme = datatypes.JSON(req.CustomTheme)
	}

	if err := s.db.Create(&board).Error; err != nil {
		return nil, nil, fmt.Errorf("failed to create scoreboard: %w", err)
	}
	return &board, nil, nil
}

func (s *ScoreboardService) Update(board *models.Scoreboard, supporter bool, req *dto.UpdateScoreboardRequest) (*models.Scoreboard, *entitlement.Decision, error) {
	if d := s.gate.CanMutateScoreboard(supporter, board); !d.Allowed {
		return nil, &d, nil
	}

	updates := map[string]interface{}{}

	if req.Title != nil {
		title := strings.TrimSpace(*req.Title)
		if title == "" {
			return nil, nil, errors.New("title is required")
		}
		updates["title"] = title
	}

	if req.Visibility != nil {
		if *req.Visibility != models.VisibilityPublic && *req.Visibility != models.VisibilityPrivate {
			return nil, nil, fmt.Errorf("invalid visibility: %s", *req.Visibility)
		}
		if d := s.gate.CanSetVisibility(supporter, *req.Visibility); !d.Allowed {
			return nil, &d, nil
		}
		updates["visibility"] = *req.Visibility
	}

	if req.Theme != nil || len(req.CustomTheme) > 0 {
		theme := board.Theme
		if req.Theme != nil {
			theme = *req.Theme
		}
		if d := s.gate.CanUseTheme(supporter, theme, len(req.CustomTheme) > 0); !d.Allowed {
			return nil, &d, nil
		}
		if req.Theme != nil {
			updates["theme"] = theme
		}
		if len(req.CustomTheme) > 0 {
			updates["custom_theme"] = datatypes.JSON(req.CustomTheme)
		}
	}

	if req.KioskEnabled != nil {
		if *req.KioskEnabled {
			if d := s.gate.CanEnableKiosk(supporter); !d.Allowed {
				return nil, &d, nil
			}
		}
		updates["kiosk_enabled"] = *req.KioskEnabled
	}

	if len(updates) > 0 {
		if err := s.db.Model(board).Updates(updates).Error; err != nil {
			return nil, nil, fmt.Errorf("failed to update scoreboard: %w", err)
		}
	}
	fresh, err := s.Get(board.ID)
	return fresh, nil, err
}

func (s *ScoreboardService) Delete(board *models.Scoreboard) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("scoreboard_id = ?", board.ID).Delete(&models.ScoreEntry{}).Error; err != nil {
			return err
		}
		return tx.Delete(board).Error
	})
}

// Unlock clears the downgrade lock on one board, itself gated by the
// free-plan cap.
func (s *ScoreboardService) Unlock(board *models.Scoreboard, supporter bool) (*models.Scoreboard, *entitlement.Decision, error) {
	count, err := s.countUnlockedPublic(board.OwnerID, &board.ID)
	if err != nil {
		return nil, nil, err
	}
	if d := s.gate.CanUnlock(supporter, count); !d.Allowed {
		return nil, &d, nil
	}

	if err := s.db.Model(board).Update("is_locked", false).Error; err != nil {
		return nil, nil, fmt.Errorf("failed to unlock scoreboard: %w", err)
	}
	fresh, err := s.Get(board.ID)
	return fresh, nil, err
}

// LockAllForOwner flags every board of an owner locked in a single batched
// update; the downgrade side effect.
func (s *ScoreboardService) LockAllForOwner(ownerID uuid.UUID) (int64, error) {
	result := s.db.Model(&models.Scoreboard{}).
		Where("owner_id = ? AND is_locked = false", ownerID).
		Update("is_locked", true)
	return result.RowsAffected, result.Error
}

func (s *ScoreboardService) AddEntry(board *models.Scoreboard, supporter bool, req *dto.CreateEntryRequest) (*models.ScoreEntry, *entitlement.Decision, error) {
	if d := s.gate.CanMutateScoreboard(supporter, board); !d.Allowed {
		return nil, &d, nil
	}

	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, nil, errors.New("entry name is required")
	}

	current, err := s.CountEntries(board.ID)
	if err != nil {
		return nil, nil, err
	}
	if d := s.gate.CanAddEntries(supporter, current, 1); !d.Allowed {
		return nil, &d, nil
	}

	entry := models.ScoreEntry{
		ID:           uuid.New(),
		ScoreboardID: board.ID,
		Name:         name,
		Score:        req.Score,
		Position:     int(current) + 1,
	}
	if err := s.db.Create(&entry).Error; err != nil {
		return nil, nil, fmt.Errorf("failed to create entry: %w", err)
	}
	return &entry, nil, nil
}

// ImportEntries bulk-inserts entries, rejecting the whole batch when it
// would exceed the free-plan cap.
func (s *ScoreboardService) ImportEntries(board *models.Scoreboard, supporter bool, req *dto.ImportEntriesRequest) ([]models.ScoreEntry, *entitlement.Decision, error) {
	if d := s.gate.CanMutateScoreboard(supporter, board); !d.Allowed {
		return nil, &d, nil
	}
	if len(req.Entries) == 0 {
		return nil, nil, errors.New("no entries to import")
	}

	current, err := s.CountEntries(board.ID)
	if err != nil {
		return nil, nil, err
	}
	if d := s.gate.CanAddEntries(supporter, current, int64(len(req.Entries))); !d.Allowed {
		return nil, &d, nil
	}

	entries := make([]models.ScoreEntry, 0, len(req.Entries))
	for i, in := range req.Entries {
		name := strings.TrimSpace(in.Name)
		if name == "" {
			return nil, nil, fmt.Errorf("entry %d: name is required", i+1)
		}
		entries = append(entries, models.ScoreEntry{
			ID:           uuid.New(),
			ScoreboardID: board.ID,
			Name:         name,
			Score:        in.Score,
			Position:     int(current) + i + 1,
		})
	}

	if err := s.db.CreateInBatches(entries, 100).Error; err != nil {
		return nil, nil, fmt.Errorf("failed to import entries: %w", err)
	}
	return entries, nil, nil
}

func (s *ScoreboardService) UpdateEntry(board *models.Scoreboard, supporter bool, entryID uuid.UUID, req *dto.UpdateEntryRequest) (*models.ScoreEntry, *entitlement.Decision, error) {
	if d := s.gate.CanMutateScoreboard(supporter, board); !d.Allowed {
		return nil, &d, nil
	}

	var entry models.ScoreEntry
	if err := s.db.First(&entry, "id = ? AND scoreboard_id = ?", entryID, board.ID).Error; err != nil {
		return nil, nil, ErrEntryNotFound
	}

	updates := map[string]interface{}{}
	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return nil, nil, errors.New("entry name is required")
		}
		updates["name"] = name
	}
	if req.Score != nil {
		updates["score"] = *req.Score
	}

	if len(updates) > 0 {
		if err := s.db.Model(&entry).Updates(updates).Error; err != nil {
			return nil, nil, fmt.Errorf("failed to update entry: %w", err)
		}
	}
	return &entry, nil, nil
}

func (s *ScoreboardService) DeleteEntry(board *models.Scoreboard, supporter bool, entryID uuid.UUID) (*entitlement.Decision, error) {
	if d := s.gate.CanMutateScoreboard(supporter, board); !d.Allowed {
		return &d, nil
	}

	result := s.db.Where("id = ? AND scoreboard_id = ?", entryID, board.ID).Delete(&models.ScoreEntry{})
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, ErrEntryNotFound
	}
	return nil, nil
}

func (s *ScoreboardService) uniqueSlug(title string) string {
	base := slug.Make(title)
	if base == "" {
		base = "scoreboard"
	}

	candidate := base
	for i := 0; i < 5; i++ {
		var count int64
		if err := s.db.Model(&models.Scoreboard{}).Where("slug = ?", candidate).Count(&count).Error; err != nil {
			// A failed lookup must not read as "slug free"; take a
			// suffixed candidate instead of colliding on the unique index.
			break
		}
		if count == 0 {
			return candidate
		}
		candidate = base + "-" + uuid.New().String()[:8]
	}
	return base + "-" + uuid.New().String()[:8]
}
