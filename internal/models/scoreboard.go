package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

const (
	VisibilityPublic  = "public"
	VisibilityPrivate = "private"
)

type Scoreboard struct {
	ID           uuid.UUID      `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	OwnerID      uuid.UUID      `gorm:"type:uuid;not null;index" json:"owner_id"`
	Title        string         `gorm:"size:120;not null" json:"title"`
	Slug         string         `gorm:"size:140;not null;uniqueIndex" json:"slug"`
	Visibility   string         `gorm:"size:20;not null;default:'public'" json:"visibility"`
	IsLocked     bool           `gorm:"default:false;index" json:"is_locked"`
	Theme        string         `gorm:"size:50;default:'classic'" json:"theme"`
	CustomTheme  datatypes.JSON `gorm:"type:jsonb" json:"custom_theme,omitempty"`
	KioskEnabled bool           `gorm:"default:false" json:"kiosk_enabled"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	Owner        User           `gorm:"foreignKey:OwnerID" json:"-"`
	Entries      []ScoreEntry   `gorm:"foreignKey:ScoreboardID" json:"entries,omitempty"`
}

type ScoreEntry struct {
	ID           uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	ScoreboardID uuid.UUID `gorm:"type:uuid;not null;index" json:"scoreboard_id"`
	Name         string    `gorm:"size:120;not null" json:"name"`
	Score        int64     `gorm:"not null;default:0" json:"score"`
	Position     int       `gorm:"default:0" json:"position"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}
