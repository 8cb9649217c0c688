package services

import (
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/toptally/scoreboard-backend/internal/models"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// AuditService appends one immutable record per administrative mutation.
// There is no update or delete path.
type AuditService struct {
	db *gorm.DB
}

func NewAuditService(db *gorm.DB) *AuditService {
	return &AuditService{db: db}
}

func (s *AuditService) Record(actorID uuid.UUID, action string, targetUserID *uuid.UUID, details map[string]interface{}) error {
	if !models.ValidAuditAction(action) {
		return fmt.Errorf("unknown audit action: %s", action)
	}

	entry := models.AdminAuditLog{
		ID:           uuid.New(),
		ActorID:      actorID,
		Action:       action,
		TargetUserID: targetUserID,
	}
	if len(details) > 0 {
		if b, err := json.Marshal(details); err == nil {
			entry.Details = datatypes.JSON(b)
		}
	}

	return s.db.Create(&entry).Error
}

// RecordBestEffort logs a failure instead of propagating it. The audit log
// is a diagnostic aid; it never rolls back the primary mutation.
func (s *AuditService) RecordBestEffort(actorID uuid.UUID, action string, targetUserID *uuid.UUID, details map[string]interface{}) {
	if err := s.Record(actorID, action, targetUserID, details); err != nil {
		slog.Error("audit log write failed", "action", action, "actor_id", actorID.String(), "error", err)
	}
}

func (s *AuditService) List(limit, offset int) ([]models.AdminAuditLog, int64, error) {
	var entries []models.AdminAuditLog
	var total int64

	query := s.db.Model(&models.AdminAuditLog{})
	query.Count(&total)

	if err := query.Order("created_at DESC").Limit(limit).Offset(offset).Find(&entries).Error; err != nil {
		return nil, 0, err
	}
	return entries, total, nil
}
