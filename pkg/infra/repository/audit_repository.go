package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/NeuralTrust/TrustMod/pkg/domain/moderation"
	"gorm.io/gorm"
)

const DefaultAuditListLimit = 50

// auditRow flattens the fields used for filtering and keeps the full record as JSON.
type auditRow struct {
	ID         string    `gorm:"primaryKey"`
	ContentID  string    `gorm:"index"`
	ActorID    string    `gorm:"index"`
	RoomID     string    `gorm:"index"`
	Outcome    string
	Status     string
	Action     string
	Escalate   bool
	Confidence float64
	Error      string
	Payload    string `gorm:"type:jsonb"`
	CreatedAt  time.Time
}

func (auditRow) TableName() string {
	return "moderation_audits"
}

type auditRepository struct {
	db *gorm.DB
}

func NewAuditRepository(db *gorm.DB) moderation.AuditRepository {
	return &auditRepository{
		db: db,
	}
}

func (r *auditRepository) Save(ctx context.Context, record *moderation.AuditRecord) error {
	payload, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("failed to marshal audit record: %w", err)
	}
	row := auditRow{
		ID:         record.ID,
		ContentID:  record.ContentID,
		ActorID:    record.ActorID,
		RoomID:     record.RoomID,
		Outcome:    string(record.Outcome),
		Status:     string(record.Status),
		Action:     string(record.Decision.Action),
		Escalate:   record.Decision.Escalate,
		Confidence: record.Decision.Confidence,
		Error:      record.Error,
		Payload:    string(payload),
		CreatedAt:  record.Timestamp,
	}
	return r.db.WithContext(ctx).Create(&row).Error
}

// ListByActor returns the most recent records for actorID, newest first.
func (r *auditRepository) ListByActor(ctx context.Context, actorID string, limit int) ([]moderation.AuditRecord, error) {
	if limit <= 0 {
		limit = DefaultAuditListLimit
	}
	var rows []auditRow
	if err := r.db.WithContext(ctx).
		Where("actor_id = ?", actorID).
		Order("created_at DESC").
		Limit(limit).
		Find(&rows).Error; err != nil {
		return nil, err
	}
	records := make([]moderation.AuditRecord, 0, len(rows))
	for _, row := range rows {
		var record moderation.AuditRecord
		if err := json.Unmarshal([]byte(row.Payload), &record); err != nil {
			return nil, fmt.Errorf("failed to unmarshal audit record %s: %w", row.ID, err)
		}
		records = append(records, record)
	}
	return records, nil
}
