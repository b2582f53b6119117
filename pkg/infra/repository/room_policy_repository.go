package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/NeuralTrust/TrustMod/pkg/domain/moderation"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type roomPolicyRepository struct {
	db *gorm.DB
}

func NewRoomPolicyRepository(db *gorm.DB) moderation.RoomPolicyRepository {
	return &roomPolicyRepository{
		db: db,
	}
}

func (r *roomPolicyRepository) Get(ctx context.Context, contextID string) (*moderation.RoomPolicy, error) {
	var policy moderation.RoomPolicy
	if err := r.db.WithContext(ctx).Where("context_id = ?", contextID).First(&policy).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: %s", moderation.ErrRoomPolicyNotFound, contextID)
		}
		return nil, err
	}
	return &policy, nil
}

func (r *roomPolicyRepository) Save(ctx context.Context, policy *moderation.RoomPolicy) error {
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "context_id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"moderation_level",
			"trust_threshold",
			"allowed_actions",
			"rate_limits",
			"escalation_target",
			"updated_at",
		}),
	}).Create(policy).Error
}
