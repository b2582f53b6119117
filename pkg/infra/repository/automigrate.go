package repository

import (
	"github.com/NeuralTrust/TrustMod/pkg/domain/moderation"
	"gorm.io/gorm"
)

// AutoMigrate creates the tables without the versioned migrations, for embedded databases.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(&moderation.RoomPolicy{}, &auditRow{})
}
