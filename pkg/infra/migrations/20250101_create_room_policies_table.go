package migrations

import (
	"github.com/NeuralTrust/TrustMod/pkg/infra/database"
	"gorm.io/gorm"
)

func init() {
	database.RegisterMigration(database.Migration{
		ID:   "20250101_create_room_policies_table",
		Name: "Create room_policies table",

		Up: func(db *gorm.DB) error {
			return db.Exec(`
				CREATE TABLE IF NOT EXISTS room_policies (
					context_id        TEXT PRIMARY KEY,
					moderation_level  TEXT NOT NULL DEFAULT 'moderate',
					trust_threshold   DOUBLE PRECISION NOT NULL DEFAULT 0.3,
					allowed_actions   JSONB,
					rate_limits       JSONB,
					escalation_target TEXT,
					created_at        TIMESTAMPTZ NOT NULL DEFAULT NOW(),
					updated_at        TIMESTAMPTZ NOT NULL DEFAULT NOW()
				);
			`).Error
		},

		Down: func(db *gorm.DB) error {
			return db.Exec(`DROP TABLE IF EXISTS room_policies;`).Error
		},
	})
}
