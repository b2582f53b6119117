package migrations

import (
	"github.com/NeuralTrust/TrustMod/pkg/infra/database"
	"gorm.io/gorm"
)

func init() {
	database.RegisterMigration(database.Migration{
		ID:   "20250102_create_moderation_audits_table",
		Name: "Create moderation_audits table",

		Up: func(db *gorm.DB) error {
			if err := db.Exec(`
				CREATE TABLE IF NOT EXISTS moderation_audits (
					id         TEXT PRIMARY KEY,
					content_id TEXT NOT NULL,
					actor_id   TEXT NOT NULL,
					room_id    TEXT NOT NULL,
					outcome    TEXT NOT NULL,
					status     TEXT NOT NULL,
					action     TEXT NOT NULL,
					escalate   BOOLEAN NOT NULL DEFAULT FALSE,
					confidence DOUBLE PRECISION NOT NULL DEFAULT 0,
					error      TEXT,
					payload    JSONB NOT NULL,
					created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
				);
			`).Error; err != nil {
				return err
			}

			if err := db.Exec(`
				CREATE INDEX IF NOT EXISTS idx_moderation_audits_actor_created
				ON moderation_audits (actor_id, created_at DESC);
			`).Error; err != nil {
				return err
			}

			return db.Exec(`
				CREATE INDEX IF NOT EXISTS idx_moderation_audits_room
				ON moderation_audits (room_id);
			`).Error
		},

		Down: func(db *gorm.DB) error {
			return db.Exec(`DROP TABLE IF EXISTS moderation_audits;`).Error
		},
	})
}
