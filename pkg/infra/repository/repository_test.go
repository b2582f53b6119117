package repository_test

import (
	"context"
	"testing"
	"time"

	"github.com/NeuralTrust/TrustMod/pkg/domain/moderation"
	"github.com/NeuralTrust/TrustMod/pkg/infra/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func openDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, repository.AutoMigrate(db))
	return db
}

func TestRoomPolicyRepository_SaveAndGet(t *testing.T) {
	ctx := context.Background()
	repo := repository.NewRoomPolicyRepository(openDB(t))

	policy := &moderation.RoomPolicy{
		ContextID:        "!room:example.org",
		ModerationLevel:  moderation.LevelStrict,
		TrustThreshold:   0.4,
		AllowedActions:   moderation.ActionsJSON{moderation.ActionWarn, moderation.ActionBan},
		RateLimits:       moderation.RateLimitsJSON{MessagesPerMinute: 5},
		EscalationTarget: "@mods:example.org",
	}
	require.NoError(t, repo.Save(ctx, policy))

	got, err := repo.Get(ctx, "!room:example.org")
	require.NoError(t, err)
	assert.Equal(t, moderation.LevelStrict, got.ModerationLevel)
	assert.Equal(t, moderation.ActionsJSON{moderation.ActionWarn, moderation.ActionBan}, got.AllowedActions)
	assert.Equal(t, 5, got.RateLimits.MessagesPerMinute)

	policy.ModerationLevel = moderation.LevelRelaxed
	require.NoError(t, repo.Save(ctx, policy))
	got, err = repo.Get(ctx, "!room:example.org")
	require.NoError(t, err)
	assert.Equal(t, moderation.LevelRelaxed, got.ModerationLevel)
}

func TestRoomPolicyRepository_NotFound(t *testing.T) {
	repo := repository.NewRoomPolicyRepository(openDB(t))
	_, err := repo.Get(context.Background(), "!missing:example.org")
	assert.ErrorIs(t, err, moderation.ErrRoomPolicyNotFound)
}

func TestAuditRepository_ListByActorNewestFirst(t *testing.T) {
	ctx := context.Background()
	repo := repository.NewAuditRepository(openDB(t))
	base := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

	for i, action := range []moderation.Action{moderation.ActionWarn, moderation.ActionMute, moderation.ActionBan} {
		require.NoError(t, repo.Save(ctx, &moderation.AuditRecord{
			ID:        string(action),
			ContentID: "msg",
			ActorID:   "@bob:example.org",
			RoomID:    "!room:example.org",
			Outcome:   moderation.OutcomeDecided,
			Status:    moderation.AuditApplied,
			Decision:  moderation.ModerationDecision{Action: action},
			Timestamp: base.Add(time.Duration(i) * time.Minute),
		}))
	}
	require.NoError(t, repo.Save(ctx, &moderation.AuditRecord{ID: "other", ActorID: "@eve:example.org", Timestamp: base}))

	records, err := repo.ListByActor(ctx, "@bob:example.org", 2)
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, moderation.ActionBan, records[0].Decision.Action)
	assert.Equal(t, moderation.ActionMute, records[1].Decision.Action)
}
