package policy

import (
	"errors"
	"testing"
	"time"

	"github.com/NeuralTrust/TrustMod/pkg/domain/moderation"
	"github.com/NeuralTrust/TrustMod/pkg/domain/trust"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2026, 10, 17, 12, 0, 0, 0, time.UTC)

func content() moderation.ContentItem {
	return moderation.ContentItem{ID: "c1", AuthorID: "alice", RoomID: "room-1", Text: "hello"}
}

func profileWithScore(score float64) trust.Profile {
	return trust.Profile{ActorID: "alice", ContextID: "room-1", OverallScore: score, Rank: trust.RankFor(score)}
}

func room(level moderation.ModerationLevel) *moderation.RoomPolicy {
	r := moderation.DefaultRoomPolicy("room-1")
	r.ModerationLevel = level
	return r
}

func consensusOf(d moderation.Decision, mean float64) moderation.ConsensusResult {
	return moderation.ConsensusResult{Decision: d, MeanConfidence: mean, Confidence: mean, AgreementRatio: 1}
}

func TestDecide_StrictBlockLowTrustBans(t *testing.T) {
	c := moderation.ConsensusResult{
		Decision:       moderation.DecisionBlock,
		MeanConfidence: 0.875,
		Confidence:     0.875 * 2 / 3,
		AgreementRatio: 2.0 / 3.0,
	}
	d := Decide(content(), c, profileWithScore(0.25), room(moderation.LevelStrict), fixedNow)

	assert.Equal(t, moderation.ActionBan, d.Action)
	assert.False(t, d.Escalate)
	assert.InDelta(t, 0.875*0.925, d.Confidence, 1e-9)
	assert.Nil(t, d.ExpiresAt)
	assert.Equal(t, "true", d.Metadata[moderation.MetadataRedact])
	assert.Equal(t, "c1", d.ContentID)
	assert.Equal(t, "alice", d.ActorID)
}

func TestDecide_ActionTable(t *testing.T) {
	tests := []struct {
		name     string
		decision moderation.Decision
		level    moderation.ModerationLevel
		trust    float64
		expected moderation.Action
		escalate bool
	}{
		{"strict block mid trust kicks", moderation.DecisionBlock, moderation.LevelStrict, 0.45, moderation.ActionKick, false},
		{"strict block high trust mutes", moderation.DecisionBlock, moderation.LevelStrict, 0.7, moderation.ActionMute, true},
		{"moderate block low trust kicks", moderation.DecisionBlock, moderation.LevelModerate, 0.2, moderation.ActionKick, false},
		{"moderate block high trust mutes", moderation.DecisionBlock, moderation.LevelModerate, 0.55, moderation.ActionMute, false},
		{"relaxed block low trust mutes", moderation.DecisionBlock, moderation.LevelRelaxed, 0.2, moderation.ActionMute, false},
		{"relaxed block high trust warns", moderation.DecisionBlock, moderation.LevelRelaxed, 0.9, moderation.ActionWarn, true},
		{"strict flag mutes", moderation.DecisionFlag, moderation.LevelStrict, 0.4, moderation.ActionMute, true},
		{"moderate flag warns", moderation.DecisionFlag, moderation.LevelModerate, 0.4, moderation.ActionWarn, true},
		{"relaxed flag warns", moderation.DecisionFlag, moderation.LevelRelaxed, 0.1, moderation.ActionWarn, true},
		{"monitor low trust warns", moderation.DecisionMonitor, moderation.LevelModerate, 0.2, moderation.ActionWarn, false},
		{"monitor trusted does nothing", moderation.DecisionMonitor, moderation.LevelStrict, 0.5, moderation.ActionNone, false},
		{"approve does nothing", moderation.DecisionApprove, moderation.LevelStrict, 0.0, moderation.ActionNone, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := Decide(content(), consensusOf(tt.decision, 0.99), profileWithScore(tt.trust), room(tt.level), fixedNow)
			assert.Equal(t, tt.expected, d.Action)
			assert.Equal(t, tt.escalate, d.Escalate)
		})
	}
}

func TestDecide_ConfidenceFloorNeverBansOrKicks(t *testing.T) {
	for _, level := range []moderation.ModerationLevel{moderation.LevelStrict, moderation.LevelModerate, moderation.LevelRelaxed} {
		for conf := 0.0; conf <= 1.0; conf += 0.05 {
			for score := 0.0; score <= 1.0; score += 0.05 {
				c := consensusOf(moderation.DecisionBlock, conf)
				d := Decide(content(), c, profileWithScore(score), room(level), fixedNow)
				if AdjustedConfidence(c, score) < 0.5 {
					assert.NotEqual(t, moderation.ActionBan, d.Action)
					assert.NotEqual(t, moderation.ActionKick, d.Action)
					assert.True(t, d.Escalate)
				}
			}
		}
	}
}

func TestDecide_ConfidenceFloorDowngradesToWarn(t *testing.T) {
	d := Decide(content(), consensusOf(moderation.DecisionBlock, 0.4), profileWithScore(0.1), room(moderation.LevelStrict), fixedNow)
	assert.Equal(t, moderation.ActionWarn, d.Action)
	assert.True(t, d.Escalate)
	assert.Equal(t, string(moderation.ActionBan), d.Metadata[moderation.MetadataDowngraded])
	require.NotNil(t, d.ExpiresAt)
	assert.Equal(t, fixedNow.Add(LongExpiry), *d.ExpiresAt)
}

func TestDecide_TrustMonotonicity(t *testing.T) {
	decisions := []moderation.Decision{
		moderation.DecisionApprove, moderation.DecisionMonitor, moderation.DecisionFlag, moderation.DecisionBlock,
	}
	levels := []moderation.ModerationLevel{moderation.LevelStrict, moderation.LevelModerate, moderation.LevelRelaxed}

	for _, decision := range decisions {
		for _, level := range levels {
			for conf := 0.0; conf <= 1.0; conf += 0.05 {
				previous := moderation.ActionBan.Severity() + 1
				for score := 0.0; score <= 1.0; score += 0.01 {
					d := Decide(content(), consensusOf(decision, conf), profileWithScore(score), room(level), fixedNow)
					require.LessOrEqualf(t, d.Action.Severity(), previous,
						"%s/%s conf=%.2f trust=%.2f raised severity to %s", decision, level, conf, score, d.Action)
					previous = d.Action.Severity()
				}
			}
		}
	}
}

func TestDecide_Expiry(t *testing.T) {
	trusted := Decide(content(), consensusOf(moderation.DecisionFlag, 0.9), profileWithScore(0.7), room(moderation.LevelRelaxed), fixedNow)
	require.NotNil(t, trusted.ExpiresAt)
	assert.Equal(t, fixedNow.Add(time.Hour), *trusted.ExpiresAt)

	untrusted := Decide(content(), consensusOf(moderation.DecisionFlag, 0.9), profileWithScore(0.5), room(moderation.LevelRelaxed), fixedNow)
	require.NotNil(t, untrusted.ExpiresAt)
	assert.Equal(t, fixedNow.Add(24*time.Hour), *untrusted.ExpiresAt)

	ban := Decide(content(), consensusOf(moderation.DecisionBlock, 1), profileWithScore(0.0), room(moderation.LevelStrict), fixedNow)
	assert.Equal(t, moderation.ActionBan, ban.Action)
	assert.Nil(t, ban.ExpiresAt)
}

func TestDecide_DegradedTrustForcesEscalation(t *testing.T) {
	p := profileWithScore(0.5)
	p.Degraded = true
	d := Decide(content(), consensusOf(moderation.DecisionApprove, 0.99), p, room(moderation.LevelModerate), fixedNow)
	assert.Equal(t, moderation.ActionNone, d.Action)
	assert.True(t, d.Escalate)
	assert.Equal(t, "true", d.Metadata[moderation.MetadataDegraded])
}

func TestDecide_DisallowedActionIsDowngraded(t *testing.T) {
	r := room(moderation.LevelStrict)
	r.AllowedActions = moderation.ActionsJSON{moderation.ActionWarn, moderation.ActionMute}

	d := Decide(content(), consensusOf(moderation.DecisionBlock, 1), profileWithScore(0.0), r, fixedNow)
	assert.Equal(t, moderation.ActionMute, d.Action)
	assert.True(t, d.Escalate)
	assert.Equal(t, string(moderation.ActionBan), d.Metadata[moderation.MetadataDowngraded])
	assert.Empty(t, d.Metadata[moderation.MetadataRedact])
}

func TestDecide_RoomTrustThreshold(t *testing.T) {
	r := room(moderation.LevelStrict)
	r.TrustThreshold = 0.5
	d := Decide(content(), consensusOf(moderation.DecisionBlock, 1), profileWithScore(0.4), r, fixedNow)
	assert.Equal(t, moderation.ActionBan, d.Action)
}

func TestRateLimited(t *testing.T) {
	d := RateLimited(content(), fixedNow)
	assert.Equal(t, moderation.ActionMute, d.Action)
	assert.Equal(t, "rate limit", d.Reason)
	assert.Equal(t, 1.0, d.Confidence)
	require.NotNil(t, d.ExpiresAt)
	assert.Equal(t, fixedNow.Add(5*time.Minute), *d.ExpiresAt)
	assert.False(t, d.Escalate)
}

func TestFallback(t *testing.T) {
	d := Fallback(content(), errors.New("insufficient providers"), fixedNow)
	assert.Equal(t, moderation.ActionNone, d.Action)
	assert.True(t, d.Escalate)
	assert.Equal(t, string(moderation.DecisionMonitor), d.Metadata[moderation.MetadataDecision])
	assert.False(t, d.Action.Irreversible())
	assert.False(t, d.RequiresExecution())
}
