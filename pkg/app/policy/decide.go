package policy

import (
	"fmt"
	"strconv"
	"time"

	"github.com/NeuralTrust/TrustMod/pkg/domain/moderation"
	"github.com/NeuralTrust/TrustMod/pkg/domain/trust"
)

const (
	trustDampening       = 0.3
	escalationConfidence = 0.8
	confidenceFloor      = 0.5
	midTrust             = 0.5
	highTrust            = 0.6
	trustedExpiryCutoff  = 0.5

	ShortExpiry      = time.Hour
	LongExpiry       = 24 * time.Hour
	RateLimitMuteFor = 5 * time.Minute

	RateLimitReason = "rate limit"
)

// downgradeChain is walked when a room does not allow the chosen action.
var downgradeChain = map[moderation.Action]moderation.Action{
	moderation.ActionBan:    moderation.ActionKick,
	moderation.ActionKick:   moderation.ActionMute,
	moderation.ActionMute:   moderation.ActionWarn,
	moderation.ActionWarn:   moderation.ActionNone,
	moderation.ActionRedact: moderation.ActionNone,
}

// AdjustedConfidence dampens the consensus confidence by the author's trust.
// Lower trust keeps more of the confidence and so raises sensitivity.
func AdjustedConfidence(consensus moderation.ConsensusResult, trustScore float64) float64 {
	return consensus.MeanConfidence * (1.0 - trustScore*trustDampening)
}

// Decide maps a consensus, the author's trust profile and the room policy onto a single action.
// It has no side effects; the caller assigns the decision ID.
func Decide(
	content moderation.ContentItem,
	consensus moderation.ConsensusResult,
	profile trust.Profile,
	room *moderation.RoomPolicy,
	now time.Time,
) moderation.ModerationDecision {
	trustScore := profile.OverallScore
	adjusted := AdjustedConfidence(consensus, trustScore)
	lowTrust := room.LowTrustBoundary()

	decision := moderation.ModerationDecision{
		ContentID:  content.ID,
		ActorID:    content.AuthorID,
		RoomID:     content.RoomID,
		Action:     moderation.ActionNone,
		Confidence: adjusted,
		DecidedAt:  now,
		Metadata: map[string]string{
			moderation.MetadataDecision:     string(consensus.Decision),
			moderation.MetadataTrustScore:   strconv.FormatFloat(trustScore, 'f', 4, 64),
			moderation.MetadataTrustRank:    string(profile.Rank),
			moderation.MetadataAdjustedConf: strconv.FormatFloat(adjusted, 'f', 4, 64),
		},
	}

	switch consensus.Decision {
	case moderation.DecisionBlock:
		decision.Action = blockAction(room.ModerationLevel, trustScore, lowTrust)
		decision.Escalate = adjusted < escalationConfidence
		if room.Allows(moderation.ActionRedact) {
			decision.Metadata[moderation.MetadataRedact] = "true"
		}
	case moderation.DecisionFlag:
		decision.Action = flagAction(room.ModerationLevel, trustScore, lowTrust)
		decision.Escalate = true
	case moderation.DecisionMonitor:
		if trustScore < lowTrust {
			decision.Action = moderation.ActionWarn
		}
	}

	if adjusted < confidenceFloor && decision.Action.Severity() > moderation.ActionWarn.Severity() {
		decision.Metadata[moderation.MetadataDowngraded] = string(decision.Action)
		decision.Action = moderation.ActionWarn
		decision.Escalate = true
	}

	if !room.Allows(decision.Action) {
		original := decision.Action
		for !room.Allows(decision.Action) {
			decision.Action = downgradeChain[decision.Action]
		}
		decision.Metadata[moderation.MetadataDowngraded] = string(original)
		decision.Escalate = true
	}

	if profile.Degraded {
		decision.Metadata[moderation.MetadataDegraded] = "true"
		decision.Escalate = true
	}

	if decision.Action.Expiring() {
		expiry := now.Add(LongExpiry)
		if trustScore > trustedExpiryCutoff {
			expiry = now.Add(ShortExpiry)
		}
		decision.ExpiresAt = &expiry
	}

	decision.Reason = reason(consensus, room, profile, decision.Action)
	return decision
}

func blockAction(level moderation.ModerationLevel, trustScore, lowTrust float64) moderation.Action {
	switch level {
	case moderation.LevelStrict:
		switch {
		case trustScore < lowTrust:
			return moderation.ActionBan
		case trustScore < highTrust:
			return moderation.ActionKick
		default:
			return moderation.ActionMute
		}
	case moderation.LevelModerate:
		if trustScore < midTrust {
			return moderation.ActionKick
		}
		return moderation.ActionMute
	default:
		if trustScore < midTrust {
			return moderation.ActionMute
		}
		return moderation.ActionWarn
	}
}

func flagAction(level moderation.ModerationLevel, trustScore, lowTrust float64) moderation.Action {
	switch level {
	case moderation.LevelStrict:
		if trustScore < highTrust {
			return moderation.ActionMute
		}
	case moderation.LevelModerate:
		if trustScore < lowTrust {
			return moderation.ActionMute
		}
	}
	return moderation.ActionWarn
}

func reason(
	consensus moderation.ConsensusResult,
	room *moderation.RoomPolicy,
	profile trust.Profile,
	action moderation.Action,
) string {
	return fmt.Sprintf(
		"consensus %s (agreement %.2f) in %s room, trust %.2f (%s): %s",
		consensus.Decision,
		consensus.AgreementRatio,
		room.ModerationLevel,
		profile.OverallScore,
		profile.Rank,
		action,
	)
}

// RateLimited is the short-circuit decision for an actor over the room's message cap.
func RateLimited(content moderation.ContentItem, now time.Time) moderation.ModerationDecision {
	expiry := now.Add(RateLimitMuteFor)
	return moderation.ModerationDecision{
		ContentID:  content.ID,
		ActorID:    content.AuthorID,
		RoomID:     content.RoomID,
		Action:     moderation.ActionMute,
		Reason:     RateLimitReason,
		Confidence: 1.0,
		ExpiresAt:  &expiry,
		DecidedAt:  now,
		Metadata:   map[string]string{},
	}
}

// Fallback is the conservative MONITOR-equivalent decision used when providers could not
// produce a consensus. It never takes an action and always escalates.
func Fallback(content moderation.ContentItem, cause error, now time.Time) moderation.ModerationDecision {
	return moderation.ModerationDecision{
		ContentID:  content.ID,
		ActorID:    content.AuthorID,
		RoomID:     content.RoomID,
		Action:     moderation.ActionNone,
		Reason:     fmt.Sprintf("conservative fallback: %v", cause),
		Confidence: 0,
		Escalate:   true,
		DecidedAt:  now,
		Metadata: map[string]string{
			moderation.MetadataDecision: string(moderation.DecisionMonitor),
			moderation.MetadataFallback: "true",
		},
	}
}
