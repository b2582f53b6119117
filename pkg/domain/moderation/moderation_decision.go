package moderation

import (
	"time"
)

const (
	MetadataDecision     = "consensus_decision"
	MetadataRedact       = "redact"
	MetadataFallback     = "fallback"
	MetadataDowngraded   = "downgraded_from"
	MetadataTrustScore   = "trust_score"
	MetadataTrustRank    = "trust_rank"
	MetadataDegraded     = "trust_degraded"
	MetadataAdjustedConf = "adjusted_confidence"
)

// ModerationDecision is terminal: reprocessing a content item produces a new decision.
type ModerationDecision struct {
	ID         string            `json:"id"`
	ContentID  string            `json:"content_id"`
	ActorID    string            `json:"actor_id"`
	RoomID     string            `json:"room_id"`
	Action     Action            `json:"action"`
	Reason     string            `json:"reason"`
	Confidence float64           `json:"confidence"`
	ExpiresAt  *time.Time        `json:"expires_at,omitempty"`
	Escalate   bool              `json:"escalate"`
	Metadata   map[string]string `json:"metadata,omitempty"`
	DecidedAt  time.Time         `json:"decided_at"`
}

// RequiresExecution reports whether the decision must be handed to the chat transport.
func (d ModerationDecision) RequiresExecution() bool {
	return d.Action != ActionNone
}

func (d ModerationDecision) ShouldRedact() bool {
	return d.Action == ActionRedact || d.Metadata[MetadataRedact] == "true"
}
