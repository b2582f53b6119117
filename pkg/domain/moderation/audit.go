package moderation

import (
	"time"

	"github.com/NeuralTrust/TrustMod/pkg/domain/trust"
)

type AuditStatus string

const (
	AuditApplied           AuditStatus = "applied"
	AuditNotRequired       AuditStatus = "not_required"
	AuditDecidedNotApplied AuditStatus = "decided_not_applied"
	AuditDryRun            AuditStatus = "dry_run"
)

type OutcomeKind string

const (
	OutcomeDecided     OutcomeKind = "decided"
	OutcomeRateLimited OutcomeKind = "rate_limited"
	OutcomeFallback    OutcomeKind = "fallback"
)

// AuditRecord is emitted for every decision, NONE included.
type AuditRecord struct {
	ID           string             `json:"id"`
	ContentID    string             `json:"content_id"`
	ActorID      string             `json:"actor_id"`
	RoomID       string             `json:"room_id"`
	Outcome      OutcomeKind        `json:"outcome"`
	Status       AuditStatus        `json:"status"`
	Decision     ModerationDecision `json:"decision"`
	Consensus    *ConsensusResult   `json:"consensus,omitempty"`
	TrustProfile *trust.Profile     `json:"trust_profile,omitempty"`
	Error        string             `json:"error,omitempty"`
	Timestamp    time.Time          `json:"timestamp"`
}
