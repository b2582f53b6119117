package pipeline

import (
	"github.com/NeuralTrust/TrustMod/pkg/domain/moderation"
	"github.com/NeuralTrust/TrustMod/pkg/domain/trust"
)

type Request struct {
	Content      moderation.ContentItem  `json:"content"`
	Activity     trust.ActivityData      `json:"activity"`
	AnalysisType moderation.AnalysisType `json:"analysis_type,omitempty"`
	DryRun       bool                    `json:"dry_run"`
	ForceTrust   bool                    `json:"force_trust"`
}

// Result is the outcome of one pass. A fallback is a regular Result whose Cause holds the
// provider failure that prevented a consensus.
type Result struct {
	Outcome   moderation.OutcomeKind        `json:"outcome"`
	Decision  moderation.ModerationDecision `json:"decision"`
	Consensus *moderation.ConsensusResult   `json:"consensus,omitempty"`
	Profile   *trust.Profile                `json:"trust_profile,omitempty"`
	Status    moderation.AuditStatus        `json:"status"`
	AuditID   string                        `json:"audit_id"`
	Cause     error                         `json:"-"`
}

func (r *Result) Fallback() bool {
	return r.Outcome == moderation.OutcomeFallback
}
