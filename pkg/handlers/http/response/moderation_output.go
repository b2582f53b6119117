package response

import (
	"github.com/NeuralTrust/TrustMod/pkg/app/pipeline"
	"github.com/NeuralTrust/TrustMod/pkg/domain/moderation"
	"github.com/NeuralTrust/TrustMod/pkg/domain/trust"
)

type ModerationOutput struct {
	Outcome      moderation.OutcomeKind        `json:"outcome"`
	Status       moderation.AuditStatus        `json:"status"`
	AuditID      string                        `json:"audit_id"`
	Decision     moderation.ModerationDecision `json:"decision"`
	Consensus    *moderation.ConsensusResult   `json:"consensus,omitempty"`
	TrustProfile *trust.Profile                `json:"trust_profile,omitempty"`
	Cause        string                        `json:"cause,omitempty"`
	Error        string                        `json:"error,omitempty"`
}

func NewModerationOutput(result *pipeline.Result, err error) ModerationOutput {
	out := ModerationOutput{
		Outcome:      result.Outcome,
		Status:       result.Status,
		AuditID:      result.AuditID,
		Decision:     result.Decision,
		Consensus:    result.Consensus,
		TrustProfile: result.Profile,
	}
	if result.Cause != nil {
		out.Cause = result.Cause.Error()
	}
	if err != nil {
		out.Error = err.Error()
	}
	return out
}
