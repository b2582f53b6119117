package moderation

import (
	"time"
)

// ProviderResponse is produced once per provider call and never mutated.
type ProviderResponse struct {
	ProviderID string                 `json:"provider_id"`
	Decision   Decision               `json:"decision"`
	Confidence float64                `json:"confidence"`
	Reasoning  string                 `json:"reasoning"`
	Evidence   map[string]interface{} `json:"evidence,omitempty"`
	Latency    time.Duration          `json:"latency"`
	Cost       float64                `json:"cost"`
	Timestamp  time.Time              `json:"timestamp"`
}

// ConsensusResult is the reconciled verdict for one content item and one analysis pass.
//
// Confidence is the mean confidence of the agreeing responses scaled by AgreementRatio.
// MeanConfidence keeps the unscaled mean of the agreeing responses.
type ConsensusResult struct {
	Decision              Decision           `json:"decision"`
	Confidence            float64            `json:"confidence"`
	MeanConfidence        float64            `json:"mean_confidence"`
	AgreementRatio        float64            `json:"agreement_ratio"`
	ContributingResponses []ProviderResponse `json:"contributing_responses"`
	Reasoning             string             `json:"reasoning"`
}

// Agreeing returns the contributing responses that voted for the consensus decision.
func (c ConsensusResult) Agreeing() []ProviderResponse {
	var out []ProviderResponse
	for _, r := range c.ContributingResponses {
		if r.Decision == c.Decision {
			out = append(out, r)
		}
	}
	return out
}
