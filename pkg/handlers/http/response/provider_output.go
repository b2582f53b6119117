package response

import (
	"time"

	"github.com/NeuralTrust/TrustMod/pkg/app/analysis"
)

type ProviderOutput struct {
	ID                  string     `json:"id"`
	Enabled             bool       `json:"enabled"`
	State               string     `json:"state"`
	Successes           int64      `json:"successes"`
	Failures            int64      `json:"failures"`
	ConsecutiveFailures int64      `json:"consecutive_failures"`
	AverageLatencyMs    int64      `json:"average_latency_ms"`
	TotalCost           float64    `json:"total_cost"`
	LastError           string     `json:"last_error,omitempty"`
	LastCall            *time.Time `json:"last_call,omitempty"`
}

func NewProviderOutputs(stats []analysis.ProviderStats) []ProviderOutput {
	out := make([]ProviderOutput, 0, len(stats))
	for _, s := range stats {
		o := ProviderOutput{
			ID:                  s.ID,
			Enabled:             s.Enabled,
			State:               string(s.State),
			Successes:           s.Successes,
			Failures:            s.Failures,
			ConsecutiveFailures: s.ConsecutiveFailures,
			AverageLatencyMs:    s.AverageLatency.Milliseconds(),
			TotalCost:           s.TotalCost,
			LastError:           s.LastError,
		}
		if !s.LastCall.IsZero() {
			last := s.LastCall
			o.LastCall = &last
		}
		out = append(out, o)
	}
	return out
}
