package providers

import (
	"context"

	"github.com/NeuralTrust/TrustMod/pkg/domain/moderation"
)

//go:generate mockery --name=Provider --dir=. --output=./mocks --filename=provider_mock.go --case=underscore --with-expecter

// Provider is one independent content analysis backend. Implementations fill Decision,
// Confidence, Reasoning, Evidence and Cost; the gateway stamps ProviderID, Latency and Timestamp.
type Provider interface {
	Name() string
	Analyze(
		ctx context.Context,
		content moderation.ContentItem,
		analysisType moderation.AnalysisType,
		config *Config,
	) (*moderation.ProviderResponse, error)
}

// Thresholds map a normalised risk score onto a decision.
type Thresholds struct {
	Block   float64 `json:"block" mapstructure:"block"`
	Flag    float64 `json:"flag" mapstructure:"flag"`
	Monitor float64 `json:"monitor" mapstructure:"monitor"`
}

var DefaultThresholds = Thresholds{Block: 0.8, Flag: 0.5, Monitor: 0.2}

func (t Thresholds) orDefault() Thresholds {
	if t.Block == 0 && t.Flag == 0 && t.Monitor == 0 {
		return DefaultThresholds
	}
	return t
}

// Classify turns a risk score in [0,1] into a decision. Confidence is the score itself for
// the non approving decisions and its complement for APPROVE.
func Classify(score float64, thresholds Thresholds) (moderation.Decision, float64) {
	t := thresholds.orDefault()
	score = clamp(score)
	switch {
	case score >= t.Block:
		return moderation.DecisionBlock, score
	case score >= t.Flag:
		return moderation.DecisionFlag, score
	case score >= t.Monitor:
		return moderation.DecisionMonitor, score
	default:
		return moderation.DecisionApprove, 1 - score
	}
}

func clamp(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
