package consensus

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/NeuralTrust/TrustMod/pkg/domain/moderation"
)

var ErrNoResponses = errors.New("no provider responses to build consensus from")

type Builder interface {
	Build(responses []moderation.ProviderResponse) (moderation.ConsensusResult, error)
}

type builder struct{}

func NewBuilder() Builder {
	return &builder{}
}

type tally struct {
	decision      moderation.Decision
	votes         int
	confidenceSum float64
}

// Build reconciles provider verdicts by majority vote. Ties go to the larger confidence
// sum and then to the more severe decision.
func (b *builder) Build(responses []moderation.ProviderResponse) (moderation.ConsensusResult, error) {
	if len(responses) == 0 {
		return moderation.ConsensusResult{}, ErrNoResponses
	}

	contributing := make([]moderation.ProviderResponse, len(responses))
	copy(contributing, responses)

	if len(contributing) == 1 {
		r := contributing[0]
		return moderation.ConsensusResult{
			Decision:              r.Decision,
			Confidence:            r.Confidence,
			MeanConfidence:        r.Confidence,
			AgreementRatio:        1.0,
			ContributingResponses: contributing,
			Reasoning:             r.Reasoning,
		}, nil
	}

	tallies := make(map[moderation.Decision]*tally)
	for _, r := range contributing {
		t, ok := tallies[r.Decision]
		if !ok {
			t = &tally{decision: r.Decision}
			tallies[r.Decision] = t
		}
		t.votes++
		t.confidenceSum += r.Confidence
	}

	ranked := make([]*tally, 0, len(tallies))
	for _, t := range tallies {
		ranked = append(ranked, t)
	}
	sort.Slice(ranked, func(i, j int) bool {
		a, c := ranked[i], ranked[j]
		if a.votes != c.votes {
			return a.votes > c.votes
		}
		if a.confidenceSum != c.confidenceSum {
			return a.confidenceSum > c.confidenceSum
		}
		return a.decision.Severity() > c.decision.Severity()
	})

	winner := ranked[0]
	mean := winner.confidenceSum / float64(winner.votes)
	ratio := float64(winner.votes) / float64(len(contributing))

	return moderation.ConsensusResult{
		Decision:              winner.decision,
		Confidence:            mean * ratio,
		MeanConfidence:        mean,
		AgreementRatio:        ratio,
		ContributingResponses: contributing,
		Reasoning:             attributedReasoning(contributing),
	}, nil
}

func attributedReasoning(responses []moderation.ProviderResponse) string {
	parts := make([]string, 0, len(responses))
	for _, r := range responses {
		reasoning := strings.TrimSpace(r.Reasoning)
		if reasoning == "" {
			reasoning = "no reasoning provided"
		}
		parts = append(parts, fmt.Sprintf("[%s:%s %.2f] %s", r.ProviderID, r.Decision, r.Confidence, reasoning))
	}
	return strings.Join(parts, "\n")
}
