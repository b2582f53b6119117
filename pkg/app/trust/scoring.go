package trust

import (
	"math"
	"time"

	domain "github.com/NeuralTrust/TrustMod/pkg/domain/trust"
)

const (
	ConfidenceFloor  = 0.3
	NeutralScore     = 0.5
	maxVolumeBoost   = 0.25
	volumeBoostScale = 400.0
	degradedLayers   = 2
)

type patternRule struct {
	layer  domain.Layer
	factor float64
	detect func(a domain.ActivityData) bool
}

var patternRules = map[domain.Pattern]patternRule{
	domain.PatternConsistentQuality: {
		layer:  domain.LayerCapability,
		factor: 1.10,
		detect: func(a domain.ActivityData) bool {
			if len(a.QualityHistory) < 5 {
				return false
			}
			mean, stddev := meanStdDev(a.QualityHistory)
			return mean >= 0.7 && stddev <= 0.1
		},
	},
	domain.PatternImprovementTrend: {
		layer:  domain.LayerCapability,
		factor: 1.05,
		detect: func(a domain.ActivityData) bool {
			n := len(a.QualityHistory)
			if n < 4 {
				return false
			}
			early, _ := meanStdDev(a.QualityHistory[:n/2])
			late, _ := meanStdDev(a.QualityHistory[n/2:])
			return late-early >= 0.1
		},
	},
	domain.PatternCommunityLeadership: {
		layer:  domain.LayerSocial,
		factor: 1.15,
		detect: func(a domain.ActivityData) bool {
			return a.LeadershipActions >= 5 && a.MessageCount >= 20
		},
	},
	domain.PatternHelpfulBehavior: {
		layer:  domain.LayerIntegrity,
		factor: 1.10,
		detect: func(a domain.ActivityData) bool {
			return a.MessageCount >= 10 && ratio(a.HelpfulReactions, a.MessageCount) >= 0.2
		},
	},
	domain.PatternToxicBehavior: {
		layer:  domain.LayerIntegrity,
		factor: 0.6,
		detect: func(a domain.ActivityData) bool {
			return a.ToxicFlags >= 3 || (a.MessageCount >= 10 && ratio(a.ToxicFlags, a.MessageCount) >= 0.1)
		},
	},
	domain.PatternSpamBehavior: {
		layer:  domain.LayerSocial,
		factor: 0.7,
		detect: func(a domain.ActivityData) bool {
			return a.SpamFlags >= 3 || (a.MessageCount >= 10 && ratio(a.SpamFlags, a.MessageCount) >= 0.2)
		},
	},
}

var patternOrder = []domain.Pattern{
	domain.PatternConsistentQuality,
	domain.PatternImprovementTrend,
	domain.PatternCommunityLeadership,
	domain.PatternHelpfulBehavior,
	domain.PatternToxicBehavior,
	domain.PatternSpamBehavior,
}

// ComputeProfile builds a profile from activity data without touching any cache.
func ComputeProfile(actorID, contextID string, activity domain.ActivityData, now time.Time) domain.Profile {
	layers := make([]domain.LayerScore, 0, len(domain.Layers))
	for _, l := range domain.Layers {
		layers = append(layers, computeLayer(l, activity, now))
	}

	lowConfidence := 0
	for _, l := range layers {
		if l.Confidence < ConfidenceFloor {
			lowConfidence++
		}
	}

	patterns := DetectPatterns(activity)
	for _, p := range patterns {
		rule := patternRules[p]
		for i := range layers {
			if layers[i].Layer != rule.layer {
				continue
			}
			layers[i].Score = clamp(layers[i].Score * rule.factor)
			if layers[i].Confidence < ConfidenceFloor {
				layers[i].Confidence = ConfidenceFloor
			}
		}
	}

	overall := OverallScore(layers)
	return domain.Profile{
		ActorID:         actorID,
		ContextID:       contextID,
		LayerScores:     layers,
		OverallScore:    overall,
		Rank:            domain.RankFor(overall),
		Degraded:        lowConfidence >= degradedLayers && hasEvidence(activity),
		AppliedPatterns: patterns,
		CalculatedAt:    now,
	}
}

func computeLayer(layer domain.Layer, activity domain.ActivityData, now time.Time) domain.LayerScore {
	components := domain.LayerComponents[layer]
	values := make(map[string]float64, len(components))
	present := 0
	score := 0.0
	for _, c := range components {
		v, ok := activity.Signals[c.Name]
		if ok {
			v = clamp(v)
			present++
		} else {
			v = NeutralScore
		}
		values[c.Name] = v
		score += v * c.Weight
	}

	confidence := 0.0
	if present > 0 {
		fraction := float64(present) / float64(len(components))
		boost := math.Min(maxVolumeBoost, float64(activity.MessageCount)/volumeBoostScale)
		confidence = math.Min(1.0, fraction*(1.0+boost))
	}
	if confidence < ConfidenceFloor {
		score = NeutralScore
	}

	return domain.LayerScore{
		Layer:       layer,
		Score:       score,
		Confidence:  confidence,
		Components:  values,
		LastUpdated: now,
	}
}

// OverallScore is Σ(score·weight·confidence) / Σ(weight·confidence), neutral when nothing is known.
func OverallScore(layers []domain.LayerScore) float64 {
	num, den := 0.0, 0.0
	for _, l := range layers {
		w := domain.LayerWeights[l.Layer] * l.Confidence
		num += l.Score * w
		den += w
	}
	if den == 0 {
		return NeutralScore
	}
	return clamp(num / den)
}

func DetectPatterns(activity domain.ActivityData) []domain.Pattern {
	var out []domain.Pattern
	for _, p := range patternOrder {
		if patternRules[p].detect(activity) {
			out = append(out, p)
		}
	}
	return out
}

func hasEvidence(a domain.ActivityData) bool {
	return a.MessageCount > 0 || len(a.Signals) > 0
}

func ratio(n, d int) float64 {
	if d == 0 {
		return 0
	}
	return float64(n) / float64(d)
}

func meanStdDev(values []float64) (float64, float64) {
	if len(values) == 0 {
		return 0, 0
	}
	sum := 0.0
	for _, v := range values {
		sum += v
	}
	mean := sum / float64(len(values))
	variance := 0.0
	for _, v := range values {
		variance += (v - mean) * (v - mean)
	}
	return mean, math.Sqrt(variance / float64(len(values)))
}

func clamp(v float64) float64 {
	return math.Max(0, math.Min(1, v))
}
