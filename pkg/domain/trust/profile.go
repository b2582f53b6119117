package trust

import (
	"time"
)

type Rank string

const (
	RankNovice   Rank = "Novice"
	RankTrusted  Rank = "Trusted"
	RankVeteran  Rank = "Veteran"
	RankGuardian Rank = "Guardian"
	RankSage     Rank = "Sage"
)

// RankFor maps a score onto fixed 0.2 wide bands. Sage includes 1.0.
func RankFor(score float64) Rank {
	switch {
	case score < 0.2:
		return RankNovice
	case score < 0.4:
		return RankTrusted
	case score < 0.6:
		return RankVeteran
	case score < 0.8:
		return RankGuardian
	default:
		return RankSage
	}
}

type LayerScore struct {
	Layer       Layer              `json:"layer"`
	Score       float64            `json:"score"`
	Confidence  float64            `json:"confidence"`
	Components  map[string]float64 `json:"components"`
	LastUpdated time.Time          `json:"last_updated"`
}

type Profile struct {
	ActorID         string       `json:"actor_id"`
	ContextID       string       `json:"context_id"`
	LayerScores     []LayerScore `json:"layer_scores"`
	OverallScore    float64      `json:"overall_score"`
	Rank            Rank         `json:"rank"`
	Degraded        bool         `json:"degraded"`
	AppliedPatterns []Pattern    `json:"applied_patterns,omitempty"`
	CalculatedAt    time.Time    `json:"calculated_at"`
}

func (p Profile) Layer(l Layer) (LayerScore, bool) {
	for _, s := range p.LayerScores {
		if s.Layer == l {
			return s, true
		}
	}
	return LayerScore{}, false
}

// NeutralProfile is the profile of an actor nothing is known about.
func NeutralProfile(actorID, contextID string, now time.Time) Profile {
	p := Profile{
		ActorID:      actorID,
		ContextID:    contextID,
		OverallScore: 0.5,
		Rank:         RankFor(0.5),
		CalculatedAt: now,
	}
	for _, l := range Layers {
		p.LayerScores = append(p.LayerScores, LayerScore{Layer: l, Score: 0.5, LastUpdated: now})
	}
	return p
}
