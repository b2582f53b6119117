package analysis

import (
	"fmt"
	"time"

	"github.com/NeuralTrust/TrustMod/pkg/domain/moderation"
	"github.com/NeuralTrust/TrustMod/pkg/infra/providers"
)

const (
	DefaultTimeout          = 10 * time.Second
	DefaultFailureThreshold = 5
	DefaultFailureWindow    = 5 * time.Minute
	DefaultCooldown         = 5 * time.Minute
	DefaultMaxProviders     = 3
	ConsensusCandidates     = 3
	ConsensusMinSuccesses   = 2
)

// Registration binds a provider implementation to the settings it is called with.
// RateLimit is the number of calls allowed per rolling minute, zero meaning unlimited.
type Registration struct {
	ID        string
	Provider  providers.Provider
	Config    providers.Config
	Enabled   bool
	Timeout   time.Duration
	RateLimit int
}

type Settings struct {
	Priorities       map[moderation.AnalysisType][]string
	DefaultTimeout   time.Duration
	FailureThreshold uint32
	FailureWindow    time.Duration
	Cooldown         time.Duration
	MaxProviders     int
}

func (s Settings) withDefaults() Settings {
	if s.DefaultTimeout <= 0 {
		s.DefaultTimeout = DefaultTimeout
	}
	if s.FailureThreshold == 0 {
		s.FailureThreshold = DefaultFailureThreshold
	}
	if s.FailureWindow <= 0 {
		s.FailureWindow = DefaultFailureWindow
	}
	if s.Cooldown <= 0 {
		s.Cooldown = DefaultCooldown
	}
	if s.MaxProviders <= 0 {
		s.MaxProviders = DefaultMaxProviders
	}
	return s
}

func validateRegistrations(regs []Registration, priorities map[moderation.AnalysisType][]string) error {
	seen := make(map[string]struct{}, len(regs))
	for _, r := range regs {
		if r.ID == "" {
			return fmt.Errorf("provider registration without id")
		}
		if r.Provider == nil {
			return fmt.Errorf("provider %s has no implementation", r.ID)
		}
		if _, dup := seen[r.ID]; dup {
			return fmt.Errorf("provider %s registered twice", r.ID)
		}
		seen[r.ID] = struct{}{}
	}
	for analysisType, ids := range priorities {
		if !analysisType.Valid() {
			return fmt.Errorf("unknown analysis type %q", analysisType)
		}
		for _, id := range ids {
			if _, ok := seen[id]; !ok {
				return fmt.Errorf("priority list for %s references unknown provider %s", analysisType, id)
			}
		}
	}
	return nil
}
