package analysis

import (
	"sync"
	"time"

	"github.com/NeuralTrust/TrustMod/pkg/infra/httpx"
)

// ProviderStats is a snapshot of the rolling statistics kept per provider.
type ProviderStats struct {
	ID                  string        `json:"id"`
	Enabled             bool          `json:"enabled"`
	State               httpx.State   `json:"state"`
	Successes           int64         `json:"successes"`
	Failures            int64         `json:"failures"`
	ConsecutiveFailures int64         `json:"consecutive_failures"`
	AverageLatency      time.Duration `json:"average_latency"`
	TotalCost           float64       `json:"total_cost"`
	LastError           string        `json:"last_error,omitempty"`
	LastCall            time.Time     `json:"last_call"`
}

type providerStats struct {
	mu                  sync.Mutex
	successes           int64
	failures            int64
	consecutiveFailures int64
	totalLatency        time.Duration
	totalCost           float64
	lastError           string
	lastCall            time.Time
}

func (s *providerStats) recordSuccess(latency time.Duration, cost float64, at time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.successes++
	s.consecutiveFailures = 0
	s.totalLatency += latency
	s.totalCost += cost
	s.lastCall = at
}

func (s *providerStats) recordFailure(latency time.Duration, err error, at time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failures++
	s.consecutiveFailures++
	s.totalLatency += latency
	s.lastError = err.Error()
	s.lastCall = at
}

func (s *providerStats) snapshot(reg Registration, state httpx.State) ProviderStats {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := ProviderStats{
		ID:                  reg.ID,
		Enabled:             reg.Enabled,
		State:               state,
		Successes:           s.successes,
		Failures:            s.failures,
		ConsecutiveFailures: s.consecutiveFailures,
		TotalCost:           s.totalCost,
		LastError:           s.lastError,
		LastCall:            s.lastCall,
	}
	if calls := s.successes + s.failures; calls > 0 {
		out.AverageLatency = s.totalLatency / time.Duration(calls)
	}
	return out
}
