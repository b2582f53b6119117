package analysis

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"sync/atomic"
	"time"

	"github.com/NeuralTrust/TrustMod/pkg/domain/moderation"
	"github.com/NeuralTrust/TrustMod/pkg/infra/httpx"
	"github.com/NeuralTrust/TrustMod/pkg/infra/prometheus"
	"github.com/NeuralTrust/TrustMod/pkg/infra/ratelimit"
	"github.com/puzpuzpuz/xsync/v3"
	"github.com/sirupsen/logrus"
)

// providerRateKey is the pseudo room every provider call is counted against.
const providerRateKey = "provider"

var ErrUnknownProvider = errors.New("unknown provider")

//go:generate mockery --name=Gateway --dir=. --output=./mocks --filename=gateway_mock.go --case=underscore --with-expecter
type Gateway interface {
	// Analyze calls up to maxProviders healthy providers concurrently and returns the
	// successful responses in priority order. With requireConsensus at least three
	// providers are attempted and at least two must succeed.
	Analyze(
		ctx context.Context,
		content moderation.ContentItem,
		analysisType moderation.AnalysisType,
		maxProviders int,
		requireConsensus bool,
	) ([]moderation.ProviderResponse, error)
	SetEnabled(providerID string, enabled bool) error
	Stats() []ProviderStats
}

type Option func(*gateway)

func WithLimiter(limiter ratelimit.Limiter) Option {
	return func(g *gateway) {
		g.limiter = limiter
	}
}

func WithClock(clock func() time.Time) Option {
	return func(g *gateway) {
		g.clock = clock
	}
}

type entry struct {
	reg     Registration
	enabled atomic.Bool
	breaker httpx.CircuitBreaker
}

type gateway struct {
	logger   *logrus.Logger
	settings Settings
	entries  []*entry
	byID     map[string]*entry
	stats    *xsync.MapOf[string, *providerStats]
	limiter  ratelimit.Limiter
	clock    func() time.Time
}

func NewGateway(logger *logrus.Logger, registrations []Registration, settings Settings, opts ...Option) (Gateway, error) {
	settings = settings.withDefaults()
	if err := validateRegistrations(registrations, settings.Priorities); err != nil {
		return nil, err
	}
	g := &gateway{
		logger:   logger,
		settings: settings,
		byID:     make(map[string]*entry, len(registrations)),
		stats:    xsync.NewMapOf[string, *providerStats](),
		limiter:  ratelimit.NewMemoryLimiter(),
		clock:    time.Now,
	}
	for _, opt := range opts {
		opt(g)
	}
	for _, reg := range registrations {
		e := &entry{reg: reg}
		e.enabled.Store(reg.Enabled)
		e.breaker = httpx.NewCircuitBreaker(
			reg.ID,
			settings.Cooldown,
			settings.FailureThreshold,
			httpx.WithFailureInterval(settings.FailureWindow),
			httpx.WithNeutralErrors(func(err error) bool {
				return errors.Is(err, moderation.ErrCancelled)
			}),
			httpx.WithStateChangeHook(g.onStateChange),
		)
		g.entries = append(g.entries, e)
		g.byID[reg.ID] = e
		g.stats.Store(reg.ID, &providerStats{})
	}
	return g, nil
}

func (g *gateway) onStateChange(name string, from, to httpx.State) {
	g.logger.WithFields(logrus.Fields{
		"provider": name,
		"from":     from,
		"to":       to,
	}).Warn("provider circuit breaker changed state")
}

func (g *gateway) SetEnabled(providerID string, enabled bool) error {
	e, ok := g.byID[providerID]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownProvider, providerID)
	}
	e.enabled.Store(enabled)
	return nil
}

func (g *gateway) Stats() []ProviderStats {
	out := make([]ProviderStats, 0, len(g.entries))
	for _, e := range g.entries {
		st, _ := g.stats.Load(e.reg.ID)
		reg := e.reg
		reg.Enabled = e.enabled.Load()
		out = append(out, st.snapshot(reg, e.breaker.State()))
	}
	return out
}

// order returns the entries in priority order for analysisType. Providers missing from
// the priority list follow in registration order.
func (g *gateway) order(analysisType moderation.AnalysisType) []*entry {
	ids := g.settings.Priorities[analysisType]
	if len(ids) == 0 {
		return g.entries
	}
	out := make([]*entry, 0, len(g.entries))
	listed := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		if e, ok := g.byID[id]; ok {
			out = append(out, e)
			listed[id] = struct{}{}
		}
	}
	for _, e := range g.entries {
		if _, ok := listed[e.reg.ID]; !ok {
			out = append(out, e)
		}
	}
	return out
}

func (g *gateway) selectCandidates(
	ctx context.Context,
	analysisType moderation.AnalysisType,
	want int,
) []*entry {
	var out []*entry
	for _, e := range g.order(analysisType) {
		if len(out) == want {
			break
		}
		if !e.enabled.Load() || e.breaker.State() == httpx.StateOpen {
			continue
		}
		if e.reg.RateLimit > 0 {
			allowed, err := g.limiter.Allow(ctx, e.reg.ID, providerRateKey, e.reg.RateLimit, g.clock())
			if err != nil {
				g.logger.WithError(err).WithField("provider", e.reg.ID).Warn("provider rate limit check failed")
			} else if !allowed {
				g.logger.WithField("provider", e.reg.ID).Debug("provider rate limited, skipping")
				continue
			}
		}
		out = append(out, e)
	}
	return out
}

type callResult struct {
	index    int
	response *moderation.ProviderResponse
	err      error
}

func (g *gateway) Analyze(
	ctx context.Context,
	content moderation.ContentItem,
	analysisType moderation.AnalysisType,
	maxProviders int,
	requireConsensus bool,
) ([]moderation.ProviderResponse, error) {
	if maxProviders <= 0 {
		maxProviders = g.settings.MaxProviders
	}
	if requireConsensus && maxProviders < ConsensusCandidates {
		maxProviders = ConsensusCandidates
	}

	candidates := g.selectCandidates(ctx, analysisType, maxProviders)
	if len(candidates) == 0 {
		return nil, fmt.Errorf("%w for %s", moderation.ErrNoProvidersAvailable, analysisType)
	}

	results := make(chan callResult, len(candidates))
	for i, e := range candidates {
		go func(i int, e *entry) {
			resp, err := g.call(ctx, e, content, analysisType)
			results <- callResult{index: i, response: resp, err: err}
		}(i, e)
	}

	ordered := make([]*moderation.ProviderResponse, len(candidates))
	var failures []string
	for range candidates {
		r := <-results
		if r.err != nil {
			failures = append(failures, r.err.Error())
			continue
		}
		ordered[r.index] = r.response
	}

	if ctx.Err() != nil {
		return nil, fmt.Errorf("%w: %v", moderation.ErrCancelled, ctx.Err())
	}

	responses := make([]moderation.ProviderResponse, 0, len(candidates))
	for _, r := range ordered {
		if r != nil {
			responses = append(responses, *r)
		}
	}

	if len(failures) > 0 {
		g.logger.WithFields(logrus.Fields{
			"content_id":    content.ID,
			"analysis_type": analysisType,
			"failed":        len(failures),
			"succeeded":     len(responses),
		}).Warn("some providers failed: " + strings.Join(failures, "; "))
	}

	if len(responses) == 0 || (requireConsensus && len(responses) < ConsensusMinSuccesses) {
		return nil, fmt.Errorf(
			"%w: %d of %d providers succeeded",
			moderation.ErrInsufficientProviders,
			len(responses),
			len(candidates),
		)
	}
	return responses, nil
}

type analyzeOutcome struct {
	response *moderation.ProviderResponse
	err      error
}

func (g *gateway) call(
	ctx context.Context,
	e *entry,
	content moderation.ContentItem,
	analysisType moderation.AnalysisType,
) (*moderation.ProviderResponse, error) {
	timeout := e.reg.Timeout
	if timeout <= 0 {
		timeout = g.settings.DefaultTimeout
	}
	callCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	cfg := e.reg.Config
	start := g.clock()
	var resp *moderation.ProviderResponse
	err := e.breaker.Execute(func() error {
		done := make(chan analyzeOutcome, 1)
		go func() {
			defer func() {
				if r := recover(); r != nil {
					done <- analyzeOutcome{err: fmt.Errorf("%w: provider panicked: %v", moderation.ErrProviderError, r)}
				}
			}()
			r, err := e.reg.Provider.Analyze(callCtx, content, analysisType, &cfg)
			done <- analyzeOutcome{response: r, err: err}
		}()
		select {
		case out := <-done:
			if out.err != nil {
				return classify(ctx, callCtx, out.err)
			}
			if err := validateResponse(out.response); err != nil {
				return err
			}
			resp = out.response
			return nil
		case <-callCtx.Done():
			return classify(ctx, callCtx, callCtx.Err())
		}
	})
	latency := g.clock().Sub(start)
	st, _ := g.stats.Load(e.reg.ID)

	prometheus.ProviderLatency.WithLabelValues(e.reg.ID).Observe(float64(latency.Milliseconds()))
	if err != nil {
		outcome := "error"
		switch {
		case errors.Is(err, moderation.ErrCancelled):
			outcome = "cancelled"
		case errors.Is(err, moderation.ErrProviderTimeout):
			outcome = "timeout"
		case httpx.IsRejected(err):
			outcome = "rejected"
			err = fmt.Errorf("%w: %v", moderation.ErrProviderError, err)
		default:
			if !errors.Is(err, moderation.ErrProviderError) {
				err = fmt.Errorf("%w: %v", moderation.ErrProviderError, err)
			}
		}
		// the provider was never reached for cancelled or breaker-rejected calls
		if outcome != "cancelled" && outcome != "rejected" {
			st.recordFailure(latency, err, g.clock())
		}
		prometheus.ProviderCallsTotal.WithLabelValues(e.reg.ID, string(analysisType), outcome).Inc()
		return nil, moderation.NewProviderError(e.reg.ID, err)
	}

	out := *resp
	out.ProviderID = e.reg.ID
	out.Latency = latency
	out.Timestamp = g.clock()
	st.recordSuccess(latency, out.Cost, out.Timestamp)
	prometheus.ProviderCallsTotal.WithLabelValues(e.reg.ID, string(analysisType), "success").Inc()
	if out.Cost > 0 {
		prometheus.ProviderCost.WithLabelValues(e.reg.ID).Add(out.Cost)
	}
	return &out, nil
}

func validateResponse(resp *moderation.ProviderResponse) error {
	switch {
	case resp == nil:
		return fmt.Errorf("%w: empty response", moderation.ErrProviderError)
	case !resp.Decision.Valid():
		return fmt.Errorf("%w: invalid decision %q", moderation.ErrProviderError, resp.Decision)
	case math.IsNaN(resp.Confidence) || resp.Confidence < 0 || resp.Confidence > 1:
		return fmt.Errorf("%w: confidence %v out of range", moderation.ErrProviderError, resp.Confidence)
	}
	return nil
}

// classify maps a raw call failure onto the gateway's error kinds.
func classify(parent, call context.Context, err error) error {
	if parent.Err() != nil {
		return fmt.Errorf("%w: %v", moderation.ErrCancelled, err)
	}
	if errors.Is(err, moderation.ErrProviderTimeout) || errors.Is(call.Err(), context.DeadlineExceeded) {
		return fmt.Errorf("%w: %v", moderation.ErrProviderTimeout, err)
	}
	if errors.Is(err, moderation.ErrProviderError) {
		return err
	}
	return fmt.Errorf("%w: %v", moderation.ErrProviderError, err)
}
