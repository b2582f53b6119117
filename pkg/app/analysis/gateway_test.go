package analysis_test

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/NeuralTrust/TrustMod/pkg/app/analysis"
	"github.com/NeuralTrust/TrustMod/pkg/domain/moderation"
	"github.com/NeuralTrust/TrustMod/pkg/infra/httpx"
	"github.com/NeuralTrust/TrustMod/pkg/infra/providers"
	"github.com/NeuralTrust/TrustMod/pkg/infra/providers/mocks"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func testLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

func testContent() moderation.ContentItem {
	return moderation.ContentItem{
		ID:       "msg-1",
		Text:     "hello there",
		AuthorID: "@alice:example.org",
		RoomID:   "!room:example.org",
		Type:     moderation.ContentTypeText,
	}
}

func approving(p *mocks.Provider, confidence float64) *mock.Call {
	return p.On("Analyze", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(&moderation.ProviderResponse{
			Decision:   moderation.DecisionApprove,
			Confidence: confidence,
			Cost:       0.01,
		}, nil)
}

func failing(p *mocks.Provider, err error) *mock.Call {
	return p.On("Analyze", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(nil, err)
}

// blocking waits for the call context to end.
func blocking(p *mocks.Provider) *mock.Call {
	return p.On("Analyze", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(
			func(ctx context.Context, _ moderation.ContentItem, _ moderation.AnalysisType, _ *providers.Config) *moderation.ProviderResponse {
				<-ctx.Done()
				return nil
			},
			func(ctx context.Context, _ moderation.ContentItem, _ moderation.AnalysisType, _ *providers.Config) error {
				return ctx.Err()
			},
		)
}

func reg(id string, p providers.Provider) analysis.Registration {
	return analysis.Registration{ID: id, Provider: p, Enabled: true}
}

func TestGateway_ReturnsResponsesInPriorityOrder(t *testing.T) {
	a, b, c := mocks.NewProvider(t), mocks.NewProvider(t), mocks.NewProvider(t)
	approving(a, 0.9).Once()
	approving(b, 0.8).Once()
	approving(c, 0.7).Once()

	gw, err := analysis.NewGateway(testLogger(), []analysis.Registration{
		reg("a", a), reg("b", b), reg("c", c),
	}, analysis.Settings{
		Priorities: map[moderation.AnalysisType][]string{
			moderation.AnalysisToxicity: {"c", "a", "b"},
		},
	})
	require.NoError(t, err)

	responses, err := gw.Analyze(context.Background(), testContent(), moderation.AnalysisToxicity, 3, false)
	require.NoError(t, err)
	require.Len(t, responses, 3)
	assert.Equal(t, "c", responses[0].ProviderID)
	assert.Equal(t, "a", responses[1].ProviderID)
	assert.Equal(t, "b", responses[2].ProviderID)
	for _, r := range responses {
		assert.False(t, r.Timestamp.IsZero())
		assert.GreaterOrEqual(t, r.Latency, time.Duration(0))
	}
}

func TestGateway_LimitsToMaxProviders(t *testing.T) {
	a, b := mocks.NewProvider(t), mocks.NewProvider(t)
	approving(a, 0.9).Once()

	gw, err := analysis.NewGateway(testLogger(), []analysis.Registration{reg("a", a), reg("b", b)}, analysis.Settings{})
	require.NoError(t, err)

	responses, err := gw.Analyze(context.Background(), testContent(), moderation.AnalysisGeneral, 1, false)
	require.NoError(t, err)
	require.Len(t, responses, 1)
	assert.Equal(t, "a", responses[0].ProviderID)
	b.AssertNotCalled(t, "Analyze", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestGateway_TimeoutDropsSlowProvider(t *testing.T) {
	fast, slow := mocks.NewProvider(t), mocks.NewProvider(t)
	approving(fast, 0.9).Once()
	blocking(slow).Once()

	slowReg := reg("slow", slow)
	slowReg.Timeout = 20 * time.Millisecond
	gw, err := analysis.NewGateway(testLogger(), []analysis.Registration{reg("fast", fast), slowReg}, analysis.Settings{})
	require.NoError(t, err)

	responses, err := gw.Analyze(context.Background(), testContent(), moderation.AnalysisSpam, 2, false)
	require.NoError(t, err)
	require.Len(t, responses, 1)
	assert.Equal(t, "fast", responses[0].ProviderID)

	stats := gw.Stats()
	require.Len(t, stats, 2)
	assert.Equal(t, int64(1), stats[0].Successes)
	assert.InDelta(t, 0.01, stats[0].TotalCost, 1e-9)
	assert.Equal(t, int64(1), stats[1].Failures)
	assert.Contains(t, stats[1].LastError, moderation.ErrProviderTimeout.Error())
}

func TestGateway_AllFailedIsInsufficient(t *testing.T) {
	a, b := mocks.NewProvider(t), mocks.NewProvider(t)
	failing(a, errors.New("boom")).Once()
	failing(b, errors.New("boom")).Once()

	gw, err := analysis.NewGateway(testLogger(), []analysis.Registration{reg("a", a), reg("b", b)}, analysis.Settings{})
	require.NoError(t, err)

	_, err = gw.Analyze(context.Background(), testContent(), moderation.AnalysisToxicity, 2, false)
	assert.ErrorIs(t, err, moderation.ErrInsufficientProviders)
}

func TestGateway_ConsensusNeedsTwoSuccesses(t *testing.T) {
	a, b, c := mocks.NewProvider(t), mocks.NewProvider(t), mocks.NewProvider(t)
	approving(a, 0.9).Once()
	failing(b, errors.New("boom")).Once()
	failing(c, moderation.ErrProviderError).Once()

	gw, err := analysis.NewGateway(testLogger(), []analysis.Registration{
		reg("a", a), reg("b", b), reg("c", c),
	}, analysis.Settings{})
	require.NoError(t, err)

	// maxProviders is raised to three when consensus is required
	_, err = gw.Analyze(context.Background(), testContent(), moderation.AnalysisToxicity, 1, true)
	assert.ErrorIs(t, err, moderation.ErrInsufficientProviders)
}

func TestGateway_ConsensusWithTwoSuccesses(t *testing.T) {
	a, b, c := mocks.NewProvider(t), mocks.NewProvider(t), mocks.NewProvider(t)
	approving(a, 0.9).Once()
	approving(b, 0.8).Once()
	failing(c, errors.New("boom")).Once()

	gw, err := analysis.NewGateway(testLogger(), []analysis.Registration{
		reg("a", a), reg("b", b), reg("c", c),
	}, analysis.Settings{})
	require.NoError(t, err)

	responses, err := gw.Analyze(context.Background(), testContent(), moderation.AnalysisToxicity, 3, true)
	require.NoError(t, err)
	assert.Len(t, responses, 2)
}

func TestGateway_NoProvidersAvailable(t *testing.T) {
	a := mocks.NewProvider(t)
	disabled := reg("a", a)
	disabled.Enabled = false

	gw, err := analysis.NewGateway(testLogger(), []analysis.Registration{disabled}, analysis.Settings{})
	require.NoError(t, err)

	_, err = gw.Analyze(context.Background(), testContent(), moderation.AnalysisGeneral, 1, false)
	assert.ErrorIs(t, err, moderation.ErrNoProvidersAvailable)

	require.NoError(t, gw.SetEnabled("a", true))
	approving(a, 0.9).Once()
	responses, err := gw.Analyze(context.Background(), testContent(), moderation.AnalysisGeneral, 1, false)
	require.NoError(t, err)
	assert.Len(t, responses, 1)

	assert.ErrorIs(t, gw.SetEnabled("missing", true), analysis.ErrUnknownProvider)
}

func TestGateway_BreakerOpensAfterConsecutiveFailures(t *testing.T) {
	a := mocks.NewProvider(t)
	failing(a, errors.New("upstream 500")).Times(5)

	gw, err := analysis.NewGateway(testLogger(), []analysis.Registration{reg("a", a)}, analysis.Settings{
		FailureThreshold: 5,
		Cooldown:         time.Hour,
	})
	require.NoError(t, err)

	for i := 0; i < 5; i++ {
		_, err = gw.Analyze(context.Background(), testContent(), moderation.AnalysisToxicity, 1, false)
		require.ErrorIs(t, err, moderation.ErrInsufficientProviders)
	}

	stats := gw.Stats()
	assert.Equal(t, httpx.StateOpen, stats[0].State)
	assert.Equal(t, int64(5), stats[0].ConsecutiveFailures)

	_, err = gw.Analyze(context.Background(), testContent(), moderation.AnalysisToxicity, 1, false)
	assert.ErrorIs(t, err, moderation.ErrNoProvidersAvailable)
}

func TestGateway_BreakerHalfOpensAfterCooldown(t *testing.T) {
	a := mocks.NewProvider(t)
	failing(a, errors.New("upstream 500")).Once()
	approving(a, 0.9).Once()

	gw, err := analysis.NewGateway(testLogger(), []analysis.Registration{reg("a", a)}, analysis.Settings{
		FailureThreshold: 1,
		Cooldown:         30 * time.Millisecond,
	})
	require.NoError(t, err)

	_, err = gw.Analyze(context.Background(), testContent(), moderation.AnalysisToxicity, 1, false)
	require.ErrorIs(t, err, moderation.ErrInsufficientProviders)
	assert.Equal(t, httpx.StateOpen, gw.Stats()[0].State)

	time.Sleep(50 * time.Millisecond)

	responses, err := gw.Analyze(context.Background(), testContent(), moderation.AnalysisToxicity, 1, false)
	require.NoError(t, err)
	assert.Len(t, responses, 1)
	assert.Equal(t, httpx.StateClosed, gw.Stats()[0].State)
}

func TestGateway_ParentCancellation(t *testing.T) {
	a, b := mocks.NewProvider(t), mocks.NewProvider(t)
	blocking(a).Once()
	blocking(b).Once()

	gw, err := analysis.NewGateway(testLogger(), []analysis.Registration{reg("a", a), reg("b", b)}, analysis.Settings{})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(20 * time.Millisecond)
		cancel()
	}()

	_, err = gw.Analyze(ctx, testContent(), moderation.AnalysisToxicity, 2, false)
	assert.ErrorIs(t, err, moderation.ErrCancelled)

	for _, s := range gw.Stats() {
		assert.Zero(t, s.Failures, "cancellation is not a provider failure")
		assert.Equal(t, httpx.StateClosed, s.State)
	}
}

func TestGateway_ProviderRateLimit(t *testing.T) {
	a, b := mocks.NewProvider(t), mocks.NewProvider(t)
	approving(a, 0.9).Once()
	approving(b, 0.8).Once()

	limited := reg("a", a)
	limited.RateLimit = 1
	gw, err := analysis.NewGateway(testLogger(), []analysis.Registration{limited, reg("b", b)}, analysis.Settings{})
	require.NoError(t, err)

	first, err := gw.Analyze(context.Background(), testContent(), moderation.AnalysisToxicity, 1, false)
	require.NoError(t, err)
	assert.Equal(t, "a", first[0].ProviderID)

	second, err := gw.Analyze(context.Background(), testContent(), moderation.AnalysisToxicity, 1, false)
	require.NoError(t, err)
	assert.Equal(t, "b", second[0].ProviderID)
}

func TestGateway_RejectsMalformedResponses(t *testing.T) {
	tests := []struct {
		name     string
		response *moderation.ProviderResponse
	}{
		{name: "unknown decision", response: &moderation.ProviderResponse{Decision: "bogus", Confidence: 0.5}},
		{name: "confidence above one", response: &moderation.ProviderResponse{Decision: moderation.DecisionBlock, Confidence: 1.5}},
		{name: "negative confidence", response: &moderation.ProviderResponse{Decision: moderation.DecisionBlock, Confidence: -0.1}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			bad1, bad2, good := mocks.NewProvider(t), mocks.NewProvider(t), mocks.NewProvider(t)
			bad1.On("Analyze", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(tt.response, nil).Once()
			bad2.On("Analyze", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(tt.response, nil).Once()
			good.On("Analyze", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
				Return(&moderation.ProviderResponse{Decision: moderation.DecisionBlock, Confidence: 0.9}, nil).Once()

			gw, err := analysis.NewGateway(testLogger(), []analysis.Registration{
				reg("bad1", bad1), reg("bad2", bad2), reg("good", good),
			}, analysis.Settings{})
			require.NoError(t, err)

			responses, err := gw.Analyze(context.Background(), testContent(), moderation.AnalysisToxicity, 3, false)
			require.NoError(t, err)
			require.Len(t, responses, 1)
			assert.Equal(t, "good", responses[0].ProviderID)
			assert.Equal(t, moderation.DecisionBlock, responses[0].Decision)

			stats := gw.Stats()
			assert.Equal(t, int64(1), stats[0].Failures)
			assert.Contains(t, stats[0].LastError, moderation.ErrProviderError.Error())
		})
	}
}

func TestGateway_ProviderPanicIsLocal(t *testing.T) {
	panicking, healthy := mocks.NewProvider(t), mocks.NewProvider(t)
	panicking.On("Analyze", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Run(func(mock.Arguments) {
			var m map[string]int
			m["boom"]++
		}).
		Return(nil, nil).Once()
	approving(healthy, 0.8).Once()

	gw, err := analysis.NewGateway(testLogger(), []analysis.Registration{
		reg("panicking", panicking), reg("healthy", healthy),
	}, analysis.Settings{})
	require.NoError(t, err)

	responses, err := gw.Analyze(context.Background(), testContent(), moderation.AnalysisToxicity, 2, false)
	require.NoError(t, err)
	require.Len(t, responses, 1)
	assert.Equal(t, "healthy", responses[0].ProviderID)

	stats := gw.Stats()
	assert.Equal(t, int64(1), stats[0].Failures)
	assert.Contains(t, stats[0].LastError, "panicked")
}

func TestGateway_HalfOpenRejectionIsNotAFailure(t *testing.T) {
	a := mocks.NewProvider(t)
	failing(a, errors.New("upstream 500")).Once()

	release := make(chan struct{})
	started := make(chan struct{})
	a.On("Analyze", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(
			func(context.Context, moderation.ContentItem, moderation.AnalysisType, *providers.Config) *moderation.ProviderResponse {
				close(started)
				<-release
				return &moderation.ProviderResponse{Decision: moderation.DecisionApprove, Confidence: 0.9}
			},
			func(context.Context, moderation.ContentItem, moderation.AnalysisType, *providers.Config) error {
				return nil
			},
		).Once()

	gw, err := analysis.NewGateway(testLogger(), []analysis.Registration{reg("a", a)}, analysis.Settings{
		FailureThreshold: 1,
		Cooldown:         30 * time.Millisecond,
	})
	require.NoError(t, err)

	_, err = gw.Analyze(context.Background(), testContent(), moderation.AnalysisToxicity, 1, false)
	require.ErrorIs(t, err, moderation.ErrInsufficientProviders)
	time.Sleep(50 * time.Millisecond)

	inFlight := make(chan error, 1)
	go func() {
		_, err := gw.Analyze(context.Background(), testContent(), moderation.AnalysisToxicity, 1, false)
		inFlight <- err
	}()
	<-started

	_, err = gw.Analyze(context.Background(), testContent(), moderation.AnalysisToxicity, 1, false)
	assert.ErrorIs(t, err, moderation.ErrInsufficientProviders)
	assert.Equal(t, int64(1), gw.Stats()[0].Failures)

	close(release)
	require.NoError(t, <-inFlight)
	assert.Equal(t, httpx.StateClosed, gw.Stats()[0].State)
}

func TestNewGateway_Validation(t *testing.T) {
	p := mocks.NewProvider(t)
	tests := []struct {
		name     string
		regs     []analysis.Registration
		settings analysis.Settings
	}{
		{name: "missing id", regs: []analysis.Registration{{Provider: p}}},
		{name: "missing provider", regs: []analysis.Registration{{ID: "a"}}},
		{name: "duplicate", regs: []analysis.Registration{reg("a", p), reg("a", p)}},
		{
			name: "unknown priority id",
			regs: []analysis.Registration{reg("a", p)},
			settings: analysis.Settings{Priorities: map[moderation.AnalysisType][]string{
				moderation.AnalysisSpam: {"b"},
			}},
		},
		{
			name: "unknown analysis type",
			regs: []analysis.Registration{reg("a", p)},
			settings: analysis.Settings{Priorities: map[moderation.AnalysisType][]string{
				"nsfw": {"a"},
			}},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := analysis.NewGateway(testLogger(), tt.regs, tt.settings)
			assert.Error(t, err)
		})
	}
}
