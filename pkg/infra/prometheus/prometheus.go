package prometheus

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var registry = prometheus.NewRegistry()

var registerer = prometheus.WrapRegistererWith(nil, registry)

var (
	// Latency buckets in milliseconds
	latencyBuckets = []float64{
		25, 50, 100, 250,
		500, 1000, 2500,
		5000, 10000, 30000,
	}

	ProviderCallsTotal = promauto.With(registerer).NewCounterVec(
		prometheus.CounterOpts{
			Name: "trustmod_provider_calls_total",
			Help: "Total number of analysis provider calls by outcome",
		},
		[]string{"provider", "analysis_type", "outcome"},
	)

	ProviderLatency = promauto.With(registerer).NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "trustmod_provider_latency_ms",
			Help:    "Analysis provider latency in milliseconds",
			Buckets: latencyBuckets,
		},
		[]string{"provider"},
	)

	ProviderCost = promauto.With(registerer).NewCounterVec(
		prometheus.CounterOpts{
			Name: "trustmod_provider_cost_total",
			Help: "Accumulated analysis provider cost",
		},
		[]string{"provider"},
	)

	DecisionsTotal = promauto.With(registerer).NewCounterVec(
		prometheus.CounterOpts{
			Name: "trustmod_decisions_total",
			Help: "Moderation decisions by outcome, action and escalation",
		},
		[]string{"outcome", "action", "escalate"},
	)

	ActionExecutions = promauto.With(registerer).NewCounterVec(
		prometheus.CounterOpts{
			Name: "trustmod_action_executions_total",
			Help: "Chat transport action executions by result",
		},
		[]string{"action", "result"},
	)

	TrustCacheLookups = promauto.With(registerer).NewCounterVec(
		prometheus.CounterOpts{
			Name: "trustmod_trust_cache_lookups_total",
			Help: "Trust profile cache lookups by result",
		},
		[]string{"result"},
	)

	HTTPRequestsTotal = promauto.With(registerer).NewCounterVec(
		prometheus.CounterOpts{
			Name: "trustmod_http_requests_total",
			Help: "Admin API requests by route, method and status",
		},
		[]string{"route", "method", "status"},
	)

	HTTPRequestLatency = promauto.With(registerer).NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "trustmod_http_request_latency_ms",
			Help:    "Admin API request latency in milliseconds",
			Buckets: latencyBuckets,
		},
		[]string{"route", "method"},
	)

	PipelineLatency = promauto.With(registerer).NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "trustmod_pipeline_latency_ms",
			Help:    "End to end moderation latency in milliseconds",
			Buckets: latencyBuckets,
		},
		[]string{"outcome"},
	)
)

type MetricsConfig struct {
	EnableProcess bool
}

var Config MetricsConfig

func Initialize(cfg MetricsConfig) {
	Config = cfg
	if cfg.EnableProcess {
		registry.MustRegister(
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
	}

	prometheus.DefaultRegisterer = registry
	prometheus.DefaultGatherer = registry
}
