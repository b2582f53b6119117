package pipeline

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/NeuralTrust/TrustMod/pkg/app/analysis"
	"github.com/NeuralTrust/TrustMod/pkg/app/consensus"
	"github.com/NeuralTrust/TrustMod/pkg/app/executor"
	"github.com/NeuralTrust/TrustMod/pkg/app/policy"
	"github.com/NeuralTrust/TrustMod/pkg/app/room"
	appTrust "github.com/NeuralTrust/TrustMod/pkg/app/trust"
	"github.com/NeuralTrust/TrustMod/pkg/domain/moderation"
	"github.com/NeuralTrust/TrustMod/pkg/domain/trust"
	"github.com/NeuralTrust/TrustMod/pkg/infra/prometheus"
	"github.com/NeuralTrust/TrustMod/pkg/infra/ratelimit"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

type Config struct {
	DefaultAnalysisType moderation.AnalysisType `mapstructure:"default_analysis_type"`
	MaxProviders        int                     `mapstructure:"max_providers"`
	RequireConsensus    bool                    `mapstructure:"require_consensus"`
}

//go:generate mockery --name=Pipeline --dir=. --output=./mocks --filename=pipeline_mock.go --case=underscore --with-expecter
type Pipeline interface {
	// Process runs rate limiting, analysis, consensus, trust and policy for one content
	// item, applies the decision and emits an audit record. Provider shortages produce a
	// fallback Result, not an error.
	Process(ctx context.Context, req Request) (*Result, error)
}

type Option func(*pipeline)

func WithClock(clock func() time.Time) Option {
	return func(p *pipeline) {
		p.clock = clock
	}
}

type pipeline struct {
	logger    *logrus.Logger
	cfg       Config
	limiter   ratelimit.Limiter
	gateway   analysis.Gateway
	consensus consensus.Builder
	trust     appTrust.Engine
	rooms     room.PolicyFinder
	executor  executor.Executor
	audit     moderation.AuditSink
	clock     func() time.Time
}

func NewPipeline(
	logger *logrus.Logger,
	cfg Config,
	limiter ratelimit.Limiter,
	gateway analysis.Gateway,
	builder consensus.Builder,
	trustEngine appTrust.Engine,
	rooms room.PolicyFinder,
	exec executor.Executor,
	audit moderation.AuditSink,
	opts ...Option,
) Pipeline {
	if !cfg.DefaultAnalysisType.Valid() {
		cfg.DefaultAnalysisType = moderation.AnalysisGeneral
	}
	p := &pipeline{
		logger:    logger,
		cfg:       cfg,
		limiter:   limiter,
		gateway:   gateway,
		consensus: builder,
		trust:     trustEngine,
		rooms:     rooms,
		executor:  exec,
		audit:     audit,
		clock:     time.Now,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

func (p *pipeline) Process(ctx context.Context, req Request) (*Result, error) {
	start := p.clock()
	content := req.Content
	if err := content.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", moderation.ErrInvalidContent, err)
	}
	if content.Timestamp.IsZero() {
		content.Timestamp = start
	}
	analysisType := req.AnalysisType
	if analysisType == "" {
		analysisType = p.cfg.DefaultAnalysisType
	}
	if !analysisType.Valid() {
		return nil, fmt.Errorf("%w: unknown analysis type %q", moderation.ErrInvalidContent, analysisType)
	}

	roomPolicy, err := p.rooms.Find(ctx, content.RoomID)
	if err != nil {
		return nil, err
	}

	var result *Result
	if p.rateLimited(ctx, content, roomPolicy, start) {
		result = &Result{
			Outcome:  moderation.OutcomeRateLimited,
			Decision: policy.RateLimited(content, start),
		}
	} else {
		result, err = p.decide(ctx, req, content, analysisType, roomPolicy)
		if err != nil {
			return nil, err
		}
	}
	result.Decision.ID = uuid.NewString()

	execErr := p.apply(ctx, content, roomPolicy, result, req.DryRun)
	p.recordActivity(ctx, content, analysisType, result)
	p.emitAudit(ctx, content, result, execErr)
	p.observe(content, result, start)

	if execErr != nil {
		return result, execErr
	}
	return result, nil
}

func (p *pipeline) rateLimited(
	ctx context.Context,
	content moderation.ContentItem,
	roomPolicy *moderation.RoomPolicy,
	now time.Time,
) bool {
	allowed, err := p.limiter.Allow(ctx, content.AuthorID, content.RoomID, roomPolicy.MessageCap(), now)
	if err != nil {
		p.logger.WithError(err).WithFields(logrus.Fields{
			"actor_id": content.AuthorID,
			"room_id":  content.RoomID,
		}).Warn("rate limiter unavailable, admitting message")
		return false
	}
	return !allowed
}

func (p *pipeline) decide(
	ctx context.Context,
	req Request,
	content moderation.ContentItem,
	analysisType moderation.AnalysisType,
	roomPolicy *moderation.RoomPolicy,
) (*Result, error) {
	responses, err := p.gateway.Analyze(ctx, content, analysisType, p.cfg.MaxProviders, p.cfg.RequireConsensus)
	if err != nil {
		if errors.Is(err, moderation.ErrInsufficientProviders) || errors.Is(err, moderation.ErrNoProvidersAvailable) {
			return &Result{
				Outcome:  moderation.OutcomeFallback,
				Decision: policy.Fallback(content, err, p.clock()),
				Cause:    err,
			}, nil
		}
		return nil, err
	}

	result, err := p.consensus.Build(responses)
	if err != nil {
		return nil, fmt.Errorf("failed to build consensus: %w", err)
	}

	var profileOpts []appTrust.ProfileOption
	if req.ForceTrust {
		profileOpts = append(profileOpts, appTrust.WithForceRecalculation())
	}
	profile, err := p.trust.GetProfile(ctx, content.AuthorID, content.RoomID, req.Activity, profileOpts...)
	if err != nil {
		p.logger.WithError(err).WithField("actor_id", content.AuthorID).Warn("trust profile unavailable, using neutral profile")
		profile = trust.NeutralProfile(content.AuthorID, content.RoomID, p.clock())
		profile.Degraded = true
	}

	return &Result{
		Outcome:   moderation.OutcomeDecided,
		Decision:  policy.Decide(content, result, profile, roomPolicy, p.clock()),
		Consensus: &result,
		Profile:   &profile,
	}, nil
}

// apply hands the decision to the executor unless dryRun is set. It sets result.Status.
func (p *pipeline) apply(
	ctx context.Context,
	content moderation.ContentItem,
	roomPolicy *moderation.RoomPolicy,
	result *Result,
	dryRun bool,
) error {
	if dryRun {
		result.Status = moderation.AuditDryRun
		return nil
	}
	decision := result.Decision
	if err := p.executor.Execute(ctx, content, decision, roomPolicy.EscalationTarget); err != nil {
		result.Status = moderation.AuditDecidedNotApplied
		return err
	}
	if decision.RequiresExecution() {
		result.Status = moderation.AuditApplied
	} else {
		result.Status = moderation.AuditNotRequired
	}
	return nil
}

func (p *pipeline) recordActivity(
	ctx context.Context,
	content moderation.ContentItem,
	analysisType moderation.AnalysisType,
	result *Result,
) {
	kinds := []trust.ActivityKind{trust.ActivityMessage}
	switch {
	case result.Outcome == moderation.OutcomeRateLimited:
		kinds = append(kinds, trust.ActivitySpam)
	case result.Consensus != nil && result.Consensus.Decision.Severity() >= moderation.DecisionFlag.Severity():
		if analysisType == moderation.AnalysisSpam {
			kinds = append(kinds, trust.ActivitySpam)
		} else {
			kinds = append(kinds, trust.ActivityToxic)
		}
	}
	for _, kind := range kinds {
		if _, err := p.trust.RecordActivity(ctx, content.AuthorID, content.RoomID, kind); err != nil {
			p.logger.WithError(err).WithField("actor_id", content.AuthorID).Warn("failed to record activity")
		}
	}
}

func (p *pipeline) emitAudit(ctx context.Context, content moderation.ContentItem, result *Result, execErr error) {
	record := moderation.AuditRecord{
		ID:           uuid.NewString(),
		ContentID:    content.ID,
		ActorID:      content.AuthorID,
		RoomID:       content.RoomID,
		Outcome:      result.Outcome,
		Status:       result.Status,
		Decision:     result.Decision,
		Consensus:    result.Consensus,
		TrustProfile: result.Profile,
		Timestamp:    p.clock(),
	}
	switch {
	case execErr != nil:
		record.Error = execErr.Error()
	case result.Cause != nil:
		record.Error = result.Cause.Error()
	}
	result.AuditID = record.ID

	if err := p.audit.Emit(ctx, record); err != nil {
		p.logger.WithError(err).WithField("audit_id", record.ID).Error("failed to emit audit record")
	}
}

func (p *pipeline) observe(content moderation.ContentItem, result *Result, start time.Time) {
	elapsed := p.clock().Sub(start)
	outcome := string(result.Outcome)
	decision := result.Decision

	prometheus.DecisionsTotal.WithLabelValues(outcome, string(decision.Action), strconv.FormatBool(decision.Escalate)).Inc()
	prometheus.PipelineLatency.WithLabelValues(outcome).Observe(float64(elapsed.Milliseconds()))

	p.logger.WithFields(logrus.Fields{
		"content_id":  content.ID,
		"actor_id":    content.AuthorID,
		"room_id":     content.RoomID,
		"outcome":     outcome,
		"action":      decision.Action,
		"confidence":  decision.Confidence,
		"escalate":    decision.Escalate,
		"status":      result.Status,
		"decision_id": decision.ID,
		"audit_id":    result.AuditID,
		"duration_ms": elapsed.Milliseconds(),
	}).Info("content moderated")
}
