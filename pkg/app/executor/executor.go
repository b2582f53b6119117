package executor

import (
	"context"
	"fmt"
	"time"

	"github.com/NeuralTrust/TrustMod/pkg/app/policy"
	"github.com/NeuralTrust/TrustMod/pkg/domain/moderation"
	"github.com/NeuralTrust/TrustMod/pkg/infra/prometheus"
	"github.com/cenkalti/backoff/v4"
	"github.com/sirupsen/logrus"
)

const (
	DefaultRetryInterval = 200 * time.Millisecond
	maxRetries           = 1
)

type Executor interface {
	// Execute applies the decision through the chat transport and hands escalated
	// decisions, NONE included, to the escalator. NONE makes no transport calls.
	// Every transport call is retried once; a second failure is ErrActionExecutionFailed.
	Execute(ctx context.Context, content moderation.ContentItem, decision moderation.ModerationDecision, escalationTarget string) error
}

type Option func(*executor)

func WithRetryInterval(d time.Duration) Option {
	return func(e *executor) {
		if d > 0 {
			e.retryInterval = d
		}
	}
}

func WithClock(clock func() time.Time) Option {
	return func(e *executor) {
		e.clock = clock
	}
}

type executor struct {
	logger        *logrus.Logger
	transport     moderation.ChatTransport
	escalator     moderation.Escalator
	retryInterval time.Duration
	clock         func() time.Time
}

func NewExecutor(
	logger *logrus.Logger,
	transport moderation.ChatTransport,
	escalator moderation.Escalator,
	opts ...Option,
) Executor {
	e := &executor{
		logger:        logger,
		transport:     transport,
		escalator:     escalator,
		retryInterval: DefaultRetryInterval,
		clock:         time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

func (e *executor) Execute(
	ctx context.Context,
	content moderation.ContentItem,
	decision moderation.ModerationDecision,
	escalationTarget string,
) error {
	err := e.execute(ctx, content, decision)
	if decision.Escalate {
		e.escalate(ctx, decision, escalationTarget)
	}
	return err
}

func (e *executor) execute(ctx context.Context, content moderation.ContentItem, decision moderation.ModerationDecision) error {
	if !decision.RequiresExecution() {
		return nil
	}

	if err := e.withRetry(ctx, decision.Action, func() error {
		return e.apply(ctx, content, decision)
	}); err != nil {
		return err
	}

	if decision.Action != moderation.ActionRedact && decision.ShouldRedact() {
		return e.withRetry(ctx, moderation.ActionRedact, func() error {
			return e.transport.Redact(ctx, content.RoomID, eventID(content), decision.Reason)
		})
	}
	return nil
}

// escalate never fails the decision.
func (e *executor) escalate(ctx context.Context, decision moderation.ModerationDecision, target string) {
	if err := e.escalator.Escalate(ctx, target, decision); err != nil {
		e.logger.WithError(err).WithFields(logrus.Fields{
			"decision_id": decision.ID,
			"target":      target,
		}).Warn("failed to escalate decision")
	}
}

func (e *executor) apply(ctx context.Context, content moderation.ContentItem, decision moderation.ModerationDecision) error {
	switch decision.Action {
	case moderation.ActionWarn:
		return e.transport.Warn(ctx, content.RoomID, content.AuthorID, decision.Reason)
	case moderation.ActionMute:
		until := e.clock().Add(policy.LongExpiry)
		if decision.ExpiresAt != nil {
			until = *decision.ExpiresAt
		}
		return e.transport.Mute(ctx, content.RoomID, content.AuthorID, until)
	case moderation.ActionKick:
		return e.transport.Kick(ctx, content.RoomID, content.AuthorID, decision.Reason)
	case moderation.ActionBan:
		return e.transport.Ban(ctx, content.RoomID, content.AuthorID, decision.Reason)
	case moderation.ActionRedact:
		return e.transport.Redact(ctx, content.RoomID, eventID(content), decision.Reason)
	default:
		return backoff.Permanent(fmt.Errorf("unsupported action %q", decision.Action))
	}
}

func (e *executor) withRetry(ctx context.Context, action moderation.Action, op func() error) error {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = e.retryInterval
	b.MaxElapsedTime = 0

	attempt := 0
	err := backoff.RetryNotify(
		op,
		backoff.WithContext(backoff.WithMaxRetries(b, maxRetries), ctx),
		func(err error, wait time.Duration) {
			attempt++
			e.logger.WithError(err).WithFields(logrus.Fields{
				"action":  action,
				"attempt": attempt,
				"wait":    wait.String(),
			}).Warn("transport call failed, retrying")
		},
	)
	if err != nil {
		prometheus.ActionExecutions.WithLabelValues(string(action), "failed").Inc()
		return fmt.Errorf("%w: %s: %v", moderation.ErrActionExecutionFailed, action, err)
	}
	prometheus.ActionExecutions.WithLabelValues(string(action), "applied").Inc()
	return nil
}

func eventID(content moderation.ContentItem) string {
	if content.EventID != "" {
		return content.EventID
	}
	return content.ID
}
