package notifier

import (
	"context"
	"errors"

	"github.com/NeuralTrust/TrustMod/pkg/domain/moderation"
	"github.com/sirupsen/logrus"
)

type logEscalator struct {
	logger *logrus.Logger
}

func NewLogEscalator(logger *logrus.Logger) moderation.Escalator {
	return &logEscalator{logger: logger}
}

func (e *logEscalator) Escalate(_ context.Context, target string, d moderation.ModerationDecision) error {
	e.logger.WithFields(logrus.Fields{
		"decision_id": d.ID,
		"content_id":  d.ContentID,
		"actor_id":    d.ActorID,
		"room_id":     d.RoomID,
		"action":      d.Action,
		"target":      target,
	}).Warn("decision escalated for review")
	return nil
}

type transportEscalator struct {
	transport moderation.ChatTransport
}

// NewTransportEscalator notifies the room's escalation target through the chat transport.
// Decisions without a target are skipped.
func NewTransportEscalator(transport moderation.ChatTransport) moderation.Escalator {
	return &transportEscalator{transport: transport}
}

func (e *transportEscalator) Escalate(ctx context.Context, target string, d moderation.ModerationDecision) error {
	if target == "" {
		return nil
	}
	return e.transport.Notify(ctx, target, d)
}

type multiEscalator struct {
	escalators []moderation.Escalator
}

func NewMultiEscalator(escalators ...moderation.Escalator) moderation.Escalator {
	return &multiEscalator{escalators: escalators}
}

func (e *multiEscalator) Escalate(ctx context.Context, target string, d moderation.ModerationDecision) error {
	var errs []error
	for _, esc := range e.escalators {
		if err := esc.Escalate(ctx, target, d); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
