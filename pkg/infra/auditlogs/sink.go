package auditlogs

import (
	"context"
	"errors"
	"fmt"

	"github.com/NeuralTrust/TrustMod/pkg/domain/moderation"
	"github.com/sirupsen/logrus"
)

const (
	SinkLog      = "log"
	SinkKafka    = "kafka"
	SinkPostgres = "postgres"
)

type logSink struct {
	logger *logrus.Logger
}

// NewLogSink writes every audit record as one structured log line.
func NewLogSink(logger *logrus.Logger) moderation.AuditSink {
	return &logSink{logger: logger}
}

func (s *logSink) Emit(_ context.Context, record moderation.AuditRecord) error {
	s.logger.WithFields(logrus.Fields{
		"audit_id":   record.ID,
		"content_id": record.ContentID,
		"actor_id":   record.ActorID,
		"room_id":    record.RoomID,
		"outcome":    record.Outcome,
		"status":     record.Status,
		"action":     record.Decision.Action,
		"escalate":   record.Decision.Escalate,
		"confidence": record.Decision.Confidence,
		"error":      record.Error,
	}).Info("audit record")
	return nil
}

type repositorySink struct {
	repo moderation.AuditRepository
}

func NewRepositorySink(repo moderation.AuditRepository) moderation.AuditSink {
	return &repositorySink{repo: repo}
}

func (s *repositorySink) Emit(ctx context.Context, record moderation.AuditRecord) error {
	if err := s.repo.Save(ctx, &record); err != nil {
		return fmt.Errorf("failed to store audit record: %w", err)
	}
	return nil
}

type fanoutSink struct {
	logger *logrus.Logger
	sinks  map[string]moderation.AuditSink
	order  []string
}

// NewFanout builds a sink that emits to every named sink. A failing sink does not stop the others.
func NewFanout(logger *logrus.Logger) *FanoutBuilder {
	return &FanoutBuilder{sink: &fanoutSink{logger: logger, sinks: map[string]moderation.AuditSink{}}}
}

type FanoutBuilder struct {
	sink *fanoutSink
}

func (b *FanoutBuilder) With(name string, sink moderation.AuditSink) *FanoutBuilder {
	if _, exists := b.sink.sinks[name]; !exists {
		b.sink.order = append(b.sink.order, name)
	}
	b.sink.sinks[name] = sink
	return b
}

func (b *FanoutBuilder) Build() moderation.AuditSink {
	return b.sink
}

func (s *fanoutSink) Emit(ctx context.Context, record moderation.AuditRecord) error {
	var errs []error
	for _, name := range s.order {
		if err := s.sinks[name].Emit(ctx, record); err != nil {
			s.logger.WithError(err).WithFields(logrus.Fields{
				"sink":     name,
				"audit_id": record.ID,
			}).Error("audit sink failed")
			errs = append(errs, fmt.Errorf("%s: %w", name, err))
		}
	}
	return errors.Join(errs...)
}
