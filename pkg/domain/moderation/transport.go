package moderation

import (
	"context"
	"time"
)

//go:generate mockery --name=ChatTransport --dir=. --output=./mocks --filename=chat_transport_mock.go --case=underscore --with-expecter
type ChatTransport interface {
	Warn(ctx context.Context, roomID, actorID, message string) error
	Mute(ctx context.Context, roomID, actorID string, until time.Time) error
	Unmute(ctx context.Context, roomID, actorID string) error
	Kick(ctx context.Context, roomID, actorID, reason string) error
	Ban(ctx context.Context, roomID, actorID, reason string) error
	Redact(ctx context.Context, roomID, eventID, reason string) error
	Notify(ctx context.Context, escalationTarget string, decision ModerationDecision) error
}

// Escalator hands a decision to human review outside of the chat transport.
//
//go:generate mockery --name=Escalator --dir=. --output=./mocks --filename=escalator_mock.go --case=underscore --with-expecter
type Escalator interface {
	Escalate(ctx context.Context, target string, decision ModerationDecision) error
}

//go:generate mockery --name=AuditSink --dir=. --output=./mocks --filename=audit_sink_mock.go --case=underscore --with-expecter
type AuditSink interface {
	Emit(ctx context.Context, record AuditRecord) error
}
