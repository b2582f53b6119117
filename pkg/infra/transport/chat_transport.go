package transport

import (
	"context"
	"time"

	"github.com/NeuralTrust/TrustMod/pkg/domain/moderation"
	"github.com/google/uuid"
)

type chatTransport struct {
	sender sender
	clock  func() time.Time
}

func newChatTransport(s sender) *chatTransport {
	return &chatTransport{sender: s, clock: time.Now}
}

func (t *chatTransport) command(typ CommandType) Command {
	return Command{ID: uuid.NewString(), Type: typ, IssuedAt: t.clock()}
}

func (t *chatTransport) Warn(ctx context.Context, roomID, actorID, message string) error {
	cmd := t.command(CommandWarn)
	cmd.RoomID, cmd.ActorID, cmd.Message = roomID, actorID, message
	return t.sender.send(ctx, cmd)
}

func (t *chatTransport) Mute(ctx context.Context, roomID, actorID string, until time.Time) error {
	cmd := t.command(CommandMute)
	cmd.RoomID, cmd.ActorID, cmd.Until = roomID, actorID, &until
	return t.sender.send(ctx, cmd)
}

func (t *chatTransport) Unmute(ctx context.Context, roomID, actorID string) error {
	cmd := t.command(CommandUnmute)
	cmd.RoomID, cmd.ActorID = roomID, actorID
	return t.sender.send(ctx, cmd)
}

func (t *chatTransport) Kick(ctx context.Context, roomID, actorID, reason string) error {
	cmd := t.command(CommandKick)
	cmd.RoomID, cmd.ActorID, cmd.Message = roomID, actorID, reason
	return t.sender.send(ctx, cmd)
}

func (t *chatTransport) Ban(ctx context.Context, roomID, actorID, reason string) error {
	cmd := t.command(CommandBan)
	cmd.RoomID, cmd.ActorID, cmd.Message = roomID, actorID, reason
	return t.sender.send(ctx, cmd)
}

func (t *chatTransport) Redact(ctx context.Context, roomID, eventID, reason string) error {
	cmd := t.command(CommandRedact)
	cmd.RoomID, cmd.EventID, cmd.Message = roomID, eventID, reason
	return t.sender.send(ctx, cmd)
}

func (t *chatTransport) Notify(ctx context.Context, escalationTarget string, decision moderation.ModerationDecision) error {
	cmd := t.command(CommandNotify)
	cmd.RoomID, cmd.ActorID, cmd.Target = decision.RoomID, decision.ActorID, escalationTarget
	cmd.Decision = &decision
	return t.sender.send(ctx, cmd)
}
