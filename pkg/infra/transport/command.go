package transport

import (
	"context"
	"time"

	"github.com/NeuralTrust/TrustMod/pkg/domain/moderation"
)

type CommandType string

const (
	CommandWarn   CommandType = "warn"
	CommandMute   CommandType = "mute"
	CommandUnmute CommandType = "unmute"
	CommandKick   CommandType = "kick"
	CommandBan    CommandType = "ban"
	CommandRedact CommandType = "redact"
	CommandNotify CommandType = "notify"
)

// Command is what the engine asks a chat bridge to do. Bridges receive it either as a
// webhook body or as a websocket frame.
type Command struct {
	ID       string                         `json:"id"`
	Type     CommandType                    `json:"type"`
	RoomID   string                         `json:"room_id,omitempty"`
	ActorID  string                         `json:"actor_id,omitempty"`
	EventID  string                         `json:"event_id,omitempty"`
	Message  string                         `json:"message,omitempty"`
	Until    *time.Time                     `json:"until,omitempty"`
	Target   string                         `json:"target,omitempty"`
	Decision *moderation.ModerationDecision `json:"decision,omitempty"`
	IssuedAt time.Time                      `json:"issued_at"`
}

// sender delivers one command. Both transports build their ChatTransport on top of it.
type sender interface {
	send(ctx context.Context, cmd Command) error
}
