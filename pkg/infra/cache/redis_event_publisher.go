package cache

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/NeuralTrust/TrustMod/pkg/infra/cache/event"
)

// RedisMessage is the envelope published on the events channel. Event holds the JSON of the
// concrete event named by Type.
type RedisMessage struct {
	Type  string          `json:"type"`
	Event json.RawMessage `json:"event"`
}

func encodeEvent(ev event.Event) ([]byte, error) {
	b, err := json.Marshal(ev)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal %s: %w", ev.Type(), err)
	}
	data, err := json.Marshal(RedisMessage{Type: ev.Type(), Event: b})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal event envelope: %w", err)
	}
	return data, nil
}

type redisEventPublisher struct {
	client  Client
	channel string
}

func NewRedisEventPublisher(client Client, channel string) EventPublisher {
	return &redisEventPublisher{
		client:  client,
		channel: channel,
	}
}

func (p *redisEventPublisher) Publish(ctx context.Context, ev event.Event) error {
	data, err := encodeEvent(ev)
	if err != nil {
		return err
	}
	return p.client.RedisClient().Publish(ctx, p.channel, data).Err()
}
