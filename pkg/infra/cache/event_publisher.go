package cache

import (
	"context"

	"github.com/NeuralTrust/TrustMod/pkg/infra/cache/event"
)

// EventsChannel is the pub/sub channel replicas use to invalidate each other's local caches.
const EventsChannel = "trustmod_events"

type EventPublisher interface {
	Publish(ctx context.Context, ev event.Event) error
}
