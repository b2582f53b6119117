package cache

import (
	"context"
	"reflect"
)

type EventListener interface {
	Listen(ctx context.Context, channels ...string)
	Register(eventType reflect.Type, subscriber interface{})
}

// EventSubscriber reacts to one event type delivered by an EventListener.
type EventSubscriber[T any] interface {
	OnEvent(ctx context.Context, ev T) error
}
