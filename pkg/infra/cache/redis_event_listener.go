package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"reflect"
	"sync"
	"time"

	"github.com/NeuralTrust/TrustMod/pkg/infra/cache/event"
	"github.com/cenkalti/backoff/v4"
	"github.com/sirupsen/logrus"
)

const maxReconnectWait = 30 * time.Second

type redisEventListener struct {
	mu          sync.RWMutex
	logger      *logrus.Logger
	cache       Client
	subscribers map[reflect.Type]interface{}
	registry    map[string]reflect.Type
}

func NewRedisEventListener(
	logger *logrus.Logger,
	cache Client,
	registry map[string]reflect.Type,
) EventListener {
	return &redisEventListener{
		logger:      logger,
		cache:       cache,
		subscribers: make(map[reflect.Type]interface{}),
		registry:    registry,
	}
}

func RegisterEventSubscriber[T event.Event](pub EventListener, subscriber EventSubscriber[T]) {
	var evt T
	eventType := reflect.TypeOf(evt)
	pub.Register(eventType, subscriber)
}

func (r *redisEventListener) Register(eventType reflect.Type, subscriber interface{}) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.subscribers[eventType] = subscriber
}

func (r *redisEventListener) Listen(ctx context.Context, channels ...string) {
	reconnect := backoff.NewExponentialBackOff()
	reconnect.MaxInterval = maxReconnectWait
	reconnect.MaxElapsedTime = 0

	for {
		if r.consume(ctx, channels) {
			reconnect.Reset()
		}
		if ctx.Err() != nil {
			r.logger.Info("redis pubsub listener shutting down")
			return
		}

		wait := reconnect.NextBackOff()
		r.logger.WithField("wait", wait.String()).Warn("redis pubsub disconnected, reconnecting")
		select {
		case <-ctx.Done():
			r.logger.Info("redis pubsub listener shutting down")
			return
		case <-time.After(wait):
		}
	}
}

// consume reads from one subscription until it drops or ctx ends. It reports whether any
// message was received.
func (r *redisEventListener) consume(ctx context.Context, channels []string) bool {
	pubSub := r.cache.RedisClient().Subscribe(ctx, channels...)
	done := make(chan struct{})
	defer func() {
		close(done)
		_ = pubSub.Close()
	}()

	r.logger.WithField("channels", channels).Debug("redis pubsub connected")

	go func() {
		select {
		case <-ctx.Done():
			_ = pubSub.Close()
		case <-done:
		}
	}()

	received := false
	for msg := range pubSub.Channel() {
		if ctx.Err() != nil {
			return received
		}
		received = true
		r.handleMessage(ctx, msg.Payload)
	}
	return received
}

func (r *redisEventListener) handleMessage(ctx context.Context, payload string) {
	var envelope RedisMessage
	if err := json.Unmarshal([]byte(payload), &envelope); err != nil {
		r.logger.WithError(err).Error("error decoding redis message")
		return
	}

	concreteType, err := r.getEvent(envelope.Type)
	if err != nil {
		r.logger.WithError(err).Error("error getting event type")
		return
	}

	eventPtr := reflect.New(concreteType)
	if err := json.Unmarshal(envelope.Event, eventPtr.Interface()); err != nil {
		r.logger.WithError(err).Error("error unmarshalling event data into concrete type")
		return
	}
	concreteEvent := eventPtr.Elem().Interface()

	r.notifySubscribers(ctx, concreteEvent)
}

func (r *redisEventListener) notifySubscribers(ctx context.Context, concreteEvent interface{}) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, sub := range r.subscribers {
		sVal := reflect.ValueOf(sub)
		method := sVal.MethodByName("OnEvent")
		if !method.IsValid() {
			r.logger.Debug("subscriber does not implement OnEvent")
			continue
		}

		expectedType := method.Type().In(1)
		eventValue := reflect.ValueOf(concreteEvent)
		if !eventValue.Type().AssignableTo(expectedType) {
			continue
		}

		results := method.Call([]reflect.Value{reflect.ValueOf(ctx), eventValue})
		if len(results) > 0 && !results[0].IsNil() {
			if err, ok := results[0].Interface().(error); ok {
				r.logger.WithError(err).Errorf("error executing subscriber for event %v", concreteEvent)
			}
		}
	}
}

func (r *redisEventListener) getEvent(eventType string) (reflect.Type, error) {
	concreteType, ok := r.registry[eventType]
	if !ok {
		return nil, fmt.Errorf("unknown event type: %s", eventType)
	}
	return concreteType, nil
}
