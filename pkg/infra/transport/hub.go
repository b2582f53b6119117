package transport

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/NeuralTrust/TrustMod/pkg/domain/moderation"
	"github.com/sirupsen/logrus"
)

const (
	DefaultMaxBridges = 64
	// AllRooms subscribes a bridge to every room.
	AllRooms = "*"
)

var (
	ErrNoBridge       = errors.New("no bridge connected for room")
	ErrTooManyBridges = errors.New("maximum bridge connections reached")
)

// Conn is the part of a websocket connection the hub writes to.
type Conn interface {
	WriteJSON(v interface{}) error
	Close() error
}

type bridge struct {
	id    string
	conn  Conn
	rooms []string
	mu    sync.Mutex
}

func (b *bridge) write(cmd Command) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.conn.WriteJSON(cmd)
}

// Hub routes commands to chat bridges attached over websocket.
type Hub struct {
	logger    *logrus.Logger
	semaphore *Semaphore
	mu        sync.RWMutex
	rooms     map[string]map[string]*bridge
}

func NewHub(logger *logrus.Logger, maxBridges int) *Hub {
	return &Hub{
		logger:    logger,
		semaphore: NewSemaphore(maxBridges),
		rooms:     make(map[string]map[string]*bridge),
	}
}

// Transport returns the ChatTransport that delivers through this hub.
func (h *Hub) Transport() moderation.ChatTransport {
	return newChatTransport(h)
}

// Attach registers conn for rooms and returns the function that detaches it.
func (h *Hub) Attach(id string, conn Conn, rooms []string) (func(), error) {
	if len(rooms) == 0 {
		return nil, fmt.Errorf("bridge %s subscribed to no rooms", id)
	}
	if !h.semaphore.Acquire() {
		return nil, ErrTooManyBridges
	}
	b := &bridge{id: id, conn: conn, rooms: rooms}

	h.mu.Lock()
	for _, room := range rooms {
		if h.rooms[room] == nil {
			h.rooms[room] = make(map[string]*bridge)
		}
		h.rooms[room][id] = b
	}
	h.mu.Unlock()

	h.logger.WithFields(logrus.Fields{
		"bridge": id,
		"rooms":  rooms,
	}).Info("chat bridge attached")

	var once sync.Once
	return func() {
		once.Do(func() { h.detach(b) })
	}, nil
}

func (h *Hub) detach(b *bridge) {
	h.mu.Lock()
	for _, room := range b.rooms {
		// a reconnect under the same id may already own the route
		if h.rooms[room][b.id] != b {
			continue
		}
		delete(h.rooms[room], b.id)
		if len(h.rooms[room]) == 0 {
			delete(h.rooms, room)
		}
	}
	h.mu.Unlock()
	h.semaphore.Release()
	if err := b.conn.Close(); err != nil {
		h.logger.WithError(err).WithField("bridge", b.id).Debug("failed to close bridge connection")
	}
	h.logger.WithField("bridge", b.id).Info("chat bridge detached")
}

func (h *Hub) Connected() int {
	return h.semaphore.Current()
}

func (h *Hub) bridgesFor(roomID string) []*bridge {
	h.mu.RLock()
	defer h.mu.RUnlock()
	var out []*bridge
	seen := make(map[string]struct{})
	for _, key := range []string{roomID, AllRooms} {
		for id, b := range h.rooms[key] {
			if _, ok := seen[id]; ok {
				continue
			}
			seen[id] = struct{}{}
			out = append(out, b)
		}
	}
	return out
}

// send writes cmd to every bridge serving the room. It succeeds when at least one write does.
func (h *Hub) send(ctx context.Context, cmd Command) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	bridges := h.bridgesFor(cmd.RoomID)
	if len(bridges) == 0 {
		return fmt.Errorf("%w: %s", ErrNoBridge, cmd.RoomID)
	}
	var errs []error
	for _, b := range bridges {
		if err := b.write(cmd); err != nil {
			h.logger.WithError(err).WithFields(logrus.Fields{
				"bridge":  b.id,
				"command": cmd.Type,
			}).Warn("failed to deliver command to bridge")
			errs = append(errs, fmt.Errorf("%s: %w", b.id, err))
		}
	}
	if len(errs) == len(bridges) {
		return errors.Join(errs...)
	}
	return nil
}
