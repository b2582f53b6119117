package websocket

import (
	"strings"

	"github.com/NeuralTrust/TrustMod/pkg/infra/transport"
	"github.com/gofiber/contrib/websocket"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// BridgeRoomsQuery lists the rooms a bridge serves, comma separated. "*" subscribes to all rooms.
const (
	BridgeRoomsQuery = "rooms"
	BridgeIDQuery    = "bridge_id"
)

type bridgeHandler struct {
	logger *logrus.Logger
	hub    *transport.Hub
}

// NewBridgeHandler attaches chat bridges to the hub for as long as their connection stays open.
// Frames sent by the bridge are acknowledgements and are only logged.
func NewBridgeHandler(logger *logrus.Logger, hub *transport.Hub) Handler {
	return &bridgeHandler{
		logger: logger,
		hub:    hub,
	}
}

func (h *bridgeHandler) Handle(c *websocket.Conn) {
	id := c.Query(BridgeIDQuery)
	if id == "" {
		id = uuid.NewString()
	}
	rooms := parseRooms(c.Query(BridgeRoomsQuery))

	detach, err := h.hub.Attach(id, c, rooms)
	if err != nil {
		h.logger.WithError(err).WithField("bridge", id).Warn("rejecting chat bridge")
		_ = c.WriteJSON(map[string]string{"error": err.Error()})
		_ = c.Close()
		return
	}
	defer detach()

	for {
		_, msg, err := c.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				h.logger.WithError(err).WithField("bridge", id).Warn("chat bridge connection closed unexpectedly")
			}
			return
		}
		h.logger.WithFields(logrus.Fields{
			"bridge": id,
			"frame":  string(msg),
		}).Debug("chat bridge acknowledgement")
	}
}

func parseRooms(raw string) []string {
	var rooms []string
	for _, r := range strings.Split(raw, ",") {
		if r = strings.TrimSpace(r); r != "" {
			rooms = append(rooms, r)
		}
	}
	return rooms
}
