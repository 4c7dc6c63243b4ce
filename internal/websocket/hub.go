// internal/websocket/hub.go
package websocket

import (
	"context"
	"sync"

	wstypes "cms-admin/internal/domain/websocket"
	"cms-admin/internal/pkg/session"

	"go.uber.org/zap"
)

// SnapshotSource is read when a client connects so it starts from the current
// session instead of waiting for the next transition.
type SnapshotSource interface {
	Snapshot() session.Snapshot
}

// Hub fans session transitions out to connected console shells.
type Hub struct {
	clients map[*Client]bool
	mu      sync.RWMutex

	Register   chan *Client
	unregister chan *Client

	broadcast chan *BroadcastMessage

	sessions SnapshotSource
	logger   *zap.Logger
}

type BroadcastMessage struct {
	Channel wstypes.ChannelType
	Message *wstypes.WSMessage
}

func NewHub(sessions SnapshotSource, logger *zap.Logger) *Hub {
	return &Hub{
		clients:    make(map[*Client]bool),
		Register:   make(chan *Client),
		unregister: make(chan *Client, 16),
		broadcast:  make(chan *BroadcastMessage, 256),
		sessions:   sessions,
		logger:     logger,
	}
}

func (h *Hub) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			h.shutdown()
			return

		case client := <-h.Register:
			h.registerClient(client)

		case client := <-h.unregister:
			h.unregisterClient(client)

		case msg := <-h.broadcast:
			h.BroadcastMessage(msg)
		}
	}
}

// Observe implements session.Observer. It runs under the session lock, so it
// only queues the event and drops it when the queue is full.
func (h *Hub) Observe(_, next session.Snapshot) {
	msg := &BroadcastMessage{
		Channel: wstypes.ChannelSession,
		Message: wstypes.NewMessage(wstypes.EventTypeSessionState, stateData(next)),
	}

	select {
	case h.broadcast <- msg:
	default:
		h.logger.Warn("session event dropped, broadcast queue full",
			zap.String("state", string(next.State())),
		)
	}
}

func (h *Hub) registerClient(client *Client) {
	h.mu.Lock()
	h.clients[client] = true
	total := len(h.clients)
	h.mu.Unlock()

	h.logger.Info("websocket client connected",
		zap.String("client_id", client.id),
		zap.Int("total", total),
	)

	client.SendMessage(wstypes.NewMessage(wstypes.EventTypeConnected, map[string]interface{}{
		"client_id": client.id,
		"session":   stateData(h.sessions.Snapshot()),
	}))
}

func (h *Hub) unregisterClient(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.removeLocked(client)
}

func (h *Hub) removeLocked(client *Client) {
	if _, ok := h.clients[client]; !ok {
		return
	}
	delete(h.clients, client)
	client.Close()

	h.logger.Info("websocket client disconnected",
		zap.String("client_id", client.id),
		zap.Int("total", len(h.clients)),
	)
}

// BroadcastMessage delivers msg to every client subscribed to its channel.
// Clients that cannot keep up are disconnected.
func (h *Hub) BroadcastMessage(msg *BroadcastMessage) {
	data, err := msg.Message.ToJSON()
	if err != nil {
		h.logger.Error("failed to marshal broadcast", zap.Error(err))
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	for client := range h.clients {
		if !client.IsSubscribed(msg.Channel) {
			continue
		}
		if !client.trySend(data) {
			h.logger.Warn("websocket client too slow, disconnecting", zap.String("client_id", client.id))
			h.removeLocked(client)
		}
	}
}

func (h *Hub) TotalClients() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// shutdown tells clients on the system channel that the console is going
// away, then disconnects everyone.
func (h *Hub) shutdown() {
	h.mu.Lock()
	defer h.mu.Unlock()

	notice := wstypes.NewMessage(wstypes.EventTypeSystemShutdown, map[string]interface{}{
		"reason": "console shutting down",
	})
	data, err := notice.ToJSON()
	if err != nil {
		h.logger.Error("failed to marshal shutdown notice", zap.Error(err))
	}

	for client := range h.clients {
		if err == nil && client.IsSubscribed(wstypes.ChannelSystem) {
			client.trySend(data)
		}
		client.Close()
	}
	h.clients = make(map[*Client]bool)
}

func stateData(s session.Snapshot) wstypes.SessionStateData {
	return s.View()
}
