package websockets

import (
	"context"
	"log/slog"
	"sync"

	"github.com/gorilla/websocket"
)

// Hub is an in-process Publisher over gorilla connections, used by the local server.
// It also records subscriptions in the backing ConnectionManager so both
// deployments see the same connection lifecycle.
type Hub struct {
	mu      sync.RWMutex
	clients map[string]*hubClient
	store   ConnectionManager
}

type hubClient struct {
	campaignID string
	writeMu    sync.Mutex
	conn       *websocket.Conn
}

// NewHub creates an empty Hub. store may be nil.
func NewHub(store ConnectionManager) *Hub {
	return &Hub{clients: make(map[string]*hubClient), store: store}
}

// Register subscribes conn to campaignID under connectionID.
func (h *Hub) Register(ctx context.Context, connectionID, campaignID string, conn *websocket.Conn) error {
	h.mu.Lock()
	h.clients[connectionID] = &hubClient{campaignID: campaignID, conn: conn}
	h.mu.Unlock()
	if h.store != nil {
		if err := h.store.AddConnection(ctx, connectionID, campaignID); err != nil {
			h.mu.Lock()
			delete(h.clients, connectionID)
			h.mu.Unlock()
			return err
		}
	}
	return nil
}

// Unregister drops connectionID.
func (h *Hub) Unregister(ctx context.Context, connectionID string) {
	h.mu.Lock()
	delete(h.clients, connectionID)
	h.mu.Unlock()
	if h.store != nil {
		if err := h.store.RemoveConnection(ctx, connectionID); err != nil {
			slog.Error("failed to delete local connection ID", "error", err)
		}
	}
}

// Publish writes message to every local client subscribed to campaignID.
func (h *Hub) Publish(ctx context.Context, campaignID string, message Message) error {
	h.mu.RLock()
	targets := make(map[string]*hubClient)
	for id, c := range h.clients {
		if c.campaignID == campaignID {
			targets[id] = c
		}
	}
	h.mu.RUnlock()

	for id, c := range targets {
		c.writeMu.Lock()
		err := c.conn.WriteJSON(message)
		c.writeMu.Unlock()
		if err != nil {
			slog.Info("dropping unwritable connection", "connectionId", id, "error", err)
			h.Unregister(ctx, id)
		}
	}
	return nil
}
