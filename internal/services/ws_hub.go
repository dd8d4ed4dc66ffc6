package services

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"date-journal-backend/internal/events"
	"date-journal-backend/internal/models"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
)

const wsWriteTimeout = 10 * time.Second

// WSMessage represents a WebSocket message
type WSMessage struct {
	Type       string            `json:"type"`
	Timestamp  int64             `json:"timestamp,omitempty"`
	Collection events.Collection `json:"collection,omitempty"`
	Kind       events.Kind       `json:"kind,omitempty"`
	DocumentID string            `json:"document_id,omitempty"`
	Online     *bool             `json:"online,omitempty"`
	Data       interface{}       `json:"data,omitempty"`
}

// wsConn serializes writes, which gorilla/websocket requires
type wsConn struct {
	mu   sync.Mutex
	conn *websocket.Conn
}

func (c *wsConn) write(data []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.conn.SetWriteDeadline(time.Now().Add(wsWriteTimeout)); err != nil {
		return err
	}
	return c.conn.WriteMessage(websocket.TextMessage, data)
}

// WSHub manages WebSocket connections, one per identity
type WSHub struct {
	mu          sync.RWMutex
	connections map[models.Identity]*wsConn
}

// NewWSHub creates a new WebSocket hub
func NewWSHub() *WSHub {
	return &WSHub{
		connections: make(map[models.Identity]*wsConn),
	}
}

// Register registers a new WebSocket connection for an identity, replacing
// any previous one
func (h *WSHub) Register(id models.Identity, conn *websocket.Conn) {
	h.mu.Lock()
	if existing, ok := h.connections[id]; ok {
		existing.conn.Close()
	}
	h.connections[id] = &wsConn{conn: conn}
	h.mu.Unlock()

	log.Info().Str("identity", id.String()).Msg("WebSocket connection registered")
	h.notifyPartnerStatus(id, true)
}

// Unregister removes the connection of an identity if it is still conn
func (h *WSHub) Unregister(id models.Identity, conn *websocket.Conn) {
	h.mu.Lock()
	current, ok := h.connections[id]
	if !ok || current.conn != conn {
		h.mu.Unlock()
		return
	}
	current.conn.Close()
	delete(h.connections, id)
	h.mu.Unlock()

	log.Info().Str("identity", id.String()).Msg("WebSocket connection unregistered")
	h.notifyPartnerStatus(id, false)
}

// IsOnline checks if an identity is connected
func (h *WSHub) IsOnline(id models.Identity) bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	_, ok := h.connections[id]
	return ok
}

// SendTo sends a message to one identity
func (h *WSHub) SendTo(id models.Identity, message WSMessage) error {
	h.mu.RLock()
	c, ok := h.connections[id]
	h.mu.RUnlock()

	if !ok {
		return fmt.Errorf("%s is not connected", id)
	}

	data, err := json.Marshal(message)
	if err != nil {
		return fmt.Errorf("failed to marshal message: %w", err)
	}

	if err := c.write(data); err != nil {
		h.Unregister(id, c.conn)
		return fmt.Errorf("failed to send message: %w", err)
	}
	return nil
}

// Broadcast sends a message to every connected identity
func (h *WSHub) Broadcast(message WSMessage) {
	for _, id := range models.Identities {
		if !h.IsOnline(id) {
			continue
		}
		if err := h.SendTo(id, message); err != nil {
			log.Error().Err(err).Str("identity", id.String()).Msg("Failed to broadcast message")
		}
	}
}

// HandleChange forwards a committed change to connected clients
func (h *WSHub) HandleChange(_ context.Context, change events.Change) {
	msg := WSMessage{
		Type:       "change",
		Timestamp:  change.At.UnixMilli(),
		Collection: change.Collection,
		Kind:       change.Kind,
		DocumentID: change.DocumentID,
		Data:       change.After,
	}
	h.Broadcast(msg)
}

// notifyPartnerStatus tells the partner whether id is online
func (h *WSHub) notifyPartnerStatus(id models.Identity, online bool) {
	partner := id.Other()
	if !h.IsOnline(partner) {
		return
	}

	message := WSMessage{
		Type:   "partner_status",
		Online: &online,
	}
	if err := h.SendTo(partner, message); err != nil {
		log.Error().
			Err(err).
			Str("identity", partner.String()).
			Msg("Failed to notify partner status")
	}
}

// Close disconnects every client
func (h *WSHub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for id, c := range h.connections {
		c.conn.Close()
		delete(h.connections, id)
	}
}
