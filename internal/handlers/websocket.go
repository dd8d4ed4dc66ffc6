package handlers

import (
	"net/http"

	"date-journal-backend/internal/middleware"
	"date-journal-backend/internal/services"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// WebSocketHandler handles WebSocket connections
type WebSocketHandler struct {
	hub *services.WSHub
}

// NewWebSocketHandler creates a new WebSocket handler
func NewWebSocketHandler(hub *services.WSHub) *WebSocketHandler {
	return &WebSocketHandler{hub: hub}
}

// HandleWebSocket handles GET /ws?as={identity}. The connection only receives;
// inbound messages are read to detect the close.
func (h *WebSocketHandler) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	id := middleware.GetIdentity(r.Context())

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Error().Err(err).Msg("Failed to upgrade WebSocket connection")
		return
	}

	h.hub.Register(id, conn)
	defer h.hub.Unregister(id, conn)

	online := h.hub.IsOnline(id.Other())
	if err := h.hub.SendTo(id, services.WSMessage{Type: "partner_status", Online: &online}); err != nil {
		log.Error().
			Err(err).
			Str("identity", id.String()).
			Msg("Failed to send partner_status message")
		return
	}

	log.Info().Str("identity", id.String()).Msg("WebSocket connection established")

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Error().Err(err).Str("identity", id.String()).Msg("WebSocket error")
			}
			return
		}
	}
}
