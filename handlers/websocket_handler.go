package handlers

import (
	"log/slog"
	"net/http"

	"github.com/Mayonesio/disckatus-tournaments-sub000/realtime"
	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// TODO: restrict Origin to the club frontend once its domain is fixed.
	CheckOrigin: func(r *http.Request) bool { return true },
}

type WebSocketHandler struct {
	hub *realtime.Hub
}

func NewWebSocketHandler(hub *realtime.Hub) *WebSocketHandler {
	return &WebSocketHandler{hub: hub}
}

// ServeWs subscribes the client to the registration event stream of one
// tournament. GET /ws/tournaments/{tournamentID}
func (h *WebSocketHandler) ServeWs(w http.ResponseWriter, r *http.Request) {
	tournamentID := chi.URLParam(r, "tournamentID")
	if tournamentID == "" {
		http.Error(w, "missing tournamentID", http.StatusBadRequest)
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade already wrote the HTTP error.
		slog.Warn("websocket upgrade failed", slog.Any("error", err))
		return
	}

	h.hub.Subscribe(conn, "tournament_"+tournamentID)
}
