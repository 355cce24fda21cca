package handlers

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/thereayou/voxus/internal/middleware"
	ws "github.com/thereayou/voxus/internal/websocket"
)

// ActivityRecorder отмечает активность зарегистрированных пользователей
type ActivityRecorder interface {
	UpdateLastSeen(ctx context.Context, id string) error
}

// WebSocketHandler управляет WebSocket соединениями
type WebSocketHandler struct {
	hub        *ws.Hub
	events     ws.ClientMessageHandler
	activity   ActivityRecorder
	sendBuffer int
	log        *slog.Logger
	upgrader   websocket.Upgrader
}

// NewWebSocketHandler создает новый WebSocket handler. activity может быть nil.
func NewWebSocketHandler(hub *ws.Hub, events ws.ClientMessageHandler, activity ActivityRecorder, sendBuffer int, log *slog.Logger) *WebSocketHandler {
	return &WebSocketHandler{
		hub:        hub,
		events:     events,
		activity:   activity,
		sendBuffer: sendBuffer,
		log:        log,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
		},
	}
}

// HandleWebSocket обрабатывает WebSocket соединения. Идентичность берётся
// из токена (если middleware её установил), иначе это id соединения.
func (h *WebSocketHandler) HandleWebSocket(c *gin.Context) {
	userID := middleware.UserID(c)

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.log.Warn("WebSocket upgrade failed", "error", err)
		return
	}

	client := ws.NewClient(h.hub, conn, userID, h.sendBuffer)
	h.hub.Register(client)
	h.log.Info("Client connected", "conn_id", client.ID, "user_id", client.UserID)

	if userID != "" && h.activity != nil {
		if err := h.activity.UpdateLastSeen(c.Request.Context(), userID); err != nil {
			h.log.Warn("Failed to update last seen", "user_id", userID, "error", err)
		}
	}

	go client.WritePump()
	go client.ReadPump(h.events)
}
