package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/thereayou/voxus/internal/chatlog"
	"github.com/thereayou/voxus/internal/room"
)

// Counter - источник счетчика для health
type Counter interface {
	Count() int
}

// RoomHandler - снимки состояния комнат только для чтения
type RoomHandler struct {
	rooms       *room.Registry
	connections Counter
	users       Counter
}

func NewRoomHandler(rooms *room.Registry, connections, users Counter) *RoomHandler {
	return &RoomHandler{rooms: rooms, connections: connections, users: users}
}

// Health сообщает о живости процесса и числе подключений
func (h *RoomHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":      "ok",
		"timestamp":   time.Now().UTC(),
		"connections": h.connections.Count(),
		"users":       h.users.Count(),
	})
}

// ListRooms возвращает сводки всех комнат массивом
func (h *RoomHandler) ListRooms(c *gin.Context) {
	c.JSON(http.StatusOK, h.rooms.List())
}

// GetRecentMessages возвращает последние сообщения журнала комнаты.
// limit ограничен емкостью журнала. Неизвестная комната не создаётся
// и отдаёт пустой список.
func (h *RoomHandler) GetRecentMessages(c *gin.Context) {
	limit := chatlog.DefaultLimit
	if l := c.Query("limit"); l != "" {
		parsed, err := strconv.Atoi(l)
		if err != nil || parsed <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "limit must be a positive integer"})
			return
		}
		limit = parsed
	}

	var messages []chatlog.Message
	h.rooms.View(c.Param("id"), func(r *room.Room) {
		messages = r.Log.Recent(min(limit, r.Log.Cap()))
	})

	c.JSON(http.StatusOK, gin.H{"messages": nonNil(messages)})
}

// parseLimit читает ?limit= в диапазоне 1..100
func parseLimit(c *gin.Context, def int) (int, bool) {
	l := c.Query("limit")
	if l == "" {
		return def, true
	}
	parsed, err := strconv.Atoi(l)
	if err != nil || parsed <= 0 || parsed > 100 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "limit must be between 1 and 100"})
		return 0, false
	}
	return parsed, true
}
