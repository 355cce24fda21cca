package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/samber/lo"
	"github.com/thereayou/voxus/internal/database"
	"github.com/thereayou/voxus/internal/handlers/dto"
	"github.com/thereayou/voxus/internal/models"
)

// ArchiveReader читает постоянный архив сообщений
type ArchiveReader interface {
	GetRoomMessages(ctx context.Context, roomID string, limit int, before *time.Time) ([]models.Message, error)
}

type HTTPMessageHandler struct {
	archive ArchiveReader
}

func NewHTTPMessageHandler(archive ArchiveReader) *HTTPMessageHandler {
	return &HTTPMessageHandler{archive: archive}
}

// GetArchive отдаёт страницу архива комнаты: ?limit=1..100&before=<RFC3339>
func (h *HTTPMessageHandler) GetArchive(c *gin.Context) {
	if h.archive == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "archive is disabled"})
		return
	}
	roomID := c.Param("id")

	limit, ok := parseLimit(c, database.DefaultPageSize)
	if !ok {
		return
	}

	var before *time.Time
	if b := c.Query("before"); b != "" {
		t, err := time.Parse(time.RFC3339Nano, b)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "before must be an RFC3339 timestamp"})
			return
		}
		t = t.UTC()
		before = &t
	}

	messages, err := h.archive.GetRoomMessages(c.Request.Context(), roomID, limit, before)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to get messages"})
		return
	}

	page := dto.ArchivePage{
		RoomID: roomID,
		Messages: lo.Map(messages, func(m models.Message, _ int) dto.ArchivedMessageResponse {
			return formatMessageResponse(m)
		}),
	}
	if len(messages) == limit {
		next := messages[0].CreatedAt
		page.NextBefore = &next
	}

	c.JSON(http.StatusOK, page)
}

// formatMessageResponse форматирует ответ для сообщения
func formatMessageResponse(msg models.Message) dto.ArchivedMessageResponse {
	return dto.ArchivedMessageResponse{
		ID:         msg.ID,
		RoomID:     msg.RoomID,
		SenderID:   msg.SenderID,
		SenderName: msg.SenderName,
		Content:    msg.Content,
		CreatedAt:  msg.CreatedAt,
	}
}
