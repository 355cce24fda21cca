package dto

import (
	"time"

	"github.com/google/uuid"
)

// ArchivedMessageResponse - сообщение из постоянного архива
type ArchivedMessageResponse struct {
	ID         uuid.UUID `json:"id"`
	RoomID     string    `json:"room_id"`
	SenderID   string    `json:"sender_id"`
	SenderName string    `json:"sender_name"`
	Content    string    `json:"content"`
	CreatedAt  time.Time `json:"created_at"`
}

type ArchivePage struct {
	RoomID   string                    `json:"room_id"`
	Messages []ArchivedMessageResponse `json:"messages"`
	// NextBefore - курсор для следующей страницы (created_at самого старого сообщения)
	NextBefore *time.Time `json:"next_before,omitempty"`
}
