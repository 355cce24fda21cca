package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Message struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey"`
	RoomID     string    `gorm:"size:64;not null;index:idx_messages_room_created,priority:1"`
	SenderID   string    `gorm:"size:64;not null"`
	SenderName string    `gorm:"not null"`
	Content    string    `gorm:"not null"`
	CreatedAt  time.Time `gorm:"index:idx_messages_room_created,priority:2"`
}

// BeforeCreate назначает id на стороне приложения, чтобы схема
// одинаково работала в postgres и sqlite.
func (m *Message) BeforeCreate(tx *gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	return nil
}
