package models

import (
	"time"
)

// User - учётная запись, которой владеет внешний сервис аутентификации.
// Архив только читает имя отправителя и отмечает last_seen_at.
type User struct {
	ID         string `gorm:"primaryKey;size:64"`
	Username   string `gorm:"uniqueIndex;not null"`
	AvatarURL  string
	LastSeenAt time.Time
	CreatedAt  time.Time
}
