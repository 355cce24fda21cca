package chatlog

import (
	"time"

	"github.com/google/uuid"
)

const (
	DefaultCap   = 1000
	DefaultLimit = 50

	SystemUserID   = "system"
	SystemUsername = "System"
)

type Kind string

const (
	KindUser   Kind = "user"
	KindSystem Kind = "system"
)

type Message struct {
	ID        string    `json:"id"`
	RoomID    string    `json:"roomId"`
	UserID    string    `json:"userId"`
	Username  string    `json:"username"`
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
	Type      Kind      `json:"type"`
}

func NewUserMessage(roomID, userID, username, content string, at time.Time) Message {
	return Message{
		ID:        uuid.NewString(),
		RoomID:    roomID,
		UserID:    userID,
		Username:  username,
		Content:   content,
		Timestamp: at,
		Type:      KindUser,
	}
}

func NewSystemMessage(roomID, content string, at time.Time) Message {
	return Message{
		ID:        uuid.NewString(),
		RoomID:    roomID,
		UserID:    SystemUserID,
		Username:  SystemUsername,
		Content:   content,
		Timestamp: at,
		Type:      KindSystem,
	}
}

// Log хранит ограниченную историю комнаты. Не потокобезопасен:
// доступ сериализуется блокировкой комнаты.
type Log struct {
	cap     int
	entries []Message
}

func New(capacity int) *Log {
	if capacity <= 0 {
		capacity = DefaultCap
	}
	return &Log{cap: capacity}
}

// Append добавляет сообщение в конец и отрезает самые старые записи сверх лимита.
func (l *Log) Append(msg Message) {
	l.entries = append(l.entries, msg)
	if over := len(l.entries) - l.cap; over > 0 {
		kept := make([]Message, l.cap)
		copy(kept, l.entries[over:])
		l.entries = kept
	}
}

// Recent возвращает последние limit сообщений, старые первыми.
func (l *Log) Recent(limit int) []Message {
	if limit <= 0 {
		limit = DefaultLimit
	}
	start := len(l.entries) - limit
	if start < 0 {
		start = 0
	}
	out := make([]Message, len(l.entries)-start)
	copy(out, l.entries[start:])
	return out
}

func (l *Log) Len() int {
	return len(l.entries)
}

func (l *Log) Cap() int {
	return l.cap
}
