package dto

import (
	"github.com/thereayou/voxus/internal/chatlog"
	"github.com/thereayou/voxus/internal/presence"
	"github.com/thereayou/voxus/internal/room"
)

// Входящие события. Теги validate проверяются до вызова обработчика.

type JoinPayload struct {
	DisplayName string `json:"displayName" validate:"required"`
	RoomID      string `json:"roomId,omitempty" validate:"omitempty,max=64"`
}

type SendMessagePayload struct {
	Content string `json:"content" validate:"required,max=4000"`
	RoomID  string `json:"roomId,omitempty"`
}

type TypingPayload struct {
	IsTyping bool `json:"isTyping"`
}

type CreateRoomPayload struct {
	RoomName string `json:"roomName" validate:"required"`
}

type SwitchRoomPayload struct {
	RoomID string `json:"roomId" validate:"required,max=64"`
}

type PollCreatePayload struct {
	Question string   `json:"question" validate:"required"`
	Options  []string `json:"options" validate:"required,min=2"`
}

type PollVotePayload struct {
	PollID      string `json:"pollId" validate:"required"`
	OptionIndex *int   `json:"optionIndex" validate:"required"`
}

type GameStartPayload struct{}

type GameJoinPayload struct{}

type GameMovePayload struct {
	Index *int `json:"index" validate:"required"`
}

type WatchLoadPayload struct {
	Provider string  `json:"provider,omitempty" validate:"max=32"`
	MediaID  string  `json:"mediaId" validate:"max=256"`
	Position float64 `json:"position"`
}

type WatchPlayPayload struct{}

type WatchPausePayload struct {
	Position *float64 `json:"position,omitempty"`
}

type WatchSeekPayload struct {
	Position *float64 `json:"position" validate:"required"`
}

type ListRoomsPayload struct{}

// Исходящие события.

type JoinedResponse struct {
	User           presence.User     `json:"user"`
	Room           room.Summary      `json:"room"`
	RecentMessages []chatlog.Message `json:"recentMessages"`
}

type RoomSwitchedResponse struct {
	Room           room.Summary      `json:"room"`
	RecentMessages []chatlog.Message `json:"recentMessages"`
}

type PresenceNotice struct {
	User    presence.User   `json:"user"`
	Message chatlog.Message `json:"message"`
}

type MemberInfo struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	JoinedAt int64  `json:"joinedAt"`
}

type UsersUpdate struct {
	RoomID string       `json:"roomId"`
	Users  []MemberInfo `json:"users"`
}

type TypingNotice struct {
	UserID   string `json:"userId"`
	Username string `json:"username"`
	IsTyping bool   `json:"isTyping"`
}

type RoomCreateResult struct {
	Success bool          `json:"success"`
	Room    *room.Summary `json:"room,omitempty"`
	Error   string        `json:"error,omitempty"`
}
