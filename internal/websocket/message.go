package websocket

import (
	"encoding/json"
	"time"
)

// EventType - закрытый набор типов событий протокола.
type EventType string

const (
	// Системные типы
	TypePing  EventType = "ping"
	TypePong  EventType = "pong"
	TypeError EventType = "error"

	// Входящие: присутствие и чат
	TypeJoin        EventType = "join"
	TypeSendMessage EventType = "sendMessage"
	TypeTyping      EventType = "typing"
	TypeCreateRoom  EventType = "createRoom"
	TypeSwitchRoom  EventType = "switchRoom"
	TypeListRooms   EventType = "listRooms"

	// Входящие: мини-приложения
	TypePollCreate     EventType = "poll.create"
	TypePollVote       EventType = "poll.vote"
	TypeGameStart      EventType = "game.start"
	TypeGameJoinPlayer EventType = "game.joinAsPlayer"
	TypeGameMove       EventType = "game.move"
	TypeWatchLoad      EventType = "watch.load"
	TypeWatchPlay      EventType = "watch.play"
	TypeWatchPause     EventType = "watch.pause"
	TypeWatchSeek      EventType = "watch.seek"

	// Исходящие
	TypeJoined           EventType = "joined"
	TypeUserJoined       EventType = "userJoined"
	TypeUserLeft         EventType = "userLeft"
	TypeUsersUpdate      EventType = "usersUpdate"
	TypeMessage          EventType = "message"
	TypeUserTyping       EventType = "userTyping"
	TypeRoomCreated      EventType = "roomCreated"
	TypeRoomCreateResult EventType = "roomCreateResult"
	TypeRoomSwitched     EventType = "roomSwitched"
	TypeRoomsList        EventType = "roomsList"
	TypePollCreated      EventType = "poll.created"
	TypePollUpdated      EventType = "poll.updated"
	TypePollList         EventType = "poll.list"
	TypeGameState        EventType = "game.state"
	TypeGameOver         EventType = "game.over"
	TypeWatchState       EventType = "watch.state"
)

var inbound = map[EventType]struct{}{
	TypePing:           {},
	TypePong:           {},
	TypeJoin:           {},
	TypeSendMessage:    {},
	TypeTyping:         {},
	TypeCreateRoom:     {},
	TypeSwitchRoom:     {},
	TypeListRooms:      {},
	TypePollCreate:     {},
	TypePollVote:       {},
	TypeGameStart:      {},
	TypeGameJoinPlayer: {},
	TypeGameMove:       {},
	TypeWatchLoad:      {},
	TypeWatchPlay:      {},
	TypeWatchPause:     {},
	TypeWatchSeek:      {},
}

// IsInbound сообщает, может ли клиент прислать событие такого типа.
func (t EventType) IsInbound() bool {
	_, ok := inbound[t]
	return ok
}

type Message struct {
	Type      EventType       `json:"type"`
	RoomID    string          `json:"room_id,omitempty"`
	UserID    string          `json:"user_id,omitempty"`
	Data      json.RawMessage `json:"data,omitempty"`
	Timestamp time.Time       `json:"timestamp"`
}

// Encode собирает конверт с полезной нагрузкой.
func Encode(msgType EventType, roomID string, payload interface{}, at time.Time) ([]byte, error) {
	msg := Message{
		Type:      msgType,
		RoomID:    roomID,
		Timestamp: at,
	}
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return nil, err
		}
		msg.Data = data
	}
	return json.Marshal(msg)
}
