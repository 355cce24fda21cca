package handlers

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/thereayou/voxus/internal/handlers/dto"
	"github.com/thereayou/voxus/internal/models"
	"github.com/thereayou/voxus/internal/presence"
	"github.com/thereayou/voxus/internal/room"
	"github.com/thereayou/voxus/internal/websocket"
)

// Broadcaster доставляет события. ToRoom/ToRoomExcept вызываются под
// блокировкой комнаты r.
type Broadcaster interface {
	ToRoom(r *room.Room, event websocket.EventType, payload interface{})
	ToRoomExcept(r *room.Room, excludedConnID string, event websocket.EventType, payload interface{})
	ToConnection(connID string, event websocket.EventType, payload interface{})
	ToAll(event websocket.EventType, payload interface{})
}

// MessageStore - постоянный архив сообщений чата
type MessageStore interface {
	AppendMessage(ctx context.Context, roomID, senderID, fallbackName, text string) (*models.Message, error)
}

type command func(client *websocket.Client, data json.RawMessage) error

// EventHandler маршрутизирует входящие события WebSocket и рассылает
// изменения состояния комнат.
type EventHandler struct {
	rooms    *room.Registry
	presence *presence.Manager
	out      Broadcaster
	store    MessageStore
	log      *slog.Logger
	validate *validator.Validate
	now      func() time.Time

	// Таймаут сохранения сообщения в архив; 0 - без таймаута
	persistTimeout time.Duration

	commands map[websocket.EventType]command
}

// NewEventHandler регистрирует себя как Notifier менеджера присутствия.
// store может быть nil: тогда сообщения живут только в памяти.
func NewEventHandler(rooms *room.Registry, pm *presence.Manager, out Broadcaster, store MessageStore, log *slog.Logger) *EventHandler {
	h := &EventHandler{
		rooms:    rooms,
		presence: pm,
		out:      out,
		store:    store,
		log:      log,
		validate: newValidator(),
		now:      time.Now,
	}

	h.commands = map[websocket.EventType]command{
		websocket.TypeJoin:           typed(h, h.handleJoin),
		websocket.TypeSendMessage:    typed(h, h.handleSendMessage),
		websocket.TypeTyping:         typed(h, h.handleTyping),
		websocket.TypeCreateRoom:     typed(h, h.handleCreateRoom),
		websocket.TypeSwitchRoom:     typed(h, h.handleSwitchRoom),
		websocket.TypeListRooms:      typed(h, h.handleListRooms),
		websocket.TypePollCreate:     typed(h, h.handlePollCreate),
		websocket.TypePollVote:       typed(h, h.handlePollVote),
		websocket.TypeGameStart:      typed(h, h.handleGameStart),
		websocket.TypeGameJoinPlayer: typed(h, h.handleGameJoin),
		websocket.TypeGameMove:       typed(h, h.handleGameMove),
		websocket.TypeWatchLoad:      typed(h, h.handleWatchLoad),
		websocket.TypeWatchPlay:      typed(h, h.handleWatchPlay),
		websocket.TypeWatchPause:     typed(h, h.handleWatchPause),
		websocket.TypeWatchSeek:      typed(h, h.handleWatchSeek),
	}

	pm.SetNotifier(h)
	return h
}

// SetPersistTimeout ограничивает ожидание архива для одного сообщения
func (h *EventHandler) SetPersistTimeout(d time.Duration) {
	h.persistTimeout = d
}

func typed[T any](h *EventHandler, fn func(*websocket.Client, T) error) command {
	return func(client *websocket.Client, data json.RawMessage) error {
		payload, err := decode[T](h.validate, data)
		if err != nil {
			return err
		}
		return fn(client, payload)
	}
}

// HandleMessage реализует websocket.ClientMessageHandler
func (h *EventHandler) HandleMessage(client *websocket.Client, msg *websocket.Message) error {
	cmd, ok := h.commands[msg.Type]
	if !ok {
		return websocket.ErrUnknownEvent
	}
	return cmd(client, msg.Data)
}

// HandleDisconnect освобождает присутствие соединения. Повторный вызов безопасен.
func (h *EventHandler) HandleDisconnect(client *websocket.Client) {
	if u, ok := h.presence.Leave(client.ID); ok {
		h.log.Info("User disconnected", "conn_id", client.ID, "user_id", u.ID, "room_id", u.RoomID)
	}
}

// current возвращает пользователя соединения или ErrNotJoined
func (h *EventHandler) current(client *websocket.Client) (presence.User, error) {
	u, ok := h.presence.Resolve(client.ID)
	if !ok {
		return presence.User{}, presence.ErrNotJoined
	}
	return u, nil
}

// inRoom выполняет fn под блокировкой текущей комнаты пользователя.
// Если соединение успело уйти из комнаты, действие отбрасывается.
func (h *EventHandler) inRoom(client *websocket.Client, fn func(u presence.User, r *room.Room)) error {
	u, err := h.current(client)
	if err != nil {
		return err
	}
	h.rooms.View(u.RoomID, func(r *room.Room) {
		if !r.HasMember(client.ID) {
			return
		}
		fn(u, r)
	})
	return nil
}

func (h *EventHandler) handleListRooms(client *websocket.Client, _ dto.ListRoomsPayload) error {
	h.out.ToConnection(client.ID, websocket.TypeRoomsList, h.rooms.List())
	return nil
}
