package handlers

import (
	"context"
	"errors"
	"strings"

	"github.com/thereayou/voxus/internal/chatlog"
	"github.com/thereayou/voxus/internal/handlers/dto"
	"github.com/thereayou/voxus/internal/presence"
	"github.com/thereayou/voxus/internal/room"
	"github.com/thereayou/voxus/internal/websocket"
)

func (h *EventHandler) handleJoin(client *websocket.Client, p dto.JoinPayload) error {
	res, err := h.presence.Join(client.ID, client.UserID, p.DisplayName, strings.TrimSpace(p.RoomID))
	if err != nil {
		if errors.Is(err, presence.ErrInvalidUser) {
			return newValidationError("displayName", "required")
		}
		return err
	}
	h.log.Info("User joined", "conn_id", client.ID, "user_id", res.User.ID, "room_id", res.User.RoomID)
	return nil
}

func (h *EventHandler) handleSwitchRoom(client *websocket.Client, p dto.SwitchRoomPayload) error {
	res, err := h.presence.SwitchRoom(client.ID, strings.TrimSpace(p.RoomID))
	if err != nil {
		return err
	}
	if res.Moved {
		h.log.Info("User switched room", "conn_id", client.ID, "user_id", res.User.ID, "from", res.From.ID, "room_id", res.To.ID)
	}
	return nil
}

// handleSendMessage сохраняет сообщение в архив (вне блокировки комнаты),
// затем добавляет его в журнал и рассылает. Ошибка архива не доходит до
// клиента: сообщение просто не рассылается.
func (h *EventHandler) handleSendMessage(client *websocket.Client, p dto.SendMessagePayload) error {
	content := strings.TrimSpace(p.Content)
	if content == "" {
		return newValidationError("content", "required")
	}
	u, err := h.current(client)
	if err != nil {
		return err
	}
	if p.RoomID != "" && p.RoomID != u.RoomID {
		h.log.Debug("Message for foreign room dropped", "conn_id", client.ID, "room_id", p.RoomID)
		return nil
	}

	msg := chatlog.NewUserMessage(u.RoomID, u.ID, u.Username, content, h.now())
	if h.store != nil {
		ctx := context.Background()
		if h.persistTimeout > 0 {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(ctx, h.persistTimeout)
			defer cancel()
		}
		stored, err := h.store.AppendMessage(ctx, u.RoomID, u.ID, u.Username, content)
		if err != nil {
			h.log.Error("Failed to persist message", "conn_id", client.ID, "user_id", u.ID, "room_id", u.RoomID, "error", err)
			return nil
		}
		msg.ID = stored.ID.String()
		msg.Timestamp = stored.CreatedAt
		if stored.SenderName != "" {
			msg.Username = stored.SenderName
		}
	}

	h.rooms.View(u.RoomID, func(r *room.Room) {
		r.Log.Append(msg)
		h.out.ToRoom(r, websocket.TypeMessage, msg)
	})
	return nil
}

func (h *EventHandler) handleTyping(client *websocket.Client, p dto.TypingPayload) error {
	return h.inRoom(client, func(u presence.User, r *room.Room) {
		h.out.ToRoomExcept(r, client.ID, websocket.TypeUserTyping, dto.TypingNotice{
			UserID:   u.ID,
			Username: u.Username,
			IsTyping: p.IsTyping,
		})
	})
}

// handleCreateRoom создаёт комнату с id из имени. Коллизия - не ошибка,
// а результат success=false.
func (h *EventHandler) handleCreateRoom(client *websocket.Client, p dto.CreateRoomPayload) error {
	name := strings.TrimSpace(p.RoomName)
	id := room.Slug(name)

	r, err := h.rooms.Create(id, name)
	switch {
	case err == nil:
		summary := h.summary(r.ID)
		h.log.Info("Room created", "conn_id", client.ID, "room_id", r.ID)
		h.out.ToAll(websocket.TypeRoomCreated, summary)
		h.out.ToConnection(client.ID, websocket.TypeRoomCreateResult, dto.RoomCreateResult{Success: true, Room: &summary})
	case errors.Is(err, room.ErrRoomExists):
		summary := h.summary(r.ID)
		h.out.ToConnection(client.ID, websocket.TypeRoomCreateResult, dto.RoomCreateResult{Room: &summary, Error: err.Error()})
	default:
		h.out.ToConnection(client.ID, websocket.TypeRoomCreateResult, dto.RoomCreateResult{Error: err.Error()})
	}
	return nil
}

func (h *EventHandler) summary(roomID string) room.Summary {
	var s room.Summary
	h.rooms.View(roomID, func(r *room.Room) {
		s = r.Summary()
	})
	return s
}
