package handlers

import (
	"github.com/samber/lo"
	"github.com/thereayou/voxus/internal/chatlog"
	"github.com/thereayou/voxus/internal/handlers/dto"
	"github.com/thereayou/voxus/internal/presence"
	"github.com/thereayou/voxus/internal/room"
	"github.com/thereayou/voxus/internal/websocket"
)

// Методы presence.Notifier вызываются под блокировкой комнат(ы).

func (h *EventHandler) UserJoined(e presence.JoinEvent) {
	h.out.ToConnection(e.User.ConnID, websocket.TypeJoined, dto.JoinedResponse{
		User:           e.User,
		Room:           e.Room.Summary(),
		RecentMessages: nonNil(e.Recent),
	})
	h.out.ToRoomExcept(e.Room, e.User.ConnID, websocket.TypeUserJoined, dto.PresenceNotice{User: e.User, Message: e.Notice})
	h.out.ToRoom(e.Room, websocket.TypeUsersUpdate, h.usersUpdate(e.Room))
	h.sendSnapshots(e.User.ConnID, e.Room)
}

func (h *EventHandler) UserLeft(e presence.LeaveEvent) {
	h.out.ToRoom(e.Room, websocket.TypeUserLeft, dto.PresenceNotice{User: e.User, Message: e.Notice})
	h.out.ToRoom(e.Room, websocket.TypeUsersUpdate, h.usersUpdate(e.Room))
}

func (h *EventHandler) UserSwitched(e presence.SwitchEvent) {
	if e.Moved {
		h.out.ToRoom(e.From, websocket.TypeMessage, e.LeftNotice)
		h.out.ToRoom(e.From, websocket.TypeUsersUpdate, h.usersUpdate(e.From))
		h.out.ToRoom(e.To, websocket.TypeMessage, e.JoinedNotice)
		h.out.ToRoom(e.To, websocket.TypeUsersUpdate, h.usersUpdate(e.To))
	}
	h.out.ToConnection(e.User.ConnID, websocket.TypeRoomSwitched, dto.RoomSwitchedResponse{
		Room:           e.To.Summary(),
		RecentMessages: nonNil(e.Recent),
	})
	h.sendSnapshots(e.User.ConnID, e.To)
}

func (h *EventHandler) usersUpdate(r *room.Room) dto.UsersUpdate {
	return dto.UsersUpdate{
		RoomID: r.ID,
		Users: lo.Map(h.presence.Members(r), func(u presence.User, _ int) dto.MemberInfo {
			return dto.MemberInfo{ID: u.ID, Username: u.Username, JoinedAt: r.JoinedAt(u.ConnID).UnixMilli()}
		}),
	}
}

// sendSnapshots догоняет опоздавшего: сеанс просмотра, опросы и партия.
func (h *EventHandler) sendSnapshots(connID string, r *room.Room) {
	h.out.ToConnection(connID, websocket.TypeWatchState, r.Watch.Snapshot())
	if polls := r.Polls.List(); len(polls) > 0 {
		h.out.ToConnection(connID, websocket.TypePollList, polls)
	}
	if g, ok := r.Game.Current(); ok {
		h.out.ToConnection(connID, websocket.TypeGameState, g)
	}
}

func nonNil(msgs []chatlog.Message) []chatlog.Message {
	if msgs == nil {
		return []chatlog.Message{}
	}
	return msgs
}
