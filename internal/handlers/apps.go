package handlers

import (
	"github.com/thereayou/voxus/internal/handlers/dto"
	"github.com/thereayou/voxus/internal/presence"
	"github.com/thereayou/voxus/internal/room"
	"github.com/thereayou/voxus/internal/websocket"
)

// Мини-приложения комнаты: опросы, крестики-нолики, совместный просмотр.
// Все мутации в памяти, под блокировкой комнаты.

func (h *EventHandler) handlePollCreate(client *websocket.Client, p dto.PollCreatePayload) error {
	var createErr error
	err := h.inRoom(client, func(u presence.User, r *room.Room) {
		created, err := r.Polls.Create(p.Question, p.Options, h.now())
		if err != nil {
			createErr = err
			return
		}
		h.log.Debug("Poll created", "room_id", r.ID, "user_id", u.ID, "poll_id", created.ID)
		h.out.ToRoom(r, websocket.TypePollCreated, created)
	})
	if err != nil {
		return err
	}
	return createErr
}

func (h *EventHandler) handlePollVote(client *websocket.Client, p dto.PollVotePayload) error {
	return h.inRoom(client, func(u presence.User, r *room.Room) {
		updated, ok := r.Polls.Vote(p.PollID, *p.OptionIndex)
		if !ok {
			h.log.Debug("Vote ignored", "room_id", r.ID, "user_id", u.ID, "poll_id", p.PollID)
			return
		}
		h.out.ToRoom(r, websocket.TypePollUpdated, updated)
	})
}

func (h *EventHandler) handleGameStart(client *websocket.Client, _ dto.GameStartPayload) error {
	return h.inRoom(client, func(u presence.User, r *room.Room) {
		g := r.Game.Start()
		h.log.Debug("Game started", "room_id", r.ID, "user_id", u.ID, "game_id", g.ID)
		h.out.ToRoom(r, websocket.TypeGameState, g)
	})
}

func (h *EventHandler) handleGameJoin(client *websocket.Client, _ dto.GameJoinPayload) error {
	return h.inRoom(client, func(u presence.User, r *room.Room) {
		g, changed, err := r.Game.JoinAsPlayer(u.ID)
		if err != nil || !changed {
			return
		}
		h.out.ToRoom(r, websocket.TypeGameState, g)
	})
}

func (h *EventHandler) handleGameMove(client *websocket.Client, p dto.GameMovePayload) error {
	return h.inRoom(client, func(u presence.User, r *room.Room) {
		outcome, err := r.Game.Move(u.ID, *p.Index)
		if err != nil {
			h.log.Debug("Move rejected", "room_id", r.ID, "user_id", u.ID, "error", err)
			return
		}
		if outcome.Over {
			h.out.ToRoom(r, websocket.TypeGameOver, outcome)
			return
		}
		h.out.ToRoom(r, websocket.TypeGameState, outcome.Game)
	})
}

func (h *EventHandler) handleWatchLoad(client *websocket.Client, p dto.WatchLoadPayload) error {
	return h.inRoom(client, func(_ presence.User, r *room.Room) {
		h.out.ToRoom(r, websocket.TypeWatchState, r.Watch.Load(p.Provider, p.MediaID, p.Position, h.now()))
	})
}

func (h *EventHandler) handleWatchPlay(client *websocket.Client, _ dto.WatchPlayPayload) error {
	return h.inRoom(client, func(_ presence.User, r *room.Room) {
		h.out.ToRoom(r, websocket.TypeWatchState, r.Watch.Play(h.now()))
	})
}

func (h *EventHandler) handleWatchPause(client *websocket.Client, p dto.WatchPausePayload) error {
	return h.inRoom(client, func(_ presence.User, r *room.Room) {
		h.out.ToRoom(r, websocket.TypeWatchState, r.Watch.Pause(p.Position, h.now()))
	})
}

func (h *EventHandler) handleWatchSeek(client *websocket.Client, p dto.WatchSeekPayload) error {
	return h.inRoom(client, func(_ presence.User, r *room.Room) {
		h.out.ToRoom(r, websocket.TypeWatchState, r.Watch.Seek(*p.Position, h.now()))
	})
}
