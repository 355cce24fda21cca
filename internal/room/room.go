package room

import (
	"sync"
	"time"

	"github.com/samber/lo"
	"github.com/thereayou/voxus/internal/chatlog"
	"github.com/thereayou/voxus/internal/poll"
	"github.com/thereayou/voxus/internal/tictactoe"
	"github.com/thereayou/voxus/internal/watch"
)

// Room - канал комнаты со всем её состоянием. Поля и методы, кроме
// ID/Name/CreatedAt, доступны только внутри Registry.Do/DoPair,
// то есть под блокировкой комнаты.
type Room struct {
	mu sync.Mutex

	ID        string
	Name      string
	CreatedAt time.Time

	members map[string]time.Time // connID -> время входа
	order   []string

	Log   *chatlog.Log
	Polls *poll.Set
	Game  *tictactoe.Engine
	Watch *watch.Session
}

type Summary struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	CreatedAt   time.Time `json:"created"`
	MemberCount int       `json:"userCount"`
}

func newRoom(id, name string, historyCap int, now time.Time) *Room {
	return &Room{
		ID:        id,
		Name:      name,
		CreatedAt: now,
		members:   make(map[string]time.Time),
		Log:       chatlog.New(historyCap),
		Polls:     poll.NewSet(id),
		Game:      tictactoe.NewEngine(id),
		Watch:     watch.NewSession(id, now),
	}
}

// AddMember идемпотентен: повторное добавление не меняет порядок.
func (r *Room) AddMember(connID string, at time.Time) {
	if _, ok := r.members[connID]; ok {
		return
	}
	r.members[connID] = at
	r.order = append(r.order, connID)
}

// RemoveMember возвращает false, если соединения не было в комнате.
func (r *Room) RemoveMember(connID string) bool {
	if _, ok := r.members[connID]; !ok {
		return false
	}
	delete(r.members, connID)
	r.order = lo.Without(r.order, connID)
	return true
}

func (r *Room) HasMember(connID string) bool {
	_, ok := r.members[connID]
	return ok
}

// Members - соединения в порядке входа.
func (r *Room) Members() []string {
	return append([]string(nil), r.order...)
}

func (r *Room) JoinedAt(connID string) time.Time {
	return r.members[connID]
}

func (r *Room) MemberCount() int {
	return len(r.members)
}

func (r *Room) Summary() Summary {
	return Summary{
		ID:          r.ID,
		Name:        r.Name,
		CreatedAt:   r.CreatedAt,
		MemberCount: len(r.members),
	}
}
