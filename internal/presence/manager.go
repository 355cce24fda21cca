package presence

import (
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/samber/lo"
	"github.com/thereayou/voxus/internal/chatlog"
	"github.com/thereayou/voxus/internal/room"
)

const MaxDisplayNameLength = 50

var (
	ErrInvalidUser = errors.New("display name is required")
	ErrNotJoined   = errors.New("connection has not joined a room")
)

type User struct {
	ID       string    `json:"id"`
	Username string    `json:"username"`
	RoomID   string    `json:"currentRoom"`
	ConnID   string    `json:"socketId"`
	JoinedAt time.Time `json:"joinedAt"`
}

// Событийные структуры передаются Notifier-у под блокировкой комнат(ы),
// поэтому порядок рассылки совпадает с порядком мутаций.
type JoinEvent struct {
	Room   *room.Room
	User   User
	Notice chatlog.Message
	Recent []chatlog.Message
}

type LeaveEvent struct {
	Room   *room.Room
	User   User
	Notice chatlog.Message
}

type SwitchEvent struct {
	From, To     *room.Room
	User         User
	LeftNotice   chatlog.Message
	JoinedNotice chatlog.Message
	Recent       []chatlog.Message
	// Moved=false: переход в ту же комнату, членство не менялось.
	Moved bool
}

type Notifier interface {
	UserJoined(JoinEvent)
	UserLeft(LeaveEvent)
	UserSwitched(SwitchEvent)
}

type nopNotifier struct{}

func (nopNotifier) UserJoined(JoinEvent)     {}
func (nopNotifier) UserLeft(LeaveEvent)      {}
func (nopNotifier) UserSwitched(SwitchEvent) {}

type JoinResult struct {
	User   User
	Room   room.Summary
	Recent []chatlog.Message
}

type SwitchResult struct {
	User   User
	From   room.Summary
	To     room.Summary
	Recent []chatlog.Message
	Moved  bool
}

// Manager связывает соединение, пользователя и его единственную комнату.
//
// Порядок блокировок: комната(ы), затем m.mu. Указатель пользователя
// на комнату и членство в комнате меняются под одними и теми же
// блокировками комнат, поэтому снаружи они всегда согласованы.
type Manager struct {
	rooms       *room.Registry
	notifier    Notifier
	defaultRoom string
	catchUp     int
	now         func() time.Time

	mu    sync.RWMutex
	users map[string]*User // connID -> user
}

func NewManager(rooms *room.Registry, defaultRoom string, catchUp int) *Manager {
	if catchUp <= 0 {
		catchUp = chatlog.DefaultLimit
	}
	return &Manager{
		rooms:       rooms,
		notifier:    nopNotifier{},
		defaultRoom: defaultRoom,
		catchUp:     catchUp,
		now:         time.Now,
		users:       make(map[string]*User),
	}
}

func (m *Manager) SetNotifier(n Notifier) {
	if n == nil {
		n = nopNotifier{}
	}
	m.notifier = n
}

func (m *Manager) DefaultRoom() string {
	return m.defaultRoom
}

// Resolve возвращает копию пользователя соединения.
func (m *Manager) Resolve(connID string) (User, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	u, ok := m.users[connID]
	if !ok {
		return User{}, false
	}
	return *u, true
}

// Members - пользователи комнаты в порядке входа. Вызывать под блокировкой комнаты.
func (m *Manager) Members(r *room.Room) []User {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return lo.FilterMap(r.Members(), func(connID string, _ int) (User, bool) {
		u, ok := m.users[connID]
		if !ok {
			return User{}, false
		}
		return *u, true
	})
}

// Join создаёт пользователя в комнате roomID (или комнате по умолчанию).
// Если соединение уже в комнате, это переход с обновлением имени.
func (m *Manager) Join(connID, userID, displayName, roomID string) (JoinResult, error) {
	name := strings.TrimSpace(displayName)
	if name == "" {
		return JoinResult{}, ErrInvalidUser
	}
	if len([]rune(name)) > MaxDisplayNameLength {
		name = string([]rune(name)[:MaxDisplayNameLength])
	}
	if roomID == "" {
		roomID = m.defaultRoom
	}
	if err := room.ValidateID(roomID); err != nil {
		return JoinResult{}, err
	}
	if userID == "" {
		userID = connID
	}

	for {
		if cur, ok := m.Resolve(connID); ok {
			res, retry, err := m.move(connID, cur.RoomID, roomID, name)
			if err != nil {
				return JoinResult{}, err
			}
			if retry {
				continue
			}
			return JoinResult{User: res.User, Room: res.To, Recent: res.Recent}, nil
		}

		var (
			res   JoinResult
			retry bool
		)
		err := m.rooms.Do(roomID, func(r *room.Room) {
			now := m.now()
			m.mu.Lock()
			if _, exists := m.users[connID]; exists {
				m.mu.Unlock()
				retry = true
				return
			}
			u := &User{ID: userID, Username: name, RoomID: r.ID, ConnID: connID, JoinedAt: now}
			m.users[connID] = u
			m.mu.Unlock()

			r.AddMember(connID, now)
			recent := r.Log.Recent(m.catchUp)
			notice := chatlog.NewSystemMessage(r.ID, name+" joined the chat", now)
			r.Log.Append(notice)

			res = JoinResult{User: *u, Room: r.Summary(), Recent: recent}
			m.notifier.UserJoined(JoinEvent{Room: r, User: *u, Notice: notice, Recent: recent})
		})
		if err != nil {
			return JoinResult{}, err
		}
		if retry {
			continue
		}
		return res, nil
	}
}

// SwitchRoom переносит соединение в newRoomID одной транзакцией.
func (m *Manager) SwitchRoom(connID, newRoomID string) (SwitchResult, error) {
	if err := room.ValidateID(newRoomID); err != nil {
		return SwitchResult{}, err
	}
	for {
		cur, ok := m.Resolve(connID)
		if !ok {
			return SwitchResult{}, ErrNotJoined
		}
		res, retry, err := m.move(connID, cur.RoomID, newRoomID, "")
		if err != nil {
			return SwitchResult{}, err
		}
		if !retry {
			return res, nil
		}
	}
}

// move выполняется под блокировками обеих комнат. retry=true, если
// пользователь успел смениться между чтением и блокировкой.
func (m *Manager) move(connID, fromID, toID, rename string) (res SwitchResult, retry bool, err error) {
	err = m.rooms.DoPair(fromID, toID, func(from, to *room.Room) {
		now := m.now()
		m.mu.Lock()
		u, ok := m.users[connID]
		if !ok || u.RoomID != fromID {
			m.mu.Unlock()
			retry = true
			return
		}
		if rename != "" {
			u.Username = rename
		}

		if from == to {
			snapshot := *u
			m.mu.Unlock()
			recent := to.Log.Recent(m.catchUp)
			res = SwitchResult{User: snapshot, From: from.Summary(), To: to.Summary(), Recent: recent}
			m.notifier.UserSwitched(SwitchEvent{From: from, To: to, User: snapshot, Recent: recent})
			return
		}

		u.RoomID = to.ID
		snapshot := *u
		m.mu.Unlock()

		from.RemoveMember(connID)
		to.AddMember(connID, now)

		left := chatlog.NewSystemMessage(from.ID, snapshot.Username+" left the chat", now)
		from.Log.Append(left)
		recent := to.Log.Recent(m.catchUp)
		joined := chatlog.NewSystemMessage(to.ID, snapshot.Username+" joined the chat", now)
		to.Log.Append(joined)

		res = SwitchResult{User: snapshot, From: from.Summary(), To: to.Summary(), Recent: recent, Moved: true}
		m.notifier.UserSwitched(SwitchEvent{
			From:         from,
			To:           to,
			User:         snapshot,
			LeftNotice:   left,
			JoinedNotice: joined,
			Recent:       recent,
			Moved:        true,
		})
	})
	return res, retry, err
}

// Leave идемпотентен: повторный вызов и вызов без join ничего не делают.
// Используется и для явного выхода, и для разрыва соединения.
func (m *Manager) Leave(connID string) (User, bool) {
	for {
		cur, ok := m.Resolve(connID)
		if !ok {
			return User{}, false
		}

		var (
			left  User
			gone  bool
			retry bool
		)
		err := m.rooms.Do(cur.RoomID, func(r *room.Room) {
			m.mu.Lock()
			u, ok := m.users[connID]
			switch {
			case !ok:
				gone = true
			case u.RoomID != r.ID:
				retry = true
			default:
				left = *u
				delete(m.users, connID)
			}
			m.mu.Unlock()
			if gone || retry {
				return
			}

			r.RemoveMember(connID)
			notice := chatlog.NewSystemMessage(r.ID, left.Username+" left the chat", m.now())
			r.Log.Append(notice)
			m.notifier.UserLeft(LeaveEvent{Room: r, User: left, Notice: notice})
		})
		if err != nil || gone {
			return User{}, false
		}
		if !retry {
			return left, true
		}
	}
}

func (m *Manager) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.users)
}
