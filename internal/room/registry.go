package room

import (
	"errors"
	"sort"
	"strings"
	"sync"
	"time"
	"unicode"
	"unicode/utf8"

	"github.com/samber/lo"
)

const MaxIDLength = 64

var (
	ErrInvalidID   = errors.New("invalid room id")
	ErrInvalidName = errors.New("room name is required")
	ErrRoomExists  = errors.New("room already exists")
)

// Registry - таблица комнат. Комнаты создаются лениво и живут
// до конца процесса. Каждая комната сериализует свои мутации
// собственным мьютексом, разные комнаты не мешают друг другу.
//
// Правило блокировок: внутри Do нельзя вызывать Do/DoPair
// для другой комнаты; две комнаты берутся только через DoPair.
type Registry struct {
	mu         sync.RWMutex
	rooms      map[string]*Room
	historyCap int
	now        func() time.Time
}

func NewRegistry(historyCap int) *Registry {
	return &Registry{
		rooms:      make(map[string]*Room),
		historyCap: historyCap,
		now:        time.Now,
	}
}

func ValidateID(id string) error {
	if id == "" || id != strings.TrimSpace(id) || utf8.RuneCountInString(id) > MaxIDLength {
		return ErrInvalidID
	}
	return nil
}

// DefaultName - имя для лениво созданной комнаты: id с заглавной буквы.
func DefaultName(id string) string {
	r, size := utf8.DecodeRuneInString(id)
	if r == utf8.RuneError {
		return id
	}
	return string(unicode.ToUpper(r)) + id[size:]
}

// Slug строит id комнаты из отображаемого имени. Длинное имя
// обрезается до MaxIDLength символов.
func Slug(name string) string {
	slug := []rune(strings.Join(strings.Fields(strings.ToLower(name)), "-"))
	if len(slug) > MaxIDLength {
		slug = slug[:MaxIDLength]
	}
	return strings.TrimRight(string(slug), "-")
}

// GetOrCreate идемпотентен.
func (reg *Registry) GetOrCreate(id string) (*Room, error) {
	if err := ValidateID(id); err != nil {
		return nil, err
	}

	reg.mu.RLock()
	r, ok := reg.rooms[id]
	reg.mu.RUnlock()
	if ok {
		return r, nil
	}

	reg.mu.Lock()
	defer reg.mu.Unlock()
	if r, ok = reg.rooms[id]; ok {
		return r, nil
	}
	r = newRoom(id, DefaultName(id), reg.historyCap, reg.now())
	reg.rooms[id] = r
	return r, nil
}

// Create - явное создание. Совпадение id с существующей комнатой - ErrRoomExists.
func (reg *Registry) Create(id, name string) (*Room, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrInvalidName
	}
	if err := ValidateID(id); err != nil {
		return nil, err
	}

	reg.mu.Lock()
	defer reg.mu.Unlock()
	if existing, ok := reg.rooms[id]; ok {
		return existing, ErrRoomExists
	}
	r := newRoom(id, name, reg.historyCap, reg.now())
	reg.rooms[id] = r
	return r, nil
}

func (reg *Registry) Lookup(id string) (*Room, bool) {
	reg.mu.RLock()
	defer reg.mu.RUnlock()
	r, ok := reg.rooms[id]
	return r, ok
}

// Do выполняет fn под блокировкой комнаты, создавая её при необходимости.
func (reg *Registry) Do(id string, fn func(r *Room)) error {
	r, err := reg.GetOrCreate(id)
	if err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	fn(r)
	return nil
}

// View как Do, но не создаёт комнату. ok=false для неизвестного id.
func (reg *Registry) View(id string, fn func(r *Room)) bool {
	r, ok := reg.Lookup(id)
	if !ok {
		return false
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	fn(r)
	return true
}

// DoPair блокирует две комнаты в порядке id. Обе комнаты получены до
// блокировки, поэтому ошибка создания не оставляет частичного состояния.
// Если from == to, fn получает одну и ту же комнату.
func (reg *Registry) DoPair(fromID, toID string, fn func(from, to *Room)) error {
	from, err := reg.GetOrCreate(fromID)
	if err != nil {
		return err
	}
	to, err := reg.GetOrCreate(toID)
	if err != nil {
		return err
	}

	if from == to {
		from.mu.Lock()
		defer from.mu.Unlock()
		fn(from, from)
		return nil
	}

	first, second := from, to
	if second.ID < first.ID {
		first, second = second, first
	}
	first.mu.Lock()
	defer first.mu.Unlock()
	second.mu.Lock()
	defer second.mu.Unlock()
	fn(from, to)
	return nil
}

func (reg *Registry) AddMember(roomID, connID string) error {
	return reg.Do(roomID, func(r *Room) {
		r.AddMember(connID, reg.now())
	})
}

// RemoveMember - no-op для неизвестной комнаты или соединения.
func (reg *Registry) RemoveMember(roomID, connID string) {
	reg.View(roomID, func(r *Room) {
		r.RemoveMember(connID)
	})
}

// MemberCount возвращает 0 для неизвестной комнаты.
func (reg *Registry) MemberCount(roomID string) int {
	n := 0
	reg.View(roomID, func(r *Room) {
		n = r.MemberCount()
	})
	return n
}

// List отдаёт сводки без состава участников, старые комнаты первыми.
func (reg *Registry) List() []Summary {
	reg.mu.RLock()
	rooms := lo.Values(reg.rooms)
	reg.mu.RUnlock()

	summaries := lo.Map(rooms, func(r *Room, _ int) Summary {
		r.mu.Lock()
		defer r.mu.Unlock()
		return r.Summary()
	})
	sort.Slice(summaries, func(i, j int) bool {
		if summaries[i].CreatedAt.Equal(summaries[j].CreatedAt) {
			return summaries[i].ID < summaries[j].ID
		}
		return summaries[i].CreatedAt.Before(summaries[j].CreatedAt)
	})
	return summaries
}
