package poll

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/samber/lo"
)

const (
	MinOptions        = 2
	MaxOptions        = 6
	MaxQuestionLength = 200
	MaxOptionLength   = 80
)

var (
	ErrEmptyQuestion = errors.New("poll question is required")
	ErrTooFewOptions = errors.New("poll needs at least two options")
)

type Option struct {
	Label string `json:"label"`
	Votes int    `json:"votes"`
}

type Poll struct {
	ID        string    `json:"id"`
	RoomID    string    `json:"roomId"`
	Question  string    `json:"question"`
	Options   []Option  `json:"options"`
	CreatedAt time.Time `json:"createdAt"`
}

func (p *Poll) clone() Poll {
	cp := *p
	cp.Options = append([]Option(nil), p.Options...)
	return cp
}

// Set - опросы одной комнаты в порядке создания.
// Удаления нет: опрос живёт, пока жив процесс.
type Set struct {
	roomID string
	polls  map[string]*Poll
	order  []string
}

func NewSet(roomID string) *Set {
	return &Set{roomID: roomID, polls: make(map[string]*Poll)}
}

// Create обрезает вопрос и подписи по длине, лишние варианты отбрасывает.
func (s *Set) Create(question string, options []string, now time.Time) (Poll, error) {
	question = strings.TrimSpace(question)
	if question == "" {
		return Poll{}, ErrEmptyQuestion
	}
	if len(options) < MinOptions {
		return Poll{}, ErrTooFewOptions
	}
	if len(options) > MaxOptions {
		options = options[:MaxOptions]
	}

	p := &Poll{
		ID:       "poll_" + uuid.NewString(),
		RoomID:   s.roomID,
		Question: truncate(question, MaxQuestionLength),
		Options: lo.Map(options, func(label string, _ int) Option {
			return Option{Label: truncate(label, MaxOptionLength)}
		}),
		CreatedAt: now,
	}
	s.polls[p.ID] = p
	s.order = append(s.order, p.ID)
	return p.clone(), nil
}

// Vote увеличивает счётчик варианта на единицу. Неизвестный опрос или
// индекс вне диапазона - не ошибка, просто ok=false.
// Повторные голоса одного пользователя не отсекаются.
func (s *Set) Vote(pollID string, optionIndex int) (Poll, bool) {
	p, ok := s.polls[pollID]
	if !ok {
		return Poll{}, false
	}
	if optionIndex < 0 || optionIndex >= len(p.Options) {
		return Poll{}, false
	}
	p.Options[optionIndex].Votes++
	return p.clone(), true
}

func (s *Set) List() []Poll {
	return lo.Map(s.order, func(id string, _ int) Poll {
		return s.polls[id].clone()
	})
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
