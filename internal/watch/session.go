package watch

import "time"

const DefaultProvider = "youtube"

// Session - общее состояние воспроизведения комнаты. Побеждает последняя
// мутация, клиенты интерполируют позицию по UpdatedAt.
type Session struct {
	RoomID    string    `json:"roomId"`
	Provider  string    `json:"provider,omitempty"`
	MediaID   string    `json:"mediaId"`
	Position  float64   `json:"position"`
	Playing   bool      `json:"playing"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func NewSession(roomID string, now time.Time) *Session {
	return &Session{RoomID: roomID, UpdatedAt: now}
}

// Load ставит новое медиа на паузу в заданной позиции.
func (s *Session) Load(provider, mediaID string, position float64, now time.Time) Session {
	if provider == "" {
		provider = DefaultProvider
	}
	s.Provider = provider
	s.MediaID = mediaID
	s.Position = clamp(position)
	s.Playing = false
	s.UpdatedAt = now
	return *s
}

func (s *Session) Play(now time.Time) Session {
	s.Playing = true
	s.UpdatedAt = now
	return *s
}

// Pause без позиции оставляет сохранённую позицию как есть.
func (s *Session) Pause(position *float64, now time.Time) Session {
	if position != nil {
		s.Position = clamp(*position)
	}
	s.Playing = false
	s.UpdatedAt = now
	return *s
}

func (s *Session) Seek(position float64, now time.Time) Session {
	s.Position = clamp(position)
	s.UpdatedAt = now
	return *s
}

func (s *Session) Snapshot() Session {
	return *s
}

func clamp(p float64) float64 {
	if p < 0 {
		return 0
	}
	return p
}
