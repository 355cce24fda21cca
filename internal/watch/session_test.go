package watch

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestSession_Lifecycle(t *testing.T) {
	req := require.New(t)
	t0 := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	s := NewSession("general", t0)

	snap := s.Load("", "dQw4w9WgXcQ", 12.5, t0.Add(time.Second))
	req.Equal(DefaultProvider, snap.Provider)
	req.Equal("dQw4w9WgXcQ", snap.MediaID)
	req.Equal(12.5, snap.Position)
	req.False(snap.Playing)
	req.Equal(t0.Add(time.Second), snap.UpdatedAt)

	snap = s.Play(t0.Add(2 * time.Second))
	req.True(snap.Playing)
	req.Equal(12.5, snap.Position)

	snap = s.Seek(40, t0.Add(3*time.Second))
	req.True(snap.Playing)
	req.Equal(40.0, snap.Position)
	req.Equal(t0.Add(3*time.Second), snap.UpdatedAt)
}

func TestSession_Pause(t *testing.T) {
	now := time.Now()
	at := 33.25

	tests := []struct {
		name     string
		position *float64
		want     float64
	}{
		{name: "without position keeps stored one", position: nil, want: 17.75},
		{name: "with position overrides", position: &at, want: 33.25},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewSession("general", now)
			s.Load("vimeo", "42", 17.75, now)
			s.Play(now)

			snap := s.Pause(tt.position, now.Add(time.Minute))
			require.False(t, snap.Playing)
			require.Equal(t, tt.want, snap.Position)
			require.Equal(t, "vimeo", snap.Provider)
			require.Equal(t, now.Add(time.Minute), snap.UpdatedAt)
		})
	}
}

func TestSession_NegativePositionClamped(t *testing.T) {
	s := NewSession("general", time.Now())
	require.Zero(t, s.Seek(-5, time.Now()).Position)
	require.Zero(t, s.Load("youtube", "x", -1, time.Now()).Position)
}
