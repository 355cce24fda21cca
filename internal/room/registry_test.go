package room

import (
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestRegistry_GetOrCreate(t *testing.T) {
	req := require.New(t)
	reg := NewRegistry(0)

	r1, err := reg.GetOrCreate("general")
	req.NoError(err)
	req.Equal("General", r1.Name)
	req.False(r1.CreatedAt.IsZero())

	r2, err := reg.GetOrCreate("general")
	req.NoError(err)
	req.Same(r1, r2)

	for _, bad := range []string{"", " padded", strings.Repeat("x", MaxIDLength+1)} {
		_, err = reg.GetOrCreate(bad)
		req.ErrorIs(err, ErrInvalidID)
	}
}

func TestRegistry_Create(t *testing.T) {
	reg := NewRegistry(0)
	_, err := reg.GetOrCreate("random")
	require.NoError(t, err)

	tests := []struct {
		name    string
		id      string
		display string
		wantErr error
	}{
		{name: "new room", id: "book-club", display: "Book Club"},
		{name: "collides with lazy room", id: "random", display: "Random", wantErr: ErrRoomExists},
		{name: "collides with created room", id: "book-club", display: "Book Club", wantErr: ErrRoomExists},
		{name: "empty name", id: "x", display: "  ", wantErr: ErrInvalidName},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, err := reg.Create(tt.id, tt.display)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tt.display, r.Name)
		})
	}
}

func TestRegistry_Membership(t *testing.T) {
	req := require.New(t)
	reg := NewRegistry(0)

	req.Zero(reg.MemberCount("nowhere"))
	reg.RemoveMember("nowhere", "c1")
	_, ok := reg.Lookup("nowhere")
	req.False(ok, "read paths must not create rooms")

	req.NoError(reg.AddMember("general", "c1"))
	req.NoError(reg.AddMember("general", "c2"))
	req.NoError(reg.AddMember("general", "c1"))
	req.Equal(2, reg.MemberCount("general"))

	reg.RemoveMember("general", "c1")
	reg.RemoveMember("general", "c1")
	req.Equal(1, reg.MemberCount("general"))

	reg.View("general", func(r *Room) {
		req.Equal([]string{"c2"}, r.Members())
		req.True(r.HasMember("c2"))
		req.False(r.HasMember("c1"))
	})
}

func TestRegistry_List(t *testing.T) {
	req := require.New(t)
	reg := NewRegistry(0)
	base := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	tick := 0
	reg.now = func() time.Time {
		tick++
		return base.Add(time.Duration(tick) * time.Second)
	}

	_, _ = reg.GetOrCreate("general")
	_, _ = reg.Create("book-club", "Book Club")
	req.NoError(reg.AddMember("general", "c1"))

	list := reg.List()
	req.Len(list, 2)
	req.Equal("general", list[0].ID)
	req.Equal(1, list[0].MemberCount)
	req.Equal("Book Club", list[1].Name)
	req.Zero(list[1].MemberCount)
}

func TestRegistry_DoPair(t *testing.T) {
	req := require.New(t)
	reg := NewRegistry(0)

	err := reg.DoPair("a", "b", func(from, to *Room) {
		req.Equal("a", from.ID)
		req.Equal("b", to.ID)
	})
	req.NoError(err)

	err = reg.DoPair("a", "a", func(from, to *Room) {
		req.Same(from, to)
	})
	req.NoError(err)

	called := false
	err = reg.DoPair("a", "", func(_, _ *Room) { called = true })
	req.ErrorIs(err, ErrInvalidID)
	req.False(called)
}

func TestRegistry_DoPair_NoDeadlock(t *testing.T) {
	reg := NewRegistry(0)
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			_ = reg.DoPair("left", "right", func(from, to *Room) {
				from.AddMember("x", time.Now())
				to.RemoveMember("x")
			})
		}()
		go func() {
			defer wg.Done()
			_ = reg.DoPair("right", "left", func(from, to *Room) {
				from.AddMember("x", time.Now())
				to.RemoveMember("x")
			})
		}()
	}

	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("DoPair deadlocked")
	}
}

func TestRegistry_ConcurrentRoomsIndependent(t *testing.T) {
	reg := NewRegistry(10)
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			id := fmt.Sprintf("room-%d", n)
			for j := 0; j < 100; j++ {
				_ = reg.AddMember(id, fmt.Sprintf("c%d", j))
			}
		}(i)
	}
	wg.Wait()

	for i := 0; i < 8; i++ {
		require.Equal(t, 100, reg.MemberCount(fmt.Sprintf("room-%d", i)))
	}
}

func TestSlugAndDefaultName(t *testing.T) {
	require.Equal(t, "book-club", Slug("  Book   Club "))
	require.Equal(t, "general", Slug("General"))

	long := Slug(strings.Repeat("a", 63) + " " + strings.Repeat("b", 40))
	require.Equal(t, strings.Repeat("a", 63), long)
	require.NoError(t, ValidateID(long))
	require.Len(t, []rune(Slug(strings.Repeat("я", 100))), MaxIDLength)
	require.Equal(t, "General", DefaultName("general"))
	require.Equal(t, "Über", DefaultName("über"))
}
