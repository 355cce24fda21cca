package tictactoe

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func newTwoPlayerGame(t *testing.T) *Engine {
	t.Helper()
	e := NewEngine("g1")
	e.Start()
	_, changed, err := e.JoinAsPlayer("alice")
	require.NoError(t, err)
	require.True(t, changed)
	_, changed, err = e.JoinAsPlayer("bob")
	require.NoError(t, err)
	require.True(t, changed)
	return e
}

func TestEngine_NoGame(t *testing.T) {
	req := require.New(t)
	e := NewEngine("g1")

	_, ok := e.Current()
	req.False(ok)

	_, _, err := e.JoinAsPlayer("alice")
	req.ErrorIs(err, ErrNoGame)
	_, err = e.Move("alice", 0)
	req.ErrorIs(err, ErrNoGame)
}

func TestEngine_JoinAsPlayer(t *testing.T) {
	req := require.New(t)
	e := NewEngine("g1")
	e.Start()

	g, changed, err := e.JoinAsPlayer("alice")
	req.NoError(err)
	req.True(changed)
	req.Equal("alice", g.Players.X)

	// Игрок X не может занять и слот O
	g, changed, _ = e.JoinAsPlayer("alice")
	req.False(changed)
	req.Empty(g.Players.O)

	g, changed, _ = e.JoinAsPlayer("bob")
	req.True(changed)
	req.Equal("bob", g.Players.O)

	g, changed, _ = e.JoinAsPlayer("carol")
	req.False(changed)
	req.Equal(Players{X: "alice", O: "bob"}, g.Players)
}

func TestEngine_Move_Rejections(t *testing.T) {
	e := newTwoPlayerGame(t)
	_, err := e.Move("alice", 4)
	require.NoError(t, err)
	before, _ := e.Current()

	tests := []struct {
		name    string
		userID  string
		index   int
		wantErr error
	}{
		{name: "negative index", userID: "bob", index: -1, wantErr: ErrOutOfRange},
		{name: "index above board", userID: "bob", index: 9, wantErr: ErrOutOfRange},
		{name: "spectator", userID: "carol", index: 0, wantErr: ErrNotPlayer},
		{name: "anonymous", userID: "", index: 0, wantErr: ErrNotPlayer},
		{name: "occupied cell", userID: "bob", index: 4, wantErr: ErrCellTaken},
		{name: "wrong turn", userID: "alice", index: 0, wantErr: ErrNotYourTurn},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := e.Move(tt.userID, tt.index)
			require.ErrorIs(t, err, tt.wantErr)
			after, _ := e.Current()
			require.Equal(t, before, after)
		})
	}
}

func TestEngine_Move_WinOnTopRow(t *testing.T) {
	req := require.New(t)
	e := newTwoPlayerGame(t)

	moves := []struct {
		user  string
		index int
	}{
		{"alice", 0}, {"bob", 4}, {"alice", 1}, {"bob", 5},
	}
	for _, m := range moves {
		out, err := e.Move(m.user, m.index)
		req.NoError(err)
		req.False(out.Over)
	}

	out, err := e.Move("alice", 2)
	req.NoError(err)
	req.True(out.Over)
	req.Equal(string(X), out.Winner)
	req.Equal("alice", out.WinnerID)
	req.Equal(StatusFinished, out.Game.Status)
	current, ok := e.Current()
	req.True(ok)
	req.Equal(StatusFinished, current.Status)

	_, err = e.Move("bob", 8)
	req.ErrorIs(err, ErrGameFinished)
	g, _ := e.Current()
	req.Equal(Empty, g.Board[8])
}

func TestEngine_Move_Draw(t *testing.T) {
	req := require.New(t)
	e := newTwoPlayerGame(t)

	// X O X
	// X O O
	// O X X
	sequence := []struct {
		user  string
		index int
	}{
		{"alice", 0}, {"bob", 1}, {"alice", 2}, {"bob", 4},
		{"alice", 3}, {"bob", 5}, {"alice", 7}, {"bob", 6},
	}
	for _, m := range sequence {
		out, err := e.Move(m.user, m.index)
		req.NoError(err)
		req.False(out.Over, "premature end at cell %d", m.index)
	}

	out, err := e.Move("alice", 8)
	req.NoError(err)
	req.True(out.Over)
	req.Equal(Draw, out.Winner)
	req.Empty(out.WinnerID)
}

func TestEngine_Start_ResetsInstance(t *testing.T) {
	req := require.New(t)
	e := newTwoPlayerGame(t)
	first, _ := e.Current()
	_, err := e.Move("alice", 0)
	req.NoError(err)

	g := e.Start()
	req.Equal(first.ID, g.ID)
	req.Equal([9]Mark{}, g.Board)
	req.Equal(X, g.Turn)
	req.Equal(Players{}, g.Players)
	req.Equal(StatusInProgress, g.Status)
	req.Empty(g.Winner)
}

func TestEngine_TurnsAlternate(t *testing.T) {
	req := require.New(t)
	e := newTwoPlayerGame(t)

	for i, idx := range []int{0, 3, 1, 4} {
		g, _ := e.Current()
		want := X
		if i%2 == 1 {
			want = O
		}
		req.Equal(want, g.Turn)
		user := "alice"
		if want == O {
			user = "bob"
		}
		_, err := e.Move(user, idx)
		req.NoError(err)
	}
}

func TestEvaluate(t *testing.T) {
	for _, l := range lines {
		var b [9]Mark
		for _, i := range l {
			b[i] = O
		}
		require.Equal(t, string(O), evaluate(b))
	}
	require.Empty(t, evaluate([9]Mark{}))
}
