package tictactoe

import (
	"errors"

	"github.com/google/uuid"
)

type Mark string

const (
	Empty Mark = ""
	X     Mark = "X"
	O     Mark = "O"
)

func (m Mark) other() Mark {
	if m == X {
		return O
	}
	return X
}

// Status партии. Отсутствие партии выражается Current() с ok=false.
type Status string

const (
	StatusInProgress Status = "in_progress"
	StatusFinished   Status = "finished"
)

const Draw = "draw"

var (
	ErrNoGame       = errors.New("no active game")
	ErrGameFinished = errors.New("game is finished")
	ErrOutOfRange   = errors.New("cell index out of range")
	ErrNotPlayer    = errors.New("caller is not a player")
	ErrCellTaken    = errors.New("cell is already taken")
	ErrNotYourTurn  = errors.New("not your turn")
)

var lines = [8][3]int{
	{0, 1, 2}, {3, 4, 5}, {6, 7, 8},
	{0, 3, 6}, {1, 4, 7}, {2, 5, 8},
	{0, 4, 8}, {2, 4, 6},
}

type Players struct {
	X string `json:"X,omitempty"`
	O string `json:"O,omitempty"`
}

type Game struct {
	ID      string  `json:"id"`
	RoomID  string  `json:"roomId"`
	Board   [9]Mark `json:"board"`
	Turn    Mark    `json:"turn"`
	Players Players `json:"players"`
	Status  Status  `json:"status"`
	// Winner - X, O или Draw; пусто пока партия идёт.
	Winner string `json:"winner,omitempty"`
}

func (g *Game) markOf(userID string) Mark {
	switch {
	case userID == "":
		return Empty
	case g.Players.X == userID:
		return X
	case g.Players.O == userID:
		return O
	}
	return Empty
}

// Outcome - итог хода. Over=true означает терминальное состояние.
type Outcome struct {
	Game     Game   `json:"game"`
	Over     bool   `json:"-"`
	Winner   string `json:"winner,omitempty"`
	WinnerID string `json:"winnerId,omitempty"`
}

// Engine держит единственную партию комнаты: NoGame -> InProgress -> Finished.
type Engine struct {
	roomID string
	game   *Game
}

func NewEngine(roomID string) *Engine {
	return &Engine{roomID: roomID}
}


// Current возвращает копию партии, ok=false если партии нет.
func (e *Engine) Current() (Game, bool) {
	if e.game == nil {
		return Game{}, false
	}
	return *e.game, true
}

// Start создаёт новую партию или сбрасывает текущую к начальному состоянию.
func (e *Engine) Start() Game {
	id := uuid.NewString()
	if e.game != nil {
		id = e.game.ID
	}
	e.game = &Game{
		ID:     id,
		RoomID: e.roomID,
		Turn:   X,
		Status: StatusInProgress,
	}
	return *e.game
}

// JoinAsPlayer занимает первый свободный слот: сначала X, потом O.
// changed=false если слоты заняты или вызывающий уже X.
func (e *Engine) JoinAsPlayer(userID string) (Game, bool, error) {
	if e.game == nil {
		return Game{}, false, ErrNoGame
	}
	g := e.game
	changed := false
	switch {
	case g.Players.X == "":
		g.Players.X = userID
		changed = true
	case g.Players.O == "" && g.Players.X != userID:
		g.Players.O = userID
		changed = true
	}
	return *g, changed, nil
}

// Move применяет ход. Любое нарушение правил возвращает ошибку
// и не меняет состояние.
func (e *Engine) Move(userID string, index int) (Outcome, error) {
	if e.game == nil {
		return Outcome{}, ErrNoGame
	}
	g := e.game
	if g.Status == StatusFinished {
		return Outcome{}, ErrGameFinished
	}
	if index < 0 || index >= len(g.Board) {
		return Outcome{}, ErrOutOfRange
	}
	mark := g.markOf(userID)
	if mark == Empty {
		return Outcome{}, ErrNotPlayer
	}
	if g.Board[index] != Empty {
		return Outcome{}, ErrCellTaken
	}
	if g.Turn != mark {
		return Outcome{}, ErrNotYourTurn
	}

	g.Board[index] = mark
	if winner := evaluate(g.Board); winner != "" {
		g.Status = StatusFinished
		g.Winner = winner
		out := Outcome{Game: *g, Over: true, Winner: winner}
		if winner != Draw {
			out.WinnerID = userID
		}
		return out, nil
	}

	g.Turn = g.Turn.other()
	return Outcome{Game: *g}, nil
}

func evaluate(board [9]Mark) string {
	for _, l := range lines {
		a := board[l[0]]
		if a != Empty && a == board[l[1]] && a == board[l[2]] {
			return string(a)
		}
	}
	for _, c := range board {
		if c == Empty {
			return ""
		}
	}
	return Draw
}
