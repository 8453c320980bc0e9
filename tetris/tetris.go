// Package tetris contains the rules of the game: the tetromino catalog, the stack, the
// falling tetromino and the scoring and level progression of a session.
package tetris

import (
	"log/slog"
)

type Action string

const (
	MoveLeft    Action = "left"     // Moves the Tetromino one step to the left.
	MoveRight   Action = "right"    // Moves the Tetromino one step to the right.
	MoveDown    Action = "down"     // Moves the Tetromino one step down, locking it if it can't.
	DropDown    Action = "drop"     // Drops the Tetromino down the stack and locks it.
	RotateRight Action = "rotatecw" // Rotates the Tetromino clockwise.
	Quit        Action = "quit"     // Ends the game.
)

// Phase is where a session stands between two tetrominoes.
type Phase int

const (
	NoPiece Phase = iota // waiting for the next spawn.
	Falling              // a tetromino is in play.
	Over                 // terminal.
)

func (p Phase) String() string {
	switch p {
	case NoPiece:
		return "no piece"
	case Falling:
		return "falling"
	case Over:
		return "game over"
	}
	return "unknown"
}

// Result is what a finished session reports.
type Result struct {
	Score uint32
	Lines uint32
	Level uint32
}

// Frame is a read-only copy of what a renderer may show.
type Frame struct {
	Stack      Stack
	Tetromino  *Tetromino
	Score      uint32
	Level      uint32
	LinesClear uint32
	GameOver   bool
}

// Tetris is a single game session.
type Tetris struct {
	// Stack is the playfield. See Width and Height.
	Stack Stack
	// Tetromino is the falling piece. It is nil until the first spawn, between a lock
	// and the next spawn and after the game is over.
	Tetromino *Tetromino

	Level      uint32
	Score      uint32
	LinesClear uint32

	phase  Phase
	prev   Kind
	rng    Rand
	logger *slog.Logger
}

// New returns a session with an empty stack at level 1. The random source draws every
// tetromino. A nil logger discards everything.
func New(rng Rand, logger *slog.Logger) *Tetris {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	if rng == nil {
		rng = globalRand{}
	}
	return &Tetris{
		Stack:  emptyStack(),
		Level:  1,
		prev:   NoKind,
		rng:    rng,
		logger: logger,
	}
}

func (t *Tetris) Phase() Phase   { return t.phase }
func (t *Tetris) GameOver() bool { return t.phase == Over }

// Result returns the current score, lines and level.
func (t *Tetris) Result() Result {
	return Result{Score: t.Score, Lines: t.LinesClear, Level: t.Level}
}

// Read returns a copy of the session that can be handed to a renderer.
func (t *Tetris) Read() *Frame {
	return &Frame{
		Stack:      t.Stack.copy(),
		Tetromino:  t.Tetromino.copy(),
		Score:      t.Score,
		Level:      t.Level,
		LinesClear: t.LinesClear,
		GameOver:   t.phase == Over,
	}
}

// Spawn puts a new random tetromino at the top of the stack. If it doesn't fit the game is
// over. It reports whether a tetromino is falling afterwards.
func (t *Tetris) Spawn() bool {
	if t.phase != NoPiece {
		return t.phase == Falling
	}
	k := PickKind(t.rng, t.prev)
	t.prev = k
	tetromino := newTetromino(k)
	if !tetromino.CanStay(t.Stack) {
		t.end("spawn blocked")
		return false
	}
	t.Tetromino = tetromino
	t.phase = Falling
	return true
}

// Action applies a player action. Actions other than Quit are ignored unless a tetromino is
// falling. It reports whether the tetromino got locked into the stack.
func (t *Tetris) Action(a Action) bool {
	if a == Quit {
		t.end("quit")
		return false
	}
	if t.phase != Falling {
		return false
	}
	tm := t.Tetromino
	switch a {
	case MoveLeft:
		tm.Move(t.Stack, tm.X-1, tm.Y)
	case MoveRight:
		tm.Move(t.Stack, tm.X+1, tm.Y)
	case RotateRight:
		tm.Rotate(t.Stack)
	case MoveDown:
		return t.Step()
	case DropDown:
		for tm.Move(t.Stack, tm.X, tm.Y+1) {
		}
		t.lock()
		return true
	default:
		t.logger.Debug("unknown action", slog.String("action", string(a)))
	}
	return false
}

// Step pulls the tetromino one row down, locking it when it can't move.
// It reports whether the tetromino got locked.
func (t *Tetris) Step() bool {
	if t.phase != Falling {
		return false
	}
	if t.Tetromino.Move(t.Stack, t.Tetromino.X, t.Tetromino.Y+1) {
		return false
	}
	t.lock()
	return true
}

// UpdateScore adds points to the score. A finished game keeps its score.
func (t *Tetris) UpdateScore(points uint32) {
	if t.phase == Over {
		return
	}
	t.Score += points
}

func (t *Tetris) lock() {
	tm := t.Tetromino
	if clamped := t.Stack.Merge(tm); clamped > 0 {
		t.logger.Warn("tetromino locked partially outside the stack",
			slog.String("kind", tm.Kind.String()),
			slog.Int("x", tm.X),
			slog.Int("y", tm.Y),
			slog.Int("cells", clamped),
		)
	}
	t.Tetromino = nil
	t.phase = NoPiece
	t.UpdateScore(t.Level)

	points, removed := t.Stack.ClearLines(t.Level)
	t.Stack.Repad(t.incLine)
	t.UpdateScore(points)
	if removed > 0 {
		t.logger.Debug("lines cleared",
			slog.Int("lines", removed),
			slog.Any("points", points),
			slog.Any("total", t.LinesClear),
		)
	}
}

// incLine counts a cleared line and levels up once the level's threshold is exceeded.
func (t *Tetris) incLine() {
	t.LinesClear++
	if t.Level < MaxLevel && t.LinesClear > levelThreshold(t.Level) {
		t.Level++
		t.logger.Debug("level up", slog.Any("level", t.Level))
	}
}

func (t *Tetris) end(reason string) {
	if t.phase == Over {
		return
	}
	t.phase = Over
	t.Tetromino = nil
	t.logger.Debug("game over",
		slog.String("reason", reason),
		slog.Any("score", t.Score),
		slog.Any("lines", t.LinesClear),
		slog.Any("level", t.Level),
	)
}
