package tetris

import (
	"context"
	"log/slog"
	"time"
)

// DefaultFrameInterval caps the loop at 60 iterations per second.
const DefaultFrameInterval = time.Second / 60

// Input is polled once per loop iteration for the actions that arrived since the last poll.
type Input interface {
	Poll() []Action
}

// Renderer shows a frame. It is called once per loop iteration.
type Renderer interface {
	Render(*Frame)
}

// Clock lets tests drive the loop without waiting.
type Clock interface {
	Now() time.Time
	Sleep(time.Duration)
}

type wallClock struct{}

func (wallClock) Now() time.Time        { return time.Now() }
func (wallClock) Sleep(d time.Duration) { time.Sleep(d) }

type Options struct {
	Rand   Rand
	Logger *slog.Logger
	// Clock defaults to the wall clock.
	Clock Clock
	// FrameInterval defaults to DefaultFrameInterval.
	FrameInterval time.Duration
}

// Game runs a session: gravity, spawning, player actions and rendering, one iteration at a
// time on the calling goroutine.
type Game struct {
	tetris *Tetris
	input  Input
	render Renderer
	clock  Clock
	frame  time.Duration
	logger *slog.Logger
}

func NewGame(in Input, r Renderer, o *Options) *Game {
	clock := o.Clock
	if clock == nil {
		clock = wallClock{}
	}
	frame := o.FrameInterval
	if frame <= 0 {
		frame = DefaultFrameInterval
	}
	logger := o.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Game{
		tetris: New(o.Rand, logger),
		input:  in,
		render: r,
		clock:  clock,
		frame:  frame,
		logger: logger,
	}
}

// Tetris returns the session the game is running.
func (g *Game) Tetris() *Tetris { return g.tetris }

// Run loops until the game is over, the player quits or ctx is done, and returns the final
// result. Each iteration:
//
//  1. pulls the tetromino one row down if the level's fall interval has elapsed,
//  2. spawns a tetromino if none is falling,
//  3. applies every polled action in order, stopping at Quit,
//  4. renders and sleeps for the frame interval.
func (g *Game) Run(ctx context.Context) Result {
	timer := g.clock.Now()
	for {
		if g.clock.Now().Sub(timer) > FallInterval(g.tetris.Level) {
			g.tetris.Step()
			timer = g.clock.Now()
		}

		if g.tetris.Phase() == NoPiece {
			g.tetris.Spawn()
		}

		if !g.tetris.GameOver() {
			for _, a := range g.input.Poll() {
				if g.tetris.Action(a) {
					timer = g.clock.Now()
				}
				if a == Quit {
					break
				}
			}
		}

		if err := ctx.Err(); err != nil && !g.tetris.GameOver() {
			g.logger.Debug("game cancelled", slog.String("error", err.Error()))
			g.tetris.Action(Quit)
		}

		g.render.Render(g.tetris.Read())
		if g.tetris.GameOver() {
			return g.tetris.Result()
		}
		g.clock.Sleep(g.frame)
	}
}
