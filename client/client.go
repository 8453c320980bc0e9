// Package client plays a game in the terminal: keyboard input, ANSI rendering and recording
// the result once the game is over.
package client

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math/rand/v2"
	"os"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/eiannone/keyboard"
	"github.com/google/uuid"
	"golang.org/x/term"

	"tetrimino/highscore"
	"tetrimino/tetris"
)

// recordTimeout bounds how long recording the result may take once the game is over.
const recordTimeout = 5 * time.Second

type Options struct {
	// Recorder keeps the result. Nothing is recorded when nil.
	Recorder highscore.Recorder
	// Seed for the tetromino draws. 0 picks a random seed.
	Seed          uint64
	FrameInterval time.Duration
	NoColor       bool
	// Writer defaults to os.Stdout.
	Writer io.Writer
}

type Client struct {
	input    tetris.Input
	render   tetris.Renderer
	recorder highscore.Recorder
	options  *Options
	logger   *slog.Logger
	gameID   string

	// start prepares the screen and returns the func that restores it.
	start      func() func()
	closeInput func() error
}

// Summary is what happened once the game is over.
type Summary struct {
	GameID   string
	Result   tetris.Result
	Standing highscore.Standing
	// Recorded is false when there is no recorder or recording failed.
	Recorded bool
}

func New(l *slog.Logger, o *Options) (*Client, error) {
	if l == nil {
		l = slog.New(slog.DiscardHandler)
	}
	if !term.IsTerminal(int(os.Stdin.Fd())) {
		return nil, errors.New("stdin is not a terminal")
	}
	w := o.Writer
	if w == nil {
		w = os.Stdout
	}
	r, err := newRender(w, l, o.NoColor)
	if err != nil {
		return nil, fmt.Errorf("failed to load renderer: %w", err)
	}
	kb, err := keyboard.GetKeys(20)
	if err != nil {
		return nil, fmt.Errorf("failed to open keyboard: %w", err)
	}
	return &Client{
		input:      &keyboardInput{events: kb, logger: l},
		render:     r,
		recorder:   o.Recorder,
		options:    o,
		logger:     l,
		gameID:     uuid.NewString(),
		start:      r.start,
		closeInput: keyboard.Close,
	}, nil
}

// Run plays a single game until it is over, the player quits or ctx is done, then records the
// result. A recording failure is logged and returned along with the summary.
func (c *Client) Run(ctx context.Context) (Summary, error) {
	seed := c.options.Seed
	if seed == 0 {
		seed = rand.Uint64()
	}
	c.logger.Info("starting game", slog.String("game", c.gameID), slog.Any("seed", seed))

	g := tetris.NewGame(c.input, c.render, &tetris.Options{
		Rand:          rand.New(rand.NewPCG(seed, seed)),
		Logger:        c.logger,
		FrameInterval: c.options.FrameInterval,
	})

	var restore func()
	if c.start != nil {
		restore = c.start()
	}
	result := g.Run(ctx)
	if restore != nil {
		restore()
	}
	if c.closeInput != nil {
		if err := c.closeInput(); err != nil {
			c.logger.Error("unable to close keyboard", slog.String("error", err.Error()))
		}
	}
	c.logger.Info("game over",
		slog.String("game", c.gameID),
		slog.Any("score", result.Score),
		slog.Any("lines", result.Lines),
		slog.Any("level", result.Level),
	)

	s := Summary{GameID: c.gameID, Result: result}
	if c.recorder == nil {
		return s, nil
	}
	rctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), recordTimeout)
	defer cancel()
	st, err := c.recorder.Record(rctx, highscore.Entry{
		ID:    c.gameID,
		Score: result.Score,
		Lines: result.Lines,
		Level: result.Level,
	})
	if err != nil {
		c.logger.Error("unable to record game", slog.String("error", err.Error()))
		return s, fmt.Errorf("record game: %w", err)
	}
	s.Standing, s.Recorded = st, true
	return s, nil
}

// Print writes the final stats, marking the ones that made it into the table.
func (s Summary) Print(w io.Writer) error {
	mark := func(b bool) string {
		if b && s.Recorded {
			return " [New Record]"
		}
		return ""
	}
	_, err := fmt.Fprintf(w, "Game Over\nScore: %d%s\nLines: %d%s\nLevel: %d\n",
		s.Result.Score, mark(s.Standing.NewScore),
		s.Result.Lines, mark(s.Standing.NewLines),
		s.Result.Level,
	)
	if err != nil || !s.Recorded {
		return err
	}
	_, err = fmt.Fprintf(w, "Best scores: %s\nBest lines:  %s\n", best(s.Standing.Table.Scores), best(s.Standing.Table.Lines))
	return err
}

// best lists the values highest first.
func best(list []uint32) string {
	s := make([]string, len(list))
	for i, v := range list {
		s[i] = strconv.FormatUint(uint64(v), 10)
	}
	slices.Reverse(s)
	return strings.Join(s, " ")
}
