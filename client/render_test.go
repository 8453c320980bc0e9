package client

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"tetrimino/tetris"
)

func TestStack(t *testing.T) {
	tt := tetris.NewTestTetris(tetris.T)
	tt.Stack[15][0] = 6
	f := tt.Read()

	var want [tetris.Height][tetris.Width]string
	for y := range want {
		for x := range want[y] {
			want[y][x] = emptyCell
		}
	}
	for _, p := range [][2]int{{4, 0}, {5, 0}, {6, 0}, {5, 1}, {0, 15}} {
		want[p[1]][p[0]] = filledCell
	}

	if diff := cmp.Diff(want, stack(f, true)); diff != "" {
		t.Errorf("stack() mismatch (-want +got):\n%s", diff)
	}

	colored := stack(f, false)
	if got, want := colored[15][0], "\x1b[7m\x1b[34m[]\x1b[0m"; got != want {
		t.Errorf("wanted a blue J cell %q, got %q", want, got)
	}
	if got, want := colored[1][5], "\x1b[7m\x1b[35m[]\x1b[0m"; got != want {
		t.Errorf("wanted a magenta T cell %q, got %q", want, got)
	}
}

func TestStackSkipsCellsAboveTheTop(t *testing.T) {
	tt := tetris.NewTestTetris(tetris.I)
	tt.Tetromino.State = 1
	tt.Tetromino.Y = -2
	got := stack(tt.Read(), true)
	if got[0][4] != filledCell || got[1][4] != filledCell || got[2][4] != emptyCell {
		t.Errorf("wanted the two visible cells of the I in column 4, got %q", [3]string{got[0][4], got[1][4], got[2][4]})
	}
}

func TestStackNilFrame(t *testing.T) {
	for _, row := range stack(nil, false) {
		for _, c := range row {
			if c != emptyCell {
				t.Fatalf("wanted an empty stack, got %q", c)
			}
		}
	}
}

func TestRender(t *testing.T) {
	tests := []struct {
		name     string
		frame    func() *tetris.Frame
		contains []string
		missing  []string
	}{
		{
			name:     "new game",
			frame:    func() *tetris.Frame { return tetris.NewTestTetris(tetris.O).Read() },
			contains: []string{"Score: 0", "Level: 1", "Lines: 0", "Terminal Tetris"},
			missing:  []string{"GAME OVER"},
		},
		{
			name: "game over",
			frame: func() *tetris.Frame {
				tt := tetris.NewTestTetris(tetris.O)
				tt.Score, tt.Level, tt.LinesClear = 1200, 3, 45
				tt.Action(tetris.Quit)
				return tt.Read()
			},
			contains: []string{"Score: 1200", "Level: 3", "Lines: 45", "GAME OVER"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			var b bytes.Buffer
			r, err := newRender(&b, slog.New(slog.DiscardHandler), true)
			if err != nil {
				t.Fatalf("newRender() error: %v", err)
			}
			r.Render(tt.frame())
			out := b.String()

			if !strings.HasPrefix(out, resetPos) {
				t.Errorf("expected the output to start by resetting the cursor, got %q", out[:10])
			}
			// top border, rows and bottom border, each ending with a carriage return.
			if got, want := strings.Count(out, "\r\n"), tetris.Height+2; got != want {
				t.Errorf("wanted %d lines, got %d", want, got)
			}
			if strings.Contains(strings.ReplaceAll(out, "\r\n", ""), "\n") {
				t.Error("expected every new line to carry a carriage return")
			}
			for _, s := range tt.contains {
				if !strings.Contains(out, s) {
					t.Errorf("expected output to contain %q", s)
				}
			}
			for _, s := range tt.missing {
				if strings.Contains(out, s) {
					t.Errorf("expected output not to contain %q", s)
				}
			}
		})
	}
}
