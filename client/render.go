package client

import (
	_ "embed"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"text/template"

	"tetrimino/tetris"
)

const (
	// ASCII colors.
	Cyan    = "36"
	Blue    = "34"
	Orange  = "38;5;214"
	Yellow  = "33"
	Green   = "32"
	Red     = "31"
	Magenta = "35"

	resetPos   = "\033[H"           // Reset cursor position to 0,0
	clearEOL   = "\033[K"           // Clear from the cursor to the end of the line
	hideCursor = "\033[2J\033[?25l" // also clear screen
	showCursor = "\033[?25h\r\n"
	emptyCell  = "  "
	filledCell = "[]"
)

//go:embed "layout.tmpl"
var layout string

var colorMap = map[tetris.Cell]string{
	1: Cyan,
	2: Yellow,
	3: Magenta,
	4: Green,
	5: Red,
	6: Blue,
	7: Orange,
}

type templateData struct {
	Frame   *tetris.Frame
	NoColor bool
}

// render draws frames as ANSI text. It implements tetris.Renderer.
type render struct {
	writer   io.Writer
	logger   *slog.Logger
	template *template.Template
	noColor  bool
}

func newRender(w io.Writer, l *slog.Logger, noColor bool) (*render, error) {
	tmp, err := loadTemplate()
	if err != nil {
		return nil, fmt.Errorf("failed to load template: %w", err)
	}
	return &render{
		writer:   w,
		logger:   l,
		template: tmp,
		noColor:  noColor,
	}, nil
}

func (r *render) Render(f *tetris.Frame) {
	fmt.Fprint(r.writer, resetPos)
	if err := r.template.Execute(r.writer, &templateData{Frame: f, NoColor: r.noColor}); err != nil {
		r.logger.Error("unable to execute template in Render()", slog.String("error", err.Error()))
	}
}

// start clears the screen and hides the cursor. The returned func shows it again below the
// board.
func (r *render) start() func() {
	fmt.Fprint(r.writer, hideCursor)
	return func() {
		fmt.Fprintf(r.writer, "\033[%d;0H%s", tetris.Height+3, showCursor)
	}
}

func loadTemplate() (*template.Template, error) {
	funcMap := template.FuncMap{
		"stack": stack,
	}

	// the keyboard puts the console in raw mode so new lines don't automatically transform
	// into carriage return, and lines drawn over a previous frame may be shorter than it.
	l := strings.ReplaceAll(layout, "\n", clearEOL+"\r\n")
	l = strings.ReplaceAll(l, "Terminal Tetris", "\033[1mTerminal Tetris\033[0m")
	return template.New("layout").Funcs(funcMap).Parse(l)
}

// stack returns the cells to draw, the falling tetromino included, row 0 at the top.
func stack(f *tetris.Frame, noColor bool) [tetris.Height][tetris.Width]string {
	rendered := [tetris.Height][tetris.Width]string{}
	if f == nil {
		for y := range rendered {
			for x := range rendered[y] {
				rendered[y][x] = emptyCell
			}
		}
		return rendered
	}

	for y := range tetris.Height {
		for x := range tetris.Width {
			rendered[y][x] = cell(f.Stack.Cell(x, y), noColor)
		}
	}

	if f.Tetromino != nil {
		for iy, row := range f.Tetromino.Cells() {
			for ix, c := range row {
				x, y := f.Tetromino.X+ix, f.Tetromino.Y+iy
				if c == 0 || y < 0 || y >= tetris.Height || x < 0 || x >= tetris.Width {
					continue
				}
				rendered[y][x] = cell(c, noColor)
			}
		}
	}
	return rendered
}

func cell(c tetris.Cell, noColor bool) string {
	color, ok := colorMap[c]
	switch {
	case !ok:
		return emptyCell
	case noColor:
		return filledCell
	default:
		return fmt.Sprintf("\x1b[7m\x1b[%sm%s\x1b[0m", color, filledCell)
	}
}
