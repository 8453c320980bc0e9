package tetris

// kicks are the horizontal offsets tried, in order, when a rotation doesn't fit in place.
var kicks = [5]int{0, -1, 1, -2, 2}

// Tetromino is the falling piece.
// X and Y locate the top-left corner of its 4x4 box in the stack. X can be negative when
// the leftmost box columns are empty. Y is never negative.
type Tetromino struct {
	Kind  Kind
	State int
	X, Y  int
}

func newTetromino(k Kind) *Tetromino {
	return &Tetromino{Kind: k, X: shapes[k].SpawnX}
}

func (t *Tetromino) states() []State { return shapes[t.Kind].States }
func (t *Tetromino) state() State    { return shapes[t.Kind].States[t.State] }

// Cells returns the current orientation of the tetromino.
func (t *Tetromino) Cells() State { return t.state() }

func (t *Tetromino) copy() *Tetromino {
	if t == nil {
		return nil
	}
	c := *t
	return &c
}

// CanPlace reports whether the tetromino would fit in the stack in the given state with its
// box at x, y. A cell fails when it lands left of column 0, under the last row, right of its
// row or on an occupied cell. Cells above the stack are not checked.
//
//		0 1 2 3 4 5 6 7 8 9			0 1 2 3
//	0	. . . . O O O . . .		0	O O O X
//	1	. . . . . O . . . .		1	X O X X
//	2	. . . . . C . . . .		2	X X X X
//
// The T above at x=4, y=0 fits; at y=1 its stem hits C.
func (t *Tetromino) CanPlace(s Stack, state, x, y int) bool {
	for iy, row := range t.states()[state] {
		for ix, c := range row {
			if c == 0 {
				continue
			}
			sx, sy := x+ix, y+iy
			if sy < 0 {
				continue
			}
			if sx < 0 || sy >= len(s) || sx >= len(s[sy]) || s[sy][sx] != 0 {
				return false
			}
		}
	}
	return true
}

// CanStay reports whether the tetromino fits where it is. A freshly spawned tetromino that
// can't stay means the game is over.
func (t *Tetromino) CanStay(s Stack) bool {
	return t.CanPlace(s, t.State, t.X, t.Y)
}

// Move places the tetromino at x, y if it fits there. It reports whether it moved.
func (t *Tetromino) Move(s Stack, x, y int) bool {
	if y < 0 || !t.CanPlace(s, t.State, x, y) {
		return false
	}
	t.X, t.Y = x, y
	return true
}

// Rotate moves to the next state, trying the kick offsets in order until one fits.
// When none does the tetromino is left as it was.
func (t *Tetromino) Rotate(s Stack) bool {
	next := (t.State + 1) % len(t.states())
	for _, k := range kicks {
		if t.CanPlace(s, next, t.X+k, t.Y) {
			t.State = next
			t.X += k
			return true
		}
	}
	return false
}
