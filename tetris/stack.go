package tetris

const (
	// Width and Height of the stack. Rows are 0 > 15 top to bottom, columns 0 > 9 left to right.
	Width  = 10
	Height = 16

	// boardClearBonus is awarded when a clear leaves no rows behind.
	boardClearBonus = 1000
)

// Stack is the playfield. Each row holds Width cells.
type Stack [][]Cell

func emptyStack() Stack {
	s := make(Stack, Height)
	for i := range s {
		s[i] = make([]Cell, Width)
	}
	return s
}

// Cell returns the value at column x, row y, or 0 when the position is outside the stack.
func (s Stack) Cell(x, y int) Cell {
	if y < 0 || y >= len(s) || x < 0 || x >= len(s[y]) {
		return 0
	}
	return s[y][x]
}

func (s Stack) copy() Stack {
	c := make(Stack, len(s))
	for i := range s {
		c[i] = make([]Cell, len(s[i]))
		copy(c[i], s[i])
	}
	return c
}

func complete(row []Cell) bool {
	for _, c := range row {
		if c == 0 {
			return false
		}
	}
	return true
}

// ClearLines removes every complete row and returns the points they are worth at the given
// level, plus the board clear bonus when nothing is left, and how many rows went away.
// The stack is shorter afterwards and must be repadded with Repad.
func (s *Stack) ClearLines(level uint32) (points uint32, removed int) {
	rows := *s
	for i := 0; i < len(rows); {
		if !complete(rows[i]) {
			i++
			continue
		}
		points += level
		removed++
		// the next row slides into i, so i is checked again.
		rows = append(rows[:i], rows[i+1:]...)
	}
	if len(rows) == 0 {
		points += boardClearBonus
	}
	*s = rows
	return points, removed
}

// Repad pushes empty rows on top until the stack is Height rows tall again.
// pushed is called once per row.
func (s *Stack) Repad(pushed func()) {
	for len(*s) < Height {
		*s = append(Stack{make([]Cell, Width)}, *s...)
		if pushed != nil {
			pushed()
		}
	}
}

// Merge writes the tetromino cells into the stack. Cells that fall outside the stack are
// skipped and counted.
func (s Stack) Merge(t *Tetromino) (clamped int) {
	state := t.state()
	for iy, row := range state {
		for ix, c := range row {
			if c == 0 {
				continue
			}
			x, y := t.X+ix, t.Y+iy
			if y < 0 || y >= len(s) || x < 0 || x >= len(s[y]) {
				clamped++
				continue
			}
			s[y][x] = c
		}
	}
	return clamped
}
