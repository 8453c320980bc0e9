package tetris

import "math/rand/v2"

// Cell is a single stack position. 0 is empty, 1 to 7 is the kind that filled it.
type Cell uint8

// State is one orientation of a tetromino inside its 4x4 bounding box.
type State [4][4]Cell

// Kind identifies one of the seven tetrominoes in catalog order.
type Kind int

const (
	I Kind = iota
	O
	T
	S
	Z
	J
	L

	// NoKind is the previous kind before anything has been drawn.
	NoKind Kind = -1
)

func (k Kind) String() string {
	if k < I || k > L {
		return "-"
	}
	return shapes[k].Name
}

// Shape is the catalog entry of a Kind.
type Shape struct {
	Kind   Kind
	Name   string
	Color  Cell
	States []State
	// SpawnX is the column where the bounding box spawns. Spawn row is always 0.
	SpawnX int
}

/*
.	I		O		T		S		Z
.	O O O O		O O		O O O		X O O		O O X
.			O O		X O X		O O X		X O O

J and L stand four cells tall in their first state and lie four cells wide in the second.
*/
var shapes = [7]Shape{
	{
		Kind: I, Name: "I", Color: 1, SpawnX: 4,
		States: []State{
			{
				{1, 1, 1, 1},
				{0, 0, 0, 0},
				{0, 0, 0, 0},
				{0, 0, 0, 0},
			},
			{
				{1, 0, 0, 0},
				{1, 0, 0, 0},
				{1, 0, 0, 0},
				{1, 0, 0, 0},
			},
		},
	},
	{
		Kind: O, Name: "O", Color: 2, SpawnX: 5,
		States: []State{
			{
				{2, 2, 0, 0},
				{2, 2, 0, 0},
				{0, 0, 0, 0},
				{0, 0, 0, 0},
			},
		},
	},
	{
		Kind: T, Name: "T", Color: 3, SpawnX: 4,
		States: []State{
			{
				{3, 3, 3, 0},
				{0, 3, 0, 0},
				{0, 0, 0, 0},
				{0, 0, 0, 0},
			},
			{
				{3, 0, 0, 0},
				{3, 3, 0, 0},
				{3, 0, 0, 0},
				{0, 0, 0, 0},
			},
		},
	},
	{
		Kind: S, Name: "S", Color: 4, SpawnX: 4,
		States: []State{
			{
				{0, 4, 4, 0},
				{4, 4, 0, 0},
				{0, 0, 0, 0},
				{0, 0, 0, 0},
			},
			{
				{4, 0, 0, 0},
				{4, 4, 0, 0},
				{0, 4, 0, 0},
				{0, 0, 0, 0},
			},
		},
	},
	{
		Kind: Z, Name: "Z", Color: 5, SpawnX: 4,
		States: []State{
			{
				{5, 5, 0, 0},
				{0, 5, 5, 0},
				{0, 0, 0, 0},
				{0, 0, 0, 0},
			},
			{
				{0, 5, 0, 0},
				{5, 5, 0, 0},
				{5, 0, 0, 0},
				{0, 0, 0, 0},
			},
		},
	},
	{
		Kind: J, Name: "J", Color: 6, SpawnX: 4,
		States: []State{
			{
				{0, 6, 0, 0},
				{0, 6, 0, 0},
				{0, 6, 0, 0},
				{6, 6, 0, 0},
			},
			{
				{6, 6, 6, 6},
				{0, 0, 0, 6},
				{0, 0, 0, 0},
				{0, 0, 0, 0},
			},
			{
				{6, 6, 0, 0},
				{6, 0, 0, 0},
				{6, 0, 0, 0},
				{6, 0, 0, 0},
			},
			{
				{6, 0, 0, 0},
				{6, 6, 6, 6},
				{0, 0, 0, 0},
				{0, 0, 0, 0},
			},
		},
	},
	{
		Kind: L, Name: "L", Color: 7, SpawnX: 4,
		States: []State{
			{
				{7, 0, 0, 0},
				{7, 0, 0, 0},
				{7, 0, 0, 0},
				{7, 7, 0, 0},
			},
			{
				{0, 0, 0, 7},
				{7, 7, 7, 7},
				{0, 0, 0, 0},
				{0, 0, 0, 0},
			},
			{
				{7, 7, 0, 0},
				{0, 7, 0, 0},
				{0, 7, 0, 0},
				{0, 7, 0, 0},
			},
			{
				{7, 7, 7, 7},
				{7, 0, 0, 0},
				{0, 0, 0, 0},
				{0, 0, 0, 0},
			},
		},
	},
}

// Shapes returns the seven catalog entries in Kind order.
// The returned slice is a copy; the rotation states are shared and must not be modified.
func Shapes() []Shape {
	s := make([]Shape, len(shapes))
	copy(s, shapes[:])
	return s
}

// Rand is the part of *math/rand/v2.Rand needed to draw tetrominoes.
type Rand interface {
	IntN(n int) int
}

// globalRand draws from the randomly seeded top level source.
type globalRand struct{}

func (globalRand) IntN(n int) int { return rand.IntN(n) }

// PickKind draws a kind uniformly. When the draw repeats prev it draws once more and keeps
// the second result, whatever it is.
func PickKind(r Rand, prev Kind) Kind {
	k := Kind(r.IntN(len(shapes)))
	if k == prev {
		k = Kind(r.IntN(len(shapes)))
	}
	return k
}
