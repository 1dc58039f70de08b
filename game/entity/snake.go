package entity

import (
	"strings"

	"pico-snake/game/types"
)

const initialCapacity = 16

// Segment is one occupied tile of the body together with the direction
// the snake was travelling when the tile was entered.
type Segment struct {
	Pos types.Position
	Dir types.Direction
}

// Snake stores its body in a ring buffer ordered head to tail, so pushing
// a new head and dropping the tail are both constant time.
type Snake struct {
	grid      types.Grid
	ring      []Segment
	head      int // index of the head inside ring
	length    int
	Direction types.Direction
}

// NewSnake creates a stationary snake of length 1 at the grid center
func NewSnake(grid types.Grid) *Snake {
	s := &Snake{
		grid: grid,
		ring: make([]Segment, initialCapacity),
	}
	s.ring[0] = Segment{Pos: grid.Center(), Dir: types.Stationary}
	s.length = 1
	return s
}

// NewSnakeFrom builds a snake from head-to-tail positions moving in dir.
func NewSnakeFrom(grid types.Grid, dir types.Direction, body ...types.Position) *Snake {
	s := &Snake{
		grid:      grid,
		ring:      make([]Segment, max(initialCapacity, len(body))),
		Direction: dir,
	}
	for i, p := range body {
		s.ring[i] = Segment{Pos: p, Dir: dir}
	}
	s.length = len(body)
	if s.length == 0 {
		s.ring[0] = Segment{Pos: grid.Center()}
		s.length = 1
	}
	return s
}

// Len returns the number of body segments
func (s *Snake) Len() int {
	return s.length
}

// Grid returns the grid the snake lives on
func (s *Snake) Grid() types.Grid {
	return s.grid
}

// Head returns the head segment
func (s *Snake) Head() Segment {
	return s.ring[s.head]
}

// At returns the i-th segment counting from the head.
func (s *Snake) At(i int) Segment {
	return s.ring[(s.head+i)%len(s.ring)]
}

// Tail returns the last segment
func (s *Snake) Tail() Segment {
	return s.At(s.length - 1)
}

// Push inserts a new head; the old head becomes the second segment.
func (s *Snake) Push(pos types.Position, dir types.Direction) {
	if s.length == len(s.ring) {
		s.grow()
	}
	s.head = (s.head - 1 + len(s.ring)) % len(s.ring)
	s.ring[s.head] = Segment{Pos: pos, Dir: dir}
	s.length++
}

// PopTail removes the tail segment. A single-segment snake is left alone.
func (s *Snake) PopTail() {
	if s.length <= 1 {
		return
	}
	s.length--
}

func (s *Snake) grow() {
	ring := make([]Segment, len(s.ring)*2)
	for i := 0; i < s.length; i++ {
		ring[i] = s.At(i)
	}
	s.ring = ring
	s.head = 0
}

// Contains reports whether any segment occupies pos
func (s *Snake) Contains(pos types.Position) bool {
	for i := 0; i < s.length; i++ {
		if s.At(i).Pos == pos {
			return true
		}
	}
	return false
}

// IsMoving reports whether the snake has a non-zero direction
func (s *Snake) IsMoving() bool {
	return !s.Direction.IsZero()
}

// AdvanceHead returns where the head would land moving one step in dir.
// The body is not modified.
func (s *Snake) AdvanceHead(dir types.Direction) types.Position {
	head := s.Head().Pos
	return s.grid.Wrap(types.Position{X: head.X + dir.DX, Y: head.Y + dir.DY})
}

// UpdateDirection applies a button press. A horizontal key only changes the
// x direction while the snake is not already moving horizontally, and the
// same holds for vertical keys, so the snake can never reverse onto itself.
func (s *Snake) UpdateDirection(key types.Key) {
	d := s.Direction

	switch key {
	case types.KeyLeft:
		if s.Direction.DX == 0 {
			d.DX = -1
		}
		d.DY = 0
	case types.KeyRight:
		if s.Direction.DX == 0 {
			d.DX = 1
		}
		d.DY = 0
	case types.KeyDown:
		d.DX = 0
		if s.Direction.DY == 0 {
			d.DY = 1
		}
	case types.KeyUp:
		d.DX = 0
		if s.Direction.DY == 0 {
			d.DY = -1
		}
	}

	s.Direction = d
}

// Positions returns the occupied tiles from head to tail
func (s *Snake) Positions() []types.Position {
	out := make([]types.Position, s.length)
	for i := range out {
		out[i] = s.At(i).Pos
	}
	return out
}

// SnapshotString encodes the body as "x,y;x,y;..." from head to tail.
func (s *Snake) SnapshotString() string {
	var b strings.Builder
	for i := 0; i < s.length; i++ {
		if i > 0 {
			b.WriteByte(';')
		}
		b.WriteString(s.At(i).Pos.String())
	}
	return b.String()
}
