package types

import "fmt"

// Grid represents the game grid dimensions
type Grid struct {
	Width  int
	Height int
}

// Cells returns the number of tiles on the grid
func (g Grid) Cells() int {
	return g.Width * g.Height
}

// Center returns the tile a fresh snake starts on
func (g Grid) Center() Position {
	return Position{X: g.Width / 2, Y: g.Height / 2}
}

// Wrap folds a position back onto the toroidal grid.
func (g Grid) Wrap(p Position) Position {
	return Position{X: mod(p.X, g.Width), Y: mod(p.Y, g.Height)}
}

// Contains reports whether p lies inside the grid bounds
func (g Grid) Contains(p Position) bool {
	return p.X >= 0 && p.X < g.Width && p.Y >= 0 && p.Y < g.Height
}

// Position is a tile coordinate on the grid
type Position struct {
	X, Y int
}

func (p Position) String() string {
	return fmt.Sprintf("%d,%d", p.X, p.Y)
}

// Direction is a unit step along one axis, or the zero value for a stationary snake
type Direction struct {
	DX, DY int
}

// Stationary is the direction of a snake that has not received any input yet
var Stationary = Direction{}

// IsZero reports whether the direction does not move at all
func (d Direction) IsZero() bool {
	return d == Stationary
}

// Key is a discrete button symbol delivered by the display's input sources
type Key int32

const (
	KeyNone Key = iota
	KeyUp
	KeyDown
	KeyLeft
	KeyRight
)

func (k Key) String() string {
	switch k {
	case KeyUp:
		return "UP"
	case KeyDown:
		return "DOWN"
	case KeyLeft:
		return "LEFT"
	case KeyRight:
		return "RIGHT"
	default:
		return "NONE"
	}
}

// Color is an RGB565 value as understood by the LCD panel
type Color uint16

// RGB expands the color to 8 bits per channel
func (c Color) RGB() (r, g, b uint8) {
	r5 := uint8(c>>11) & 0x1f
	g6 := uint8(c>>5) & 0x3f
	b5 := uint8(c) & 0x1f
	return r5<<3 | r5>>2, g6<<2 | g6>>4, b5<<3 | b5>>2
}

// Palette
const (
	ColorBackground Color = 0x0000
	ColorSnake      Color = 0x001f
	ColorFood       Color = 0x07e0
	ColorTitle      Color = 0xfff0
	ColorScore      Color = 0xffff
	ColorText       Color = 0xffff
	ColorStatsBG    Color = 0xffff
	ColorHighlight  Color = 0x07ff
	ColorDivider    Color = 0x0000
)

func mod(v, n int) int {
	v %= n
	if v < 0 {
		v += n
	}
	return v
}
