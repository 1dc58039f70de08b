package ui

import "pico-snake/game/types"

// Surface is a pixel buffer with the drawing primitives of the LCD driver.
// Nothing reaches the physical display until Flush.
type Surface interface {
	Size() (width, height int)
	Clear(c types.Color)
	FillRect(x, y, w, h int, c types.Color, filled bool)
	DrawCircle(cx, cy, r int, c types.Color, filled bool)
	DrawText(s string, x, y int, c types.Color)
	Flush() error
}

// Buttons delivers debounced, edge-triggered direction presses.
type Buttons interface {
	OnKey(fn func(types.Key))
	OnQuit(fn func())
}

// Display is a surface that also owns the buttons, like the LCD board
type Display interface {
	Surface
	Buttons
	Close() error
}
