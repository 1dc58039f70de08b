package ui

import "pico-snake/game/types"

// TextOp is a pending text draw; text is laid over the pixels at flush time.
type TextOp struct {
	Text  string
	X, Y  int
	Color types.Color
}

// Framebuffer is an in-memory RGB565 pixel buffer. Drawing outside the
// bounds is clipped.
type Framebuffer struct {
	width, height int
	pix           []types.Color
	texts         []TextOp
}

func NewFramebuffer(width, height int) *Framebuffer {
	return &Framebuffer{
		width:  width,
		height: height,
		pix:    make([]types.Color, width*height),
	}
}

func (fb *Framebuffer) Size() (int, int) {
	return fb.width, fb.height
}

// At returns the pixel at (x, y), or the background color outside the buffer
func (fb *Framebuffer) At(x, y int) types.Color {
	if x < 0 || y < 0 || x >= fb.width || y >= fb.height {
		return types.ColorBackground
	}
	return fb.pix[y*fb.width+x]
}

// Texts returns the text drawn since the last Clear
func (fb *Framebuffer) Texts() []TextOp {
	return fb.texts
}

func (fb *Framebuffer) set(x, y int, c types.Color) {
	if x < 0 || y < 0 || x >= fb.width || y >= fb.height {
		return
	}
	fb.pix[y*fb.width+x] = c
}

func (fb *Framebuffer) Clear(c types.Color) {
	for i := range fb.pix {
		fb.pix[i] = c
	}
	fb.texts = fb.texts[:0]
}

func (fb *Framebuffer) FillRect(x, y, w, h int, c types.Color, filled bool) {
	for py := y; py < y+h; py++ {
		for px := x; px < x+w; px++ {
			edge := py == y || py == y+h-1 || px == x || px == x+w-1
			if filled || edge {
				fb.set(px, py, c)
			}
		}
	}
}

func (fb *Framebuffer) DrawCircle(cx, cy, r int, c types.Color, filled bool) {
	outer := r * r
	inner := (r - 1) * (r - 1)
	for dy := -r; dy <= r; dy++ {
		for dx := -r; dx <= r; dx++ {
			d := dx*dx + dy*dy
			if d > outer {
				continue
			}
			if filled || d > inner {
				fb.set(cx+dx, cy+dy, c)
			}
		}
	}
}

func (fb *Framebuffer) DrawText(s string, x, y int, c types.Color) {
	fb.texts = append(fb.texts, TextOp{Text: s, X: x, Y: y, Color: c})
}

// Flush is a no-op; the buffer itself is the display
func (fb *Framebuffer) Flush() error {
	return nil
}
