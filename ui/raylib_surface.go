package ui

import (
	"pico-snake/game/types"

	rl "github.com/gen2brain/raylib-go/raylib"
)

const raylibFontSize = 8

// RaylibSurface emulates the LCD in a window. Drawing goes to an offscreen
// render texture which Flush scales onto the window. raylib is not thread
// safe: every method must be called from the goroutine that created it.
type RaylibSurface struct {
	width, height int
	scale         int
	target        rl.RenderTexture2D
	drawing       bool

	onKey  func(types.Key)
	onQuit func()
}

// NewRaylibSurface opens a window of width*scale by height*scale pixels
func NewRaylibSurface(title string, width, height, scale int) *RaylibSurface {
	scale = max(scale, 1)
	rl.SetTraceLogLevel(rl.LogWarning)
	rl.InitWindow(int32(width*scale), int32(height*scale), title)

	return &RaylibSurface{
		width:  width,
		height: height,
		scale:  scale,
		target: rl.LoadRenderTexture(int32(width), int32(height)),
	}
}

func (s *RaylibSurface) Size() (int, int) {
	return s.width, s.height
}

func (s *RaylibSurface) OnKey(fn func(types.Key)) {
	s.onKey = fn
}

func (s *RaylibSurface) OnQuit(fn func()) {
	s.onQuit = fn
}

func (s *RaylibSurface) begin() {
	if !s.drawing {
		rl.BeginTextureMode(s.target)
		s.drawing = true
	}
}

func (s *RaylibSurface) Clear(c types.Color) {
	s.begin()
	rl.ClearBackground(raylibColor(c))
}

func (s *RaylibSurface) FillRect(x, y, w, h int, c types.Color, filled bool) {
	s.begin()
	if filled {
		rl.DrawRectangle(int32(x), int32(y), int32(w), int32(h), raylibColor(c))
		return
	}
	rl.DrawRectangleLines(int32(x), int32(y), int32(w), int32(h), raylibColor(c))
}

func (s *RaylibSurface) DrawCircle(cx, cy, r int, c types.Color, filled bool) {
	s.begin()
	if filled {
		rl.DrawCircle(int32(cx), int32(cy), float32(r), raylibColor(c))
		return
	}
	rl.DrawCircleLines(int32(cx), int32(cy), float32(r), raylibColor(c))
}

func (s *RaylibSurface) DrawText(text string, x, y int, c types.Color) {
	s.begin()
	rl.DrawText(text, int32(x), int32(y), raylibFontSize, raylibColor(c))
}

// Flush blits the render texture to the window, then polls the arrow keys
// and the close button.
func (s *RaylibSurface) Flush() error {
	if s.drawing {
		rl.EndTextureMode()
		s.drawing = false
	}

	w, h := float32(s.width), float32(s.height)
	// render textures are stored upside down
	src := rl.NewRectangle(0, 0, w, -h)
	dst := rl.NewRectangle(0, 0, w*float32(s.scale), h*float32(s.scale))

	rl.BeginDrawing()
	rl.ClearBackground(rl.Black)
	rl.DrawTexturePro(s.target.Texture, src, dst, rl.NewVector2(0, 0), 0, rl.White)
	rl.EndDrawing()

	s.pollKeys()
	return nil
}

func (s *RaylibSurface) pollKeys() {
	if rl.WindowShouldClose() || rl.IsKeyPressed(rl.KeyQ) {
		if s.onQuit != nil {
			s.onQuit()
		}
		return
	}
	if s.onKey == nil {
		return
	}

	switch {
	case rl.IsKeyPressed(rl.KeyUp), rl.IsKeyPressed(rl.KeyW):
		s.onKey(types.KeyUp)
	case rl.IsKeyPressed(rl.KeyDown), rl.IsKeyPressed(rl.KeyS):
		s.onKey(types.KeyDown)
	case rl.IsKeyPressed(rl.KeyLeft), rl.IsKeyPressed(rl.KeyA):
		s.onKey(types.KeyLeft)
	case rl.IsKeyPressed(rl.KeyRight), rl.IsKeyPressed(rl.KeyD):
		s.onKey(types.KeyRight)
	}
}

// Close releases the render texture and the window
func (s *RaylibSurface) Close() error {
	rl.UnloadRenderTexture(s.target)
	rl.CloseWindow()
	return nil
}

func raylibColor(c types.Color) rl.Color {
	r, g, b := c.RGB()
	return rl.Color{R: r, G: g, B: b, A: 255}
}
