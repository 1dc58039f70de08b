package ui

import (
	"fmt"
	"sync"
	"time"

	"pico-snake/game/types"

	"github.com/gdamore/tcell/v2"
)

const halfBlock = '▀'

// TerminalSurface shows the panel in a terminal. Every cell covers
// scale x 2*scale pixels using a half block: the foreground paints the
// upper half and the background the lower half.
type TerminalSurface struct {
	*Framebuffer
	screen tcell.Screen
	scale  int

	mu     sync.Mutex
	onKey  func(types.Key)
	onQuit func()
	done   chan struct{}
}

// NewTerminalSurface wraps screen. A nil screen opens the real terminal.
func NewTerminalSurface(screen tcell.Screen, width, height, scale int) (*TerminalSurface, error) {
	if screen == nil {
		s, err := tcell.NewScreen()
		if err != nil {
			return nil, fmt.Errorf("open terminal: %w", err)
		}
		screen = s
	}
	if err := screen.Init(); err != nil {
		return nil, fmt.Errorf("init terminal: %w", err)
	}
	screen.HideCursor()

	ts := &TerminalSurface{
		Framebuffer: NewFramebuffer(width, height),
		screen:      screen,
		scale:       max(scale, 1),
		done:        make(chan struct{}),
	}
	go ts.pollEvents()
	return ts, nil
}

func (ts *TerminalSurface) OnKey(fn func(types.Key)) {
	ts.mu.Lock()
	defer ts.mu.Unlock()
	ts.onKey = fn
}

func (ts *TerminalSurface) OnQuit(fn func()) {
	ts.mu.Lock()
	defer ts.mu.Unlock()
	ts.onQuit = fn
}

// Flush samples the framebuffer into terminal cells and shows them
func (ts *TerminalSurface) Flush() error {
	cols := ts.width / ts.scale
	rows := ts.height / (2 * ts.scale)

	for row := 0; row < rows; row++ {
		for col := 0; col < cols; col++ {
			x := col * ts.scale
			top := ts.At(x, 2*row*ts.scale)
			bottom := ts.At(x, (2*row+1)*ts.scale)
			style := tcell.StyleDefault.Foreground(tcellColor(top)).Background(tcellColor(bottom))
			ts.screen.SetContent(col, row, halfBlock, nil, style)
		}
	}

	for _, t := range ts.texts {
		col := t.X / ts.scale
		row := t.Y / (2 * ts.scale)
		for i, r := range []rune(t.Text) {
			bg := ts.At((col+i)*ts.scale, 2*row*ts.scale)
			style := tcell.StyleDefault.Foreground(tcellColor(t.Color)).Background(tcellColor(bg))
			ts.screen.SetContent(col+i, row, r, nil, style)
		}
	}

	ts.screen.Show()
	return nil
}

// Close restores the terminal
func (ts *TerminalSurface) Close() error {
	ts.screen.Fini()
	select {
	case <-ts.done:
	case <-time.After(time.Second):
	}
	return nil
}

func (ts *TerminalSurface) pollEvents() {
	defer close(ts.done)
	for {
		ev := ts.screen.PollEvent()
		if ev == nil {
			return
		}
		switch ev := ev.(type) {
		case *tcell.EventKey:
			ts.handleKey(ev)
		case *tcell.EventResize:
			ts.screen.Sync()
		}
	}
}

func (ts *TerminalSurface) handleKey(ev *tcell.EventKey) {
	ts.mu.Lock()
	onKey, onQuit := ts.onKey, ts.onQuit
	ts.mu.Unlock()

	key := types.KeyNone
	switch ev.Key() {
	case tcell.KeyUp:
		key = types.KeyUp
	case tcell.KeyDown:
		key = types.KeyDown
	case tcell.KeyLeft:
		key = types.KeyLeft
	case tcell.KeyRight:
		key = types.KeyRight
	case tcell.KeyEscape, tcell.KeyCtrlC:
		if onQuit != nil {
			onQuit()
		}
		return
	case tcell.KeyRune:
		switch ev.Rune() {
		case 'w', 'k':
			key = types.KeyUp
		case 's', 'j':
			key = types.KeyDown
		case 'a', 'h':
			key = types.KeyLeft
		case 'd', 'l':
			key = types.KeyRight
		case 'q':
			if onQuit != nil {
				onQuit()
			}
			return
		}
	}

	if key != types.KeyNone && onKey != nil {
		onKey(key)
	}
}

func tcellColor(c types.Color) tcell.Color {
	r, g, b := c.RGB()
	return tcell.NewRGBColor(int32(r), int32(g), int32(b))
}
