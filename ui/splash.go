package ui

import (
	"context"
	"strconv"
	"time"

	"pico-snake/game/types"
)

const (
	splashTextX  = 12
	splashTextY  = 90
	splashLineH  = 12
	countdownX   = 190
	countdownY   = 50
	countdownGap = time.Second
)

// Splash draws the title in the team color followed by status lines.
func Splash(s Surface, letters types.Color, lines ...string) error {
	drawSplash(s, letters, lines)
	return s.Flush()
}

func drawSplash(s Surface, letters types.Color, lines []string) {
	s.Clear(types.ColorBackground)
	s.DrawText("PiCo", 100, 50, letters)
	s.DrawText("Snake", 100, 62, letters)
	for i, line := range lines {
		s.DrawText(line, splashTextX, splashTextY+i*splashLineH, types.ColorText)
	}
}

// Countdown redraws the splash with from, from-1, ..., 1 in the corner,
// one second each. It stops early when ctx is cancelled.
func Countdown(ctx context.Context, s Surface, from int, letters types.Color, lines ...string) error {
	for n := from; n > 0; n-- {
		drawSplash(s, letters, lines)
		s.DrawText(strconv.Itoa(n), countdownX, countdownY, types.ColorText)
		if err := s.Flush(); err != nil {
			return err
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(countdownGap):
		}
	}
	return nil
}
