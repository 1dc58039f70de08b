package ui

import (
	"fmt"
	"strconv"

	"pico-snake/game/entity"
	"pico-snake/game/types"
)

const (
	lineThickness = 4

	statsY       = 125
	statsSpacing = 39
	statsWidth   = 36
)

// PlayerColumn is one entry of the scoreboard strip
type PlayerColumn struct {
	ID    string
	Team  string
	Color types.Color
}

// Scores is the live score table shown in the scoreboard
type Scores interface {
	Score(player string) int
	Self() string
}

// Renderer translates game state into draw calls on a Surface
type Renderer struct {
	surface  Surface
	tileSize int
	players  []PlayerColumn
	scores   Scores
}

func NewRenderer(surface Surface, tileSize int, players []PlayerColumn, scores Scores) *Renderer {
	return &Renderer{
		surface:  surface,
		tileSize: tileSize,
		players:  players,
		scores:   scores,
	}
}

func (r *Renderer) Background() {
	r.surface.Clear(types.ColorBackground)
}

// Scoreboard draws the strip along the bottom edge with one column per player.
func (r *Renderer) Scoreboard() {
	width, height := r.surface.Size()
	boxY := statsY - 2
	boxHeight := height - boxY

	r.surface.FillRect(0, boxY, width, boxHeight, types.ColorStatsBG, true)

	self := ""
	if r.scores != nil {
		self = r.scores.Self()
	}

	for i, p := range r.players {
		x := 4 + i*statsSpacing
		if i > 0 {
			bar := p.Color
			if r.players[i-1].Team != p.Team {
				bar = types.ColorDivider
			}
			r.surface.FillRect(x-3, boxY, 1, boxHeight, bar, true)
		}
		if p.ID == self {
			r.surface.FillRect(x-1, boxY+1, statsWidth, boxHeight-2, types.ColorHighlight, true)
		}

		score := 0
		if r.scores != nil {
			score = r.scores.Score(p.ID)
		}
		r.surface.DrawText(":", x+8, statsY, p.Color)
		r.surface.DrawText(p.ID, x+3, statsY, p.Color)
		r.surface.DrawText(fmt.Sprintf("%2d", score), x+16, statsY, p.Color)
	}
}

// GameObjects draws the food and then the snake on top of it
func (r *Renderer) GameObjects(snake *entity.Snake, food *entity.Food) {
	if food != nil {
		r.Food(food)
	}
	if snake != nil {
		r.Snake(snake)
	}
}

// Food draws a filled circle centered in the food's tile
func (r *Renderer) Food(food *entity.Food) {
	cx, cy := r.tileCenter(food.Pos)
	r.surface.DrawCircle(cx, cy, (r.tileSize-2)/2, types.ColorFood, true)
}

// Snake draws a circle for the head and a thick segment between each pair
// of neighbouring tiles. Pairs that are more than one tile apart straddle
// the toroidal edge and are left undrawn.
func (r *Renderer) Snake(snake *entity.Snake) {
	head := snake.Head().Pos
	cx, cy := r.tileCenter(head)
	r.surface.DrawCircle(cx, cy, (r.tileSize-4)/2, types.ColorSnake, true)

	prev := head
	for i := 1; i < snake.Len(); i++ {
		cur := snake.At(i).Pos
		if adjacent(prev, cur) {
			x1, y1 := r.tileCenter(cur)
			x2, y2 := r.tileCenter(prev)
			r.line(x1, y1, x2, y2)
		}
		prev = cur
	}
}

func (r *Renderer) StartHint() {
	r.surface.DrawText("<-- Use joystick", 18, 30, types.ColorText)
	r.surface.DrawText("to start game", 60, 40, types.ColorText)
}

func (r *Renderer) ScoreOverlay(previous int) {
	r.surface.DrawText("SCORE", 90, 60, types.ColorScore)
	r.surface.DrawText(strconv.Itoa(previous), 150, 60, types.ColorScore)
}

func (r *Renderer) Flush() error {
	return r.surface.Flush()
}

func (r *Renderer) tileCenter(p types.Position) (int, int) {
	return p.X*r.tileSize + r.tileSize/2, p.Y*r.tileSize + r.tileSize/2
}

// line draws an axis-aligned bar between two tile centers
func (r *Renderer) line(x1, y1, x2, y2 int) {
	offset := lineThickness / 2
	startX := min(x1, x2) - offset
	startY := min(y1, y2) - offset

	var w, h int
	switch {
	case x1 == x2:
		w = offset * 2
		h = offset + abs(y1-y2) + offset
	case y1 == y2:
		w = offset + abs(x1-x2) + offset
		h = offset * 2
	default:
		return
	}
	r.surface.FillRect(startX, startY, w, h, types.ColorSnake, true)
}

// adjacent reports whether a and b are at most one tile apart on each axis
func adjacent(a, b types.Position) bool {
	return abs(a.X-b.X) <= 1 && abs(a.Y-b.Y) <= 1
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
