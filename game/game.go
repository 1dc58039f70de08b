package game

import (
	"context"
	"fmt"
	"log"
	"time"

	"pico-snake/game/entity"
	"pico-snake/game/manager"
	"pico-snake/game/types"

	"golang.org/x/exp/rand"
)

// View is the render layer the game draws through once per active tick
type View interface {
	Background()
	Scoreboard()
	GameObjects(snake *entity.Snake, food *entity.Food)
	StartHint()
	ScoreOverlay(previous int)
	Flush() error
}

// Reporter receives serialized score and game state for other players
type Reporter interface {
	ReportScore(score int)
	ReportGameState(state string)
}

// Sounder plays optional audio cues
type Sounder interface {
	Eat()
	Crash()
}

// Config holds grid geometry and speed tuning
type Config struct {
	Grid     types.Grid
	TileSize int

	// Frame skip is Slow at score 0 and Fast at ScoreCeiling and above
	Slow         int
	Fast         int
	ScoreCeiling int

	// BaseRefresh is the delay at the end of every tick
	BaseRefresh time.Duration
	// Countdown is the number of active ticks the score stays on screen
	Countdown int

	// Optional collaborators
	Rand   rand.Source
	Sound  Sounder
	Logger *log.Logger
}

// DefaultConfig matches the 240x135 panel with 12px tiles
func DefaultConfig() Config {
	return Config{
		Grid:         types.Grid{Width: 20, Height: 10},
		TileSize:     12,
		Slow:         12,
		Fast:         2,
		ScoreCeiling: 50,
		BaseRefresh:  10 * time.Millisecond,
		Countdown:    20,
	}
}

// Game owns the level state and advances it one tick at a time. Tick must
// only be called from a single goroutine; Press may be called from any.
type Game struct {
	cfg      Config
	view     View
	reporter Reporter
	logger   *log.Logger

	collisions *manager.CollisionManager
	foods      *manager.FoodManager
	states     *manager.StateManager

	snake *entity.Snake
	food  *entity.Food
	input InputLatch

	frameCount    int
	score         int
	previousScore int
}

func NewGame(cfg Config, view View, reporter Reporter) *Game {
	logger := cfg.Logger
	if logger == nil {
		logger = log.Default()
	}

	g := &Game{
		cfg:        cfg,
		view:       view,
		reporter:   reporter,
		logger:     logger,
		collisions: manager.NewCollisionManager(cfg.Grid),
		foods:      manager.NewFoodManager(cfg.Grid, cfg.Rand),
		states:     manager.NewStateManager(cfg.Countdown),
	}
	g.initLevel()
	return g
}

// initLevel discards the snake, food and score and starts a fresh level
func (g *Game) initLevel() {
	g.snake = entity.NewSnake(g.cfg.Grid)
	g.food, _ = g.foods.NewFood(g.snake)
	g.input.Clear()
	g.SetScore(0)
	g.reportGameState()
}

// Press latches a button press for the next active tick
func (g *Game) Press(k types.Key) {
	g.input.Press(k)
}

// SetScore is the only way the score changes; every call is broadcast.
func (g *Game) SetScore(score int) {
	g.score = score
	g.reporter.ReportScore(score)
}

func (g *Game) Score() int {
	return g.score
}

func (g *Game) PreviousScore() int {
	return g.previousScore
}

func (g *Game) State() manager.State {
	return g.states.State()
}

func (g *Game) Snake() *entity.Snake {
	return g.snake
}

func (g *Game) Food() *entity.Food {
	return g.food
}

// Snapshot encodes "food_x,food_y;x,y;...;x,y" with the snake head first.
func (g *Game) Snapshot() string {
	return fmt.Sprintf("%s;%s", g.food.Pos, g.snake.SnapshotString())
}

func (g *Game) reportGameState() {
	g.reporter.ReportGameState(g.Snapshot())
}

// Run ticks until ctx is cancelled
func (g *Game) Run(ctx context.Context) error {
	for {
		if err := g.Tick(ctx); err != nil {
			return err
		}
	}
}

// Tick runs Update and then waits for the base refresh delay, which is the
// loop's only suspension point.
func (g *Game) Tick(ctx context.Context) error {
	g.Update()

	if g.cfg.BaseRefresh <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(g.cfg.BaseRefresh)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// Update advances the frame counter and, on ticks selected by the current
// frame skip, simulates one step and redraws the panel.
func (g *Game) Update() {
	if g.frameCount%g.cfg.FrameSkip(g.score) == 0 {
		g.step()
	}
	g.frameCount++
}

func (g *Game) step() {
	g.view.Background()
	g.view.Scoreboard()

	switch g.states.State() {
	case manager.ReadyToStart:
		g.view.GameObjects(g.snake, g.food)
		g.view.StartHint()
		// the first press only starts the game; it is applied next step
		if g.input.Peek() != types.KeyNone {
			g.states.Start()
			g.logger.Printf("game: %s -> %s", manager.ReadyToStart, manager.Playing)
		}

	case manager.Playing:
		g.view.GameObjects(g.snake, g.food)
		if key := g.input.Take(); key != types.KeyNone {
			g.snake.UpdateDirection(key)
		}
		g.move()

	case manager.ShowScore:
		g.view.GameObjects(g.snake, g.food)
		g.view.ScoreOverlay(g.previousScore)
		if g.states.TickCooldown() {
			g.initLevel()
			g.logger.Printf("game: %s -> %s", manager.ShowScore, manager.ReadyToStart)
		}
	}

	if err := g.view.Flush(); err != nil {
		g.logger.Printf("game: flush display: %v", err)
	}
}

func (g *Game) move() {
	dir := g.snake.Direction
	candidate := g.snake.AdvanceHead(dir)

	switch g.collisions.Classify(candidate, g.snake, g.food) {
	case manager.Eat:
		g.snake.Push(candidate, dir)
		g.SetScore(g.score + 1)
		if g.cfg.Sound != nil {
			g.cfg.Sound.Eat()
		}
		if !g.foods.Respawn(g.food, g.snake) {
			g.logger.Printf("game: board full at score %d", g.score)
			g.endRound()
		}

	case manager.SelfCollision:
		g.endRound()

	default:
		g.snake.Push(candidate, dir)
		g.snake.PopTail()
		g.reportGameState()
	}
}

func (g *Game) endRound() {
	g.previousScore = g.score
	g.SetScore(0)
	g.states.EndRound()
	if g.cfg.Sound != nil {
		g.cfg.Sound.Crash()
	}
	g.logger.Printf("game: %s -> %s (score %d)", manager.Playing, manager.ShowScore, g.previousScore)
}
