package game

import (
	"context"
	"fmt"
	"io"
	"log"
	"testing"
	"time"

	"pico-snake/game/entity"
	"pico-snake/game/manager"
	"pico-snake/game/types"

	"golang.org/x/exp/rand"
)

type recordingView struct {
	backgrounds int
	scoreboards int
	objects     int
	hints       int
	overlays    []int
	flushes     int
}

func (v *recordingView) Background() { v.backgrounds++ }
func (v *recordingView) Scoreboard() { v.scoreboards++ }
func (v *recordingView) GameObjects(*entity.Snake, *entity.Food) { v.objects++ }
func (v *recordingView) StartHint() { v.hints++ }
func (v *recordingView) ScoreOverlay(previous int) { v.overlays = append(v.overlays, previous) }
func (v *recordingView) Flush() error { v.flushes++; return nil }

type recordingReporter struct {
	scores []int
	states []string
}

func (r *recordingReporter) ReportScore(score int) { r.scores = append(r.scores, score) }
func (r *recordingReporter) ReportGameState(state string) { r.states = append(r.states, state) }

type countingSound struct {
	eats, crashes int
}

func (s *countingSound) Eat() { s.eats++ }
func (s *countingSound) Crash() { s.crashes++ }

var (
	up    = types.Direction{DX: 0, DY: -1}
	right = types.Direction{DX: 1, DY: 0}
)

// everyTick returns a config that simulates on every tick without waiting
func everyTick() Config {
	cfg := DefaultConfig()
	cfg.Slow, cfg.Fast = 1, 1
	cfg.BaseRefresh = 0
	cfg.Countdown = 2
	cfg.Rand = rand.NewSource(1)
	cfg.Logger = log.New(io.Discard, "", 0)
	return cfg
}

func newTestGame(cfg Config) (*Game, *recordingView, *recordingReporter) {
	view := &recordingView{}
	reporter := &recordingReporter{}
	return NewGame(cfg, view, reporter), view, reporter
}

func TestNewGameStartsReady(t *testing.T) {
	g, _, reporter := newTestGame(everyTick())

	if g.State() != manager.ReadyToStart {
		t.Errorf("Expected %v, got %v", manager.ReadyToStart, g.State())
	}
	if g.Snake().Len() != 1 || g.Snake().IsMoving() {
		t.Error("Expected a stationary snake of length 1")
	}
	if g.Snake().Contains(g.Food().Pos) {
		t.Error("Food placed on the snake")
	}
	if len(reporter.scores) != 1 || reporter.scores[0] != 0 {
		t.Errorf("Expected one score report of 0, got %v", reporter.scores)
	}
	want := fmt.Sprintf("%d,%d;10,5", g.Food().Pos.X, g.Food().Pos.Y)
	if len(reporter.states) != 1 || reporter.states[0] != want {
		t.Errorf("Expected state %q, got %v", want, reporter.states)
	}
}

func TestFirstInputOnlyStartsGame(t *testing.T) {
	g, view, _ := newTestGame(everyTick())

	g.Update()
	if g.State() != manager.ReadyToStart {
		t.Fatalf("Expected to stay ready without input, got %v", g.State())
	}
	if view.hints != 1 {
		t.Errorf("Expected the start hint to be drawn, got %d", view.hints)
	}

	g.Press(types.KeyUp)
	g.Update()
	if g.State() != manager.Playing {
		t.Fatalf("Expected %v, got %v", manager.Playing, g.State())
	}
	if g.Snake().Head().Pos != (types.Position{X: 10, Y: 5}) || g.Snake().IsMoving() {
		t.Errorf("Expected snake to stay put at (10,5), got %v moving %v", g.Snake().Head().Pos, g.Snake().Direction)
	}

	// the latched key is applied on the next step
	g.food.Pos = types.Position{X: 0, Y: 0}
	g.Update()
	if g.Snake().Direction != up {
		t.Errorf("Expected direction up, got %v", g.Snake().Direction)
	}
	if g.Snake().Head().Pos != (types.Position{X: 10, Y: 4}) {
		t.Errorf("Expected head at (10,4), got %v", g.Snake().Head().Pos)
	}
}

func TestMoveWrapsAroundEdge(t *testing.T) {
	g, _, reporter := newTestGame(everyTick())
	g.states.Start()
	g.snake = entity.NewSnakeFrom(g.cfg.Grid, right, types.Position{X: 19, Y: 5})
	g.food.Pos = types.Position{X: 5, Y: 0}

	g.Update()

	if g.Snake().Head().Pos != (types.Position{X: 0, Y: 5}) {
		t.Errorf("Expected head at (0,5), got %v", g.Snake().Head().Pos)
	}
	if g.Snake().Len() != 1 {
		t.Errorf("Expected length 1, got %d", g.Snake().Len())
	}
	last := reporter.states[len(reporter.states)-1]
	if last != "5,0;0,5" {
		t.Errorf("Expected state 5,0;0,5, got %s", last)
	}
}

func TestEatingGrowsSnake(t *testing.T) {
	cfg := everyTick()
	sound := &countingSound{}
	cfg.Sound = sound
	g, _, reporter := newTestGame(cfg)
	g.states.Start()
	g.snake = entity.NewSnakeFrom(g.cfg.Grid, right,
		types.Position{X: 5, Y: 5},
		types.Position{X: 4, Y: 5},
		types.Position{X: 3, Y: 5},
	)
	g.food.Pos = types.Position{X: 6, Y: 5}
	reports := len(reporter.scores)

	g.Update()

	if g.Snake().Len() != 4 {
		t.Errorf("Expected length 4, got %d", g.Snake().Len())
	}
	if g.Snake().Head().Pos != (types.Position{X: 6, Y: 5}) {
		t.Errorf("Expected head at (6,5), got %v", g.Snake().Head().Pos)
	}
	if g.Score() != 1 {
		t.Errorf("Expected score 1, got %d", g.Score())
	}
	if len(reporter.scores) != reports+1 || reporter.scores[len(reporter.scores)-1] != 1 {
		t.Errorf("Expected one score report of 1, got %v", reporter.scores[reports:])
	}
	if g.Snake().Contains(g.Food().Pos) {
		t.Errorf("Food respawned on the snake at %v", g.Food().Pos)
	}
	if sound.eats != 1 {
		t.Errorf("Expected one eat sound, got %d", sound.eats)
	}
}

func TestRegularMoveKeepsLength(t *testing.T) {
	g, _, _ := newTestGame(everyTick())
	g.states.Start()
	g.snake = entity.NewSnakeFrom(g.cfg.Grid, right,
		types.Position{X: 5, Y: 5},
		types.Position{X: 4, Y: 5},
		types.Position{X: 3, Y: 5},
	)
	g.food.Pos = types.Position{X: 0, Y: 0}

	g.Update()

	if got := g.Snake().SnapshotString(); got != "6,5;5,5;4,5" {
		t.Errorf("Expected 6,5;5,5;4,5, got %s", got)
	}
}

func TestSelfCollisionShowsScore(t *testing.T) {
	cfg := everyTick()
	sound := &countingSound{}
	cfg.Sound = sound
	g, view, _ := newTestGame(cfg)
	g.states.Start()
	// head at (5,5) moving right into its own body at (6,5)
	g.snake = entity.NewSnakeFrom(g.cfg.Grid, right,
		types.Position{X: 5, Y: 5},
		types.Position{X: 5, Y: 6},
		types.Position{X: 6, Y: 6},
		types.Position{X: 6, Y: 5},
		types.Position{X: 7, Y: 5},
	)
	g.food.Pos = types.Position{X: 0, Y: 0}
	g.SetScore(7)

	g.Update()

	if g.State() != manager.ShowScore {
		t.Fatalf("Expected %v, got %v", manager.ShowScore, g.State())
	}
	if g.Score() != 0 {
		t.Errorf("Expected score reset to 0, got %d", g.Score())
	}
	if g.PreviousScore() != 7 {
		t.Errorf("Expected previous score 7, got %d", g.PreviousScore())
	}
	if g.Snake().Len() != 5 {
		t.Errorf("Expected the snake to stay as it was, got length %d", g.Snake().Len())
	}
	if sound.crashes != 1 {
		t.Errorf("Expected one crash sound, got %d", sound.crashes)
	}

	// countdown 2: overlay for three steps, then a fresh level
	for i := 0; i < 2; i++ {
		g.Update()
		if g.State() != manager.ShowScore {
			t.Fatalf("Left the score display early at step %d", i)
		}
	}
	g.Update()
	if g.State() != manager.ReadyToStart {
		t.Fatalf("Expected %v, got %v", manager.ReadyToStart, g.State())
	}
	if len(view.overlays) != 3 || view.overlays[0] != 7 {
		t.Errorf("Expected three overlays of 7, got %v", view.overlays)
	}
	if g.Snake().Len() != 1 || g.Snake().Head().Pos != (types.Position{X: 10, Y: 5}) {
		t.Error("Expected a fresh snake after the score display")
	}
	if g.PreviousScore() != 7 {
		t.Errorf("Expected previous score to survive the reset, got %d", g.PreviousScore())
	}
}

func TestBoardFullEndsRound(t *testing.T) {
	cfg := everyTick()
	cfg.Grid = types.Grid{Width: 2, Height: 1}
	g, _, _ := newTestGame(cfg)

	if g.Food().Pos != (types.Position{X: 0, Y: 0}) {
		t.Fatalf("Expected food on the only free tile, got %v", g.Food().Pos)
	}

	g.Press(types.KeyLeft)
	g.Update()
	g.Update()

	if g.State() != manager.ShowScore {
		t.Fatalf("Expected %v on a full board, got %v", manager.ShowScore, g.State())
	}
	if g.PreviousScore() != 1 {
		t.Errorf("Expected previous score 1, got %d", g.PreviousScore())
	}
}

func TestSetScoreReportsOnce(t *testing.T) {
	g, _, reporter := newTestGame(everyTick())
	before := len(reporter.scores)

	g.SetScore(12)

	if g.Score() != 12 {
		t.Errorf("Expected score 12, got %d", g.Score())
	}
	if len(reporter.scores) != before+1 || reporter.scores[before] != 12 {
		t.Errorf("Expected exactly one report of 12, got %v", reporter.scores[before:])
	}
}

func TestFlushOncePerActiveTick(t *testing.T) {
	cfg := everyTick()
	cfg.Slow, cfg.Fast = 4, 4
	g, view, _ := newTestGame(cfg)

	for i := 0; i < 12; i++ {
		g.Update()
	}

	if view.flushes != 3 {
		t.Errorf("Expected 3 flushes in 12 ticks with skip 4, got %d", view.flushes)
	}
	if view.backgrounds != 3 || view.scoreboards != 3 {
		t.Errorf("Expected background and scoreboard on every active tick, got %d and %d", view.backgrounds, view.scoreboards)
	}
}

func TestFrameSkip(t *testing.T) {
	cfg := Config{Slow: 12, Fast: 2, ScoreCeiling: 50}

	tests := []struct {
		name  string
		score int
		want  int
	}{
		{"Zero score is slow", 0, 12},
		{"Ceiling is fast", 50, 2},
		{"Above ceiling is fast", 80, 2},
		{"Midpoint", 25, 7},
		{"Negative is slow", -3, 12},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := cfg.FrameSkip(tt.score); got != tt.want {
				t.Errorf("Expected %d, got %d", tt.want, got)
			}
		})
	}
}

func TestMapToRange(t *testing.T) {
	if got := MapToRange(-5, 0, 10, 100, 200); got != 100 {
		t.Errorf("Expected clamp to 100, got %v", got)
	}
	if got := MapToRange(15, 0, 10, 100, 200); got != 200 {
		t.Errorf("Expected clamp to 200, got %v", got)
	}
	if got := MapToRange(2.5, 0.0, 10.0, 0.0, 1.0); got != 0.25 {
		t.Errorf("Expected 0.25, got %v", got)
	}
}

func TestInputLatchKeepsNewest(t *testing.T) {
	var l InputLatch
	l.Press(types.KeyUp)
	l.Press(types.KeyLeft)

	if got := l.Peek(); got != types.KeyLeft {
		t.Errorf("Expected peek LEFT, got %v", got)
	}
	if got := l.Take(); got != types.KeyLeft {
		t.Errorf("Expected take LEFT, got %v", got)
	}
	if got := l.Take(); got != types.KeyNone {
		t.Errorf("Expected latch cleared, got %v", got)
	}
}

func TestInputLatchConcurrentPress(t *testing.T) {
	var l InputLatch
	done := make(chan struct{})
	go func() {
		for i := 0; i < 1000; i++ {
			l.Press(types.KeyRight)
		}
		close(done)
	}()
	for i := 0; i < 1000; i++ {
		if k := l.Take(); k != types.KeyNone && k != types.KeyRight {
			t.Fatalf("Unexpected key %v", k)
		}
	}
	<-done
}

func TestTickStopsOnCancel(t *testing.T) {
	cfg := everyTick()
	cfg.BaseRefresh = time.Hour
	g, _, _ := newTestGame(cfg)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	start := time.Now()
	if err := g.Run(ctx); err != context.Canceled {
		t.Errorf("Expected context.Canceled, got %v", err)
	}
	if time.Since(start) > time.Second {
		t.Error("Run did not return promptly after cancel")
	}
}

func TestTickWaitsBaseRefresh(t *testing.T) {
	cfg := everyTick()
	cfg.BaseRefresh = 20 * time.Millisecond
	g, view, _ := newTestGame(cfg)

	start := time.Now()
	if err := g.Tick(context.Background()); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if time.Since(start) < cfg.BaseRefresh {
		t.Error("Tick returned before the base refresh delay")
	}
	if view.flushes != 1 {
		t.Errorf("Expected one flush, got %d", view.flushes)
	}
}
