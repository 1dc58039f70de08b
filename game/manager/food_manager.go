package manager

import (
	"time"

	"pico-snake/game/entity"
	"pico-snake/game/types"

	"golang.org/x/exp/rand"
)

// attemptsPerCell bounds rejection sampling before falling back to a scan.
const attemptsPerCell = 4

type FoodManager struct {
	grid types.Grid
	rng  *rand.Rand
}

// NewFoodManager creates a food manager drawing from src. A nil source is
// seeded from the current time.
func NewFoodManager(grid types.Grid, src rand.Source) *FoodManager {
	if src == nil {
		src = rand.NewSource(uint64(time.Now().UnixNano()))
	}
	return &FoodManager{
		grid: grid,
		rng:  rand.New(src),
	}
}

// NewFood places a fresh food item clear of the snake.
func (fm *FoodManager) NewFood(snake *entity.Snake) (*entity.Food, bool) {
	pos, ok := fm.GenerateFood(snake)
	return &entity.Food{Pos: pos}, ok
}

// Respawn moves food to a free tile. It returns false when the snake
// fills the whole grid, leaving the food where it was.
func (fm *FoodManager) Respawn(food *entity.Food, snake *entity.Snake) bool {
	pos, ok := fm.GenerateFood(snake)
	if ok {
		food.Pos = pos
	}
	return ok
}

// GenerateFood picks a uniformly random tile not covered by the snake. After
// a bounded number of rejected draws it takes the first free tile in
// row-major order, and reports false only if there is none.
func (fm *FoodManager) GenerateFood(snake *entity.Snake) (types.Position, bool) {
	attempts := fm.grid.Cells() * attemptsPerCell
	for i := 0; i < attempts; i++ {
		food := types.Position{
			X: fm.rng.Intn(fm.grid.Width),
			Y: fm.rng.Intn(fm.grid.Height),
		}
		if !snake.Contains(food) {
			return food, true
		}
	}

	for y := 0; y < fm.grid.Height; y++ {
		for x := 0; x < fm.grid.Width; x++ {
			food := types.Position{X: x, Y: y}
			if !snake.Contains(food) {
				return food, true
			}
		}
	}
	return types.Position{}, false
}
