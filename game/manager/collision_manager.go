package manager

import (
	"pico-snake/game/entity"
	"pico-snake/game/types"
)

// Outcome is what happens when the head enters a candidate tile
type Outcome int

const (
	// Move is a regular step: push the new head and drop the tail
	Move Outcome = iota
	// Eat grows the snake by one and respawns the food
	Eat
	// SelfCollision ends the round
	SelfCollision
)

func (o Outcome) String() string {
	switch o {
	case Eat:
		return "eat"
	case SelfCollision:
		return "self-collision"
	default:
		return "move"
	}
}

type CollisionManager struct {
	grid types.Grid
}

func NewCollisionManager(grid types.Grid) *CollisionManager {
	return &CollisionManager{
		grid: grid,
	}
}

// Classify decides the outcome of moving the snake's head to candidate.
// Food takes precedence over the body check, and a stationary snake never
// collides with itself.
func (cm *CollisionManager) Classify(candidate types.Position, snake *entity.Snake, food *entity.Food) Outcome {
	if cm.IsFoodCollision(candidate, food) {
		return Eat
	}
	if snake.IsMoving() && snake.Contains(candidate) {
		return SelfCollision
	}
	return Move
}

// IsFoodCollision checks if a position collides with food
func (cm *CollisionManager) IsFoodCollision(pos types.Position, food *entity.Food) bool {
	return food != nil && food.EatenBy(pos)
}
