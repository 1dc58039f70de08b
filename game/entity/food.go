package entity

import "pico-snake/game/types"

// Food is the single item the snake is chasing
type Food struct {
	Pos types.Position
}

// EatenBy reports whether a head landing on pos eats the food
func (f *Food) EatenBy(pos types.Position) bool {
	return f.Pos == pos
}
