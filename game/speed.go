package game

import "golang.org/x/exp/constraints"

type number interface {
	constraints.Integer | constraints.Float
}

// MapToRange maps val from [min1, max1] onto [min2, max2] linearly,
// clamping at both ends.
func MapToRange[T number](val, min1, max1, min2, max2 T) float64 {
	if val <= min1 {
		return float64(min2)
	}
	if val >= max1 {
		return float64(max2)
	}
	ratio := float64(val-min1) / float64(max1-min1)
	return ratio*(float64(max2)-float64(min2)) + float64(min2)
}

// FrameSkip returns how many ticks pass between two simulation steps at
// the given score. Higher scores step more often.
func (c Config) FrameSkip(score int) int {
	skip := int(MapToRange(score, 0, c.ScoreCeiling, c.Slow, c.Fast))
	return max(skip, 1)
}
