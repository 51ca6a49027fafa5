package pathfind

import "chosenoffset.com/astarviz/internal/grid"

// Heuristic is the Manhattan distance from from to goal scaled by the
// per-move cost. With only orthogonal moves of that cost it never
// overestimates and is consistent.
func Heuristic(from, goal grid.Position, minimumCost int) int {
	return (abs(from.Row-goal.Row) + abs(from.Col-goal.Col)) * minimumCost
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
