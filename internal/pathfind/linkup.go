package pathfind

import "chosenoffset.com/astarviz/internal/grid"

// linkUp marks the parent chain starting at from, the cell whose expansion
// reached the goal, as OnPath. It stops at the cell whose parent is the
// start or which has no parent; start and goal keep their classification.
// Parents are always expanded before their children, so the walk cannot
// cycle.
func (e *Engine) linkUp(from int) {
	var chain []int
	for id := from; ; {
		c := e.grid.Cell(id)
		if c.Parent == grid.NoCell || c.Class == grid.Start {
			break
		}
		c.Class = grid.OnPath
		chain = append(chain, id)

		if e.grid.Cell(c.Parent).Class == grid.Start {
			break
		}
		id = c.Parent
	}

	path := make([]int, 0, len(chain)+2)
	path = append(path, e.start)
	for i := len(chain) - 1; i >= 0; i-- {
		path = append(path, chain[i])
	}
	path = append(path, e.goal)

	e.path = path
	e.pathCost = e.grid.Cell(from).PathCost + e.minimumCost
}
