// Package grid holds the cells the search runs over: their positions,
// their editable classification and the per-cell search scratch fields.
// Adjacency is pure position arithmetic with no diagonal moves.
package grid

import (
	"fmt"
	"strings"
)

// NoCell marks an absent cell reference (no parent, no neighbor).
const NoCell = -1

// Classification is what a cell currently is from the user's and the
// search's point of view.
type Classification int

const (
	Neutral Classification = iota
	Start
	Goal
	Wall
	Visited
	OnPath
)

// String returns the lower-case name of the classification.
func (c Classification) String() string {
	switch c {
	case Neutral:
		return "neutral"
	case Start:
		return "start"
	case Goal:
		return "goal"
	case Wall:
		return "wall"
	case Visited:
		return "visited"
	case OnPath:
		return "on_path"
	default:
		return fmt.Sprintf("classification(%d)", int(c))
	}
}

// Position is a grid coordinate.
type Position struct {
	Row int
	Col int
}

func (p Position) String() string {
	return fmt.Sprintf("(%d,%d)", p.Row, p.Col)
}

// Direction is one of the four cardinal moves.
type Direction int

const (
	Up Direction = iota
	Left
	Right
	Down
)

// Directions lists the cardinal moves in neighbor order.
var Directions = [4]Direction{Up, Left, Right, Down}

// offset returns the row/col delta of a direction.
func (d Direction) offset() (dr, dc int) {
	switch d {
	case Up:
		return -1, 0
	case Left:
		return 0, -1
	case Right:
		return 0, 1
	case Down:
		return 1, 0
	default:
		return 0, 0
	}
}

// Cell is a single grid node.
type Cell struct {
	ID    int
	Pos   Position
	Class Classification

	// Search scratch, reset between runs.
	Heuristic int
	PathCost  int
	TotalCost int
	Parent    int
}

// ResetScratch zeroes the search fields.
func (c *Cell) ResetScratch() {
	c.Heuristic = 0
	c.PathCost = 0
	c.TotalCost = 0
	c.Parent = NoCell
}

// Grid owns a fixed rows x cols arena of cells in row-major order.
type Grid struct {
	rows  int
	cols  int
	cells []Cell
}

// New creates a grid of Neutral cells.
func New(rows, cols int) (*Grid, error) {
	if rows <= 0 || cols <= 0 {
		return nil, fmt.Errorf("invalid grid dimensions: %dx%d", rows, cols)
	}

	g := &Grid{
		rows:  rows,
		cols:  cols,
		cells: make([]Cell, rows*cols),
	}
	for r := 0; r < rows; r++ {
		for c := 0; c < cols; c++ {
			id := r*cols + c
			g.cells[id] = Cell{
				ID:     id,
				Pos:    Position{Row: r, Col: c},
				Class:  Neutral,
				Parent: NoCell,
			}
		}
	}
	return g, nil
}

// Rows returns the number of rows.
func (g *Grid) Rows() int { return g.rows }

// Cols returns the number of columns.
func (g *Grid) Cols() int { return g.cols }

// Len returns the number of cells.
func (g *Grid) Len() int { return len(g.cells) }

// Contains reports whether pos lies inside the grid.
func (g *Grid) Contains(pos Position) bool {
	return pos.Row >= 0 && pos.Row < g.rows && pos.Col >= 0 && pos.Col < g.cols
}

// ID returns the cell id at pos, or NoCell when out of bounds.
func (g *Grid) ID(pos Position) int {
	if !g.Contains(pos) {
		return NoCell
	}
	return pos.Row*g.cols + pos.Col
}

// Cell returns the cell with the given id. It panics on an invalid id,
// like an out-of-range slice index.
func (g *Grid) Cell(id int) *Cell {
	return &g.cells[id]
}

// At returns the cell at pos.
func (g *Grid) At(pos Position) (*Cell, bool) {
	id := g.ID(pos)
	if id == NoCell {
		return nil, false
	}
	return &g.cells[id], true
}

// Cells returns the backing arena. Callers may edit classifications
// but must not reslice it.
func (g *Grid) Cells() []Cell {
	return g.cells
}

// Neighbor returns the adjacent cell in direction d. Out of bounds is
// reported as (NoCell, false), never as an error.
func (g *Grid) Neighbor(id int, d Direction) (int, bool) {
	dr, dc := d.offset()
	pos := g.cells[id].Pos
	n := g.ID(Position{Row: pos.Row + dr, Col: pos.Col + dc})
	return n, n != NoCell
}

// Neighbors returns the up to four in-bounds neighbors of id in
// Up, Left, Right, Down order.
func (g *Grid) Neighbors(id int) []int {
	out := make([]int, 0, len(Directions))
	for _, d := range Directions {
		if n, ok := g.Neighbor(id, d); ok {
			out = append(out, n)
		}
	}
	return out
}

// Count returns how many cells carry the classification.
func (g *Grid) Count(class Classification) int {
	n := 0
	for i := range g.cells {
		if g.cells[i].Class == class {
			n++
		}
	}
	return n
}

// Fill sets every cell to class.
func (g *Grid) Fill(class Classification) {
	for i := range g.cells {
		g.cells[i].Class = class
	}
}

// String renders the grid one row per line:
// '.' neutral, 'S' start, 'G' goal, '#' wall, 'o' visited, '*' on path.
func (g *Grid) String() string {
	var b strings.Builder
	for r := 0; r < g.rows; r++ {
		for c := 0; c < g.cols; c++ {
			b.WriteByte(classGlyph(g.cells[r*g.cols+c].Class))
		}
		if r < g.rows-1 {
			b.WriteByte('\n')
		}
	}
	return b.String()
}

func classGlyph(c Classification) byte {
	switch c {
	case Start:
		return 'S'
	case Goal:
		return 'G'
	case Wall:
		return '#'
	case Visited:
		return 'o'
	case OnPath:
		return '*'
	default:
		return '.'
	}
}
