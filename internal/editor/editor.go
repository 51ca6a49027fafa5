// Package editor turns pointer input on a grid into classification edits.
package editor

import (
	"errors"
	"fmt"

	"chosenoffset.com/astarviz/internal/grid"
)

var (
	// ErrLocked is returned for edits made while a search is running.
	ErrLocked = errors.New("grid is locked while searching")

	// ErrOutOfBounds is returned for positions outside the grid.
	ErrOutOfBounds = errors.New("position out of bounds")
)

// Tracker is the part of the search engine the editor talks to.
type Tracker interface {
	DesignateStart(id int)
	Searching() bool
}

// Editor applies click, drag and fill edits to a grid.
type Editor struct {
	grid    *grid.Grid
	tracker Tracker
}

// New creates an editor over g. tracker may be nil, in which case edits are
// never locked and start designations go nowhere.
func New(g *grid.Grid, tracker Tracker) *Editor {
	return &Editor{grid: g, tracker: tracker}
}

// Grid returns the grid being edited.
func (ed *Editor) Grid() *grid.Grid { return ed.grid }

// HasStart reports whether a Start cell is placed.
func (ed *Editor) HasStart() bool { return ed.grid.Count(grid.Start) > 0 }

// HasGoal reports whether a Goal cell is placed.
func (ed *Editor) HasGoal() bool { return ed.grid.Count(grid.Goal) > 0 }

// Ready reports whether both endpoints are placed.
func (ed *Editor) Ready() bool { return ed.HasStart() && ed.HasGoal() }

// Click cycles the cell at pos to its next classification and returns it.
//
//	Neutral -> Start, or Goal once a start exists, or Wall once both exist
//	Start   -> Goal when there is no goal, otherwise Wall
//	Goal    -> Wall
//	Wall    -> Neutral
//	Visited -> Wall
//
// OnPath cells are left alone.
func (ed *Editor) Click(pos grid.Position) (grid.Classification, error) {
	c, err := ed.target(pos)
	if err != nil {
		return grid.Neutral, err
	}

	switch c.Class {
	case grid.Neutral:
		switch {
		case !ed.HasStart():
			c.Class = grid.Start
			ed.designate(c.ID)
		case !ed.HasGoal():
			c.Class = grid.Goal
		default:
			c.Class = grid.Wall
		}
	case grid.Start:
		if !ed.HasGoal() {
			c.Class = grid.Goal
		} else {
			c.Class = grid.Wall
		}
	case grid.Goal, grid.Visited:
		c.Class = grid.Wall
	case grid.Wall:
		c.Class = grid.Neutral
	}
	return c.Class, nil
}

// Drag paints the cell under a dragged pointer: walls and neutral cells
// swap, visited cells become walls. Endpoints and path cells are kept.
func (ed *Editor) Drag(pos grid.Position) (grid.Classification, error) {
	c, err := ed.target(pos)
	if err != nil {
		return grid.Neutral, err
	}

	switch c.Class {
	case grid.Wall:
		c.Class = grid.Neutral
	case grid.Neutral, grid.Visited:
		c.Class = grid.Wall
	}
	return c.Class, nil
}

// Fill sets every cell to class, which must be Wall or Neutral. Any placed
// start or goal is removed.
func (ed *Editor) Fill(class grid.Classification) error {
	if class != grid.Wall && class != grid.Neutral {
		return fmt.Errorf("fill with %s: only wall or neutral", class)
	}
	if ed.locked() {
		return ErrLocked
	}
	ed.grid.Fill(class)
	return nil
}

func (ed *Editor) target(pos grid.Position) (*grid.Cell, error) {
	if ed.locked() {
		return nil, ErrLocked
	}
	c, ok := ed.grid.At(pos)
	if !ok {
		return nil, fmt.Errorf("edit %s: %w", pos, ErrOutOfBounds)
	}
	return c, nil
}

func (ed *Editor) locked() bool {
	return ed.tracker != nil && ed.tracker.Searching()
}

func (ed *Editor) designate(id int) {
	if ed.tracker != nil {
		ed.tracker.DesignateStart(id)
	}
}
