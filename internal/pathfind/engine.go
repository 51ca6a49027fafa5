// Package pathfind runs an incremental A* search over a grid, one node
// expansion per Step, so a render loop can draw between expansions.
package pathfind

import (
	"context"
	"fmt"

	"chosenoffset.com/astarviz/internal/grid"
	"chosenoffset.com/astarviz/internal/observe"
)

// DefaultMinimumCost is the cost of one orthogonal move.
const DefaultMinimumCost = 10

// Options configures an Engine.
type Options struct {
	MinimumCost int
	Selection   Selection
	Emitter     observe.Emitter
}

// Option modifies Options.
type Option func(*Options)

// WithMinimumCost sets the per-move cost. Non-positive values keep the default.
func WithMinimumCost(cost int) Option {
	return func(o *Options) {
		if cost > 0 {
			o.MinimumCost = cost
		}
	}
}

// WithSelection sets the next-node selection policy.
func WithSelection(s Selection) Option {
	return func(o *Options) { o.Selection = s }
}

// WithEmitter sends engine events to e.
func WithEmitter(e observe.Emitter) Option {
	return func(o *Options) {
		if e != nil {
			o.Emitter = e
		}
	}
}

// Engine holds the run-state of one search at a time over a grid it does
// not own. It is not safe for concurrent use; the grid must not be edited
// while a run is Initialized or Stepping.
type Engine struct {
	grid        *grid.Grid
	minimumCost int
	selection   Selection
	emitter     observe.Emitter

	state         State
	run           int
	steps         int
	start         int
	goal          int
	originalStart int
	current       int

	membership []Membership
	frontier   []int // open insertion log, closed entries are skipped
	openCount  int
	closed     []int // expansion order

	path     []int
	pathCost int
}

// New creates an Idle engine over g.
func New(g *grid.Grid, opts ...Option) *Engine {
	o := Options{
		MinimumCost: DefaultMinimumCost,
		Selection:   SelectObserved,
		Emitter:     observe.NullEmitter{},
	}
	for _, opt := range opts {
		opt(&o)
	}

	return &Engine{
		grid:          g,
		minimumCost:   o.MinimumCost,
		selection:     o.Selection,
		emitter:       o.Emitter,
		state:         Idle,
		start:         grid.NoCell,
		goal:          grid.NoCell,
		originalStart: grid.NoCell,
		current:       grid.NoCell,
	}
}

// FindEndpoints scans g for its Start and Goal cells. Anything other than
// exactly one of each is a ConfigurationError.
func FindEndpoints(g *grid.Grid) (start, goal int, err error) {
	start, goal = grid.NoCell, grid.NoCell
	starts, goals := 0, 0
	for _, c := range g.Cells() {
		switch c.Class {
		case grid.Start:
			starts++
			start = c.ID
		case grid.Goal:
			goals++
			goal = c.ID
		}
	}
	if starts != 1 || goals != 1 {
		return grid.NoCell, grid.NoCell, &ConfigurationError{
			Starts: starts,
			Goals:  goals,
			Reason: "exactly one start and one goal are required",
		}
	}
	return start, goal, nil
}

// Initialize prepares a run from start to goal: heuristics for every
// Neutral cell, empty open set, start pre-expanded in the closed set.
func (e *Engine) Initialize(start, goal int) error {
	if e.state != Idle {
		return &InvalidStateError{Op: "initialize", State: e.state}
	}

	foundStart, foundGoal, err := FindEndpoints(e.grid)
	if err != nil {
		return err
	}
	if start != foundStart || goal != foundGoal {
		return &ConfigurationError{
			Starts: 1,
			Goals:  1,
			Reason: fmt.Sprintf("requested start %d and goal %d, grid has start %d and goal %d",
				start, goal, foundStart, foundGoal),
		}
	}

	goalPos := e.grid.Cell(goal).Pos
	cells := e.grid.Cells()
	for i := range cells {
		if cells[i].Class == grid.Neutral {
			cells[i].Heuristic = Heuristic(cells[i].Pos, goalPos, e.minimumCost)
		}
	}

	e.resetRunState()
	e.start = start
	e.goal = goal
	if e.originalStart == grid.NoCell {
		e.originalStart = start
	}

	e.membership[start] = Closed
	e.closed = append(e.closed, start)
	e.current = start

	e.run++
	e.state = Initialized

	pos := e.grid.Cell(start).Pos
	e.emit(observe.EventInitialized, start, map[string]interface{}{
		observe.MetaRow:    pos.Row,
		observe.MetaCol:    pos.Col,
		observe.MetaClosed: len(e.closed),
	})
	return nil
}

// Step expands the current node and picks the next one. It returns the
// state after the expansion: Stepping, Found or Exhausted.
func (e *Engine) Step() (State, error) {
	if e.state != Initialized && e.state != Stepping {
		return e.state, &InvalidStateError{Op: "step", State: e.state}
	}
	e.state = Stepping
	e.steps++

	currentID := e.current
	e.closeCell(currentID)
	current := e.grid.Cell(currentID)

	for _, id := range e.grid.Neighbors(currentID) {
		n := e.grid.Cell(id)
		if n.Class == grid.Wall {
			continue
		}

		if n.Class == grid.Goal {
			e.linkUp(currentID)
			e.emitExpanded(currentID)
			e.state = Found
			e.emit(observe.EventFound, currentID, map[string]interface{}{
				observe.MetaPathCost:   e.pathCost,
				observe.MetaPathLength: len(e.path),
			})
			return e.state, nil
		}

		cost := current.PathCost + e.minimumCost
		switch e.membership[id] {
		case Open:
			// Ties keep the existing parent; the cell stays where it is
			// in the open set.
			if cost < n.PathCost {
				n.Parent = currentID
				n.PathCost = cost
				n.TotalCost = n.Heuristic + n.PathCost
			}
		case NotQueued:
			e.openCell(id)
			n.Parent = currentID
			n.PathCost = cost
			n.TotalCost = n.Heuristic + n.PathCost
		}
	}

	next := e.selectNext()
	e.emitExpanded(currentID)

	if next == grid.NoCell {
		e.state = Exhausted
		e.emit(observe.EventExhausted, currentID, map[string]interface{}{
			observe.MetaClosed: len(e.closed),
		})
		return e.state, nil
	}

	e.current = next
	return e.state, nil
}

// RunToCompletion steps until Found or Exhausted. A cancelled ctx stops
// between steps and leaves the run resumable.
func (e *Engine) RunToCompletion(ctx context.Context) (State, error) {
	if e.state != Initialized && e.state != Stepping {
		return e.state, &InvalidStateError{Op: "run", State: e.state}
	}
	for !e.state.Terminal() {
		if err := ctx.Err(); err != nil {
			return e.state, err
		}
		if _, err := e.Step(); err != nil {
			return e.state, err
		}
	}
	return e.state, nil
}

// Restart drops the run-state, clears every cell's scratch fields and
// turns Visited and OnPath cells back to Neutral. A full reset also moves
// the Start back to the originally designated cell.
func (e *Engine) Restart(fullReset bool) {
	cells := e.grid.Cells()
	for i := range cells {
		cells[i].ResetScratch()
		if cells[i].Class == grid.Visited || cells[i].Class == grid.OnPath {
			cells[i].Class = grid.Neutral
		}
	}

	if fullReset && e.originalStart != grid.NoCell {
		for i := range cells {
			if cells[i].Class == grid.Start {
				cells[i].Class = grid.Neutral
			}
		}
		cells[e.originalStart].Class = grid.Start
	}

	e.resetRunState()
	e.current = grid.NoCell
	e.state = Idle

	e.emit(observe.EventRestarted, grid.NoCell, map[string]interface{}{
		observe.MetaFullReset: fullReset,
	})
}

// DesignateStart records id as the start a full reset returns to.
// Out-of-range ids are ignored.
func (e *Engine) DesignateStart(id int) {
	if id < 0 || id >= e.grid.Len() {
		return
	}
	e.originalStart = id
}

// OriginalStart returns the designated start, or grid.NoCell.
func (e *Engine) OriginalStart() int { return e.originalStart }

// Searching reports whether a run is in progress and the grid is locked.
func (e *Engine) Searching() bool {
	return e.state == Initialized || e.state == Stepping
}

// State returns the current state.
func (e *Engine) State() State { return e.state }

// Run returns the 1-based number of the current or last run.
func (e *Engine) Run() int { return e.run }

// Steps returns the expansions performed in the current run.
func (e *Engine) Steps() int { return e.steps }

// Current returns the cell the next Step expands, or the one whose
// expansion ended the run.
func (e *Engine) Current() int { return e.current }

// MinimumCost returns the per-move cost.
func (e *Engine) MinimumCost() int { return e.minimumCost }

// Selection returns the selection policy.
func (e *Engine) Selection() Selection { return e.selection }

// Grid returns the grid the engine searches.
func (e *Engine) Grid() *grid.Grid { return e.grid }

// Membership returns where id stands in the current run.
func (e *Engine) Membership(id int) Membership {
	if id < 0 || id >= len(e.membership) {
		return NotQueued
	}
	return e.membership[id]
}

// Open returns the open cells in insertion order.
func (e *Engine) Open() []int {
	out := make([]int, 0, e.openCount)
	for _, id := range e.frontier {
		if e.membership[id] == Open {
			out = append(out, id)
		}
	}
	return out
}

// Closed returns the closed cells in expansion order, start first.
func (e *Engine) Closed() []int {
	out := make([]int, len(e.closed))
	copy(out, e.closed)
	return out
}

// Path returns the found path from start to goal inclusive, or nil.
func (e *Engine) Path() []int {
	if e.path == nil {
		return nil
	}
	out := make([]int, len(e.path))
	copy(out, e.path)
	return out
}

// PathCost returns the cost of the found path, or 0.
func (e *Engine) PathCost() int { return e.pathCost }

func (e *Engine) resetRunState() {
	e.membership = make([]Membership, e.grid.Len())
	e.frontier = e.frontier[:0]
	e.openCount = 0
	e.closed = e.closed[:0]
	e.steps = 0
	e.path = nil
	e.pathCost = 0
}

func (e *Engine) openCell(id int) {
	e.membership[id] = Open
	e.frontier = append(e.frontier, id)
	e.openCount++

	c := e.grid.Cell(id)
	if c.Class == grid.Neutral {
		c.Class = grid.Visited
	}
}

func (e *Engine) closeCell(id int) {
	switch e.membership[id] {
	case Closed:
		return
	case Open:
		e.openCount--
	}
	e.membership[id] = Closed
	e.closed = append(e.closed, id)
}

// selectNext picks the next cell to expand from the open set, or
// grid.NoCell when there is none.
func (e *Engine) selectNext() int {
	if e.selection == SelectStrict {
		return e.selectStrict()
	}
	return e.selectObserved()
}

func (e *Engine) selectObserved() int {
	var candidates []int
	lowest, seen := 0, false
	for _, id := range e.frontier {
		if e.membership[id] != Open {
			continue
		}
		c := e.grid.Cell(id)
		if c.Class == grid.Wall {
			continue
		}
		if !seen || c.TotalCost <= lowest {
			lowest = c.TotalCost
			seen = true
			candidates = append(candidates, id)
		}
	}

	next := grid.NoCell
	for _, id := range candidates {
		if next == grid.NoCell || e.grid.Cell(id).Heuristic < e.grid.Cell(next).Heuristic {
			next = id
		}
	}
	return next
}

func (e *Engine) selectStrict() int {
	best := grid.NoCell
	for _, id := range e.frontier {
		if e.membership[id] != Open {
			continue
		}
		c := e.grid.Cell(id)
		if c.Class == grid.Wall {
			continue
		}
		if best == grid.NoCell {
			best = id
			continue
		}
		b := e.grid.Cell(best)
		if c.TotalCost < b.TotalCost || (c.TotalCost == b.TotalCost && c.Heuristic < b.Heuristic) {
			best = id
		}
	}
	return best
}

func (e *Engine) emitExpanded(id int) {
	pos := e.grid.Cell(id).Pos
	e.emit(observe.EventExpanded, id, map[string]interface{}{
		observe.MetaRow:    pos.Row,
		observe.MetaCol:    pos.Col,
		observe.MetaOpen:   e.openCount,
		observe.MetaClosed: len(e.closed),
	})
}

func (e *Engine) emit(msg string, cell int, meta map[string]interface{}) {
	e.emitter.Emit(observe.Event{
		Run:  e.run,
		Step: e.steps,
		Cell: cell,
		Msg:  msg,
		Meta: meta,
	})
}
