// Package viewer is the interactive scene of the visualizer: it draws the
// grid and side panel, turns input into edits and drives the search one
// expansion at a time.
package viewer

import (
	"errors"
	"log"

	"chosenoffset.com/astarviz/internal/editor"
	"chosenoffset.com/astarviz/internal/grid"
	"chosenoffset.com/astarviz/internal/observe"
	"chosenoffset.com/astarviz/internal/pathfind"
	"chosenoffset.com/astarviz/internal/render"
)

// Options configures a Viewer.
type Options struct {
	Engine   *pathfind.Engine
	Editor   *editor.Editor
	Renderer render.Renderer
	Input    render.InputManager

	// Events feeds the event log panel. Optional.
	Events *observe.Recorder

	TileSize     int
	PanelWidth   int
	StepInterval int
	ShowCosts    bool
}

// Viewer implements render.Game.
type Viewer struct {
	engine   *pathfind.Engine
	editor   *editor.Editor
	renderer render.Renderer
	input    render.InputManager
	events   *observe.Recorder

	tileSize     int
	panelWidth   int
	stepInterval int
	showCosts    bool

	buttons []*button

	autoRun  bool
	ticks    int
	dragging bool
	dragCell int

	message string
}

// New creates a viewer. The grid is taken from the engine; the editor must
// edit the same grid.
func New(opts Options) *Viewer {
	if opts.TileSize <= 0 {
		opts.TileSize = 32
	}
	if opts.StepInterval <= 0 {
		opts.StepInterval = 1
	}
	if opts.PanelWidth < minPanelWidth {
		opts.PanelWidth = minPanelWidth
	}

	v := &Viewer{
		engine:       opts.Engine,
		editor:       opts.Editor,
		renderer:     opts.Renderer,
		input:        opts.Input,
		events:       opts.Events,
		tileSize:     opts.TileSize,
		panelWidth:   opts.PanelWidth,
		stepInterval: opts.StepInterval,
		showCosts:    opts.ShowCosts,
		dragCell:     grid.NoCell,
	}
	v.buttons = v.newButtons()
	return v
}

// ScreenSize returns the logical size of the scene in pixels.
func (v *Viewer) ScreenSize() (width, height int) {
	g := v.engine.Grid()
	width = g.Cols()*v.tileSize + v.panelWidth
	height = g.Rows() * v.tileSize
	if height < minPanelHeight {
		height = minPanelHeight
	}
	return width, height
}

// Layout returns the scene's logical screen size.
func (v *Viewer) Layout(outsideWidth, outsideHeight int) (int, int) {
	return v.ScreenSize()
}

// Update handles input and advances auto-run.
func (v *Viewer) Update() error {
	if v.input.IsKeyJustPressed(render.KeyQ) {
		return render.ErrQuit
	}

	v.handleKeys()
	v.handleMouse()

	if v.autoRun {
		v.ticks++
		if v.ticks >= v.stepInterval {
			v.ticks = 0
			v.step()
		}
		if !v.engine.Searching() {
			v.autoRun = false
		}
	}
	return nil
}

// AutoRunning reports whether auto-run is on.
func (v *Viewer) AutoRunning() bool { return v.autoRun }

// Message returns the last error or notice shown in the panel.
func (v *Viewer) Message() string { return v.message }

func (v *Viewer) handleKeys() {
	switch {
	case v.input.IsKeyJustPressed(render.KeySpace):
		if v.engine.State() == pathfind.Idle {
			v.press(actionStart)
		}
		v.press(actionStep)
	case v.input.IsKeyJustPressed(render.KeyEnter):
		v.startAutoRun()
	case v.input.IsKeyJustPressed(render.KeyR):
		v.press(actionReset)
	case v.input.IsKeyJustPressed(render.KeyF):
		v.press(actionFullReset)
	case v.input.IsKeyJustPressed(render.KeyEscape):
		v.autoRun = false
	case v.input.IsKeyJustPressed(render.KeyC):
		v.showCosts = !v.showCosts
	}
}

func (v *Viewer) handleMouse() {
	x, y := v.input.GetCursorPosition()

	if v.input.IsMouseButtonJustPressed(render.MouseButtonLeft) {
		if b := v.buttonAt(x, y); b != nil {
			if b.enabled() {
				b.action()
			}
			return
		}
		if pos, ok := v.cellAt(x, y); ok {
			_, err := v.editor.Click(pos)
			v.report(err)
			v.dragging = err == nil
			v.dragCell = v.engine.Grid().ID(pos)
		}
		return
	}

	if !v.input.IsMouseButtonPressed(render.MouseButtonLeft) {
		v.dragging = false
		v.dragCell = grid.NoCell
		return
	}

	if !v.dragging {
		return
	}
	pos, ok := v.cellAt(x, y)
	if !ok {
		return
	}
	id := v.engine.Grid().ID(pos)
	if id == v.dragCell {
		return
	}
	v.dragCell = id
	_, err := v.editor.Drag(pos)
	v.report(err)
}

// cellAt maps screen coordinates to a grid position.
func (v *Viewer) cellAt(x, y int) (grid.Position, bool) {
	if x < 0 || y < 0 {
		return grid.Position{}, false
	}
	pos := grid.Position{Row: y / v.tileSize, Col: x / v.tileSize}
	return pos, v.engine.Grid().Contains(pos)
}

func (v *Viewer) start() {
	start, goal, err := pathfind.FindEndpoints(v.engine.Grid())
	if err != nil {
		v.report(err)
		return
	}
	v.report(v.engine.Initialize(start, goal))
}

func (v *Viewer) step() {
	_, err := v.engine.Step()
	v.report(err)
}

func (v *Viewer) startAutoRun() {
	if v.engine.State() == pathfind.Idle && v.editor.Ready() {
		v.start()
	}
	if v.engine.Searching() {
		v.autoRun = true
		v.ticks = 0
	}
}

func (v *Viewer) restart(full bool) {
	v.autoRun = false
	v.engine.Restart(full)
	v.message = ""
}

func (v *Viewer) fill(class grid.Classification) {
	if v.engine.State().Terminal() {
		v.engine.Restart(false)
	}
	v.report(v.editor.Fill(class))
}

func (v *Viewer) report(err error) {
	if err == nil {
		v.message = ""
		return
	}
	v.message = err.Error()
	if !errors.Is(err, editor.ErrLocked) {
		log.Printf("viewer: %v", err)
	}
}

// status describes the engine state for the panel.
func (v *Viewer) status() string {
	switch v.engine.State() {
	case pathfind.Idle:
		if !v.editor.Ready() {
			return "Place start and goal"
		}
		return "Ready"
	case pathfind.Initialized, pathfind.Stepping:
		if v.autoRun {
			return "Running..."
		}
		return "Searching"
	case pathfind.Found:
		return "Path found"
	case pathfind.Exhausted:
		return "No path"
	default:
		return v.engine.State().String()
	}
}
