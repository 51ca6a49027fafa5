package viewer

import (
	"chosenoffset.com/astarviz/internal/grid"
	"chosenoffset.com/astarviz/internal/pathfind"
)

const (
	minPanelWidth  = 160
	minPanelHeight = 420

	panelMargin   = 10
	buttonTop     = 90
	buttonHeight  = 24
	buttonSpacing = 30
)

type actionID int

const (
	actionStart actionID = iota
	actionStep
	actionReset
	actionFullReset
	actionClear
	actionFillWalls
)

type button struct {
	id      actionID
	label   string
	rect    rect
	enabled func() bool
	action  func()
}

type rect struct {
	x, y, w, h int
}

func pointInRect(px, py int, r rect) bool {
	return px >= r.x && px < r.x+r.w && py >= r.y && py < r.y+r.h
}

func (v *Viewer) newButtons() []*button {
	searching := func() bool { return v.engine.Searching() }
	terminal := func() bool { return v.engine.State().Terminal() }

	defs := []struct {
		id      actionID
		label   string
		enabled func() bool
		action  func()
	}{
		{actionStart, "Start", func() bool {
			return v.engine.State() == pathfind.Idle && v.editor.Ready()
		}, v.start},
		{actionStep, "Step", searching, v.step},
		{actionReset, "Reset", terminal, func() { v.restart(false) }},
		{actionFullReset, "Full reset", terminal, func() { v.restart(true) }},
		{actionClear, "Clear", func() bool { return !searching() }, func() { v.fill(grid.Neutral) }},
		{actionFillWalls, "Fill walls", func() bool { return !searching() }, func() { v.fill(grid.Wall) }},
	}

	x := v.engine.Grid().Cols()*v.tileSize + panelMargin
	w := v.panelWidth - 2*panelMargin
	buttons := make([]*button, len(defs))
	for i, s := range defs {
		buttons[i] = &button{
			id:      s.id,
			label:   s.label,
			rect:    rect{x: x, y: buttonTop + i*buttonSpacing, w: w, h: buttonHeight},
			enabled: s.enabled,
			action:  s.action,
		}
	}
	return buttons
}

// press runs the action if its button is enabled.
func (v *Viewer) press(id actionID) bool {
	b := v.buttonByID(id)
	if b == nil || !b.enabled() {
		return false
	}
	b.action()
	return true
}

func (v *Viewer) buttonByID(id actionID) *button {
	for _, b := range v.buttons {
		if b.id == id {
			return b
		}
	}
	return nil
}

func (v *Viewer) buttonAt(x, y int) *button {
	for _, b := range v.buttons {
		if pointInRect(x, y, b.rect) {
			return b
		}
	}
	return nil
}

// eventLogTop is the y of the first event log line, below the buttons.
func (v *Viewer) eventLogTop() int {
	return buttonTop + len(v.buttons)*buttonSpacing + 2*panelMargin
}
