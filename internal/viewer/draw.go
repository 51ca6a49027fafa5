package viewer

import (
	"fmt"
	"image/color"
	"strconv"

	"chosenoffset.com/astarviz/internal/grid"
	"chosenoffset.com/astarviz/internal/observe"
	"chosenoffset.com/astarviz/internal/render"
)

var (
	backgroundColor = color.RGBA{20, 20, 30, 255}
	gridLineColor   = color.RGBA{60, 60, 60, 255}
	labelColor      = color.RGBA{0, 0, 0, 255}
	textColor       = color.RGBA{255, 255, 255, 255}
	dimTextColor    = color.RGBA{150, 150, 150, 255}
	errorColor      = color.RGBA{255, 100, 100, 255}
	buttonColor     = color.RGBA{70, 90, 140, 255}
	buttonOffColor  = color.RGBA{45, 45, 55, 255}
	currentColor    = color.RGBA{255, 140, 0, 255}
)

// cellColor returns the tile colour of a classification.
func cellColor(c grid.Classification) color.RGBA {
	switch c {
	case grid.Start:
		return color.RGBA{0, 0, 255, 255}
	case grid.Goal:
		return color.RGBA{0, 200, 0, 255}
	case grid.Wall:
		return color.RGBA{200, 0, 0, 255}
	case grid.Visited:
		return color.RGBA{255, 255, 0, 255}
	case grid.OnPath:
		return color.RGBA{0, 255, 255, 255}
	default:
		return color.RGBA{255, 255, 255, 255}
	}
}

// Draw renders the grid and side panel.
func (v *Viewer) Draw(screen render.Image) {
	screen.Fill(backgroundColor)
	v.drawGrid(screen)
	v.drawPanel(screen)
}

func (v *Viewer) drawGrid(screen render.Image) {
	g := v.engine.Grid()
	ts := float32(v.tileSize)

	for _, c := range g.Cells() {
		x := float32(c.Pos.Col) * ts
		y := float32(c.Pos.Row) * ts
		v.renderer.FillRect(screen, x, y, ts, ts, cellColor(c.Class))
		v.renderer.StrokeRect(screen, x, y, ts, ts, 1, gridLineColor)

		if v.showCosts && c.Parent != grid.NoCell {
			v.drawCosts(screen, c, int(x), int(y))
		}
	}

	if v.engine.Searching() {
		if cur := v.engine.Current(); cur != grid.NoCell {
			pos := g.Cell(cur).Pos
			v.renderer.StrokeRect(screen, float32(pos.Col)*ts, float32(pos.Row)*ts, ts, ts, 3, currentColor)
		}
	}
}

// drawCosts labels a tile with f in the top-left corner; large tiles also
// get the id top-right, g bottom-left and h bottom-right.
func (v *Viewer) drawCosts(screen render.Image, c grid.Cell, x, y int) {
	const pad = 2
	f := strconv.Itoa(c.TotalCost)
	v.renderer.DrawText(screen, f, x+pad, y+pad, labelColor, 1)
	if v.tileSize < 48 {
		return
	}

	id := strconv.Itoa(c.ID)
	idW, _ := v.renderer.MeasureText(id, 1)
	v.renderer.DrawText(screen, id, x+v.tileSize-idW-pad, y+pad, labelColor, 1)

	g := strconv.Itoa(c.PathCost)
	_, gh := v.renderer.MeasureText(g, 1)
	v.renderer.DrawText(screen, g, x+pad, y+v.tileSize-gh-pad, labelColor, 1)

	h := strconv.Itoa(c.Heuristic)
	hw, hh := v.renderer.MeasureText(h, 1)
	v.renderer.DrawText(screen, h, x+v.tileSize-hw-pad, y+v.tileSize-hh-pad, labelColor, 1)
}

func (v *Viewer) drawPanel(screen render.Image) {
	x := v.engine.Grid().Cols()*v.tileSize + panelMargin

	v.renderer.DrawText(screen, v.status(), x, panelMargin, textColor, 1.2)
	v.renderer.DrawText(screen, fmt.Sprintf("Run %d  Step %d", v.engine.Run(), v.engine.Steps()), x, 32, dimTextColor, 1)
	cost := "-"
	if v.engine.Path() != nil {
		cost = fmt.Sprintf("%d (%d cells)", v.engine.PathCost(), len(v.engine.Path()))
	}
	v.renderer.DrawText(screen, "Path cost: "+cost, x, 50, dimTextColor, 1)
	v.renderer.DrawText(screen, "Policy: "+v.engine.Selection().String(), x, 68, dimTextColor, 1)

	for _, b := range v.buttons {
		fill, label := buttonOffColor, dimTextColor
		if b.enabled() {
			fill, label = buttonColor, textColor
		}
		r := b.rect
		v.renderer.FillRect(screen, float32(r.x), float32(r.y), float32(r.w), float32(r.h), fill)
		v.renderer.DrawText(screen, b.label, r.x+8, r.y+6, label, 1)
	}

	y := v.eventLogTop()
	if v.message != "" {
		v.renderer.DrawText(screen, v.message, x, y, errorColor, 1)
		y += 18
	}
	if v.events != nil {
		for i := len(v.events.Events) - 1; i >= 0; i-- {
			v.renderer.DrawText(screen, eventLine(v.events.Events[i]), x, y, dimTextColor, 1)
			y += 16
		}
	}

	_, h := v.ScreenSize()
	v.renderer.DrawDebug(screen, v.hoverLine(), x, h-20)
}

// eventLine is the one-line panel rendering of an event.
func eventLine(e observe.Event) string {
	switch e.Msg {
	case observe.EventFound:
		return fmt.Sprintf("#%d found cost %d", e.Run, e.Int(observe.MetaPathCost, 0))
	case observe.EventExhausted:
		return fmt.Sprintf("#%d exhausted step %d", e.Run, e.Step)
	case observe.EventExpanded:
		return fmt.Sprintf("#%d step %d (%d,%d)", e.Run, e.Step,
			e.Int(observe.MetaRow, 0), e.Int(observe.MetaCol, 0))
	default:
		return fmt.Sprintf("#%d %s", e.Run, e.Msg)
	}
}

// hoverLine describes the cell under the cursor.
func (v *Viewer) hoverLine() string {
	pos, ok := v.cellAt(v.input.GetCursorPosition())
	if !ok {
		return "C: costs  Q: quit"
	}
	c, _ := v.engine.Grid().At(pos)
	return fmt.Sprintf("%s #%d g=%d h=%d f=%d", pos, c.ID, c.PathCost, c.Heuristic, c.TotalCost)
}
