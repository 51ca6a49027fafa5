package grid

import (
	"fmt"
	"strings"
)

// Parse builds a grid from text rows using the glyphs of String.
// Visited and on-path glyphs are accepted so a rendered grid parses back.
func Parse(rows []string) (*Grid, error) {
	if len(rows) == 0 {
		return nil, fmt.Errorf("layout has no rows")
	}

	width := len(rows[0])
	for i, row := range rows {
		if len(row) != width {
			return nil, fmt.Errorf("layout width mismatch at row %d: expected %d, got %d", i, width, len(row))
		}
	}

	g, err := New(len(rows), width)
	if err != nil {
		return nil, fmt.Errorf("failed to create grid from layout: %w", err)
	}

	for r, row := range rows {
		for c := 0; c < len(row); c++ {
			class, ok := glyphClass(row[c])
			if !ok {
				return nil, fmt.Errorf("unknown glyph %q at %v", row[c], Position{Row: r, Col: c})
			}
			g.cells[r*width+c].Class = class
		}
	}
	return g, nil
}

// ParseLayout splits a single-line layout on '/' or newlines and parses it.
func ParseLayout(layout string) (*Grid, error) {
	layout = strings.TrimSpace(layout)
	rows := strings.FieldsFunc(layout, func(r rune) bool {
		return r == '/' || r == '\n'
	})
	for i := range rows {
		rows[i] = strings.TrimSpace(rows[i])
	}
	return Parse(rows)
}

func glyphClass(b byte) (Classification, bool) {
	switch b {
	case '.':
		return Neutral, true
	case 'S':
		return Start, true
	case 'G':
		return Goal, true
	case '#':
		return Wall, true
	case 'o':
		return Visited, true
	case '*':
		return OnPath, true
	default:
		return Neutral, false
	}
}
