// Package config provides the visualizer settings.
// Settings are loaded from a JSON file over built-in defaults.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"chosenoffset.com/astarviz/internal/pathfind"
)

// Config holds all visualizer settings
type Config struct {
	Grid      GridConfig      `json:"grid"`
	Search    SearchConfig    `json:"search"`
	Viewer    ViewerConfig    `json:"viewer"`
	Telemetry TelemetryConfig `json:"telemetry"`
}

// GridConfig defines the grid dimensions
type GridConfig struct {
	Rows     int    `json:"rows"`
	Cols     int    `json:"cols"`
	TileSize int    `json:"tile_size"` // Pixels per cell side
	Layout   string `json:"layout"`    // Optional initial layout, rows separated by '/'
}

// SearchConfig defines the pathfinding rules
type SearchConfig struct {
	MinimumCost int    `json:"minimum_cost"` // Cost of one orthogonal move
	Selection   string `json:"selection"`    // "observed" or "strict"
}

// ViewerConfig defines the window and panel
type ViewerConfig struct {
	StepInterval int  `json:"step_interval"` // Ticks between auto-run steps
	ShowCosts    bool `json:"show_costs"`    // Draw id/g/h/f labels on cells
	PanelWidth   int  `json:"panel_width"`   // Side panel width in pixels
	EventLog     int  `json:"event_log"`     // Events kept for the panel
}

// TelemetryConfig defines event output
type TelemetryConfig struct {
	LogEvents   bool   `json:"log_events"`
	JSON        bool   `json:"json"`
	Verbose     bool   `json:"verbose"`      // Also log every expansion
	MetricsAddr string `json:"metrics_addr"` // e.g. ":9090", empty disables
	Trace       bool   `json:"trace"`
}

// DefaultConfig returns sensible defaults for a desktop window
func DefaultConfig() *Config {
	return &Config{
		Grid: GridConfig{
			Rows:     20,
			Cols:     20,
			TileSize: 32,
		},
		Search: SearchConfig{
			MinimumCost: pathfind.DefaultMinimumCost,
			Selection:   pathfind.SelectObserved.String(),
		},
		Viewer: ViewerConfig{
			StepInterval: 1,
			ShowCosts:    true,
			PanelWidth:   200,
			EventLog:     8,
		},
	}
}

// LoadConfig loads config from a JSON file
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		// Return defaults if file doesn't exist
		if os.IsNotExist(err) {
			return DefaultConfig(), nil
		}
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	config := DefaultConfig() // Start with defaults
	if err := json.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return config, nil
}

// Validate checks value ranges
func (c *Config) Validate() error {
	var errs []error
	if c.Grid.Layout == "" && (c.Grid.Rows <= 0 || c.Grid.Cols <= 0) {
		errs = append(errs, fmt.Errorf("grid must be at least 1x1, got %dx%d", c.Grid.Rows, c.Grid.Cols))
	}
	if c.Grid.TileSize < 8 {
		errs = append(errs, fmt.Errorf("tile_size must be at least 8, got %d", c.Grid.TileSize))
	}
	if c.Search.MinimumCost <= 0 {
		errs = append(errs, fmt.Errorf("minimum_cost must be positive, got %d", c.Search.MinimumCost))
	}
	if _, err := pathfind.ParseSelection(c.Search.Selection); err != nil {
		errs = append(errs, err)
	}
	if c.Viewer.StepInterval <= 0 {
		errs = append(errs, fmt.Errorf("step_interval must be positive, got %d", c.Viewer.StepInterval))
	}
	if c.Viewer.PanelWidth < 0 {
		errs = append(errs, fmt.Errorf("panel_width must not be negative, got %d", c.Viewer.PanelWidth))
	}
	if c.Viewer.EventLog < 0 {
		errs = append(errs, fmt.Errorf("event_log must not be negative, got %d", c.Viewer.EventLog))
	}
	return errors.Join(errs...)
}

// EngineOptions converts the search settings to engine options
func (c *Config) EngineOptions() ([]pathfind.Option, error) {
	sel, err := pathfind.ParseSelection(c.Search.Selection)
	if err != nil {
		return nil, err
	}
	return []pathfind.Option{
		pathfind.WithMinimumCost(c.Search.MinimumCost),
		pathfind.WithSelection(sel),
	}, nil
}
