package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"chosenoffset.com/astarviz/internal/pathfind"
)

func TestDefaultConfigIsValid(t *testing.T) {
	cfg := DefaultConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Expected default config to be valid, got %v", err)
	}
	if cfg.Search.MinimumCost != 10 {
		t.Errorf("Expected minimum cost 10, got %d", cfg.Search.MinimumCost)
	}
	if cfg.Search.Selection != "observed" {
		t.Errorf("Expected observed selection, got '%s'", cfg.Search.Selection)
	}
}

func TestLoadConfigMissingFileReturnsDefaults(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "missing.json"))
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if cfg.Grid.Rows != DefaultConfig().Grid.Rows {
		t.Errorf("Expected default rows, got %d", cfg.Grid.Rows)
	}
}

func TestLoadConfigOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "astarviz.json")
	data := `{
		"grid": {"rows": 5, "cols": 7},
		"search": {"selection": "strict"},
		"telemetry": {"log_events": true, "json": true}
	}`
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatalf("Failed to write config: %v", err)
	}

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if cfg.Grid.Rows != 5 || cfg.Grid.Cols != 7 {
		t.Errorf("Expected 5x7 grid, got %dx%d", cfg.Grid.Rows, cfg.Grid.Cols)
	}
	if cfg.Grid.TileSize != 32 {
		t.Errorf("Expected default tile size kept, got %d", cfg.Grid.TileSize)
	}
	if !cfg.Telemetry.LogEvents || !cfg.Telemetry.JSON {
		t.Error("Expected telemetry flags set")
	}

	opts, err := cfg.EngineOptions()
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	var o pathfind.Options
	for _, opt := range opts {
		opt(&o)
	}
	if o.Selection != pathfind.SelectStrict {
		t.Errorf("Expected strict selection, got %s", o.Selection)
	}
	if o.MinimumCost != 10 {
		t.Errorf("Expected minimum cost 10, got %d", o.MinimumCost)
	}
}

func TestLoadConfigErrors(t *testing.T) {
	tests := []struct {
		name string
		data string
		want string
	}{
		{"bad json", `{"grid":`, "failed to parse config"},
		{"bad selection", `{"search": {"selection": "greedy"}}`, "unknown selection policy"},
		{"bad cost", `{"search": {"minimum_cost": 0}}`, "minimum_cost"},
		{"bad size", `{"grid": {"rows": 0}}`, "at least 1x1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "astarviz.json")
			if err := os.WriteFile(path, []byte(tt.data), 0o644); err != nil {
				t.Fatalf("Failed to write config: %v", err)
			}
			_, err := LoadConfig(path)
			if err == nil {
				t.Fatal("Expected error, got nil")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("Expected error containing '%s', got '%v'", tt.want, err)
			}
		})
	}
}

func TestValidateCollectsAllErrors(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Grid.TileSize = 2
	cfg.Viewer.StepInterval = 0

	err := cfg.Validate()
	if err == nil {
		t.Fatal("Expected error, got nil")
	}
	for _, want := range []string{"tile_size", "step_interval"} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("Expected error to mention %s, got '%v'", want, err)
		}
	}
}

func TestLayoutAllowsZeroDimensions(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Grid.Rows, cfg.Grid.Cols = 0, 0
	cfg.Grid.Layout = "S.G"
	if err := cfg.Validate(); err != nil {
		t.Errorf("Expected layout to stand in for dimensions, got %v", err)
	}
}
