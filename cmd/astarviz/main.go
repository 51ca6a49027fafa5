package main

import (
	"context"
	"flag"
	"log"
	"net/http"
	"os"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel"

	"chosenoffset.com/astarviz/internal/config"
	"chosenoffset.com/astarviz/internal/editor"
	"chosenoffset.com/astarviz/internal/grid"
	"chosenoffset.com/astarviz/internal/observe"
	"chosenoffset.com/astarviz/internal/pathfind"
	ebitenrender "chosenoffset.com/astarviz/internal/render/ebiten"
	"chosenoffset.com/astarviz/internal/viewer"
)

func main() {
	configPath := flag.String("config", "astarviz.json", "path to JSON config")
	rows := flag.Int("rows", 0, "grid rows (overrides config)")
	cols := flag.Int("cols", 0, "grid columns (overrides config)")
	tile := flag.Int("tile", 0, "tile size in pixels (overrides config)")
	cost := flag.Int("cost", 0, "cost of one move (overrides config)")
	strict := flag.Bool("strict", false, "use strict lowest-f selection")
	metricsAddr := flag.String("metrics", "", "serve Prometheus metrics on this address, e.g. :9090")
	events := flag.Bool("events", false, "log search events")
	layout := flag.String("layout", "", "initial layout, rows separated by '/' (S start, G goal, # wall)")
	trace := flag.Bool("trace", false, "record a span per run and log it")
	flag.Parse()

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	applyFlags(cfg, *rows, *cols, *tile, *cost, *strict, *metricsAddr, *events, *layout, *trace)
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid settings: %v", err)
	}

	g, err := buildGrid(cfg.Grid)
	if err != nil {
		log.Fatalf("Failed to build grid: %v", err)
	}

	// Event sinks
	recorder := observe.NewRecorder(cfg.Viewer.EventLog)
	sinks := []observe.Emitter{recorder}
	if cfg.Telemetry.LogEvents {
		sinks = append(sinks, observe.NewLogEmitter(log.New(os.Stderr, "", log.LstdFlags), cfg.Telemetry.JSON, cfg.Telemetry.Verbose))
	}
	if cfg.Telemetry.MetricsAddr != "" {
		registry := prometheus.NewRegistry()
		sinks = append(sinks, observe.NewMetrics(registry))
		serveMetrics(cfg.Telemetry.MetricsAddr, registry)
	}
	if cfg.Telemetry.Trace {
		tp := observe.NewTracerProvider(observe.NewLogSpanExporter(nil))
		otel.SetTracerProvider(tp)
		defer func() {
			if err := tp.Shutdown(context.Background()); err != nil {
				log.Printf("Warning: tracer shutdown: %v", err)
			}
		}()
		spans := observe.NewOTelEmitter(context.Background(), otel.Tracer("astarviz"))
		defer spans.Close()
		sinks = append(sinks, spans)
	}

	opts, err := cfg.EngineOptions()
	if err != nil {
		log.Fatalf("Invalid search settings: %v", err)
	}
	opts = append(opts, pathfind.WithEmitter(observe.Multi(sinks...)))
	engine := pathfind.New(g, opts...)
	if start, _, err := pathfind.FindEndpoints(g); err == nil {
		engine.DesignateStart(start)
	}

	// Initialize the renderer backend (ebiten)
	renderer := ebitenrender.NewRenderer()
	inputMgr := ebitenrender.NewInputManager()
	window := ebitenrender.NewEngine()

	scene := viewer.New(viewer.Options{
		Engine:       engine,
		Editor:       editor.New(g, engine),
		Renderer:     renderer,
		Input:        inputMgr,
		Events:       recorder,
		TileSize:     cfg.Grid.TileSize,
		PanelWidth:   cfg.Viewer.PanelWidth,
		StepInterval: cfg.Viewer.StepInterval,
		ShowCosts:    cfg.Viewer.ShowCosts,
	})

	// Set up the window
	w, h := scene.ScreenSize()
	window.SetWindowSize(w, h)
	window.SetWindowTitle("A* Visualizer")
	window.SetWindowResizable(false)

	log.Printf("Starting %dx%d grid, selection %s", g.Rows(), g.Cols(), engine.Selection())
	if err := window.RunGame(scene); err != nil {
		log.Printf("Window closed with error: %v", err)
	}
}

func applyFlags(cfg *config.Config, rows, cols, tile, cost int, strict bool, metricsAddr string, events bool, layout string, trace bool) {
	if rows > 0 {
		cfg.Grid.Rows = rows
	}
	if cols > 0 {
		cfg.Grid.Cols = cols
	}
	if tile > 0 {
		cfg.Grid.TileSize = tile
	}
	if layout != "" {
		cfg.Grid.Layout = layout
	}
	if cost > 0 {
		cfg.Search.MinimumCost = cost
	}
	if strict {
		cfg.Search.Selection = pathfind.SelectStrict.String()
	}
	if metricsAddr != "" {
		cfg.Telemetry.MetricsAddr = metricsAddr
	}
	if events {
		cfg.Telemetry.LogEvents = true
	}
	if trace {
		cfg.Telemetry.Trace = true
	}
}

func buildGrid(gc config.GridConfig) (*grid.Grid, error) {
	if gc.Layout != "" {
		return grid.ParseLayout(gc.Layout)
	}
	return grid.New(gc.Rows, gc.Cols)
}

func serveMetrics(addr string, registry *prometheus.Registry) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))
	go func() {
		log.Printf("Serving metrics on %s/metrics", addr)
		if err := http.ListenAndServe(addr, mux); err != nil {
			log.Printf("Warning: metrics server stopped: %v", err)
		}
	}()
}
