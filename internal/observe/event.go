// Package observe carries search events out of the engine to pluggable
// backends: log lines, OpenTelemetry spans and Prometheus metrics.
package observe

// Event names emitted by the search engine.
const (
	EventInitialized = "run_initialized"
	EventExpanded    = "node_expanded"
	EventFound       = "goal_found"
	EventExhausted   = "search_exhausted"
	EventRestarted   = "run_restarted"
)

// Meta keys set by the engine.
const (
	MetaRow        = "row"
	MetaCol        = "col"
	MetaOpen       = "open"
	MetaClosed     = "closed"
	MetaPathCost   = "path_cost"
	MetaPathLength = "path_length"
	MetaFullReset  = "full_reset"
)

// Event is one observable moment of a search run.
type Event struct {
	// Run is the 1-based run counter of the engine.
	Run int

	// Step is the number of expansions performed so far in the run.
	Step int

	// Cell is the cell the event concerns, -1 when none.
	Cell int

	// Msg names the event, one of the Event* constants.
	Msg string

	Meta map[string]interface{}
}

// Int reads an integer meta value, returning def when absent.
func (e Event) Int(key string, def int) int {
	if v, ok := e.Meta[key].(int); ok {
		return v
	}
	return def
}
