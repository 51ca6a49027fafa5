package observe

import (
	"encoding/json"
	"fmt"
	"log"
	"sort"
	"strings"
)

// LogEmitter writes one line per event to a *log.Logger, either as
// key=value text or as a JSON object.
//
//	[node_expanded] run=1 step=3 cell=7 meta={"closed":3,"open":4}
//	{"run":1,"step":3,"cell":7,"msg":"node_expanded","meta":{"closed":3,"open":4}}
type LogEmitter struct {
	logger   *log.Logger
	jsonMode bool
	verbose  bool
}

// NewLogEmitter creates a LogEmitter. A nil logger uses the standard
// logger. Unless verbose is set, per-expansion events are skipped.
func NewLogEmitter(logger *log.Logger, jsonMode, verbose bool) *LogEmitter {
	if logger == nil {
		logger = log.Default()
	}
	return &LogEmitter{
		logger:   logger,
		jsonMode: jsonMode,
		verbose:  verbose,
	}
}

// Emit implements Emitter.
func (l *LogEmitter) Emit(event Event) {
	if event.Msg == EventExpanded && !l.verbose {
		return
	}
	if l.jsonMode {
		l.emitJSON(event)
		return
	}
	l.emitText(event)
}

func (l *LogEmitter) emitJSON(event Event) {
	data, err := json.Marshal(struct {
		Run  int                    `json:"run"`
		Step int                    `json:"step"`
		Cell int                    `json:"cell"`
		Msg  string                 `json:"msg"`
		Meta map[string]interface{} `json:"meta,omitempty"`
	}{
		Run:  event.Run,
		Step: event.Step,
		Cell: event.Cell,
		Msg:  event.Msg,
		Meta: event.Meta,
	})
	if err != nil {
		l.logger.Printf(`{"error":"failed to marshal event: %v"}`, err)
		return
	}
	l.logger.Print(string(data))
}

func (l *LogEmitter) emitText(event Event) {
	var b strings.Builder
	fmt.Fprintf(&b, "[%s] run=%d step=%d cell=%d", event.Msg, event.Run, event.Step, event.Cell)

	if len(event.Meta) > 0 {
		// json.Marshal sorts map keys, which keeps lines stable.
		if metaJSON, err := json.Marshal(event.Meta); err == nil {
			fmt.Fprintf(&b, " meta=%s", metaJSON)
		} else {
			keys := make([]string, 0, len(event.Meta))
			for k := range event.Meta {
				keys = append(keys, k)
			}
			sort.Strings(keys)
			for _, k := range keys {
				fmt.Fprintf(&b, " %s=%v", k, event.Meta[k])
			}
		}
	}
	l.logger.Print(b.String())
}
