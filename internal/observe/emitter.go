package observe

// Emitter receives search events. Emit is called synchronously from the
// goroutine driving the engine and must not block for long or panic.
type Emitter interface {
	Emit(event Event)
}

// NullEmitter drops every event.
type NullEmitter struct{}

// Emit implements Emitter.
func (NullEmitter) Emit(Event) {}

// MultiEmitter fans an event out to several emitters in order.
type MultiEmitter []Emitter

// Multi builds a MultiEmitter, skipping nil entries. It returns a
// NullEmitter when nothing is left.
func Multi(emitters ...Emitter) Emitter {
	var out MultiEmitter
	for _, e := range emitters {
		if e != nil {
			out = append(out, e)
		}
	}
	switch len(out) {
	case 0:
		return NullEmitter{}
	case 1:
		return out[0]
	default:
		return out
	}
}

// Emit implements Emitter.
func (m MultiEmitter) Emit(event Event) {
	for _, e := range m {
		e.Emit(event)
	}
}

// Recorder keeps every event in memory. Used by tests and by the viewer's
// event log panel.
type Recorder struct {
	Events []Event
	limit  int
}

// NewRecorder creates a recorder that keeps the last limit events,
// or all of them when limit <= 0.
func NewRecorder(limit int) *Recorder {
	return &Recorder{limit: limit}
}

// Emit implements Emitter.
func (r *Recorder) Emit(event Event) {
	r.Events = append(r.Events, event)
	if r.limit > 0 && len(r.Events) > r.limit {
		r.Events = r.Events[len(r.Events)-r.limit:]
	}
}

// Last returns the most recent event and whether there was one.
func (r *Recorder) Last() (Event, bool) {
	if len(r.Events) == 0 {
		return Event{}, false
	}
	return r.Events[len(r.Events)-1], true
}

// Filter returns the recorded events named msg.
func (r *Recorder) Filter(msg string) []Event {
	var out []Event
	for _, e := range r.Events {
		if e.Msg == msg {
			out = append(out, e)
		}
	}
	return out
}
