package pathfind

import "fmt"

// State is the engine's position in a search run.
//
//	Idle -> Initialized -> Stepping -> Found | Exhausted
//
// Found and Exhausted are terminal until Restart.
type State int

const (
	Idle State = iota
	Initialized
	Stepping
	Found
	Exhausted
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Initialized:
		return "initialized"
	case Stepping:
		return "stepping"
	case Found:
		return "found"
	case Exhausted:
		return "exhausted"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// Terminal reports whether the run has ended.
func (s State) Terminal() bool {
	return s == Found || s == Exhausted
}

// Membership is a cell's place in the current run.
type Membership uint8

const (
	NotQueued Membership = iota
	Open
	Closed
)

func (m Membership) String() string {
	switch m {
	case NotQueued:
		return "not_queued"
	case Open:
		return "open"
	case Closed:
		return "closed"
	default:
		return fmt.Sprintf("membership(%d)", int(m))
	}
}

// Selection chooses how the next cell to expand is picked.
type Selection int

const (
	// SelectObserved keeps every open cell whose total cost is <= the
	// running minimum seen during one scan, then takes the candidate with
	// the smallest heuristic (first on ties).
	SelectObserved Selection = iota

	// SelectStrict takes the smallest total cost, then the smallest
	// heuristic, then the earliest insertion.
	SelectStrict
)

func (s Selection) String() string {
	switch s {
	case SelectObserved:
		return "observed"
	case SelectStrict:
		return "strict"
	default:
		return fmt.Sprintf("selection(%d)", int(s))
	}
}

// ParseSelection maps a config name to a Selection.
func ParseSelection(name string) (Selection, error) {
	switch name {
	case "", "observed":
		return SelectObserved, nil
	case "strict":
		return SelectStrict, nil
	default:
		return SelectObserved, fmt.Errorf("unknown selection policy %q", name)
	}
}
