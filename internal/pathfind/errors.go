package pathfind

import (
	"errors"
	"fmt"
)

// ErrConfiguration is wrapped by every ConfigurationError.
var ErrConfiguration = errors.New("invalid search configuration")

// ErrInvalidState is wrapped by every InvalidStateError.
var ErrInvalidState = errors.New("operation not allowed in current engine state")

// ConfigurationError reports a grid that cannot start a search: the
// number of Start and Goal cells found and what was wrong.
type ConfigurationError struct {
	Starts int
	Goals  int
	Reason string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("%v: %s (starts=%d, goals=%d)", ErrConfiguration, e.Reason, e.Starts, e.Goals)
}

func (e *ConfigurationError) Unwrap() error { return ErrConfiguration }

// InvalidStateError reports an operation called in a state that does not
// allow it, e.g. Step on a finished run.
type InvalidStateError struct {
	Op    string
	State State
}

func (e *InvalidStateError) Error() string {
	return fmt.Sprintf("%s: %v (state %s)", e.Op, ErrInvalidState, e.State)
}

func (e *InvalidStateError) Unwrap() error { return ErrInvalidState }
