package pipeline

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrNoFilterSelected is wrapped by the ImplementationError emitted when
	// generation is requested before any filter was selected.
	ErrNoFilterSelected = errors.New("no filter selected")

	// ErrGenerationFailed means the engine produced no output for a
	// complete configuration.
	ErrGenerationFailed = errors.New("generation failed")

	// ErrClosed is returned by calls made after Close.
	ErrClosed = errors.New("pipeline closed")
)

// NeedsMoreParametersError lists required parameters that have no value,
// in descriptor order.
type NeedsMoreParametersError struct {
	Names []string
}

func (e *NeedsMoreParametersError) Error() string {
	return fmt.Sprintf("needs more parameters: %s", strings.Join(e.Names, ", "))
}

// ImplementationError reports a broken internal invariant. It indicates a
// bug rather than a user-correctable condition.
type ImplementationError struct {
	Message string
	Err     error
}

func (e *ImplementationError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("implementation error: %s: %v", e.Message, e.Err)
	}
	return "implementation error: " + e.Message
}

func (e *ImplementationError) Unwrap() error {
	return e.Err
}

// IsNeedsMoreParameters reports whether err asks for more parameters, and
// which ones.
func IsNeedsMoreParameters(err error) ([]string, bool) {
	var needs *NeedsMoreParametersError
	if errors.As(err, &needs) {
		return needs.Names, true
	}
	return nil, false
}

// IsImplementationError reports whether err is an ImplementationError.
func IsImplementationError(err error) bool {
	var impl *ImplementationError
	return errors.As(err, &impl)
}
