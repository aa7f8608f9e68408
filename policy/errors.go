package policy

import (
	"fmt"
)

type (
	// SchemaError describes one way a payload deviates from the search
	// response shape. Field is empty when the payload itself is unusable.
	SchemaError struct {
		Field  string
		Reason string
	}

	// CompilationError indicates a rule expression could not be compiled
	CompilationError struct {
		Expression string
		Reason     string
		Err        error
	}

	// EvaluationError indicates a compiled rule failed at run time
	EvaluationError struct {
		Rule   string
		Reason string
		Err    error
	}
)

func (e *SchemaError) Error() string {
	if e.Field == "" {
		return "schema violation: " + e.Reason
	}
	return fmt.Sprintf("schema violation: field %q %s", e.Field, e.Reason)
}

func (e *CompilationError) Error() string {
	return fmt.Sprintf("compilation error in '%s': %s", e.Expression, e.Reason)
}

func (e *CompilationError) Unwrap() error {
	return e.Err
}

func (e *EvaluationError) Error() string {
	return fmt.Sprintf("evaluation error for rule '%s': %s", e.Rule, e.Reason)
}

func (e *EvaluationError) Unwrap() error {
	return e.Err
}
