package engine

import (
	"fmt"
	"strings"
)

// TypecheckError reports every name the translation references that the
// registries and the shape catalog do not know. It corresponds to a style
// program that parsed but cannot mean anything.
type TypecheckError struct {
	Errors []string
}

// Error implements error.
func (e *TypecheckError) Error() string {
	return fmt.Sprintf("style typecheck failed: %s", strings.Join(e.Errors, "; "))
}

// LayeringError reports an unsatisfiable layering declaration set.
type LayeringError struct {
	Msg string
}

// Error implements error.
func (e *LayeringError) Error() string {
	return fmt.Sprintf("style layering failed: %s", e.Msg)
}
