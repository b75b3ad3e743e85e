package model

import (
	"errors"
	"fmt"
)

// BindingGrammar describes the accepted binding syntax in error messages.
const BindingGrammar = `[MOD-]...BUTTON, e.g. "A-1" or "C-A-2"; MOD is one of C, S, A, W, M2, M3, M5; BUTTON is 1-5`

var (
	// ErrInvalidBindingFormat is returned when a binding string does not match the grammar.
	ErrInvalidBindingFormat = errors.New("invalid binding format")
	// ErrDuplicateModifierInBinding is returned when a binding names the same modifier twice.
	ErrDuplicateModifierInBinding = errors.New("duplicate modifier in binding")
)

// BindingError reports why a single binding string was rejected.
type BindingError struct {
	Input  string
	Reason string
	Err    error // ErrInvalidBindingFormat or ErrDuplicateModifierInBinding
}

func (e *BindingError) Error() string {
	return fmt.Sprintf("%v %q: %s (expected %s)", e.Err, e.Input, e.Reason, BindingGrammar)
}

func (e *BindingError) Unwrap() error {
	return e.Err
}

func invalidBinding(input, reason string) error {
	return &BindingError{Input: input, Reason: reason, Err: ErrInvalidBindingFormat}
}
