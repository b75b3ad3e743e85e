package platform

import (
	"errors"
	"fmt"
	"strings"
)

// Provider bundles the host backends a dispatcher talks to.
type Provider struct {
	Runtime    Runtime
	Focuser    Focuser
	Grabber    Grabber
	WindowTree WindowTree
}

// ErrIncompleteProvider is returned when a required backend is missing.
var ErrIncompleteProvider = errors.New("incomplete platform provider")

// Validate reports every backend that is nil.
func (p Provider) Validate() error {
	var missing []string
	if p.Runtime == nil {
		missing = append(missing, "runtime")
	}
	if p.Focuser == nil {
		missing = append(missing, "focuser")
	}
	if p.Grabber == nil {
		missing = append(missing, "grabber")
	}
	if p.WindowTree == nil {
		missing = append(missing, "window tree")
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: missing %s", ErrIncompleteProvider, strings.Join(missing, ", "))
	}
	return nil
}
