package platform

import "github.com/mj1618/wmpolicy/internal/model"

// Runtime is the capability query against the running window-manager instance.
type Runtime interface {
	// Name returns the host name for logging/display.
	Name() string
	// ScreenCount returns the number of screens managed by the instance.
	ScreenCount() int
	// Screen returns the i-th screen, 0 <= i < ScreenCount().
	Screen(i int) (model.Screen, error)
}

// Focuser moves keyboard focus between clients.
type Focuser interface {
	Focus(client model.WindowID) error
	Unfocus(client model.WindowID) error
}

// Grabber establishes and releases passive button grabs on client windows.
type Grabber interface {
	GrabButton(client model.WindowID, b model.Binding) error
	UngrabButton(client model.WindowID, b model.Binding) error
}

// WindowTree resolves which client owns a window.
type WindowTree interface {
	// ClientOf returns the client whose top-level window is w or an ancestor of w.
	ClientOf(w model.WindowID) (model.WindowID, bool)
}
