// Package sim is an in-memory window-manager host. It keeps a client/window
// tree, tracks focus and passive grabs, and records every call it receives so
// dispatcher behavior can be observed without a display server.
package sim

import (
	"fmt"
	"sync"

	"github.com/mj1618/wmpolicy/internal/model"
	"github.com/mj1618/wmpolicy/internal/platform"
)

// Call is one recorded host operation.
type Call struct {
	Op      string         `yaml:"op"                json:"op"`
	Client  model.WindowID `yaml:"client"            json:"client"`
	Binding string         `yaml:"binding,omitempty" json:"binding,omitempty"`
}

func (c Call) String() string {
	if c.Binding != "" {
		return fmt.Sprintf("%s %s %s", c.Op, c.Client, c.Binding)
	}
	return fmt.Sprintf("%s %s", c.Op, c.Client)
}

// Host implements every platform backend in memory.
type Host struct {
	mu      sync.Mutex
	screens []model.Screen
	owner   map[model.WindowID]model.WindowID // window -> client
	focused model.WindowID
	grabs   map[model.WindowID][]model.Binding
	calls   []Call
}

// DefaultScreenSize is the size given to screens created by NewHost.
var DefaultScreenSize = [2]int{1920, 1080}

// NewHost creates a host with n screens. Screen roots get IDs 1..n; client
// windows should use IDs above that.
func NewHost(n int) *Host {
	h := &Host{
		owner: make(map[model.WindowID]model.WindowID),
		grabs: make(map[model.WindowID][]model.Binding),
	}
	for i := 0; i < n; i++ {
		h.screens = append(h.screens, model.Screen{
			Index:  i,
			Root:   model.WindowID(i + 1),
			Width:  DefaultScreenSize[0],
			Height: DefaultScreenSize[1],
		})
	}
	return h
}

// Provider returns a platform.Provider backed by h.
func (h *Host) Provider() platform.Provider {
	return platform.Provider{
		Runtime:    h,
		Focuser:    h,
		Grabber:    h,
		WindowTree: h,
	}
}

func (h *Host) Name() string {
	return "sim"
}

func (h *Host) ScreenCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.screens)
}

func (h *Host) Screen(i int) (model.Screen, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if i < 0 || i >= len(h.screens) {
		return model.Screen{}, fmt.Errorf("screen %d out of range (have %d)", i, len(h.screens))
	}
	return h.screens[i], nil
}

// AddClient maps a client's top-level window and its descendant windows.
func (h *Host) AddClient(client model.WindowID, children ...model.WindowID) error {
	if client == model.None {
		return fmt.Errorf("client window id must be non-zero")
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.isRoot(client) {
		return fmt.Errorf("window %s is a screen root", client)
	}
	if _, ok := h.owner[client]; ok {
		return fmt.Errorf("window %s already exists", client)
	}
	for _, w := range children {
		if _, ok := h.owner[w]; ok || w == client || w == model.None || h.isRoot(w) {
			return fmt.Errorf("child window %s is already in use", w)
		}
	}
	h.owner[client] = client
	for _, w := range children {
		h.owner[w] = client
	}
	return nil
}

// RemoveClient destroys a client and all of its windows.
func (h *Host) RemoveClient(client model.WindowID) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if owner, ok := h.owner[client]; !ok || owner != client {
		return fmt.Errorf("no client %s", client)
	}
	for w, owner := range h.owner {
		if owner == client {
			delete(h.owner, w)
		}
	}
	if h.focused == client {
		h.focused = model.None
	}
	return nil
}

func (h *Host) ClientOf(w model.WindowID) (model.WindowID, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	c, ok := h.owner[w]
	return c, ok
}

func (h *Host) Focus(client model.WindowID) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.owner[client]; !ok {
		return fmt.Errorf("cannot focus %s: no such client", client)
	}
	h.focused = client
	h.calls = append(h.calls, Call{Op: "focus", Client: client})
	return nil
}

func (h *Host) Unfocus(client model.WindowID) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.focused != client {
		return fmt.Errorf("cannot unfocus %s: focus is on %s", client, h.focused)
	}
	h.focused = model.None
	h.calls = append(h.calls, Call{Op: "unfocus", Client: client})
	return nil
}

// GrabButton establishes a passive grab. Grabbing a combination the client
// already holds replaces the existing grab, as XGrabButton does for the same
// grabbing client.
func (h *Host) GrabButton(client model.WindowID, b model.Binding) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.owner[client]; !ok {
		return fmt.Errorf("cannot grab %s on %s: no such client", b, client)
	}
	held := false
	for _, g := range h.grabs[client] {
		if g == b {
			held = true
			break
		}
	}
	if !held {
		h.grabs[client] = append(h.grabs[client], b)
	}
	h.calls = append(h.calls, Call{Op: "grab", Client: client, Binding: b.String()})
	return nil
}

// UngrabButton releases a grab. Releasing a grab that does not exist is a no-op,
// as it is for XUngrabButton.
func (h *Host) UngrabButton(client model.WindowID, b model.Binding) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	grabs := h.grabs[client]
	for i, g := range grabs {
		if g == b {
			h.grabs[client] = append(grabs[:i:i], grabs[i+1:]...)
			break
		}
	}
	if len(h.grabs[client]) == 0 {
		delete(h.grabs, client)
	}
	h.calls = append(h.calls, Call{Op: "ungrab", Client: client, Binding: b.String()})
	return nil
}

// Focused returns the client holding focus, or model.None.
func (h *Host) Focused() model.WindowID {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.focused
}

// Grabs returns the active grabs on client in grab order.
func (h *Host) Grabs(client model.WindowID) []model.Binding {
	h.mu.Lock()
	defer h.mu.Unlock()
	out := make([]model.Binding, len(h.grabs[client]))
	copy(out, h.grabs[client])
	return out
}

// GrabCount returns the number of active grabs across all clients.
func (h *Host) GrabCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	n := 0
	for _, g := range h.grabs {
		n += len(g)
	}
	return n
}

// Calls returns every call recorded since the last Drain.
func (h *Host) Calls() []Call {
	h.mu.Lock()
	defer h.mu.Unlock()
	out := make([]Call, len(h.calls))
	copy(out, h.calls)
	return out
}

// Drain returns and clears the recorded calls.
func (h *Host) Drain() []Call {
	h.mu.Lock()
	defer h.mu.Unlock()
	out := h.calls
	h.calls = nil
	return out
}

func (h *Host) isRoot(w model.WindowID) bool {
	for _, s := range h.screens {
		if s.Root == w {
			return true
		}
	}
	return false
}
