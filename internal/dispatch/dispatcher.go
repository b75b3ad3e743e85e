// Package dispatch applies a FocusPolicy to pointer and window events,
// driving focus changes and passive grabs through a platform.Provider.
package dispatch

import (
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/mj1618/wmpolicy/internal/logger"
	"github.com/mj1618/wmpolicy/internal/model"
	"github.com/mj1618/wmpolicy/internal/platform"
)

// drag is an interactive move/resize started by a press matching a binding.
type drag struct {
	client  model.WindowID
	binding model.Binding
}

// Dispatcher reads the policy lock-free on every event. Its own bookkeeping
// (managed clients, focus, drag) is guarded by mu.
type Dispatcher struct {
	policy   atomic.Pointer[model.FocusPolicy]
	provider platform.Provider
	log      *logger.Logger

	mu      sync.Mutex
	managed []model.WindowID
	focused model.WindowID
	drag    *drag
}

// New attaches a dispatcher to the host described by provider.
func New(policy *model.FocusPolicy, provider platform.Provider, log *logger.Logger) (*Dispatcher, error) {
	if policy == nil {
		return nil, fmt.Errorf("dispatcher requires a focus policy")
	}
	if err := provider.Validate(); err != nil {
		return nil, err
	}

	n := provider.Runtime.ScreenCount()
	log.Info("Attached to host", "host", provider.Runtime.Name(), "screens", n)
	for i := 0; i < n; i++ {
		s, err := provider.Runtime.Screen(i)
		if err != nil {
			return nil, fmt.Errorf("failed to query screen %d: %w", i, err)
		}
		log.Debug("Screen", "index", s.Index, "root", uint32(s.Root), "width", s.Width, "height", s.Height)
	}

	d := &Dispatcher{provider: provider, log: log}
	d.policy.Store(policy)
	logPolicy(log, "Focus policy active", policy)
	return d, nil
}

// Policy returns the live policy.
func (d *Dispatcher) Policy() *model.FocusPolicy {
	return d.policy.Load()
}

// Focused returns the client the dispatcher last focused, or model.None.
func (d *Dispatcher) Focused() model.WindowID {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.focused
}

// Dragging reports whether an interactive grab is in progress.
func (d *Dispatcher) Dragging() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.drag != nil
}

// Managed returns the managed clients in manage order.
func (d *Dispatcher) Managed() []model.WindowID {
	d.mu.Lock()
	defer d.mu.Unlock()
	out := make([]model.WindowID, len(d.managed))
	copy(out, d.managed)
	return out
}

// Dispatch routes ev to its handler.
func (d *Dispatcher) Dispatch(ev Event) error {
	switch ev.Kind {
	case EventManage:
		return d.Manage(ev.Window)
	case EventUnmanage:
		return d.Unmanage(ev.Window)
	case EventButtonPress:
		return d.ButtonPress(ev.Window, ev.Modifiers, ev.Button)
	case EventButtonRelease:
		return d.ButtonRelease(ev.Window, ev.Button)
	case EventEnter:
		return d.Enter(ev.Window)
	case EventLeave:
		return d.Leave(ev.Window, ev.Related)
	default:
		return fmt.Errorf("unhandled event kind %s", ev.Kind)
	}
}

// Manage grabs every binding on a newly managed client. If any grab fails the
// grabs already made are released and the client is not managed.
func (d *Dispatcher) Manage(client model.WindowID) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.isManaged(client) {
		return fmt.Errorf("client %s is already managed", client)
	}
	if owner, ok := d.provider.WindowTree.ClientOf(client); !ok || owner != client {
		return fmt.Errorf("window %s is not a client top-level window", client)
	}

	bindings := d.policy.Load().Grabs()
	if err := d.grabAll(client, bindings); err != nil {
		return err
	}
	d.managed = append(d.managed, client)
	d.log.Debug("Managed client", "client", uint32(client), "grabs", len(bindings))
	return nil
}

// Unmanage releases every grab on client and forgets its focus and drag state.
func (d *Dispatcher) Unmanage(client model.WindowID) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	idx := -1
	for i, c := range d.managed {
		if c == client {
			idx = i
			break
		}
	}
	if idx < 0 {
		return fmt.Errorf("client %s is not managed", client)
	}

	firstErr := d.ungrabAll(client, d.policy.Load().Grabs())

	d.managed = append(d.managed[:idx], d.managed[idx+1:]...)
	if d.focused == client {
		d.focused = model.None
	}
	if d.drag != nil && d.drag.client == client {
		d.drag = nil
	}
	d.log.Debug("Unmanaged client", "client", uint32(client))
	return firstErr
}

// ButtonPress focuses the client first when click focus is on, then starts an
// interactive grab if the press matches a binding.
func (d *Dispatcher) ButtonPress(w model.WindowID, mods model.Modifier, button model.Button) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	client, ok := d.clientFor(w)
	if !ok {
		return nil
	}
	policy := d.policy.Load()

	if policy.ShouldFocusOnClick() {
		if err := d.focus(client, "click"); err != nil {
			return err
		}
	}

	if b, ok := policy.Match(mods, button); ok && d.drag == nil {
		d.drag = &drag{client: client, binding: b}
		d.log.Debug("Interactive grab started", "client", uint32(client), "binding", b.String())
	}
	return nil
}

// ButtonRelease ends the interactive grab started by the same button.
func (d *Dispatcher) ButtonRelease(w model.WindowID, button model.Button) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.drag != nil && d.drag.binding.Button == button {
		d.log.Debug("Interactive grab ended", "client", uint32(d.drag.client), "binding", d.drag.binding.String())
		d.drag = nil
	}
	return nil
}

// Enter focuses the client under the pointer when enter focus is on, unless an
// interactive grab is in progress.
func (d *Dispatcher) Enter(w model.WindowID) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	client, ok := d.clientFor(w)
	if !ok {
		return nil
	}
	if !d.policy.Load().ShouldFocusOnEnter() {
		return nil
	}
	if d.drag != nil {
		d.log.Debug("Ignoring enter during interactive grab", "client", uint32(client))
		return nil
	}
	return d.focus(client, "enter")
}

// Leave unfocuses the focused client when the pointer leaves it, unless the
// pointer moved into another window of the same client or a drag is active.
func (d *Dispatcher) Leave(w, related model.WindowID) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	client, ok := d.clientFor(w)
	if !ok || client != d.focused {
		return nil
	}
	if !d.policy.Load().ShouldUnfocusOnLeave() {
		return nil
	}
	if d.drag != nil {
		d.log.Debug("Ignoring leave during interactive grab", "client", uint32(client))
		return nil
	}
	if into, ok := d.provider.WindowTree.ClientOf(related); ok && into == client {
		return nil
	}

	if err := d.provider.Focuser.Unfocus(client); err != nil {
		return fmt.Errorf("failed to unfocus %s: %w", client, err)
	}
	d.focused = model.None
	d.log.Debug("Unfocused client", "client", uint32(client), "reason", "leave")
	return nil
}

// Swap replaces the live policy with next, which must already be fully
// validated. Grabs on managed clients move from the old bindings to the new.
// If any client cannot take the new grabs, every client is put back on the
// old grabs and the old policy stays live.
func (d *Dispatcher) Swap(next *model.FocusPolicy) error {
	if next == nil {
		return fmt.Errorf("cannot swap in a nil policy")
	}
	d.mu.Lock()
	defer d.mu.Unlock()

	prev := d.policy.Load()
	oldGrabs, newGrabs := prev.Grabs(), next.Grabs()
	for i, client := range d.managed {
		_ = d.ungrabAll(client, oldGrabs)
		if err := d.grabAll(client, newGrabs); err != nil {
			d.restoreGrabs(client, nil, oldGrabs)
			for _, moved := range d.managed[:i] {
				d.restoreGrabs(moved, newGrabs, oldGrabs)
			}
			d.log.Error("Policy swap failed, previous policy kept", err, "client", uint32(client))
			return err
		}
	}

	d.policy.Store(next)
	d.drag = nil
	logPolicy(d.log, "Focus policy swapped", next)
	for _, c := range model.DiffPolicies(prev, next) {
		d.log.Debug("Policy change", "type", string(c.Type), "binding", c.Binding, "field", c.Field, "from", c.From, "to", c.To)
	}
	return nil
}

// restoreGrabs puts client back on the old bindings after a failed swap.
func (d *Dispatcher) restoreGrabs(client model.WindowID, current, old []model.Binding) {
	_ = d.ungrabAll(client, current)
	if err := d.grabAll(client, old); err != nil {
		d.log.Error("Failed to restore grabs", err, "client", uint32(client))
	}
}

// ungrabAll releases bindings on client, logging each failure. It returns the first.
func (d *Dispatcher) ungrabAll(client model.WindowID, bindings []model.Binding) error {
	var firstErr error
	for _, b := range bindings {
		if err := d.provider.Grabber.UngrabButton(client, b); err != nil {
			d.log.Error("Failed to release grab", err, "client", uint32(client), "binding", b.String())
			if firstErr == nil {
				firstErr = err
			}
		}
	}
	return firstErr
}

func (d *Dispatcher) grabAll(client model.WindowID, bindings []model.Binding) error {
	for i, b := range bindings {
		if err := d.provider.Grabber.GrabButton(client, b); err != nil {
			for _, done := range bindings[:i] {
				_ = d.provider.Grabber.UngrabButton(client, done)
			}
			return fmt.Errorf("failed to grab %s on %s: %w", b, client, err)
		}
	}
	return nil
}

func (d *Dispatcher) focus(client model.WindowID, reason string) error {
	if d.focused == client {
		return nil
	}
	if err := d.provider.Focuser.Focus(client); err != nil {
		return fmt.Errorf("failed to focus %s: %w", client, err)
	}
	d.focused = client
	d.log.Debug("Focused client", "client", uint32(client), "reason", reason)
	return nil
}

// clientFor resolves w to a managed client.
func (d *Dispatcher) clientFor(w model.WindowID) (model.WindowID, bool) {
	client, ok := d.provider.WindowTree.ClientOf(w)
	if !ok || !d.isManaged(client) {
		return model.None, false
	}
	return client, true
}

func (d *Dispatcher) isManaged(client model.WindowID) bool {
	for _, c := range d.managed {
		if c == client {
			return true
		}
	}
	return false
}

func logPolicy(log *logger.Logger, msg string, p *model.FocusPolicy) {
	decl := p.Declaration()
	log.Info(msg,
		"client_buttons", decl.ClientButtons,
		"click_focus", decl.ClickFocus,
		"enter_focus", decl.EnterFocus,
		"leave_unfocus", decl.LeaveUnfocus)
}
