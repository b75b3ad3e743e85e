package model

import (
	"fmt"

	"github.com/hashicorp/go-multierror"
)

// PolicyDecl is the operator-authored declaration a FocusPolicy is built from.
type PolicyDecl struct {
	ClientButtons []string `yaml:"client_buttons" json:"client_buttons"`
	ClickFocus    bool     `yaml:"click_focus"    json:"click_focus"`
	EnterFocus    bool     `yaml:"enter_focus"    json:"enter_focus"`
	LeaveUnfocus  bool     `yaml:"leave_unfocus"  json:"leave_unfocus"`
}

// DefaultDecl returns the stock declaration: Alt with buttons 1-3 grabbed for
// move/resize, focus follows the pointer in and out, clicking does not focus.
func DefaultDecl() PolicyDecl {
	return PolicyDecl{
		ClientButtons: []string{"A-1", "A-2", "A-3"},
		ClickFocus:    false,
		EnterFocus:    true,
		LeaveUnfocus:  true,
	}
}

// FocusPolicy is the validated, read-only focus policy. It has no mutators;
// replacing a live policy means building a new one and swapping the pointer.
type FocusPolicy struct {
	clickFocus   bool
	enterFocus   bool
	leaveUnfocus bool
	bindings     []Binding
}

// NewFocusPolicy validates decl and builds a FocusPolicy. Every malformed
// binding is reported; on any failure no policy is returned.
func NewFocusPolicy(decl PolicyDecl) (*FocusPolicy, error) {
	var result *multierror.Error
	bindings := make([]Binding, 0, len(decl.ClientButtons))
	for i, s := range decl.ClientButtons {
		b, err := ParseBinding(s)
		if err != nil {
			result = multierror.Append(result, fmt.Errorf("client_buttons[%d]: %w", i, err))
			continue
		}
		bindings = append(bindings, b)
	}
	if err := result.ErrorOrNil(); err != nil {
		return nil, err
	}

	return &FocusPolicy{
		clickFocus:   decl.ClickFocus,
		enterFocus:   decl.EnterFocus,
		leaveUnfocus: decl.LeaveUnfocus,
		bindings:     bindings,
	}, nil
}

// DefaultFocusPolicy returns the policy built from DefaultDecl.
func DefaultFocusPolicy() *FocusPolicy {
	p, err := NewFocusPolicy(DefaultDecl())
	if err != nil {
		panic(err)
	}
	return p
}

// ShouldFocusOnClick reports whether a button press inside a client focuses it.
func (p *FocusPolicy) ShouldFocusOnClick() bool { return p.clickFocus }

// ShouldFocusOnEnter reports whether the pointer entering a client focuses it.
func (p *FocusPolicy) ShouldFocusOnEnter() bool { return p.enterFocus }

// ShouldUnfocusOnLeave reports whether the pointer leaving the focused client unfocuses it.
func (p *FocusPolicy) ShouldUnfocusOnLeave() bool { return p.leaveUnfocus }

// Bindings returns the parsed client button bindings in declaration order.
func (p *FocusPolicy) Bindings() []Binding {
	out := make([]Binding, len(p.bindings))
	copy(out, p.bindings)
	return out
}

// Grabs returns the distinct bindings in declaration order. Repeated entries
// ("A-1" and "M-1") are permitted in a declaration but grabbed once.
func (p *FocusPolicy) Grabs() []Binding {
	out := make([]Binding, 0, len(p.bindings))
	seen := make(map[Binding]bool, len(p.bindings))
	for _, b := range p.bindings {
		if !seen[b] {
			seen[b] = true
			out = append(out, b)
		}
	}
	return out
}

// Match returns the first binding triggered by a press of button with mods held.
func (p *FocusPolicy) Match(mods Modifier, button Button) (Binding, bool) {
	for _, b := range p.bindings {
		if b.Matches(mods, button) {
			return b, true
		}
	}
	return Binding{}, false
}

// Declaration returns the policy as a declaration with canonical binding strings.
func (p *FocusPolicy) Declaration() PolicyDecl {
	buttons := make([]string, len(p.bindings))
	for i, b := range p.bindings {
		buttons[i] = b.String()
	}
	return PolicyDecl{
		ClientButtons: buttons,
		ClickFocus:    p.clickFocus,
		EnterFocus:    p.enterFocus,
		LeaveUnfocus:  p.leaveUnfocus,
	}
}
