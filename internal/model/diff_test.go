package model

import "testing"

func mustPolicy(t *testing.T, decl PolicyDecl) *FocusPolicy {
	t.Helper()
	p, err := NewFocusPolicy(decl)
	if err != nil {
		t.Fatal(err)
	}
	return p
}

func TestDiffPolicies_NoChanges(t *testing.T) {
	a := mustPolicy(t, PolicyDecl{ClientButtons: []string{"A-1", "C-A-2"}, EnterFocus: true})
	b := mustPolicy(t, PolicyDecl{ClientButtons: []string{"A-C-Middle", "M-Left"}, EnterFocus: true})
	if changes := DiffPolicies(a, b); len(changes) != 0 {
		t.Errorf("expected no changes for respelled/reordered bindings, got %+v", changes)
	}
}

func TestDiffPolicies_Bindings(t *testing.T) {
	prev := mustPolicy(t, PolicyDecl{ClientButtons: []string{"A-1", "A-2"}})
	curr := mustPolicy(t, PolicyDecl{ClientButtons: []string{"A-1", "W-3"}})
	changes := DiffPolicies(prev, curr)
	if len(changes) != 2 {
		t.Fatalf("expected 2 changes, got %d: %+v", len(changes), changes)
	}
	if changes[0].Type != ChangeAdded || changes[0].Binding != "W-3" {
		t.Errorf("changes[0] = %+v, want added W-3", changes[0])
	}
	if changes[1].Type != ChangeRemoved || changes[1].Binding != "A-2" {
		t.Errorf("changes[1] = %+v, want removed A-2", changes[1])
	}
}

func TestDiffPolicies_Flags(t *testing.T) {
	prev := DefaultFocusPolicy()
	curr := mustPolicy(t, PolicyDecl{ClientButtons: []string{"A-1", "A-2", "A-3"}, ClickFocus: true, EnterFocus: true})
	changes := DiffPolicies(prev, curr)
	if len(changes) != 2 {
		t.Fatalf("expected 2 changes, got %d: %+v", len(changes), changes)
	}
	want := []PolicyChange{
		{Type: ChangeChanged, Field: "click_focus", From: "false", To: "true"},
		{Type: ChangeChanged, Field: "leave_unfocus", From: "true", To: "false"},
	}
	for i := range want {
		if changes[i] != want[i] {
			t.Errorf("changes[%d] = %+v, want %+v", i, changes[i], want[i])
		}
	}
}

func TestDiffPolicies_AllRemoved(t *testing.T) {
	prev := DefaultFocusPolicy()
	curr := mustPolicy(t, PolicyDecl{EnterFocus: true, LeaveUnfocus: true})
	changes := DiffPolicies(prev, curr)
	if len(changes) != 3 {
		t.Fatalf("expected 3 changes, got %d", len(changes))
	}
	for _, c := range changes {
		if c.Type != ChangeRemoved {
			t.Errorf("expected removed, got %+v", c)
		}
	}
}
