package model

import "strconv"

// ChangeType represents the kind of policy change detected.
type ChangeType string

const (
	ChangeAdded   ChangeType = "added"
	ChangeRemoved ChangeType = "removed"
	ChangeChanged ChangeType = "changed"
)

// PolicyChange is a single difference between two policies.
type PolicyChange struct {
	Type    ChangeType `yaml:"type"              json:"type"`
	Binding string     `yaml:"binding,omitempty" json:"binding,omitempty"` // added/removed binding
	Field   string     `yaml:"field,omitempty"   json:"field,omitempty"`   // changed flag
	From    string     `yaml:"from,omitempty"    json:"from,omitempty"`
	To      string     `yaml:"to,omitempty"      json:"to,omitempty"`
}

// DiffPolicies compares two policies. Bindings are matched by value, so
// reordering or respelling a binding ("M-1" for "A-1") is not a change.
func DiffPolicies(prev, curr *FocusPolicy) []PolicyChange {
	var changes []PolicyChange

	for _, f := range []struct {
		name       string
		prev, curr bool
	}{
		{"click_focus", prev.clickFocus, curr.clickFocus},
		{"enter_focus", prev.enterFocus, curr.enterFocus},
		{"leave_unfocus", prev.leaveUnfocus, curr.leaveUnfocus},
	} {
		if f.prev != f.curr {
			changes = append(changes, PolicyChange{
				Type:  ChangeChanged,
				Field: f.name,
				From:  strconv.FormatBool(f.prev),
				To:    strconv.FormatBool(f.curr),
			})
		}
	}

	prevSet := make(map[Binding]bool, len(prev.bindings))
	for _, b := range prev.bindings {
		prevSet[b] = true
	}
	currSet := make(map[Binding]bool, len(curr.bindings))
	for _, b := range curr.bindings {
		currSet[b] = true
	}

	for _, b := range curr.bindings {
		if !prevSet[b] {
			changes = append(changes, PolicyChange{Type: ChangeAdded, Binding: b.String()})
		}
	}
	for _, b := range prev.bindings {
		if !currSet[b] {
			changes = append(changes, PolicyChange{Type: ChangeRemoved, Binding: b.String()})
		}
	}

	return changes
}
