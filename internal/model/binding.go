package model

import (
	"fmt"
	"strings"
)

// Binding is a parsed modifier+button combination. Two bindings are equal when
// they name the same modifier set and button, whatever order the source string used.
type Binding struct {
	Modifiers Modifier
	Button    Button
}

// ParseBinding parses a binding string such as "C-A-2".
//
// Tokens are separated by "-"; the last token is the button and every token
// before it is a modifier. Modifier aliases naming the same modifier ("A-M-1")
// are duplicates.
func ParseBinding(s string) (Binding, error) {
	if s == "" {
		return Binding{}, invalidBinding(s, "empty binding")
	}

	parts := strings.Split(s, "-")
	buttonTok := parts[len(parts)-1]
	if buttonTok == "" {
		return Binding{}, invalidBinding(s, "missing button identifier")
	}

	var mods Modifier
	for _, tok := range parts[:len(parts)-1] {
		if tok == "" {
			return Binding{}, invalidBinding(s, "empty modifier token")
		}
		m, err := ParseModifier(tok)
		if err != nil {
			return Binding{}, invalidBinding(s, err.Error())
		}
		if mods&m != 0 {
			return Binding{}, &BindingError{
				Input:  s,
				Reason: fmt.Sprintf("modifier %q repeats %s", tok, m),
				Err:    ErrDuplicateModifierInBinding,
			}
		}
		mods |= m
	}

	button, err := ParseButton(buttonTok)
	if err != nil {
		return Binding{}, invalidBinding(s, err.Error())
	}

	return Binding{Modifiers: mods, Button: button}, nil
}

// NormalizeBinding parses s and renders it in canonical form.
func NormalizeBinding(s string) (string, error) {
	b, err := ParseBinding(s)
	if err != nil {
		return "", err
	}
	return b.String(), nil
}

// String renders the binding canonically: modifiers in C S A M2 M3 W M5 order, then the button number.
func (b Binding) String() string {
	if b.Modifiers == 0 {
		return b.Button.String()
	}
	return b.Modifiers.String() + "-" + b.Button.String()
}

// Matches reports whether a press of button with exactly mods held triggers b.
func (b Binding) Matches(mods Modifier, button Button) bool {
	return b.Button == button && b.Modifiers == mods&AllModifiers
}

// MarshalText implements encoding.TextMarshaler so bindings print as their canonical string.
func (b Binding) MarshalText() ([]byte, error) {
	return []byte(b.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (b *Binding) UnmarshalText(text []byte) error {
	parsed, err := ParseBinding(string(text))
	if err != nil {
		return err
	}
	*b = parsed
	return nil
}
