package model

import (
	"fmt"
	"math/bits"
	"strings"
)

// Modifier is a set of keyboard modifiers, encoded with the X11 core mask bits.
type Modifier uint16

const (
	ModShift   Modifier = 1 << 0
	ModControl Modifier = 1 << 2
	ModAlt     Modifier = 1 << 3 // Mod1
	ModMod2    Modifier = 1 << 4
	ModMod3    Modifier = 1 << 5
	ModSuper   Modifier = 1 << 6 // Mod4
	ModMod5    Modifier = 1 << 7
)

// modifierOrder is the canonical rendering order.
var modifierOrder = []Modifier{ModControl, ModShift, ModAlt, ModMod2, ModMod3, ModSuper, ModMod5}

// modifierTokens maps each modifier to its canonical token.
var modifierTokens = map[Modifier]string{
	ModControl: "C",
	ModShift:   "S",
	ModAlt:     "A",
	ModMod2:    "M2",
	ModMod3:    "M3",
	ModSuper:   "W",
	ModMod5:    "M5",
}

// ModifierAliases maps every accepted token to the modifier it names.
var ModifierAliases = map[string]Modifier{
	"C":    ModControl,
	"S":    ModShift,
	"A":    ModAlt,
	"M":    ModAlt,
	"M1":   ModAlt,
	"Mod1": ModAlt,
	"M2":   ModMod2,
	"Mod2": ModMod2,
	"M3":   ModMod3,
	"Mod3": ModMod3,
	"W":    ModSuper,
	"M4":   ModSuper,
	"Mod4": ModSuper,
	"M5":   ModMod5,
	"Mod5": ModMod5,
}

// AllModifiers is the union of every known modifier bit.
const AllModifiers = ModShift | ModControl | ModAlt | ModMod2 | ModMod3 | ModSuper | ModMod5

// ParseModifier converts a single modifier token (e.g. "C", "Mod4") to a Modifier.
func ParseModifier(tok string) (Modifier, error) {
	if m, ok := ModifierAliases[tok]; ok {
		return m, nil
	}
	return 0, fmt.Errorf("unknown modifier %q (expected one of %s)", tok, strings.Join(ModifierTokens(), ", "))
}

// ModifierTokens returns the canonical tokens in rendering order.
func ModifierTokens() []string {
	out := make([]string, 0, len(modifierOrder))
	for _, m := range modifierOrder {
		out = append(out, modifierTokens[m])
	}
	return out
}

// Has reports whether every bit of o is set in m.
func (m Modifier) Has(o Modifier) bool {
	return o != 0 && m&o == o
}

// Len returns the number of modifiers in the set.
func (m Modifier) Len() int {
	return bits.OnesCount16(uint16(m & AllModifiers))
}

// Tokens returns the canonical tokens of the set in rendering order.
func (m Modifier) Tokens() []string {
	out := make([]string, 0, m.Len())
	for _, mod := range modifierOrder {
		if m&mod != 0 {
			out = append(out, modifierTokens[mod])
		}
	}
	return out
}

// String renders the set as canonical tokens joined by "-".
func (m Modifier) String() string {
	return strings.Join(m.Tokens(), "-")
}
