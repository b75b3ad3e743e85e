package model

import (
	"fmt"
	"strconv"
)

// Button is a pointer button number (1-5).
type Button uint8

const (
	ButtonLeft   Button = 1
	ButtonMiddle Button = 2
	ButtonRight  Button = 3
	ButtonUp     Button = 4
	ButtonDown   Button = 5
)

// MaxButton is the highest button number a binding can name.
const MaxButton = ButtonDown

var buttonAliases = map[string]Button{
	"Left":    ButtonLeft,
	"Button1": ButtonLeft,
	"Middle":  ButtonMiddle,
	"Button2": ButtonMiddle,
	"Right":   ButtonRight,
	"Button3": ButtonRight,
	"Up":      ButtonUp,
	"Button4": ButtonUp,
	"Down":    ButtonDown,
	"Button5": ButtonDown,
}

// ParseButton converts a button identifier ("1".."5", "Left", "Button3", ...) to a Button.
func ParseButton(s string) (Button, error) {
	if b, ok := buttonAliases[s]; ok {
		return b, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < int(ButtonLeft) || n > int(MaxButton) {
		return 0, fmt.Errorf("unknown button %q (expected 1-%d)", s, MaxButton)
	}
	return Button(n), nil
}

// String returns the numeric identifier.
func (b Button) String() string {
	return strconv.Itoa(int(b))
}
