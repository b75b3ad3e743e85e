package dispatch

import (
	"fmt"
	"strings"

	"github.com/mj1618/wmpolicy/internal/model"
)

// EventKind identifies a pointer or window lifecycle event.
type EventKind int

const (
	EventManage EventKind = iota
	EventUnmanage
	EventButtonPress
	EventButtonRelease
	EventEnter
	EventLeave
)

var eventNames = map[EventKind]string{
	EventManage:        "manage",
	EventUnmanage:      "unmanage",
	EventButtonPress:   "press",
	EventButtonRelease: "release",
	EventEnter:         "enter",
	EventLeave:         "leave",
}

func (k EventKind) String() string {
	if s, ok := eventNames[k]; ok {
		return s
	}
	return fmt.Sprintf("event(%d)", int(k))
}

// ParseEventKind converts an event name ("press", "enter", ...) to an EventKind.
func ParseEventKind(s string) (EventKind, error) {
	for k, name := range eventNames {
		if strings.EqualFold(s, name) {
			return k, nil
		}
	}
	return 0, fmt.Errorf("unknown event %q (expected manage, unmanage, press, release, enter, or leave)", s)
}

// Event is a single host event delivered to the dispatcher.
type Event struct {
	Kind EventKind
	// Window is the window the event targets. For manage/unmanage it is the
	// client's top-level window.
	Window model.WindowID
	// Related is the window the pointer moved into, for leave events.
	Related   model.WindowID
	Modifiers model.Modifier
	Button    model.Button
}
