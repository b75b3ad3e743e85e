package model

import "strconv"

// WindowID identifies a window on the host. A client is identified by the ID of
// its top-level window; 0 means "no window".
type WindowID uint32

// None is the zero WindowID.
const None WindowID = 0

func (w WindowID) String() string {
	if w == None {
		return "none"
	}
	return strconv.FormatUint(uint64(w), 10)
}

// Screen describes one screen reported by the host runtime.
type Screen struct {
	Index  int      `yaml:"index"  json:"index"`
	Root   WindowID `yaml:"root"   json:"root"`
	Width  int      `yaml:"width"  json:"width"`
	Height int      `yaml:"height" json:"height"`
}
