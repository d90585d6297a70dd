package core

import (
	"fmt"
	"strings"
)

// Mode selects how a client executes HTTP exchanges.
type Mode int

// Mode constants define the available execution strategies.
const (
	// ModeBlocking runs each request on the caller's goroutine.
	ModeBlocking Mode = iota
	// ModeConcurrent hands requests to a worker pool; callers park until the response arrives.
	ModeConcurrent
)

// String returns the string representation of the mode ("blocking" or "concurrent").
func (m Mode) String() string {
	switch m {
	case ModeBlocking:
		return "blocking"
	case ModeConcurrent:
		return "concurrent"
	default:
		return fmt.Sprintf("mode(%d)", int(m))
	}
}

// MarshalText implements encoding.TextMarshaler.
func (m Mode) MarshalText() ([]byte, error) {
	return []byte(m.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
// It accepts both lowercase and uppercase names.
func (m *Mode) UnmarshalText(data []byte) error {
	switch strings.ToLower(string(data)) {
	case "blocking", "sync", "":
		*m = ModeBlocking
	case "concurrent", "async":
		*m = ModeConcurrent
	default:
		return fmt.Errorf("unknown mode %q", string(data))
	}
	return nil
}
