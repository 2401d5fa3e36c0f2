package device

import (
	"fmt"
	"strings"
)

// NoInfo is returned by capabilities a device kind does not provide.
const NoInfo = "No information provided"

// Switch outcomes.
const (
	SwitchApplied = "ok, state was set"
	SwitchRefused = "failed, can't change state, device is broken!"
)

// Type classifies a device.
type Type string

// Device kinds.
const (
	TypeSocket      Type = "socket"
	TypeKettle      Type = "kettle"
	TypeThermometer Type = "thermometer"
)

// ParseType parses a case-insensitive device kind name.
func ParseType(s string) (Type, error) {
	switch t := Type(strings.ToLower(strings.TrimSpace(s))); t {
	case TypeSocket, TypeKettle, TypeThermometer:
		return t, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidType, s)
	}
}

// State is the operating state of a device.
type State int

// Device states. Off is the zero value.
const (
	StateOff State = iota
	StateOn
	StateBroken
)

// ParseState parses a switch target. Only the exact lower-case names
// on, off and broken are accepted.
func ParseState(s string) (State, error) {
	switch s {
	case "on":
		return StateOn, nil
	case "off":
		return StateOff, nil
	case "broken":
		return StateBroken, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrInvalidState, s)
	}
}

func (s State) String() string {
	switch s {
	case StateOn:
		return "on"
	case StateOff:
		return "off"
	case StateBroken:
		return "broken"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// Label returns the state as highlighted terminal text for reports.
func (s State) Label() string {
	switch s {
	case StateOn:
		return "\x1b[32mOn\x1b[0m"
	case StateOff:
		return "\x1b[33mOff\x1b[0m"
	case StateBroken:
		return "\x1b[41mBroken\x1b[0m"
	default:
		return s.String()
	}
}
