package device

import "fmt"

// Device is the capability set every device kind provides.
type Device interface {
	Type() Type
	Name() string
	Description() string
	State() State
	// CurrentInfo describes the device's live readings.
	CurrentInfo() string
	// Switch moves the device to target and returns a human-readable
	// outcome. A refused switch is not an error.
	Switch(target State) string
	Report() string
}

// Base implements the parts of Device shared by every kind.
// Concrete kinds embed it and override what they know better.
type Base struct {
	kind  Type
	name  string
	state State
}

// NewBase returns a Base for a device of kind named name in state.
func NewBase(kind Type, name string, state State) Base {
	return Base{kind: kind, name: name, state: state}
}

// Type returns the device kind.
func (b *Base) Type() Type { return b.kind }

// Name returns the device name, unique within its room.
func (b *Base) Name() string { return b.name }

// Description returns NoInfo.
func (b *Base) Description() string { return NoInfo }

// State returns the current state.
func (b *Base) State() State { return b.state }

// CurrentInfo returns NoInfo.
func (b *Base) CurrentInfo() string { return NoInfo }

// Switch applies target unless the device is broken.
func (b *Base) Switch(target State) string {
	if b.state == StateBroken {
		return SwitchRefused
	}
	b.state = target
	return SwitchApplied
}

// Report renders d as a multi-line report entry.
//
// It is a function rather than a Base method so that overrides of
// Description and CurrentInfo on the concrete kind are honoured.
func Report(d Device) string {
	return fmt.Sprintf("Device: %s\n    Description: %s\n    State: %s\n    Current info: %s",
		d.Name(), d.Description(), d.State().Label(), d.CurrentInfo())
}

// New builds a device of kind with the given id suffix, in the kind's
// initial state.
func New(kind Type, id string) (Device, error) {
	if id == "" {
		return nil, ErrInvalidID
	}

	switch kind {
	case TypeSocket:
		return NewSocket(id), nil
	case TypeKettle:
		return NewKettle(id), nil
	case TypeThermometer:
		return NewThermometer(id), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrInvalidType, kind)
	}
}
