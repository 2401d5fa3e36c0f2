package home

import (
	"fmt"

	"github.com/nerrad567/homerpc/internal/device"
	"github.com/nerrad567/homerpc/internal/infrastructure/config"
)

// FromConfig builds the home described by cfg.
//
// Returns:
//   - *Home: home with every configured room and device
//   - error: unknown device type or state, or a duplicate name
func FromConfig(cfg config.HomeConfig) (*Home, error) {
	h := New(cfg.Name)

	for _, rc := range cfg.Rooms {
		devices := make([]device.Device, 0, len(rc.Devices))
		for _, dc := range rc.Devices {
			d, err := buildDevice(dc)
			if err != nil {
				return nil, fmt.Errorf("room %q: %w", rc.Name, err)
			}
			devices = append(devices, d)
		}

		if err := h.AddRoom(rc.Name, devices...); err != nil {
			return nil, err
		}
	}

	return h, nil
}

func buildDevice(dc config.DeviceConfig) (device.Device, error) {
	kind, err := device.ParseType(dc.Type)
	if err != nil {
		return nil, err
	}

	d, err := device.New(kind, dc.ID)
	if err != nil {
		return nil, err
	}
	if dc.State == "" {
		return d, nil
	}

	state, err := device.ParseState(dc.State)
	if err != nil {
		return nil, err
	}
	if state != d.State() {
		d.Switch(state)
	}
	return d, nil
}
