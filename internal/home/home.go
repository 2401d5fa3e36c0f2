package home

import (
	"fmt"
	"maps"
	"slices"
	"strings"
	"sync"

	"github.com/nerrad567/homerpc/internal/device"
)

// Logger defines the logging interface used by Home.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

type noopLogger struct{}

func (noopLogger) Debug(string, ...any) {}
func (noopLogger) Info(string, ...any)  {}
func (noopLogger) Warn(string, ...any)  {}
func (noopLogger) Error(string, ...any) {}

// DevicePath returns the home-wide address of a device.
func DevicePath(room, name string) string {
	return room + "=>" + name
}

// Home is a named registry of rooms and their devices.
//
// The room and device maps are guarded by an internal lock, so listing
// and reporting are safe from any goroutine. Device handles returned by
// Device are not: the caller that obtained one must be the only one
// using it.
type Home struct {
	name   string
	mu     sync.RWMutex
	rooms  map[string]map[string]device.Device
	logger Logger
}

// New returns an empty home.
func New(name string) *Home {
	return &Home{
		name:   name,
		rooms:  make(map[string]map[string]device.Device),
		logger: noopLogger{},
	}
}

// SetLogger sets the logger for the home.
func (h *Home) SetLogger(logger Logger) {
	h.logger = logger
}

// Name returns the home's name.
func (h *Home) Name() string {
	return h.name
}

// AddRoom adds a room holding devices.
//
// The room is not added if its name is taken or two of devices share a
// name.
func (h *Home) AddRoom(name string, devices ...device.Device) error {
	if strings.TrimSpace(name) == "" {
		return fmt.Errorf("%w: empty room name", ErrInvalidName)
	}

	room := make(map[string]device.Device, len(devices))
	for _, d := range devices {
		if _, dup := room[d.Name()]; dup {
			return fmt.Errorf("%w: %q in %q", ErrDeviceExists, d.Name(), name)
		}
		room[d.Name()] = d
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	if _, exists := h.rooms[name]; exists {
		return fmt.Errorf("%w: %q in %q", ErrRoomExists, name, h.name)
	}
	h.rooms[name] = room

	h.logger.Debug("room added", "room", name, "devices", len(devices))
	return nil
}

// DelRoom removes a room with all its devices.
func (h *Home) DelRoom(name string) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, exists := h.rooms[name]; !exists {
		return fmt.Errorf("%w: %q", ErrRoomNotFound, name)
	}
	delete(h.rooms, name)

	h.logger.Debug("room deleted", "room", name)
	return nil
}

// Rooms returns the room names in sorted order.
func (h *Home) Rooms() []string {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.sortedRooms()
}

// Devices returns the names of the devices in room, sorted.
func (h *Home) Devices(room string) ([]string, error) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	devices, ok := h.rooms[room]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrRoomNotFound, room)
	}
	return sortedKeys(devices), nil
}

// AddDevice adds d to room.
func (h *Home) AddDevice(room string, d device.Device) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	devices, ok := h.rooms[room]
	if !ok {
		return fmt.Errorf("%w: %q", ErrRoomNotFound, room)
	}
	if _, dup := devices[d.Name()]; dup {
		return fmt.Errorf("%w: %q in %q", ErrDeviceExists, d.Name(), room)
	}
	devices[d.Name()] = d

	h.logger.Debug("device added", "room", room, "device", d.Name())
	return nil
}

// DelDevice removes the device called name from room.
func (h *Home) DelDevice(room, name string) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	devices, ok := h.rooms[room]
	if !ok {
		return fmt.Errorf("%w: %q", ErrRoomNotFound, room)
	}
	if _, ok := devices[name]; !ok {
		return fmt.Errorf("%w: %q in %q", ErrDeviceNotFound, name, room)
	}
	delete(devices, name)

	h.logger.Debug("device deleted", "room", room, "device", name)
	return nil
}

// Device returns a mutable handle to the device called name in room.
func (h *Home) Device(room, name string) (device.Device, error) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	devices, ok := h.rooms[room]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrRoomNotFound, room)
	}
	d, ok := devices[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q in %q", ErrDeviceNotFound, name, room)
	}
	return d, nil
}

// Walk calls fn for every device, rooms and devices in sorted order.
func (h *Home) Walk(fn func(room string, d device.Device)) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for _, room := range h.sortedRooms() {
		devices := h.rooms[room]
		for _, name := range sortedKeys(devices) {
			fn(room, devices[name])
		}
	}
}

func (h *Home) sortedRooms() []string {
	return sortedKeys(h.rooms)
}

func sortedKeys[V any](m map[string]V) []string {
	return slices.Sorted(maps.Keys(m))
}
