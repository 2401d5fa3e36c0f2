package home

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/nerrad567/homerpc/internal/device"
)

// Provider selects devices of a home for a filtered report.
type Provider interface {
	// Devices returns the selected device paths (see DevicePath). The
	// caller owns the returned set.
	Devices(h *Home) map[string]struct{}
}

// JSONProvider selects devices named by a client-supplied room to
// device-names mapping. Names need not exist in the home.
type JSONProvider struct {
	Schema map[string][]string `json:"schema"`
}

// ParseProvider decodes a JSON filter of the form
//
//	{"schema": {"living": ["Smart Socket 2", "Thermometer 1"]}}
func ParseProvider(raw json.RawMessage) (*JSONProvider, error) {
	if len(bytes.TrimSpace(raw)) == 0 {
		return nil, fmt.Errorf("%w: missing", ErrInvalidFilter)
	}

	var p JSONProvider
	if err := json.Unmarshal(raw, &p); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidFilter, err)
	}
	if p.Schema == nil {
		return nil, fmt.Errorf("%w: missing field `schema`", ErrInvalidFilter)
	}
	return &p, nil
}

// Devices returns the paths named in the schema.
func (p *JSONProvider) Devices(*Home) map[string]struct{} {
	set := make(map[string]struct{})
	for room, names := range p.Schema {
		for _, name := range names {
			set[DevicePath(room, name)] = struct{}{}
		}
	}
	return set
}

// TypeProvider selects every device of one kind.
type TypeProvider struct {
	Type device.Type
}

// Devices returns the paths of all devices of p.Type in h.
func (p TypeProvider) Devices(h *Home) map[string]struct{} {
	set := make(map[string]struct{})
	h.Walk(func(room string, d device.Device) {
		if d.Type() == p.Type {
			set[DevicePath(room, d.Name())] = struct{}{}
		}
	})
	return set
}
