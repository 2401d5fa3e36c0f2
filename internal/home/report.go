package home

import (
	"fmt"
	"slices"
	"strings"
)

const reportSeparator = "\n\n==============\n\n"

// CreateReport renders every device of every room.
//
// Each room contributes a line with its name followed by one "--> "
// entry per device. It never fails.
func (h *Home) CreateReport() string {
	h.mu.RLock()
	defer h.mu.RUnlock()

	var b strings.Builder
	for _, room := range h.sortedRooms() {
		b.WriteString("\n")
		b.WriteString(room)

		devices := h.rooms[room]
		for _, name := range sortedKeys(devices) {
			fmt.Fprintf(&b, "\n--> %s\n", devices[name].Report())
		}
	}
	return b.String()
}

// CreateFilteredReport renders the devices selected by p.
//
// Rooms are listed as in CreateReport but only selected devices are
// reported. Selected paths that match no device in the home follow a
// separator, one highlighted "not found" line each.
func (h *Home) CreateFilteredReport(p Provider) string {
	// Resolve the selection before locking: providers may query the home.
	selected := p.Devices(h)

	h.mu.RLock()
	defer h.mu.RUnlock()

	var b strings.Builder
	for _, room := range h.sortedRooms() {
		b.WriteString("\n")
		b.WriteString(room)

		devices := h.rooms[room]
		for _, name := range sortedKeys(devices) {
			path := DevicePath(room, name)
			if _, ok := selected[path]; !ok {
				continue
			}
			fmt.Fprintf(&b, "\n--> %s\n", devices[name].Report())
			delete(selected, path)
		}
	}

	b.WriteString(reportSeparator)

	missing := make([]string, 0, len(selected))
	for path := range selected {
		missing = append(missing, path)
	}
	slices.Sort(missing)
	for _, path := range missing {
		fmt.Fprintf(&b, "\x1b[41m%s\x1b[0m not found\n", path)
	}

	h.logger.Debug("filtered report created", "missing", len(missing))
	return b.String()
}
