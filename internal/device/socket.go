package device

import "fmt"

// Socket is a smart power socket.
type Socket struct {
	Base
	description string
	power       float64
}

// NewSocket returns a socket named "Smart Socket <id>", switched off.
func NewSocket(id string) *Socket {
	return &Socket{
		Base:        NewBase(TypeSocket, "Smart Socket "+id, StateOff),
		description: "Very Powerful Smart Device",
		power:       15.2,
	}
}

// Description returns the socket's marketing description.
func (s *Socket) Description() string { return s.description }

// Power returns the current power draw in watts.
func (s *Socket) Power() float64 { return s.power }

// CurrentInfo reports the power draw.
func (s *Socket) CurrentInfo() string {
	return fmt.Sprintf("Current power: %.2f W", s.power)
}

// Report renders the socket's report entry.
func (s *Socket) Report() string { return Report(s) }
