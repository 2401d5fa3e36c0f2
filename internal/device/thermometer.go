package device

import "fmt"

// Thermometer is a room thermometer.
type Thermometer struct {
	Base
	temperature float64
}

// NewThermometer returns a thermometer named "Thermometer <id>", switched on.
func NewThermometer(id string) *Thermometer {
	return &Thermometer{
		Base: NewBase(TypeThermometer, "Thermometer "+id, StateOn),
	}
}

// Temperature returns the last reading in °C.
func (t *Thermometer) Temperature() float64 { return t.temperature }

// SetTemperature records a new reading.
func (t *Thermometer) SetTemperature(celsius float64) { t.temperature = celsius }

// CurrentInfo reports the temperature.
func (t *Thermometer) CurrentInfo() string {
	return fmt.Sprintf("Current temperature: %.2f °C", t.temperature)
}

// Report renders the thermometer's report entry.
func (t *Thermometer) Report() string { return Report(t) }
