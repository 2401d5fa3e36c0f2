package device

import "fmt"

// Kettle is a smart kettle.
type Kettle struct {
	Base
	water       float64
	temperature float64
}

// NewKettle returns a kettle named "Smart Kettle <id>", switched off,
// holding 1.1 litres of cold water.
func NewKettle(id string) *Kettle {
	return &Kettle{
		Base:  NewBase(TypeKettle, "Smart Kettle "+id, StateOff),
		water: 1.1,
	}
}

// CurrentInfo reports water volume and temperature.
func (k *Kettle) CurrentInfo() string {
	return fmt.Sprintf("Water: %.2f l, current temperature: %.2f °C", k.water, k.temperature)
}

// Report renders the kettle's report entry.
func (k *Kettle) Report() string { return Report(k) }
