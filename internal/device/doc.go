// Package device models the smart devices that live in a home's rooms.
//
// Every device kind implements the same capability set (the Device
// interface): identity, description, state, current readings, a report
// line and a state switch. Shared behaviour lives in Base, which concrete
// kinds embed and override where they have something better to say.
//
// # Device kinds
//
//   - Socket: reports its power draw, starts Off
//   - Kettle: reports water volume and temperature, starts Off
//   - Thermometer: reports temperature, starts On
//
// # State machine
//
//	      switch(on|off)
//	 ┌──────────────────────┐
//	 ▼                      │
//	Off ◀────────────────▶ On
//	 │                      │
//	 └────── switch(broken)─┴──▶ Broken (terminal)
//
// A Broken device refuses every switch; the refusal is returned as text,
// not as an error, because callers surface it to users verbatim.
//
// # Thread Safety
//
// Devices are not safe for concurrent use. The home registry serialises
// every access.
package device
