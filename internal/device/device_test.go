package device

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConstructors(t *testing.T) {
	tests := []struct {
		name      string
		dev       Device
		wantName  string
		wantType  Type
		wantState State
		wantDesc  string
		wantInfo  string
	}{
		{
			name:      "socket",
			dev:       NewSocket("1"),
			wantName:  "Smart Socket 1",
			wantType:  TypeSocket,
			wantState: StateOff,
			wantDesc:  "Very Powerful Smart Device",
			wantInfo:  "Current power: 15.20 W",
		},
		{
			name:      "kettle",
			dev:       NewKettle("2"),
			wantName:  "Smart Kettle 2",
			wantType:  TypeKettle,
			wantState: StateOff,
			wantDesc:  NoInfo,
			wantInfo:  "Water: 1.10 l, current temperature: 0.00 °C",
		},
		{
			name:      "thermometer",
			dev:       NewThermometer("3"),
			wantName:  "Thermometer 3",
			wantType:  TypeThermometer,
			wantState: StateOn,
			wantDesc:  NoInfo,
			wantInfo:  "Current temperature: 0.00 °C",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.wantName, tt.dev.Name())
			assert.Equal(t, tt.wantType, tt.dev.Type())
			assert.Equal(t, tt.wantState, tt.dev.State())
			assert.Equal(t, tt.wantDesc, tt.dev.Description())
			assert.Equal(t, tt.wantInfo, tt.dev.CurrentInfo())
		})
	}
}

func TestSwitch(t *testing.T) {
	s := NewSocket("1")

	assert.Equal(t, SwitchApplied, s.Switch(StateOn))
	assert.Equal(t, StateOn, s.State())

	assert.Equal(t, SwitchApplied, s.Switch(StateOff))
	assert.Equal(t, StateOff, s.State())

	assert.Equal(t, SwitchApplied, s.Switch(StateBroken))
	assert.Equal(t, StateBroken, s.State())

	for _, target := range []State{StateOn, StateOff, StateBroken} {
		assert.Equal(t, SwitchRefused, s.Switch(target))
		assert.Equal(t, StateBroken, s.State())
	}
}

func TestReportUsesOverrides(t *testing.T) {
	r := NewSocket("4").Report()
	assert.Contains(t, r, "Device: Smart Socket 4")
	assert.Contains(t, r, "Description: Very Powerful Smart Device")
	assert.Contains(t, r, "Current info: Current power: 15.20 W")
	assert.Contains(t, r, StateOff.Label())

	th := NewThermometer("1")
	th.SetTemperature(21.5)
	assert.Contains(t, th.Report(), "Current temperature: 21.50 °C")
}

func TestParseState(t *testing.T) {
	tests := []struct {
		in      string
		want    State
		wantErr bool
	}{
		{"on", StateOn, false},
		{"off", StateOff, false},
		{"broken", StateBroken, false},
		{"ON", 0, true},
		{"", 0, true},
		{"repair", 0, true},
	}
	for _, tt := range tests {
		got, err := ParseState(tt.in)
		if tt.wantErr {
			assert.ErrorIs(t, err, ErrInvalidState, "input %q", tt.in)
			continue
		}
		require.NoError(t, err)
		assert.Equal(t, tt.want, got)
		assert.Equal(t, tt.in, got.String())
	}
}

func TestParseType(t *testing.T) {
	got, err := ParseType(" Kettle ")
	require.NoError(t, err)
	assert.Equal(t, TypeKettle, got)

	_, err = ParseType("toaster")
	assert.ErrorIs(t, err, ErrInvalidType)
}

func TestNew(t *testing.T) {
	d, err := New(TypeSocket, "3")
	require.NoError(t, err)
	assert.Equal(t, "Smart Socket 3", d.Name())
	assert.Equal(t, StateOff, d.State())

	d, err = New(TypeThermometer, "1")
	require.NoError(t, err)
	assert.Equal(t, StateOn, d.State())

	_, err = New(Type("toaster"), "1")
	assert.ErrorIs(t, err, ErrInvalidType)

	_, err = New(TypeKettle, "")
	assert.ErrorIs(t, err, ErrInvalidID)
}
