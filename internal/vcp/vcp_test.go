package vcp

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseKnownNames(t *testing.T) {
	names := DefaultNames()
	tests := []struct {
		name     string
		input    string
		expected Value
	}{
		{name: "short displayport name", input: "DP1", expected: DisplayPort1},
		{name: "lower case", input: "dp2", expected: DisplayPort2},
		{name: "mixed case hdmi", input: "Hdmi1", expected: Hdmi1},
		{name: "upper case hdmi", input: "HDMI2", expected: Hdmi2},
		{name: "usb-c", input: "usbc2", expected: UsbC2},
		{name: "long displayport spelling", input: "DisplayPort1", expected: DisplayPort1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			value, err := names.Parse(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, value)
		})
	}
}

func TestParseNumbersVerbatim(t *testing.T) {
	names := DefaultNames()

	value, err := names.Parse("27")
	require.NoError(t, err)
	assert.Equal(t, Value(27), value)

	// A numeric string is always taken as a raw code, even when the
	// resulting value has a symbolic name.
	value, err = names.Parse("17")
	require.NoError(t, err)
	assert.Equal(t, Hdmi1, value)
}

func TestParseUnknownName(t *testing.T) {
	names := DefaultNames()
	_, err := names.Parse("xyz")
	require.Error(t, err)
	// The error should carry the offending designator.
	assert.Contains(t, err.Error(), "xyz")
}

func TestCustomAliasTakesPrecedence(t *testing.T) {
	names := DefaultNames()
	names.Add("thunderbolt", 27)
	names.Add("DP1", Hdmi2)

	value, err := names.Parse("Thunderbolt")
	require.NoError(t, err)
	assert.Equal(t, Value(27), value)

	value, err = names.Parse("dp1")
	require.NoError(t, err)
	assert.Equal(t, Hdmi2, value)
}

func TestValueString(t *testing.T) {
	assert.Equal(t, "Hdmi1", Hdmi1.String())
	assert.Equal(t, "DP1", DisplayPort1.String())
	assert.Equal(t, "255", Value(255).String())
}

func TestParseCapabilities(t *testing.T) {
	caps, err := ParseCapabilities(
		"(prot(monitor)type(lcd)model(U2723QE)cmds(01 02 03 07 0C E3 F3)" +
			"vcp(02 04 05 08 10 12 14(05 08 0B) 16 18 1A 52 60(0F 11 1B) AC AE B2 B6 C6 C8 C9 D6(01 04 05) DF)" +
			"mswhql(1))")
	require.NoError(t, err)

	assert.Equal(t, "U2723QE", caps.Model)
	assert.Equal(t, []Value{DisplayPort1, Hdmi1, UsbC2}, caps.InputSources())
	assert.Equal(t, []Value{0x01, 0x04, 0x05}, caps.Features[0xD6])

	// Features without a value list are present with no values.
	values, ok := caps.Features[0x10]
	assert.True(t, ok)
	assert.Empty(t, values)
}

func TestParseCapabilitiesErrors(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{name: "empty", input: ""},
		{name: "unbalanced", input: "(vcp(60(0F 11)"},
		{name: "bad feature code", input: "(vcp(ZZ))"},
		{name: "bad value", input: "(vcp(60(GG)))"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseCapabilities(tt.input)
			assert.Error(t, err)
		})
	}
}

func TestParseCapabilitiesNoInputFeature(t *testing.T) {
	caps, err := ParseCapabilities("(prot(monitor)vcp(10 12))")
	require.NoError(t, err)
	assert.Nil(t, caps.InputSources())
}
