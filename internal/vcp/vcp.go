// Package vcp models the DDC/CI VCP values used for input source selection.
package vcp

import (
	"fmt"
	"strconv"
	"strings"
)

// InputSelect is the VCP feature code for input select (MCCS 60h).
const InputSelect = 0x60

// Value is a raw VCP input source value.
type Value uint16

// Standard input source values (MCCS 60h value table).
const (
	DisplayPort1 Value = 0x0F
	DisplayPort2 Value = 0x10
	Hdmi1        Value = 0x11
	Hdmi2        Value = 0x12
	UsbC1        Value = 0x19
	UsbC2        Value = 0x1B
)

// canonical maps known values to their display names.
var canonical = map[Value]string{
	DisplayPort1: "DP1",
	DisplayPort2: "DP2",
	Hdmi1:        "Hdmi1",
	Hdmi2:        "Hdmi2",
	UsbC1:        "UsbC1",
	UsbC2:        "UsbC2",
}

// String returns the symbolic name for known values, the decimal number otherwise.
func (v Value) String() string {
	if name, ok := canonical[v]; ok {
		return name
	}
	return strconv.Itoa(int(v))
}

// Names resolves input source designators to raw values.
// Lookups are case-insensitive. Custom aliases added with Add take
// precedence over the built-in names.
type Names struct {
	byName map[string]Value
}

// DefaultNames returns a Names table with the standard input source names.
func DefaultNames() *Names {
	n := &Names{byName: make(map[string]Value)}
	for value, name := range canonical {
		n.byName[strings.ToLower(name)] = value
	}
	// Long-form spellings accepted alongside the short ones.
	n.byName["displayport1"] = DisplayPort1
	n.byName["displayport2"] = DisplayPort2
	return n
}

// Add registers a custom alias for a raw value.
func (n *Names) Add(name string, value Value) {
	n.byName[strings.ToLower(name)] = value
}

// Parse resolves a designator to a raw value.
// Numbers are used verbatim; anything else must be a known name.
func (n *Names) Parse(s string) (Value, error) {
	if raw, err := strconv.ParseUint(s, 10, 16); err == nil {
		return Value(raw), nil
	}
	if value, ok := n.byName[strings.ToLower(s)]; ok {
		return value, nil
	}
	return 0, fmt.Errorf("%q is not a valid input source", s)
}
