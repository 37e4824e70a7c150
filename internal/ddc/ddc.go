// Package ddc provides DDC/CI access abstraction for monitor input switching.
//
// A Backend discovers displays through one access path (OS monitor API or
// an external DDC tool); each discovered Display carries a Handle that
// speaks raw VCP get/set against that device.
package ddc

// Display is one display device as reported by a backend.
type Display struct {
	// ID is the backend-specific device identifier.
	ID string

	// Name is the human-readable monitor name (manufacturer/model).
	Name string

	// Serial is the serial number or UUID when the backend reports one.
	Serial string

	// Handle speaks DDC/CI to this device.
	Handle Handle
}

// Handle performs VCP feature access against a single display.
type Handle interface {
	// GetVCPFeature reads the current value of a VCP feature.
	GetVCPFeature(code byte) (uint16, error)

	// SetVCPFeature writes a VCP feature value.
	SetVCPFeature(code byte, value uint16) error

	// Capabilities returns the raw MCCS capabilities string.
	// Backends that cannot fetch it return ErrFeatureUnsupported.
	Capabilities() (string, error)

	// Close releases any OS resources held for the display.
	Close() error
}

// Backend discovers displays through one access path.
type Backend interface {
	// Name identifies the backend, e.g. "winapi" or "ddcutil".
	Name() string

	// Detect enumerates the displays reachable through this backend.
	Detect() ([]Display, error)
}

// Backends returns the discovery backends available on this platform.
func Backends() []Backend {
	return platformBackends()
}
