// Package monitor builds the discovery snapshot the rest of the tool
// operates on: a flat ordered list of monitors across all backends.
package monitor

import (
	"fmt"
	"log"
	"strings"

	"ddcswitch/internal/ddc"
	"ddcswitch/internal/vcp"
)

// Monitor is one discovered display with its state read at discovery time.
type Monitor struct {
	Index   int    `json:"index"`
	Name    string `json:"name"`
	ID      string `json:"id,omitempty"`
	Serial  string `json:"serial,omitempty"`
	Backend string `json:"backend"`

	// Current is the input source read at discovery time; only valid
	// when CurrentOK is true.
	Current   vcp.Value `json:"input_source"`
	CurrentOK bool      `json:"input_source_read"`

	// Inputs lists the input sources the monitor advertises in its
	// capabilities string. Filled only when discovery ran with
	// WithCapabilities.
	Inputs []vcp.Value `json:"supported_inputs,omitempty"`

	Handle ddc.Handle `json:"-"`
}

// String returns the short "index: name" form used in log messages.
func (m *Monitor) String() string {
	return fmt.Sprintf("%d: %s", m.Index, m.Name)
}

// MatchName reports whether the monitor name contains s, case-insensitively.
func (m *Monitor) MatchName(s string) bool {
	return strings.Contains(strings.ToLower(m.Name), strings.ToLower(s))
}

// DetectOptions controls a discovery pass.
type DetectOptions struct {
	// Backend restricts discovery to backends whose name contains the
	// given string. Empty means all backends.
	Backend string

	// WithCapabilities fetches and parses each monitor's capabilities
	// string to fill Monitor.Inputs. Slow on most hardware.
	WithCapabilities bool

	// Debugf receives diagnostic messages when set.
	Debugf func(format string, args ...any)
}

func (o *DetectOptions) debugf(format string, args ...any) {
	if o.Debugf != nil {
		o.Debugf(format, args...)
	}
}

// Directory discovers monitors across a set of backends.
type Directory struct {
	backends []ddc.Backend
}

// NewDirectory creates a Directory over the given backends.
// With no arguments it uses the platform backends.
func NewDirectory(backends ...ddc.Backend) *Directory {
	if len(backends) == 0 {
		backends = ddc.Backends()
	}
	return &Directory{backends: backends}
}

// Detect runs one discovery pass and returns the frozen snapshot.
// Indices are assigned in discovery order across all backends. A failing
// backend contributes zero monitors; the same physical monitor may appear
// once per backend that finds it.
func (d *Directory) Detect(opts DetectOptions) []Monitor {
	var monitors []Monitor
	for _, backend := range d.backends {
		if opts.Backend != "" && !strings.Contains(backend.Name(), opts.Backend) {
			continue
		}
		displays, err := backend.Detect()
		if err != nil {
			log.Printf("Backend %s: discovery failed: %v", backend.Name(), err)
			continue
		}
		for _, display := range displays {
			m := Monitor{
				Index:   len(monitors),
				Name:    display.Name,
				ID:      display.ID,
				Serial:  display.Serial,
				Backend: backend.Name(),
				Handle:  display.Handle,
			}
			if value, err := m.Handle.GetVCPFeature(vcp.InputSelect); err == nil {
				m.Current = vcp.Value(value)
				m.CurrentOK = true
			} else {
				opts.debugf("Monitor %s: input source read failed: %v", m.Name, err)
			}
			if opts.WithCapabilities {
				m.Inputs = readInputs(&m, &opts)
			}
			monitors = append(monitors, m)
		}
	}
	return monitors
}

func readInputs(m *Monitor, opts *DetectOptions) []vcp.Value {
	raw, err := m.Handle.Capabilities()
	if err != nil {
		opts.debugf("Monitor %s: capabilities fetch failed: %v", m.Name, err)
		return nil
	}
	caps, err := vcp.ParseCapabilities(raw)
	if err != nil {
		log.Printf("Monitor %s: failed to parse capabilities: %v", m.Name, err)
		return nil
	}
	return caps.InputSources()
}

// Close releases every monitor handle in the snapshot.
func Close(monitors []Monitor) {
	for i := range monitors {
		if monitors[i].Handle == nil {
			continue
		}
		if err := monitors[i].Handle.Close(); err != nil {
			log.Printf("Monitor %s: close failed: %v", monitors[i].Name, err)
		}
	}
}
