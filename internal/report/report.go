// Package report formats monitor listings and operation results for the
// console. Pure formatting, no state.
package report

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"

	"ddcswitch/internal/monitor"
	"ddcswitch/internal/switcher"
)

// InputSourceLabel renders a monitor's current input source.
func InputSourceLabel(m *monitor.Monitor) string {
	if !m.CurrentOK {
		return "unavailable"
	}
	return m.Current.String()
}

// WriteMonitor writes the multi-line block for one monitor:
//
//	0: DELL U2723QE
//	    Input Source: DP1
//	    Input Sources: DP1, Hdmi1, UsbC2
//	    Backend: winapi
func WriteMonitor(w io.Writer, m *monitor.Monitor) {
	lines := []string{m.String()}
	lines = append(lines, fmt.Sprintf("Input Source: %s", InputSourceLabel(m)))
	if len(m.Inputs) > 0 {
		names := make([]string, len(m.Inputs))
		for i, v := range m.Inputs {
			names[i] = v.String()
		}
		lines = append(lines, fmt.Sprintf("Input Sources: %s", strings.Join(names, ", ")))
	}
	if m.Serial != "" {
		lines = append(lines, fmt.Sprintf("Serial: %s", m.Serial))
	}
	lines = append(lines, fmt.Sprintf("Backend: %s", m.Backend))
	fmt.Fprintln(w, strings.Join(lines, "\n    "))
}

// WriteList writes one block per monitor in discovery order.
func WriteList(w io.Writer, monitors []*monitor.Monitor) {
	for _, m := range monitors {
		WriteMonitor(w, m)
	}
}

// WriteTable renders the monitors as a table.
func WriteTable(w io.Writer, monitors []*monitor.Monitor) {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"#", "Name", "Input", "Backend"})
	for _, m := range monitors {
		t.AppendRow(table.Row{m.Index, m.Name, InputSourceLabel(m), m.Backend})
	}
	t.Render()
}

// WriteJSON renders the monitors as indented JSON.
func WriteJSON(w io.Writer, monitors []monitor.Monitor) error {
	data, err := json.MarshalIndent(monitors, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, string(data))
	return err
}

// WriteFailures writes one line per failed outcome and reports whether
// any outcome failed.
func WriteFailures(w io.Writer, outcomes []switcher.Outcome) bool {
	failed := false
	for _, o := range outcomes {
		if o.Err == nil {
			continue
		}
		failed = true
		fmt.Fprintf(w, "Error: %v\n", o.Err)
	}
	return failed
}

// Summary produces the short text used for notifications, e.g.
// "Dell U2723QE -> UsbC2" joined with "; ".
func Summary(outcomes []switcher.Outcome) string {
	var parts []string
	for _, o := range outcomes {
		if o.Op != switcher.OpSet || o.Monitor == nil {
			continue
		}
		if o.Err != nil {
			parts = append(parts, fmt.Sprintf("%s: failed", o.Monitor.Name))
			continue
		}
		parts = append(parts, fmt.Sprintf("%s -> %s", o.Monitor.Name, o.Target))
	}
	return strings.Join(parts, "; ")
}
