package report

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ddcswitch/internal/monitor"
	"ddcswitch/internal/switcher"
	"ddcswitch/internal/vcp"
)

func sample() []monitor.Monitor {
	return []monitor.Monitor{
		{
			Index:     0,
			Name:      "Dell U2723QE",
			Serial:    "ABC123",
			Backend:   "winapi",
			Current:   vcp.DisplayPort1,
			CurrentOK: true,
			Inputs:    []vcp.Value{vcp.DisplayPort1, vcp.Hdmi1, vcp.UsbC2},
		},
		{
			Index:   1,
			Name:    "LG 27UK850",
			Backend: "winapi",
		},
	}
}

func TestWriteMonitorBlock(t *testing.T) {
	monitors := sample()
	var buf bytes.Buffer
	WriteMonitor(&buf, &monitors[0])

	expected := "0: Dell U2723QE\n" +
		"    Input Source: DP1\n" +
		"    Input Sources: DP1, Hdmi1, UsbC2\n" +
		"    Serial: ABC123\n" +
		"    Backend: winapi\n"
	assert.Equal(t, expected, buf.String())
}

func TestWriteMonitorUnreadableInput(t *testing.T) {
	monitors := sample()
	var buf bytes.Buffer
	WriteMonitor(&buf, &monitors[1])

	assert.Contains(t, buf.String(), "Input Source: unavailable")
	assert.NotContains(t, buf.String(), "Input Sources:")
	assert.NotContains(t, buf.String(), "Serial:")
}

func TestWriteTable(t *testing.T) {
	monitors := sample()
	var buf bytes.Buffer
	WriteTable(&buf, []*monitor.Monitor{&monitors[0], &monitors[1]})

	output := buf.String()
	for _, want := range []string{"Dell U2723QE", "LG 27UK850", "DP1", "unavailable", "winapi"} {
		assert.Contains(t, output, want)
	}
}

func TestWriteJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteJSON(&buf, sample()))

	var decoded []map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	require.Len(t, decoded, 2)
	assert.Equal(t, "Dell U2723QE", decoded[0]["name"])
	assert.Equal(t, float64(vcp.DisplayPort1), decoded[0]["input_source"])
	assert.Equal(t, false, decoded[1]["input_source_read"])
}

func TestWriteFailures(t *testing.T) {
	monitors := sample()
	outcomes := []switcher.Outcome{
		{Token: "Dell=dp1", Op: switcher.OpSet, Monitor: &monitors[0], Target: vcp.DisplayPort1},
		{Token: "Foo=dp1", Op: switcher.OpSet, Err: errors.New(`no display monitors found for "Foo"`)},
	}

	var buf bytes.Buffer
	assert.True(t, WriteFailures(&buf, outcomes))
	assert.Equal(t, 1, strings.Count(buf.String(), "Error:"))

	buf.Reset()
	assert.False(t, WriteFailures(&buf, outcomes[:1]))
	assert.Empty(t, buf.String())
}

func TestSummary(t *testing.T) {
	monitors := sample()
	outcomes := []switcher.Outcome{
		{Op: switcher.OpSet, Monitor: &monitors[0], Target: vcp.UsbC2},
		{Op: switcher.OpSet, Monitor: &monitors[1], Target: vcp.DisplayPort1, Err: errors.New("boom")},
		{Op: switcher.OpList, Monitor: &monitors[0]},
	}
	assert.Equal(t, "Dell U2723QE -> UsbC2; LG 27UK850: failed", Summary(outcomes))
}
