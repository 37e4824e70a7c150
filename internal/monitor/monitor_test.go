package monitor

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ddcswitch/internal/ddc"
	"ddcswitch/internal/vcp"
)

type fakeHandle struct {
	current uint16
	getErr  error
	caps    string
	capsErr error
	closed  bool
}

func (h *fakeHandle) GetVCPFeature(code byte) (uint16, error) {
	if h.getErr != nil {
		return 0, h.getErr
	}
	return h.current, nil
}

func (h *fakeHandle) SetVCPFeature(code byte, value uint16) error { return nil }

func (h *fakeHandle) Capabilities() (string, error) {
	if h.capsErr != nil {
		return "", h.capsErr
	}
	return h.caps, nil
}

func (h *fakeHandle) Close() error {
	h.closed = true
	return nil
}

type fakeBackend struct {
	name     string
	displays []ddc.Display
	err      error
}

func (b *fakeBackend) Name() string { return b.name }

func (b *fakeBackend) Detect() ([]ddc.Display, error) {
	if b.err != nil {
		return nil, b.err
	}
	return b.displays, nil
}

func TestDetectAssignsIndicesAcrossBackends(t *testing.T) {
	first := &fakeBackend{name: "one", displays: []ddc.Display{
		{ID: "a", Name: "Dell P2415Q", Handle: &fakeHandle{current: uint16(vcp.DisplayPort2)}},
	}}
	second := &fakeBackend{name: "two", displays: []ddc.Display{
		{ID: "b", Name: "Dell U2723QE", Handle: &fakeHandle{current: uint16(vcp.Hdmi1)}},
		{ID: "c", Name: "LG 27UK850", Handle: &fakeHandle{current: uint16(vcp.UsbC2)}},
	}}

	monitors := NewDirectory(first, second).Detect(DetectOptions{})
	require.Len(t, monitors, 3)
	for i, m := range monitors {
		assert.Equal(t, i, m.Index)
	}
	assert.Equal(t, "one", monitors[0].Backend)
	assert.Equal(t, "two", monitors[1].Backend)
	assert.Equal(t, vcp.Hdmi1, monitors[1].Current)
	assert.True(t, monitors[1].CurrentOK)
}

func TestDetectFailingBackendContributesNothing(t *testing.T) {
	broken := &fakeBackend{name: "broken", err: errors.New("bus error")}
	working := &fakeBackend{name: "working", displays: []ddc.Display{
		{ID: "a", Name: "Dell P2415Q", Handle: &fakeHandle{current: uint16(vcp.Hdmi1)}},
	}}

	monitors := NewDirectory(broken, working).Detect(DetectOptions{})
	require.Len(t, monitors, 1)
	assert.Equal(t, "working", monitors[0].Backend)
	assert.Equal(t, 0, monitors[0].Index)
}

func TestDetectBackendFilter(t *testing.T) {
	first := &fakeBackend{name: "winapi", displays: []ddc.Display{
		{ID: "a", Name: "Dell P2415Q", Handle: &fakeHandle{}},
	}}
	second := &fakeBackend{name: "ddcutil", displays: []ddc.Display{
		{ID: "b", Name: "Dell P2415Q", Handle: &fakeHandle{}},
	}}
	directory := NewDirectory(first, second)

	monitors := directory.Detect(DetectOptions{Backend: "ddc"})
	require.Len(t, monitors, 1)
	assert.Equal(t, "ddcutil", monitors[0].Backend)

	// Without a filter the same physical monitor appears once per backend.
	monitors = directory.Detect(DetectOptions{})
	assert.Len(t, monitors, 2)
}

func TestDetectUnreadableInputSource(t *testing.T) {
	backend := &fakeBackend{name: "fake", displays: []ddc.Display{
		{ID: "a", Name: "Dell P2415Q", Handle: &fakeHandle{getErr: errors.New("timeout")}},
	}}

	monitors := NewDirectory(backend).Detect(DetectOptions{})
	require.Len(t, monitors, 1)
	assert.False(t, monitors[0].CurrentOK)
}

func TestDetectWithCapabilities(t *testing.T) {
	backend := &fakeBackend{name: "fake", displays: []ddc.Display{
		{ID: "a", Name: "Dell U2723QE", Handle: &fakeHandle{
			current: uint16(vcp.DisplayPort1),
			caps:    "(prot(monitor)model(U2723QE)vcp(10 60(0F 11 1B)))",
		}},
		{ID: "b", Name: "Old Monitor", Handle: &fakeHandle{
			capsErr: errors.New("not supported"),
		}},
	}}

	monitors := NewDirectory(backend).Detect(DetectOptions{WithCapabilities: true})
	require.Len(t, monitors, 2)
	assert.Equal(t, []vcp.Value{vcp.DisplayPort1, vcp.Hdmi1, vcp.UsbC2}, monitors[0].Inputs)
	assert.Nil(t, monitors[1].Inputs)
}

func TestCloseReleasesHandles(t *testing.T) {
	handle := &fakeHandle{}
	backend := &fakeBackend{name: "fake", displays: []ddc.Display{
		{ID: "a", Name: "Dell P2415Q", Handle: handle},
	}}

	monitors := NewDirectory(backend).Detect(DetectOptions{})
	Close(monitors)
	assert.True(t, handle.closed)
}

func TestMatchName(t *testing.T) {
	m := &Monitor{Name: "Dell U2723QE"}
	assert.True(t, m.MatchName("dell"))
	assert.True(t, m.MatchName("U2723"))
	assert.True(t, m.MatchName("Dell U2723QE"))
	assert.False(t, m.MatchName("LG"))
}
