//go:build darwin

package ddc

import (
	"bufio"
	"fmt"
	"os/exec"
	"regexp"
	"strconv"
	"strings"

	"ddcswitch/internal/vcp"
)

// m1ddcBackend shells out to the m1ddc tool, which speaks DDC/CI on
// Apple Silicon and Intel Macs.
type m1ddcBackend struct{}

func (b *m1ddcBackend) Name() string { return "m1ddc" }

func findM1ddc() (string, error) {
	paths := []string{
		"m1ddc", // In PATH
		"/usr/local/bin/m1ddc",
		"/opt/homebrew/bin/m1ddc",
	}
	for _, p := range paths {
		if path, err := exec.LookPath(p); err == nil {
			return path, nil
		}
	}
	return "", fmt.Errorf("%w: m1ddc", ErrToolNotFound)
}

// displayLine matches entries like: [1] VG27AQL3A (776236CB-E781-...)
var displayLine = regexp.MustCompile(`^\[(\d+)\]\s+(.+?)\s+\(([^)]+)\)$`)

func (b *m1ddcBackend) Detect() ([]Display, error) {
	tool, err := findM1ddc()
	if err != nil {
		return nil, err
	}

	output, err := exec.Command(tool, "display", "list").Output()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCommandFailed, err)
	}

	var displays []Display
	scanner := bufio.NewScanner(strings.NewReader(string(output)))
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		matches := displayLine.FindStringSubmatch(line)
		if matches == nil {
			continue
		}
		name := strings.TrimSpace(matches[2])
		// "(null)" entries are usually the internal display, which has no
		// DDC channel anyway.
		if name == "(null)" {
			continue
		}
		uuid := matches[3]
		displays = append(displays, Display{
			ID:     uuid,
			Name:   name,
			Serial: uuid,
			Handle: &m1ddcHandle{tool: tool, displayID: uuid},
		})
	}
	return displays, scanner.Err()
}

// m1ddcHandle drives one display through m1ddc subcommands. m1ddc exposes
// named features rather than raw VCP codes, so only the features this tool
// needs are mapped.
type m1ddcHandle struct {
	tool      string
	displayID string
}

func (h *m1ddcHandle) featureArg(code byte) (string, error) {
	switch code {
	case vcp.InputSelect:
		return "input", nil
	case 0x10:
		return "luminance", nil
	case 0x12:
		return "contrast", nil
	}
	return "", fmt.Errorf("%w: VCP %02X has no m1ddc mapping", ErrFeatureUnsupported, code)
}

func (h *m1ddcHandle) GetVCPFeature(code byte) (uint16, error) {
	feature, err := h.featureArg(code)
	if err != nil {
		return 0, err
	}
	output, err := exec.Command(h.tool, "display", h.displayID, "get", feature).Output()
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrCommandFailed, err)
	}
	value, err := strconv.ParseUint(strings.TrimSpace(string(output)), 0, 16)
	if err != nil {
		return 0, fmt.Errorf("failed to parse m1ddc output: %v", err)
	}
	return uint16(value), nil
}

func (h *m1ddcHandle) SetVCPFeature(code byte, value uint16) error {
	feature, err := h.featureArg(code)
	if err != nil {
		return err
	}
	cmd := exec.Command(h.tool, "display", h.displayID, "set", feature, strconv.Itoa(int(value)))
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("%w: %v", ErrCommandFailed, err)
	}
	return nil
}

func (h *m1ddcHandle) Capabilities() (string, error) {
	return "", fmt.Errorf("%w: m1ddc cannot read capabilities", ErrFeatureUnsupported)
}

func (h *m1ddcHandle) Close() error { return nil }

func platformBackends() []Backend {
	return []Backend{&m1ddcBackend{}}
}
