//go:build linux

package ddc

import (
	"bufio"
	"fmt"
	"os/exec"
	"regexp"
	"strconv"
	"strings"
)

// ddcutilBackend shells out to ddcutil, which drives DDC/CI over the
// kernel i2c-dev interface.
type ddcutilBackend struct{}

func (b *ddcutilBackend) Name() string { return "ddcutil" }

func findDdcutil() (string, error) {
	path, err := exec.LookPath("ddcutil")
	if err != nil {
		return "", fmt.Errorf("%w: ddcutil", ErrToolNotFound)
	}
	return path, nil
}

var (
	// displayHeader matches: Display 1
	displayHeader = regexp.MustCompile(`^Display\s+(\d+)$`)
	// getvcpBrief matches: VCP 60 SNC x0f
	getvcpBrief = regexp.MustCompile(`^VCP\s+[0-9A-Fa-f]+\s+\S+\s+x([0-9A-Fa-f]+)`)
)

func (b *ddcutilBackend) Detect() ([]Display, error) {
	tool, err := findDdcutil()
	if err != nil {
		return nil, err
	}

	// `detect --brief` reports one block per display:
	//   Display 1
	//      I2C bus:  /dev/i2c-4
	//      Monitor:  DEL:DELL U2723QE:ABC123
	output, err := exec.Command(tool, "detect", "--brief").Output()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCommandFailed, err)
	}

	var displays []Display
	var current *Display
	commit := func() {
		if current != nil {
			displays = append(displays, *current)
			current = nil
		}
	}

	scanner := bufio.NewScanner(strings.NewReader(string(output)))
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if matches := displayHeader.FindStringSubmatch(line); matches != nil {
			commit()
			number, _ := strconv.Atoi(matches[1])
			current = &Display{
				ID:     matches[1],
				Name:   "Unknown Monitor",
				Handle: &ddcutilHandle{tool: tool, display: number},
			}
			continue
		}
		if current == nil {
			continue
		}
		if value, ok := strings.CutPrefix(line, "Monitor:"); ok {
			// mfg:model:serial
			parts := strings.Split(strings.TrimSpace(value), ":")
			if len(parts) >= 2 && parts[1] != "" {
				current.Name = parts[1]
			}
			if len(parts) >= 3 {
				current.Serial = parts[2]
			}
		}
	}
	commit()
	return displays, scanner.Err()
}

// ddcutilHandle drives one display by number through ddcutil.
type ddcutilHandle struct {
	tool    string
	display int
}

func (h *ddcutilHandle) GetVCPFeature(code byte) (uint16, error) {
	cmd := exec.Command(h.tool, "--display", strconv.Itoa(h.display),
		"getvcp", fmt.Sprintf("0x%02x", code), "--brief")
	output, err := cmd.Output()
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrCommandFailed, err)
	}

	scanner := bufio.NewScanner(strings.NewReader(string(output)))
	for scanner.Scan() {
		if matches := getvcpBrief.FindStringSubmatch(strings.TrimSpace(scanner.Text())); matches != nil {
			value, err := strconv.ParseUint(matches[1], 16, 16)
			if err != nil {
				return 0, fmt.Errorf("failed to parse getvcp output: %v", err)
			}
			return uint16(value), nil
		}
	}
	return 0, fmt.Errorf("%w: no value in getvcp output", ErrFeatureUnsupported)
}

func (h *ddcutilHandle) SetVCPFeature(code byte, value uint16) error {
	cmd := exec.Command(h.tool, "--display", strconv.Itoa(h.display),
		"setvcp", fmt.Sprintf("0x%02x", code), strconv.Itoa(int(value)))
	if output, err := cmd.CombinedOutput(); err != nil {
		return fmt.Errorf("%w: %v: %s", ErrCommandFailed, err, strings.TrimSpace(string(output)))
	}
	return nil
}

func (h *ddcutilHandle) Capabilities() (string, error) {
	cmd := exec.Command(h.tool, "--display", strconv.Itoa(h.display), "capabilities", "--brief")
	output, err := cmd.Output()
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrCommandFailed, err)
	}

	scanner := bufio.NewScanner(strings.NewReader(string(output)))
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if value, ok := strings.CutPrefix(line, "Unparsed capabilities string:"); ok {
			return strings.TrimSpace(value), nil
		}
		if strings.HasPrefix(line, "(") {
			return line, nil
		}
	}
	return "", fmt.Errorf("%w: no capabilities string in output", ErrFeatureUnsupported)
}

func (h *ddcutilHandle) Close() error { return nil }

func platformBackends() []Backend {
	return []Backend{&ddcutilBackend{}}
}
