//go:build windows

package ddc

import (
	"fmt"
	"unicode/utf16"
	"unsafe"

	"golang.org/x/sys/windows"
)

// winAPIBackend talks to the Windows Monitor Configuration API (dxva2.dll).
type winAPIBackend struct{}

func (b *winAPIBackend) Name() string { return "winapi" }

var (
	user32 = windows.NewLazySystemDLL("user32.dll")
	dxva2  = windows.NewLazySystemDLL("dxva2.dll")

	procEnumDisplayMonitors         = user32.NewProc("EnumDisplayMonitors")
	procGetMonitorInfoW             = user32.NewProc("GetMonitorInfoW")
	procGetNumberOfPhysicalMonitors = dxva2.NewProc("GetNumberOfPhysicalMonitorsFromHMONITOR")
	procGetPhysicalMonitors         = dxva2.NewProc("GetPhysicalMonitorsFromHMONITOR")
	procDestroyPhysicalMonitor      = dxva2.NewProc("DestroyPhysicalMonitor")
	procGetVCPFeature               = dxva2.NewProc("GetVCPFeatureAndVCPFeatureReply")
	procSetVCPFeature               = dxva2.NewProc("SetVCPFeature")
	procGetCapabilitiesLength       = dxva2.NewProc("GetCapabilitiesStringLength")
	procCapabilitiesRequest         = dxva2.NewProc("CapabilitiesRequestAndCapabilitiesReply")
)

type rect struct {
	left, top, right, bottom int32
}

type monitorInfoExW struct {
	cbSize    uint32
	rcMonitor rect
	rcWork    rect
	dwFlags   uint32
	szDevice  [32]uint16
}

// physicalMonitor mirrors PHYSICAL_MONITOR from lowlevelmonitorconfigurationapi.h.
type physicalMonitor struct {
	handle      windows.Handle
	description [128]uint16
}

// Detect enumerates HMONITORs and opens the physical monitors behind each.
func (b *winAPIBackend) Detect() ([]Display, error) {
	var hmonitors []uintptr
	callback := windows.NewCallback(func(hMonitor, hdc, rc, lparam uintptr) uintptr {
		hmonitors = append(hmonitors, hMonitor)
		return 1
	})

	ret, _, err := procEnumDisplayMonitors.Call(0, 0, callback, 0)
	if ret == 0 {
		return nil, fmt.Errorf("EnumDisplayMonitors failed: %w", err)
	}

	var displays []Display
	for _, hMonitor := range hmonitors {
		device := deviceName(hMonitor)

		var count uint32
		ret, _, err := procGetNumberOfPhysicalMonitors.Call(hMonitor, uintptr(unsafe.Pointer(&count)))
		if ret == 0 || count == 0 {
			// Mirrors or detached heads have no physical monitors behind them.
			_ = err
			continue
		}

		physical := make([]physicalMonitor, count)
		ret, _, err = procGetPhysicalMonitors.Call(hMonitor, uintptr(count), uintptr(unsafe.Pointer(&physical[0])))
		if ret == 0 {
			return displays, fmt.Errorf("GetPhysicalMonitorsFromHMONITOR(%s) failed: %w", device, err)
		}

		for i, pm := range physical {
			displays = append(displays, Display{
				ID:     fmt.Sprintf(`%s\Monitor%d`, device, i),
				Name:   windows.UTF16ToString(pm.description[:]),
				Handle: &winHandle{handle: pm.handle},
			})
		}
	}
	return displays, nil
}

func deviceName(hMonitor uintptr) string {
	var info monitorInfoExW
	info.cbSize = uint32(unsafe.Sizeof(info))
	ret, _, _ := procGetMonitorInfoW.Call(hMonitor, uintptr(unsafe.Pointer(&info)))
	if ret == 0 {
		return fmt.Sprintf("HMONITOR-%X", hMonitor)
	}
	return string(utf16.Decode(truncateNul(info.szDevice[:])))
}

func truncateNul(s []uint16) []uint16 {
	for i, c := range s {
		if c == 0 {
			return s[:i]
		}
	}
	return s
}

// winHandle wraps one physical monitor handle.
type winHandle struct {
	handle windows.Handle
}

func (h *winHandle) GetVCPFeature(code byte) (uint16, error) {
	var vcpType, current, maximum uint32
	ret, _, err := procGetVCPFeature.Call(
		uintptr(h.handle),
		uintptr(code),
		uintptr(unsafe.Pointer(&vcpType)),
		uintptr(unsafe.Pointer(&current)),
		uintptr(unsafe.Pointer(&maximum)),
	)
	if ret == 0 {
		return 0, fmt.Errorf("GetVCPFeatureAndVCPFeatureReply(%02X): %w: %v", code, ErrFeatureUnsupported, err)
	}
	return uint16(current), nil
}

func (h *winHandle) SetVCPFeature(code byte, value uint16) error {
	ret, _, err := procSetVCPFeature.Call(uintptr(h.handle), uintptr(code), uintptr(value))
	if ret == 0 {
		return fmt.Errorf("SetVCPFeature(%02X, %d): %w: %v", code, value, ErrCommandFailed, err)
	}
	return nil
}

func (h *winHandle) Capabilities() (string, error) {
	var length uint32
	ret, _, err := procGetCapabilitiesLength.Call(uintptr(h.handle), uintptr(unsafe.Pointer(&length)))
	if ret == 0 || length == 0 {
		return "", fmt.Errorf("GetCapabilitiesStringLength: %w: %v", ErrFeatureUnsupported, err)
	}

	buf := make([]byte, length)
	ret, _, err = procCapabilitiesRequest.Call(uintptr(h.handle), uintptr(unsafe.Pointer(&buf[0])), uintptr(length))
	if ret == 0 {
		return "", fmt.Errorf("CapabilitiesRequestAndCapabilitiesReply: %w: %v", ErrCommandFailed, err)
	}
	// The reply is a NUL-terminated char string.
	for i, c := range buf {
		if c == 0 {
			buf = buf[:i]
			break
		}
	}
	return string(buf), nil
}

func (h *winHandle) Close() error {
	ret, _, err := procDestroyPhysicalMonitor.Call(uintptr(h.handle))
	if ret == 0 {
		return fmt.Errorf("DestroyPhysicalMonitor: %v", err)
	}
	return nil
}

func platformBackends() []Backend {
	return []Backend{&winAPIBackend{}}
}
