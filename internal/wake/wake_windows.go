//go:build windows

package wake

import (
	"log"
	"unsafe"

	"golang.org/x/sys/windows"
)

var (
	user32        = windows.NewLazySystemDLL("user32.dll")
	procSendInput = user32.NewProc("SendInput")
)

const (
	inputMouse     = 0
	mouseeventMove = 0x0001
)

type mouseInput struct {
	dx          int32
	dy          int32
	mouseData   uint32
	dwFlags     uint32
	time        uint32
	dwExtraInfo uintptr
}

type input struct {
	inputType uint32
	mi        mouseInput
	_         [8]byte // padding to match the C struct alignment
}

// Displays simulates a one pixel mouse movement so standby monitors power
// up before DDC commands reach them.
func Displays() {
	log.Println("Wake: simulating mouse movement")

	var in input
	in.inputType = inputMouse
	in.mi.dx = 1
	in.mi.dy = 1
	in.mi.dwFlags = mouseeventMove
	procSendInput.Call(1, uintptr(unsafe.Pointer(&in)), unsafe.Sizeof(in))

	in.mi.dx = -1
	in.mi.dy = -1
	procSendInput.Call(1, uintptr(unsafe.Pointer(&in)), unsafe.Sizeof(in))
}
