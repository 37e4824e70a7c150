// Package notify sends desktop notifications through the platform's
// notification command. Failures are non-fatal; switching already
// happened by the time a notification goes out.
package notify

import (
	"fmt"
	"os/exec"
	"runtime"
)

// Send shows a desktop notification with the given title and body.
func Send(title, body string) error {
	switch runtime.GOOS {
	case "linux":
		return exec.Command("notify-send", title, body).Run()
	case "darwin":
		script := fmt.Sprintf("display notification %q with title %q", body, title)
		return exec.Command("osascript", "-e", script).Run()
	case "windows":
		// msg.exe is present on all Windows editions this tool targets and
		// avoids shipping a toast helper.
		return exec.Command("msg", "*", "/TIME:10", fmt.Sprintf("%s: %s", title, body)).Run()
	}
	return fmt.Errorf("notifications not supported on %s", runtime.GOOS)
}

// Switched reports the result of a switch invocation.
func Switched(summary string) error {
	if summary == "" {
		return nil
	}
	return Send("Input switched", summary)
}
