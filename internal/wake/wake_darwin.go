//go:build darwin

package wake

import (
	"log"
	"os/exec"
)

// Displays asserts user activity for a second so sleeping displays power
// up before DDC commands reach them.
func Displays() {
	if err := exec.Command("caffeinate", "-u", "-t", "1").Run(); err != nil {
		log.Printf("Wake: caffeinate failed: %v", err)
	}
}
