//go:build !darwin && !windows

// Package wake nudges the system awake before DDC commands are sent, so
// monitors in standby accept input switching.
package wake

// Displays is a no-op on platforms without a wake mechanism.
func Displays() {}
