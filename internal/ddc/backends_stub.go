//go:build !windows && !darwin && !linux

package ddc

func platformBackends() []Backend {
	return nil
}
