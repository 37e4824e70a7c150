package ddc

import "errors"

var (
	// ErrToolNotFound is returned when the external DDC tool is not installed
	ErrToolNotFound = errors.New("required tool not found")

	// ErrCommandFailed is returned when the external command fails
	ErrCommandFailed = errors.New("command execution failed")

	// ErrFeatureUnsupported is returned when the display or backend cannot
	// serve the requested VCP feature
	ErrFeatureUnsupported = errors.New("VCP feature not supported")
)
