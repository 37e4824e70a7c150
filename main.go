package main

import "ddcswitch/cmd"

// Version is set via ldflags during build
var version = "0.1.0"

func main() {
	cmd.SetVersion(version)
	cmd.Execute()
}
