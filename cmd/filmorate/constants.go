package main

import "time"

// Defaults for CLI commands.
const (
	DefaultSeedFormat  = "auto"
	MaxErrorsDisplayed = 20
	readHeaderTimeout  = 5 * time.Second
)

// Valid seed formats.
var validSeedFormats = []string{"auto", "json", "yaml", "yml"}
