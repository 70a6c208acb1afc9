// cmd/beypal/main.go
package main

import (
	beypal "github.com/mwiater/beypal/internal/commands"
)

// Build information, set with -ldflags at release time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

var (
	setVersionInfo = beypal.SetVersionInfo
	executeCmd     = beypal.Execute
)

// main hands control to the cobra root command.
func main() {
	setVersionInfo(version, commit, date)
	executeCmd()
}
