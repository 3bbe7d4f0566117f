package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/tnxqso/rf2k-launcher/cmd/rf2k-launcher/commands"
	"github.com/tnxqso/rf2k-launcher/internal/logger"
)

// Build-time variables injected via ldflags
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	commands.Version = version
	commands.Commit = commit
	commands.Date = date

	err := commands.Execute()
	_ = logger.Close()
	if err == nil {
		return
	}

	var exitErr *commands.ExitError
	if errors.As(err, &exitErr) {
		if exitErr.Err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", exitErr.Err)
		}
		os.Exit(exitErr.Code)
	}

	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	os.Exit(1)
}
