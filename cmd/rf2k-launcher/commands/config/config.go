// Package config implements the "config" command group.
package config

import (
	"github.com/spf13/cobra"
)

// Cmd is the parent command for configuration management.
var Cmd = &cobra.Command{
	Use:   "config",
	Short: "Inspect and edit configuration",
	Long: `Inspect and edit the launcher's configuration files.

Two files live in the state directory:
  settings.yml    engine settings (radio, amplifier, bands), read by RF2K-TRAINER
  launcher.yaml   launcher settings (logging, engine location, update handoff)

Subcommands act on launcher.yaml unless --settings is given.`,
}

func init() {
	Cmd.AddCommand(showCmd)
	Cmd.AddCommand(validateCmd)
	Cmd.AddCommand(editCmd)
	Cmd.AddCommand(schemaCmd)
}
