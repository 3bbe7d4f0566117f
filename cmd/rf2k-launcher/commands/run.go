package commands

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/tnxqso/rf2k-launcher/pkg/controller"
	"github.com/tnxqso/rf2k-launcher/pkg/menu"
)

var runCmd = &cobra.Command{
	Use:   "run <choice> [bands...]",
	Short: "Run one menu selection without the menu",
	Long: `Run a single menu selection and exit with the engine's exit code.

The choice is a menu key (1-6) or name:
  run-all        run every enabled band
  show-info      print band and settings info (--info)
  run-subset     run only the given bands
  debug          verbose run, optionally limited to the given bands (--debug)
  clear-logs     delete the engine's logs (--clear-logs)
  check-updates  check for engine updates (--check-updates)

Band identifiers are passed to the engine unchanged.

Examples:
  # Tune 60m, 80m and 160m
  rf2k-launcher run run-subset 60 80 160

  # Debug a single band
  rf2k-launcher run debug 20`,
	Args: cobra.MinimumNArgs(1),
	ValidArgsFunction: func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		if len(args) > 0 {
			return nil, cobra.ShellCompDirectiveNoFileComp
		}
		return menu.Names(true), cobra.ShellCompDirectiveNoFileComp
	},
	RunE: runRun,
}

func runRun(cmd *cobra.Command, args []string) error {
	choice, err := parseRunChoice(args[0])
	if err != nil {
		return &ExitError{Code: controller.ExitFatal, Err: err}
	}

	bands := args[1:]
	if len(bands) > 0 && !choice.NeedsBands() {
		return &ExitError{Code: controller.ExitFatal, Err: fmt.Errorf("%s does not take band identifiers", choice)}
	}

	c, err := prepare(cmd)
	if err != nil {
		return &ExitError{Code: controller.ExitFatal, Err: err}
	}
	return exitCode(c.RunOnce(cmd.Context(), choice, strings.Join(bands, " ")))
}

// parseRunChoice accepts a menu key or a choice name. Update checks are
// always accepted here; the engine rejects them where unsupported.
func parseRunChoice(s string) (menu.Choice, error) {
	if c, ok := menu.ParseChoice(s, true); ok {
		return c, nil
	}
	if c, ok := menu.ParseName(s, true); ok {
		return c, nil
	}
	return 0, fmt.Errorf("unknown choice %q (valid: %s)", s, strings.Join(menu.Names(true), ", "))
}
