package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/tnxqso/rf2k-launcher/cmd/rf2k-launcher/cmdutil"
	"github.com/tnxqso/rf2k-launcher/internal/cli/output"
	"github.com/tnxqso/rf2k-launcher/pkg/settings"
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate launcher.yaml and settings.yml",
	Long: `Load and validate both configuration files.

launcher.yaml errors and settings.yml errors are fatal. Settings warnings
(for example a rigctl radio without a model number) are printed but do not
fail validation.

Examples:
  rf2k-launcher config validate
  rf2k-launcher config validate --state-dir D:\RF2K`,
	Args: cobra.NoArgs,
	RunE: runValidate,
}

func runValidate(cmd *cobra.Command, args []string) error {
	p := output.NewPrinter(cmd.OutOrStdout(), false)

	cfg, state, _, err := cmdutil.LoadConfig()
	if err != nil {
		return err
	}
	p.Success(fmt.Sprintf("Launcher configuration is valid (%s)", cmdutil.ConfigPath(state)))

	path := state.Join(cfg.Setup.ConfigFile)
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		p.Notice(fmt.Sprintf("%s does not exist yet; it is created on next start", path))
		return nil
	}

	doc, err := settings.Load(path)
	if err != nil {
		return err
	}
	if err := settings.Validate(doc); err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	p.Success(fmt.Sprintf("Settings are valid (%s, %d bands enabled)", path, len(doc.EnabledBands())))

	for _, w := range settings.Warnings(doc) {
		p.Warning(w)
	}
	return nil
}
