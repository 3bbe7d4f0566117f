package config

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/tnxqso/rf2k-launcher/cmd/rf2k-launcher/cmdutil"
	"github.com/tnxqso/rf2k-launcher/internal/cli/output"
	"github.com/tnxqso/rf2k-launcher/pkg/settings"
)

var (
	showFormat   string
	showSettings bool
)

var showCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the effective configuration",
	Long: `Print the effective launcher configuration after defaults, launcher.yaml
and RF2K_LAUNCHER_* environment variables are applied.

With --settings, print settings.yml as the engine would read it.

Examples:
  rf2k-launcher config show
  rf2k-launcher config show -o json
  rf2k-launcher config show --settings`,
	Args: cobra.NoArgs,
	RunE: runShow,
}

func init() {
	showCmd.Flags().StringVarP(&showFormat, "output", "o", "yaml", "Output format (yaml|json)")
	showCmd.Flags().BoolVar(&showSettings, "settings", false, "Show settings.yml instead of the launcher config")
}

func runShow(cmd *cobra.Command, args []string) error {
	format, err := output.ParseFormat(showFormat)
	if err != nil {
		return err
	}
	if format == output.FormatTable {
		format = output.FormatYAML
	}

	cfg, state, _, err := cmdutil.LoadConfig()
	if err != nil {
		return err
	}

	if !showSettings {
		return output.Render(cmd.OutOrStdout(), format, cfg)
	}

	path := state.Join(cfg.Setup.ConfigFile)
	if _, err := os.Stat(path); err != nil {
		return fmt.Errorf("settings file not found: %s\n\nCreate it with:\n  rf2k-launcher init", path)
	}
	doc, err := settings.Load(path)
	if err != nil {
		return err
	}
	return output.Render(cmd.OutOrStdout(), format, doc)
}
