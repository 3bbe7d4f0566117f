package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/tnxqso/rf2k-launcher/cmd/rf2k-launcher/cmdutil"
	"github.com/tnxqso/rf2k-launcher/pkg/config"
	"github.com/tnxqso/rf2k-launcher/pkg/provision"
)

var (
	initForce bool
	initEdit  bool
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create settings.yml and launcher.yaml in the state directory",
	Long: `Prepare the state directory without starting the menu.

settings.yml is created from settings.example.yml next to the launcher when
present, otherwise from the built-in defaults. An existing settings.yml is
never touched. launcher.yaml is written with every default spelled out;
pass --force to replace an existing one.

Examples:
  # Prepare the state directory
  rf2k-launcher init

  # Prepare it and open settings.yml in an editor
  rf2k-launcher init --edit`,
	Args: cobra.NoArgs,
	RunE: runInit,
}

func init() {
	initCmd.Flags().BoolVarP(&initForce, "force", "f", false, "Overwrite an existing launcher.yaml")
	initCmd.Flags().BoolVar(&initEdit, "edit", false, "Open settings.yml in an editor afterwards")
}

func runInit(cmd *cobra.Command, args []string) error {
	cfg, state, launcherDir, err := cmdutil.LoadConfig()
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()

	p := provision.New()
	p.ConfigName = cfg.Setup.ConfigFile
	p.TemplateName = cfg.Setup.TemplateFile
	p.Out = out
	settingsFile, err := p.Ensure(state, launcherDir)
	if err != nil {
		return err
	}
	if !settingsFile.Created() {
		_, _ = fmt.Fprintf(out, "Using existing %s\n", settingsFile.Path)
	}

	path := cmdutil.ConfigPath(state)
	if _, statErr := os.Stat(path); statErr == nil && !initForce {
		_, _ = fmt.Fprintf(out, "Using existing %s\n", path)
	} else {
		if err := config.InitConfigToPath(path, initForce); err != nil {
			return err
		}
		_, _ = fmt.Fprintf(out, "Wrote %s\n", path)
	}

	if initEdit {
		return provision.Edit(cfg.Setup.Editor, settingsFile.Path)
	}
	return nil
}
