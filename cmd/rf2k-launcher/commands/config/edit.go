package config

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/tnxqso/rf2k-launcher/cmd/rf2k-launcher/cmdutil"
	"github.com/tnxqso/rf2k-launcher/pkg/provision"
)

var editLauncher bool

var editCmd = &cobra.Command{
	Use:   "edit",
	Short: "Open settings.yml in an editor",
	Long: `Open settings.yml (or launcher.yaml with --launcher) in an editor.

The editor is setup.editor from launcher.yaml, then $VISUAL, then $EDITOR,
falling back to notepad on Windows and vi elsewhere.

Examples:
  rf2k-launcher config edit
  rf2k-launcher config edit --launcher`,
	Args: cobra.NoArgs,
	RunE: runConfigEdit,
}

func init() {
	editCmd.Flags().BoolVar(&editLauncher, "launcher", false, "Edit launcher.yaml instead of settings.yml")
}

func runConfigEdit(cmd *cobra.Command, args []string) error {
	cfg, state, _, err := cmdutil.LoadConfig()
	if err != nil {
		return err
	}

	path := state.Join(cfg.Setup.ConfigFile)
	if editLauncher {
		path = cmdutil.ConfigPath(state)
	}

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return fmt.Errorf("configuration file not found: %s\n\n"+
			"Create it first with:\n"+
			"  rf2k-launcher init", path)
	}

	return provision.Edit(cfg.Setup.Editor, path)
}
