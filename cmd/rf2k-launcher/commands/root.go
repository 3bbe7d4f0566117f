// Package commands implements the rf2k-launcher CLI.
package commands

import (
	"github.com/spf13/cobra"

	"github.com/tnxqso/rf2k-launcher/cmd/rf2k-launcher/cmdutil"
	configcmd "github.com/tnxqso/rf2k-launcher/cmd/rf2k-launcher/commands/config"
	"github.com/tnxqso/rf2k-launcher/pkg/controller"
)

var (
	// Version information injected at build time.
	Version = "dev"
	Commit  = "none"
	Date    = "unknown"
)

// rootCmd runs the interactive menu when called without a subcommand.
var rootCmd = &cobra.Command{
	Use:   "rf2k-launcher",
	Short: "RF2K-TRAINER launcher",
	Long: `rf2k-launcher starts the RF2K-TRAINER tuning engine from a numbered menu.

On start it picks a writable state directory (next to the launcher, or a
per-user directory when that is read-only), makes sure only one launcher runs
against it, creates settings.yml on first use and then shows the menu.

Use "rf2k-launcher [command] --help" for more information about a command.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	Args:          cobra.NoArgs,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		cmdutil.Flags.ConfigFile, _ = cmd.Flags().GetString("config")
		cmdutil.Flags.StateDir, _ = cmd.Flags().GetString("state-dir")
		cmdutil.Flags.LauncherDir, _ = cmd.Flags().GetString("launcher-dir")
		cmdutil.Flags.LogLevel, _ = cmd.Flags().GetString("log-level")
		cmdutil.Flags.Plain, _ = cmd.Flags().GetBool("plain")
	},
	RunE: runMenu,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() error {
	return rootCmd.Execute()
}

// GetRootCmd returns the root command for testing purposes.
func GetRootCmd() *cobra.Command {
	return rootCmd
}

func init() {
	rootCmd.PersistentFlags().String("config", "", "launcher config file (default: <state-dir>/launcher.yaml)")
	rootCmd.PersistentFlags().String("state-dir", "", "use this state directory instead of resolving one")
	rootCmd.PersistentFlags().String("launcher-dir", "", "directory the launcher is installed in (default: the executable's directory)")
	rootCmd.PersistentFlags().String("log-level", "", "log level override (DEBUG|INFO|WARN|ERROR)")
	rootCmd.PersistentFlags().Bool("plain", false, "use plain line prompts instead of interactive menus")

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(logsCmd)
	rootCmd.AddCommand(configcmd.Cmd)
	rootCmd.AddCommand(completionCmd)

	// Hide the default completion command (we provide our own)
	rootCmd.CompletionOptions.DisableDefaultCmd = true
}

func runMenu(cmd *cobra.Command, args []string) error {
	c, err := prepare(cmd)
	if err != nil {
		return &ExitError{Code: controller.ExitFatal, Err: err}
	}
	return exitCode(c.Run(cmd.Context()))
}

func prepare(cmd *cobra.Command) (*controller.Controller, error) {
	launcherDir, err := cmdutil.LauncherDir()
	if err != nil {
		return nil, err
	}
	return controller.Prepare(controller.Options{
		LauncherDir: launcherDir,
		StateDir:    cmdutil.Flags.StateDir,
		ConfigPath:  cmdutil.Flags.ConfigFile,
		LogLevel:    cmdutil.Flags.LogLevel,
		Plain:       cmdutil.Flags.Plain,
		In:          cmd.InOrStdin(),
		Out:         cmd.OutOrStdout(),
	})
}
