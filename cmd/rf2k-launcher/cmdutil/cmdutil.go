// Package cmdutil holds state shared by the launcher's subcommands.
package cmdutil

import (
	"fmt"

	"github.com/tnxqso/rf2k-launcher/pkg/config"
	"github.com/tnxqso/rf2k-launcher/pkg/statedir"
)

// GlobalFlags mirrors the root command's persistent flags.
type GlobalFlags struct {
	ConfigFile  string
	StateDir    string
	LauncherDir string
	LogLevel    string
	Plain       bool
}

// Flags is populated by the root command before any subcommand runs.
var Flags GlobalFlags

// LauncherDir returns --launcher-dir or the executable's directory.
func LauncherDir() (string, error) {
	if Flags.LauncherDir != "" {
		return Flags.LauncherDir, nil
	}
	return statedir.LauncherDir()
}

// ResolveState resolves the state directory honoring --state-dir.
func ResolveState() (statedir.StateDirectory, string, error) {
	launcherDir, err := LauncherDir()
	if err != nil {
		return statedir.StateDirectory{}, "", err
	}

	resolver := statedir.NewResolver()
	resolver.Explicit = Flags.StateDir
	state, err := resolver.Resolve(launcherDir)
	if err != nil {
		return statedir.StateDirectory{}, "", err
	}
	return state, launcherDir, nil
}

// LoadConfig resolves the state directory and loads the launcher config.
func LoadConfig() (*config.Config, statedir.StateDirectory, string, error) {
	state, launcherDir, err := ResolveState()
	if err != nil {
		return nil, statedir.StateDirectory{}, "", err
	}
	if _, err := config.LoadEnvFile(state.Path); err != nil {
		return nil, statedir.StateDirectory{}, "", err
	}
	cfg, err := config.Load(state.Path, Flags.ConfigFile)
	if err != nil {
		return nil, statedir.StateDirectory{}, "", fmt.Errorf("failed to load configuration: %w", err)
	}
	return cfg, state, launcherDir, nil
}

// ConfigPath returns --config or the default launcher.yaml in state.
func ConfigPath(state statedir.StateDirectory) string {
	if Flags.ConfigFile != "" {
		return Flags.ConfigFile
	}
	return config.ConfigPath(state.Path)
}
