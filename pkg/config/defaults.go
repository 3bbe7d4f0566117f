package config

import (
	"runtime"
	"strings"
	"time"

	"github.com/tnxqso/rf2k-launcher/internal/bytesize"
	"github.com/tnxqso/rf2k-launcher/pkg/engine"
	"github.com/tnxqso/rf2k-launcher/pkg/handoff"
	"github.com/tnxqso/rf2k-launcher/pkg/instancelock"
	"github.com/tnxqso/rf2k-launcher/pkg/provision"
)

// ApplyDefaults sets default values for any unspecified configuration fields.
//
// Zero values ("", 0, nil) are replaced with defaults; explicit values are
// preserved. Booleans defaulting to true are handled by GetDefaultConfig and
// the viper defaults, since false cannot be told apart from unset here.
func ApplyDefaults(cfg *Config) {
	applyLoggingDefaults(&cfg.Logging)
	applyEngineDefaults(&cfg.Engine)
	applySetupDefaults(&cfg.Setup)
	applyLockDefaults(&cfg.Lock)
	applyUpdateDefaults(&cfg.Update)
	applyLogsDefaults(&cfg.Logs)
	applyMetricsDefaults(&cfg.Metrics)
}

// applyLoggingDefaults sets logging defaults and normalizes values.
func applyLoggingDefaults(cfg *LoggingConfig) {
	if cfg.Level == "" {
		cfg.Level = "INFO"
	}
	cfg.Level = strings.ToUpper(cfg.Level)

	if cfg.Format == "" {
		cfg.Format = "text"
	}
	cfg.Format = strings.ToLower(cfg.Format)

	// A file keeps log lines off the interactive menu.
	if cfg.Output == "" {
		cfg.Output = "launcher.log"
	}
}

func applyEngineDefaults(cfg *EngineConfig) {
	if cfg.Name == "" {
		cfg.Name = "rf2k-trainer"
	}
	if cfg.InstallDir == "" {
		cfg.InstallDir = engine.DefaultInstallDir()
	}
	if cfg.SourceEntry == "" {
		cfg.SourceEntry = "main.py"
	}
	if len(cfg.Interpreters) == 0 {
		cfg.Interpreters = engine.DefaultInterpreters()
	}
}

func applySetupDefaults(cfg *SetupConfig) {
	if cfg.ConfigFile == "" {
		cfg.ConfigFile = provision.DefaultConfigName
	}
	if cfg.TemplateFile == "" {
		cfg.TemplateFile = provision.DefaultTemplateName
	}
}

func applyLockDefaults(cfg *LockConfig) {
	if cfg.File == "" {
		cfg.File = instancelock.DefaultFileName
	}
	if cfg.AlreadyRunningPause == 0 {
		cfg.AlreadyRunningPause = 2 * time.Second
	}
}

func applyUpdateDefaults(cfg *UpdateConfig) {
	if cfg.SentinelFile == "" {
		cfg.SentinelFile = handoff.DefaultSentinelName
	}
	if cfg.LogPath == "" {
		cfg.LogPath = handoff.DefaultUpdateLog()
	}
	// ExitCode 0 is a valid explicit choice (disables the exit-code signal),
	// so its default comes from GetDefaultConfig.
}

func applyLogsDefaults(cfg *LogsConfig) {
	if cfg.WarnSize == 0 {
		cfg.WarnSize = 50 * bytesize.MB
	}
}

func applyMetricsDefaults(cfg *MetricsConfig) {
	if cfg.Textfile == "" {
		cfg.Textfile = "launcher.prom"
	}
}

// GetDefaultConfig returns a Config struct with all default values applied.
//
// This is useful for:
//   - Generating sample configuration files
//   - Seeding viper defaults
//   - Testing
func GetDefaultConfig() *Config {
	cfg := &Config{
		Setup: SetupConfig{
			OfferEdit: true,
		},
		Update: UpdateConfig{
			Supported: runtime.GOOS == "windows",
			ExitCode:  handoff.DefaultExitCode,
		},
	}

	ApplyDefaults(cfg)
	return cfg
}
