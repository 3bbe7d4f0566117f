package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/mitchellh/mapstructure"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/tnxqso/rf2k-launcher/internal/bytesize"
)

const (
	// DefaultConfigName is the launcher's own config file in the state directory.
	DefaultConfigName = "launcher.yaml"

	// EnvFileName is an optional dotenv file in the state directory whose
	// variables seed the RF2K_LAUNCHER_* environment.
	EnvFileName = "launcher.env"

	// EnvPrefix prefixes environment overrides, e.g. RF2K_LAUNCHER_LOGGING_LEVEL.
	EnvPrefix = "RF2K_LAUNCHER"
)

// Config represents the launcher configuration.
//
// It controls how the launcher finds and runs the engine; the engine's own
// settings live in settings.yml and are not part of this structure.
//
// Configuration sources (in order of precedence):
//  1. CLI flags (highest priority)
//  2. Environment variables (RF2K_LAUNCHER_*), optionally seeded from launcher.env
//  3. Configuration file (launcher.yaml in the state directory, or --config)
//  4. Default values (lowest priority)
type Config struct {
	// Logging controls log output behavior
	Logging LoggingConfig `mapstructure:"logging" yaml:"logging"`

	// Engine locates the engine executable or source entry point
	Engine EngineConfig `mapstructure:"engine" yaml:"engine"`

	// Setup controls first-run provisioning of settings.yml
	Setup SetupConfig `mapstructure:"setup" yaml:"setup"`

	// Lock controls the single-instance guard
	Lock LockConfig `mapstructure:"lock" yaml:"lock"`

	// Update controls detection of the engine's self-update handoff
	Update UpdateConfig `mapstructure:"update" yaml:"update"`

	// Logs controls engine log housekeeping hints
	Logs LogsConfig `mapstructure:"logs" yaml:"logs"`

	// Metrics controls the run counters textfile
	Metrics MetricsConfig `mapstructure:"metrics" yaml:"metrics"`
}

// LoggingConfig controls logging behavior.
type LoggingConfig struct {
	// Level is the minimum log level to output
	// Valid values: DEBUG, INFO, WARN, ERROR (case-insensitive, normalized to uppercase)
	Level string `mapstructure:"level" validate:"required,oneof=DEBUG INFO WARN ERROR debug info warn error" yaml:"level"`

	// Format specifies the log output format
	// Valid values: text, json
	Format string `mapstructure:"format" validate:"required,oneof=text json" yaml:"format"`

	// Output specifies where logs are written: stdout, stderr, or a file path.
	// Relative paths resolve against the state directory.
	// Default: launcher.log
	Output string `mapstructure:"output" validate:"required" yaml:"output"`
}

// EngineConfig locates the engine.
type EngineConfig struct {
	// Path pins the engine executable. Tried before any other location.
	Path string `mapstructure:"path" yaml:"path,omitempty"`

	// Name is the engine executable's base name (".exe" is added on Windows).
	// Default: rf2k-trainer
	Name string `mapstructure:"name" validate:"required" yaml:"name"`

	// InstallDir is the per-user install location of the engine.
	// Default: %LOCALAPPDATA%\Programs\RF2K-TRAINER on Windows, unset elsewhere
	InstallDir string `mapstructure:"install_dir" yaml:"install_dir,omitempty"`

	// SourceEntry is the engine script run when no executable is found.
	// Default: main.py
	SourceEntry string `mapstructure:"source_entry" yaml:"source_entry,omitempty"`

	// Interpreters are tried in order to run SourceEntry.
	// Default: [py, python] on Windows, [python3, python] elsewhere
	Interpreters []string `mapstructure:"interpreters" yaml:"interpreters,omitempty"`
}

// SetupConfig controls first-run provisioning.
type SetupConfig struct {
	// ConfigFile is the engine settings file name in the state directory.
	// Default: settings.yml
	ConfigFile string `mapstructure:"config_file" validate:"required" yaml:"config_file"`

	// TemplateFile is copied from the launcher directory when ConfigFile is missing.
	// Default: settings.example.yml
	TemplateFile string `mapstructure:"template_file" yaml:"template_file"`

	// OfferEdit asks to open a newly created settings file in an editor.
	// Default: true
	OfferEdit bool `mapstructure:"offer_edit" yaml:"offer_edit"`

	// Editor overrides $VISUAL and $EDITOR.
	Editor string `mapstructure:"editor" yaml:"editor,omitempty"`
}

// LockConfig controls the single-instance guard.
type LockConfig struct {
	// File is the lock file name in the state directory.
	// Default: rf2k-launcher.lock
	File string `mapstructure:"file" validate:"required" yaml:"file"`

	// AlreadyRunningPause keeps the "already running" notice on screen
	// before exiting, so it is readable when launched from a shortcut.
	// Default: 2s
	AlreadyRunningPause time.Duration `mapstructure:"already_running_pause" validate:"gte=0" yaml:"already_running_pause"`
}

// UpdateConfig controls update handoff detection.
type UpdateConfig struct {
	// Supported shows the "check for updates" menu entry.
	// Default: true on Windows, where the engine ships its updater
	Supported bool `mapstructure:"supported" yaml:"supported"`

	// SentinelFile is dropped in the state directory by the updater.
	// Default: rf2k-update.flag
	SentinelFile string `mapstructure:"sentinel_file" validate:"required" yaml:"sentinel_file"`

	// ExitCode is the engine exit code that signals a handoff. 0 disables it.
	// Default: 111
	ExitCode int `mapstructure:"exit_code" validate:"gte=0,lte=255" yaml:"exit_code"`

	// LogPath is where the updater logs its progress.
	// Default: <temp>/RF2K-TRAINER_update.log
	LogPath string `mapstructure:"log_path" yaml:"log_path"`
}

// LogsConfig controls engine log housekeeping hints.
type LogsConfig struct {
	// WarnSize suggests "clear logs" once the engine's logs exceed it.
	// Supports human-readable formats: "50MB", "1Gi".
	// Default: 50MB
	WarnSize bytesize.ByteSize `mapstructure:"warn_size" yaml:"warn_size"`
}

// MetricsConfig controls the run counters textfile.
// When Enabled is false, nothing is collected or written.
type MetricsConfig struct {
	// Enabled controls whether run counters are written after a session
	Enabled bool `mapstructure:"enabled" yaml:"enabled"`

	// Textfile is the Prometheus text-format output, relative to the state directory.
	// Default: launcher.prom
	Textfile string `mapstructure:"textfile" validate:"required_if=Enabled true" yaml:"textfile"`
}

// Load loads configuration from file, environment, and defaults.
//
// Parameters:
//   - stateDir: State directory; relative paths and the default file resolve against it
//   - configPath: Path to config file (empty string uses <stateDir>/launcher.yaml)
//
// A missing config file is not an error: defaults and environment apply.
func Load(stateDir, configPath string) (*Config, error) {
	v := viper.New()

	setupViper(v, stateDir, configPath)
	registerDefaults(v)

	if _, err := readConfigFile(v); err != nil {
		return nil, err
	}

	var cfg Config
	if err := v.Unmarshal(&cfg, viper.DecodeHook(configDecodeHooks())); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	ApplyDefaults(&cfg)

	if err := Validate(&cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return &cfg, nil
}

// LoadEnvFile loads <stateDir>/launcher.env into the process environment.
// Variables already set are kept. Returns false when the file is absent.
func LoadEnvFile(stateDir string) (bool, error) {
	path := filepath.Join(stateDir, EnvFileName)
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return false, nil
		}
		return false, fmt.Errorf("failed to stat %s: %w", path, err)
	}
	if err := godotenv.Load(path); err != nil {
		return false, fmt.Errorf("failed to load %s: %w", path, err)
	}
	return true, nil
}

// SaveConfig saves the configuration to the specified file path in YAML.
func SaveConfig(cfg *Config, path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// setupViper configures viper with environment variables and config file settings.
func setupViper(v *viper.Viper, stateDir, configPath string) {
	// Example: RF2K_LAUNCHER_LOGGING_LEVEL=DEBUG
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if configPath == "" {
		configPath = ConfigPath(stateDir)
	}
	v.SetConfigFile(configPath)
}

// registerDefaults makes every key known to viper so AutomaticEnv can
// override keys that the config file does not mention.
func registerDefaults(v *viper.Viper) {
	def := GetDefaultConfig()

	v.SetDefault("logging.level", def.Logging.Level)
	v.SetDefault("logging.format", def.Logging.Format)
	v.SetDefault("logging.output", def.Logging.Output)

	v.SetDefault("engine.path", def.Engine.Path)
	v.SetDefault("engine.name", def.Engine.Name)
	v.SetDefault("engine.install_dir", def.Engine.InstallDir)
	v.SetDefault("engine.source_entry", def.Engine.SourceEntry)
	v.SetDefault("engine.interpreters", def.Engine.Interpreters)

	v.SetDefault("setup.config_file", def.Setup.ConfigFile)
	v.SetDefault("setup.template_file", def.Setup.TemplateFile)
	v.SetDefault("setup.offer_edit", def.Setup.OfferEdit)
	v.SetDefault("setup.editor", def.Setup.Editor)

	v.SetDefault("lock.file", def.Lock.File)
	v.SetDefault("lock.already_running_pause", def.Lock.AlreadyRunningPause)

	v.SetDefault("update.supported", def.Update.Supported)
	v.SetDefault("update.sentinel_file", def.Update.SentinelFile)
	v.SetDefault("update.exit_code", def.Update.ExitCode)
	v.SetDefault("update.log_path", def.Update.LogPath)

	v.SetDefault("logs.warn_size", int64(def.Logs.WarnSize))

	v.SetDefault("metrics.enabled", def.Metrics.Enabled)
	v.SetDefault("metrics.textfile", def.Metrics.Textfile)
}

// readConfigFile reads the configuration file if it exists.
// Returns (fileFound, error) where fileFound indicates if a config file was found.
func readConfigFile(v *viper.Viper) (bool, error) {
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			return false, nil
		}
		// An explicit config file that does not exist surfaces as a PathError.
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, fmt.Errorf("failed to read config file: %w", err)
	}

	return true, nil
}

// configDecodeHooks returns a combined decode hook for all custom types.
func configDecodeHooks() mapstructure.DecodeHookFunc {
	return mapstructure.ComposeDecodeHookFunc(
		byteSizeDecodeHook(),
		durationDecodeHook(),
		mapstructure.StringToSliceHookFunc(","),
	)
}

// byteSizeDecodeHook converts strings and integers to bytesize.ByteSize, so
// config files can use sizes like "50MB", "1Gi" or plain numbers.
func byteSizeDecodeHook() mapstructure.DecodeHookFunc {
	return func(from reflect.Type, to reflect.Type, data interface{}) (interface{}, error) {
		if to != reflect.TypeOf(bytesize.ByteSize(0)) {
			return data, nil
		}

		switch v := data.(type) {
		case string:
			return bytesize.ParseByteSize(v)
		case int:
			return bytesize.ByteSize(v), nil
		case int64:
			return bytesize.ByteSize(v), nil
		case uint64:
			return bytesize.ByteSize(v), nil
		case float64:
			// YAML often deserializes numbers as float64
			return bytesize.ByteSize(v), nil
		default:
			return data, nil
		}
	}
}

// durationDecodeHook converts strings like "2s" or "500ms" to time.Duration.
func durationDecodeHook() mapstructure.DecodeHookFunc {
	return func(from reflect.Type, to reflect.Type, data interface{}) (interface{}, error) {
		if to != reflect.TypeOf(time.Duration(0)) {
			return data, nil
		}

		switch v := data.(type) {
		case string:
			return time.ParseDuration(v)
		case int:
			// Assume nanoseconds for raw integers
			return time.Duration(v), nil
		case int64:
			return time.Duration(v), nil
		case float64:
			return time.Duration(v), nil
		default:
			return data, nil
		}
	}
}

// ConfigPath returns the default launcher config path for stateDir.
func ConfigPath(stateDir string) string {
	return filepath.Join(stateDir, DefaultConfigName)
}

// ConfigExists checks if a launcher config file exists in stateDir.
func ConfigExists(stateDir string) bool {
	_, err := os.Stat(ConfigPath(stateDir))
	return err == nil
}
