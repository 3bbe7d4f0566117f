package config

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

const configHeader = `# RF2K-TRAINER launcher configuration
#
# Every key is optional; missing keys take their defaults. Environment
# variables override this file, e.g. RF2K_LAUNCHER_LOGGING_LEVEL=DEBUG.
# Engine tuning settings are not configured here but in settings.yml.

`

// InitConfig writes a default launcher config to <stateDir>/launcher.yaml.
// An existing file is only replaced when force is true.
func InitConfig(stateDir string, force bool) (string, error) {
	path := ConfigPath(stateDir)
	return path, InitConfigToPath(path, force)
}

// InitConfigToPath writes a default launcher config to path.
func InitConfigToPath(path string, force bool) error {
	if !force {
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("configuration file already exists: %s\n\n"+
				"Use --force to overwrite it", path)
		}
	}

	data, err := GenerateDefault()
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// GenerateDefault renders the default configuration as commented YAML.
func GenerateDefault() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteString(configHeader)

	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(GetDefaultConfig()); err != nil {
		return nil, fmt.Errorf("failed to marshal default config: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("failed to marshal default config: %w", err)
	}
	return buf.Bytes(), nil
}
