package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// Validate checks the configuration for invalid values.
// Log level is normalized to uppercase before checking.
func Validate(cfg *Config) error {
	cfg.Logging.Level = strings.ToUpper(cfg.Logging.Level)

	if err := validate.Struct(cfg); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			msgs := make([]string, 0, len(verrs))
			for _, fe := range verrs {
				msgs = append(msgs, fmt.Sprintf("%s: failed '%s' (value %v)", fe.Namespace(), fe.Tag(), fe.Value()))
			}
			return fmt.Errorf("%s", strings.Join(msgs, "; "))
		}
		return err
	}

	if strings.ContainsAny(cfg.Setup.ConfigFile, `/\`) && !filepath.IsAbs(cfg.Setup.ConfigFile) {
		return fmt.Errorf("setup.config_file must be a file name or an absolute path, got %q", cfg.Setup.ConfigFile)
	}

	return nil
}
