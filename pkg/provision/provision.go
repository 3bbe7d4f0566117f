// Package provision makes sure the state directory holds what the engine
// needs before the first run: a logs directory and a settings file.
package provision

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/tnxqso/rf2k-launcher/internal/logger"
	"github.com/tnxqso/rf2k-launcher/pkg/settings"
	"github.com/tnxqso/rf2k-launcher/pkg/statedir"
)

const (
	// DefaultConfigName is the settings file the engine reads.
	DefaultConfigName = "settings.yml"

	// DefaultTemplateName is the example settings file shipped next to the launcher.
	DefaultTemplateName = "settings.example.yml"
)

// Origin records where the settings file came from.
type Origin string

const (
	OriginExisting Origin = "existing"
	OriginTemplate Origin = "template"
	OriginDefaults Origin = "defaults"
)

// ConfigFile describes the provisioned settings file.
type ConfigFile struct {
	Path    string
	Existed bool
	Origin  Origin
}

// Created reports whether Ensure wrote the file during this run.
func (c ConfigFile) Created() bool {
	return !c.Existed
}

// Confirmer asks a yes/no question.
type Confirmer interface {
	Confirm(label string, defaultYes bool) (bool, error)
}

// Provisioner creates the logs directory and an initial settings file.
type Provisioner struct {
	ConfigName   string
	TemplateName string

	// Editor overrides $VISUAL/$EDITOR for OfferEdit.
	Editor string

	// Confirm is asked before opening the editor. OfferEdit is a no-op when nil.
	Confirm Confirmer

	// Out receives progress messages.
	Out io.Writer

	// runEditor is replaceable in tests.
	runEditor func(editor []string, path string) error
}

// New returns a Provisioner with the default file names.
func New() *Provisioner {
	return &Provisioner{
		ConfigName:   DefaultConfigName,
		TemplateName: DefaultTemplateName,
		Out:          io.Discard,
	}
}

// Ensure creates <state>/logs and, when absent, the settings file. An
// existing settings file is never modified.
func (p *Provisioner) Ensure(state statedir.StateDirectory, launcherDir string) (ConfigFile, error) {
	logsDir := state.LogsDir()
	if err := os.MkdirAll(logsDir, 0755); err != nil {
		return ConfigFile{}, fmt.Errorf("failed to create logs directory %s: %w", logsDir, err)
	}

	cfg := ConfigFile{Path: state.Join(p.configName())}

	if _, err := os.Stat(cfg.Path); err == nil {
		cfg.Existed = true
		cfg.Origin = OriginExisting
		logger.Debug("settings file present", logger.KeyPath, cfg.Path)
		return cfg, nil
	} else if !errors.Is(err, os.ErrNotExist) {
		return ConfigFile{}, fmt.Errorf("failed to stat settings file: %w", err)
	}

	content, origin, err := p.initialContent(launcherDir)
	if err != nil {
		return ConfigFile{}, err
	}

	// O_EXCL keeps a concurrently created file intact.
	f, err := os.OpenFile(cfg.Path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0644)
	if err != nil {
		if errors.Is(err, os.ErrExist) {
			cfg.Existed = true
			cfg.Origin = OriginExisting
			return cfg, nil
		}
		return ConfigFile{}, fmt.Errorf("failed to create settings file: %w", err)
	}
	if _, err := f.Write(content); err != nil {
		_ = f.Close()
		_ = os.Remove(cfg.Path)
		return ConfigFile{}, fmt.Errorf("failed to write settings file: %w", err)
	}
	if err := f.Close(); err != nil {
		return ConfigFile{}, fmt.Errorf("failed to write settings file: %w", err)
	}

	cfg.Origin = origin
	logger.Info("settings file created", logger.KeyPath, cfg.Path, logger.KeyOrigin, string(origin))
	_, _ = fmt.Fprintf(p.out(), "Created %s (from %s)\n", cfg.Path, origin)
	return cfg, nil
}

func (p *Provisioner) initialContent(launcherDir string) ([]byte, Origin, error) {
	if launcherDir != "" && p.templateName() != "" {
		tmpl := filepath.Join(launcherDir, p.templateName())
		data, err := os.ReadFile(tmpl)
		switch {
		case err == nil:
			return data, OriginTemplate, nil
		case !errors.Is(err, os.ErrNotExist):
			return nil, "", fmt.Errorf("failed to read settings template %s: %w", tmpl, err)
		}
	}
	return settings.DefaultDocument, OriginDefaults, nil
}

func (p *Provisioner) configName() string {
	if p.ConfigName == "" {
		return DefaultConfigName
	}
	return p.ConfigName
}

func (p *Provisioner) templateName() string {
	return p.TemplateName
}

func (p *Provisioner) out() io.Writer {
	if p.Out == nil {
		return io.Discard
	}
	return p.Out
}
