package config

import (
	"testing"
	"time"

	"github.com/tnxqso/rf2k-launcher/internal/bytesize"
)

func TestApplyDefaults_Logging(t *testing.T) {
	cfg := &Config{Logging: LoggingConfig{Level: "warn", Format: "JSON"}}
	ApplyDefaults(cfg)

	if cfg.Logging.Level != "WARN" {
		t.Errorf("Expected level normalized to 'WARN', got %q", cfg.Logging.Level)
	}
	if cfg.Logging.Format != "json" {
		t.Errorf("Expected format normalized to 'json', got %q", cfg.Logging.Format)
	}
	if cfg.Logging.Output != "launcher.log" {
		t.Errorf("Expected default output 'launcher.log', got %q", cfg.Logging.Output)
	}
}

func TestApplyDefaults_Engine(t *testing.T) {
	cfg := &Config{}
	ApplyDefaults(cfg)

	if cfg.Engine.Name != "rf2k-trainer" {
		t.Errorf("Expected engine name 'rf2k-trainer', got %q", cfg.Engine.Name)
	}
	if cfg.Engine.SourceEntry != "main.py" {
		t.Errorf("Expected source entry 'main.py', got %q", cfg.Engine.SourceEntry)
	}
	if len(cfg.Engine.Interpreters) == 0 {
		t.Error("Expected default interpreters")
	}
}

func TestApplyDefaults_PreservesExplicitValues(t *testing.T) {
	cfg := &Config{
		Engine: EngineConfig{Name: "trainer-dev", Interpreters: []string{"pypy3"}},
		Setup:  SetupConfig{ConfigFile: "station.yml"},
		Lock:   LockConfig{File: "custom.lock", AlreadyRunningPause: 5 * time.Second},
		Update: UpdateConfig{SentinelFile: "flag", ExitCode: 42, LogPath: "/tmp/u.log"},
		Logs:   LogsConfig{WarnSize: bytesize.GiB},
	}
	ApplyDefaults(cfg)

	if cfg.Engine.Name != "trainer-dev" || cfg.Engine.Interpreters[0] != "pypy3" {
		t.Errorf("Engine values were overwritten: %+v", cfg.Engine)
	}
	if cfg.Setup.ConfigFile != "station.yml" {
		t.Errorf("Expected config file 'station.yml', got %q", cfg.Setup.ConfigFile)
	}
	if cfg.Lock.File != "custom.lock" || cfg.Lock.AlreadyRunningPause != 5*time.Second {
		t.Errorf("Lock values were overwritten: %+v", cfg.Lock)
	}
	if cfg.Update.SentinelFile != "flag" || cfg.Update.ExitCode != 42 || cfg.Update.LogPath != "/tmp/u.log" {
		t.Errorf("Update values were overwritten: %+v", cfg.Update)
	}
	if cfg.Logs.WarnSize != bytesize.GiB {
		t.Errorf("Expected warn size 1Gi, got %v", cfg.Logs.WarnSize)
	}
}

func TestGetDefaultConfig_IsValid(t *testing.T) {
	if err := Validate(GetDefaultConfig()); err != nil {
		t.Errorf("Default config should be valid, got: %v", err)
	}
}

func TestGetDefaultConfig_HasRequiredFields(t *testing.T) {
	cfg := GetDefaultConfig()

	if cfg.Update.SentinelFile != "rf2k-update.flag" {
		t.Errorf("Expected sentinel 'rf2k-update.flag', got %q", cfg.Update.SentinelFile)
	}
	if cfg.Update.ExitCode != 111 {
		t.Errorf("Expected update exit code 111, got %d", cfg.Update.ExitCode)
	}
	if cfg.Update.LogPath == "" {
		t.Error("Expected an update log path")
	}
	if cfg.Setup.TemplateFile != "settings.example.yml" {
		t.Errorf("Expected template 'settings.example.yml', got %q", cfg.Setup.TemplateFile)
	}
	if !cfg.Setup.OfferEdit {
		t.Error("Expected offer_edit to default to true")
	}
	if cfg.Metrics.Enabled {
		t.Error("Expected metrics to be opt-in")
	}
	if cfg.Metrics.Textfile != "launcher.prom" {
		t.Errorf("Expected textfile 'launcher.prom', got %q", cfg.Metrics.Textfile)
	}
}
