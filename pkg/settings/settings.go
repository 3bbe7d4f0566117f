// Package settings models the engine's settings document (settings.yml).
//
// The launcher does not interpret tuning semantics; it only loads the
// document to show it, check its structure and generate a JSON schema.
package settings

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Radio backend types understood by the engine.
const (
	RadioFlex   = "flex"
	RadioRigctl = "rigctl"
)

// Document is the engine settings file.
type Document struct {
	// Defaults holds operating defaults applied to every band.
	Defaults Defaults `json:"defaults" yaml:"defaults"`

	// Radio holds the transceiver connection parameters.
	Radio Radio `json:"radio" yaml:"radio"`

	// Amplifier holds the RF2K-S amplifier connection parameters.
	Amplifier Amplifier `json:"rf2k_s" yaml:"rf2k_s"`

	// Bands holds per-band settings keyed by band name ("20m", "160m").
	Bands map[string]Band `json:"bands" yaml:"bands" validate:"required,min=1,dive"`
}

// Defaults are operating defaults.
type Defaults struct {
	IARURegion        int     `json:"iaru_region" yaml:"iaru_region" validate:"oneof=1 2 3"`
	DrivePower        int     `json:"drive_power" yaml:"drive_power" validate:"gte=1,lte=100"`
	RestoreState      *bool   `json:"restore_state,omitempty" yaml:"restore_state,omitempty"`
	UseBeep           *bool   `json:"use_beep,omitempty" yaml:"use_beep,omitempty"`
	UseColorStatus    *bool   `json:"use_color_status,omitempty" yaml:"use_color_status,omitempty"`
	GuidanceMode      string  `json:"guidance_mode,omitempty" yaml:"guidance_mode,omitempty"`
	AutoSetCWMode     *bool   `json:"auto_set_cw_mode,omitempty" yaml:"auto_set_cw_mode,omitempty"`
	ForceManualPTT    *bool   `json:"force_manual_ptt,omitempty" yaml:"force_manual_ptt,omitempty"`
	WaitTXTimeoutS    float64 `json:"wait_tx_timeout_s,omitempty" yaml:"wait_tx_timeout_s,omitempty" validate:"gte=0"`
	WaitUnkeyTimeoutS float64 `json:"wait_unkey_timeout_s,omitempty" yaml:"wait_unkey_timeout_s,omitempty" validate:"gte=0"`
	WaitStepS         float64 `json:"wait_step_s,omitempty" yaml:"wait_step_s,omitempty" validate:"gte=0"`
	CATSettleS        float64 `json:"cat_settle_s,omitempty" yaml:"cat_settle_s,omitempty" validate:"gte=0"`
}

// Radio holds the radio connection parameters. Type is matched
// case-insensitively and defaults to flex. The engine accepts model and
// rigctld_serial_port as alternate spellings.
type Radio struct {
	Type              string `json:"type,omitempty" yaml:"type,omitempty"`
	Host              string `json:"host" yaml:"host" validate:"required,hostname_rfc1123|ip"`
	Port              int    `json:"port,omitempty" yaml:"port,omitempty" validate:"omitempty,min=1,max=65535"`
	AutoStartRigctld  bool   `json:"auto_start_rigctld,omitempty" yaml:"auto_start_rigctld,omitempty"`
	Model             int    `json:"model,omitempty" yaml:"model,omitempty" validate:"gte=0"`
	RigctldModel      int    `json:"rigctld_model,omitempty" yaml:"rigctld_model,omitempty" validate:"gte=0"`
	SerialPort        string `json:"serial_port,omitempty" yaml:"serial_port,omitempty"`
	RigctldSerialPort string `json:"rigctld_serial_port,omitempty" yaml:"rigctld_serial_port,omitempty"`
	RigctldPath       string `json:"rigctld_path,omitempty" yaml:"rigctld_path,omitempty"`
}

// Backend returns the normalized radio type.
func (r Radio) Backend() string {
	if t := strings.ToLower(strings.TrimSpace(r.Type)); t != "" {
		return t
	}
	return RadioFlex
}

// HamlibModel returns model, falling back to rigctld_model.
func (r Radio) HamlibModel() int {
	if r.Model != 0 {
		return r.Model
	}
	return r.RigctldModel
}

// Serial returns serial_port, falling back to rigctld_serial_port.
func (r Radio) Serial() string {
	if r.SerialPort != "" {
		return r.SerialPort
	}
	return r.RigctldSerialPort
}

// Amplifier holds the RF2K-S REST endpoint.
type Amplifier struct {
	Enabled bool   `json:"enabled" yaml:"enabled"`
	Host    string `json:"host,omitempty" yaml:"host,omitempty" validate:"omitempty,hostname_rfc1123|ip"`
	Port    int    `json:"port,omitempty" yaml:"port,omitempty" validate:"omitempty,min=1,max=65535"`
}

// Band holds per-band settings. Frequencies are in kHz.
type Band struct {
	Enabled    bool    `json:"enabled" yaml:"enabled"`
	DrivePower int     `json:"drive_power,omitempty" yaml:"drive_power,omitempty" validate:"omitempty,gte=1,lte=100"`
	BandStart  float64 `json:"band_start,omitempty" yaml:"band_start,omitempty" validate:"omitempty,gte=0,lte=60000"`
	BandEnd    float64 `json:"band_end,omitempty" yaml:"band_end,omitempty" validate:"omitempty,gte=0,lte=60000"`
}

// EnabledBands returns the names of enabled bands.
func (d *Document) EnabledBands() []string {
	var names []string
	for name, b := range d.Bands {
		if b.Enabled {
			names = append(names, name)
		}
	}
	return names
}

// Parse decodes a settings document. Unknown keys are rejected so typos
// surface before the engine runs.
func Parse(data []byte) (*Document, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	var doc Document
	if err := dec.Decode(&doc); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("settings document is empty")
		}
		return nil, fmt.Errorf("failed to parse settings: %w", err)
	}
	return &doc, nil
}

// Load reads and parses the settings file at path.
func Load(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("settings file not found: %s\n\n"+
				"Run the launcher once or create it with:\n"+
				"  rf2k-launcher init", path)
		}
		return nil, fmt.Errorf("failed to read settings file: %w", err)
	}
	return Parse(data)
}
