package settings

import (
	"os"
	"path/filepath"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const validDoc = `
defaults:
  iaru_region: 1
  drive_power: 13
radio:
  type: rigctl
  host: localhost
  port: 4532
  rigctld_model: 1
rf2k_s:
  enabled: true
  host: 192.168.1.100
  port: 8080
bands:
  20m:
    enabled: true
  40m:
    enabled: false
    drive_power: 20
`

func TestParseAndValidate(t *testing.T) {
	doc, err := Parse([]byte(validDoc))
	require.NoError(t, err)
	require.NoError(t, Validate(doc))

	assert.Equal(t, RadioRigctl, doc.Radio.Type)
	assert.Equal(t, 8080, doc.Amplifier.Port)
	assert.Equal(t, 20, doc.Bands["40m"].DrivePower)
	assert.Equal(t, []string{"20m"}, doc.EnabledBands())
	assert.Empty(t, Warnings(doc))
}

func TestParse_RejectsUnknownKeys(t *testing.T) {
	_, err := Parse([]byte("defaults:\n  iaru_regoin: 1\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "iaru_regoin")
}

func TestParse_Empty(t *testing.T) {
	_, err := Parse(nil)
	assert.ErrorContains(t, err, "empty")
}

func TestValidate_Errors(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Document)
		want   string
	}{
		{name: "unknown radio type", mutate: func(d *Document) { d.Radio.Type = "icom" }, want: "radio.type"},
		{name: "port out of range", mutate: func(d *Document) { d.Radio.Port = 70000 }, want: "max"},
		{name: "bad region", mutate: func(d *Document) { d.Defaults.IARURegion = 4 }, want: "IARURegion"},
		{name: "amplifier without host", mutate: func(d *Document) { d.Amplifier.Host = "" }, want: "rf2k_s.host"},
		{name: "no bands", mutate: func(d *Document) { d.Bands = nil }, want: "Bands"},
		{name: "inverted band edges", mutate: func(d *Document) {
			d.Bands["20m"] = Band{Enabled: true, BandStart: 14350, BandEnd: 14000}
		}, want: "band_end"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc, err := Parse([]byte(validDoc))
			require.NoError(t, err)
			tt.mutate(doc)

			err = Validate(doc)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestWarnings(t *testing.T) {
	doc, err := Parse([]byte(validDoc))
	require.NoError(t, err)

	doc.Radio.RigctldModel = 0
	doc.Amplifier.Enabled = false
	doc.Bands = map[string]Band{"20m": {Enabled: false}}

	warnings := Warnings(doc)
	assert.Len(t, warnings, 3)
	assert.True(t, sort.StringsAreSorted(warnings))
}

const engineAliasDoc = `
defaults:
  iaru_region: 1
  drive_power: 13
radio:
  type: Rigctl
  host: 127.0.0.1
  auto_start_rigctld: true
  model: 2014
  rigctld_serial_port: COM3
rf2k_s:
  enabled: true
  host: 192.168.1.100
bands:
  20m:
    enabled: true
`

func TestParse_EngineRadioAliases(t *testing.T) {
	doc, err := Parse([]byte(engineAliasDoc))
	require.NoError(t, err)
	require.NoError(t, Validate(doc))

	assert.Equal(t, RadioRigctl, doc.Radio.Backend())
	assert.Equal(t, 2014, doc.Radio.HamlibModel())
	assert.Equal(t, "COM3", doc.Radio.Serial())
	assert.Empty(t, Warnings(doc))
}

func TestRadioFallbacks(t *testing.T) {
	tests := []struct {
		name        string
		radio       Radio
		wantBackend string
		wantModel   int
		wantSerial  string
	}{
		{name: "missing type", radio: Radio{}, wantBackend: RadioFlex},
		{name: "upper case", radio: Radio{Type: " FLEX "}, wantBackend: RadioFlex},
		{name: "model wins", radio: Radio{Type: "rigctl", Model: 2014, RigctldModel: 1}, wantBackend: RadioRigctl, wantModel: 2014},
		{name: "rigctld_model", radio: Radio{Type: "rigctl", RigctldModel: 1}, wantBackend: RadioRigctl, wantModel: 1},
		{name: "serial_port wins", radio: Radio{SerialPort: "COM1", RigctldSerialPort: "COM3"}, wantBackend: RadioFlex, wantSerial: "COM1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.wantBackend, tt.radio.Backend())
			assert.Equal(t, tt.wantModel, tt.radio.HamlibModel())
			assert.Equal(t, tt.wantSerial, tt.radio.Serial())
		})
	}
}

func TestValidate_MissingRadioTypeDefaultsToFlex(t *testing.T) {
	doc, err := Parse([]byte(validDoc))
	require.NoError(t, err)
	doc.Radio.Type = ""

	require.NoError(t, Validate(doc))
	assert.Equal(t, RadioFlex, doc.Radio.Backend())
}

func TestLoad_Missing(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "settings.yml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "rf2k-launcher init")
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.yml")
	require.NoError(t, os.WriteFile(path, []byte(validDoc), 0644))

	doc, err := Load(path)
	require.NoError(t, err)
	assert.Len(t, doc.Bands, 2)
}

func TestDefault(t *testing.T) {
	doc := Default()
	require.NoError(t, Validate(doc))

	assert.Equal(t, RadioFlex, doc.Radio.Type)
	assert.Equal(t, 4992, doc.Radio.Port)
	assert.Equal(t, 12, doc.Bands["10m"].DrivePower)
	assert.False(t, doc.Bands["160m"].Enabled)
	assert.Empty(t, Warnings(doc))
}
