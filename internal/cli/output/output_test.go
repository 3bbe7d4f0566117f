package output

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestParseFormat(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    Format
		wantErr bool
	}{
		{name: "table", input: "table", want: FormatTable},
		{name: "empty defaults to table", input: "", want: FormatTable},
		{name: "JSON uppercase", input: "JSON", want: FormatJSON},
		{name: "yml alias", input: "yml", want: FormatYAML},
		{name: "whitespace trimmed", input: "  yaml  ", want: FormatYAML},
		{name: "invalid format", input: "xml", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseFormat(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

type sample struct {
	StateDir string `json:"state_dir" yaml:"state_dir"`
	PID      int    `json:"pid" yaml:"pid"`
}

func TestRender(t *testing.T) {
	data := sample{StateDir: "/var/state", PID: 42}

	t.Run("json", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, Render(&buf, FormatJSON, data))

		var got sample
		require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
		assert.Equal(t, data, got)
	})

	t.Run("table falls back to yaml", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, Render(&buf, FormatTable, data))

		var got sample
		require.NoError(t, yaml.Unmarshal(buf.Bytes(), &got))
		assert.Equal(t, data, got)
	})

	t.Run("table renderer", func(t *testing.T) {
		td := NewTableData("NAME", "VALUE")
		td.AddRow("pid", "42")

		var buf bytes.Buffer
		require.NoError(t, Render(&buf, FormatTable, td))
		assert.Contains(t, buf.String(), "NAME")
		assert.Contains(t, buf.String(), "42")
	})
}

func TestSimpleTable(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, SimpleTable(&buf, [][2]string{{"State directory", "/var/state"}}))
	assert.Contains(t, buf.String(), "State directory")
	assert.Contains(t, buf.String(), "/var/state")
}

func TestPrinter(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf, false)

	p.Success("done")
	p.Warning("careful")
	p.Banner("RF2K-TRAINER", 10)

	out := buf.String()
	assert.Contains(t, out, "done\n")
	assert.Contains(t, out, "careful\n")
	assert.Contains(t, out, "==========\n  RF2K-TRAINER\n==========\n")
	assert.NotContains(t, out, colorReset)
}

func TestPrinterColor(t *testing.T) {
	var buf bytes.Buffer
	NewPrinter(&buf, true).Error("boom")
	assert.Equal(t, colorRed+"boom"+colorReset+"\n", buf.String())
}
