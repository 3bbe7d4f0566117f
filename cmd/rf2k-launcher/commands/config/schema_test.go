package config

import (
	"encoding/json"
	"testing"
)

func TestGenerateSchema(t *testing.T) {
	tests := []struct {
		name     string
		settings bool
		keys     []string
	}{
		{name: "launcher", keys: []string{"logging", "engine", "update"}},
		{name: "settings", settings: true, keys: []string{"defaults", "radio", "rf2k_s", "bands"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data, err := generateSchema(tt.settings)
			if err != nil {
				t.Fatalf("generateSchema() error: %v", err)
			}

			var schema struct {
				Properties map[string]json.RawMessage `json:"properties"`
			}
			if err := json.Unmarshal(data, &schema); err != nil {
				t.Fatalf("schema is not JSON: %v", err)
			}
			for _, key := range tt.keys {
				if _, ok := schema.Properties[key]; !ok {
					t.Errorf("schema missing property %q", key)
				}
			}
		})
	}
}
