package config

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/invopop/jsonschema"
	"github.com/spf13/cobra"

	"github.com/tnxqso/rf2k-launcher/pkg/config"
	"github.com/tnxqso/rf2k-launcher/pkg/settings"
)

var (
	schemaOutput   string
	schemaSettings bool
)

var schemaCmd = &cobra.Command{
	Use:   "schema",
	Short: "Generate JSON schema for configuration",
	Long: `Generate a JSON schema for launcher.yaml, or for settings.yml with --settings.

Editors such as VS Code use the schema for completion and validation.

Examples:
  # Print the launcher.yaml schema
  rf2k-launcher config schema

  # Save the settings.yml schema
  rf2k-launcher config schema --settings --output settings.schema.json`,
	Args: cobra.NoArgs,
	RunE: runSchema,
}

func init() {
	schemaCmd.Flags().StringVarP(&schemaOutput, "output", "o", "", "Output file (default: stdout)")
	schemaCmd.Flags().BoolVar(&schemaSettings, "settings", false, "Generate the settings.yml schema")
}

func runSchema(cmd *cobra.Command, args []string) error {
	schemaJSON, err := generateSchema(schemaSettings)
	if err != nil {
		return err
	}

	if schemaOutput != "" {
		if err := os.WriteFile(schemaOutput, schemaJSON, 0644); err != nil {
			return fmt.Errorf("failed to write schema file: %w", err)
		}
		_, _ = fmt.Fprintf(cmd.OutOrStdout(), "JSON schema written to %s\n", schemaOutput)
		return nil
	}

	_, _ = fmt.Fprintln(cmd.OutOrStdout(), string(schemaJSON))
	return nil
}

func generateSchema(forSettings bool) ([]byte, error) {
	reflector := jsonschema.Reflector{
		AllowAdditionalProperties: false,
		DoNotReference:            true,
		FieldNameTag:              "yaml",
	}

	var schema *jsonschema.Schema
	if forSettings {
		schema = reflector.Reflect(&settings.Document{})
		schema.Title = "RF2K-TRAINER Settings"
		schema.Description = "Engine settings read by RF2K-TRAINER (settings.yml)"
	} else {
		schema = reflector.Reflect(&config.Config{})
		schema.Title = "RF2K-TRAINER Launcher Configuration"
		schema.Description = "Launcher settings (launcher.yaml)"
	}
	schema.Version = "https://json-schema.org/draft/2020-12/schema"

	schemaJSON, err := json.MarshalIndent(schema, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to generate schema: %w", err)
	}
	return schemaJSON, nil
}
