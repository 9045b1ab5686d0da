package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/invopop/jsonschema"
)

// HelperResponse documents the JSON object a helper prints on success.
// Fields other than config.id and url are allowed and forwarded untouched.
type HelperResponse struct {
	Config HelperWindowConfig `json:"config" jsonschema:"required"`
	URL    string             `json:"url,omitempty" jsonschema:"description=Navigation target; relative paths are joined with window.base_url"`
}

type HelperWindowConfig struct {
	ID string `json:"id" jsonschema:"required,minLength=1,description=Window identifier used as the registry key"`
}

// ConfigSchema returns the JSON schema of the configuration file.
func ConfigSchema() *jsonschema.Schema {
	r := new(jsonschema.Reflector)
	schema := r.Reflect(&Config{})
	schema.ID = "https://github.com/bnema/pipewin/config.schema.json"
	schema.Title = "pipewin configuration"
	schema.Description = "Configuration schema for pipewin, a pipe driven window orchestrator"
	return schema
}

// HelperResponseSchema returns the JSON schema of the helper stdout contract.
func HelperResponseSchema() *jsonschema.Schema {
	r := &jsonschema.Reflector{AllowAdditionalProperties: true}
	schema := r.Reflect(&HelperResponse{})
	schema.ID = "https://github.com/bnema/pipewin/helper-response.schema.json"
	schema.Title = "pipewin helper response"
	return schema
}

// MarshalSchema renders a schema as indented JSON.
func MarshalSchema(schema *jsonschema.Schema) ([]byte, error) {
	data, err := json.MarshalIndent(schema, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal schema: %w", err)
	}
	return data, nil
}

// GenerateSchemaFile writes config.schema.json next to the config file.
func GenerateSchemaFile(configDir string) (string, error) {
	data, err := MarshalSchema(ConfigSchema())
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(configDir, dirPerm); err != nil {
		return "", err
	}
	schemaFile := filepath.Join(configDir, "config.schema.json")
	if err := os.WriteFile(schemaFile, data, filePerm); err != nil {
		return "", fmt.Errorf("failed to write schema file: %w", err)
	}
	return schemaFile, nil
}
