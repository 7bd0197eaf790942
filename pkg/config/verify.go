package config

import (
	"encoding/json"
	"fmt"

	"github.com/invopop/jsonschema"
)

// GenerateSchema generates a JSON schema for the Config struct
func GenerateSchema() (*jsonschema.Schema, error) {
	r := &jsonschema.Reflector{FieldNameTag: "yaml", DoNotReference: true}
	return r.Reflect(&Config{}), nil
}

// VerifyAgainstSchema checks that every section of the config is known to the generated schema
// and that required fields are set
func VerifyAgainstSchema(cfg *Config) error {
	schema, err := GenerateSchema()
	if err != nil {
		return fmt.Errorf("generate schema: %w", err)
	}

	schemaData, err := json.Marshal(schema)
	if err != nil {
		return fmt.Errorf("marshal schema: %w", err)
	}
	var parsed struct {
		Properties map[string]json.RawMessage `json:"properties"`
	}
	if err := json.Unmarshal(schemaData, &parsed); err != nil {
		return fmt.Errorf("parse schema: %w", err)
	}

	// convert config to JSON for comparison
	configData, err := json.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	var configMap map[string]any
	if err := json.Unmarshal(configData, &configMap); err != nil {
		return fmt.Errorf("unmarshal config: %w", err)
	}
	for key := range configMap {
		if _, ok := parsed.Properties[key]; !ok {
			return fmt.Errorf("section %q is not described by schema", key)
		}
	}

	if err := validateRequiredFields(cfg); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}
	return nil
}

// validateRequiredFields performs basic validation of required fields
func validateRequiredFields(cfg *Config) error {
	if cfg.Server.Listen == "" {
		return fmt.Errorf("server.listen is required")
	}
	if cfg.Server.Timeout == 0 {
		return fmt.Errorf("server.timeout is required")
	}
	if cfg.Database.DSN == "" {
		return fmt.Errorf("database.dsn is required")
	}
	if cfg.Placement.ContainerID == "" {
		return fmt.Errorf("placement.container_id is required")
	}
	return nil
}
