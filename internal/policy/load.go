// Package policy defines the YAML configuration for the server: transport
// settings, usage budgets, custom redaction patterns, and query polling.
package policy

import (
	"bytes"
	"fmt"

	"go.yaml.in/yaml/v4"
)

// Load parses YAML bytes into Policy and validates it.
func Load(data []byte) (*Policy, error) {
	var pol Policy
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&pol); err != nil {
		return nil, fmt.Errorf("parse yaml: %w", err)
	}
	if err := Validate(&pol); err != nil {
		return nil, err
	}
	return &pol, nil
}
