package schema

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Load reads a schema description from a YAML file, applies defaults
// and validates it.
func Load(path string) (*Schema, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read schema file %q: %w", path, err)
	}
	return Parse(data)
}

// Parse parses a YAML schema description, applies defaults and
// validates it.
func Parse(data []byte) (*Schema, error) {
	var s Schema
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("failed to parse schema: %w", err)
	}

	ApplyDefaults(&s)

	if err := Validate(&s); err != nil {
		return nil, err
	}

	return &s, nil
}
