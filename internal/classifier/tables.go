package classifier

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// LoadTables reads keyword tables from a YAML file. Lists missing from the
// file keep their defaults, so a file may override only locations, say.
func LoadTables(path string) (Tables, error) {
	tables := DefaultTables()
	if path == "" {
		return tables, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return tables, fmt.Errorf("read classifier file: %w", err)
	}

	var override Tables
	if err := yaml.Unmarshal(data, &override); err != nil {
		return tables, fmt.Errorf("parse classifier file: %w", err)
	}

	if len(override.Role) > 0 {
		tables.Role = override.Role
	}
	if len(override.Experience) > 0 {
		tables.Experience = override.Experience
	}
	if len(override.Location) > 0 {
		tables.Location = override.Location
	}

	return tables, nil
}
