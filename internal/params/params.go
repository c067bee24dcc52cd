// Package params reads and merges ARM deployment parameters.
package params

import (
	"encoding/json"
	"fmt"
	"maps"
	"os"
	"slices"
)

// FileSchema is the schema of an ARM deployment parameters file.
const FileSchema = "https://schema.management.azure.com/schemas/2019-04-01/deploymentParameters.json#"

// File is the on-disk parameters file format.
type File struct {
	Schema         string           `json:"$schema"`
	ContentVersion string           `json:"contentVersion"`
	Parameters     map[string]Value `json:"parameters"`
}

// Value wraps a single parameter value the way the deployment API expects.
type Value struct {
	Value any `json:"value"`
}

// Load reads a parameters file and returns the raw parameter values keyed by name.
func Load(path string) (map[string]any, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read parameters file: %w", err)
	}

	var f File
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to parse parameters file %s: %w", path, err)
	}

	values := make(map[string]any, len(f.Parameters))
	for name, v := range f.Parameters {
		values[name] = v.Value
	}
	return values, nil
}

// Merge merges multiple parameter maps with later maps having higher precedence
// Returns the deployment parameter map the submission API expects
func Merge(pp ...map[string]any) map[string]Value {
	m := map[string]any{}
	for _, p := range pp {
		maps.Copy(m, p)
	}

	results := make(map[string]Value, len(m))
	for k, v := range m {
		results[k] = Value{Value: v}
	}
	return results
}

// Names returns the parameter names in sorted order.
func Names(values map[string]Value) []string {
	var names []string
	for name := range values {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// String returns the parameter's value when it is a string, or "" otherwise.
func String(values map[string]any, name string) string {
	if s, ok := values[name].(string); ok {
		return s
	}
	return ""
}
