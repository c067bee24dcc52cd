// Package armtemplate builds the ARM deployment template that describes the
// function app and its supporting resources. Cross-resource references are
// expressed as template expressions so the document stays self-contained and
// is evaluated wholesale by the deployment engine.
package armtemplate

import (
	"encoding/json"
	"fmt"
	"os"
)

const (
	// Schema is the deployment schema for resource group scoped templates.
	Schema = "https://schema.management.azure.com/schemas/2019-04-01/deploymentTemplate.json#"

	// ContentVersion identifies the template revision.
	ContentVersion = "1.0.0.0"
)

// Template is an ARM deployment template document.
type Template struct {
	Schema         string               `json:"$schema"`
	ContentVersion string               `json:"contentVersion"`
	Parameters     map[string]Parameter `json:"parameters,omitempty"`
	Variables      map[string]string    `json:"variables,omitempty"`
	Resources      []*Resource          `json:"resources"`
	Outputs        map[string]Output    `json:"outputs,omitempty"`
}

// Parameter declares a template parameter. Parameters without a default must
// be supplied at deployment time.
type Parameter struct {
	Type         string    `json:"type"`
	DefaultValue any       `json:"defaultValue,omitempty"`
	Metadata     *Metadata `json:"metadata,omitempty"`
}

// Metadata carries the operator-facing description of a parameter.
type Metadata struct {
	Description string `json:"description,omitempty"`
}

// Resource declares a single resource in the template.
type Resource struct {
	Type       string            `json:"type"`
	APIVersion string            `json:"apiVersion"`
	Name       string            `json:"name"`
	Location   string            `json:"location,omitempty"`
	Kind       string            `json:"kind,omitempty"`
	SKU        *SKU              `json:"sku,omitempty"`
	Tags       map[string]string `json:"tags,omitempty"`
	DependsOn  []string          `json:"dependsOn,omitempty"`
	Properties map[string]any    `json:"properties,omitempty"`
}

// SKU selects the pricing tier of a resource.
type SKU struct {
	Name string `json:"name"`
	Tier string `json:"tier,omitempty"`
}

// Output declares a value surfaced by the deployment.
type Output struct {
	Type  string `json:"type"`
	Value string `json:"value"`
}

// AppSetting is one name/value entry in a site's appSettings list.
type AppSetting struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// Document returns the template as a generic JSON document, the form the
// deployment API and the policy gate consume.
func (t *Template) Document() (map[string]any, error) {
	data, err := json.Marshal(t)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal template: %w", err)
	}

	var doc map[string]any
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to convert template to document: %w", err)
	}
	return doc, nil
}

// FindResource returns the first resource of the given type, or nil.
func (t *Template) FindResource(resourceType string) *Resource {
	for _, r := range t.Resources {
		if r.Type == resourceType {
			return r
		}
	}
	return nil
}

// LoadFile reads an operator-supplied template document from disk.
func LoadFile(path string) (map[string]any, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read template file: %w", err)
	}

	var doc map[string]any
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse template file %s: %w", path, err)
	}
	return doc, nil
}
