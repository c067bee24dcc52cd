package policy

import (
	"context"
	"encoding/json"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// TestValidTemplateDirectory tests all ARM templates in the valid directory
// Each template should pass policy validation
func TestValidTemplateDirectory(t *testing.T) {
	validator, err := NewValidator()
	if err != nil {
		t.Fatalf("Failed to create validator: %v", err)
	}

	validDir := "testdata/valid"
	templates, err := discoverTemplateFiles(validDir)
	if err != nil {
		t.Fatalf("Failed to discover template files in %s: %v", validDir, err)
	}

	if len(templates) == 0 {
		t.Fatalf("No template files found in %s", validDir)
	}

	t.Logf("Found %d valid template files to test", len(templates))

	for _, templatePath := range templates {
		t.Run(filepath.Base(templatePath), func(t *testing.T) {
			testTemplateValidation(t, validator, templatePath, true)
		})
	}
}

// TestInvalidTemplateDirectory tests all ARM templates in the invalid directory
// Each template should fail policy validation
func TestInvalidTemplateDirectory(t *testing.T) {
	validator, err := NewValidator()
	if err != nil {
		t.Fatalf("Failed to create validator: %v", err)
	}

	invalidDir := "testdata/invalid"
	templates, err := discoverTemplateFiles(invalidDir)
	if err != nil {
		t.Fatalf("Failed to discover template files in %s: %v", invalidDir, err)
	}

	if len(templates) == 0 {
		t.Fatalf("No template files found in %s", invalidDir)
	}

	t.Logf("Found %d invalid template files to test", len(templates))

	for _, templatePath := range templates {
		t.Run(filepath.Base(templatePath), func(t *testing.T) {
			testTemplateValidation(t, validator, templatePath, false)
		})
	}
}

// TestSpecificInvalidScenarios tests specific invalid scenarios with detailed assertions
func TestSpecificInvalidScenarios(t *testing.T) {
	validator, err := NewValidator()
	if err != nil {
		t.Fatalf("Failed to create validator: %v", err)
	}

	testCases := []struct {
		templateFile       string
		expectedViolations []string
	}{
		{
			templateFile: "testdata/invalid/insecure-storage.json",
			expectedViolations: []string{
				"Storage account 'contosodevsan' must only accept HTTPS traffic",
				"Storage account 'contosodevsan' must require TLS 1.2",
				"Storage account 'contosodevsan' must not allow public blob access",
			},
		},
		{
			templateFile: "testdata/invalid/bad-storage-name.json",
			expectedViolations: []string{
				"Storage account name 'Contoso-Dev-SAN' must be 3-24 lowercase alphanumeric characters",
			},
		},
		{
			templateFile: "testdata/invalid/http-site.json",
			expectedViolations: []string{
				"Site 'contoso-dev' must be HTTPS only",
			},
		},
		{
			templateFile: "testdata/invalid/multiple-violations.json",
			expectedViolations: []string{
				"Resource type 'Microsoft.Compute/virtualMachines' is not allowed",
				"Storage account 'contosodevsan' must only accept HTTPS traffic",
				"Site 'contoso-dev' must be HTTPS only",
			},
		},
	}

	for _, tc := range testCases {
		templateName := filepath.Base(tc.templateFile)
		t.Run(templateName, func(t *testing.T) {
			template, err := loadTemplate(tc.templateFile)
			if err != nil {
				t.Fatalf("Failed to load template %s: %v", tc.templateFile, err)
			}

			result, err := validator.ValidateTemplate(context.Background(), template)
			if err != nil {
				t.Fatalf("Validation failed with error: %v", err)
			}

			if result.Allowed {
				t.Errorf("Template %s should have failed validation but was allowed", templateName)
			}

			if len(result.Violations) == 0 {
				t.Fatalf("Template %s should have violations but got none", templateName)
			}

			// Check that all expected violations are present
			violationMap := make(map[string]bool)
			for _, v := range result.Violations {
				violationMap[v] = true
			}

			for _, expected := range tc.expectedViolations {
				if !violationMap[expected] {
					t.Errorf("Expected violation '%s' not found in %v", expected, result.Violations)
				}
			}

			t.Logf("Template %s correctly failed with violations: %v", templateName, result.Violations)
		})
	}
}

// discoverTemplateFiles recursively finds all .json templates in the specified directory
func discoverTemplateFiles(dir string) ([]string, error) {
	var templateFiles []string

	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		if !d.IsDir() && strings.HasSuffix(path, ".json") {
			templateFiles = append(templateFiles, path)
		}

		return nil
	})

	return templateFiles, err
}

// testTemplateValidation is a helper function that tests a single template file
func testTemplateValidation(t *testing.T, validator *Validator, templatePath string, shouldPass bool) {
	template, err := loadTemplate(templatePath)
	if err != nil {
		t.Fatalf("Failed to load template %s: %v", templatePath, err)
	}

	result, err := validator.ValidateTemplate(context.Background(), template)
	if err != nil {
		t.Fatalf("Validation failed with error: %v", err)
	}

	templateName := filepath.Base(templatePath)

	if shouldPass {
		if !result.Allowed {
			t.Errorf("Template %s should have passed validation but failed with violations: %v",
				templateName, result.Violations)
		} else {
			t.Logf("Template %s correctly passed validation", templateName)
		}
	} else {
		if result.Allowed {
			t.Errorf("Template %s should have failed validation but passed", templateName)
		} else {
			t.Logf("Template %s correctly failed validation with violations: %v",
				templateName, result.Violations)
		}
	}
}

// loadTemplate loads and parses an ARM template from a file
func loadTemplate(templatePath string) (map[string]interface{}, error) {
	content, err := os.ReadFile(templatePath)
	if err != nil {
		return nil, err
	}

	var template map[string]interface{}
	if err := json.Unmarshal(content, &template); err != nil {
		return nil, err
	}

	return template, nil
}
