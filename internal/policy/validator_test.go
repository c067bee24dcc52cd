package policy

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/DangerousDarlow/AzureFunctionsApp/internal/armtemplate"
)

func TestValidator_ValidateTemplate(t *testing.T) {
	validator, err := NewValidator()
	if err != nil {
		t.Fatalf("Failed to create validator: %v", err)
	}

	tests := []struct {
		name             string
		template         string
		expectAllow      bool
		expectViolations []string
	}{
		{
			name: "Valid template with compliant storage and site",
			template: `{
				"resources": [
					{
						"type": "Microsoft.Storage/storageAccounts",
						"name": "myappdevsan",
						"properties": {
							"supportsHttpsTrafficOnly": true,
							"minimumTlsVersion": "TLS1_2",
							"allowBlobPublicAccess": false
						}
					},
					{
						"type": "Microsoft.OperationalInsights/workspaces",
						"name": "myapp-dev-log",
						"properties": {}
					},
					{
						"type": "Microsoft.Insights/components",
						"name": "myapp-dev-ai",
						"properties": {}
					},
					{
						"type": "Microsoft.Web/serverfarms",
						"name": "myapp-dev-plan",
						"properties": {}
					},
					{
						"type": "Microsoft.Web/sites",
						"name": "myapp-dev",
						"properties": {
							"httpsOnly": true,
							"siteConfig": {
								"minTlsVersion": "1.2"
							}
						}
					}
				]
			}`,
			expectAllow:      true,
			expectViolations: nil,
		},
		{
			name: "Invalid resource type",
			template: `{
				"resources": [
					{
						"type": "Microsoft.Compute/virtualMachines",
						"name": "myapp-vm",
						"properties": {}
					}
				]
			}`,
			expectAllow:      false,
			expectViolations: []string{"Resource type 'Microsoft.Compute/virtualMachines' is not allowed"},
		},
		{
			name: "Storage account without HTTPS enforcement",
			template: `{
				"resources": [
					{
						"type": "Microsoft.Storage/storageAccounts",
						"name": "myappdevsan",
						"properties": {
							"minimumTlsVersion": "TLS1_2",
							"allowBlobPublicAccess": false
						}
					}
				]
			}`,
			expectAllow:      false,
			expectViolations: []string{"Storage account 'myappdevsan' must only accept HTTPS traffic"},
		},
		{
			name: "Storage account with weak TLS",
			template: `{
				"resources": [
					{
						"type": "Microsoft.Storage/storageAccounts",
						"name": "myappdevsan",
						"properties": {
							"supportsHttpsTrafficOnly": true,
							"minimumTlsVersion": "TLS1_0",
							"allowBlobPublicAccess": false
						}
					}
				]
			}`,
			expectAllow:      false,
			expectViolations: []string{"Storage account 'myappdevsan' must require TLS 1.2"},
		},
		{
			name: "Storage account with public blob access",
			template: `{
				"resources": [
					{
						"type": "Microsoft.Storage/storageAccounts",
						"name": "myappdevsan",
						"properties": {
							"supportsHttpsTrafficOnly": true,
							"minimumTlsVersion": "TLS1_2",
							"allowBlobPublicAccess": true
						}
					}
				]
			}`,
			expectAllow:      false,
			expectViolations: []string{"Storage account 'myappdevsan' must not allow public blob access"},
		},
		{
			name: "Storage account with invalid literal name",
			template: `{
				"resources": [
					{
						"type": "Microsoft.Storage/storageAccounts",
						"name": "My-Storage-Account",
						"properties": {
							"supportsHttpsTrafficOnly": true,
							"minimumTlsVersion": "TLS1_2",
							"allowBlobPublicAccess": false
						}
					}
				]
			}`,
			expectAllow:      false,
			expectViolations: []string{"Storage account name 'My-Storage-Account' must be 3-24 lowercase alphanumeric characters"},
		},
		{
			name: "Storage account name from template expression is not checked",
			template: `{
				"resources": [
					{
						"type": "Microsoft.Storage/storageAccounts",
						"name": "[variables('storageAccountName')]",
						"properties": {
							"supportsHttpsTrafficOnly": true,
							"minimumTlsVersion": "TLS1_2",
							"allowBlobPublicAccess": false
						}
					}
				]
			}`,
			expectAllow:      true,
			expectViolations: nil,
		},
		{
			name: "Site without HTTPS only",
			template: `{
				"resources": [
					{
						"type": "Microsoft.Web/sites",
						"name": "myapp-dev",
						"properties": {
							"siteConfig": {
								"minTlsVersion": "1.2"
							}
						}
					}
				]
			}`,
			expectAllow:      false,
			expectViolations: []string{"Site 'myapp-dev' must be HTTPS only"},
		},
		{
			name: "Multiple violations",
			template: `{
				"resources": [
					{
						"type": "Microsoft.Compute/virtualMachines",
						"name": "myapp-vm",
						"properties": {}
					},
					{
						"type": "Microsoft.Storage/storageAccounts",
						"name": "myappdevsan",
						"properties": {
							"minimumTlsVersion": "TLS1_0",
							"allowBlobPublicAccess": false
						}
					},
					{
						"type": "Microsoft.Web/sites",
						"name": "myapp-dev",
						"properties": {
							"httpsOnly": false,
							"siteConfig": {
								"minTlsVersion": "1.2"
							}
						}
					}
				]
			}`,
			expectAllow: false,
			expectViolations: []string{
				"Resource type 'Microsoft.Compute/virtualMachines' is not allowed",
				"Storage account 'myappdevsan' must only accept HTTPS traffic",
				"Storage account 'myappdevsan' must require TLS 1.2",
				"Site 'myapp-dev' must be HTTPS only",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var template map[string]interface{}
			err := json.Unmarshal([]byte(tt.template), &template)
			if err != nil {
				t.Fatalf("Failed to parse template JSON: %v", err)
			}

			result, err := validator.ValidateTemplate(context.Background(), template)
			if err != nil {
				t.Fatalf("Validation failed with error: %v", err)
			}

			if result.Allowed != tt.expectAllow {
				t.Errorf("Expected allowed=%v, got allowed=%v. Violations: %v", tt.expectAllow, result.Allowed, result.Violations)
			}

			if tt.expectViolations == nil && len(result.Violations) > 0 {
				t.Errorf("Expected no violations, got: %v", result.Violations)
			}

			if tt.expectViolations != nil {
				if len(result.Violations) == 0 {
					t.Errorf("Expected violations %v, got none", tt.expectViolations)
				} else {
					// Check that all expected violations are present
					violationMap := make(map[string]bool)
					for _, v := range result.Violations {
						violationMap[v] = true
					}

					for _, expected := range tt.expectViolations {
						if !violationMap[expected] {
							t.Errorf("Expected violation '%s' not found in %v", expected, result.Violations)
						}
					}
				}
			}
		})
	}
}

func TestValidator_AllowedResourceTypes(t *testing.T) {
	validator, err := NewValidator()
	if err != nil {
		t.Fatalf("Failed to create validator: %v", err)
	}

	allowedTypes := []string{
		"Microsoft.Storage/storageAccounts",
		"Microsoft.OperationalInsights/workspaces",
		"Microsoft.Insights/components",
		"Microsoft.Web/serverfarms",
		"Microsoft.Web/sites",
		"Microsoft.Web/staticSites",
	}

	for _, resourceType := range allowedTypes {
		t.Run("Allow_"+resourceType, func(t *testing.T) {
			properties := map[string]interface{}{}

			// Storage and sites carry the security baseline the policy checks for
			if resourceType == "Microsoft.Storage/storageAccounts" {
				properties["supportsHttpsTrafficOnly"] = true
				properties["minimumTlsVersion"] = "TLS1_2"
				properties["allowBlobPublicAccess"] = false
			}
			if resourceType == "Microsoft.Web/sites" {
				properties["httpsOnly"] = true
				properties["siteConfig"] = map[string]interface{}{
					"minTlsVersion": "1.2",
				}
			}

			template := map[string]interface{}{
				"resources": []interface{}{
					map[string]interface{}{
						"type":       resourceType,
						"name":       "testresource",
						"properties": properties,
					},
				},
			}

			result, err := validator.ValidateTemplate(context.Background(), template)
			if err != nil {
				t.Fatalf("Validation failed with error: %v", err)
			}

			if !result.Allowed {
				t.Errorf("Resource type %s should be allowed, but got violations: %v", resourceType, result.Violations)
			}
		})
	}
}

func TestValidator_GeneratedTemplate(t *testing.T) {
	validator, err := NewValidator()
	if err != nil {
		t.Fatalf("Failed to create validator: %v", err)
	}

	tests := []struct {
		name    string
		builder *armtemplate.Builder
	}{
		{"default", armtemplate.NewBuilder()},
		{"with static site", armtemplate.NewBuilder(armtemplate.WithStaticSite())},
		{"premium plan", armtemplate.NewBuilder(armtemplate.WithPlanSKU("EP1", "ElasticPremium"))},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc, err := tt.builder.Build().Document()
			if err != nil {
				t.Fatalf("Failed to build template document: %v", err)
			}

			result, err := validator.ValidateTemplate(context.Background(), doc)
			if err != nil {
				t.Fatalf("Validation failed with error: %v", err)
			}

			if !result.Allowed {
				t.Errorf("Generated template should pass policy, but got violations: %v", result.Violations)
			}
		})
	}
}
