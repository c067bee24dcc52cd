package armtemplate

import (
	"fmt"

	"github.com/DangerousDarlow/AzureFunctionsApp/internal/constants"
)

// Option is a function that configures the template builder.
type Option func(*Builder)

// WithStaticSite includes a static web app alongside the function app.
func WithStaticSite() Option {
	return func(b *Builder) {
		b.staticSite = true
	}
}

// WithPlanSKU overrides the default consumption hosting plan.
func WithPlanSKU(name, tier string) Option {
	return func(b *Builder) {
		b.planSKU = SKU{Name: name, Tier: tier}
	}
}

// WithWorkerRuntime sets the functions worker runtime app setting.
func WithWorkerRuntime(runtime string) Option {
	return func(b *Builder) {
		b.workerRuntime = runtime
	}
}

// WithTags adds tags to every resource in the template.
func WithTags(tags map[string]string) Option {
	return func(b *Builder) {
		for k, v := range tags {
			b.tags[k] = v
		}
	}
}

// Builder assembles the function app template. The zero configuration
// produces a consumption-plan function app with storage, a log workspace and
// a workspace-backed telemetry component.
type Builder struct {
	planSKU       SKU
	workerRuntime string
	staticSite    bool
	tags          map[string]string
}

// NewBuilder creates a Builder with the default consumption configuration.
func NewBuilder(opts ...Option) *Builder {
	b := &Builder{
		planSKU:       SKU{Name: "Y1", Tier: "Dynamic"},
		workerRuntime: "dotnet-isolated",
		tags: map[string]string{
			constants.ManagedByTagKey: constants.ManagedByTagValue,
		},
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Build produces the complete deployment template.
func (b *Builder) Build() *Template {
	t := &Template{
		Schema:         Schema,
		ContentVersion: ContentVersion,
		Parameters: map[string]Parameter{
			"baseName": {
				Type:     "string",
				Metadata: &Metadata{Description: "Base name shared by every resource"},
			},
			"location": {
				Type:     "string",
				Metadata: &Metadata{Description: "Azure region to deploy into"},
			},
			"environment": {
				Type:         "string",
				DefaultValue: "dev",
				Metadata:     &Metadata{Description: "Environment tag appended to every resource name"},
			},
		},
		Variables: map[string]string{
			"functionAppName":    "[concat(parameters('baseName'), '-', parameters('environment'))]",
			"storageAccountName": "[concat(take(toLower(replace(variables('functionAppName'), '-', '')), 21), 'san')]",
			"storageAccountId":   fmt.Sprintf("[resourceId('%s', variables('storageAccountName'))]", constants.ResourceTypeStorageAccount),
			"logWorkspaceName":   "[concat(variables('functionAppName'), '-law')]",
			"appInsightsName":    "[concat(variables('functionAppName'), '-ai')]",
			"hostingPlanName":    "[concat(variables('functionAppName'), '-asp')]",
			"staticSiteName":     "[concat(variables('functionAppName'), '-swa')]",
			"contentShareName":   "[toLower(variables('functionAppName'))]",
		},
	}

	t.Resources = append(t.Resources,
		b.storageAccount(),
		b.logWorkspace(),
		b.appInsights(),
		b.hostingPlan(),
		b.functionApp(),
	)
	if b.staticSite {
		t.Resources = append(t.Resources, b.staticSiteResource())
	}

	t.Outputs = b.outputs()
	return t
}

func (b *Builder) storageAccount() *Resource {
	return &Resource{
		Type:       constants.ResourceTypeStorageAccount,
		APIVersion: constants.APIVersionStorage,
		Name:       "[variables('storageAccountName')]",
		Location:   "[parameters('location')]",
		Kind:       "StorageV2",
		SKU:        &SKU{Name: "Standard_LRS"},
		Tags:       b.tags,
		Properties: map[string]any{
			"supportsHttpsTrafficOnly": true,
			"minimumTlsVersion":        "TLS1_2",
			"allowBlobPublicAccess":    false,
		},
	}
}

func (b *Builder) logWorkspace() *Resource {
	return &Resource{
		Type:       constants.ResourceTypeLogWorkspace,
		APIVersion: constants.APIVersionLogWorkspace,
		Name:       "[variables('logWorkspaceName')]",
		Location:   "[parameters('location')]",
		Tags:       b.tags,
		Properties: map[string]any{
			"sku":             map[string]any{"name": "PerGB2018"},
			"retentionInDays": 30,
		},
	}
}

func (b *Builder) appInsights() *Resource {
	return &Resource{
		Type:       constants.ResourceTypeAppInsights,
		APIVersion: constants.APIVersionAppInsights,
		Name:       "[variables('appInsightsName')]",
		Location:   "[parameters('location')]",
		Kind:       "web",
		Tags:       b.tags,
		DependsOn: []string{
			resourceID(constants.ResourceTypeLogWorkspace, "logWorkspaceName"),
		},
		Properties: map[string]any{
			"Application_Type":    "web",
			"WorkspaceResourceId": resourceID(constants.ResourceTypeLogWorkspace, "logWorkspaceName"),
		},
	}
}

func (b *Builder) hostingPlan() *Resource {
	sku := b.planSKU
	return &Resource{
		Type:       constants.ResourceTypeHostingPlan,
		APIVersion: constants.APIVersionWeb,
		Name:       "[variables('hostingPlanName')]",
		Location:   "[parameters('location')]",
		SKU:        &sku,
		Tags:       b.tags,
	}
}

func (b *Builder) functionApp() *Resource {
	return &Resource{
		Type:       constants.ResourceTypeFunctionApp,
		APIVersion: constants.APIVersionWeb,
		Name:       "[variables('functionAppName')]",
		Location:   "[parameters('location')]",
		Kind:       "functionapp",
		Tags:       b.tags,
		DependsOn: []string{
			resourceID(constants.ResourceTypeHostingPlan, "hostingPlanName"),
			"[variables('storageAccountId')]",
			resourceID(constants.ResourceTypeAppInsights, "appInsightsName"),
		},
		Properties: map[string]any{
			"serverFarmId": resourceID(constants.ResourceTypeHostingPlan, "hostingPlanName"),
			"httpsOnly":    true,
			"siteConfig": map[string]any{
				"minTlsVersion": "1.2",
				"ftpsState":     "FtpsOnly",
				"appSettings":   b.appSettings(),
			},
		},
	}
}

func (b *Builder) appSettings() []AppSetting {
	storageConnection := fmt.Sprintf(
		"[format('DefaultEndpointsProtocol=https;AccountName={0};AccountKey={1};EndpointSuffix={2}', variables('storageAccountName'), listKeys(variables('storageAccountId'), '%s').keys[0].value, environment().suffixes.storage)]",
		constants.APIVersionStorage,
	)

	return []AppSetting{
		{Name: constants.SettingWebJobsStorage, Value: storageConnection},
		{Name: constants.SettingContentConnection, Value: storageConnection},
		{Name: constants.SettingContentShare, Value: "[variables('contentShareName')]"},
		{Name: constants.SettingExtensionVersion, Value: "~4"},
		{Name: constants.SettingWorkerRuntime, Value: b.workerRuntime},
		{Name: constants.SettingInstrumentationKey, Value: reference(constants.ResourceTypeAppInsights, "appInsightsName", constants.APIVersionAppInsights, "InstrumentationKey")},
		{Name: constants.SettingInsightsConnection, Value: reference(constants.ResourceTypeAppInsights, "appInsightsName", constants.APIVersionAppInsights, "ConnectionString")},
		{Name: constants.SettingRunFromPackage, Value: "1"},
	}
}

func (b *Builder) staticSiteResource() *Resource {
	return &Resource{
		Type:       constants.ResourceTypeStaticSite,
		APIVersion: constants.APIVersionWeb,
		Name:       "[variables('staticSiteName')]",
		Location:   "[parameters('location')]",
		SKU:        &SKU{Name: "Free", Tier: "Free"},
		Tags:       b.tags,
		Properties: map[string]any{
			"allowConfigFileUpdates":   true,
			"stagingEnvironmentPolicy": "Enabled",
		},
	}
}

func (b *Builder) outputs() map[string]Output {
	outputs := map[string]Output{
		"functionAppName": {
			Type:  "string",
			Value: "[variables('functionAppName')]",
		},
		"functionAppUrl": {
			Type: "string",
			Value: fmt.Sprintf(
				"[format('https://{0}', reference(resourceId('%s', variables('functionAppName')), '%s').defaultHostName)]",
				constants.ResourceTypeFunctionApp, constants.APIVersionWeb,
			),
		},
		"resourceGroupName": {
			Type:  "string",
			Value: "[resourceGroup().name]",
		},
		"storageAccountName": {
			Type:  "string",
			Value: "[variables('storageAccountName')]",
		},
		"appInsightsName": {
			Type:  "string",
			Value: "[variables('appInsightsName')]",
		},
		"appInsightsInstrumentationKey": {
			Type:  "string",
			Value: reference(constants.ResourceTypeAppInsights, "appInsightsName", constants.APIVersionAppInsights, "InstrumentationKey"),
		},
		"appInsightsConnectionString": {
			Type:  "string",
			Value: reference(constants.ResourceTypeAppInsights, "appInsightsName", constants.APIVersionAppInsights, "ConnectionString"),
		},
		"logWorkspaceId": {
			Type:  "string",
			Value: reference(constants.ResourceTypeLogWorkspace, "logWorkspaceName", constants.APIVersionLogWorkspace, "customerId"),
		},
	}

	if b.staticSite {
		outputs["staticSiteName"] = Output{
			Type:  "string",
			Value: "[variables('staticSiteName')]",
		}
		outputs["staticSiteUrl"] = Output{
			Type: "string",
			Value: fmt.Sprintf(
				"[format('https://{0}', reference(resourceId('%s', variables('staticSiteName')), '%s').defaultHostname)]",
				constants.ResourceTypeStaticSite, constants.APIVersionWeb,
			),
		}
		outputs["staticSiteId"] = Output{
			Type:  "string",
			Value: resourceID(constants.ResourceTypeStaticSite, "staticSiteName"),
		}
	}

	return outputs
}

// resourceID renders a resourceId() expression for a resource named by a
// template variable.
func resourceID(resourceType, nameVariable string) string {
	return fmt.Sprintf("[resourceId('%s', variables('%s'))]", resourceType, nameVariable)
}

// reference renders a reference() expression reading one property of a
// deployed resource.
func reference(resourceType, nameVariable, apiVersion, property string) string {
	return fmt.Sprintf(
		"[reference(resourceId('%s', variables('%s')), '%s').%s]",
		resourceType, nameVariable, apiVersion, property,
	)
}
