package constants

// Resource types the provisioning template declares
const (
	ResourceTypeStorageAccount = "Microsoft.Storage/storageAccounts"
	ResourceTypeLogWorkspace   = "Microsoft.OperationalInsights/workspaces"
	ResourceTypeAppInsights    = "Microsoft.Insights/components"
	ResourceTypeHostingPlan    = "Microsoft.Web/serverfarms"
	ResourceTypeFunctionApp    = "Microsoft.Web/sites"
	ResourceTypeStaticSite     = "Microsoft.Web/staticSites"
)

// API versions pinned per resource provider
const (
	APIVersionStorage      = "2023-01-01"
	APIVersionLogWorkspace = "2022-10-01"
	APIVersionAppInsights  = "2020-02-02"
	APIVersionWeb          = "2023-01-01"
)

// Application settings written to the function app
const (
	SettingWebJobsStorage     = "AzureWebJobsStorage"
	SettingContentConnection  = "WEBSITE_CONTENTAZUREFILECONNECTIONSTRING"
	SettingContentShare       = "WEBSITE_CONTENTSHARE"
	SettingExtensionVersion   = "FUNCTIONS_EXTENSION_VERSION"
	SettingWorkerRuntime      = "FUNCTIONS_WORKER_RUNTIME"
	SettingInstrumentationKey = "APPINSIGHTS_INSTRUMENTATIONKEY"
	SettingInsightsConnection = "APPLICATIONINSIGHTS_CONNECTION_STRING"
	SettingRunFromPackage     = "WEBSITE_RUN_FROM_PACKAGE"
)

const (
	// ManagedByTagKey and ManagedByTagValue mark every resource created by this tool
	ManagedByTagKey   = "ManagedBy"
	ManagedByTagValue = "azfuncapp"

	// PackageContainer is the blob container deployment packages are uploaded to
	PackageContainer = "function-releases"

	// ARMScope is the token scope used to verify operator credentials
	ARMScope = "https://management.azure.com/.default"
)
