package di

import (
	"fmt"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore"
	"github.com/Azure/azure-sdk-for-go/sdk/azidentity"
	"github.com/Azure/azure-sdk-for-go/sdk/resourcemanager/applicationinsights/armapplicationinsights"
	"github.com/Azure/azure-sdk-for-go/sdk/resourcemanager/appservice/armappservice/v4"
	"github.com/Azure/azure-sdk-for-go/sdk/resourcemanager/operationalinsights/armoperationalinsights/v2"
	"github.com/Azure/azure-sdk-for-go/sdk/resourcemanager/resources/armresources"
	"github.com/Azure/azure-sdk-for-go/sdk/resourcemanager/resources/armsubscriptions"
	"github.com/Azure/azure-sdk-for-go/sdk/resourcemanager/storage/armstorage"

	"github.com/DangerousDarlow/AzureFunctionsApp/internal/orchestrator"
	"github.com/DangerousDarlow/AzureFunctionsApp/internal/packaging"
	"github.com/DangerousDarlow/AzureFunctionsApp/internal/policy"
	"github.com/DangerousDarlow/AzureFunctionsApp/internal/preflight"
	"github.com/DangerousDarlow/AzureFunctionsApp/internal/services"
)

// ProvideCredential builds the default Azure credential chain: environment,
// managed identity, then the local az login session.
func ProvideCredential() (azcore.TokenCredential, error) {
	credential, err := azidentity.NewDefaultAzureCredential(nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build azure credential: %w", err)
	}
	return credential, nil
}

func ProvideResourceGroupsClient(subscription string, credential azcore.TokenCredential) (*armresources.ResourceGroupsClient, error) {
	return armresources.NewResourceGroupsClient(subscription, credential, nil)
}

func ProvideDeploymentsClient(subscription string, credential azcore.TokenCredential) (*armresources.DeploymentsClient, error) {
	return armresources.NewDeploymentsClient(subscription, credential, nil)
}

func ProvideSubscriptionsClient(credential azcore.TokenCredential) (*armsubscriptions.Client, error) {
	return armsubscriptions.NewClient(credential, nil)
}

func ProvideWebAppsClient(subscription string, credential azcore.TokenCredential) (*armappservice.WebAppsClient, error) {
	return armappservice.NewWebAppsClient(subscription, credential, nil)
}

func ProvideStorageAccountsClient(subscription string, credential azcore.TokenCredential) (*armstorage.AccountsClient, error) {
	return armstorage.NewAccountsClient(subscription, credential, nil)
}

func ProvideComponentsClient(subscription string, credential azcore.TokenCredential) (*armapplicationinsights.ComponentsClient, error) {
	return armapplicationinsights.NewComponentsClient(subscription, credential, nil)
}

func ProvideWorkspacesClient(subscription string, credential azcore.TokenCredential) (*armoperationalinsights.WorkspacesClient, error) {
	return armoperationalinsights.NewWorkspacesClient(subscription, credential, nil)
}

func ProvideAuthChecker(credential azcore.TokenCredential, subscriptions *armsubscriptions.Client, subscription string) *preflight.AuthChecker {
	return preflight.NewAuthChecker(credential, subscriptions, subscription)
}

func ProvideProvisioner(auth *preflight.AuthChecker, resources *services.ResourceService, validator *policy.Validator) *orchestrator.Provisioner {
	return orchestrator.NewProvisioner(auth, resources, validator)
}

func ProvideDeployer(tools *preflight.ToolChecker, auth *preflight.AuthChecker, resources *services.ResourceService, apps *services.FunctionAppService, builder *packaging.Builder, store *services.StorageService) *orchestrator.Deployer {
	return orchestrator.NewDeployer(tools, auth, resources, apps, builder, store)
}

func ProvideReporter(auth *preflight.AuthChecker, resources *services.ResourceService, apps *services.FunctionAppService, insights *services.InsightsService) *orchestrator.Reporter {
	return orchestrator.NewReporter(auth, resources, apps, insights)
}
