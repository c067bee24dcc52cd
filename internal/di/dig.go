// Package di provides a lightweight wrapper around uber's dig dependency injection framework.
// It simplifies container setup and provides type-safe dependency retrieval with generics.
package di

import (
	"github.com/Azure/azure-sdk-for-go/sdk/azcore"
	"go.uber.org/dig"

	"github.com/DangerousDarlow/AzureFunctionsApp/internal/policy"
	"github.com/DangerousDarlow/AzureFunctionsApp/internal/services"
)

// Container defines a dependency injection container based on uber's dig.
// This interface allows for easy testing and mocking of the DI container.
type Container interface {
	// Invoke executes a function, injecting its dependencies from the container.
	Invoke(function any, opts ...dig.InvokeOption) error

	// Provide registers a constructor function in the container.
	Provide(constructor any, opts ...dig.ProvideOption) error

	// Scope creates a scoped sub-container with its own set of values.
	Scope(name string, opts ...dig.ScopeOption) *dig.Scope
}

// MustGet returns an instance constructed via dependency injection or panics.
// This is a convenience function for retrieving a dependency from the container
// when you're certain it exists. If the dependency cannot be resolved, it will panic.
//
// Example:
//
//	provisioner := MustGet[*orchestrator.Provisioner](container)
func MustGet[T any](container Container) (want T) {
	callback := func(got T) {
		want = got
	}
	if err := container.Invoke(callback); err != nil {
		panic(err)
	}
	return want
}

// New creates a new dependency injection container for the given subscription.
// The subscription id is automatically registered as a string dependency that
// can be injected as a regular string parameter.
//
// Example:
//
//	container, err := New("00000000-0000-0000-0000-000000000000",
//	    WithProviders(
//	        func() *preflight.ToolChecker { return preflight.NewToolChecker("dotnet") },
//	    ),
//	)
func New(subscription string, opts ...Option) (Container, error) {
	// Build options
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	// Create dig container
	container := dig.New()
	if err := container.Provide(func() string { return subscription }); err != nil {
		return nil, err
	}

	// A caller-supplied credential replaces the default chain
	if o.credential != nil {
		credential := o.credential
		if err := container.Provide(func() azcore.TokenCredential { return credential }); err != nil {
			return nil, err
		}
	} else {
		if err := container.Provide(ProvideCredential); err != nil {
			return nil, err
		}
	}

	// Register all provided constructors
	for _, provider := range core {
		if err := container.Provide(provider); err != nil {
			return nil, err
		}
	}

	// Register all provided constructors
	for _, provider := range o.providers {
		if err := container.Provide(provider); err != nil {
			return nil, err
		}
	}

	return container, nil
}

var core = []any{
	ProvideResourceGroupsClient,
	ProvideDeploymentsClient,
	ProvideSubscriptionsClient,
	ProvideWebAppsClient,
	ProvideStorageAccountsClient,
	ProvideComponentsClient,
	ProvideWorkspacesClient,
	ProvideAuthChecker,
	ProvideProvisioner,
	ProvideDeployer,
	ProvideReporter,
	policy.NewValidator,
	services.NewResourceService,
	services.NewFunctionAppService,
	services.NewStorageService,
	services.NewInsightsService,
}
