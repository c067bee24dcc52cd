package di

import "github.com/Azure/azure-sdk-for-go/sdk/azcore"

// Option is a function that configures the dependency injection container.
type Option func(*options)

// WithCredential replaces the default Azure credential chain. Callers with a
// pre-built credential use this to skip the environment probe.
func WithCredential(credential azcore.TokenCredential) Option {
	return func(opts *options) {
		opts.credential = credential
	}
}

// WithProviders adds constructor functions to the dependency injection container.
// Each provider should be a constructor function that returns one or more values.
// Providers can declare dependencies as function parameters, which will be
// automatically resolved by the container.
//
// Example:
//
//	WithProviders(
//	    func() *preflight.ToolChecker { return preflight.NewToolChecker("dotnet") },
//	    func() *packaging.Builder { return packaging.NewBuilder() },
//	)
func WithProviders(providers ...any) Option {
	return func(opts *options) {
		opts.providers = append(opts.providers, providers...)
	}
}

type options struct {
	credential azcore.TokenCredential
	providers  []any
}
