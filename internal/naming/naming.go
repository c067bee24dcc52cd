// Package naming derives the name of every managed Azure resource from a base
// name and an environment tag. The derivation is deterministic: the same
// inputs always produce the same names, so every command resolves the same
// resources without shared state between runs.
package naming

import (
	"fmt"
	"strings"

	"github.com/segmentio/ksuid"
)

const (
	storageSuffix = "san"

	// Azure caps storage account names at 24 characters
	maxStorageNameLength = 24
)

// Names holds the resolved resource names for one base name and environment pair.
type Names struct {
	BaseName       string
	Environment    string
	ResourceGroup  string
	FunctionApp    string
	StorageAccount string
	LogWorkspace   string
	AppInsights    string
	HostingPlan    string
	StaticSite     string
}

// Resolve derives every dependent resource name from base and environment.
func Resolve(base, environment string) (Names, error) {
	if base == "" {
		return Names{}, fmt.Errorf("base name is required")
	}
	if environment == "" {
		return Names{}, fmt.Errorf("environment is required")
	}

	app := fmt.Sprintf("%s-%s", base, environment)

	return Names{
		BaseName:       base,
		Environment:    environment,
		ResourceGroup:  fmt.Sprintf("rg-%s", app),
		FunctionApp:    app,
		StorageAccount: storageAccountName(app),
		LogWorkspace:   app + "-law",
		AppInsights:    app + "-ai",
		HostingPlan:    app + "-asp",
		StaticSite:     app + "-swa",
	}, nil
}

// DeploymentName returns a unique name for one template deployment. The ksuid
// suffix keeps deployment history distinguishable in the resource group.
func (n Names) DeploymentName() string {
	return fmt.Sprintf("%s-%s", n.FunctionApp, ksuid.New().String())
}

// storageAccountName converts a function app name into a valid storage account
// name: lowercase alphanumerics only, at most 24 characters, always carrying
// the storage suffix.
func storageAccountName(app string) string {
	sanitized := strings.ToLower(strings.ReplaceAll(app, "-", ""))
	if max := maxStorageNameLength - len(storageSuffix); len(sanitized) > max {
		sanitized = sanitized[:max]
	}
	return sanitized + storageSuffix
}
