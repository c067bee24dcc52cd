package orchestrator

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/DangerousDarlow/AzureFunctionsApp/internal/constants"
	"github.com/DangerousDarlow/AzureFunctionsApp/internal/errors"
	"github.com/DangerousDarlow/AzureFunctionsApp/internal/models"
	"github.com/DangerousDarlow/AzureFunctionsApp/internal/naming"
	"github.com/DangerousDarlow/AzureFunctionsApp/internal/services"
)

// ToolChecker verifies required local build tools are installed.
type ToolChecker interface {
	Check() error
}

// AppAPI is the function app surface the deploy and status flows depend on.
type AppAPI interface {
	Exists(ctx context.Context, group, app string) (bool, error)
	Describe(ctx context.Context, group, app string) (*services.AppInfo, error)
	ApplySettings(ctx context.Context, group, app string, settings map[string]string) error
	SyncTriggers(ctx context.Context, group, app string) error
}

// PackageBuilder builds the function project and archives the publish output.
type PackageBuilder interface {
	Build(ctx context.Context, project, configuration, outputDir string) error
	Archive(ctx context.Context, outputDir, packagePath string) error
}

// PackageStore uploads deployment packages to the app's storage account.
type PackageStore interface {
	UploadPackage(ctx context.Context, group, account, blobName, packagePath string) (*services.PackageLocation, error)
}

// DeployConfig carries everything one deployment run needs.
type DeployConfig struct {
	Names         naming.Names
	Project       string
	Configuration string
	OutputDir     string
	PackagePath   string
}

// Deployer builds the function project and ships the package to an already
// provisioned function app.
type Deployer struct {
	tools   ToolChecker
	auth    AuthChecker
	groups  GroupAPI
	apps    AppAPI
	builder PackageBuilder
	store   PackageStore
}

// NewDeployer creates a Deployer.
func NewDeployer(tools ToolChecker, auth AuthChecker, groups GroupAPI, apps AppAPI, builder PackageBuilder, store PackageStore) *Deployer {
	return &Deployer{
		tools:   tools,
		auth:    auth,
		groups:  groups,
		apps:    apps,
		builder: builder,
		store:   store,
	}
}

// Run executes the deployment flow. The infrastructure must exist already;
// provisioning is a separate concern.
func (d *Deployer) Run(ctx context.Context, cfg DeployConfig) (result *models.DeployResult, err error) {
	logger := zerolog.Ctx(ctx)

	defer func(begin time.Time) {
		logger.Info().
			Interface("error", err).
			Str("function_app", cfg.Names.FunctionApp).
			Dur("duration", time.Since(begin)).
			Msg("Deployment finished")
	}(time.Now())

	logger.Info().Msg("Step 1: Checking required tools")
	if err := d.tools.Check(); err != nil {
		return nil, err
	}

	logger.Info().Msg("Step 2: Verifying Azure access")
	if err := d.auth.Check(ctx); err != nil {
		return nil, err
	}

	logger.Info().Str("resource_group", cfg.Names.ResourceGroup).Msg("Step 3: Checking resource group")
	exists, err := d.groups.GroupExists(ctx, cfg.Names.ResourceGroup)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, fmt.Errorf("%w: %s (run provision first)", errors.ErrResourceGroupNotFound, cfg.Names.ResourceGroup)
	}

	logger.Info().Str("function_app", cfg.Names.FunctionApp).Msg("Step 4: Checking function app")
	appExists, err := d.apps.Exists(ctx, cfg.Names.ResourceGroup, cfg.Names.FunctionApp)
	if err != nil {
		return nil, err
	}
	if !appExists {
		return nil, fmt.Errorf("%w: %s (run provision first)", errors.ErrFunctionAppNotFound, cfg.Names.FunctionApp)
	}

	logger.Info().Str("project", cfg.Project).Msg("Step 5: Building deployment package")
	if err := d.builder.Build(ctx, cfg.Project, cfg.Configuration, cfg.OutputDir); err != nil {
		return nil, err
	}
	if err := d.builder.Archive(ctx, cfg.OutputDir, cfg.PackagePath); err != nil {
		return nil, err
	}

	blobName := fmt.Sprintf("%s.zip", cfg.Names.DeploymentName())
	logger.Info().Str("blob", blobName).Msg("Step 6: Uploading package")
	location, err := d.store.UploadPackage(ctx, cfg.Names.ResourceGroup, cfg.Names.StorageAccount, blobName, cfg.PackagePath)
	if err != nil {
		return nil, err
	}

	logger.Info().Msg("Step 7: Activating the new package")
	settings := map[string]string{
		constants.SettingRunFromPackage: location.SASURL,
	}
	if err := d.apps.ApplySettings(ctx, cfg.Names.ResourceGroup, cfg.Names.FunctionApp, settings); err != nil {
		return nil, err
	}
	if err := d.apps.SyncTriggers(ctx, cfg.Names.ResourceGroup, cfg.Names.FunctionApp); err != nil {
		return nil, err
	}

	result = &models.DeployResult{
		FunctionApp: cfg.Names.FunctionApp,
		PackageBlob: location.BlobURL,
	}

	info, err := d.apps.Describe(ctx, cfg.Names.ResourceGroup, cfg.Names.FunctionApp)
	if err != nil {
		logger.Warn().Err(err).Msg("Unable to read back the function app host name")
		return result, nil
	}
	result.HostName = info.HostName
	return result, nil
}
