package commands

import (
	"fmt"

	"github.com/DangerousDarlow/AzureFunctionsApp/internal/config"
	"github.com/DangerousDarlow/AzureFunctionsApp/internal/di"
	"github.com/DangerousDarlow/AzureFunctionsApp/internal/orchestrator"
	"github.com/DangerousDarlow/AzureFunctionsApp/internal/packaging"
	"github.com/DangerousDarlow/AzureFunctionsApp/internal/preflight"
	"github.com/rs/zerolog"
	"github.com/urfave/cli/v2"
)

// DeployCommand returns the deploy command for building the project and
// publishing it to the function app
func DeployCommand(logger *zerolog.Logger) *cli.Command {
	return &cli.Command{
		Name:  "deploy",
		Usage: "Build the project and publish it to the function app",
		Description: `Builds the function project, archives the publish output into a zip package,
uploads the package to the application's storage account and points the
function app at it.

The infrastructure must already exist: deploy checks for the resource group
and the function app and stops with an error when either is missing. Run
provision first.

The package is served straight from blob storage: the function app receives a
read-only SAS URL in WEBSITE_RUN_FROM_PACKAGE and its triggers are synced so
the new code is picked up immediately.

Examples:
  # Build and deploy using defaults from azfuncapp.yaml
  azfuncapp deploy

  # Deploy a specific project
  azfuncapp deploy --base-name myapp --project ./src/MyApp

  # Deploy a debug build with a different build tool
  azfuncapp deploy --base-name myapp --configuration Debug --build-tool func`,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "subscription",
				Aliases: []string{"s"},
				Usage:   "Azure subscription to deploy into",
				EnvVars: []string{"AZURE_SUBSCRIPTION_ID"},
			},
			&cli.StringFlag{
				Name:    "base-name",
				Aliases: []string{"n"},
				Usage:   "Base name shared by every resource name",
			},
			&cli.StringFlag{
				Name:    "environment",
				Aliases: []string{"e"},
				Usage:   "Environment tag appended to every resource name (dev when unset)",
				EnvVars: []string{"AZFUNCAPP_ENVIRONMENT"},
			},
			&cli.StringFlag{
				Name:  "config",
				Usage: "Path to the tool config file",
			},
			&cli.StringFlag{
				Name:  "project",
				Usage: "Path to the function project to build (current directory when unset)",
			},
			&cli.StringFlag{
				Name:  "configuration",
				Usage: "Build configuration passed to the build tool (Release when unset)",
			},
			&cli.StringFlag{
				Name:  "output",
				Usage: "Directory the build publishes into",
			},
			&cli.StringFlag{
				Name:  "package",
				Usage: "Path of the zip package to produce",
			},
			&cli.StringFlag{
				Name:  "build-tool",
				Usage: "Tool used to publish the project",
			},
		},
		Action: deployAction,
	}
}

func deployAction(c *cli.Context) error {
	t, err := resolveTarget(c)
	if err != nil {
		return err
	}

	buildTool := config.Coalesce(c.String("build-tool"), t.Config.BuildTool, packaging.DefaultTool)

	container, err := di.New(t.Subscription,
		di.WithProviders(
			func() *preflight.ToolChecker { return preflight.NewToolChecker(buildTool) },
			func() *packaging.Builder { return packaging.NewBuilder(packaging.WithTool(buildTool)) },
		),
	)
	if err != nil {
		return fmt.Errorf("failed to build container: %w", err)
	}

	deployer := di.MustGet[*orchestrator.Deployer](container)
	result, err := deployer.Run(c.Context, orchestrator.DeployConfig{
		Names:         t.Names,
		Project:       config.Coalesce(c.String("project"), t.Config.Project, "."),
		Configuration: config.Coalesce(c.String("configuration"), t.Config.Configuration, "Release"),
		OutputDir:     config.Coalesce(c.String("output"), t.Config.Output, "publish"),
		PackagePath:   config.Coalesce(c.String("package"), t.Config.Package, t.Names.FunctionApp+".zip"),
	})
	if err != nil {
		return err
	}

	fmt.Printf("\n✓ Deployed %s\n", result.FunctionApp)
	displayJSON(result)
	return nil
}
