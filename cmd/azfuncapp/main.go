package main

import (
	"context"
	"os"

	"github.com/DangerousDarlow/AzureFunctionsApp/cmd/azfuncapp/commands"
	"github.com/DangerousDarlow/AzureFunctionsApp/internal/di"
	"github.com/urfave/cli/v2"
)

func main() {
	logger := di.ProvideLogger()
	ctx := logger.WithContext(context.Background())

	app := &cli.App{
		Name:  "azfuncapp",
		Usage: "Azure Functions provisioning and deployment toolkit",
		Description: `A unified CLI tool for running an Azure Functions application from a single
machine: one command provisions the infrastructure, another builds and ships
the code.

This tool provides commands for:
  - Provisioning the storage, telemetry, hosting plan and function app resources
  - Building the project and publishing the package to the function app
  - Inspecting the state of a provisioned application
  - Tearing the whole environment down again`,
		Commands: []*cli.Command{
			commands.ProvisionCommand(&logger),
			commands.DeployCommand(&logger),
			commands.StatusCommand(&logger),
			commands.TeardownCommand(&logger),
		},
	}

	if err := app.RunContext(ctx, os.Args); err != nil {
		logger.Error().Err(err).Msg("Application error")
		os.Exit(1)
	}
}
