package commands

import (
	"fmt"
	"strings"

	"github.com/DangerousDarlow/AzureFunctionsApp/internal/di"
	"github.com/DangerousDarlow/AzureFunctionsApp/internal/errors"
	"github.com/DangerousDarlow/AzureFunctionsApp/internal/preflight"
	"github.com/DangerousDarlow/AzureFunctionsApp/internal/services"
	"github.com/rs/zerolog"
	"github.com/urfave/cli/v2"
)

// TeardownCommand returns the teardown command for deleting the application
// infrastructure
func TeardownCommand(logger *zerolog.Logger) *cli.Command {
	return &cli.Command{
		Name:  "teardown",
		Usage: "Delete the resource group and everything in it",
		Description: `Deletes the application's resource group, removing the function app, its
storage account, telemetry and every other resource in the group.

This cannot be undone. The command asks for confirmation unless --force is
given.

Examples:
  # Tear down with a confirmation prompt
  azfuncapp teardown --base-name myapp

  # Tear down the production environment without prompting
  azfuncapp teardown --base-name myapp --environment prd --force`,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "subscription",
				Aliases: []string{"s"},
				Usage:   "Azure subscription holding the app",
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
			&cli.BoolFlag{
				Name:    "force",
				Aliases: []string{"f"},
				Usage:   "Skip confirmation prompt",
			},
		},
		Action: teardownAction,
	}
}

func teardownAction(c *cli.Context) error {
	ctx := c.Context
	logger := zerolog.Ctx(ctx)

	t, err := resolveTarget(c)
	if err != nil {
		return err
	}

	container, err := di.New(t.Subscription)
	if err != nil {
		return fmt.Errorf("failed to build container: %w", err)
	}

	auth := di.MustGet[*preflight.AuthChecker](container)
	resources := di.MustGet[*services.ResourceService](container)

	if err := auth.Check(ctx); err != nil {
		return err
	}

	exists, err := resources.GroupExists(ctx, t.Names.ResourceGroup)
	if err != nil {
		return fmt.Errorf("failed to check resource group: %w", err)
	}
	if !exists {
		return fmt.Errorf("%w: %s", errors.ErrResourceGroupNotFound, t.Names.ResourceGroup)
	}

	if !c.Bool("force") {
		fmt.Printf("About to delete resource group %s and every resource in it.\n", t.Names.ResourceGroup)
		fmt.Print("Are you sure? (yes/no): ")
		var response string
		fmt.Scanln(&response)
		response = strings.ToLower(strings.TrimSpace(response))
		if response != "yes" && response != "y" {
			fmt.Println("Teardown cancelled")
			return nil
		}
	}

	logger.Info().Str("resource_group", t.Names.ResourceGroup).Msg("Deleting resource group")
	if err := resources.DeleteGroup(ctx, t.Names.ResourceGroup); err != nil {
		return err
	}

	fmt.Printf("\n✓ Deleted resource group %s\n", t.Names.ResourceGroup)
	return nil
}
