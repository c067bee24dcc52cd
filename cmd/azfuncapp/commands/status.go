package commands

import (
	"fmt"

	"github.com/DangerousDarlow/AzureFunctionsApp/internal/di"
	"github.com/DangerousDarlow/AzureFunctionsApp/internal/orchestrator"
	"github.com/rs/zerolog"
	"github.com/urfave/cli/v2"
)

// StatusCommand returns the status command for inspecting a provisioned app
func StatusCommand(logger *zerolog.Logger) *cli.Command {
	return &cli.Command{
		Name:  "status",
		Usage: "Show the state of a provisioned function app",
		Description: `Reports the current state of the function app along with its default host
name, telemetry keys and log workspace id.

Examples:
  # Status of the default target from azfuncapp.yaml
  azfuncapp status

  # Status of the production environment
  azfuncapp status --base-name myapp --environment prd`,
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
		},
		Action: statusAction,
	}
}

func statusAction(c *cli.Context) error {
	t, err := resolveTarget(c)
	if err != nil {
		return err
	}

	container, err := di.New(t.Subscription)
	if err != nil {
		return fmt.Errorf("failed to build container: %w", err)
	}

	reporter := di.MustGet[*orchestrator.Reporter](container)
	status, err := reporter.Run(c.Context, t.Names)
	if err != nil {
		return err
	}

	displayJSON(status)
	return nil
}
