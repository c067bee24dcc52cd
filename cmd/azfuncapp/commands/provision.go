package commands

import (
	"fmt"

	"github.com/DangerousDarlow/AzureFunctionsApp/internal/armtemplate"
	"github.com/DangerousDarlow/AzureFunctionsApp/internal/di"
	"github.com/DangerousDarlow/AzureFunctionsApp/internal/orchestrator"
	"github.com/DangerousDarlow/AzureFunctionsApp/internal/params"
	"github.com/rs/zerolog"
	"github.com/urfave/cli/v2"
)

// ProvisionCommand returns the provision command for creating or updating the
// application infrastructure
func ProvisionCommand(logger *zerolog.Logger) *cli.Command {
	return &cli.Command{
		Name:  "provision",
		Usage: "Create or update the application infrastructure",
		Description: `Provisions every Azure resource the application needs: a storage account, a
Log Analytics workspace, a workspace-backed Application Insights component, a
hosting plan and the function app itself, optionally with a static web app.

Resources are described by a generated ARM template deployed into the
resource group rg-{base-name}-{environment}, which is created when missing.
The template is checked against the resource policy and validated by Azure
before submission. Provisioning the same target again is safe: the deployment
runs in incremental mode and reconciles the existing resources.

Examples:
  # Provision using defaults from azfuncapp.yaml
  azfuncapp provision

  # Provision a named app into a specific region
  azfuncapp provision --base-name myapp --location uksouth

  # Provision production with a static web app
  azfuncapp provision --base-name myapp --location uksouth --environment prd --static-site

  # Deploy a hand-written template instead of the generated one
  azfuncapp provision --base-name myapp --location uksouth --template ./azuredeploy.json`,
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
				Name:    "location",
				Aliases: []string{"l"},
				Usage:   "Azure region to deploy into",
			},
			&cli.StringFlag{
				Name:    "parameters",
				Aliases: []string{"p"},
				Usage:   "Path to an ARM deployment parameters file",
			},
			&cli.StringFlag{
				Name:    "template",
				Aliases: []string{"t"},
				Usage:   "Path to an ARM template to deploy instead of the generated one",
			},
			&cli.StringFlag{
				Name:  "config",
				Usage: "Path to the tool config file",
			},
			&cli.BoolFlag{
				Name:  "static-site",
				Usage: "Include a static web app alongside the function app",
			},
			&cli.BoolFlag{
				Name:  "skip-validation",
				Usage: "Submit the template without policy checks or Azure validation",
			},
		},
		Action: provisionAction,
	}
}

func provisionAction(c *cli.Context) error {
	t, err := resolveTarget(c)
	if err != nil {
		return err
	}
	if t.Location == "" {
		return fmt.Errorf("--location is required")
	}

	template, err := provisionTemplate(c, t)
	if err != nil {
		return err
	}

	overrides := map[string]any{
		"baseName":    t.Names.BaseName,
		"location":    t.Location,
		"environment": t.Names.Environment,
	}

	container, err := di.New(t.Subscription)
	if err != nil {
		return fmt.Errorf("failed to build container: %w", err)
	}

	provisioner := di.MustGet[*orchestrator.Provisioner](container)
	result, err := provisioner.Run(c.Context, orchestrator.ProvisionConfig{
		Names:          t.Names,
		Location:       t.Location,
		Template:       template,
		Parameters:     params.Merge(t.FileParams, overrides),
		SkipValidation: c.Bool("skip-validation"),
	})
	if err != nil {
		return err
	}

	fmt.Printf("\n✓ Provisioned %s\n", result.ResourceGroup)
	displayJSON(result)
	return nil
}

// provisionTemplate returns the template to deploy: the one named by
// --template when given, otherwise the generated default.
func provisionTemplate(c *cli.Context, t *target) (map[string]any, error) {
	if path := c.String("template"); path != "" {
		return armtemplate.LoadFile(path)
	}

	var opts []armtemplate.Option
	if c.Bool("static-site") || t.Config.StaticSite {
		opts = append(opts, armtemplate.WithStaticSite())
	}
	return armtemplate.NewBuilder(opts...).Build().Document()
}
