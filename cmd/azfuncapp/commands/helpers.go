package commands

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/DangerousDarlow/AzureFunctionsApp/internal/config"
	"github.com/DangerousDarlow/AzureFunctionsApp/internal/errors"
	"github.com/DangerousDarlow/AzureFunctionsApp/internal/naming"
	"github.com/DangerousDarlow/AzureFunctionsApp/internal/params"
	"github.com/urfave/cli/v2"
)

// target is the deployment a command operates on: the subscription and the
// resource names resolved from the base name and environment.
type target struct {
	Subscription string
	Names        naming.Names
	Location     string
	Config       config.Config
	FileParams   map[string]any
}

// resolveTarget merges flags, the config file and the parameters file into
// the target of a command. Flags win over the config file, which wins over
// the parameters file.
func resolveTarget(c *cli.Context) (*target, error) {
	cfg, err := config.Load(c.String("config"))
	if err != nil {
		return nil, err
	}

	fileParams := map[string]any{}
	if path := config.Coalesce(c.String("parameters"), cfg.Parameters); path != "" {
		fileParams, err = params.Load(path)
		if err != nil {
			return nil, err
		}
	}

	subscription := config.Coalesce(c.String("subscription"), cfg.Subscription)
	if subscription == "" {
		return nil, fmt.Errorf("%w: pass --subscription or set AZURE_SUBSCRIPTION_ID", errors.ErrSubscriptionRequired)
	}

	baseName := config.Coalesce(c.String("base-name"), cfg.BaseName, params.String(fileParams, "baseName"))
	if baseName == "" {
		return nil, fmt.Errorf("--base-name is required")
	}
	environment := config.Coalesce(c.String("environment"), cfg.Environment, params.String(fileParams, "environment"), "dev")

	names, err := naming.Resolve(baseName, environment)
	if err != nil {
		return nil, err
	}

	return &target{
		Subscription: subscription,
		Names:        names,
		Location:     config.Coalesce(c.String("location"), cfg.Location, params.String(fileParams, "location")),
		Config:       cfg,
		FileParams:   fileParams,
	}, nil
}

// displayJSON prints the result as formatted JSON
func displayJSON(v any) {
	jsonBytes, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error marshaling JSON: %v\n", err)
		return
	}
	fmt.Println(string(jsonBytes))
}
