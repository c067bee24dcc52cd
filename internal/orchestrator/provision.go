// Package orchestrator drives the linear provision, deploy and status flows.
// Each flow is a single forward pass over narrow interfaces; any failed step
// terminates the run.
package orchestrator

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/DangerousDarlow/AzureFunctionsApp/internal/errors"
	"github.com/DangerousDarlow/AzureFunctionsApp/internal/models"
	"github.com/DangerousDarlow/AzureFunctionsApp/internal/naming"
	"github.com/DangerousDarlow/AzureFunctionsApp/internal/params"
	"github.com/DangerousDarlow/AzureFunctionsApp/internal/policy"
)

// Operation values reported by a provisioning run.
const (
	OperationCreate = "CREATE"
	OperationUpdate = "UPDATE"
)

// AuthChecker verifies the operator can reach the subscription before any
// resource is touched.
type AuthChecker interface {
	Check(ctx context.Context) error
}

// GroupAPI is the read-only resource group surface shared by every flow.
type GroupAPI interface {
	GroupExists(ctx context.Context, name string) (bool, error)
}

// ResourceAPI extends GroupAPI with group mutation and template deployment.
type ResourceAPI interface {
	GroupAPI
	EnsureGroup(ctx context.Context, name, location string) error
	ValidateDeployment(ctx context.Context, group, name string, template map[string]any, parameters map[string]params.Value) error
	SubmitDeployment(ctx context.Context, group, name string, template map[string]any, parameters map[string]params.Value) (models.Outputs, error)
}

// TemplateValidator evaluates a template document against the deployment
// policy.
type TemplateValidator interface {
	ValidateTemplate(ctx context.Context, template map[string]any) (*policy.ValidationResult, error)
}

// ProvisionConfig carries everything one provisioning run needs.
type ProvisionConfig struct {
	Names          naming.Names
	Location       string
	Template       map[string]any
	Parameters     map[string]params.Value
	SkipValidation bool
}

// Provisioner creates or updates the function app infrastructure by
// submitting the resource template to ARM.
type Provisioner struct {
	auth      AuthChecker
	resources ResourceAPI
	validator TemplateValidator
}

// NewProvisioner creates a Provisioner.
func NewProvisioner(auth AuthChecker, resources ResourceAPI, validator TemplateValidator) *Provisioner {
	return &Provisioner{
		auth:      auth,
		resources: resources,
		validator: validator,
	}
}

// Run executes the provisioning flow: verify access, ensure the resource
// group, validate the template, submit the deployment and collect its
// outputs.
func (p *Provisioner) Run(ctx context.Context, cfg ProvisionConfig) (result *models.ProvisionResult, err error) {
	logger := zerolog.Ctx(ctx)

	defer func(begin time.Time) {
		logger.Info().
			Interface("error", err).
			Str("resource_group", cfg.Names.ResourceGroup).
			Dur("duration", time.Since(begin)).
			Msg("Provisioning finished")
	}(time.Now())

	logger.Info().Str("function_app", cfg.Names.FunctionApp).Msg("Step 1: Verifying Azure access")
	if err := p.auth.Check(ctx); err != nil {
		return nil, err
	}

	logger.Info().Str("resource_group", cfg.Names.ResourceGroup).Msg("Step 2: Ensuring resource group")
	exists, err := p.resources.GroupExists(ctx, cfg.Names.ResourceGroup)
	if err != nil {
		return nil, err
	}
	operation := OperationUpdate
	if !exists {
		operation = OperationCreate
	}
	if err := p.resources.EnsureGroup(ctx, cfg.Names.ResourceGroup, cfg.Location); err != nil {
		return nil, err
	}

	deploymentName := cfg.Names.DeploymentName()

	if cfg.SkipValidation {
		logger.Warn().Msg("Step 3: Skipping template validation")
	} else {
		logger.Info().Msg("Step 3: Validating template")
		verdict, err := p.validator.ValidateTemplate(ctx, cfg.Template)
		if err != nil {
			return nil, fmt.Errorf("failed to validate template: %w", err)
		}
		if !verdict.Allowed {
			return nil, fmt.Errorf("%w: %s", errors.ErrPolicyViolation, strings.Join(verdict.Violations, "; "))
		}

		if err := p.resources.ValidateDeployment(ctx, cfg.Names.ResourceGroup, deploymentName, cfg.Template, cfg.Parameters); err != nil {
			return nil, err
		}
	}

	logger.Info().Str("deployment", deploymentName).Msg("Step 4: Submitting deployment")
	outputs, err := p.resources.SubmitDeployment(ctx, cfg.Names.ResourceGroup, deploymentName, cfg.Template, cfg.Parameters)
	if err != nil {
		return nil, err
	}

	return &models.ProvisionResult{
		ResourceGroup:  cfg.Names.ResourceGroup,
		DeploymentName: deploymentName,
		Operation:      operation,
		Outputs:        outputs,
	}, nil
}
