package services

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore/to"
	"github.com/Azure/azure-sdk-for-go/sdk/resourcemanager/resources/armresources"
	"github.com/rs/zerolog"

	"github.com/DangerousDarlow/AzureFunctionsApp/internal/constants"
	"github.com/DangerousDarlow/AzureFunctionsApp/internal/errors"
	"github.com/DangerousDarlow/AzureFunctionsApp/internal/models"
	"github.com/DangerousDarlow/AzureFunctionsApp/internal/params"
)

// ResourceService manages resource groups and ARM template deployments.
type ResourceService struct {
	groups      *armresources.ResourceGroupsClient
	deployments *armresources.DeploymentsClient
}

// NewResourceService creates a ResourceService from resource manager clients.
func NewResourceService(groups *armresources.ResourceGroupsClient, deployments *armresources.DeploymentsClient) *ResourceService {
	return &ResourceService{
		groups:      groups,
		deployments: deployments,
	}
}

// GroupExists reports whether the resource group exists in the subscription.
func (s *ResourceService) GroupExists(ctx context.Context, name string) (bool, error) {
	resp, err := s.groups.CheckExistence(ctx, name, nil)
	if err != nil {
		return false, fmt.Errorf("failed to check resource group %s: %w", name, err)
	}
	return resp.Success, nil
}

// EnsureGroup creates the resource group if it does not exist and tags it as
// managed by this tool. The call is idempotent.
func (s *ResourceService) EnsureGroup(ctx context.Context, name, location string) error {
	group := armresources.ResourceGroup{
		Location: to.Ptr(location),
		Tags: map[string]*string{
			constants.ManagedByTagKey: to.Ptr(constants.ManagedByTagValue),
		},
	}
	if _, err := s.groups.CreateOrUpdate(ctx, name, group, nil); err != nil {
		return fmt.Errorf("failed to create resource group %s: %w", name, err)
	}
	return nil
}

// DeleteGroup deletes the resource group and everything in it, blocking until
// the deletion completes.
func (s *ResourceService) DeleteGroup(ctx context.Context, name string) (err error) {
	logger := zerolog.Ctx(ctx)

	defer func(begin time.Time) {
		logger.Info().
			Interface("error", err).
			Str("resource_group", name).
			Dur("duration", time.Since(begin)).
			Msg("Deleted resource group")
	}(time.Now())

	poller, err := s.groups.BeginDelete(ctx, name, nil)
	if err != nil {
		return fmt.Errorf("failed to delete resource group %s: %w", name, err)
	}
	if _, err := poller.PollUntilDone(ctx, nil); err != nil {
		return fmt.Errorf("failed to delete resource group %s: %w", name, err)
	}
	return nil
}

// ValidateDeployment submits the template to ARM for validation without
// deploying anything.
func (s *ResourceService) ValidateDeployment(ctx context.Context, group, name string, template map[string]any, parameters map[string]params.Value) error {
	poller, err := s.deployments.BeginValidate(ctx, group, name, deployment(template, parameters), nil)
	if err != nil {
		return fmt.Errorf("failed to validate deployment: %w", err)
	}
	resp, err := poller.PollUntilDone(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to validate deployment: %w", err)
	}
	if resp.Error != nil {
		return fmt.Errorf("deployment validation failed: %s", errorMessage(resp.Error))
	}
	return nil
}

// SubmitDeployment deploys the template into the resource group and returns
// the deployment outputs once provisioning completes.
func (s *ResourceService) SubmitDeployment(ctx context.Context, group, name string, template map[string]any, parameters map[string]params.Value) (outputs models.Outputs, err error) {
	logger := zerolog.Ctx(ctx)

	defer func(begin time.Time) {
		logger.Info().
			Interface("error", err).
			Str("resource_group", group).
			Str("deployment", name).
			Dur("duration", time.Since(begin)).
			Msg("Submitted deployment")
	}(time.Now())

	poller, err := s.deployments.BeginCreateOrUpdate(ctx, group, name, deployment(template, parameters), nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", errors.ErrDeploymentFailed, err)
	}
	resp, err := poller.PollUntilDone(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", errors.ErrDeploymentFailed, err)
	}
	if resp.Properties == nil {
		return models.Outputs{}, nil
	}
	return flattenOutputs(resp.Properties.Outputs), nil
}

func deployment(template map[string]any, parameters map[string]params.Value) armresources.Deployment {
	return armresources.Deployment{
		Properties: &armresources.DeploymentProperties{
			Template:   template,
			Parameters: parameters,
			Mode:       to.Ptr(armresources.DeploymentModeIncremental),
		},
	}
}

// flattenOutputs converts the raw ARM output map into name/value pairs.
// Non-string output values are kept as their JSON encoding.
func flattenOutputs(raw any) models.Outputs {
	outputs := models.Outputs{}
	entries, ok := raw.(map[string]any)
	if !ok {
		return outputs
	}
	for name, entry := range entries {
		fields, ok := entry.(map[string]any)
		if !ok {
			continue
		}
		switch value := fields["value"].(type) {
		case string:
			outputs[name] = value
		case nil:
		default:
			encoded, err := json.Marshal(value)
			if err != nil {
				continue
			}
			outputs[name] = string(encoded)
		}
	}
	return outputs
}

func errorMessage(e *armresources.ErrorResponse) string {
	if e == nil {
		return "unknown error"
	}
	var parts []string
	if e.Code != nil {
		parts = append(parts, *e.Code)
	}
	if e.Message != nil {
		parts = append(parts, *e.Message)
	}
	if len(parts) == 0 {
		return "unknown error"
	}
	return strings.Join(parts, ": ")
}
