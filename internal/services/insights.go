package services

import (
	"context"
	"fmt"

	"github.com/Azure/azure-sdk-for-go/sdk/resourcemanager/applicationinsights/armapplicationinsights"
	"github.com/Azure/azure-sdk-for-go/sdk/resourcemanager/operationalinsights/armoperationalinsights/v2"
)

// TelemetryInfo holds the connection details of an Application Insights
// component.
type TelemetryInfo struct {
	InstrumentationKey string
	ConnectionString   string
	WorkspaceID        string
}

// InsightsService reads the telemetry resources backing the function app.
type InsightsService struct {
	components *armapplicationinsights.ComponentsClient
	workspaces *armoperationalinsights.WorkspacesClient
}

// NewInsightsService creates an InsightsService from monitoring clients.
func NewInsightsService(components *armapplicationinsights.ComponentsClient, workspaces *armoperationalinsights.WorkspacesClient) *InsightsService {
	return &InsightsService{
		components: components,
		workspaces: workspaces,
	}
}

// Component returns the instrumentation key and connection string of the
// Application Insights component.
func (s *InsightsService) Component(ctx context.Context, group, name string) (*TelemetryInfo, error) {
	resp, err := s.components.Get(ctx, group, name, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to get application insights component %s: %w", name, err)
	}

	info := &TelemetryInfo{}
	if resp.Properties != nil {
		if resp.Properties.InstrumentationKey != nil {
			info.InstrumentationKey = *resp.Properties.InstrumentationKey
		}
		if resp.Properties.ConnectionString != nil {
			info.ConnectionString = *resp.Properties.ConnectionString
		}
		if resp.Properties.WorkspaceResourceID != nil {
			info.WorkspaceID = *resp.Properties.WorkspaceResourceID
		}
	}
	return info, nil
}

// WorkspaceCustomerID returns the customer ID of the log analytics workspace,
// the identifier queries run against.
func (s *InsightsService) WorkspaceCustomerID(ctx context.Context, group, name string) (string, error) {
	resp, err := s.workspaces.Get(ctx, group, name, nil)
	if err != nil {
		return "", fmt.Errorf("failed to get log workspace %s: %w", name, err)
	}
	if resp.Properties == nil || resp.Properties.CustomerID == nil {
		return "", nil
	}
	return *resp.Properties.CustomerID, nil
}
