package orchestrator

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/DangerousDarlow/AzureFunctionsApp/internal/errors"
	"github.com/DangerousDarlow/AzureFunctionsApp/internal/models"
	"github.com/DangerousDarlow/AzureFunctionsApp/internal/naming"
	"github.com/DangerousDarlow/AzureFunctionsApp/internal/services"
)

// InsightsAPI is the telemetry surface the status flow depends on.
type InsightsAPI interface {
	Component(ctx context.Context, group, name string) (*services.TelemetryInfo, error)
	WorkspaceCustomerID(ctx context.Context, group, name string) (string, error)
}

// Reporter assembles the status report for a deployed function app.
type Reporter struct {
	auth     AuthChecker
	groups   GroupAPI
	apps     AppAPI
	insights InsightsAPI
}

// NewReporter creates a Reporter.
func NewReporter(auth AuthChecker, groups GroupAPI, apps AppAPI, insights InsightsAPI) *Reporter {
	return &Reporter{
		auth:     auth,
		groups:   groups,
		apps:     apps,
		insights: insights,
	}
}

// Run reports the state of the function app and its monitoring stack. The
// group and app must exist; telemetry reads are best effort so a partially
// provisioned stack still yields a report.
func (r *Reporter) Run(ctx context.Context, names naming.Names) (*models.AppStatus, error) {
	logger := zerolog.Ctx(ctx)

	if err := r.auth.Check(ctx); err != nil {
		return nil, err
	}

	exists, err := r.groups.GroupExists(ctx, names.ResourceGroup)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, fmt.Errorf("%w: %s", errors.ErrResourceGroupNotFound, names.ResourceGroup)
	}

	appExists, err := r.apps.Exists(ctx, names.ResourceGroup, names.FunctionApp)
	if err != nil {
		return nil, err
	}
	if !appExists {
		return nil, fmt.Errorf("%w: %s", errors.ErrFunctionAppNotFound, names.FunctionApp)
	}

	info, err := r.apps.Describe(ctx, names.ResourceGroup, names.FunctionApp)
	if err != nil {
		return nil, err
	}

	status := &models.AppStatus{
		FunctionApp:   names.FunctionApp,
		ResourceGroup: names.ResourceGroup,
		State:         info.State,
		HostName:      info.HostName,
	}

	telemetry, err := r.insights.Component(ctx, names.ResourceGroup, names.AppInsights)
	if err != nil {
		logger.Warn().Err(err).Msg("Unable to read telemetry component")
	} else {
		status.InstrumentationKey = telemetry.InstrumentationKey
		status.ConnectionString = telemetry.ConnectionString
	}

	workspaceID, err := r.insights.WorkspaceCustomerID(ctx, names.ResourceGroup, names.LogWorkspace)
	if err != nil {
		logger.Warn().Err(err).Msg("Unable to read log workspace")
	} else {
		status.LogWorkspaceID = workspaceID
	}

	return status, nil
}
