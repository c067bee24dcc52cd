package services

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore"
	"github.com/Azure/azure-sdk-for-go/sdk/azcore/to"
	"github.com/Azure/azure-sdk-for-go/sdk/resourcemanager/appservice/armappservice/v4"
	"github.com/rs/zerolog"
)

// AppInfo describes the observable state of a deployed function app.
type AppInfo struct {
	Name     string
	State    string
	HostName string
}

// FunctionAppService manages the function app site and its application settings.
type FunctionAppService struct {
	apps *armappservice.WebAppsClient
}

// NewFunctionAppService creates a FunctionAppService from a web apps client.
func NewFunctionAppService(apps *armappservice.WebAppsClient) *FunctionAppService {
	return &FunctionAppService{apps: apps}
}

// Exists reports whether the function app exists in the resource group.
func (s *FunctionAppService) Exists(ctx context.Context, group, app string) (bool, error) {
	_, err := s.apps.Get(ctx, group, app, nil)
	if err != nil {
		if isNotFound(err) {
			return false, nil
		}
		return false, fmt.Errorf("failed to get function app %s: %w", app, err)
	}
	return true, nil
}

// Describe returns the current state and host name of the function app.
func (s *FunctionAppService) Describe(ctx context.Context, group, app string) (*AppInfo, error) {
	resp, err := s.apps.Get(ctx, group, app, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to get function app %s: %w", app, err)
	}

	info := &AppInfo{Name: app}
	if resp.Properties != nil {
		if resp.Properties.State != nil {
			info.State = *resp.Properties.State
		}
		if resp.Properties.DefaultHostName != nil {
			info.HostName = *resp.Properties.DefaultHostName
		}
	}
	return info, nil
}

// ApplySettings merges the given settings into the app's existing application
// settings. Settings not named are left untouched.
func (s *FunctionAppService) ApplySettings(ctx context.Context, group, app string, settings map[string]string) error {
	logger := zerolog.Ctx(ctx)

	current, err := s.apps.ListApplicationSettings(ctx, group, app, nil)
	if err != nil {
		return fmt.Errorf("failed to list application settings: %w", err)
	}

	merged := map[string]*string{}
	if current.Properties != nil {
		merged = current.Properties
	}
	for name, value := range settings {
		merged[name] = to.Ptr(value)
	}

	_, err = s.apps.UpdateApplicationSettings(ctx, group, app, armappservice.StringDictionary{
		Properties: merged,
	}, nil)
	if err != nil {
		return fmt.Errorf("failed to update application settings: %w", err)
	}

	logger.Info().
		Str("function_app", app).
		Int("settings", len(settings)).
		Msg("Applied application settings")
	return nil
}

// SyncTriggers asks the Functions host to re-read trigger metadata from the
// deployed package.
func (s *FunctionAppService) SyncTriggers(ctx context.Context, group, app string) error {
	if _, err := s.apps.SyncFunctionTriggers(ctx, group, app, nil); err != nil {
		return fmt.Errorf("failed to sync function triggers: %w", err)
	}
	return nil
}

func isNotFound(err error) bool {
	var respErr *azcore.ResponseError
	return errors.As(err, &respErr) && respErr.StatusCode == http.StatusNotFound
}
