package errors

import "errors"

var (
	ErrSubscriptionRequired  = errors.New("subscription id is required")
	ErrToolNotFound          = errors.New("required tool not found on PATH")
	ErrNotAuthenticated      = errors.New("unable to authenticate with Azure")
	ErrResourceGroupNotFound = errors.New("resource group not found")
	ErrFunctionAppNotFound   = errors.New("function app not found")
	ErrBuildFailed           = errors.New("project build failed")
	ErrPolicyViolation       = errors.New("template rejected by policy")
	ErrDeploymentFailed      = errors.New("deployment failed")
)
