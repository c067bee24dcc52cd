package preflight

import (
	"context"
	"fmt"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore"
	"github.com/Azure/azure-sdk-for-go/sdk/azcore/policy"
	"github.com/Azure/azure-sdk-for-go/sdk/resourcemanager/resources/armsubscriptions"
	"github.com/rs/zerolog"

	"github.com/DangerousDarlow/AzureFunctionsApp/internal/constants"
	"github.com/DangerousDarlow/AzureFunctionsApp/internal/errors"
)

// SubscriptionAPI is the slice of the subscriptions client the auth check uses.
type SubscriptionAPI interface {
	Get(ctx context.Context, subscriptionID string, options *armsubscriptions.ClientGetOptions) (armsubscriptions.ClientGetResponse, error)
}

// AuthChecker verifies the operator credential can mint a management token
// and read the target subscription.
type AuthChecker struct {
	credential     azcore.TokenCredential
	subscriptions  SubscriptionAPI
	subscriptionID string
}

// NewAuthChecker creates a checker for the given credential and subscription.
func NewAuthChecker(credential azcore.TokenCredential, subscriptions SubscriptionAPI, subscriptionID string) *AuthChecker {
	return &AuthChecker{
		credential:     credential,
		subscriptions:  subscriptions,
		subscriptionID: subscriptionID,
	}
}

// Check fails when no token can be minted or the subscription is unreadable.
func (c *AuthChecker) Check(ctx context.Context) error {
	logger := zerolog.Ctx(ctx)

	if _, err := c.credential.GetToken(ctx, policy.TokenRequestOptions{
		Scopes: []string{constants.ARMScope},
	}); err != nil {
		return fmt.Errorf("%w: %v", errors.ErrNotAuthenticated, err)
	}

	sub, err := c.subscriptions.Get(ctx, c.subscriptionID, nil)
	if err != nil {
		return fmt.Errorf("%w: subscription %s is not accessible: %v", errors.ErrNotAuthenticated, c.subscriptionID, err)
	}

	name := ""
	if sub.DisplayName != nil {
		name = *sub.DisplayName
	}
	logger.Info().
		Str("subscription", c.subscriptionID).
		Str("name", name).
		Msg("Authenticated with Azure")
	return nil
}
