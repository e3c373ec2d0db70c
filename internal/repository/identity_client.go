package repository

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"
)

// IdentityClient removes identity-provider records during account deletion.
// The provider itself is external; this client only speaks to its admin API.
type IdentityClient struct {
	baseURL string
	client  *http.Client
}

// NewIdentityClient constructs the client. An empty baseURL makes deletion a
// no-op, for deployments where the identity provider handles erasure itself.
func NewIdentityClient(baseURL string) *IdentityClient {
	return &IdentityClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: 10 * time.Second},
	}
}

// DeleteIdentity erases the identity record for the account.
func (c *IdentityClient) DeleteIdentity(ctx context.Context, accountID string) error {
	if c.baseURL == "" {
		return nil
	}

	url := fmt.Sprintf("%s/admin/users/%s", c.baseURL, accountID)
	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, url, nil)
	if err != nil {
		return fmt.Errorf("build identity delete request: %w", err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("delete identity %s: %w", accountID, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 && resp.StatusCode != http.StatusNotFound {
		return fmt.Errorf("delete identity %s: unexpected status %d", accountID, resp.StatusCode)
	}
	return nil
}
