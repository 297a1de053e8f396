// Package user is the client for user lookup, including per-user digest
// personalization settings.
package user

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"digestly/internal/core"
	"digestly/internal/digest"
)

// Finder is the user lookup collaborator interface.
type Finder interface {
	Find(ctx context.Context, userID string) (*core.User, error)
}

// Client is an HTTP Finder against the library API.
type Client struct {
	baseURL string
	apiKey  string
	client  *http.Client
}

// NewClient creates a user lookup client.
func NewClient(baseURL, apiKey string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		baseURL: baseURL,
		apiKey:  apiKey,
		client:  &http.Client{Timeout: timeout},
	}
}

// Find fetches the user record. A 404 maps to digest.ErrUserNotFound.
func (c *Client) Find(ctx context.Context, userID string) (*core.User, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/api/users/"+userID, nil)
	if err != nil {
		return nil, fmt.Errorf("building request: %w", err)
	}
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("user request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode == http.StatusNotFound {
		return nil, fmt.Errorf("%w: %s", digest.ErrUserNotFound, userID)
	}
	if resp.StatusCode != http.StatusOK {
		raw, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("user service returned status %d: %s", resp.StatusCode, string(raw))
	}

	var u core.User
	if err := json.NewDecoder(resp.Body).Decode(&u); err != nil {
		return nil, fmt.Errorf("decoding user response: %w", err)
	}
	return &u, nil
}
