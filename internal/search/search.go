// Package search is the client for the library search service. The query
// grammar is opaque here; queries come verbatim from the digest
// definition's selectors.
package search

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"digestly/internal/core"
)

// Spec describes one search request.
type Spec struct {
	Query          string `json:"query"`
	Size           int    `json:"size"`
	IncludeContent bool   `json:"includeContent,omitempty"`
}

// Searcher is the search collaborator interface.
type Searcher interface {
	// Search runs a selector query for a user.
	Search(ctx context.Context, spec Spec, userID string) ([]core.LibraryItem, error)

	// FindByIDs fetches exactly the given items, bypassing search.
	FindByIDs(ctx context.Context, ids []string, userID string) ([]core.LibraryItem, error)
}

// Client is an HTTP Searcher against the library API.
type Client struct {
	baseURL string
	apiKey  string
	client  *http.Client
}

// NewClient creates a search client for the library API.
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

type searchRequest struct {
	Spec   Spec   `json:"spec"`
	UserID string `json:"userId"`
}

type findByIDsRequest struct {
	IDs    []string `json:"ids"`
	UserID string   `json:"userId"`
}

type itemsResponse struct {
	Items []core.LibraryItem `json:"items"`
}

// Search runs one selector query.
func (c *Client) Search(ctx context.Context, spec Spec, userID string) ([]core.LibraryItem, error) {
	return c.post(ctx, "/api/library/search", searchRequest{Spec: spec, UserID: userID})
}

// FindByIDs fetches the named items for the user.
func (c *Client) FindByIDs(ctx context.Context, ids []string, userID string) ([]core.LibraryItem, error) {
	return c.post(ctx, "/api/library/items", findByIDsRequest{IDs: ids, UserID: userID})
}

func (c *Client) post(ctx context.Context, path string, payload any) ([]core.LibraryItem, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("encoding request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("building request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("library request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		raw, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("library returned status %d: %s", resp.StatusCode, string(raw))
	}

	var out itemsResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("decoding library response: %w", err)
	}
	return out.Items, nil
}
