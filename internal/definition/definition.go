// Package definition fetches and parses the externally hosted digest
// definition document: the selection queries and prompt templates a run
// is configured with.
package definition

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"gopkg.in/yaml.v3"

	"digestly/internal/core"
	"digestly/internal/digest"
)

// Loader fetches DigestDefinition documents from a fixed URL.
type Loader struct {
	url    string
	client *http.Client
}

// NewLoader creates a Loader for the given document URL.
func NewLoader(url string, timeout time.Duration) *Loader {
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &Loader{
		url:    url,
		client: &http.Client{Timeout: timeout},
	}
}

// Load fetches and parses the definition document. The returned definition
// is owned by the caller and must be treated as immutable for the run.
func (l *Loader) Load(ctx context.Context) (*core.DigestDefinition, error) {
	if l.url == "" {
		return nil, fmt.Errorf("%w: definition URL not set", digest.ErrConfig)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, l.url, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: building request: %v", digest.ErrConfig, err)
	}

	resp, err := l.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: fetching %s: %v", digest.ErrConfig, l.url, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: fetching %s: status %d", digest.ErrConfig, l.url, resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: reading response: %v", digest.ErrConfig, err)
	}

	var def core.DigestDefinition
	if err := yaml.Unmarshal(body, &def); err != nil {
		return nil, fmt.Errorf("%w: parsing definition: %v", digest.ErrConfig, err)
	}

	return &def, nil
}
