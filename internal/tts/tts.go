// Package tts is the client for the speech synthesis collaborator. The
// synthesizer consumes summary HTML and voice options; audio bytes are
// persisted to object storage and referenced by path.
package tts

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"

	"digestly/internal/core"
	"digestly/internal/markdown"
	"digestly/internal/storage"
)

// Options holds voice configuration for one synthesis call.
type Options struct {
	Voice          string `json:"voice"`
	SecondaryVoice string `json:"secondaryVoice,omitempty"`
	Language       string `json:"language,omitempty"`
	Rate           string `json:"rate,omitempty"`
	PathPrefix     string `json:"-"` // storage prefix for the audio artifact
}

// Synthesizer is the speech synthesis collaborator interface.
type Synthesizer interface {
	Synthesize(ctx context.Context, htmlContent string, opts Options) (core.SpeechFile, error)
}

// Client is an HTTP Synthesizer that stores resulting audio in object
// storage.
type Client struct {
	endpoint string
	apiKey   string
	client   *http.Client
	uploader storage.Uploader
}

// NewClient creates a synthesis client.
func NewClient(endpoint, apiKey string, timeout time.Duration, uploader storage.Uploader) *Client {
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	return &Client{
		endpoint: endpoint,
		apiKey:   apiKey,
		client:   &http.Client{Timeout: timeout},
		uploader: uploader,
	}
}

type synthesizeRequest struct {
	Content string  `json:"content"`
	Options Options `json:"options"`
}

// Synthesize sends the HTML content to the synthesis endpoint, uploads the
// returned audio, and reports the artifact's storage path and word count.
func (c *Client) Synthesize(ctx context.Context, htmlContent string, opts Options) (core.SpeechFile, error) {
	payload, err := json.Marshal(synthesizeRequest{Content: htmlContent, Options: opts})
	if err != nil {
		return core.SpeechFile{}, fmt.Errorf("encoding synthesis request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(payload))
	if err != nil {
		return core.SpeechFile{}, fmt.Errorf("building synthesis request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return core.SpeechFile{}, fmt.Errorf("synthesis request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return core.SpeechFile{}, fmt.Errorf("synthesizer returned status %d: %s", resp.StatusCode, string(raw))
	}

	audio, err := io.ReadAll(resp.Body)
	if err != nil {
		return core.SpeechFile{}, fmt.Errorf("reading audio: %w", err)
	}

	audioPath := fmt.Sprintf("%s/%s.mp3", opts.PathPrefix, uuid.NewString())
	if err := c.uploader.Put(ctx, audioPath, audio, storage.PutOptions{ContentType: "audio/mpeg"}); err != nil {
		return core.SpeechFile{}, fmt.Errorf("storing audio: %w", err)
	}

	return core.SpeechFile{
		AudioRef:  audioPath,
		WordCount: markdown.WordCount(markdown.StripTags(htmlContent)),
	}, nil
}
