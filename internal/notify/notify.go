// Package notify holds the push and email delivery collaborators. The two
// channels are independent: a failure on one never blocks the other.
package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Notification is a push notification payload.
type Notification struct {
	Title string `json:"title"`
	Body  string `json:"body"`
}

// Email is an outbound email.
type Email struct {
	To      string `json:"to"`
	From    string `json:"from"`
	Subject string `json:"subject"`
	HTML    string `json:"html"`
}

// Pusher sends push notifications.
type Pusher interface {
	SendPush(ctx context.Context, userID string, n Notification, category string) error
}

// Emailer sends emails.
type Emailer interface {
	SendEmail(ctx context.Context, m Email) error
}

// Client delivers both channels over the notification gateway's HTTP API.
type Client struct {
	pushEndpoint  string
	emailEndpoint string
	apiKey        string
	client        *http.Client
}

// NewClient creates a notification client.
func NewClient(pushEndpoint, emailEndpoint, apiKey string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		pushEndpoint:  pushEndpoint,
		emailEndpoint: emailEndpoint,
		apiKey:        apiKey,
		client:        &http.Client{Timeout: timeout},
	}
}

type pushRequest struct {
	UserID       string       `json:"userId"`
	Notification Notification `json:"notification"`
	Category     string       `json:"category"`
}

// SendPush delivers a push notification to all of a user's devices.
func (c *Client) SendPush(ctx context.Context, userID string, n Notification, category string) error {
	return c.post(ctx, c.pushEndpoint, pushRequest{UserID: userID, Notification: n, Category: category})
}

// SendEmail delivers an email.
func (c *Client) SendEmail(ctx context.Context, m Email) error {
	return c.post(ctx, c.emailEndpoint, m)
}

func (c *Client) post(ctx context.Context, endpoint string, payload any) error {
	if endpoint == "" {
		return fmt.Errorf("notification endpoint not configured")
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("encoding notification: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("building notification request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("notification request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusAccepted {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return fmt.Errorf("notification gateway returned status %d: %s", resp.StatusCode, string(raw))
	}
	return nil
}
