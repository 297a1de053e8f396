package notify

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestSendPushPayload(t *testing.T) {
	var got pushRequest

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewDecoder(r.Body).Decode(&got)
		w.WriteHeader(http.StatusAccepted)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "", "", time.Second)
	err := c.SendPush(context.Background(), "u-1", Notification{Title: "Hello", Body: "World"}, "reminder")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if got.UserID != "u-1" || got.Category != "reminder" {
		t.Errorf("unexpected push request: %+v", got)
	}
	if got.Notification.Title != "Hello" || got.Notification.Body != "World" {
		t.Errorf("unexpected notification: %+v", got.Notification)
	}
}

func TestSendEmailPayload(t *testing.T) {
	var got Email

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewDecoder(r.Body).Decode(&got)
	}))
	defer srv.Close()

	c := NewClient("", srv.URL, "", time.Second)
	err := c.SendEmail(context.Background(), Email{
		To:      "ada@example.com",
		From:    "digest@example.com",
		Subject: "Your digest",
		HTML:    "<h1>Digest</h1>",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if got.To != "ada@example.com" || got.Subject != "Your digest" {
		t.Errorf("unexpected email: %+v", got)
	}
}

func TestMissingEndpointIsError(t *testing.T) {
	c := NewClient("", "", "", time.Second)
	if err := c.SendPush(context.Background(), "u-1", Notification{}, "reminder"); err == nil {
		t.Error("expected error when push endpoint is unset")
	}
}

func TestGatewayErrorStatusIsError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "quota exceeded", http.StatusTooManyRequests)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, srv.URL, "", time.Second)
	if err := c.SendEmail(context.Background(), Email{To: "x"}); err == nil {
		t.Error("expected error for non-2xx status")
	}
}
