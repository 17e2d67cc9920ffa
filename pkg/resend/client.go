// Package resend is a small client for the Resend transactional email API.
// It uses raw HTTP calls; only the send endpoint is needed.
package resend

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// DefaultBaseURL is the public Resend API endpoint.
const DefaultBaseURL = "https://api.resend.com"

// ErrNotConfigured is returned by Send when no API key is set.
var ErrNotConfigured = errors.New("resend: not configured")

// APIError is returned when Resend answers with a non-2xx status.
type APIError struct {
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("resend: api error (status %d): %s", e.StatusCode, e.Body)
}

// Email is one outgoing message.
type Email struct {
	From    string   `json:"from"`
	To      []string `json:"to"`
	Subject string   `json:"subject"`
	HTML    string   `json:"html,omitempty"`
	Text    string   `json:"text,omitempty"`
	ReplyTo string   `json:"reply_to,omitempty"`
}

// Client sends email through Resend.
type Client interface {
	// Configured reports whether an API key is set.
	Configured() bool
	// Send delivers msg. A nil error means Resend accepted it.
	Send(ctx context.Context, msg Email) error
}

// RealClient is the HTTP implementation of Client.
type RealClient struct {
	APIKey     string
	BaseURL    string
	httpClient *http.Client
}

// NewClient creates a RealClient. An empty baseURL selects DefaultBaseURL.
func NewClient(apiKey, baseURL string) *RealClient {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &RealClient{
		APIKey:     apiKey,
		BaseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: 15 * time.Second},
	}
}

var _ Client = (*RealClient)(nil)

func (c *RealClient) Configured() bool { return c.APIKey != "" }

// Send posts msg to /emails. Success is decided by the HTTP status only.
func (c *RealClient) Send(ctx context.Context, msg Email) error {
	if !c.Configured() {
		return ErrNotConfigured
	}

	payload, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("resend: marshal email: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+"/emails", bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("resend: build request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.APIKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("resend: request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return &APIError{StatusCode: resp.StatusCode, Body: string(body)}
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	return nil
}
