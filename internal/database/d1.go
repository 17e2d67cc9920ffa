package database

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/secunit/backend/internal/config"
)

// D1Client runs statements through the Cloudflare D1 REST query API.
type D1Client struct {
	AccountID  string
	DatabaseID string
	APIToken   string
	BaseURL    string
	httpClient *http.Client
}

// NewD1Client creates a D1Client. Missing credentials are reported by
// Execute, not here.
func NewD1Client(cfg config.D1) *D1Client {
	base := cfg.BaseURL
	if base == "" {
		base = config.DefaultD1BaseURL
	}
	return &D1Client{
		AccountID:  cfg.AccountID,
		DatabaseID: cfg.DatabaseID,
		APIToken:   cfg.APIToken,
		BaseURL:    strings.TrimRight(base, "/"),
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

var _ Executor = (*D1Client)(nil)

// Configured reports whether all credentials are present.
func (c *D1Client) Configured() bool {
	return c.AccountID != "" && c.DatabaseID != "" && c.APIToken != ""
}

type d1Request struct {
	SQL    string `json:"sql"`
	Params []any  `json:"params"`
}

type d1Response struct {
	Success bool `json:"success"`
	Result  []struct {
		Results []map[string]any `json:"results"`
		Success bool             `json:"success"`
		Meta    struct {
			LastRowID int64 `json:"last_row_id"`
			Changes   int64 `json:"changes"`
		} `json:"meta"`
	} `json:"result"`
	Errors []struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
	} `json:"errors"`
}

func (c *D1Client) endpoint() string {
	return fmt.Sprintf("%s/accounts/%s/d1/database/%s/query", c.BaseURL, c.AccountID, c.DatabaseID)
}

// Execute posts one statement to the query endpoint.
func (c *D1Client) Execute(ctx context.Context, query string, params ...any) (*Result, error) {
	if !c.Configured() {
		return nil, ErrNotConfigured
	}
	if params == nil {
		params = []any{}
	}

	payload, err := json.Marshal(d1Request{SQL: query, Params: params})
	if err != nil {
		return nil, fmt.Errorf("d1: marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint(), bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("d1: build request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.APIToken)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("d1: request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("d1: read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &QueryError{StatusCode: resp.StatusCode, Message: string(body)}
	}

	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()
	var out d1Response
	if err := dec.Decode(&out); err != nil {
		return nil, fmt.Errorf("d1: decode response: %w", err)
	}

	if !out.Success {
		msgs := make([]string, 0, len(out.Errors))
		for _, e := range out.Errors {
			msgs = append(msgs, e.Message)
		}
		if len(msgs) == 0 {
			msgs = append(msgs, "unknown error")
		}
		return nil, &QueryError{StatusCode: resp.StatusCode, Message: strings.Join(msgs, "; ")}
	}

	res := &Result{Success: true}
	if len(out.Result) > 0 {
		first := out.Result[0]
		res.Rows = first.Results
		res.Meta = Meta{LastRowID: first.Meta.LastRowID, Changes: first.Meta.Changes}
	}
	return res, nil
}
