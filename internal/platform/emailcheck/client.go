package emailcheck

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/scamadvisory/verify-api/pkg/model"
)

const defaultBaseURL = "https://api.emailvalidation.io/v1/info"

// HTTPClient matches net/http.Client Do signature for testability.
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// Client calls the email validation provider. One synchronous GET per
// Validate call; no retry, no state.
type Client struct {
	apiKey     string
	baseURL    string
	httpClient HTTPClient
}

// Config defines settings for the email validation client.
type Config struct {
	APIKey  string
	BaseURL string
	Timeout time.Duration
}

// New creates an email validation client.
func New(httpClient HTTPClient, cfg Config) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: timeout}
	}
	base := cfg.BaseURL
	if base == "" {
		base = defaultBaseURL
	}
	return &Client{
		apiKey:     cfg.APIKey,
		baseURL:    base,
		httpClient: httpClient,
	}
}

// Validate asks the provider whether the address is deliverable. The email is
// forwarded as-is; syntactic validation is entirely the provider's job. All
// transport faults and non-2xx statuses are folded into the failure variant;
// Validate never returns a Go error.
func (c *Client) Validate(ctx context.Context, email string) model.ValidationResult {
	params := url.Values{}
	params.Set("email", email)
	endpoint := fmt.Sprintf("%s?%s", c.baseURL, params.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return failure(fmt.Sprintf("build request: %v", err))
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return failure(fmt.Sprintf("request: %v", err))
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return failure(fmt.Sprintf("read response: %v", err))
	}

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return failure(fmt.Sprintf("provider status %d: %s", resp.StatusCode, excerpt(body)))
	}

	var decoded map[string]any
	if err := json.Unmarshal(bytes.TrimSpace(body), &decoded); err != nil {
		return failure(fmt.Sprintf("decode response: %v", err))
	}
	return model.ValidationResult{Body: decoded}
}

func failure(msg string) model.ValidationResult {
	return model.ValidationResult{Error: msg}
}

// excerpt caps error bodies so provider errors stay log-friendly.
func excerpt(body []byte) string {
	const max = 400
	s := string(bytes.TrimSpace(body))
	if len(s) > max {
		return s[:max]
	}
	return s
}
