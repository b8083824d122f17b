package abuseipdb

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/scamadvisory/verify-api/pkg/model"
)

const defaultBaseURL = "https://api.abuseipdb.com/api/v2/check"

// ErrNoCredential signals that no AbuseIPDB key is configured.
var ErrNoCredential = errors.New("abuseipdb: no API key configured")

// HTTPClient matches net/http.Client Do signature for testability.
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// Client queries AbuseIPDB for an IP's abuse confidence score.
type Client struct {
	apiKey     string
	baseURL    string
	httpClient HTTPClient
}

// Config defines settings for the AbuseIPDB client.
type Config struct {
	APIKey  string
	BaseURL string
	Timeout time.Duration
}

// New creates an AbuseIPDB client.
func New(httpClient HTTPClient, cfg Config) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 6 * time.Second
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: timeout}
	}
	base := cfg.BaseURL
	if base == "" {
		base = defaultBaseURL
	}
	return &Client{apiKey: cfg.APIKey, baseURL: base, httpClient: httpClient}
}

// Configured reports whether a key is available.
func (c *Client) Configured() bool { return c.apiKey != "" }

// Check looks up the abuse confidence for an IP over the last year.
func (c *Client) Check(ctx context.Context, ip string) (model.AbuseReport, error) {
	if c.apiKey == "" {
		return model.AbuseReport{}, ErrNoCredential
	}

	params := url.Values{}
	params.Set("ipAddress", ip)
	params.Set("maxAgeInDays", "365")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return model.AbuseReport{}, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Key", c.apiKey)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return model.AbuseReport{}, fmt.Errorf("request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return model.AbuseReport{}, fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return model.AbuseReport{}, fmt.Errorf("abuseipdb status %d: %s", resp.StatusCode, excerpt(body))
	}

	var decoded struct {
		Data struct {
			AbuseConfidenceScore *float64 `json:"abuseConfidenceScore"`
			TotalReports         *int     `json:"totalReports"`
		} `json:"data"`
	}
	if err := json.Unmarshal(bytes.TrimSpace(body), &decoded); err != nil {
		return model.AbuseReport{}, fmt.Errorf("decode response: %w", err)
	}
	return model.AbuseReport{
		ConfidenceScore: decoded.Data.AbuseConfidenceScore,
		TotalReports:    decoded.Data.TotalReports,
	}, nil
}

func excerpt(body []byte) string {
	const max = 200
	s := string(bytes.TrimSpace(body))
	if len(s) > max {
		return s[:max]
	}
	return s
}
