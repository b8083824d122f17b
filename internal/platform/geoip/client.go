package geoip

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
)

const defaultBaseURL = "https://ip-geolocation.whoisxmlapi.com/api/v1"

// ErrNoCredential signals that no WhoisXML key is configured.
var ErrNoCredential = errors.New("geoip: no API key configured")

// HTTPClient matches net/http.Client Do signature for testability.
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// Client queries the WhoisXML IP Geolocation API.
type Client struct {
	apiKey     string
	baseURL    string
	httpClient HTTPClient
}

// Config defines settings for the WhoisXML client.
type Config struct {
	APIKey  string
	BaseURL string
	Timeout time.Duration
}

// New creates a WhoisXML geolocation client.
func New(httpClient HTTPClient, cfg Config) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 15 * time.Second
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

// LookupIP geolocates a single IP, optionally including reverse-IP domains.
func (c *Client) LookupIP(ctx context.Context, ip string, reverseIP bool) (map[string]any, error) {
	params := url.Values{}
	params.Set("ipAddress", ip)
	if reverseIP {
		params.Set("reverseIp", "1")
	} else {
		params.Set("reverseIp", "0")
	}
	return c.do(ctx, params)
}

// LookupDomain geolocates a domain; the provider resolves it internally.
// reverseIp is only meaningful for IP lookups, so it is omitted here.
func (c *Client) LookupDomain(ctx context.Context, domain string) (map[string]any, error) {
	params := url.Values{}
	params.Set("domain", domain)
	return c.do(ctx, params)
}

func (c *Client) do(ctx context.Context, params url.Values) (map[string]any, error) {
	if c.apiKey == "" {
		return nil, ErrNoCredential
	}
	params.Set("apiKey", c.apiKey)
	params.Set("outputFormat", "JSON")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("whoisxml status %d: %s", resp.StatusCode, excerpt(body))
	}

	var payload map[string]any
	if err := json.Unmarshal(bytes.TrimSpace(body), &payload); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	return payload, nil
}

func excerpt(body []byte) string {
	const max = 400
	s := string(bytes.TrimSpace(body))
	if len(s) > max {
		return s[:max]
	}
	return s
}
