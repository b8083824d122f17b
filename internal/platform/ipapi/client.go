package ipapi

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

const (
	defaultBaseURL = "http://ip-api.com/json"
	userAgent      = "ScamAdvisoryVerify/1.1 (+https://scamadvisory.co.uk)"
)

// HTTPClient matches net/http.Client Do signature for testability.
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// Client is the keyless ip-api.com geolocation lookup used by diagnostics.
type Client struct {
	baseURL    string
	httpClient HTTPClient
}

// Config defines settings for the ip-api client.
type Config struct {
	BaseURL string
	Timeout time.Duration
}

// New creates an ip-api client.
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
	return &Client{baseURL: base, httpClient: httpClient}
}

type payload struct {
	Status      string  `json:"status"`
	Message     string  `json:"message"`
	Country     string  `json:"country"`
	CountryCode string  `json:"countryCode"`
	RegionName  string  `json:"regionName"`
	City        string  `json:"city"`
	Lat         float64 `json:"lat"`
	Lon         float64 `json:"lon"`
	ISP         string  `json:"isp"`
	Org         string  `json:"org"`
}

// Lookup returns a trimmed geolocation for an IP. Provider-reported failures
// come back as errors carrying the provider message.
func (c *Client) Lookup(ctx context.Context, ip string) (model.GeoMin, error) {
	params := url.Values{}
	params.Set("fields", "status,message,country,countryCode,regionName,city,lat,lon,isp,org")

	endpoint := fmt.Sprintf("%s/%s?%s", c.baseURL, url.PathEscape(ip), params.Encode())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return model.GeoMin{}, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return model.GeoMin{}, fmt.Errorf("request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return model.GeoMin{}, fmt.Errorf("read response: %w", err)
	}

	var p payload
	if err := json.Unmarshal(bytes.TrimSpace(body), &p); err != nil {
		return model.GeoMin{}, fmt.Errorf("decode response: %w", err)
	}
	if p.Status != "success" {
		return model.GeoMin{}, fmt.Errorf("geo failed: %s", p.Message)
	}
	return model.GeoMin{
		Country:     p.Country,
		CountryCode: p.CountryCode,
		Region:      p.RegionName,
		City:        p.City,
		Lat:         p.Lat,
		Lon:         p.Lon,
		ISP:         p.ISP,
		Org:         p.Org,
	}, nil
}
