package numverify

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/scamadvisory/verify-api/pkg/model"
)

const (
	// Legacy host takes access_key as a query parameter.
	defaultLegacyBaseURL = "https://apilayer.net/api"
	// Modern host takes the key as an apikey header.
	defaultModernBaseURL = "https://api.apilayer.com/number_verification"
)

// ErrNoCredential signals that the key for the requested endpoint is not
// configured.
var ErrNoCredential = errors.New("numverify: no API key configured for this endpoint")

// HTTPClient matches net/http.Client Do signature for testability.
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// Client validates phone numbers against numverify, supporting both the
// legacy apilayer.net endpoint and the modern api.apilayer.com one.
type Client struct {
	accessKey     string
	apiKey        string
	legacyBaseURL string
	modernBaseURL string
	httpClient    HTTPClient
}

// Config defines settings for the numverify client.
type Config struct {
	AccessKey     string // legacy endpoint credential
	APIKey        string // modern endpoint credential
	LegacyBaseURL string
	ModernBaseURL string
	Timeout       time.Duration
}

// New creates a numverify client.
func New(httpClient HTTPClient, cfg Config) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: timeout}
	}
	legacy := cfg.LegacyBaseURL
	if legacy == "" {
		legacy = defaultLegacyBaseURL
	}
	modern := cfg.ModernBaseURL
	if modern == "" {
		modern = defaultModernBaseURL
	}
	return &Client{
		accessKey:     cfg.AccessKey,
		apiKey:        cfg.APIKey,
		legacyBaseURL: legacy,
		modernBaseURL: modern,
		httpClient:    httpClient,
	}
}

// ValidateLegacy calls the legacy apilayer.net validate endpoint with the
// access key in the query string.
func (c *Client) ValidateLegacy(ctx context.Context, number, countryCode string) (model.PhoneValidation, error) {
	if c.accessKey == "" {
		return model.PhoneValidation{}, ErrNoCredential
	}
	params := url.Values{}
	params.Set("access_key", c.accessKey)
	params.Set("number", number)
	params.Set("format", "1")
	// numverify docs: include country_code only for national-format numbers.
	if countryCode != "" && !strings.HasPrefix(strings.TrimSpace(number), "+") {
		params.Set("country_code", countryCode)
	}
	return c.do(ctx, c.legacyBaseURL+"/validate", params, nil)
}

// ValidateModern calls the api.apilayer.com validate endpoint with the key
// as an apikey header.
func (c *Client) ValidateModern(ctx context.Context, number, countryCode string) (model.PhoneValidation, error) {
	if c.apiKey == "" {
		return model.PhoneValidation{}, ErrNoCredential
	}
	params := url.Values{}
	params.Set("number", number)
	if countryCode != "" && !strings.HasPrefix(strings.TrimSpace(number), "+") {
		params.Set("country_code", countryCode)
	}
	return c.do(ctx, c.modernBaseURL+"/validate", params, map[string]string{"apikey": c.apiKey})
}

func (c *Client) do(ctx context.Context, endpoint string, params url.Values, headers map[string]string) (model.PhoneValidation, error) {
	out := model.PhoneValidation{Endpoint: endpoint}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint+"?"+params.Encode(), nil)
	if err != nil {
		return out, fmt.Errorf("build request: %w", err)
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return out, fmt.Errorf("request: %w", err)
	}
	defer resp.Body.Close()
	out.HTTPStatus = resp.StatusCode

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return out, fmt.Errorf("read response: %w", err)
	}

	var data map[string]any
	if err := json.Unmarshal(bytes.TrimSpace(body), &data); err != nil {
		// Keep whatever the provider sent; some error pages are not JSON.
		out.Raw = string(body)
		return out, nil
	}
	out.Data = data
	return out, nil
}

// ProviderErrorInfo extracts the error description from numverify's
// {"success": false, "error": {"info": ...}} shape. ok is false when the
// payload does not carry a provider error.
func ProviderErrorInfo(data map[string]any) (string, bool) {
	success, present := data["success"]
	if !present {
		return "", false
	}
	if b, isBool := success.(bool); !isBool || b {
		return "", false
	}
	if errObj, isMap := data["error"].(map[string]any); isMap {
		if info, isStr := errObj["info"].(string); isStr && info != "" {
			return info, true
		}
	}
	return "API error", true
}
