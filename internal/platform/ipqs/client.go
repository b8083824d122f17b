package ipqs

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/hashicorp/go-retryablehttp"

	"github.com/scamadvisory/verify-api/pkg/util"
)

const defaultBaseURL = "https://ipqualityscore.com/api/json"

// ErrNoCredential signals that no IPQS key is configured.
var ErrNoCredential = errors.New("ipqs: no API key configured")

// HTTPClient matches net/http.Client Do signature for testability.
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// Client calls the IPQualityScore ip/email/phone/url endpoints. The default
// transport retries 429 and 5xx responses with backoff; pass a custom
// HTTPClient to change that.
type Client struct {
	apiKey     string
	baseURL    string
	httpClient HTTPClient
}

// Config defines settings for the IPQS client.
type Config struct {
	APIKey     string
	BaseURL    string
	Timeout    time.Duration
	MaxRetries int
}

// New creates an IPQS client.
func New(httpClient HTTPClient, cfg Config) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	maxRetries := cfg.MaxRetries
	if maxRetries <= 0 {
		maxRetries = 5
	}
	if httpClient == nil {
		httpClient = NewRetryingHTTPClient(timeout, maxRetries, nil)
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

// NewRetryingHTTPClient builds the standard transport for IPQS calls:
// retries on 429 and 5xx with exponential backoff. A nil transport uses
// http.DefaultTransport.
func NewRetryingHTTPClient(timeout time.Duration, maxRetries int, transport http.RoundTripper) *http.Client {
	rc := retryablehttp.NewClient()
	rc.RetryMax = maxRetries
	rc.RetryWaitMin = 250 * time.Millisecond
	rc.RetryWaitMax = 4 * time.Second
	rc.Logger = nil
	rc.HTTPClient = &http.Client{Timeout: timeout}
	if transport != nil {
		rc.HTTPClient.Transport = transport
	}
	return rc.StandardClient()
}

// Configured reports whether a key is available.
func (c *Client) Configured() bool { return c.apiKey != "" }

// IPOptions mirror the ip endpoint's tuning parameters.
type IPOptions struct {
	Strictness              int
	Fast                    bool
	AllowPublicAccessPoints bool
	Mobile                  bool
	LighterPenalties        bool
	TransactionStrictness   int
	UserAgent               string
}

// EmailOptions mirror the email endpoint's tuning parameters.
type EmailOptions struct {
	Strictness    int
	LookupTimeout int // mailbox lookup timeout in seconds
	Fast          bool
	SuggestDomain bool
}

// PhoneOptions mirror the phone endpoint's tuning parameters.
type PhoneOptions struct {
	Countries         []string // ISO alpha-2 hints; only needed without a +CC prefix
	Strictness        int
	LineTypeDetect    bool
	Fast              bool
	EnhancedLineCheck bool
	EnhancedNameCheck bool
}

// URLOptions mirror the url endpoint's tuning parameters.
type URLOptions struct {
	Strictness int
	Fast       bool
}

// IP checks an IP address for fraud signals.
func (c *Client) IP(ctx context.Context, ip string, opts IPOptions) (map[string]any, error) {
	params := url.Values{}
	params.Set("strictness", strconv.Itoa(opts.Strictness))
	params.Set("fast", strconv.FormatBool(opts.Fast))
	params.Set("allow_public_access_points", strconv.FormatBool(opts.AllowPublicAccessPoints))
	params.Set("mobile", strconv.FormatBool(opts.Mobile))
	params.Set("lighter_penalties", strconv.FormatBool(opts.LighterPenalties))
	params.Set("transaction_strictness", strconv.Itoa(opts.TransactionStrictness))
	if opts.UserAgent != "" {
		params.Set("user_agent", opts.UserAgent)
	}
	return c.do(ctx, "ip/"+url.PathEscape(ip), params)
}

// Email validates an email address and scores it for fraud.
func (c *Client) Email(ctx context.Context, email string, opts EmailOptions) (map[string]any, error) {
	params := url.Values{}
	params.Set("timeout", strconv.Itoa(opts.LookupTimeout))
	params.Set("fast", strconv.FormatBool(opts.Fast))
	params.Set("strictness", strconv.Itoa(opts.Strictness))
	params.Set("suggest_domain", strconv.FormatBool(opts.SuggestDomain))
	return c.do(ctx, "email/"+url.PathEscape(email), params)
}

// Phone validates a phone number. The number is sanitized to digits with a
// single leading "+"; country hints are normalized to ISO alpha-2.
func (c *Client) Phone(ctx context.Context, phone string, opts PhoneOptions) (map[string]any, error) {
	number := util.SanitizePhone(phone)
	countries, err := util.NormalizeCountries(opts.Countries)
	if err != nil {
		return nil, err
	}

	params := url.Values{}
	params.Set("strictness", strconv.Itoa(opts.Strictness))
	params.Set("line_type_detect", strconv.FormatBool(opts.LineTypeDetect))
	params.Set("fast", strconv.FormatBool(opts.Fast))
	if opts.EnhancedLineCheck {
		params.Set("enhanced_line_check", "true")
	}
	if opts.EnhancedNameCheck {
		params.Set("enhanced_name_check", "true")
	}
	switch len(countries) {
	case 0:
	case 1:
		params.Set("country", countries[0])
	default:
		for _, country := range countries {
			params.Add("country[]", country)
		}
	}
	return c.do(ctx, "phone/"+url.PathEscape(number), params)
}

// URL scans a URL for phishing and malware signals.
func (c *Client) URL(ctx context.Context, target string, opts URLOptions) (map[string]any, error) {
	params := url.Values{}
	params.Set("strictness", strconv.Itoa(opts.Strictness))
	params.Set("fast", strconv.FormatBool(opts.Fast))
	params.Set("risk_score", "true")
	params.Set("malware", "true")
	params.Set("phishing", "true")
	return c.do(ctx, "url/"+url.QueryEscape(target), params)
}

func (c *Client) do(ctx context.Context, path string, params url.Values) (map[string]any, error) {
	if c.apiKey == "" {
		return nil, ErrNoCredential
	}

	// Endpoint shape: {base}/{kind}/{key}/{target}.
	endpoint := fmt.Sprintf("%s/%s", c.baseURL, injectKey(path, c.apiKey))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint+"?"+params.Encode(), nil)
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
		return nil, fmt.Errorf("ipqs status %d: %s", resp.StatusCode, apiMessage(body))
	}

	var data map[string]any
	if err := json.Unmarshal(bytes.TrimSpace(body), &data); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	// IPQS reports request-level failures with a 200 status.
	if success, ok := data["success"].(bool); ok && !success {
		msg, _ := data["message"].(string)
		if msg == "" {
			msg = "unknown API error"
		}
		return nil, fmt.Errorf("ipqs: %s", msg)
	}
	return data, nil
}

// injectKey splices the credential between the endpoint kind and the target.
func injectKey(path, key string) string {
	for i := 0; i < len(path); i++ {
		if path[i] == '/' {
			return path[:i] + "/" + url.PathEscape(key) + path[i:]
		}
	}
	return path + "/" + url.PathEscape(key)
}

// apiMessage pulls the "message" field out of an error body when present.
func apiMessage(body []byte) string {
	var data map[string]any
	if err := json.Unmarshal(bytes.TrimSpace(body), &data); err == nil {
		if msg, ok := data["message"].(string); ok && msg != "" {
			return msg
		}
	}
	const max = 200
	s := string(bytes.TrimSpace(body))
	if len(s) > max {
		return s[:max]
	}
	return s
}
