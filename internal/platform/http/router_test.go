package http

import (
	"context"
	"errors"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/scamadvisory/verify-api/internal/business/diagnostics"
	"github.com/scamadvisory/verify-api/internal/business/directory"
	"github.com/scamadvisory/verify-api/internal/business/enrich"
	"github.com/scamadvisory/verify-api/internal/platform/emailcheck"
	"github.com/scamadvisory/verify-api/internal/platform/geoip"
	"github.com/scamadvisory/verify-api/internal/platform/ipapi"
	"github.com/scamadvisory/verify-api/internal/platform/ipqs"
	"github.com/scamadvisory/verify-api/internal/platform/numverify"
	"github.com/scamadvisory/verify-api/pkg/model"
)

type roundTripperFunc func(req *http.Request) (*http.Response, error)

func (f roundTripperFunc) Do(req *http.Request) (*http.Response, error) { return f(req) }

func jsonResponse(status int, body string) *http.Response {
	return &http.Response{
		StatusCode: status,
		Header:     http.Header{"Content-Type": []string{"application/json"}},
		Body:       io.NopCloser(strings.NewReader(body)),
	}
}

type fakeResolver struct {
	ips map[string][]net.IP
}

func (r *fakeResolver) LookupIP(_ context.Context, network, host string) ([]net.IP, error) {
	if ips, ok := r.ips[network+"/"+host]; ok {
		return ips, nil
	}
	return nil, errors.New("no such host")
}

func (r *fakeResolver) LookupHost(context.Context, string) ([]string, error) {
	return nil, errors.New("no such host")
}

func (r *fakeResolver) LookupMX(context.Context, string) ([]*net.MX, error) {
	return nil, errors.New("no such host")
}

func (r *fakeResolver) LookupTXT(context.Context, string) ([]string, error) {
	return nil, errors.New("no such host")
}

func writeSheet(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write sheet: %v", err)
	}
	return path
}

type routerConfig struct {
	emailTransport roundTripperFunc
	ipqsKey        string
	numverifyKey   string
	geoKey         string
}

func newTestRouter(t *testing.T, cfg routerConfig) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	emailTransport := cfg.emailTransport
	if emailTransport == nil {
		emailTransport = func(req *http.Request) (*http.Response, error) {
			return jsonResponse(http.StatusOK, `{"status": "valid"}`), nil
		}
	}

	providerOK := roundTripperFunc(func(req *http.Request) (*http.Response, error) {
		return jsonResponse(http.StatusOK, `{"success":true,"fraud_score":10}`), nil
	})

	resolver := &fakeResolver{ips: map[string][]net.IP{
		"ip4/scam.example": {net.ParseIP("1.2.3.4")},
	}}

	geo := ipapi.New(roundTripperFunc(func(req *http.Request) (*http.Response, error) {
		return jsonResponse(http.StatusOK, `{"status":"success","countryCode":"GB"}`), nil
	}), ipapi.Config{})

	diags := diagnostics.NewService(geo, nil, nil,
		diagnostics.WithResolver(resolver),
		diagnostics.WithWhois(func(string) (string, error) { return "", errors.New("timeout") }),
		diagnostics.WithProbe(func(context.Context, string) (model.TLSInfo, *model.CertIssuer) {
			return model.TLSInfo{TLSValid: true}, &model.CertIssuer{CommonName: "DigiCert"}
		}),
		diagnostics.WithZones(nil),
		diagnostics.WithClock(func() time.Time { return time.Date(2026, 8, 31, 0, 0, 0, 0, time.UTC) }),
	)

	enrichSvc := enrich.NewService(
		geoip.New(providerOK, geoip.Config{APIKey: cfg.geoKey}),
		enrich.WithResolver(resolver),
	)

	dir := directory.NewService(
		writeSheet(t, "countrycode.csv", "Country,Phone Code\nUnited Kingdom,+44\n"),
		writeSheet(t, "num.csv", "PhoneNumber;Carrier\n+447700900123;Vodafone\n"),
	)

	deps := Deps{
		Email:     emailcheck.New(emailTransport, emailcheck.Config{APIKey: "email-key"}),
		Phone:     numverify.New(providerOK, numverify.Config{APIKey: cfg.numverifyKey}),
		IPQS:      ipqs.New(providerOK, ipqs.Config{APIKey: cfg.ipqsKey}),
		Enrich:    enrichSvc,
		Diags:     diags,
		Directory: dir,
	}
	return NewRouter(deps, "*")
}

func perform(router *gin.Engine, method, target, body string) *httptest.ResponseRecorder {
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestHealthz(t *testing.T) {
	router := newTestRouter(t, routerConfig{})
	rec := perform(router, http.MethodGet, "/healthz", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestRequestIDHeader(t *testing.T) {
	router := newTestRouter(t, routerConfig{})

	rec := perform(router, http.MethodGet, "/healthz", "")
	assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	req.Header.Set("X-Request-ID", "abc-123")
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, "abc-123", rec.Header().Get("X-Request-ID"))
}

func TestValidateEmailSuccess(t *testing.T) {
	router := newTestRouter(t, routerConfig{})
	rec := perform(router, http.MethodGet, "/api/validate/email?email=phil%40your.it", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"valid"}`, rec.Body.String())
}

func TestValidateEmailMissingParam(t *testing.T) {
	router := newTestRouter(t, routerConfig{})
	rec := perform(router, http.MethodGet, "/api/validate/email", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestValidateEmailProviderFailureMapsToBadGateway(t *testing.T) {
	router := newTestRouter(t, routerConfig{
		emailTransport: func(req *http.Request) (*http.Response, error) {
			return jsonResponse(http.StatusTooManyRequests, `{"message":"rate limited"}`), nil
		},
	})
	rec := perform(router, http.MethodGet, "/api/validate/email?email=phil%40your.it", "")
	assert.Equal(t, http.StatusBadGateway, rec.Code)
	assert.Contains(t, rec.Body.String(), "429")
}

func TestValidatePhone(t *testing.T) {
	router := newTestRouter(t, routerConfig{numverifyKey: "nv-key"})
	rec := perform(router, http.MethodPost, "/api/validate/phone", `{"number":"+447700900123"}`)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = perform(router, http.MethodPost, "/api/validate/phone", `{"country_code":"GB"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestValidatePhoneUnconfigured(t *testing.T) {
	router := newTestRouter(t, routerConfig{})
	rec := perform(router, http.MethodPost, "/api/validate/phone", `{"number":"+447700900123"}`)
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestIPQSRoutes(t *testing.T) {
	router := newTestRouter(t, routerConfig{ipqsKey: "ipqs-key"})

	for _, target := range []string{
		"/api/ipqs/ip/1.2.3.4",
		"/api/ipqs/email/phil%40your.it",
		"/api/ipqs/phone/447700900123",
		"/api/ipqs/url?url=https%3A%2F%2Fscam.example",
	} {
		rec := perform(router, http.MethodGet, target, "")
		assert.Equal(t, http.StatusOK, rec.Code, target)
		assert.Contains(t, rec.Body.String(), "fraud_score", target)
	}

	rec := perform(router, http.MethodGet, "/api/ipqs/url", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestIPQSUnconfigured(t *testing.T) {
	router := newTestRouter(t, routerConfig{})
	rec := perform(router, http.MethodGet, "/api/ipqs/ip/1.2.3.4", "")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestGeoEnrichment(t *testing.T) {
	router := newTestRouter(t, routerConfig{geoKey: "geo-key"})
	rec := perform(router, http.MethodGet, "/api/geo/scam.example", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"input_domain":"scam.example"`)
}

func TestGeoEnrichmentUnconfigured(t *testing.T) {
	router := newTestRouter(t, routerConfig{})
	rec := perform(router, http.MethodGet, "/api/geo/scam.example", "")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestEmailDiagnostics(t *testing.T) {
	router := newTestRouter(t, routerConfig{})

	rec := perform(router, http.MethodGet, "/api/diagnostics/email?email=victim%40scam.example", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"domain":"scam.example"`)
	assert.Contains(t, rec.Body.String(), `"risk_score"`)

	rec = perform(router, http.MethodGet, "/api/diagnostics/email", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = perform(router, http.MethodGet, "/api/diagnostics/email?email=nonsense", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestDirectoryRoutes(t *testing.T) {
	router := newTestRouter(t, routerConfig{})

	rec := perform(router, http.MethodGet, "/api/directory/countrycode/44", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "text/csv")
	assert.Contains(t, rec.Body.String(), "United Kingdom")

	rec = perform(router, http.MethodGet, "/api/directory/num/447700900123", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Vodafone")

	rec = perform(router, http.MethodGet, "/api/directory/countrycode/999", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCORSPreflight(t *testing.T) {
	router := newTestRouter(t, routerConfig{})

	req := httptest.NewRequest(http.MethodOptions, "/api/validate/email", nil)
	req.Header.Set("Origin", "https://dashboard.scamadvisory.co.uk")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "https://dashboard.scamadvisory.co.uk", rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestCORSWithoutOriginHeader(t *testing.T) {
	router := newTestRouter(t, routerConfig{})
	rec := perform(router, http.MethodOptions, "/api/validate/email", "")
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
}
