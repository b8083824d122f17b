package ipapi

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"testing"
)

type roundTripperFunc func(req *http.Request) (*http.Response, error)

func (f roundTripperFunc) Do(req *http.Request) (*http.Response, error) { return f(req) }

func TestLookupSuccess(t *testing.T) {
	rt := roundTripperFunc(func(req *http.Request) (*http.Response, error) {
		if req.URL.Path != "/9.9.9.9" {
			t.Errorf("unexpected path: %s", req.URL.Path)
		}
		if req.URL.Query().Get("fields") == "" {
			t.Errorf("fields filter missing")
		}
		body := `{"status":"success","country":"United Kingdom","countryCode":"GB","regionName":"England","city":"London","lat":51.5,"lon":-0.12,"isp":"Example ISP","org":"Example Org"}`
		return &http.Response{
			StatusCode: http.StatusOK,
			Body:       io.NopCloser(bytes.NewBufferString(body)),
		}, nil
	})

	c := New(rt, Config{BaseURL: "http://test"})
	got, err := c.Lookup(context.Background(), "9.9.9.9")
	if err != nil {
		t.Fatalf("Lookup: %v", err)
	}
	if got.CountryCode != "GB" || got.City != "London" {
		t.Errorf("unexpected geo: %+v", got)
	}
}

func TestLookupProviderFailure(t *testing.T) {
	rt := roundTripperFunc(func(req *http.Request) (*http.Response, error) {
		return &http.Response{
			StatusCode: http.StatusOK,
			Body:       io.NopCloser(bytes.NewBufferString(`{"status":"fail","message":"private range"}`)),
		}, nil
	})

	c := New(rt, Config{BaseURL: "http://test"})
	if _, err := c.Lookup(context.Background(), "10.0.0.1"); err == nil {
		t.Fatalf("expected error for provider failure")
	}
}
