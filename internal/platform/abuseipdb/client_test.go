package abuseipdb

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/http"
	"testing"
)

type roundTripperFunc func(req *http.Request) (*http.Response, error)

func (f roundTripperFunc) Do(req *http.Request) (*http.Response, error) { return f(req) }

func TestCheckSuccess(t *testing.T) {
	rt := roundTripperFunc(func(req *http.Request) (*http.Response, error) {
		if got := req.Header.Get("Key"); got != "abuse-key" {
			t.Errorf("Key header = %q", got)
		}
		q := req.URL.Query()
		if q.Get("ipAddress") != "5.6.7.8" {
			t.Errorf("ipAddress = %q", q.Get("ipAddress"))
		}
		if q.Get("maxAgeInDays") != "365" {
			t.Errorf("maxAgeInDays = %q", q.Get("maxAgeInDays"))
		}
		return &http.Response{
			StatusCode: http.StatusOK,
			Body:       io.NopCloser(bytes.NewBufferString(`{"data":{"abuseConfidenceScore":42,"totalReports":17}}`)),
		}, nil
	})

	c := New(rt, Config{APIKey: "abuse-key"})
	got, err := c.Check(context.Background(), "5.6.7.8")
	if err != nil {
		t.Fatalf("Check: %v", err)
	}
	if got.ConfidenceScore == nil || *got.ConfidenceScore != 42 {
		t.Errorf("ConfidenceScore = %v", got.ConfidenceScore)
	}
	if got.TotalReports == nil || *got.TotalReports != 17 {
		t.Errorf("TotalReports = %v", got.TotalReports)
	}
}

func TestCheckNon200(t *testing.T) {
	rt := roundTripperFunc(func(req *http.Request) (*http.Response, error) {
		return &http.Response{
			StatusCode: http.StatusTooManyRequests,
			Body:       io.NopCloser(bytes.NewBufferString(`{"errors":[{"detail":"rate limited"}]}`)),
		}, nil
	})

	c := New(rt, Config{APIKey: "k"})
	if _, err := c.Check(context.Background(), "5.6.7.8"); err == nil {
		t.Fatalf("expected error for 429")
	}
}

func TestCheckWithoutKey(t *testing.T) {
	c := New(http.DefaultClient, Config{})
	if c.Configured() {
		t.Fatalf("Configured must be false without key")
	}
	if _, err := c.Check(context.Background(), "5.6.7.8"); !errors.Is(err, ErrNoCredential) {
		t.Fatalf("expected ErrNoCredential, got %v", err)
	}
}
