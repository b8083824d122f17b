package enrich

import (
	"context"
	"fmt"
	"net"
	"sort"

	"github.com/scamadvisory/verify-api/internal/platform/geoip"
	"github.com/scamadvisory/verify-api/pkg/model"
)

// Resolver is the subset of net.Resolver the enrichment needs.
type Resolver interface {
	LookupIP(ctx context.Context, network, host string) ([]net.IP, error)
}

// Service enriches a domain with WhoisXML geolocation for every address it
// resolves to.
type Service struct {
	geo      *geoip.Client
	resolver Resolver
}

// Option tweaks a Service.
type Option func(*Service)

// WithResolver replaces the DNS resolver.
func WithResolver(r Resolver) Option { return func(s *Service) { s.resolver = r } }

// Configured reports whether the WhoisXML client has a key.
func (s *Service) Configured() bool { return s.geo.Configured() }

// NewService creates an enrichment service backed by a WhoisXML client.
func NewService(geo *geoip.Client, opts ...Option) *Service {
	s := &Service{geo: geo, resolver: net.DefaultResolver}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Enrich resolves a domain's A and AAAA records and geolocates each distinct
// address. Per-address failures are recorded inline. When nothing resolves,
// a domain-based lookup is attempted instead and flagged as such.
func (s *Service) Enrich(ctx context.Context, domain string) (model.GeoEnrichment, error) {
	if domain == "" {
		return model.GeoEnrichment{}, fmt.Errorf("domain is required")
	}
	out := model.GeoEnrichment{
		InputDomain: domain,
		DNS: model.DNSRecords{
			A:    s.resolve(ctx, "ip4", domain),
			AAAA: s.resolve(ctx, "ip6", domain),
		},
	}

	for _, ip := range distinctSorted(append(append([]string{}, out.DNS.A...), out.DNS.AAAA...)) {
		lookup := model.GeoLookup{}
		payload, err := s.geo.LookupIP(ctx, ip, true)
		if err != nil {
			lookup.Error = fmt.Sprintf("lookup failed for %s: %v", ip, err)
			lookup.IP = ip
		} else {
			lookup.GeoSummary = geoip.Summarize(payload)
			lookup.IP = ip
		}
		out.Lookups = append(out.Lookups, lookup)
	}

	if len(out.Lookups) == 0 {
		out.DomainLookupUsed = true
		lookup := model.GeoLookup{Note: "domain-based lookup"}
		payload, err := s.geo.LookupDomain(ctx, domain)
		if err != nil {
			lookup.Error = fmt.Sprintf("domain lookup failed: %v", err)
			lookup.Domain = domain
		} else {
			lookup.GeoSummary = geoip.Summarize(payload)
			lookup.Domain = domain
		}
		out.Lookups = append(out.Lookups, lookup)
	}
	return out, nil
}

func (s *Service) resolve(ctx context.Context, network, domain string) []string {
	ips, err := s.resolver.LookupIP(ctx, network, domain)
	if err != nil {
		return nil
	}
	out := make([]string, 0, len(ips))
	for _, ip := range ips {
		out = append(out, ip.String())
	}
	return out
}

func distinctSorted(ips []string) []string {
	seen := make(map[string]bool, len(ips))
	out := make([]string, 0, len(ips))
	for _, ip := range ips {
		if ip == "" || seen[ip] {
			continue
		}
		seen[ip] = true
		out = append(out, ip)
	}
	sort.Strings(out)
	return out
}
