package diagnostics

import (
	"context"
	"fmt"
	"net"
	"strings"
	"time"

	"github.com/scamadvisory/verify-api/internal/platform/abuseipdb"
	"github.com/scamadvisory/verify-api/internal/platform/ipapi"
	"github.com/scamadvisory/verify-api/internal/platform/ipqs"
	"github.com/scamadvisory/verify-api/pkg/model"
	"github.com/scamadvisory/verify-api/pkg/util"
)

// Resolver is the subset of net.Resolver the diagnostics need.
type Resolver interface {
	LookupHost(ctx context.Context, host string) ([]string, error)
	LookupIP(ctx context.Context, network, host string) ([]net.IP, error)
	LookupMX(ctx context.Context, name string) ([]*net.MX, error)
	LookupTXT(ctx context.Context, name string) ([]string, error)
}

// DNSBLZone is a blocklist zone with its scoring weight. Order matters: the
// first listing wins.
type DNSBLZone struct {
	Zone   string
	Weight int
}

var defaultZones = []DNSBLZone{
	{Zone: "zen.spamhaus.org", Weight: 60}, // very authoritative
	{Zone: "bl.spamcop.net", Weight: 40},
}

// Service runs email domain diagnostics: WHOIS, DNS, TLS, geolocation and
// reputation, folded into a scored report. Reputation providers are optional
// and skipped when unconfigured.
type Service struct {
	resolver Resolver
	whoisFn  WhoisFunc
	probe    ProbeFunc
	zones    []DNSBLZone

	geo   *ipapi.Client
	abuse *abuseipdb.Client
	ipqs  *ipqs.Client

	now func() time.Time
}

// Option tweaks a Service; used by tests to stub network edges.
type Option func(*Service)

// WithResolver replaces the DNS resolver.
func WithResolver(r Resolver) Option { return func(s *Service) { s.resolver = r } }

// WithWhois replaces the WHOIS fetcher.
func WithWhois(fn WhoisFunc) Option { return func(s *Service) { s.whoisFn = fn } }

// WithProbe replaces the TLS prober.
func WithProbe(fn ProbeFunc) Option { return func(s *Service) { s.probe = fn } }

// WithZones replaces the DNSBL zone list.
func WithZones(zones []DNSBLZone) Option { return func(s *Service) { s.zones = zones } }

// WithClock replaces the risk-scoring clock.
func WithClock(now func() time.Time) Option { return func(s *Service) { s.now = now } }

// NewService creates a diagnostics service. abuse and ipqsClient may be nil.
func NewService(geo *ipapi.Client, abuse *abuseipdb.Client, ipqsClient *ipqs.Client, opts ...Option) *Service {
	s := &Service{
		resolver: net.DefaultResolver,
		whoisFn:  defaultWhois,
		probe:    probeTLS,
		zones:    defaultZones,
		geo:      geo,
		abuse:    abuse,
		ipqs:     ipqsClient,
		now:      func() time.Time { return time.Now().UTC() },
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Run produces the diagnostic report for an email's domain.
func (s *Service) Run(ctx context.Context, email string, verbose bool) (model.DiagnosticReport, error) {
	domain, err := util.DomainFromEmail(email)
	if err != nil {
		return model.DiagnosticReport{}, err
	}

	report := model.DiagnosticReport{InputEmail: email, Domain: domain}

	var raw string
	report.DomainWhois, raw = lookupWhois(s.whoisFn, domain)

	aRecords := s.resolve(ctx, "ip4", domain)

	probeHost := domain
	if len(aRecords) == 0 {
		probeHost = "www." + domain
	}
	report.SSL, report.Issuer = s.probe(ctx, probeHost)

	if len(aRecords) > 0 {
		ip := aRecords[0]

		geo, err := s.geo.Lookup(ctx, ip)
		if err != nil {
			geo = model.GeoMin{Error: err.Error()}
		}
		report.IPDetails = []model.IPDetail{{IP: ip, Geo: geo}}
		report.Reputation.DNSBLHits = s.dnsblLookup(ctx, ip)

		if s.abuse != nil && s.abuse.Configured() {
			check, err := s.abuse.Check(ctx, ip)
			if err != nil {
				check = model.AbuseReport{Error: fmt.Sprintf("abuseipdb failed: %v", err)}
			}
			report.Reputation.AbuseIPDB = &check
		}
		if s.ipqs != nil && s.ipqs.Configured() {
			data, err := s.ipqs.IP(ctx, ip, ipqs.IPOptions{Strictness: 1, AllowPublicAccessPoints: true})
			reputation := ipReputationFrom(data, err)
			report.Reputation.IPQS = &reputation
		}
	}

	report.Risk = ComputeRisk(report.DomainWhois, report.SSL, report.Issuer, report.IPDetails, report.Reputation, s.now())

	if verbose {
		report.DNS = &model.VerboseDNS{
			A:    aRecords,
			AAAA: s.resolve(ctx, "ip6", domain),
			MX:   s.resolveMX(ctx, domain),
		}
		report.WhoisRaw = raw
	}
	return report, nil
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

func (s *Service) resolveMX(ctx context.Context, domain string) []model.MXRecord {
	records, err := s.resolver.LookupMX(ctx, domain)
	if err != nil {
		return nil
	}
	out := make([]model.MXRecord, 0, len(records))
	for _, mx := range records {
		out = append(out, model.MXRecord{
			Preference: mx.Pref,
			Host:       strings.TrimSuffix(mx.Host, "."),
		})
	}
	return out
}

// dnsblLookup queries the configured blocklist zones for an IPv4 address,
// stopping at the first listing.
func (s *Service) dnsblLookup(ctx context.Context, ip string) []model.DNSBLHit {
	octets := strings.Split(ip, ".")
	if len(octets) != 4 {
		return nil
	}
	reversed := octets[3] + "." + octets[2] + "." + octets[1] + "." + octets[0]

	var hits []model.DNSBLHit
	for _, zone := range s.zones {
		qname := reversed + "." + zone.Zone
		addrs, err := s.resolver.LookupHost(ctx, qname)
		if err != nil || len(addrs) == 0 {
			continue
		}
		// Listed when an A record exists; TXT detail is optional.
		txt, _ := s.resolver.LookupTXT(ctx, qname)
		hits = append(hits, model.DNSBLHit{Zone: zone.Zone, Weight: zone.Weight, TXT: txt})
		break
	}
	return hits
}

func ipReputationFrom(data map[string]any, err error) model.IPReputation {
	if err != nil {
		return model.IPReputation{Error: fmt.Sprintf("ipqs failed: %v", err)}
	}
	out := model.IPReputation{}
	if fs, ok := data["fraud_score"].(float64); ok {
		out.FraudScore = &fs
	}
	out.Proxy, _ = data["proxy"].(bool)
	out.VPN, _ = data["vpn"].(bool)
	out.Tor, _ = data["tor"].(bool)
	out.RecentAbuse, _ = data["recent_abuse"].(bool)
	return out
}
