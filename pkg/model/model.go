package model

// ValidationResult is the two-variant outcome of an email validation call:
// either the provider's decoded JSON body, or a failure message. Exactly one
// of the two is ever set.
type ValidationResult struct {
	Body  map[string]any `json:"body,omitempty"`
	Error string         `json:"error,omitempty"`
}

// OK reports whether the result carries the success variant.
func (r ValidationResult) OK() bool {
	return r.Error == ""
}

// PhoneValidation captures a numverify response along with the endpoint and
// HTTP status that produced it.
type PhoneValidation struct {
	Endpoint   string         `json:"endpoint"`
	HTTPStatus int            `json:"http_status"`
	Data       map[string]any `json:"data,omitempty"`
	Raw        string         `json:"raw,omitempty"` // body kept verbatim when it is not JSON
}

// GeoSummary is the flattened view of a WhoisXML geolocation payload. Field
// extraction is defensive: the provider controls the payload shape.
type GeoSummary struct {
	IP             string         `json:"ip,omitempty"`
	Domain         string         `json:"domain,omitempty"`
	Continent      string         `json:"continent,omitempty"`
	Country        string         `json:"country,omitempty"`
	CountryCode    string         `json:"country_code,omitempty"`
	Region         string         `json:"region,omitempty"`
	City           string         `json:"city,omitempty"`
	PostalCode     string         `json:"postal_code,omitempty"`
	Lat            float64        `json:"lat,omitempty"`
	Lon            float64        `json:"lon,omitempty"`
	Timezone       string         `json:"timezone,omitempty"`
	ISP            string         `json:"isp,omitempty"`
	Org            string         `json:"org,omitempty"`
	ConnectionType string         `json:"connection_type,omitempty"`
	ASN            any            `json:"asn,omitempty"`
	ASOrg          string         `json:"as_org,omitempty"`
	ReverseDomains []string       `json:"reverse_domains,omitempty"`
	Raw            map[string]any `json:"raw,omitempty"`
}

// GeoLookup is a single row in a geo enrichment: a summary on success, an
// error string otherwise.
type GeoLookup struct {
	GeoSummary
	Note  string `json:"note,omitempty"`
	Error string `json:"error,omitempty"`
}

// DNSRecords holds the address records resolved for a domain.
type DNSRecords struct {
	A    []string `json:"A"`
	AAAA []string `json:"AAAA"`
}

// GeoEnrichment aggregates geolocation lookups for every IP a domain
// resolves to.
type GeoEnrichment struct {
	InputDomain      string      `json:"input_domain"`
	DNS              DNSRecords  `json:"dns"`
	Lookups          []GeoLookup `json:"lookups"`
	DomainLookupUsed bool        `json:"domain_lookup_used"`
}

// GeoMin is the trimmed ip-api.com geolocation used by diagnostics.
type GeoMin struct {
	Country     string  `json:"country,omitempty"`
	CountryCode string  `json:"countryCode,omitempty"`
	Region      string  `json:"region,omitempty"`
	City        string  `json:"city,omitempty"`
	Lat         float64 `json:"lat,omitempty"`
	Lon         float64 `json:"lon,omitempty"`
	ISP         string  `json:"isp,omitempty"`
	Org         string  `json:"org,omitempty"`
	Error       string  `json:"error,omitempty"`
}

// DomainWhois is the minimal WHOIS view used for risk scoring.
type DomainWhois struct {
	DomainName     string `json:"domain_name,omitempty"`
	Registrar      string `json:"registrar,omitempty"`
	CreationDate   string `json:"creation_date,omitempty"`
	ExpirationDate string `json:"expiration_date,omitempty"`
	Error          string `json:"error,omitempty"`
}

// TLSInfo records whether a verified handshake succeeded.
type TLSInfo struct {
	TLSValid bool `json:"tls_valid"`
}

// CertIssuer describes the leaf certificate issuer seen during the TLS probe.
type CertIssuer struct {
	CountryName      string `json:"countryName,omitempty"`
	OrganizationName string `json:"organizationName,omitempty"`
	CommonName       string `json:"commonName,omitempty"`
	NotAfter         string `json:"not_after,omitempty"`
	IsSelfSigned     bool   `json:"is_self_signed"`
	IssuerSummary    string `json:"issuer_summary,omitempty"`
	IsLetsEncrypt    bool   `json:"is_lets_encrypt"`
}

// IPDetail pairs a resolved IP with its minimal geolocation.
type IPDetail struct {
	IP  string `json:"ip"`
	Geo GeoMin `json:"geo"`
}

// DNSBLHit records a blocklist listing for an IP.
type DNSBLHit struct {
	Zone   string   `json:"zone"`
	Weight int      `json:"weight"`
	TXT    []string `json:"txt,omitempty"`
}

// AbuseReport is the trimmed AbuseIPDB check result.
type AbuseReport struct {
	ConfidenceScore *float64 `json:"confidence_score,omitempty"`
	TotalReports    *int     `json:"total_reports,omitempty"`
	Error           string   `json:"error,omitempty"`
}

// IPReputation is the trimmed IPQualityScore IP check result.
type IPReputation struct {
	FraudScore  *float64 `json:"fraud_score,omitempty"`
	Proxy       bool     `json:"proxy,omitempty"`
	VPN         bool     `json:"vpn,omitempty"`
	Tor         bool     `json:"tor,omitempty"`
	RecentAbuse bool     `json:"recent_abuse,omitempty"`
	Error       string   `json:"error,omitempty"`
}

// Reputation groups the blocklist and reputation provider results for the
// first resolved IP.
type Reputation struct {
	DNSBLHits []DNSBLHit    `json:"dnsbl_hits,omitempty"`
	AbuseIPDB *AbuseReport  `json:"abuseipdb,omitempty"`
	IPQS      *IPReputation `json:"ipqs,omitempty"`
}

// RiskSignal is one additive factor in the risk score.
type RiskSignal struct {
	Signal string         `json:"signal"`
	Impact float64        `json:"impact"`
	Detail map[string]any `json:"detail,omitempty"`
}

// Risk is the clamped 0..100 score with its label and contributing signals.
type Risk struct {
	RiskScore int          `json:"risk_score"`
	RiskLabel string       `json:"risk_label"`
	Signals   []RiskSignal `json:"signals"`
}

// MXRecord is a mail exchanger with its preference.
type MXRecord struct {
	Preference uint16 `json:"preference"`
	Host       string `json:"host"`
}

// VerboseDNS extends the diagnostic report with the full record set.
type VerboseDNS struct {
	A    []string   `json:"A"`
	AAAA []string   `json:"AAAA"`
	MX   []MXRecord `json:"MX"`
}

// DiagnosticReport is the full diagnostic for an email's domain.
type DiagnosticReport struct {
	InputEmail  string      `json:"input_email"`
	Domain      string      `json:"domain"`
	DomainWhois DomainWhois `json:"domain_whois"`
	SSL         TLSInfo     `json:"ssl"`
	Issuer      *CertIssuer `json:"issuer,omitempty"`
	IPDetails   []IPDetail  `json:"ip_details"`
	Reputation  Reputation  `json:"reputation"`
	Risk

	// Verbose extras.
	DNS      *VerboseDNS `json:"dns,omitempty"`
	WhoisRaw string      `json:"domain_whois_full,omitempty"`
}
