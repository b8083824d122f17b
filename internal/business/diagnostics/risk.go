package diagnostics

import (
	"math"
	"time"

	"github.com/scamadvisory/verify-api/pkg/model"
)

// Geo risk configuration (ISO-3166-1 alpha-2 codes).
var (
	geoHighRisk   = map[string]bool{"CN": true, "RU": true, "BY": true, "IR": true, "KP": true}
	geoMediumRisk = map[string]bool{"TR": true, "VN": true, "ID": true, "NG": true, "PK": true, "BR": true}
)

const (
	geoImpactHigh   = 40
	geoImpactMedium = 25
	geoNonGBNudge   = 5

	abuseIPDBMultiplier = 0.5
	abuseIPDBCap        = 50
	ipqsMultiplier      = 0.4
	ipqsCap             = 40
)

// ComputeRisk scores a domain 0..100 from its age, TLS posture, hosting
// country and IP reputation. Factors are additive; the result is clamped and
// labeled.
func ComputeRisk(whois model.DomainWhois, ssl model.TLSInfo, issuer *model.CertIssuer, ipDetails []model.IPDetail, rep model.Reputation, now time.Time) model.Risk {
	score := 0.0
	var signals []model.RiskSignal

	add := func(name string, impact float64, detail map[string]any) {
		score += impact
		signals = append(signals, model.RiskSignal{Signal: name, Impact: impact, Detail: detail})
	}

	// Domain age.
	created := parseDate(whois.CreationDate)
	if created == nil {
		add("missing_creation_date", 10, nil)
	} else {
		ageDays := int(now.Sub(*created).Hours() / 24)
		detail := map[string]any{"age_days": ageDays}
		switch {
		case ageDays < 7:
			add("age_<7d", 40, detail)
		case ageDays < 90:
			add("age_7d_to_3m", 25, detail)
		case ageDays < 180:
			add("age_3m_to_6m", 12, detail)
		case ageDays < 365:
			add("age_6m_to_12m", 5, detail)
		default:
			add("age_>12m", -15, detail)
		}
	}

	// TLS.
	isSelf := issuer != nil && issuer.IsSelfSigned
	isLE := issuer != nil && issuer.IsLetsEncrypt

	if !ssl.TLSValid {
		add("tls_invalid_or_absent", 40, nil)
	} else if !isLE {
		add("tls_valid_non_LE", -10, nil)
	}
	if isSelf {
		add("self_signed", 30, nil)
	}
	if isLE {
		impact := 45.0
		if created != nil && now.Sub(*created) < 90*24*time.Hour {
			impact += 10
		}
		add("lets_encrypt", impact, nil)
	}

	// Geo, first IP only.
	countryCode := ""
	if len(ipDetails) > 0 && ipDetails[0].Geo.Error == "" {
		countryCode = ipDetails[0].Geo.CountryCode
	}
	switch {
	case countryCode == "":
		add("geo_unknown", 5, nil)
	case geoHighRisk[countryCode]:
		add("geo_high:"+countryCode, geoImpactHigh, nil)
	case geoMediumRisk[countryCode]:
		add("geo_medium:"+countryCode, geoImpactMedium, nil)
	case countryCode != "GB":
		// A clean foreign domain still should not land in the Low band.
		tmp := clamp(score)
		if labelFor(tmp) == "Low" {
			delta := math.Max(0, 25-tmp)
			add("geo_non_gb_elevate:"+countryCode, delta, nil)
		} else {
			add("geo_non_gb_nudge:"+countryCode, geoNonGBNudge, nil)
		}
	}

	// Reputation, first IP only.
	if len(ipDetails) > 0 {
		if len(rep.DNSBLHits) > 0 {
			hit := rep.DNSBLHits[0]
			detail := map[string]any{}
			if len(hit.TXT) > 0 {
				detail["txt"] = hit.TXT
			}
			add("dnsbl_listed:"+hit.Zone, float64(hit.Weight), detail)
		}
		if rep.AbuseIPDB != nil && rep.AbuseIPDB.ConfidenceScore != nil {
			confidence := *rep.AbuseIPDB.ConfidenceScore
			impact := math.Min(confidence*abuseIPDBMultiplier, abuseIPDBCap)
			add("abuseipdb_confidence", impact, map[string]any{"confidence": confidence})
		}
		if rep.IPQS != nil && rep.IPQS.FraudScore != nil {
			fraud := *rep.IPQS.FraudScore
			impact := math.Min(fraud*ipqsMultiplier, ipqsCap)
			add("ipqs_fraud_score", impact, map[string]any{"fraud_score": fraud})
		}
	}

	final := int(math.Round(clamp(score)))
	return model.Risk{
		RiskScore: final,
		RiskLabel: labelFor(float64(final)),
		Signals:   signals,
	}
}

func clamp(score float64) float64 {
	return math.Max(0, math.Min(100, score))
}

func labelFor(score float64) string {
	switch {
	case score >= 75:
		return "Critical"
	case score >= 50:
		return "High"
	case score >= 25:
		return "Medium"
	default:
		return "Low"
	}
}

var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// parseDate accepts the date shapes WHOIS registrars commonly emit. Naive
// timestamps are treated as UTC.
func parseDate(s string) *time.Time {
	if s == "" {
		return nil
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			t = t.UTC()
			return &t
		}
	}
	return nil
}
