package ipqs

import (
	"fmt"
	"strings"
)

var ipFlagKeys = []string{
	"proxy", "vpn", "tor", "bot_status", "recent_abuse",
	"leaked", "mobile", "corporate_proxy", "active_vpn",
}

// RiskLevel bands a 0-100 score the way the upstream scoring does.
func RiskLevel(score float64) string {
	switch {
	case score >= 85:
		return "CRITICAL"
	case score >= 75:
		return "HIGH"
	case score >= 50:
		return "MEDIUM"
	default:
		return "LOW"
	}
}

// SummarizeIP renders the ip endpoint payload as a short human report.
func SummarizeIP(data map[string]any) string {
	var parts []string
	parts = append(parts, fmt.Sprintf("IP: %v  Country: %v  FraudScore: %v",
		data["request"], data["country_code"], data["fraud_score"]))

	var flags []string
	for _, k := range ipFlagKeys {
		if v, ok := data[k].(bool); ok && v {
			flags = append(flags, k)
		}
	}
	if len(flags) > 0 {
		parts = append(parts, "Flags: "+strings.Join(flags, ", "))
	}

	risk, ok := number(data, "risk_score")
	if !ok {
		risk, ok = number(data, "fraud_score")
	}
	if ok {
		parts = append(parts, "Risk level: "+RiskLevel(risk))
	}

	if note := stringField(data, "message"); note == "" {
		if region := stringField(data, "region"); region != "" {
			parts = append(parts, "Note: "+region)
		}
	} else {
		parts = append(parts, "Note: "+note)
	}
	return strings.Join(parts, "\n")
}

// SummarizeEmail renders the email endpoint payload.
func SummarizeEmail(data map[string]any) string {
	parts := []string{
		fmt.Sprintf("Email: %v (domain: %v)", data["request"], data["domain"]),
		fmt.Sprintf("Valid: %v  Deliverability: %v  FraudScore: %v",
			data["valid"], data["deliverability"], data["fraud_score"]),
		fmt.Sprintf("Disposable: %v  Recent Abuse: %v", data["disposable"], data["recent_abuse"]),
	}
	if note := stringField(data, "message"); note != "" {
		parts = append(parts, "Note: "+note)
	}
	return strings.Join(parts, "\n")
}

// SummarizePhone renders the phone endpoint payload.
func SummarizePhone(data map[string]any) string {
	parts := []string{
		fmt.Sprintf("Phone: %v  Country: %v", data["request"], data["country"]),
		fmt.Sprintf("Valid: %v  Active: %v  Line Type: %v  Carrier: %v",
			data["valid"], data["active"], data["line_type"], data["carrier"]),
		fmt.Sprintf("FraudScore: %v  Recent Abuse: %v", data["fraud_score"], data["recent_abuse"]),
	}
	if note := stringField(data, "message"); note != "" {
		parts = append(parts, "Note: "+note)
	}
	return strings.Join(parts, "\n")
}

// SummarizeURL renders the url endpoint payload.
func SummarizeURL(data map[string]any) string {
	risk, ok := number(data, "risk_score")
	if !ok {
		risk, _ = number(data, "fraud_score")
	}
	parts := []string{
		fmt.Sprintf("URL: %v", data["request"]),
		fmt.Sprintf("FraudScore: %v  RiskScore: %v", data["fraud_score"], risk),
		fmt.Sprintf("Suspicious: %v  Unsafe: %v  Phishing: %v  Malware: %v",
			data["suspicious"], data["unsafe"], data["phishing"], data["malware"]),
	}
	if note := stringField(data, "message"); note != "" {
		parts = append(parts, "Note: "+note)
	}
	return strings.Join(parts, "\n")
}

func number(data map[string]any, key string) (float64, bool) {
	switch v := data[key].(type) {
	case float64:
		return v, true
	case int:
		return float64(v), true
	default:
		return 0, false
	}
}

func stringField(data map[string]any, key string) string {
	s, _ := data[key].(string)
	return s
}
