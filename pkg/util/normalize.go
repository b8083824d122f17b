package util

import (
	"fmt"
	"regexp"
	"strings"
)

var (
	// nonDigitPattern matches anything that is not a decimal digit.
	nonDigitPattern = regexp.MustCompile(`\D`)
	// isoCountryPattern matches ISO-3166-1 alpha-2 codes.
	isoCountryPattern = regexp.MustCompile(`^[A-Z]{2}$`)
)

// countryAliases maps common non-ISO spellings to their alpha-2 codes.
var countryAliases = map[string]string{
	"UK": "GB",
	"EL": "GR", // sometimes seen for Greece
}

// NormalizeDialCode prepares a phone code or number for directory matching:
// strips a leading "+" or "00" prefix and keeps digits only.
func NormalizeDialCode(value string) string {
	v := strings.TrimSpace(value)
	if strings.HasPrefix(v, "+") {
		v = v[1:]
	} else if strings.HasPrefix(v, "00") {
		v = v[2:]
	}
	return nonDigitPattern.ReplaceAllString(v, "")
}

// SanitizePhone keeps digits and a single leading "+".
func SanitizePhone(phone string) string {
	phone = strings.TrimSpace(phone)
	if strings.HasPrefix(phone, "+") {
		return "+" + nonDigitPattern.ReplaceAllString(phone[1:], "")
	}
	return nonDigitPattern.ReplaceAllString(phone, "")
}

// NormalizeCountries uppercases and alias-fixes country hints, rejecting
// anything that is not an ISO alpha-2 code. Empty entries are dropped; a nil
// or all-empty input returns nil.
func NormalizeCountries(countries []string) ([]string, error) {
	var norm []string
	for _, c := range countries {
		c = strings.ToUpper(strings.TrimSpace(c))
		if c == "" {
			continue
		}
		if alias, ok := countryAliases[c]; ok {
			c = alias
		}
		if !isoCountryPattern.MatchString(c) {
			return nil, fmt.Errorf("invalid country code %q: use ISO-3166-1 alpha-2 (e.g., GB, US, DE)", c)
		}
		norm = append(norm, c)
	}
	return norm, nil
}

// DomainFromEmail extracts the lowercased domain part of an email address.
func DomainFromEmail(email string) (string, error) {
	at := strings.Index(email, "@")
	if at < 0 {
		return "", fmt.Errorf("provide an email like name@example.com")
	}
	domain := strings.ToLower(strings.TrimSpace(email[at+1:]))
	if domain == "" {
		return "", fmt.Errorf("provide an email like name@example.com")
	}
	return domain, nil
}
