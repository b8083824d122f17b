package geoip

import "github.com/scamadvisory/verify-api/pkg/model"

// Summarize flattens a WhoisXML payload into the common fields templates
// need, keeping the full raw payload. The payload shape is controlled by the
// provider, so every extraction is defensive.
func Summarize(p map[string]any) model.GeoSummary {
	loc := section(p, "location")
	conn := section(p, "connection")
	asn := mapField(p, "asn")

	s := model.GeoSummary{
		IP:             firstString(p, "ip", "ipAddress"),
		Domain:         stringField(p, "domain"),
		Region:         firstString(loc, "region", "stateProv"),
		City:           stringField(loc, "city"),
		PostalCode:     firstString(loc, "postalCode", "zipCode"),
		Timezone:       firstString(loc, "timeZone", "timezone"),
		ConnectionType: firstString(conn, "connectionType"),
		Raw:            p,
	}
	if s.ConnectionType == "" {
		s.ConnectionType = stringField(p, "connectionType")
	}

	if continent := mapField(loc, "continent"); continent != nil {
		s.Continent = stringField(continent, "name")
	}
	if country := mapField(loc, "country"); country != nil {
		s.Country = stringField(country, "name")
		s.CountryCode = stringField(country, "code")
	} else {
		s.Country = stringField(loc, "country")
		s.CountryCode = stringField(loc, "countryCode")
	}

	s.Lat = firstNumber(loc, "lat", "latitude")
	s.Lon = firstNumber(loc, "lng", "longitude")

	s.ISP = firstString(conn, "isp")
	if s.ISP == "" {
		s.ISP = stringField(p, "isp")
	}
	s.Org = firstString(conn, "organization")
	if s.Org == "" {
		s.Org = stringField(p, "organization")
	}

	if asn != nil {
		s.ASN = asn["asn"]
		s.ASOrg = stringField(asn, "name")
	} else {
		s.ASN = p["asn"]
		s.ASOrg = stringField(p, "asName")
	}

	if rev := mapField(p, "reverseIp"); rev != nil {
		s.ReverseDomains = stringSlice(rev["domains"])
	} else {
		s.ReverseDomains = stringSlice(p["domains"])
	}
	return s
}

// section returns the named sub-object, falling back to the payload itself
// when the provider flattened that section.
func section(p map[string]any, key string) map[string]any {
	if m := mapField(p, key); m != nil {
		return m
	}
	return p
}

func mapField(p map[string]any, key string) map[string]any {
	if p == nil {
		return nil
	}
	m, _ := p[key].(map[string]any)
	return m
}

func stringField(p map[string]any, key string) string {
	if p == nil {
		return ""
	}
	s, _ := p[key].(string)
	return s
}

func firstString(p map[string]any, keys ...string) string {
	for _, k := range keys {
		if s := stringField(p, k); s != "" {
			return s
		}
	}
	return ""
}

func firstNumber(p map[string]any, keys ...string) float64 {
	for _, k := range keys {
		if f, ok := p[k].(float64); ok {
			return f
		}
	}
	return 0
}

func stringSlice(v any) []string {
	items, ok := v.([]any)
	if !ok {
		return nil
	}
	var out []string
	for _, item := range items {
		if s, ok := item.(string); ok {
			out = append(out, s)
		}
	}
	return out
}
