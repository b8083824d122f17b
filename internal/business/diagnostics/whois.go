package diagnostics

import (
	"fmt"

	"github.com/likexian/whois"
	whoisparser "github.com/likexian/whois-parser"

	"github.com/scamadvisory/verify-api/pkg/model"
)

// WhoisFunc fetches the raw WHOIS record for a domain.
type WhoisFunc func(domain string) (string, error)

func defaultWhois(domain string) (string, error) {
	return whois.Whois(domain)
}

// lookupWhois fetches and parses the minimal WHOIS view. Failures are folded
// into the Error field; the raw record is returned for verbose reports.
func lookupWhois(fn WhoisFunc, domain string) (model.DomainWhois, string) {
	raw, err := fn(domain)
	if err != nil {
		return model.DomainWhois{Error: fmt.Sprintf("domain whois failed: %v", err)}, ""
	}

	parsed, err := whoisparser.Parse(raw)
	if err != nil {
		return model.DomainWhois{Error: fmt.Sprintf("domain whois failed: %v", err)}, raw
	}

	out := model.DomainWhois{}
	if parsed.Domain != nil {
		out.DomainName = parsed.Domain.Domain
		out.CreationDate = parsed.Domain.CreatedDate
		out.ExpirationDate = parsed.Domain.ExpirationDate
	}
	if parsed.Registrar != nil {
		out.Registrar = parsed.Registrar.Name
	}
	return out, raw
}
