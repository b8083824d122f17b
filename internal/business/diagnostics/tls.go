package diagnostics

import (
	"context"
	"crypto/tls"
	"crypto/x509"
	"net"
	"strings"
	"time"

	"github.com/scamadvisory/verify-api/pkg/model"
)

// ProbeFunc performs the TLS handshake inspection for a host.
type ProbeFunc func(ctx context.Context, host string) (model.TLSInfo, *model.CertIssuer)

// probeTLS dials port 443 with verification first; when that fails it
// retries unverified so issuer data is still available for scoring.
func probeTLS(ctx context.Context, host string) (model.TLSInfo, *model.CertIssuer) {
	info := model.TLSInfo{}

	if cert, ok := handshake(ctx, host, false); ok {
		info.TLSValid = true
		return info, issuerFromCert(cert)
	}
	if cert, ok := handshake(ctx, host, true); ok {
		return info, issuerFromCert(cert)
	}
	return info, nil
}

func handshake(ctx context.Context, host string, insecure bool) (*x509.Certificate, bool) {
	dialer := &tls.Dialer{
		NetDialer: &net.Dialer{Timeout: 6 * time.Second},
		Config: &tls.Config{
			ServerName:         host,
			InsecureSkipVerify: insecure,
		},
	}
	conn, err := dialer.DialContext(ctx, "tcp", net.JoinHostPort(host, "443"))
	if err != nil {
		return nil, false
	}
	defer conn.Close()

	state := conn.(*tls.Conn).ConnectionState()
	if len(state.PeerCertificates) == 0 {
		return nil, false
	}
	return state.PeerCertificates[0], true
}

func issuerFromCert(cert *x509.Certificate) *model.CertIssuer {
	if cert == nil {
		return nil
	}

	issuerCN := cert.Issuer.CommonName
	issuerO := first(cert.Issuer.Organization)
	isLE := strings.Contains(issuerCN, "Let's Encrypt") || strings.Contains(issuerO, "Let's Encrypt")
	isSelf := cert.Issuer.String() != "" && cert.Issuer.String() == cert.Subject.String()

	summary := issuerCN
	if summary == "" {
		summary = issuerO
	}

	return &model.CertIssuer{
		CountryName:      first(cert.Issuer.Country),
		OrganizationName: issuerO,
		CommonName:       issuerCN,
		NotAfter:         cert.NotAfter.UTC().Format(time.RFC3339),
		IsSelfSigned:     isSelf,
		IssuerSummary:    summary,
		IsLetsEncrypt:    isLE,
	}
}

func first(values []string) string {
	if len(values) == 0 {
		return ""
	}
	return values[0]
}
