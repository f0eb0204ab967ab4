package checker

import (
	"context"
	"crypto/tls"
	"crypto/x509"
	"fmt"
	"math"
	"net"
	"time"

	"go.uber.org/zap"

	"github.com/khanhnv2901/site-checker/internal/domain/report"
	consts "github.com/khanhnv2901/site-checker/internal/shared/constants"
	sharederrors "github.com/khanhnv2901/site-checker/internal/shared/errors"
)

// TLSInspector connects to a host and inspects the certificate it presents.
// The handshake itself never rejects the certificate; validity is established
// afterwards so expired or mismatched certificates are still described.
type TLSInspector struct {
	Port    string
	Timeout time.Duration
	Logger  *zap.Logger

	// Roots overrides the system root pool used for chain verification.
	Roots *x509.CertPool
	// Now overrides the clock used for verification and expiry.
	Now func() time.Time
}

// NewTLSInspector creates a TLSInspector for port 443 with the default timeout.
func NewTLSInspector(logger *zap.Logger) *TLSInspector {
	return &TLSInspector{
		Port:    consts.DefaultTLSPort,
		Timeout: consts.DefaultCheckTimeout,
		Logger:  logger,
	}
}

// Check inspects the certificate served for host.
func (i *TLSInspector) Check(ctx context.Context, host string) report.Outcome[report.Certificate] {
	cert, err := i.inspect(ctx, host)
	if err != nil {
		return failed[report.Certificate](i.Logger, i.Name(), host, err)
	}
	return report.Succeeded(cert)
}

// Name returns the name of this checker
func (i *TLSInspector) Name() string {
	return "ssl"
}

func (i *TLSInspector) inspect(ctx context.Context, host string) (report.Certificate, error) {
	if host == "" {
		return report.Certificate{}, fmt.Errorf("%w: empty host", sharederrors.ErrInvalidURL)
	}

	port := i.Port
	if port == "" {
		port = consts.DefaultTLSPort
	}
	timeout := i.Timeout
	if timeout <= 0 {
		timeout = consts.DefaultCheckTimeout
	}

	dialCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	dialer := &tls.Dialer{
		NetDialer: &net.Dialer{Timeout: timeout},
		Config: &tls.Config{
			ServerName:         host,
			InsecureSkipVerify: true, // #nosec G402 -- the chain is verified explicitly in verifyCertificate.
		},
	}

	conn, err := dialer.DialContext(dialCtx, "tcp", net.JoinHostPort(host, port))
	if err != nil {
		return report.Certificate{}, fmt.Errorf("tls handshake with %s: %w", host, err)
	}
	defer conn.Close()

	tlsConn, ok := conn.(*tls.Conn)
	if !ok {
		return report.Certificate{}, fmt.Errorf("unexpected connection type %T", conn)
	}
	state := tlsConn.ConnectionState()
	if len(state.PeerCertificates) == 0 {
		return report.Certificate{}, sharederrors.ErrNoCertificate
	}

	now := time.Now()
	if i.Now != nil {
		now = i.Now()
	}

	leaf := state.PeerCertificates[0]
	return report.Certificate{
		Valid:         i.verifyCertificate(host, state.PeerCertificates, now) == nil,
		DaysRemaining: daysRemaining(now, leaf.NotAfter),
		ValidFrom:     leaf.NotBefore.UTC(),
		ValidTo:       leaf.NotAfter.UTC(),
		Domains:       coveredDomains(leaf),
	}, nil
}

// verifyCertificate checks the chain against the trusted roots and the host
// against the certificate's Subject Alternative Names.
func (i *TLSInspector) verifyCertificate(host string, chain []*x509.Certificate, now time.Time) error {
	intermediates := x509.NewCertPool()
	for _, cert := range chain[1:] {
		intermediates.AddCert(cert)
	}

	_, err := chain[0].Verify(x509.VerifyOptions{
		DNSName:       host,
		Roots:         i.Roots,
		Intermediates: intermediates,
		CurrentTime:   now,
	})
	if err != nil {
		loggerOrNop(i.Logger).Debug("certificate_invalid",
			zap.String("host", host),
			zap.Error(err),
		)
	}
	return err
}

// daysRemaining returns the whole days until notAfter, rounded to the nearest
// day. It is negative once the certificate has expired.
func daysRemaining(now, notAfter time.Time) int {
	return int(math.Round(notAfter.Sub(now).Hours() / 24))
}

// coveredDomains lists the DNS names and IP addresses from the certificate's
// Subject Alternative Name extension.
func coveredDomains(cert *x509.Certificate) []string {
	domains := make([]string, 0, len(cert.DNSNames)+len(cert.IPAddresses))
	domains = append(domains, cert.DNSNames...)
	for _, ip := range cert.IPAddresses {
		domains = append(domains, ip.String())
	}
	return domains
}
