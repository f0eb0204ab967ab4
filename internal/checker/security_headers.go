package checker

import (
	"context"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/khanhnv2901/site-checker/internal/domain/report"
	consts "github.com/khanhnv2901/site-checker/internal/shared/constants"
)

// securityHeaderSpec maps a reported header to the response headers it is read
// from, in order of preference.
type securityHeaderSpec struct {
	Name      string
	WireNames []string
}

// securityHeaderSpecs defines all security headers to audit, in report order
var securityHeaderSpecs = []securityHeaderSpec{
	{Name: report.HeaderContentSecurityPolicy, WireNames: []string{"Content-Security-Policy"}},
	{Name: report.HeaderStrictTransportSecurity, WireNames: []string{"Strict-Transport-Security"}},
	{Name: report.HeaderXContentTypeOptions, WireNames: []string{"X-Content-Type-Options"}},
	{Name: report.HeaderXFrameOptions, WireNames: []string{"X-Frame-Options"}},
	{Name: report.HeaderXXSSProtection, WireNames: []string{"X-XSS-Protection"}},
	{Name: report.HeaderReferrerPolicy, WireNames: []string{"Referrer-Policy"}},
	// Permissions-Policy superseded Feature-Policy; either satisfies the audit.
	{Name: report.HeaderFeaturePolicy, WireNames: []string{"Feature-Policy", "Permissions-Policy"}},
}

// AuditSecurityHeaders extracts the audited security headers from a response.
// Every audited header appears in the result; missing ones are nil.
func AuditSecurityHeaders(headers http.Header) report.HeaderSet {
	result := report.NewHeaderSet()
	for _, spec := range securityHeaderSpecs {
		for _, wire := range spec.WireNames {
			if value := headers.Get(wire); value != "" {
				result.Set(spec.Name, value)
				break
			}
		}
	}
	return result
}

// HeaderAuditor fetches a URL once and audits its security headers. Any status
// code is accepted.
type HeaderAuditor struct {
	Timeout      time.Duration
	MaxRedirects int
	Logger       *zap.Logger

	// Client overrides the HTTP client built from Timeout and MaxRedirects.
	Client *http.Client
}

// NewHeaderAuditor creates a HeaderAuditor with the default timeout and
// redirect limit.
func NewHeaderAuditor(logger *zap.Logger) *HeaderAuditor {
	return &HeaderAuditor{
		Timeout:      consts.DefaultCheckTimeout,
		MaxRedirects: consts.DefaultMaxRedirects,
		Logger:       logger,
	}
}

// Check audits the security headers returned by target.
func (a *HeaderAuditor) Check(ctx context.Context, target string) report.Outcome[report.HeaderSet] {
	client := a.Client
	if client == nil {
		client = newHTTPClient(a.Timeout, a.MaxRedirects)
	}

	resp, err := fetch(ctx, client, target)
	if err != nil {
		return failed[report.HeaderSet](a.Logger, a.Name(), target, err)
	}
	defer drain(resp)

	return report.Succeeded(AuditSecurityHeaders(resp.Header))
}

// Name returns the name of this checker
func (a *HeaderAuditor) Name() string {
	return "headers"
}
