package report

import "time"

// Certificate describes the TLS certificate presented by a host.
type Certificate struct {
	Valid         bool      `json:"valid" yaml:"valid"`
	DaysRemaining int       `json:"daysRemaining" yaml:"daysRemaining"`
	ValidFrom     time.Time `json:"validFrom" yaml:"validFrom"`
	ValidTo       time.Time `json:"validTo" yaml:"validTo"`
	Domains       []string  `json:"domains" yaml:"domains"`
}

func (Certificate) failureShape(msg string) any {
	return struct {
		Valid bool   `json:"valid" yaml:"valid"`
		Error string `json:"error" yaml:"error"`
	}{Valid: false, Error: msg}
}

// Audited security header display names, in report order.
const (
	HeaderContentSecurityPolicy   = "Content-Security-Policy"
	HeaderStrictTransportSecurity = "Strict-Transport-Security"
	HeaderXContentTypeOptions     = "X-Content-Type-Options"
	HeaderXFrameOptions           = "X-Frame-Options"
	HeaderXXSSProtection          = "X-XSS-Protection"
	HeaderReferrerPolicy          = "Referrer-Policy"
	HeaderFeaturePolicy           = "Feature-Policy"
)

// AuditedHeaders lists every header the auditor reports on.
var AuditedHeaders = []string{
	HeaderContentSecurityPolicy,
	HeaderStrictTransportSecurity,
	HeaderXContentTypeOptions,
	HeaderXFrameOptions,
	HeaderXXSSProtection,
	HeaderReferrerPolicy,
	HeaderFeaturePolicy,
}

// ScoredHeaders is the subset of AuditedHeaders whose absence lowers the score.
// Referrer-Policy and Feature-Policy are reported but never scored.
var ScoredHeaders = []string{
	HeaderContentSecurityPolicy,
	HeaderStrictTransportSecurity,
	HeaderXContentTypeOptions,
	HeaderXFrameOptions,
	HeaderXXSSProtection,
}

// HeaderSet maps each audited header name to its value; nil means absent.
type HeaderSet map[string]*string

// NewHeaderSet returns a HeaderSet with every audited header marked absent.
func NewHeaderSet() HeaderSet {
	hs := make(HeaderSet, len(AuditedHeaders))
	for _, name := range AuditedHeaders {
		hs[name] = nil
	}
	return hs
}

// Set records a header value. Empty values count as absent.
func (h HeaderSet) Set(name, value string) {
	if value == "" {
		h[name] = nil
		return
	}
	v := value
	h[name] = &v
}

// Present reports whether the named header carried a non-empty value.
func (h HeaderSet) Present(name string) bool {
	v, ok := h[name]
	return ok && v != nil && *v != ""
}

// Value returns the header value, or "" when absent.
func (h HeaderSet) Value(name string) string {
	if !h.Present(name) {
		return ""
	}
	return *h[name]
}

// PresentCount returns how many audited headers are present.
func (h HeaderSet) PresentCount() int {
	n := 0
	for _, name := range AuditedHeaders {
		if h.Present(name) {
			n++
		}
	}
	return n
}

// Reputation is the verdict of the reputation lookup. Checked is false when no
// credential is configured; Reason then explains why.
type Reputation struct {
	Checked bool
	Safe    bool
	Threats []string
	Reason  string
}

// Unchecked returns the verdict used when reputation lookups are disabled.
func Unchecked(reason string) Reputation {
	return Reputation{Reason: reason}
}

// Verdict builds a checked verdict from the threat types matched for a URL.
func Verdict(threats []string) Reputation {
	if len(threats) == 0 {
		return Reputation{Checked: true, Safe: true, Threats: []string{}}
	}
	return Reputation{Checked: true, Safe: false, Threats: append([]string(nil), threats...)}
}

func (r Reputation) shape() any {
	if !r.Checked {
		return struct {
			Checked bool   `json:"checked" yaml:"checked"`
			Message string `json:"message" yaml:"message"`
		}{Checked: false, Message: r.Reason}
	}
	threats := r.Threats
	if threats == nil {
		threats = []string{}
	}
	return struct {
		Checked bool     `json:"checked" yaml:"checked"`
		Safe    bool     `json:"safe" yaml:"safe"`
		Threats []string `json:"threats" yaml:"threats"`
	}{Checked: true, Safe: r.Safe, Threats: threats}
}

func (Reputation) failureShape(msg string) any {
	return struct {
		Checked bool   `json:"checked" yaml:"checked"`
		Error   string `json:"error" yaml:"error"`
	}{Checked: false, Error: msg}
}

// MaxReportedResources caps how many insecure resources a report lists.
const MaxReportedResources = 10

// Resource is an element that loads its content over plain HTTP.
type Resource struct {
	Tag string `json:"tag" yaml:"tag"`
	URL string `json:"url" yaml:"url"`
}

// MixedContent summarises insecure resources found on a page. Count is the
// untruncated total; Resources holds at most MaxReportedResources entries.
type MixedContent struct {
	Found     bool       `json:"found" yaml:"found"`
	Count     int        `json:"count" yaml:"count"`
	Resources []Resource `json:"resources" yaml:"resources"`
}

// NewMixedContent builds a MixedContent summary from every insecure resource
// found, in document order.
func NewMixedContent(all []Resource) MixedContent {
	listed := all
	if len(listed) > MaxReportedResources {
		listed = listed[:MaxReportedResources]
	}
	return MixedContent{
		Found:     len(all) > 0,
		Count:     len(all),
		Resources: append([]Resource{}, listed...),
	}
}

// Truncated reports whether Resources omits some of the resources counted.
func (m MixedContent) Truncated() bool {
	return m.Count > len(m.Resources)
}
