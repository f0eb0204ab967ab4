package cmd

import (
	"fmt"

	"github.com/khanhnv2901/site-checker/internal/domain/report"
)

// SecurityCheckSpec describes one scored condition and what it costs.
type SecurityCheckSpec struct {
	Name      string
	Category  string
	Deduction string
}

// securityCheckCatalog mirrors the deductions applied by report.Score. Keep
// the two in sync; security_checks_catalog_test.go checks the arithmetic.
var securityCheckCatalog = []SecurityCheckSpec{
	{Name: "Certificate invalid or unreachable", Category: "ssl", Deduction: fmt.Sprintf("-%d", report.InvalidCertificatePenalty)},
	{Name: fmt.Sprintf("Certificate expires within %d days", report.ExpiryWarningDays), Category: "ssl", Deduction: fmt.Sprintf("-%d", report.ExpiringCertificatePenalty)},
	{Name: report.HeaderContentSecurityPolicy + " missing", Category: "headers", Deduction: fmt.Sprintf("-%d", report.MissingHeaderPenalty)},
	{Name: report.HeaderStrictTransportSecurity + " missing", Category: "headers", Deduction: fmt.Sprintf("-%d", report.MissingHeaderPenalty)},
	{Name: report.HeaderXContentTypeOptions + " missing", Category: "headers", Deduction: fmt.Sprintf("-%d", report.MissingHeaderPenalty)},
	{Name: report.HeaderXFrameOptions + " missing", Category: "headers", Deduction: fmt.Sprintf("-%d", report.MissingHeaderPenalty)},
	{Name: report.HeaderXXSSProtection + " missing", Category: "headers", Deduction: fmt.Sprintf("-%d", report.MissingHeaderPenalty)},
	{Name: report.HeaderReferrerPolicy + " missing", Category: "headers", Deduction: "0 (reported only)"},
	{Name: report.HeaderFeaturePolicy + " / Permissions-Policy missing", Category: "headers", Deduction: "0 (reported only)"},
	{Name: "Flagged by Safe Browsing", Category: "malware", Deduction: fmt.Sprintf("-%d", report.UnsafeReputationPenalty)},
	{Name: "Insecure resource on page", Category: "mixedContent", Deduction: fmt.Sprintf("-%d each, at most %d", report.MixedResourcePenalty, report.MixedResourcePenalty*report.MaxPenalizedResources)},
}

func getSecurityCheckCatalog() []SecurityCheckSpec {
	out := make([]SecurityCheckSpec, len(securityCheckCatalog))
	copy(out, securityCheckCatalog)
	return out
}
