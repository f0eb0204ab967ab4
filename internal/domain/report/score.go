package report

// Score deductions, starting from MaxScore.
const (
	MaxScore = 100
	MinScore = 0

	InvalidCertificatePenalty  = 40
	ExpiringCertificatePenalty = 20
	MissingHeaderPenalty       = 5
	UnsafeReputationPenalty    = 50
	MixedResourcePenalty       = 10

	// ExpiryWarningDays is the remaining validity below which a valid
	// certificate is penalised.
	ExpiryWarningDays = 30
	// MaxPenalizedResources caps the mixed-content deduction.
	MaxPenalizedResources = 5
)

// Score computes the 0-100 safety score of a report. It only depends on the four
// check outcomes. A failed check scores like its most pessimistic reading for TLS
// and headers, and like "nothing found" for reputation and mixed content.
func Score(r *CheckReport) int {
	score := MaxScore

	cert, ok := r.SSL.Get()
	switch {
	case !ok || !cert.Valid:
		score -= InvalidCertificatePenalty
	case cert.DaysRemaining < ExpiryWarningDays:
		score -= ExpiringCertificatePenalty
	}

	headers, ok := r.Headers.Get()
	for _, name := range ScoredHeaders {
		if !ok || !headers.Present(name) {
			score -= MissingHeaderPenalty
		}
	}

	if rep, ok := r.Malware.Get(); ok && rep.Checked && !rep.Safe {
		score -= UnsafeReputationPenalty
	}

	if mixed, ok := r.MixedContent.Get(); ok && mixed.Found {
		score -= MixedResourcePenalty * min(mixed.Count, MaxPenalizedResources)
	}

	return max(MinScore, min(MaxScore, score))
}
