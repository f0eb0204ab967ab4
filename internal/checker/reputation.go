package checker

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/khanhnv2901/site-checker/internal/domain/report"
	consts "github.com/khanhnv2901/site-checker/internal/shared/constants"
)

// ThreatLookup queries a threat-intelligence service for a URL and returns the
// threat types it matched. An empty result means the URL is not flagged.
type ThreatLookup interface {
	Lookup(ctx context.Context, url string) ([]string, error)
}

// ReputationChecker reports whether a URL is flagged for malware or phishing.
// With no Lookup configured it reports an unchecked verdict, which is the
// normal mode for deployments without a Safe Browsing key.
type ReputationChecker struct {
	Lookup  ThreatLookup
	Timeout time.Duration
	Logger  *zap.Logger
}

// NewReputationChecker creates a ReputationChecker. A nil lookup disables it.
func NewReputationChecker(lookup ThreatLookup, logger *zap.Logger) *ReputationChecker {
	return &ReputationChecker{
		Lookup:  lookup,
		Timeout: consts.DefaultCheckTimeout,
		Logger:  logger,
	}
}

// Enabled reports whether lookups will be performed.
func (r *ReputationChecker) Enabled() bool {
	return r.Lookup != nil
}

// Check looks up target's reputation.
func (r *ReputationChecker) Check(ctx context.Context, target string) report.Outcome[report.Reputation] {
	if !r.Enabled() {
		return report.Succeeded(report.Unchecked(consts.ReputationDisabledMessage))
	}

	timeout := r.Timeout
	if timeout <= 0 {
		timeout = consts.DefaultCheckTimeout
	}
	lookupCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	threats, err := r.Lookup.Lookup(lookupCtx, target)
	if err != nil {
		return failed[report.Reputation](r.Logger, r.Name(), target, err)
	}
	return report.Succeeded(report.Verdict(threats))
}

// Name returns the name of this checker
func (r *ReputationChecker) Name() string {
	return "malware"
}
