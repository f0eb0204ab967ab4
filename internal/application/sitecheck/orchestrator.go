package sitecheck

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/sourcegraph/conc"
	"github.com/sourcegraph/conc/panics"
	"go.uber.org/zap"
	"golang.org/x/sync/semaphore"

	"github.com/khanhnv2901/site-checker/internal/checker"
	"github.com/khanhnv2901/site-checker/internal/domain/report"
	sharederrors "github.com/khanhnv2901/site-checker/internal/shared/errors"
)

// errNotConfigured is reported for a check slot left empty.
var errNotConfigured = errors.New("check not configured")

// Checks holds the four checks run against every URL.
type Checks struct {
	TLS          checker.Checker[report.Certificate]
	Headers      checker.Checker[report.HeaderSet]
	Reputation   checker.Checker[report.Reputation]
	MixedContent checker.Checker[report.MixedContent]
}

// Options tunes an Orchestrator. The zero value is usable.
type Options struct {
	// MaxConcurrent caps the checks in flight across all calls to Check.
	// Zero means unlimited.
	MaxConcurrent int64
	Logger        *zap.Logger
	// Now overrides the clock used for report timestamps.
	Now func() time.Time
}

// Orchestrator runs the four site checks concurrently and merges their
// outcomes into a scored report.
type Orchestrator struct {
	checks Checks
	sem    *semaphore.Weighted
	logger *zap.Logger
	now    func() time.Time
}

// NewOrchestrator creates a new site check orchestrator
func NewOrchestrator(checks Checks, opts Options) *Orchestrator {
	o := &Orchestrator{
		checks: checks,
		logger: opts.Logger,
		now:    opts.Now,
	}
	if o.logger == nil {
		o.logger = zap.NewNop()
	}
	if o.now == nil {
		o.now = time.Now
	}
	if opts.MaxConcurrent > 0 {
		o.sem = semaphore.NewWeighted(opts.MaxConcurrent)
	}
	return o
}

// Check normalizes rawURL, runs every check against it and returns the
// report. The only error is ErrMissingURL; check failures are recorded in
// the report instead.
//
// Checks are detached from ctx cancellation: once started they run until
// they finish or hit their own timeout. ctx values (request ids) still flow
// through.
func (o *Orchestrator) Check(ctx context.Context, rawURL string) (*report.CheckReport, error) {
	if strings.TrimSpace(rawURL) == "" {
		return nil, sharederrors.ErrMissingURL
	}

	target := checker.ParseTarget(rawURL)
	runCtx := context.WithoutCancel(ctx)
	started := o.now()

	var (
		ssl     report.Outcome[report.Certificate]
		headers report.Outcome[report.HeaderSet]
		malware report.Outcome[report.Reputation]
		mixed   report.Outcome[report.MixedContent]
	)

	var wg conc.WaitGroup
	wg.Go(func() { ssl = run(runCtx, o, o.checks.TLS, target.Domain) })
	wg.Go(func() { headers = run(runCtx, o, o.checks.Headers, target.URL) })
	wg.Go(func() { malware = run(runCtx, o, o.checks.Reputation, target.URL) })
	wg.Go(func() { mixed = run(runCtx, o, o.checks.MixedContent, target.URL) })
	wg.Wait()

	r := report.New(target.URL, target.Domain, o.now(), ssl, headers, malware, mixed)

	o.logger.Info("site_check_completed",
		zap.String("url", r.URL),
		zap.String("domain", r.Domain),
		zap.Int("score", r.Score),
		zap.Strings("failed_checks", r.FailedChecks()),
		zap.Duration("duration", o.now().Sub(started)),
	)
	return r, nil
}

// run executes one check, holding a slot of the global cap if one is set. A
// panic inside the check becomes a failed outcome for that check only.
func run[T any](ctx context.Context, o *Orchestrator, c checker.Checker[T], target string) report.Outcome[T] {
	if c == nil {
		return report.Failed[T](errNotConfigured)
	}

	if o.sem != nil {
		if err := o.sem.Acquire(ctx, 1); err != nil {
			return report.Failed[T](err)
		}
		defer o.sem.Release(1)
	}

	var outcome report.Outcome[T]
	var pc panics.Catcher
	pc.Try(func() { outcome = c.Check(ctx, target) })

	if r := pc.Recovered(); r != nil {
		o.logger.Error("check_panicked",
			zap.String("check", c.Name()),
			zap.String("target", target),
			zap.Any("panic", r.Value),
		)
		return report.Failed[T](fmt.Errorf("%w: %v", sharederrors.ErrCheckPanicked, r.Value))
	}
	return outcome
}
