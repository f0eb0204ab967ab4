package cmd

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"go.uber.org/zap/zaptest"

	"github.com/khanhnv2901/site-checker/internal/domain/report"
)

// setupTestAppContext installs an AppContext with default config for commands
// invoked directly through RunE.
func setupTestAppContext(t *testing.T) *AppContext {
	t.Helper()

	original := globalAppContext
	appCtx := &AppContext{
		Logger: zaptest.NewLogger(t),
		Config: defaultConfig(),
	}
	globalAppContext = appCtx
	t.Cleanup(func() {
		globalAppContext = original
	})
	return appCtx
}

func testReport(url, domain string, headers int, threats []string) *report.CheckReport {
	at := time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)
	hs := report.NewHeaderSet()
	for _, name := range report.AuditedHeaders[:headers] {
		hs.Set(name, "on")
	}
	return report.New(url, domain, at,
		report.Succeeded(report.Certificate{Valid: true, DaysRemaining: 200, ValidFrom: at, ValidTo: at.AddDate(0, 0, 200), Domains: []string{domain}}),
		report.Succeeded(hs),
		report.Succeeded(report.Verdict(threats)),
		report.Succeeded(report.NewMixedContent(nil)),
	)
}

// fakeSiteChecker returns canned reports keyed by target and records peak
// concurrency.
type fakeSiteChecker struct {
	reports map[string]*report.CheckReport
	delay   time.Duration

	inFlight atomic.Int32
	peak     atomic.Int32
	mu       sync.Mutex
	calls    []string
}

func (f *fakeSiteChecker) Check(ctx context.Context, url string) (*report.CheckReport, error) {
	n := f.inFlight.Add(1)
	defer f.inFlight.Add(-1)
	for {
		p := f.peak.Load()
		if n <= p || f.peak.CompareAndSwap(p, n) {
			break
		}
	}

	f.mu.Lock()
	f.calls = append(f.calls, url)
	f.mu.Unlock()

	if f.delay > 0 {
		time.Sleep(f.delay)
	}
	if r, ok := f.reports[url]; ok {
		return r, nil
	}
	return nil, errors.New("no route to host")
}
