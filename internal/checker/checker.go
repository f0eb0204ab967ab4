package checker

import (
	"context"

	"go.uber.org/zap"

	"github.com/khanhnv2901/site-checker/internal/domain/report"
)

// Checker is the interface that every site check satisfies. A Checker never
// returns an error: failures are folded into the returned Outcome so that one
// failing check cannot abort the others.
type Checker[T any] interface {
	// Check runs the check against a single target (a URL or bare host,
	// depending on the checker).
	Check(ctx context.Context, target string) report.Outcome[T]

	// Name returns the name of this checker (e.g., "ssl", "headers")
	Name() string
}

// Compile-time interface checks.
var (
	_ Checker[report.Certificate]  = (*TLSInspector)(nil)
	_ Checker[report.HeaderSet]    = (*HeaderAuditor)(nil)
	_ Checker[report.Reputation]   = (*ReputationChecker)(nil)
	_ Checker[report.MixedContent] = (*MixedContentScanner)(nil)
)

func loggerOrNop(l *zap.Logger) *zap.Logger {
	if l == nil {
		return zap.NewNop()
	}
	return l
}

// failed logs a check failure and wraps it into an Outcome.
func failed[T any](logger *zap.Logger, name, target string, err error) report.Outcome[T] {
	loggerOrNop(logger).Warn("check_failed",
		zap.String("check", name),
		zap.String("target", target),
		zap.Error(err),
	)
	return report.Failed[T](err)
}
