package cmd

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/sourcegraph/conc/iter"
	"github.com/spf13/cobra"

	"github.com/khanhnv2901/site-checker/internal/api"
	"github.com/khanhnv2901/site-checker/internal/application"
)

const defaultCheckConcurrency = 4

var checkCmd = &cobra.Command{
	Use:   "check <url> [url...]",
	Short: "Check one or more websites and print their security score",
	Long: `Run the TLS, security header, reputation and mixed-content checks against
each URL and print the resulting 0-100 security score.

URLs without a scheme are checked over https. Reputation lookups run only when
a Google Safe Browsing API key is configured (GOOGLE_API_KEY or
safe_browsing.api_key in the config file).`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		appCtx := getAppContext(cmd)
		format, _ := cmd.Flags().GetString("format")
		concurrency, _ := cmd.Flags().GetInt("concurrency")
		showProgress, _ := cmd.Flags().GetBool("progress")
		minScore, _ := cmd.Flags().GetInt("min-score")

		if !slices.Contains(outputFormats, strings.ToLower(format)) {
			return fmt.Errorf("unsupported format %q (use one of %s)", format, strings.Join(outputFormats, ", "))
		}

		container, err := application.NewContainer(cmd.Context(), appCtx.Config.applicationConfig(), appCtx.Logger)
		if err != nil {
			return err
		}

		var printer *progressPrinter
		var onDone func(checkResult, time.Duration)
		if showProgress {
			printer = newProgressPrinter(cmd.ErrOrStderr(), len(args), "CHECK")
			printer.Start()
			onDone = func(res checkResult, d time.Duration) {
				printer.Increment(res.Err == nil, d.Seconds())
			}
		}

		results := runChecks(cmd.Context(), container.Orchestrator, args, concurrency, onDone)
		if printer != nil {
			printer.Stop()
		}
		if err := renderResults(cmd.OutOrStdout(), format, results); err != nil {
			return err
		}
		return summarize(results, minScore)
	},
}

// runChecks checks every target with at most concurrency checks in flight
// and returns the results in input order.
func runChecks(ctx context.Context, checker api.SiteChecker, targets []string, concurrency int, onDone func(checkResult, time.Duration)) []checkResult {
	if concurrency <= 0 {
		concurrency = 1
	}
	mapper := iter.Mapper[string, checkResult]{MaxGoroutines: concurrency}
	return mapper.Map(targets, func(target *string) checkResult {
		start := time.Now()
		rep, err := checker.Check(ctx, *target)
		res := checkResult{Target: *target, Report: rep, Err: err}
		if onDone != nil {
			onDone(res, time.Since(start))
		}
		return res
	})
}

// summarize turns failed targets and scores under minScore into an error so
// the exit status reflects them. Unchecked targets take precedence.
func summarize(results []checkResult, minScore int) error {
	var failed, below []string
	for _, res := range results {
		switch {
		case res.Err != nil:
			failed = append(failed, res.Target)
		case res.Report.Score < minScore:
			below = append(below, fmt.Sprintf("%s (%d)", res.Target, res.Report.Score))
		}
	}

	switch {
	case len(failed) > 0:
		return &UncheckedTargetsError{Targets: failed, Total: len(results)}
	case len(below) > 0:
		return &LowScoreError{Targets: below, Threshold: minScore, Total: len(results)}
	}
	return nil
}

func init() {
	checkCmd.Flags().StringP("format", "f", formatText, "Output format: text, json or yaml")
	checkCmd.Flags().IntP("concurrency", "c", defaultCheckConcurrency, "Number of sites checked at once")
	checkCmd.Flags().Bool("progress", false, "Show progress on stderr")
	checkCmd.Flags().Int("min-score", 0, "Exit with an error when any site scores below this value")
}
