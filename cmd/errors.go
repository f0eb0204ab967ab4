package cmd

import (
	"fmt"
	"strings"
)

// UncheckedTargetsError reports targets for which no report could be produced.
type UncheckedTargetsError struct {
	Targets []string
	Total   int
}

func (e *UncheckedTargetsError) Error() string {
	return fmt.Sprintf("%d of %d targets could not be checked: %s", len(e.Targets), e.Total, strings.Join(e.Targets, ", "))
}

// LowScoreError signals that some targets scored under the --min-score threshold.
type LowScoreError struct {
	Targets   []string
	Threshold int
	Total     int
}

func (e *LowScoreError) Error() string {
	switch {
	case len(e.Targets) == 1 && e.Total == 1:
		return fmt.Sprintf("%s scored below %d", e.Targets[0], e.Threshold)
	case len(e.Targets) > 0:
		return fmt.Sprintf("%d of %d targets scored below %d: %s", len(e.Targets), e.Total, e.Threshold, strings.Join(e.Targets, ", "))
	}
	return fmt.Sprintf("score below %d", e.Threshold)
}
