package cmd

import (
	"strings"

	"github.com/fatih/color"
)

var (
	colorSuccess = color.New(color.FgGreen).SprintFunc()
	colorInfo    = color.New(color.FgCyan).SprintFunc()
	colorWarn    = color.New(color.FgYellow).SprintFunc()
	colorError   = color.New(color.FgRed).SprintFunc()
)

func formatStatusWithColor(status string) string {
	switch strings.ToLower(status) {
	case "ok", "yes", "safe", "none found":
		return colorSuccess(status)
	case "error", "no", "threat detected!":
		return colorError(status)
	case "not checked":
		return colorWarn(status)
	default:
		return status
	}
}

// formatScoreWithColor colors a 0-100 score by band.
func formatScoreWithColor(score int, text string) string {
	switch {
	case score >= 80:
		return colorSuccess(text)
	case score >= 50:
		return colorWarn(text)
	default:
		return colorError(text)
	}
}
