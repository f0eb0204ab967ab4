package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/khanhnv2901/site-checker/internal/domain/report"
)

// Output formats accepted by --format.
const (
	formatText = "text"
	formatJSON = "json"
	formatYAML = "yaml"
)

var outputFormats = []string{formatText, formatJSON, formatYAML}

// checkResult is the outcome of checking one command-line target.
type checkResult struct {
	Target string
	Report *report.CheckReport
	Err    error
}

// failedTarget is how a target that produced no report is rendered.
type failedTarget struct {
	URL   string `json:"url" yaml:"url"`
	Error string `json:"error" yaml:"error"`
}

func (r checkResult) document() any {
	if r.Err != nil {
		return failedTarget{URL: r.Target, Error: r.Err.Error()}
	}
	return r.Report
}

func renderResults(w io.Writer, format string, results []checkResult) error {
	switch strings.ToLower(format) {
	case formatText, "":
		for _, res := range results {
			renderText(w, res)
		}
		return nil
	case formatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(documents(results))
	case formatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(documents(results)); err != nil {
			return err
		}
		return enc.Close()
	default:
		return fmt.Errorf("unsupported format %q (use one of %s)", format, strings.Join(outputFormats, ", "))
	}
}

// documents returns a single document for one target and a list otherwise.
func documents(results []checkResult) any {
	if len(results) == 1 {
		return results[0].document()
	}
	docs := make([]any, 0, len(results))
	for _, res := range results {
		docs = append(docs, res.document())
	}
	return docs
}

func renderText(w io.Writer, res checkResult) {
	fmt.Fprintf(w, "\n%s %s\n", colorInfo("Checking website:"), res.Target)
	fmt.Fprintln(w, strings.Repeat("─", 47))

	if res.Err != nil {
		fmt.Fprintf(w, "%s %v\n", colorError("Error:"), res.Err)
		return
	}
	r := res.Report

	fmt.Fprintf(w, "Security Score: %s\n", formatScoreWithColor(r.Score, fmt.Sprintf("%d/100", r.Score)))
	fmt.Fprintf(w, "Domain: %s\n", r.Domain)

	if cert, ok := r.SSL.Get(); ok {
		fmt.Fprintf(w, "SSL Valid: %s\n", formatStatusWithColor(yesNo(cert.Valid)))
		if cert.Valid {
			fmt.Fprintf(w, "SSL Expires In: %d days\n", cert.DaysRemaining)
		}
	} else {
		fmt.Fprintf(w, "SSL Valid: %s (%s)\n", formatStatusWithColor("No"), r.SSL.Failure())
	}

	if headers, ok := r.Headers.Get(); ok {
		fmt.Fprintf(w, "Security Headers: %d/%d\n", headers.PresentCount(), len(report.AuditedHeaders))
	} else {
		fmt.Fprintf(w, "Security Headers: %s (%s)\n", formatStatusWithColor("error"), r.Headers.Failure())
	}

	switch rep, ok := r.Malware.Get(); {
	case !ok:
		fmt.Fprintf(w, "Malware Detection: %s (%s)\n", formatStatusWithColor("error"), r.Malware.Failure())
	case !rep.Checked:
		fmt.Fprintf(w, "Malware Detection: %s (%s)\n", formatStatusWithColor("Not checked"), rep.Reason)
	case rep.Safe:
		fmt.Fprintf(w, "Malware Detection: %s\n", formatStatusWithColor("Safe"))
	default:
		fmt.Fprintf(w, "Malware Detection: %s %s\n", formatStatusWithColor("THREAT DETECTED!"), strings.Join(rep.Threats, ", "))
	}

	if mixed, ok := r.MixedContent.Get(); ok {
		if mixed.Found {
			fmt.Fprintf(w, "Mixed Content: %s\n", colorWarn(fmt.Sprintf("Found (%d resources)", mixed.Count)))
		} else {
			fmt.Fprintf(w, "Mixed Content: %s\n", formatStatusWithColor("None found"))
		}
	} else {
		fmt.Fprintf(w, "Mixed Content: %s (%s)\n", formatStatusWithColor("error"), r.MixedContent.Failure())
	}
}

func yesNo(b bool) string {
	if b {
		return "Yes"
	}
	return "No"
}
