// Package report models the outcome of a website security check and the
// scoring rules applied to it.
package report

import "time"

// CheckReport is the merged result of all checks run against one URL.
type CheckReport struct {
	URL          string                `json:"url" yaml:"url"`
	Domain       string                `json:"domain" yaml:"domain"`
	Score        int                   `json:"score" yaml:"score"`
	Timestamp    time.Time             `json:"timestamp" yaml:"timestamp"`
	SSL          Outcome[Certificate]  `json:"ssl" yaml:"ssl"`
	Headers      Outcome[HeaderSet]    `json:"headers" yaml:"headers"`
	Malware      Outcome[Reputation]   `json:"malware" yaml:"malware"`
	MixedContent Outcome[MixedContent] `json:"mixedContent" yaml:"mixedContent"`
}

// New assembles a report from the four check outcomes and computes its score.
func New(url, domain string, at time.Time, ssl Outcome[Certificate], headers Outcome[HeaderSet], malware Outcome[Reputation], mixed Outcome[MixedContent]) *CheckReport {
	r := &CheckReport{
		URL:          url,
		Domain:       domain,
		Timestamp:    at.UTC(),
		SSL:          ssl,
		Headers:      headers,
		Malware:      malware,
		MixedContent: mixed,
	}
	r.Score = Score(r)
	return r
}

// FailedChecks lists the names of checks that ended in a failure.
func (r *CheckReport) FailedChecks() []string {
	failed := []string{}
	if !r.SSL.OK() {
		failed = append(failed, "ssl")
	}
	if !r.Headers.OK() {
		failed = append(failed, "headers")
	}
	if !r.Malware.OK() {
		failed = append(failed, "malware")
	}
	if !r.MixedContent.OK() {
		failed = append(failed, "mixedContent")
	}
	return failed
}
