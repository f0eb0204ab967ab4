// Package checker implements the individual website security checks.
//
// Architecture overview:
//
//   - Every check implements Checker[T] (Check + Name) and returns a
//     report.Outcome[T]. Transport, parse and lookup errors are caught at the
//     check boundary and returned as failure outcomes, never as Go errors.
//   - TLSInspector connects to a bare host and reports certificate validity,
//     expiry and the names the certificate covers.
//   - HeaderAuditor fetches a URL once and reports seven security headers.
//   - ReputationChecker asks a ThreatLookup (Google Safe Browsing by default)
//     whether a URL is flagged. Without a lookup it reports "unchecked".
//   - MixedContentScanner fetches a page and lists resources loaded over
//     plain HTTP.
//   - ParseTarget, NormalizeURL and ExtractDomain turn user input into the
//     URL and host the checks operate on.
//
// The sitecheck orchestrator runs the four checks concurrently and scores
// the merged report.
package checker
