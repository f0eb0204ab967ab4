package checker

import (
	"strings"
)

// TargetInfo contains parsed target information
type TargetInfo struct {
	Original string // Original target string
	URL      string // Full URL with scheme (for HTTP requests)
	Domain   string // Bare hostname (for TLS)
}

// ParseTarget parses a target string into the URL and domain the checks use.
// This handles various input formats:
//   - example.com
//   - http://example.com
//   - https://www.example.com:8443/path
func ParseTarget(target string) TargetInfo {
	u := NormalizeURL(target)
	return TargetInfo{
		Original: target,
		URL:      u,
		Domain:   ExtractDomain(u),
	}
}

// NormalizeURL prepends "https://" unless the target already starts with
// "http://" or "https://".
func NormalizeURL(target string) string {
	target = strings.TrimSpace(target)
	if strings.HasPrefix(target, "http://") || strings.HasPrefix(target, "https://") {
		return target
	}
	return "https://" + target
}

// ExtractDomain returns the bare hostname of a URL, without scheme, path, port
// or a leading "www.". It never fails: malformed input yields a malformed
// domain.
func ExtractDomain(rawURL string) string {
	rest := rawURL
	if idx := strings.Index(rest, "://"); idx >= 0 {
		rest = rest[idx+len("://"):]
	}

	// Remove path
	host, _, _ := strings.Cut(rest, "/")
	// Remove port
	host, _, _ = strings.Cut(host, ":")

	return strings.TrimPrefix(host, "www.")
}
