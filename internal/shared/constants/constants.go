package constants

import "time"

const (
	// DefaultCheckTimeout bounds every outbound HTTP request and TLS handshake.
	DefaultCheckTimeout = 10 * time.Second
	// DefaultMaxRedirects is how many redirects the header audit follows.
	DefaultMaxRedirects = 5
	// DefaultScanRedirects is how many redirects the mixed-content scan follows.
	DefaultScanRedirects = 10
	// DefaultTLSPort is the port the TLS inspector connects to.
	DefaultTLSPort = "443"
	// MaxPageBodyBytes caps how much of a page the mixed-content scanner parses.
	MaxPageBodyBytes = 10 << 20
	// MaxRequestBodyBytes caps API request bodies.
	MaxRequestBodyBytes = 1 << 20
)

const (
	// DefaultListenPort matches the port the service has always listened on.
	DefaultListenPort = "3000"
	// DefaultShutdownTimeout bounds graceful API shutdown.
	DefaultShutdownTimeout = 30 * time.Second
)

// UserAgent identifies outbound requests made by the checkers.
const UserAgent = "sitecheck/1.0 (+website security checker)"

// SafeBrowsingKeyEnv is the environment variable holding the Safe Browsing API key.
const SafeBrowsingKeyEnv = "GOOGLE_API_KEY"

// ReputationDisabledMessage explains an unchecked reputation verdict.
const ReputationDisabledMessage = "Google Safe Browsing API key required for malware checks"
