package checker

import (
	"context"
	"fmt"

	"google.golang.org/api/option"
	safebrowsing "google.golang.org/api/safebrowsing/v4"

	sharederrors "github.com/khanhnv2901/site-checker/internal/shared/errors"
)

// Threat types requested from Safe Browsing.
var defaultThreatTypes = []string{
	"MALWARE",
	"SOCIAL_ENGINEERING",
	"UNWANTED_SOFTWARE",
	"POTENTIALLY_HARMFUL_APPLICATION",
}

// SafeBrowsingConfig configures the Google Safe Browsing v4 Lookup API client.
type SafeBrowsingConfig struct {
	APIKey        string
	Endpoint      string // optional; overrides the public API endpoint
	ClientID      string
	ClientVersion string
	ThreatTypes   []string
}

// SafeBrowsing is a ThreatLookup backed by the Safe Browsing threatMatches.find
// endpoint.
type SafeBrowsing struct {
	svc *safebrowsing.Service
	cfg SafeBrowsingConfig
}

// NewSafeBrowsing creates a Safe Browsing client. It returns
// ErrReputationDisabled when no API key is configured.
func NewSafeBrowsing(ctx context.Context, cfg SafeBrowsingConfig) (*SafeBrowsing, error) {
	if cfg.APIKey == "" {
		return nil, sharederrors.ErrReputationDisabled
	}
	if cfg.ClientID == "" {
		cfg.ClientID = "sitecheck"
	}
	if cfg.ClientVersion == "" {
		cfg.ClientVersion = "1.0.0"
	}
	if len(cfg.ThreatTypes) == 0 {
		cfg.ThreatTypes = defaultThreatTypes
	}

	opts := []option.ClientOption{option.WithAPIKey(cfg.APIKey)}
	if cfg.Endpoint != "" {
		opts = append(opts, option.WithEndpoint(cfg.Endpoint))
	}

	svc, err := safebrowsing.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("create safe browsing client: %w", err)
	}
	return &SafeBrowsing{svc: svc, cfg: cfg}, nil
}

// Lookup returns the threat types Safe Browsing matched for url, verbatim.
func (s *SafeBrowsing) Lookup(ctx context.Context, url string) ([]string, error) {
	req := &safebrowsing.GoogleSecuritySafebrowsingV4FindThreatMatchesRequest{
		Client: &safebrowsing.GoogleSecuritySafebrowsingV4ClientInfo{
			ClientId:      s.cfg.ClientID,
			ClientVersion: s.cfg.ClientVersion,
		},
		ThreatInfo: &safebrowsing.GoogleSecuritySafebrowsingV4ThreatInfo{
			ThreatTypes:      s.cfg.ThreatTypes,
			PlatformTypes:    []string{"ANY_PLATFORM"},
			ThreatEntryTypes: []string{"URL"},
			ThreatEntries: []*safebrowsing.GoogleSecuritySafebrowsingV4ThreatEntry{
				{Url: url},
			},
		},
	}

	resp, err := s.svc.ThreatMatches.Find(req).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("safe browsing lookup: %w", err)
	}

	threats := []string{}
	for _, match := range resp.Matches {
		if match == nil {
			continue
		}
		if match.Threat != nil && match.Threat.Url != "" && match.Threat.Url != url {
			continue
		}
		threats = append(threats, match.ThreatType)
	}
	return threats, nil
}
