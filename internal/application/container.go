package application

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/khanhnv2901/site-checker/internal/application/sitecheck"
	"github.com/khanhnv2901/site-checker/internal/checker"
	consts "github.com/khanhnv2901/site-checker/internal/shared/constants"
)

// Config carries the settings needed to build the checkers. It is filled in
// by the command layer; nothing below it reads the environment.
type Config struct {
	CheckTimeout  time.Duration
	MaxRedirects  int
	TLSPort       string
	MaxConcurrent int64

	// SafeBrowsingKey enables reputation lookups when non-empty.
	SafeBrowsingKey      string
	SafeBrowsingEndpoint string
}

// Container holds all application services
// This is a simple dependency injection container
type Container struct {
	// Checkers
	TLS          *checker.TLSInspector
	Headers      *checker.HeaderAuditor
	Reputation   *checker.ReputationChecker
	MixedContent *checker.MixedContentScanner

	// Services
	Orchestrator *sitecheck.Orchestrator
}

// NewContainer creates a new application service container
func NewContainer(ctx context.Context, cfg Config, logger *zap.Logger) (*Container, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	timeout := cfg.CheckTimeout
	if timeout <= 0 {
		timeout = consts.DefaultCheckTimeout
	}

	// Initialize checkers
	tlsInspector := checker.NewTLSInspector(logger)
	tlsInspector.Timeout = timeout
	if cfg.TLSPort != "" {
		tlsInspector.Port = cfg.TLSPort
	}

	headerAuditor := checker.NewHeaderAuditor(logger)
	headerAuditor.Timeout = timeout
	if cfg.MaxRedirects > 0 {
		headerAuditor.MaxRedirects = cfg.MaxRedirects
	}

	var lookup checker.ThreatLookup
	if cfg.SafeBrowsingKey != "" {
		sb, err := checker.NewSafeBrowsing(ctx, checker.SafeBrowsingConfig{
			APIKey:   cfg.SafeBrowsingKey,
			Endpoint: cfg.SafeBrowsingEndpoint,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to create reputation lookup: %w", err)
		}
		lookup = sb
	} else {
		logger.Info("reputation_lookup_disabled", zap.String("reason", consts.ReputationDisabledMessage))
	}
	reputation := checker.NewReputationChecker(lookup, logger)
	reputation.Timeout = timeout

	mixedContent := checker.NewMixedContentScanner(logger)
	mixedContent.Timeout = timeout

	// Initialize services
	orchestrator := sitecheck.NewOrchestrator(sitecheck.Checks{
		TLS:          tlsInspector,
		Headers:      headerAuditor,
		Reputation:   reputation,
		MixedContent: mixedContent,
	}, sitecheck.Options{
		MaxConcurrent: cfg.MaxConcurrent,
		Logger:        logger,
	})

	return &Container{
		TLS:          tlsInspector,
		Headers:      headerAuditor,
		Reputation:   reputation,
		MixedContent: mixedContent,
		Orchestrator: orchestrator,
	}, nil
}
