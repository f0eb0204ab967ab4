package checker

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/PuerkitoBio/goquery"
	"go.uber.org/zap"
	"golang.org/x/net/html/charset"

	"github.com/khanhnv2901/site-checker/internal/domain/report"
	consts "github.com/khanhnv2901/site-checker/internal/shared/constants"
)

// insecureResourceSelector matches resource-loading elements whose locator is
// plain HTTP. The prefix match is literal and case-sensitive.
const insecureResourceSelector = `script[src^="http:"], link[href^="http:"], img[src^="http:"], iframe[src^="http:"]`

// FindInsecureResources parses an HTML document and returns every
// resource-loading element that uses plain HTTP, in document order.
func FindInsecureResources(r io.Reader) ([]report.Resource, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, fmt.Errorf("parse html: %w", err)
	}

	resources := []report.Resource{}
	doc.Find(insecureResourceSelector).Each(func(_ int, s *goquery.Selection) {
		tag := goquery.NodeName(s)
		attr := "src"
		if tag == "link" {
			attr = "href"
		}
		url, _ := s.Attr(attr)
		resources = append(resources, report.Resource{Tag: tag, URL: url})
	})
	return resources, nil
}

// MixedContentScanner fetches a page and reports resources it loads over plain
// HTTP. Any status code is accepted; the body is parsed regardless.
type MixedContentScanner struct {
	Timeout      time.Duration
	MaxRedirects int
	Logger       *zap.Logger

	// Client overrides the HTTP client built from Timeout and MaxRedirects.
	Client *http.Client
}

// NewMixedContentScanner creates a MixedContentScanner with default limits.
func NewMixedContentScanner(logger *zap.Logger) *MixedContentScanner {
	return &MixedContentScanner{
		Timeout:      consts.DefaultCheckTimeout,
		MaxRedirects: consts.DefaultScanRedirects,
		Logger:       logger,
	}
}

// Check scans target for mixed content.
func (m *MixedContentScanner) Check(ctx context.Context, target string) report.Outcome[report.MixedContent] {
	resources, err := m.scan(ctx, target)
	if err != nil {
		return failed[report.MixedContent](m.Logger, m.Name(), target, err)
	}
	return report.Succeeded(report.NewMixedContent(resources))
}

// Name returns the name of this checker
func (m *MixedContentScanner) Name() string {
	return "mixedContent"
}

func (m *MixedContentScanner) scan(ctx context.Context, target string) ([]report.Resource, error) {
	client := m.Client
	if client == nil {
		client = newHTTPClient(m.Timeout, m.MaxRedirects)
	}

	resp, err := fetch(ctx, client, target)
	if err != nil {
		return nil, err
	}
	defer drain(resp)

	body, err := charset.NewReader(io.LimitReader(resp.Body, consts.MaxPageBodyBytes), resp.Header.Get("Content-Type"))
	if err != nil {
		return nil, fmt.Errorf("decode body: %w", err)
	}
	return FindInsecureResources(body)
}
