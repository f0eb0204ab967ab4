package checker

import (
	"context"
	"crypto/tls"
	"fmt"
	"io"
	"net/http"
	"time"

	consts "github.com/khanhnv2901/site-checker/internal/shared/constants"
	sharederrors "github.com/khanhnv2901/site-checker/internal/shared/errors"
)

// newHTTPClient builds a client bounded by timeout that follows at most
// maxRedirects redirects. Response status codes are never treated as errors.
func newHTTPClient(timeout time.Duration, maxRedirects int) *http.Client {
	if timeout <= 0 {
		timeout = consts.DefaultCheckTimeout
	}
	if maxRedirects < 0 {
		maxRedirects = 0
	}

	transport := http.DefaultTransport.(*http.Transport).Clone()
	transport.TLSClientConfig = &tls.Config{
		InsecureSkipVerify: false,
		MinVersion:         tls.VersionTLS12,
	}

	return &http.Client{
		Timeout:   timeout,
		Transport: transport,
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			if len(via) > maxRedirects {
				return fmt.Errorf("%w (%d)", sharederrors.ErrTooManyRedirects, maxRedirects)
			}
			return nil
		},
	}
}

// fetch issues a GET for target. The caller must close the response body.
func fetch(ctx context.Context, client *http.Client, target string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", consts.UserAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml;q=0.9,*/*;q=0.8")

	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	return resp, nil
}

// drain discards the rest of a response body so the connection can be reused.
func drain(resp *http.Response) {
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, consts.MaxPageBodyBytes))
	_ = resp.Body.Close()
}
