package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"go.uber.org/zap/zaptest"

	"github.com/khanhnv2901/site-checker/internal/domain/report"
	sharederrors "github.com/khanhnv2901/site-checker/internal/shared/errors"
)

type stubChecker struct {
	report *report.CheckReport
	err    error
	panics bool
	gotURL string
}

func (s *stubChecker) Check(ctx context.Context, url string) (*report.CheckReport, error) {
	s.gotURL = url
	if s.panics {
		panic("checker exploded")
	}
	return s.report, s.err
}

type stubHealth struct {
	checkErr error
	readyErr error
}

func (h stubHealth) Check(ctx context.Context) error { return h.checkErr }
func (h stubHealth) Ready(ctx context.Context) error { return h.readyErr }

func sampleReport() *report.CheckReport {
	at := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	return report.New("https://example.com", "example.com", at,
		report.Failed[report.Certificate](errors.New("handshake timeout")),
		report.Succeeded(report.NewHeaderSet()),
		report.Succeeded(report.Unchecked("Google Safe Browsing API key required for malware checks")),
		report.Succeeded(report.NewMixedContent(nil)),
	)
}

func newTestServer(t *testing.T, checker SiteChecker) *Server {
	t.Helper()
	return NewServer(Config{Checker: checker, Logger: zaptest.NewLogger(t)})
}

func postCheck(t *testing.T, srv http.Handler, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	srv.ServeHTTP(rr, req)
	return rr
}

func decodeBody(t *testing.T, rr *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	if err := json.Unmarshal(rr.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode body %q: %v", rr.Body.String(), err)
	}
	return out
}

func TestHandleCheck_Success(t *testing.T) {
	checker := &stubChecker{report: sampleReport()}
	srv := newTestServer(t, checker)

	for _, path := range []string{"/check", "/api/check"} {
		rr := postCheck(t, srv, path, `{"url":"example.com"}`)
		if rr.Code != http.StatusOK {
			t.Fatalf("%s: expected 200, got %d: %s", path, rr.Code, rr.Body.String())
		}
		if checker.gotURL != "example.com" {
			t.Errorf("%s: expected raw URL to be passed through, got %q", path, checker.gotURL)
		}

		body := decodeBody(t, rr)
		for _, key := range []string{"url", "domain", "score", "timestamp", "ssl", "headers", "malware", "mixedContent"} {
			if _, ok := body[key]; !ok {
				t.Errorf("%s: expected key %q in report", path, key)
			}
		}
		if body["score"] != float64(35) {
			t.Errorf("%s: expected score 35, got %v", path, body["score"])
		}
		ssl := body["ssl"].(map[string]any)
		if ssl["valid"] != false || ssl["error"] != "handshake timeout" {
			t.Errorf("%s: unexpected ssl shape %v", path, ssl)
		}
		malware := body["malware"].(map[string]any)
		if _, ok := malware["safe"]; ok {
			t.Errorf("%s: unchecked malware result must not carry 'safe'", path)
		}
	}
}

func TestHandleCheck_MissingURL(t *testing.T) {
	for _, body := range []string{`{}`, `{"url":""}`, `{"url":"  "}`, `not json`, ``} {
		checker := &stubChecker{report: sampleReport()}
		rr := postCheck(t, newTestServer(t, checker), "/check", body)

		if rr.Code != http.StatusBadRequest {
			t.Fatalf("body %q: expected 400, got %d", body, rr.Code)
		}
		got := decodeBody(t, rr)
		if got["error"] != "URL is required" {
			t.Errorf("body %q: unexpected error %v", body, got["error"])
		}
		if checker.gotURL != "" {
			t.Errorf("body %q: checker must not run", body)
		}
	}
}

func TestHandleCheck_CheckerMissingURLError(t *testing.T) {
	srv := newTestServer(t, &stubChecker{err: sharederrors.ErrMissingURL})
	rr := postCheck(t, srv, "/check", `{"url":"x"}`)
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rr.Code)
	}
}

func TestHandleCheck_InternalFailure(t *testing.T) {
	srv := newTestServer(t, &stubChecker{err: errors.New("orchestrator offline")})
	rr := postCheck(t, srv, "/check", `{"url":"example.com"}`)

	if rr.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rr.Code)
	}
	got := decodeBody(t, rr)
	if got["error"] != "Error checking website security" {
		t.Errorf("unexpected error %v", got["error"])
	}
	if got["message"] != "orchestrator offline" {
		t.Errorf("unexpected message %v", got["message"])
	}
}

func TestHandleCheck_Panic(t *testing.T) {
	srv := newTestServer(t, &stubChecker{panics: true})
	rr := postCheck(t, srv, "/check", `{"url":"example.com"}`)

	if rr.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rr.Code)
	}
	got := decodeBody(t, rr)
	if got["error"] != "Error checking website security" {
		t.Errorf("unexpected error %v", got["error"])
	}
	if strings.Contains(rr.Body.String(), "exploded") {
		t.Errorf("panic value must not leak: %s", rr.Body.String())
	}
}

func TestHandleCheck_NoChecker(t *testing.T) {
	rr := postCheck(t, newTestServer(t, nil), "/check", `{"url":"example.com"}`)
	if rr.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rr.Code)
	}
}

func TestHandleCheck_BodyTooLarge(t *testing.T) {
	checker := &stubChecker{report: sampleReport()}
	big := `{"url":"` + strings.Repeat("a", 2<<20) + `"}`
	rr := postCheck(t, newTestServer(t, checker), "/check", big)
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rr.Code)
	}
}

func TestRoutes_MethodNotAllowed(t *testing.T) {
	srv := newTestServer(t, &stubChecker{report: sampleReport()})
	req := httptest.NewRequest(http.MethodGet, "/check", nil)
	rr := httptest.NewRecorder()
	srv.ServeHTTP(rr, req)
	if rr.Code != http.StatusMethodNotAllowed {
		t.Fatalf("expected status 405, got %d", rr.Code)
	}
}

func TestRoutes_NotFound(t *testing.T) {
	srv := newTestServer(t, &stubChecker{})
	rr := httptest.NewRecorder()
	srv.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/nope", nil))
	if rr.Code != http.StatusNotFound {
		t.Fatalf("expected status 404, got %d", rr.Code)
	}
}

func TestHealthAndReady(t *testing.T) {
	tests := []struct {
		name   string
		cfg    Config
		path   string
		status int
	}{
		{"health ok", Config{}, "/health", http.StatusOK},
		{"health failing", Config{Health: stubHealth{checkErr: errors.New("down")}}, "/health", http.StatusInternalServerError},
		{"ready without checker", Config{}, "/ready", http.StatusServiceUnavailable},
		{"ready ok", Config{Checker: &stubChecker{}}, "/ready", http.StatusOK},
		{"ready failing", Config{Checker: &stubChecker{}, Health: stubHealth{readyErr: errors.New("warming")}}, "/ready", http.StatusServiceUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := NewServer(tt.cfg)
			rr := httptest.NewRecorder()
			srv.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, tt.path, nil))
			if rr.Code != tt.status {
				t.Fatalf("expected %d, got %d", tt.status, rr.Code)
			}
		})
	}
}

func TestAuthToken(t *testing.T) {
	srv := NewServer(Config{Checker: &stubChecker{report: sampleReport()}, AuthToken: "s3cret"})

	rr := postCheck(t, srv, "/check", `{"url":"example.com"}`)
	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without token, got %d", rr.Code)
	}

	req := httptest.NewRequest(http.MethodPost, "/check", bytes.NewBufferString(`{"url":"example.com"}`))
	req.Header.Set("X-Auth-Token", "s3cret")
	rr = httptest.NewRecorder()
	srv.ServeHTTP(rr, req)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200 with token, got %d", rr.Code)
	}

	rr = httptest.NewRecorder()
	srv.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/health", nil))
	if rr.Code != http.StatusOK {
		t.Fatalf("expected health to skip auth, got %d", rr.Code)
	}
}

func TestCORS(t *testing.T) {
	t.Run("allow all by default", func(t *testing.T) {
		srv := NewServer(Config{})
		req := httptest.NewRequest(http.MethodOptions, "/check", nil)
		req.Header.Set("Origin", "https://app.example.com")
		rr := httptest.NewRecorder()
		srv.ServeHTTP(rr, req)

		if rr.Code != http.StatusNoContent {
			t.Fatalf("expected 204 for preflight, got %d", rr.Code)
		}
		if got := rr.Header().Get("Access-Control-Allow-Origin"); got != "*" {
			t.Errorf("expected wildcard origin, got %q", got)
		}
	})

	t.Run("allow list", func(t *testing.T) {
		srv := NewServer(Config{CORSOrigins: []string{"https://app.example.com"}})

		req := httptest.NewRequest(http.MethodGet, "/health", nil)
		req.Header.Set("Origin", "https://app.example.com")
		rr := httptest.NewRecorder()
		srv.ServeHTTP(rr, req)
		if got := rr.Header().Get("Access-Control-Allow-Origin"); got != "https://app.example.com" {
			t.Errorf("expected echoed origin, got %q", got)
		}

		req = httptest.NewRequest(http.MethodGet, "/health", nil)
		req.Header.Set("Origin", "https://evil.example.com")
		rr = httptest.NewRecorder()
		srv.ServeHTTP(rr, req)
		if got := rr.Header().Get("Access-Control-Allow-Origin"); got != "" {
			t.Errorf("expected no CORS header for unknown origin, got %q", got)
		}
	})
}

func TestRequestIDPropagated(t *testing.T) {
	srv := NewServer(Config{})
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set("X-Request-ID", "trace-42")
	rr := httptest.NewRecorder()
	srv.ServeHTTP(rr, req)
	if got := rr.Header().Get("X-Request-ID"); got != "trace-42" {
		t.Errorf("expected request ID to be echoed, got %q", got)
	}
}

func TestWriteJSON(t *testing.T) {
	rr := httptest.NewRecorder()
	writeJSON(rr, http.StatusCreated, map[string]string{"status": "ok"})

	if rr.Code != http.StatusCreated {
		t.Fatalf("expected status 201, got %d", rr.Code)
	}
	if got := rr.Header().Get("Content-Type"); got != "application/json" {
		t.Fatalf("expected application/json content-type, got %s", got)
	}
	if !strings.Contains(rr.Body.String(), `"status":"ok"`) {
		t.Fatalf("unexpected body: %s", rr.Body.String())
	}
}

func TestWriteErrorInternal(t *testing.T) {
	logger := zaptest.NewLogger(t)
	s := &Server{cfg: Config{Logger: logger}}

	rr := httptest.NewRecorder()
	s.writeError(rr, httptest.NewRequest(http.MethodGet, "/", nil), http.StatusInternalServerError, errors.New("boom"))

	if rr.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rr.Code)
	}
	if !strings.Contains(rr.Body.String(), "internal server error") {
		t.Fatalf("expected sanitized message, got %s", rr.Body.String())
	}
}

func TestWriteErrorClient(t *testing.T) {
	s := &Server{}
	rr := httptest.NewRecorder()
	s.writeError(rr, httptest.NewRequest(http.MethodGet, "/", nil), http.StatusBadRequest, errors.New("bad input"))
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rr.Code)
	}
	if !strings.Contains(rr.Body.String(), "bad input") {
		t.Fatalf("expected original error message, got %s", rr.Body.String())
	}
}
