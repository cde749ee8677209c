package http

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"nomina/internal/services"
	"nomina/internal/source/memory"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()
	payroll := services.NewPayrollService(memory.NewSeeded(), nil, "memory", "")
	srv := NewServer(":0", payroll)
	t.Cleanup(func() { _ = srv.Shutdown(context.Background()) })
	return srv
}

func doRequest(srv *Server, method, target, body string) *httptest.ResponseRecorder {
	rr := httptest.NewRecorder()
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	srv.Handler.ServeHTTP(rr, req)
	return rr
}

func TestHealthEndpoints(t *testing.T) {
	srv := newTestServer(t)

	for _, path := range []string{"/healthz", "/readyz"} {
		rr := doRequest(srv, http.MethodGet, path, "")
		if rr.Code != http.StatusOK {
			t.Errorf("%s status = %d, want 200", path, rr.Code)
		}
	}
}

func TestSecurityHeadersApplied(t *testing.T) {
	srv := newTestServer(t)

	rr := doRequest(srv, http.MethodGet, "/healthz", "")
	if got := rr.Header().Get("X-Content-Type-Options"); got != "nosniff" {
		t.Errorf("X-Content-Type-Options = %q, want nosniff", got)
	}
	if got := rr.Header().Get("X-Frame-Options"); got != "DENY" {
		t.Errorf("X-Frame-Options = %q, want DENY", got)
	}
	if rr.Header().Get("Content-Security-Policy") == "" {
		t.Error("Content-Security-Policy header missing")
	}
}

func TestLoginRateLimit(t *testing.T) {
	srv := newTestServer(t)

	var last int
	for i := 0; i < 65; i++ {
		rr := doRequest(srv, http.MethodPost, "/api/login", `{"username":"admin","password":"admin123"}`)
		last = rr.Code
	}
	if last != http.StatusTooManyRequests {
		t.Errorf("expected 429 after bursting the limit, got %d", last)
	}
}

func TestUnknownRouteIs404(t *testing.T) {
	srv := newTestServer(t)

	rr := doRequest(srv, http.MethodGet, "/api/nope", "")
	if rr.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rr.Code)
	}
}
