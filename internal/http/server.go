// Package http exposes the payroll dashboard as a JSON API.
package http

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"nomina/internal/cache"
	"nomina/internal/log"
	"nomina/internal/middleware/security"
	"nomina/internal/middleware/trace"
	"nomina/internal/services"
)

const snapshotTTL = time.Minute

type Server struct {
	http.Server
	payroll     *services.PayrollService
	rateLimiter *rateLimiter

	// One record snapshot per source; rebuilding it means refetching
	// the whole upstream sheet, so it is worth caching briefly.
	snapshotCache *cache.LRUCache[*services.Snapshot]
	cacheManager  *cache.Manager

	shutdownOnce sync.Once
}

// NewServer configures routes and middleware, returning a
// ready-to-run http.Server.
func NewServer(addr string, payroll *services.PayrollService) *Server {
	mux := http.NewServeMux()

	s := &Server{
		payroll:       payroll,
		rateLimiter:   newRateLimiter(),
		snapshotCache: cache.NewLRUCache[*services.Snapshot](4, snapshotTTL),
		cacheManager:  cache.NewManager(),
	}

	s.cacheManager.Register(s.snapshotCache)
	s.cacheManager.StartCleanup(10 * time.Minute)

	mux.HandleFunc("/healthz", handleHealth)
	mux.HandleFunc("/readyz", handleReady)

	mux.HandleFunc("/api/login", s.handleLogin)
	mux.HandleFunc("/api/invoices", s.handleInvoices)
	mux.HandleFunc("/api/summary", s.handleSummary)

	mux.HandleFunc("/api/admin/overview", s.requireAdmin(s.handleAdminOverview))
	mux.HandleFunc("/api/admin/leaderboard", s.requireAdmin(s.handleAdminLeaderboard))
	mux.HandleFunc("/api/admin/calendar", s.requireAdmin(s.handleAdminCalendar))
	mux.HandleFunc("/api/admin/trend", s.requireAdmin(s.handleAdminTrend))
	mux.HandleFunc("/api/admin/portfolio", s.requireAdmin(s.handleAdminPortfolio))

	traceMw := trace.NewMiddleware(extractClientIP)
	headersMw := security.NewHeadersMiddleware(security.DefaultHeadersConfig())

	logCfg := log.DefaultConfig()
	logCfg.Component = log.ComponentHTTP
	logMw := log.Middleware(log.New(logCfg))

	s.Server = http.Server{
		Addr:    addr,
		Handler: traceMw.Middleware(logMw(headersMw.Middleware(s.withRateLimit(mux)))),
	}

	return s
}

// withRateLimit throttles mutating requests per client IP.
func (s *Server) withRateLimit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost {
			clientIP := extractClientIP(r)
			if !s.rateLimiter.allow(clientIP) {
				slog.WarnContext(r.Context(), "Rate limit exceeded",
					"client_ip", clientIP, "method", r.Method, "url", r.URL.Path)
				w.Header().Set("Retry-After", "60")
				writeError(w, http.StatusTooManyRequests, "rate limit exceeded, try again later")
				return
			}
		}
		next.ServeHTTP(w, r)
	})
}

// snapshot returns a cached record snapshot, loading a fresh one on a
// miss. Loads carry a timeout so a slow upstream cannot hang requests.
func (s *Server) snapshot(ctx context.Context) (*services.Snapshot, error) {
	const key = "snapshot"
	if snap, ok := s.snapshotCache.Get(key); ok {
		slog.DebugContext(ctx, "Snapshot cache hit")
		return snap, nil
	}

	cctx, cancel := context.WithTimeout(ctx, 7*time.Second)
	defer cancel()

	snap, err := s.payroll.Load(cctx)
	if err != nil {
		return nil, fmt.Errorf("load record snapshot: %w", err)
	}
	s.snapshotCache.Set(key, snap)
	return snap, nil
}

// Shutdown gracefully shuts down the server and cleanup routines
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error
	s.shutdownOnce.Do(func() {
		s.cacheManager.Stop()
		if s.rateLimiter != nil {
			s.rateLimiter.stop()
		}
		shutdownErr = s.Server.Shutdown(ctx)
	})
	return shutdownErr
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func handleReady(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ready"))
}

func extractClientIP(r *http.Request) string {
	clientIP := r.Header.Get("X-Forwarded-For")
	if clientIP == "" {
		clientIP = r.Header.Get("X-Real-IP")
	}
	if clientIP == "" {
		clientIP = r.RemoteAddr
	}
	return clientIP
}
