// Package server is the HTTP front-end: it serves the chat widget and the
// JSON API the widget calls.
package server

import (
	"context"
	"embed"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"

	"github.com/musaed-ai/musaed/pkg/chat"
	"github.com/musaed-ai/musaed/pkg/config"
	"github.com/musaed-ai/musaed/pkg/history"
	"github.com/musaed-ai/musaed/pkg/metrics"
	"github.com/musaed-ai/musaed/pkg/models"
	"github.com/musaed-ai/musaed/pkg/ratelimit"
)

//go:embed web/index.html
var webFiles embed.FS

// CodeRunner runs simulated code actions.
type CodeRunner interface {
	Run(ctx context.Context, req models.CodeRequest) (models.CodeResult, error)
}

// CacheAdmin reads stats from, and clears, the response cache.
type CacheAdmin interface {
	Stats() models.CacheStats
	Clear()
}

// Server is the musaed HTTP server.
type Server struct {
	cfg     *config.Config
	asker   chat.Asker
	code    CodeRunner
	cache   CacheAdmin
	history *history.Logger
	limiter *ratelimit.Limiter
	log     zerolog.Logger
	mux     *http.ServeMux
}

// New creates a Server wired with all dependencies. h may be nil when the
// transcript is disabled; reg may be nil to skip /metrics.
func New(cfg *config.Config, a chat.Asker, code CodeRunner, cache CacheAdmin, h *history.Logger, reg *prometheus.Registry, log zerolog.Logger) *Server {
	s := &Server{
		cfg:     cfg,
		asker:   a,
		code:    code,
		cache:   cache,
		history: h,
		limiter: ratelimit.New(cfg.Server.RateLimit, cfg.Server.Burst),
		log:     log.With().Str("component", "server").Logger(),
		mux:     http.NewServeMux(),
	}
	s.mux.HandleFunc("/", s.handleIndex)
	s.mux.HandleFunc("/healthz", handleHealthz)
	s.mux.Handle("/api/ask", s.api("ask", s.handleAsk))
	s.mux.Handle("/api/code", s.api("code", s.handleCode))
	s.mux.Handle("/api/cache", s.api("cache", s.handleCache))
	s.mux.Handle("/api/history", s.api("history", s.handleHistory))
	if reg != nil {
		s.mux.Handle("/metrics", metrics.Handler(reg))
	}
	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

// ListenAndServe starts the server with graceful shutdown support.
func (s *Server) ListenAndServe(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.cfg.Listen,
		Handler:           s,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.Info().Str("listen", s.cfg.Listen).Msg("http server listening")
		errCh <- srv.ListenAndServe()
	}()

	sweep := time.NewTicker(time.Minute)
	defer sweep.Stop()

	for {
		select {
		case <-ctx.Done():
			shutCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			return srv.Shutdown(shutCtx)
		case err := <-errCh:
			if errors.Is(err, http.ErrServerClosed) {
				return nil
			}
			return err
		case <-sweep.C:
			s.limiter.Sweep()
		}
	}
}

// api wraps an API handler with rate limiting and request counting.
func (s *Server) api(route string, h http.HandlerFunc) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rec := &statusRecorder{ResponseWriter: w, code: http.StatusOK}
		defer func() {
			metrics.HTTPRequestsTotal.WithLabelValues(route, strconv.Itoa(rec.code)).Inc()
		}()

		if !s.limiter.Allow(ratelimit.HostKey(r.RemoteAddr)) {
			metrics.RateLimitedTotal.WithLabelValues("http").Inc()
			writeJSONError(rec, http.StatusTooManyRequests, "rate limit exceeded")
			return
		}
		h(rec, r)
	})
}

type statusRecorder struct {
	http.ResponseWriter
	code int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.code = code
	r.ResponseWriter.WriteHeader(code)
}

func handleHealthz(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("OK"))
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	page, err := webFiles.ReadFile("web/index.html")
	if err != nil {
		writeJSONError(w, http.StatusInternalServerError, "page unavailable")
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write(page)
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

type apiError struct {
	Message string `json:"message"`
	Type    string `json:"type"`
	Code    int    `json:"code"`
}

func writeJSONError(w http.ResponseWriter, code int, message string) {
	writeJSON(w, code, map[string]apiError{
		"error": {Message: message, Type: "musaed_error", Code: code},
	})
}
