// Package server exposes photo search over HTTP.
//
//	GET /api/search?query=<term>  -> models.SearchResponse
//	GET /api/health               -> models.HealthResponse
package server

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"golang.org/x/sync/errgroup"
	"photowall/pkg/config"
	"photowall/pkg/errors"
	"photowall/pkg/logger"
	"photowall/pkg/models"
	"photowall/pkg/ratelimit"
	"photowall/pkg/scraper"
)

// Server serves the search API.
type Server struct {
	cfg      config.ServerConfig
	searcher scraper.Searcher
	limiter  *ratelimit.KeyedLimiter
	router   chi.Router
	now      func() time.Time
	log      logger.Logger
}

// New builds the router. limits throttle /api/search per client address.
func New(cfg config.ServerConfig, limits config.RateLimitConfig, searcher scraper.Searcher) *Server {
	s := &Server{
		cfg:      cfg,
		searcher: searcher,
		limiter:  ratelimit.NewKeyed(limits.RequestsPerSecond, limits.Burst, 10*time.Minute),
		now:      time.Now,
		log:      logger.GetLogger().WithField("component", "server"),
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger)
	r.Use(middleware.Recoverer)
	if cfg.WriteTimeout > 0 {
		r.Use(middleware.Timeout(cfg.WriteTimeout))
	}
	r.Use(s.cors)

	r.Get("/api/health", s.handleHealth)
	r.With(s.throttle).Get("/api/search", s.handleSearch)

	s.router = r
	return s
}

// Handler returns the HTTP handler.
func (s *Server) Handler() http.Handler { return s.router }

// Run listens until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:         s.cfg.Addr(),
		Handler:      s.router,
		ReadTimeout:  s.cfg.ReadTimeout,
		WriteTimeout: s.cfg.WriteTimeout,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.LogComponentStart("server", map[string]interface{}{"addr": srv.Addr})
		if err := srv.ListenAndServe(); !stderrors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), s.cfg.ShutdownTimeout)
		defer cancel()
		err := srv.Shutdown(shutdownCtx)
		logger.LogComponentStop("server", "context done")
		return err
	})
	return g.Wait()
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, models.HealthResponse{Status: "ok", Timestamp: s.now().UTC()})
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("query")

	resp, err := s.searcher.Search(r.Context(), query)
	if err != nil {
		switch errors.TypeOf(err) {
		case errors.ErrorTypePrecondition:
			writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: "Query parameter is required"})
		default:
			s.log.WithError(err).WithField("query", query).Error("Search request failed")
			writeJSON(w, http.StatusInternalServerError, models.ErrorResponse{
				Error:   "Failed to scrape photos",
				Message: err.Error(),
			})
		}
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) cors(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.cfg.AllowedOrigin != "" {
			w.Header().Set("Access-Control-Allow-Origin", s.cfg.AllowedOrigin)
			w.Header().Set("Access-Control-Allow-Methods", "GET, OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		}
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) throttle(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !s.limiter.Allow(clientKey(r)) {
			w.Header().Set("Retry-After", "1")
			writeJSON(w, http.StatusTooManyRequests, models.ErrorResponse{Error: "Too many requests"})
			return
		}
		next.ServeHTTP(w, r)
	})
}

func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		logger.LogRequest(r.Method, r.URL.String(), status, float64(time.Since(start).Microseconds())/1000)
	})
}

func clientKey(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(v)
}
