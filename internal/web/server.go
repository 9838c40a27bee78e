package web

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/mux"
	"github.com/patrickmn/go-cache"
	"github.com/rs/cors"

	"github.com/rsambing/smart-tour/internal/aggregator"
	"github.com/rsambing/smart-tour/internal/analysis"
	"github.com/rsambing/smart-tour/internal/logging"
	"github.com/rsambing/smart-tour/internal/store"
)

const shutdownTimeout = 15 * time.Second

// Server serves the analysis API over the staged datasets.
type Server struct {
	Store  *store.Store
	Policy aggregator.Policy
	Logger *logging.Logger
	Addr   string
	// RateLimit is requests per second per client; zero disables limiting.
	RateLimit float64
	CacheTTL  time.Duration

	once    sync.Once
	cache   *cache.Cache
	limiter *clientLimiter

	mu      sync.RWMutex
	running bool
	current *analysis.Result
	// gen counts completed analyses; it prefixes province cache keys so an
	// entry built from an older result is never served for a newer one.
	gen     uint64
	lastRun time.Time
	lastErr error
}

func (s *Server) init() {
	s.once.Do(func() {
		if s.Logger == nil {
			s.Logger = logging.New(false)
		}
		ttl := s.CacheTTL
		if ttl <= 0 {
			ttl = 5 * time.Minute
		}
		s.cache = cache.New(ttl, 2*ttl)
		if s.RateLimit > 0 {
			s.limiter = newClientLimiter(s.RateLimit, idleClientTTL)
		}
	})
}

// Handler returns the fully wired router.
func (s *Server) Handler() http.Handler {
	s.init()

	r := mux.NewRouter()
	r.Use(s.recoveryMiddleware)
	r.Use(s.loggingMiddleware)
	if s.limiter != nil {
		r.Use(s.rateLimitMiddleware)
	}

	api := r.PathPrefix("/api").Subrouter()
	api.HandleFunc("/status", s.handleStatus).Methods(http.MethodGet)
	api.HandleFunc("/analyze", s.handleAnalyze).Methods(http.MethodPost)
	api.HandleFunc("/kpis", s.handleKPIs).Methods(http.MethodGet)
	api.HandleFunc("/summary", s.handleSummary).Methods(http.MethodGet)
	api.HandleFunc("/provinces", s.handleProvinces).Methods(http.MethodGet)
	api.HandleFunc("/provinces/{name}", s.handleProvince).Methods(http.MethodGet)
	api.HandleFunc("/sites/sustainability", s.handleSustainability).Methods(http.MethodGet)
	api.HandleFunc("/sites/capacity", s.handleCapacity).Methods(http.MethodGet)

	c := cors.New(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         86400,
	})
	return c.Handler(r)
}

// ListenAndServe starts the HTTP server and shuts it down when ctx ends.
func (s *Server) ListenAndServe(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.Addr,
		Handler:           s.Handler(),
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.Logger.Info("Serving at http://%s", s.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	s.Logger.Info("Shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

// startAnalysis marks a run as in progress. It reports false if one already is.
func (s *Server) startAnalysis() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.running {
		return false
	}
	s.running = true
	return true
}

// AnalyzeNow runs an analysis synchronously, as POST /api/analyze?wait=true
// does.
func (s *Server) AnalyzeNow() error {
	s.init()
	if !s.startAnalysis() {
		return errors.New("analysis already running")
	}
	return s.runAnalysis()
}

// runAnalysis reads the staged datasets and replaces the current result.
// The previous result stays visible until the new one is complete.
func (s *Server) runAnalysis() error {
	res, err := s.analyze()

	s.mu.Lock()
	defer s.mu.Unlock()
	s.running = false
	s.lastRun = time.Now().UTC()
	s.lastErr = err
	if err != nil {
		s.Logger.Error("analysis failed: %v", err)
		return err
	}
	s.current = res
	s.gen++
	s.cache.Flush()
	s.Logger.Info("analysis complete: %d visitor records, %d sites", res.VisitorRecords, res.SiteRecords)
	return nil
}

func (s *Server) analyze() (*analysis.Result, error) {
	visitors, err := s.Store.ReadVisitors()
	if err != nil {
		return nil, err
	}
	sites, err := s.Store.ReadSites()
	if err != nil {
		return nil, err
	}
	return analysis.Run(visitors, sites, s.Policy)
}

func (s *Server) result() *analysis.Result {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current
}

// resultGen returns the current result together with its generation.
func (s *Server) resultGen() (*analysis.Result, uint64) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current, s.gen
}

func provinceCacheKey(gen uint64, name string) string {
	return fmt.Sprintf("%d/%s", gen, name)
}
