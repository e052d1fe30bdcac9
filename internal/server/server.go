// Package server exposes the CSV analyses over HTTP.
package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/cors"
	"github.com/sirupsen/logrus"

	"github.com/KaramelBytes/tablelens/internal/analysis"
	"github.com/KaramelBytes/tablelens/internal/config"
)

const shutdownTimeout = 10 * time.Second

// Server is the HTTP front end of the analysis engine. It holds no state
// between requests apart from rate-limit buckets.
type Server struct {
	cfg     *config.Global
	log     *logrus.Logger
	maxBody int64
	limiter *ipLimiter
	handler http.Handler
	now     func() time.Time
}

// New builds a Server from cfg. A nil logger discards request logs.
func New(cfg *config.Global, log *logrus.Logger) *Server {
	if log == nil {
		log = logrus.New()
		log.SetLevel(logrus.PanicLevel)
	}
	s := &Server{
		cfg:     cfg,
		log:     log,
		maxBody: cfg.MaxUploadBytes(),
		now:     time.Now,
	}
	if cfg.RateLimitPerMin > 0 {
		s.limiter = newIPLimiter(cfg.RateLimitPerMin)
	}
	s.handler = s.routes()
	return s
}

func (s *Server) routes() http.Handler {
	r := mux.NewRouter()
	r.Use(requestID, s.recoverPanics, s.observe, s.rateLimit, s.limitBody)

	r.HandleFunc("/health", s.handleHealth).Methods(http.MethodGet)
	r.HandleFunc("/openapi.json", s.handleOpenAPI).Methods(http.MethodGet)
	r.Handle("/metrics", promhttp.Handler()).Methods(http.MethodGet)

	for _, route := range uploadRoutes {
		r.HandleFunc(route.path, s.handleUpload(route.report)).Methods(http.MethodPost)
	}

	c := cors.New(cors.Options{
		AllowedOrigins: s.cfg.AllowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"*"},
		ExposedHeaders: []string{RequestIDHeader},
	})
	return c.Handler(r)
}

// Handler returns the fully wrapped HTTP handler.
func (s *Server) Handler() http.Handler { return s.handler }

// Run listens on the configured address and serves until ctx is cancelled,
// then drains in-flight requests.
func (s *Server) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.cfg.ListenAddr)
	if err != nil {
		return fmt.Errorf("listen %s: %w", s.cfg.ListenAddr, err)
	}
	return s.Serve(ctx, ln)
}

// Serve is Run on an existing listener.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:      s.handler,
		ReadTimeout:  time.Duration(s.cfg.ReadTimeoutSec) * time.Second,
		WriteTimeout: time.Duration(s.cfg.WriteTimeoutSec) * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.WithField("addr", ln.Addr().String()).Info("server listening")
		errCh <- srv.Serve(ln)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	s.log.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	s.log.Info("server exited gracefully")
	return nil
}

// uploadRoute binds an upload endpoint to the report it produces.
type uploadRoute struct {
	path    string
	report  string
	summary string
}

var uploadRoutes = []uploadRoute{
	{path: "/upload", report: analysis.ReportTypes, summary: "Detect column types"},
	{path: "/audit", report: analysis.ReportAudit, summary: "Audit data quality"},
	{path: "/analyze", report: analysis.ReportFull, summary: "Run the full analysis"},
	{path: "/stats", report: analysis.ReportStats, summary: "Summarize numeric columns"},
	{path: "/dashboard", report: analysis.ReportDashboard, summary: "Build a dashboard payload"},
}
