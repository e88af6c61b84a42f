package api

import (
	"context"
	"embed"
	"io/fs"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/klauspost/compress/gzhttp"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/lox/whattowear/internal/ingest"
	"github.com/lox/whattowear/internal/models"
	"github.com/lox/whattowear/internal/verdict"
)

//go:embed public
var publicFS embed.FS

// Forecaster fetches forecasts from the provider.
type Forecaster interface {
	FetchHourly(ctx context.Context, q models.Query) (models.ForecastSet, *ingest.FetchResult, error)
	FetchDaily(ctx context.Context, q models.Query) (models.DailyForecastSet, *ingest.FetchResult, error)
}

type Server struct {
	forecaster  Forecaster
	engine      *verdict.Engine
	defaults    models.Query
	hourlyLimit int
	port        string
	logger      *slog.Logger
	validate    *validator.Validate
	router      *chi.Mux
}

// Options configures a Server.
type Options struct {
	Port        string
	Defaults    models.Query
	HourlyLimit int
}

func NewServer(forecaster Forecaster, engine *verdict.Engine, opts Options, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Server{
		forecaster:  forecaster,
		engine:      engine,
		defaults:    opts.Defaults,
		hourlyLimit: opts.HourlyLimit,
		port:        opts.Port,
		logger:      logger,
		validate:    validator.New(),
		router:      chi.NewRouter(),
	}
	s.routes()
	return s
}

func (s *Server) routes() {
	r := s.router
	r.Use(s.recoverer)
	r.Use(requestID)
	r.Use(securityHeaders)
	r.Use(s.requestLogger)

	r.Get("/health", s.handleHealth)
	r.Handle("/metrics", promhttp.Handler())

	r.Get("/api/forecast/daily", s.handleDaily)
	r.Get("/api/forecast/hourly", s.handleHourly)
	r.Get("/simpleverdict", s.handleSimpleVerdict)
	r.Get("/verdict", s.handleVerdict)

	static, err := fs.Sub(publicFS, "public")
	if err != nil {
		panic(err)
	}
	r.Handle("/*", http.FileServer(http.FS(static)))
}

func (s *Server) Handler() http.Handler {
	return gzhttp.GzipHandler(s.router)
}

func (s *Server) Run(ctx context.Context) error {
	server := &http.Server{
		Addr:              ":" + s.port,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		server.Shutdown(shutdownCtx)
	}()

	s.logger.Info("listening", "addr", server.Addr)
	if err := server.ListenAndServe(); err != http.ErrServerClosed {
		return err
	}
	return nil
}
