// Package server exposes an Engine over HTTP.
//
// Routes:
//
//	POST /v1/upload   {"strings": [...]}                          -> {"uploaded": n, "size": n}
//	POST /v1/query    {"text": "...", "k": 3, "orderSensitive": true} -> {"results": [...]}
//	POST /v1/search   {"text": "...", "k": 3, "unordered": true, "ids": [...]} -> {"results": [{id, text, distance}]}
//	GET  /v1/stats
//	GET  /v1/export?compression=zstd
//	GET  /healthz
//	GET  /metrics
//
// Request bodies may be gzip-compressed (Content-Encoding: gzip).
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/hupe1980/strknn"
	"github.com/hupe1980/strknn/internal/config"
)

// Options configures a Server.
type Options struct {
	Config config.ServerConfig

	// Logger receives request logs. Defaults to strknn.NoopLogger().
	Logger *strknn.Logger

	// Gatherer backs /metrics. Defaults to prometheus.DefaultGatherer.
	Gatherer prometheus.Gatherer

	// Version is reported by /healthz.
	Version string
}

// Server is the HTTP binding of an Engine.
type Server struct {
	eng     *strknn.Engine
	opts    Options
	router  *gin.Engine
	http    *http.Server
	started time.Time
}

// New creates a Server for eng.
func New(eng *strknn.Engine, optFns ...func(o *Options)) *Server {
	opts := Options{
		Config: config.ServerConfig{
			Addr:            ":8080",
			ReadTimeout:     30 * time.Second,
			WriteTimeout:    30 * time.Second,
			ShutdownTimeout: 10 * time.Second,
			MaxBodyBytes:    32 << 20,
			MaxK:            1000,
		},
	}
	for _, fn := range optFns {
		fn(&opts)
	}
	if opts.Logger == nil {
		opts.Logger = strknn.NoopLogger()
	}
	if opts.Gatherer == nil {
		opts.Gatherer = prometheus.DefaultGatherer
	}

	if opts.Config.Debug {
		gin.SetMode(gin.DebugMode)
	} else if gin.Mode() != gin.TestMode {
		gin.SetMode(gin.ReleaseMode)
	}

	s := &Server{
		eng:     eng,
		opts:    opts,
		router:  gin.New(),
		started: time.Now(),
	}

	s.router.Use(gin.Recovery())
	s.router.Use(requestLogger(opts.Logger))
	if opts.Config.EnableCORS {
		corsConfig := cors.DefaultConfig()
		corsConfig.AllowAllOrigins = true
		corsConfig.AllowMethods = []string{"GET", "POST", "OPTIONS"}
		corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Content-Encoding"}
		s.router.Use(cors.New(corsConfig))
	}

	s.setupRoutes()

	s.http = &http.Server{
		Addr:         opts.Config.Addr,
		Handler:      s.router,
		ReadTimeout:  opts.Config.ReadTimeout,
		WriteTimeout: opts.Config.WriteTimeout,
	}

	return s
}

func (s *Server) setupRoutes() {
	s.router.GET("/healthz", s.handleHealth)
	s.router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(s.opts.Gatherer, promhttp.HandlerOpts{})))

	v1 := s.router.Group("/v1")
	{
		body := v1.Group("", limitBody(s.opts.Config.MaxBodyBytes), decompressBody(s.opts.Config.MaxBodyBytes))
		body.POST("/upload", s.handleUpload)
		body.POST("/query", s.handleQuery)
		body.POST("/search", s.handleSearch)

		v1.GET("/stats", s.handleStats)
		v1.GET("/export", s.handleExport)
	}
}

// Handler returns the HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

// ListenAndServe serves until ctx is done, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		s.opts.Logger.Info("http server listening", "addr", s.http.Addr)
		errCh <- s.http.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("http server: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.opts.Config.ShutdownTimeout)
	defer cancel()

	s.opts.Logger.Info("http server shutting down")
	if err := s.http.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("http server shutdown: %w", err)
	}
	return nil
}
