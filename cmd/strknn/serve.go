package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/hupe1980/strknn"
	"github.com/hupe1980/strknn/internal/server"
	"github.com/hupe1980/strknn/observability"
)

func newServeCommand(c *cli) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the engine over HTTP",
		Long: `serve loads the configured corpus files and exposes the engine over HTTP.

Endpoints: POST /v1/upload, POST /v1/query, POST /v1/search, GET /v1/stats,
GET /v1/export, GET /healthz and GET /metrics.`,
		Args: cobra.NoArgs,
		PreRun: func(cmd *cobra.Command, _ []string) {
			c.bind(cmd.Flags(), map[string]string{
				"corpus":              "corpus",
				"engine.set_strategy": "set-strategy",
				"engine.cache_size":   "cache-size",
				"server.addr":         "addr",
				"server.enable_cors":  "cors",
				"server.debug":        "debug",
			})
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			collector, err := observability.NewPrometheusCollector("", prometheus.DefaultRegisterer)
			if err != nil {
				return err
			}

			eng, logger, err := c.openEngine(ctx, cfg, strknn.WithMetricsCollector(collector))
			if err != nil {
				return err
			}
			defer eng.Close()

			srv := server.New(eng, func(o *server.Options) {
				o.Config = cfg.Server
				o.Logger = logger
				o.Gatherer = prometheus.DefaultGatherer
				o.Version = version
			})

			return srv.ListenAndServe(ctx)
		},
	}

	cmd.Flags().StringSlice("corpus", nil, "corpus file to load at startup (repeatable)")
	cmd.Flags().String("set-strategy", "exact", "unordered token matching (exact, greedy)")
	cmd.Flags().Int("cache-size", strknn.DefaultCacheSize, "result cache entries (0 disables)")
	cmd.Flags().String("addr", ":8080", "listen address")
	cmd.Flags().Bool("cors", false, "allow cross-origin requests")
	cmd.Flags().Bool("debug", false, "gin debug mode")

	return cmd
}
