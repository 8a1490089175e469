package main

import (
	"os/signal"
	"syscall"

	"propsight/api"
	"propsight/service"

	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API",
	Long: `Run the HTTP API server.

Examples:
  # Serve on APP_PORT (default 8080)
  propsight serve`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	a, err := newApp(ctx)
	if err != nil {
		return err
	}
	defer a.Close()

	// =========
	// HTTP
	// =========
	server, err := api.NewServer(
		api.Config{
			Port:              a.cfg.AppPort,
			RateLimitRequests: a.cfg.RateLimitRequests,
			RateLimitWindow:   a.cfg.RateLimitWindow,
			TrustedProxies:    a.cfg.TrustedProxies,
			Model:             a.cfg.GeminiModel,
		},
		api.Services{
			Analyzer:   a.analysis,
			Compressor: service.NewCompressService(a.compressor),
			Generator:  a.generation,
			Researcher: a.insights,
			Sessions:   a.sessions,
		},
		a.logger.Named("api"),
	)
	if err != nil {
		return err
	}
	return server.Start(ctx)
}
