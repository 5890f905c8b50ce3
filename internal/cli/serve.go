package cli

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/ppiankov/geolore/internal/pipeline"
	"github.com/ppiankov/geolore/internal/server"
)

// serveCmd represents the serve command
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve entity cards, stats and events over HTTP",
	Long: `Serve exposes geolore to the map UI:

  POST /api/entity                 feature → entity card
  POST /api/wiki                   feature → article result
  POST /api/fallback-stats?max=N   feature → stats from its properties
  GET  /api/events/{month}/{day}   located historical events
  GET  /healthz

Results are memoized in memory for the life of the process.`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().String("addr", ":8080", "listen address")
	_ = viper.BindPFlag("server.addr", serveCmd.Flags().Lookup("addr"))
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger := slog.Default()
	p := pipeline.NewPipeline(cfg, logger)
	return server.New(p, cfg.Server, cfg.Fallback.MaxStats, logger).ListenAndServe(ctx)
}
