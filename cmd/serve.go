package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/MBatuhanOzer/filter/pkg/cache"
	"github.com/MBatuhanOzer/filter/pkg/engine"
	"github.com/MBatuhanOzer/filter/pkg/logger"
	"github.com/MBatuhanOzer/filter/pkg/server"
)

var listenAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the filter engine behind an HTTP API",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		addr := listenAddr
		if addr == "" {
			addr = cfg.ListenAddr
		}

		e, err := engine.New(cfg.ArenaSize, cfg.Threads)
		if err != nil {
			return err
		}
		defer e.Destroy()

		resultCache := cache.New(cfg.CacheDir, cfg.CacheTTL)
		srv := server.New(e, resultCache)

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		logger.Infof("serving on %s (arena_size=%d threads=%d)", addr, e.Stats().ArenaSize, e.Stats().Workers)
		return srv.Run(ctx, addr)
	},
}

func init() {
	serveCmd.Flags().StringVar(&listenAddr, "addr", "", "HTTP listen address (default from config)")
	rootCmd.AddCommand(serveCmd)
}
