// Package cmd provides the CLI command structure for the image filter
// engine. It uses the cobra library for command parsing and execution.
package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/MBatuhanOzer/filter/pkg/config"
	"github.com/MBatuhanOzer/filter/pkg/logger"
)

var (
	// Global flags
	logLevel   string
	jsonLog    bool
	configFile string

	// Engine flags, shared by every subcommand that constructs an engine
	arenaSize int
	threads   int

	cfg *config.Config
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "imgfilter",
	Short: "Apply pixel filters to images through a worker-pool engine",
	Long: `imgfilter runs raster filters (invert, grayscale, sepia) through an
in-process worker pool: small images run synchronously, larger ones are
partitioned into row ranges and drained by a fixed pool of goroutines.

Commands:
  apply  - Filter a single image file
  batch  - Filter every image in a directory, fanned out across files
  serve  - Run the filter engine behind an HTTP API
  bench  - Measure engine throughput and latency
  watch  - Live dashboard of engine occupancy`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		level := logger.ParseLevel(logLevel)
		log := logger.NewLogger(level, jsonLog)
		logger.SetDefault(log)

		loaded, err := config.Load(configFile)
		if err != nil {
			return err
		}
		if arenaSize > 0 {
			loaded.ArenaSize = arenaSize
		}
		if threads > 0 {
			loaded.Threads = threads
		}
		cfg = loaded
		return nil
	},
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		logger.Error("command execution failed", "error", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "INFO", "Log level (DEBUG, INFO, WARN, ERROR)")
	rootCmd.PersistentFlags().BoolVar(&jsonLog, "json-log", false, "Output logs in JSON format")
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "Config file path (default: .env)")
	rootCmd.PersistentFlags().IntVar(&arenaSize, "arena-size", 0, "Node arena size (default from config/engine)")
	rootCmd.PersistentFlags().IntVar(&threads, "threads", 0, "Worker thread count (default: NumCPU)")
}
