package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/MBatuhanOzer/filter/pkg/engine"
	"github.com/MBatuhanOzer/filter/pkg/imageio"
	"github.com/MBatuhanOzer/filter/pkg/stats"
)

var (
	benchFilter string
	benchRepeat int
	benchWidth  int
	benchHeight int
)

var benchCmd = &cobra.Command{
	Use:   "bench [input]",
	Short: "Measure engine throughput and latency",
	Long: `bench repeats one filter submission N times and reports latency
percentiles. With an input file argument it loads that image; with none
it benchmarks against a synthetic --width x --height image.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		kind, ok := engine.ParseKind(benchFilter)
		if !ok {
			return fmt.Errorf("unsupported filter kind %q", benchFilter)
		}

		e, err := engine.New(cfg.ArenaSize, cfg.Threads)
		if err != nil {
			return err
		}
		defer e.Destroy()

		var in engine.ImageView
		if len(args) == 1 {
			in, err = imageio.Load(args[0])
			if err != nil {
				return err
			}
		} else {
			in = syntheticImage(benchWidth, benchHeight)
		}
		out := engine.ImageView{Pixels: make([]byte, len(in.Pixels)), Width: in.Width, Height: in.Height, Channels: in.Channels}

		samples := make([]time.Duration, 0, benchRepeat)
		for i := 0; i < benchRepeat; i++ {
			start := time.Now()
			if err := applyKind(e, kind, in, out); err != nil {
				return err
			}
			e.Wait()
			samples = append(samples, time.Since(start))
		}

		summary := stats.Summarize(samples)
		fmt.Printf("kind=%s repeat=%d size=%dx%d\n", kind, benchRepeat, in.Width, in.Height)
		fmt.Printf("mean=%s median=%s p95=%s p99=%s min=%s max=%s throughput=%.1f/s\n",
			summary.Mean, summary.Median, summary.P95, summary.P99, summary.Min, summary.Max, summary.Throughput)
		return nil
	},
}

func syntheticImage(width, height int) engine.ImageView {
	pixels := make([]byte, width*height*4)
	for i := range pixels {
		pixels[i] = byte(i % 256)
	}
	return engine.ImageView{Pixels: pixels, Width: width, Height: height, Channels: 4}
}

func init() {
	benchCmd.Flags().StringVar(&benchFilter, "filter", "grayscale", "filter kind to benchmark")
	benchCmd.Flags().IntVar(&benchRepeat, "repeat", 100, "number of filter runs to measure")
	benchCmd.Flags().IntVar(&benchWidth, "width", 1920, "synthetic image width (used when no input file is given)")
	benchCmd.Flags().IntVar(&benchHeight, "height", 1080, "synthetic image height (used when no input file is given)")
	rootCmd.AddCommand(benchCmd)
}
