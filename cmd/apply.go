package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/MBatuhanOzer/filter/pkg/engine"
	"github.com/MBatuhanOzer/filter/pkg/imageio"
	"github.com/MBatuhanOzer/filter/pkg/logger"
)

var applyFilter string

var applyCmd = &cobra.Command{
	Use:   "apply <input> <output>",
	Short: "Apply a filter to a single image file",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		inPath, outPath := args[0], args[1]

		kind, ok := engine.ParseKind(applyFilter)
		if !ok {
			return fmt.Errorf("unsupported filter kind %q", applyFilter)
		}

		e, err := engine.New(cfg.ArenaSize, cfg.Threads)
		if err != nil {
			return err
		}
		defer e.Destroy()

		in, err := imageio.Load(inPath)
		if err != nil {
			return err
		}
		out := imageio.Blank(in)

		if err := applyKind(e, kind, in, out); err != nil {
			return err
		}
		e.Wait()

		if err := imageio.Save(outPath, out); err != nil {
			return err
		}

		logger.Infof("wrote %s (%dx%d, %s)", outPath, out.Width, out.Height, kind)
		return nil
	},
}

func applyKind(e *engine.Engine, kind engine.Kind, in, out engine.ImageView) error {
	switch kind {
	case engine.Invert:
		return e.Invert(in, out)
	case engine.Grayscale:
		return e.Grayscale(in, out)
	case engine.Sepia:
		return e.Sepia(in, out)
	default:
		return engine.ErrUnsupportedKind(kind)
	}
}

func init() {
	applyCmd.Flags().StringVar(&applyFilter, "filter", "", "filter kind: invert, grayscale, or sepia (required)")
	applyCmd.MarkFlagRequired("filter")
	rootCmd.AddCommand(applyCmd)
}
