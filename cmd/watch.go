package cmd

import (
	"github.com/spf13/cobra"

	"github.com/MBatuhanOzer/filter/pkg/engine"
	"github.com/MBatuhanOzer/filter/pkg/tui"
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Live dashboard of engine worker and arena occupancy",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := engine.New(cfg.ArenaSize, cfg.Threads)
		if err != nil {
			return err
		}
		defer e.Destroy()

		return tui.Run(e)
	},
}

func init() {
	rootCmd.AddCommand(watchCmd)
}
