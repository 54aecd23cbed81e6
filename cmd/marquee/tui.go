package main

import (
	"github.com/spf13/cobra"

	"github.com/MrSnakeDoc/marquee/internal/tui"
)

var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Browse the catalog in the terminal",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx, stop := signalContext()
		defer stop()

		s, err := openSession(ctx)
		if err != nil {
			return err
		}
		defer s.Close()

		s.log.Info("terminal ui started")
		return tui.Run(tui.Options{
			Context: ctx,
			Catalog: s.components.Catalog,
			Terms:   s.terms,
			TermKey: s.cfg.TermKey,
			Logger:  s.log,
		})
	},
}

func init() {
	rootCmd.AddCommand(tuiCmd)
}
