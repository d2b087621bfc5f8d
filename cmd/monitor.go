package cmd

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

func newMonitorCmd() *cobra.Command {
	var dryRun bool

	cmd := &cobra.Command{
		Use:   "monitor",
		Short: "Check the calendar every check_interval until interrupted",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			defer a.Close()
			if cmd.Flags().Changed("dry-run") {
				a.cfg.DryRun = dryRun
			}

			ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer cancel()

			s, err := a.scheduler(ctx)
			if err != nil {
				return err
			}
			if err := s.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
				return err
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "walk the booking flow without confirming (overrides BOOKING_DRY_RUN)")
	return cmd
}
