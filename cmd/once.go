package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

func newOnceCmd() *cobra.Command {
	var dryRun bool

	cmd := &cobra.Command{
		Use:   "once",
		Short: "Run a single check cycle and print a summary",
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
			rep, err := s.RunCycle(ctx)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "cycle=%s sets=%d dates=%d failed_months=%d\n", rep.ID, rep.Sets, rep.Dates, len(rep.Failures))
			for _, f := range rep.Failures {
				fmt.Fprintf(out, "  %s: %v\n", f.Month, f.Err)
			}
			for _, r := range rep.Results {
				fmt.Fprintf(out, "set %s eligible=%t\n", r.SetID, r.Eligible)
				for _, d := range r.Details {
					fmt.Fprintf(out, "  %s\n", d)
				}
			}
			for _, m := range rep.Decision.Messages() {
				fmt.Fprintf(out, "notified: %s\n", m)
			}
			if o := rep.Outcome; o != nil {
				switch {
				case o.DryRun:
					fmt.Fprintln(out, "booking: dry run")
				case o.Success:
					fmt.Fprintln(out, "booking: completed")
				default:
					fmt.Fprintf(out, "booking: failed at %s: %v\n", o.FailedAt, o.Reason)
				}
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "walk the booking flow without confirming (overrides BOOKING_DRY_RUN)")
	return cmd
}
