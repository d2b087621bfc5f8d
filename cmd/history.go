package cmd

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/example/fumoto-monitor/internal/domain/reservation"
	"github.com/example/fumoto-monitor/internal/infrastructure/postgres"
)

func newHistoryCmd() *cobra.Command {
	var limit int

	c := &cobra.Command{
		Use:   "history YYYY-MM-DD",
		Short: "Show the recorded availability of one stay date (needs DATABASE_URL)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			date, err := time.Parse(reservation.DateLayout, args[0])
			if err != nil {
				return fmt.Errorf("invalid date (want YYYY-MM-DD): %w", err)
			}
			a, err := newApp()
			if err != nil {
				return err
			}
			defer a.Close()
			if a.cfg.DatabaseURL == "" {
				return errors.New("DATABASE_URL is required")
			}

			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()
			pool, err := postgres.Open(ctx, a.cfg.DatabaseURL)
			if err != nil {
				return err
			}
			defer pool.Close()

			obs, err := postgres.NewAvailabilityRepo(pool).History(ctx, date, limit)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if len(obs) == 0 {
				fmt.Fprintln(out, "no observations")
				return nil
			}
			t := newTable(out)
			t.AppendHeader(table.Row{"Observed", "Mark", "Remaining", "Raw"})
			for _, o := range obs {
				t.AppendRow(table.Row{o.ObservedAt.Local().Format(time.DateTime), o.Mark, o.Remaining, o.Raw})
			}
			t.Render()
			return nil
		},
	}

	c.Flags().IntVar(&limit, "limit", 20, "number of observations")
	return c
}
