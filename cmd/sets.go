package cmd

import (
	"context"
	"fmt"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/example/fumoto-monitor/internal/domain/reservation"
)

func newSetsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "sets",
		Short: "Validate the config file and list the watched sets and months",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			defer a.Close()

			cfg, err := a.store().Load(context.Background())
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "config=%s check_interval=%s\n", a.cfg.ConfigPath, cfg.CheckInterval)
			t := newTable(out)
			t.AppendHeader(table.Row{"ID", "Name", "Start", "Nights", "Adults", "Children", "Preschoolers", "Auto"})
			for _, s := range cfg.Sets {
				t.AppendRow(table.Row{s.ID, s.Name, s.StartDate, s.Nights, s.Adults, s.Children, s.Preschoolers, s.AutoReserve})
			}
			t.Render()
			for _, r := range cfg.Rejected {
				fmt.Fprintf(out, "skipped: %v\n", r)
			}
			for _, ym := range reservation.TargetMonths(cfg.Sets) {
				fmt.Fprintf(out, "month %s\n", ym)
			}
			return nil
		},
	}
}
