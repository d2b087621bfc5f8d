package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/example/fumoto-monitor/internal/application/usecases"
)

func newPingCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "ping",
		Short: "Send a test message through the configured notifiers",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			defer a.Close()

			n, err := a.notifier()
			if err != nil {
				return err
			}
			ctx, cancel := context.WithTimeout(context.Background(), a.cfg.HTTPTimeout+5*time.Second)
			defer cancel()
			if err := (usecases.PingNotifier{Notifier: n}).Execute(ctx); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "notify: ok")
			return nil
		},
	}
}
