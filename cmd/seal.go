package cmd

import (
	"bufio"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/example/fumoto-monitor/internal/application/usecases"
	"github.com/example/fumoto-monitor/internal/infrastructure/crypto"
)

func newSealCmd() *cobra.Command {
	var password string

	c := &cobra.Command{
		Use:   "seal",
		Short: "Encrypt the site password with CRED_ENC_KEY for PASSWORD_SEALED",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			defer a.Close()
			if len(a.cfg.CredEncKey) == 0 {
				return errors.New("CRED_ENC_KEY is required (see `fumotomon keys`)")
			}

			if password == "" {
				line, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
				if err != nil && line == "" {
					return fmt.Errorf("read password from stdin: %w", err)
				}
				password = strings.TrimRight(line, "\r\n")
			}

			aead, err := crypto.New(a.cfg.CredEncKey)
			if err != nil {
				return err
			}
			sealed, err := usecases.Seal(aead, password)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "export PASSWORD_SEALED=%s\n", sealed)
			return nil
		},
	}

	c.Flags().StringVar(&password, "password", "", "password to seal (read from stdin when empty)")
	return c
}
