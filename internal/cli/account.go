package cli

import (
	"fmt"

	"rpg_tracker/internal/repository"
	"rpg_tracker/internal/service"

	"github.com/spf13/cobra"
)

func newAccountCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "account",
		Short: "Account management",
	}
	cmd.AddCommand(newAccountCreateCmd())
	return cmd
}

func newAccountCreateCmd() *cobra.Command {
	var name, password string

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a local account and print a session token",
		RunE: func(cmd *cobra.Command, args []string) error {
			tokens, err := service.NewTokenManager(cfg.JWTSecret, nil)
			if err != nil {
				return err
			}
			pool, err := openDB(cmd.Context())
			if err != nil {
				return err
			}
			defer pool.Close()

			accounts := repository.NewAccountRepository(pool)
			audit := service.NewAuditService(repository.NewAuditRepository(pool))
			auth := service.NewAuthService(accounts, tokens, audit)

			sess, err := auth.Register(cmd.Context(), name, password)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "account id=%d name=%s\ntoken=%s\n", sess.Account.ID, sess.Account.Name, sess.Token)
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "Account name (required)")
	cmd.Flags().StringVar(&password, "password", "", "Password (required)")
	_ = cmd.MarkFlagRequired("name")
	_ = cmd.MarkFlagRequired("password")

	return cmd
}
