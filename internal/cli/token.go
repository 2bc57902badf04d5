package cli

import (
	"fmt"

	"rpg_tracker/internal/service"

	"github.com/spf13/cobra"
)

func newTokenCmd() *cobra.Command {
	var accountID int64
	var name string

	cmd := &cobra.Command{
		Use:   "token",
		Short: "Issue a session token for an existing account",
		RunE: func(cmd *cobra.Command, args []string) error {
			if accountID <= 0 {
				return fmt.Errorf("--account-id must be positive")
			}
			tokens, err := service.NewTokenManager(cfg.JWTSecret, nil)
			if err != nil {
				return err
			}
			token, claims, err := tokens.Issue(accountID, name)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), token)
			fmt.Fprintf(cmd.ErrOrStderr(), "expires %s\n", claims.ExpiresAt.Time.UTC().Format("2006-01-02 15:04:05"))
			return nil
		},
	}

	cmd.Flags().Int64Var(&accountID, "account-id", 0, "Account id (required)")
	cmd.Flags().StringVar(&name, "name", "", "Account name carried in the token")
	_ = cmd.MarkFlagRequired("account-id")

	return cmd
}
