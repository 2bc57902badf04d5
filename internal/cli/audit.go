package cli

import (
	"encoding/json"
	"fmt"

	"rpg_tracker/internal/repository"

	"github.com/spf13/cobra"
)

func newAuditCmd() *cobra.Command {
	var accountID int64
	var limit int

	cmd := &cobra.Command{
		Use:   "audit",
		Short: "Show the latest audit log entries of an account",
		RunE: func(cmd *cobra.Command, args []string) error {
			pool, err := openDB(cmd.Context())
			if err != nil {
				return err
			}
			defer pool.Close()

			logs, err := repository.NewAuditRepository(pool).GetByAccountID(cmd.Context(), accountID, limit)
			if err != nil {
				return err
			}
			enc := json.NewEncoder(cmd.OutOrStdout())
			for _, l := range logs {
				if err := enc.Encode(l); err != nil {
					return err
				}
			}
			if len(logs) == 0 {
				fmt.Fprintln(cmd.ErrOrStderr(), "no entries")
			}
			return nil
		},
	}

	cmd.Flags().Int64Var(&accountID, "account-id", 0, "Account id (required)")
	cmd.Flags().IntVar(&limit, "limit", 20, "Maximum entries")
	_ = cmd.MarkFlagRequired("account-id")

	return cmd
}
