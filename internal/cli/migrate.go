package cli

import (
	"fmt"

	"rpg_tracker/internal/migrations"

	"github.com/spf13/cobra"
)

func newMigrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Schema migrations",
	}
	cmd.AddCommand(newMigrateListCmd())
	cmd.AddCommand(newMigrateApplyCmd())
	return cmd
}

func newMigrateListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List embedded migrations in apply order",
		RunE: func(cmd *cobra.Command, args []string) error {
			names, err := migrations.Names()
			if err != nil {
				return err
			}
			for _, name := range names {
				fmt.Fprintln(cmd.OutOrStdout(), name)
			}
			return nil
		},
	}
}

func newMigrateApplyCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "apply",
		Short: "Apply every migration",
		RunE: func(cmd *cobra.Command, args []string) error {
			pool, err := openDB(cmd.Context())
			if err != nil {
				return err
			}
			defer pool.Close()

			return migrations.Apply(cmd.Context(), pool, func(name string) {
				fmt.Fprintf(cmd.OutOrStdout(), "applied %s\n", name)
			})
		},
	}
}
