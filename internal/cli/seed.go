package cli

import (
	"fmt"

	"rpg_tracker/internal/achievement"
	"rpg_tracker/internal/repository"
	"rpg_tracker/internal/service"

	"github.com/spf13/cobra"
)

func newSeedCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Upsert the achievement catalog",
		RunE: func(cmd *cobra.Command, args []string) error {
			pool, err := openDB(cmd.Context())
			if err != nil {
				return err
			}
			defer pool.Close()

			catalog := achievement.DefaultCatalog()
			svc := service.NewAchievementService(catalog, repository.NewAchievementRepository(pool), nil, nil)
			if err := svc.Seed(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "seeded %d achievements\n", catalog.Len())
			return nil
		},
	}
}
