package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/weeklydish/planner/internal/infrastructure/persistence/postgres"
	"github.com/weeklydish/planner/internal/infrastructure/persistence/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func newSeedCmd(load loader) *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Load the demo catalog into an empty database",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, log, err := load()
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}

			var db *gorm.DB
			if cfg.Database.Driver == "postgres" {
				cm, err := postgres.NewConnectionManager(ctx, cfg, log)
				if err != nil {
					return err
				}
				defer cm.Close()
				if err := cm.Migrate(); err != nil {
					return err
				}
				db = cm.GetDB()
			} else {
				db, err = sqlite.SetupDatabase(cfg.Database.Path, gormlogger.Silent)
				if err != nil {
					return err
				}
				if sqlDB, err := db.DB(); err == nil {
					defer sqlDB.Close()
				}
			}

			n, err := sqlite.SeedDatabase(ctx, db)
			if err != nil {
				return fmt.Errorf("seed failed: %w", err)
			}
			if n == 0 {
				cmd.Println("Catalog already has recipes; nothing seeded.")
				return nil
			}
			cmd.Printf("Seeded %d recipes.\n", n)
			return nil
		},
	}
}
