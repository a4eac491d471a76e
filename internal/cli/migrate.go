package cli

import (
	"errors"
	"strconv"

	"github.com/spf13/cobra"
	"github.com/weeklydish/planner/internal/infrastructure/config"
	"github.com/weeklydish/planner/internal/infrastructure/persistence/migrations"
	"go.uber.org/zap"
)

var errNotPostgres = errors.New("versioned migrations apply to postgres; sqlite schemas are created on startup")

func newMigrateCmd(load loader) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Manage the postgres schema",
	}

	// open is deferred so list works without a database
	open := func() (*migrations.Migrator, error) {
		cfg, log, err := load()
		if err != nil {
			return nil, err
		}
		return openMigrator(cfg, log)
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "list",
			Short: "List the embedded migrations",
			RunE: func(cmd *cobra.Command, _ []string) error {
				available, err := migrations.Available()
				if err != nil {
					return err
				}
				for _, m := range available {
					cmd.Printf("%03d  %s\n", m.Version, m.Name)
				}
				return nil
			},
		},
		&cobra.Command{
			Use:   "status",
			Short: "Show the applied version and pending migrations",
			RunE: func(cmd *cobra.Command, _ []string) error {
				m, err := open()
				if err != nil {
					return err
				}
				defer m.Close()

				status, err := m.Status()
				if err != nil {
					return err
				}
				cmd.Printf("version %d (dirty: %t)\n", status.Version, status.Dirty)
				for _, p := range status.Pending {
					cmd.Printf("pending %03d  %s\n", p.Version, p.Name)
				}
				return nil
			},
		},
		&cobra.Command{
			Use:   "up",
			Short: "Apply every pending migration",
			RunE: func(cmd *cobra.Command, _ []string) error {
				m, err := open()
				if err != nil {
					return err
				}
				defer m.Close()
				return m.Up()
			},
		},
		&cobra.Command{
			Use:   "down",
			Short: "Roll back the latest migration",
			RunE: func(cmd *cobra.Command, _ []string) error {
				m, err := open()
				if err != nil {
					return err
				}
				defer m.Close()
				return m.Down()
			},
		},
		&cobra.Command{
			Use:   "force VERSION",
			Short: "Mark VERSION as applied and clear the dirty flag",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				version, err := strconv.Atoi(args[0])
				if err != nil {
					return err
				}
				m, err := open()
				if err != nil {
					return err
				}
				defer m.Close()
				return m.Force(version)
			},
		},
	)
	return cmd
}

func openMigrator(cfg *config.Config, log *zap.Logger) (*migrations.Migrator, error) {
	if cfg.Database.Driver != "postgres" {
		return nil, errNotPostgres
	}
	return migrations.New(cfg.GetMigrationURL(), log)
}
