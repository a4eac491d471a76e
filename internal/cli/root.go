// Package cli implements plannerctl, the operator tool for the planner
// service
package cli

import (
	"github.com/spf13/cobra"
	"github.com/weeklydish/planner/internal/infrastructure/config"
	"github.com/weeklydish/planner/pkg/logger"
	"go.uber.org/zap"
)

// NewRootCommand builds the command tree
func NewRootCommand(version string) *cobra.Command {
	var configPath string

	root := &cobra.Command{
		Use:           "plannerctl",
		Short:         "Operate the weeklydish planner",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVarP(&configPath, "config", "c", "", "config file (default: config.yaml in ., ./config or /etc/weeklydish)")

	load := func() (*config.Config, *zap.Logger, error) {
		cfg, err := config.Load(configPath)
		if err != nil {
			return nil, nil, err
		}
		log, err := logger.New(logger.Config{Level: "warn", Format: "console"})
		if err != nil {
			return nil, nil, err
		}
		return cfg, log, nil
	}

	root.AddCommand(
		newTokenCmd(load),
		newMigrateCmd(load),
		newSeedCmd(load),
		newHealthCmd(),
	)
	return root
}

type loader func() (*config.Config, *zap.Logger, error)
