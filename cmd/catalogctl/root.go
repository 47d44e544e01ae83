package main

import (
	"context"
	"fmt"
	"time"

	"storefront/internal/config"
	"storefront/internal/logger"
	"storefront/internal/repository"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// app carries what every subcommand needs once the root has run
type app struct {
	envFile string
	timeout time.Duration
	cfg     *config.Config
	log     *zap.Logger
}

func newRootCmd() *cobra.Command {
	a := &app{}

	cmd := &cobra.Command{
		Use:           "catalogctl",
		Short:         "Operate the storefront catalog store",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if a.envFile != "" {
				if err := godotenv.Load(a.envFile); err != nil {
					return fmt.Errorf("failed to load env file %s: %w", a.envFile, err)
				}
			}

			a.cfg = config.Load()
			log, err := logger.New(a.cfg.Server.Env, a.cfg.Server.LogLevel)
			if err != nil {
				return fmt.Errorf("failed to initialize logger: %w", err)
			}
			a.log = log
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if a.log != nil {
				_ = a.log.Sync()
			}
		},
	}

	cmd.PersistentFlags().StringVar(&a.envFile, "env-file", "", "load environment variables from this file before reading config")
	cmd.PersistentFlags().DurationVar(&a.timeout, "timeout", 5*time.Minute, "overall deadline for the command")

	cmd.AddCommand(
		newMigrateCmd(a),
		newSeedCmd(a),
		newDeleteProductCmd(a),
	)

	return cmd
}

// withStore opens the configured store for the duration of fn
func (a *app) withStore(parent context.Context, fn func(ctx context.Context, store *repository.Store) error) error {
	ctx, cancel := context.WithTimeout(parent, a.timeout)
	defer cancel()

	store, err := repository.OpenStore(ctx, a.cfg, a.log)
	if err != nil {
		return err
	}
	defer func() {
		if err := store.Close(context.Background()); err != nil {
			a.log.Error("Failed to close store", zap.Error(err))
		}
	}()

	return fn(ctx, store)
}
