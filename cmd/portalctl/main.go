package main

import (
	"context"
	"fmt"
	"os"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/oksasatya/campus-events/config"
	pginfra "github.com/oksasatya/campus-events/internal/infrastructure/postgres"
	"github.com/oksasatya/campus-events/pkg/helpers"
)

var (
	cfg     *config.Config
	logger  *logrus.Logger
	verbose bool

	pool *pgxpool.Pool
)

var rootCmd = &cobra.Command{
	Use:   "portalctl",
	Short: "Admin tasks for the campus events portal",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		_ = godotenv.Load()
		cfg = config.Load()
		if verbose {
			logger = helpers.NewLogger(cfg.AppName+"-ctl", "development")
		} else {
			logger = helpers.NewDiscardLogger()
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if pool != nil {
			pool.Close()
		}
	},
	SilenceUsage: true,
}

// db opens the pool on first use.
func db(ctx context.Context) (*pgxpool.Pool, error) {
	if pool != nil {
		return pool, nil
	}
	p, err := pginfra.NewPool(ctx, cfg.PostgresDSN(), cfg.DBMaxConns, cfg.DBMinConns, cfg.DBMaxConnLife)
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}
	pool = p
	return pool, nil
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log to stdout")

	rootCmd.AddCommand(migrateCmd)
	rootCmd.AddCommand(seedCmd)
	rootCmd.AddCommand(staffCmd)
	rootCmd.AddCommand(reindexCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
