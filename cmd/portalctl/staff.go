package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/oksasatya/campus-events/internal/application"
	pginfra "github.com/oksasatya/campus-events/internal/infrastructure/postgres"
	"github.com/oksasatya/campus-events/pkg/helpers"
)

var staffCmd = &cobra.Command{
	Use:   "staff",
	Short: "Grant or revoke staff rights",
}

func setStaff(staff bool) func(cmd *cobra.Command, args []string) error {
	return func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()
		p, err := db(ctx)
		if err != nil {
			return err
		}
		rdb := helpers.NewRedisClient(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		defer func() { _ = rdb.Close() }()

		svc := application.NewUserService(pginfra.NewUserRepository(p), nil, rdb, nil, cfg, logger)
		for _, username := range args {
			u, err := svc.SetStaff(ctx, username, staff)
			if err != nil {
				return fmt.Errorf("%s: %w", username, err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s is_staff=%t (session cleared)\n", u.Username, u.IsStaff)
		}
		return nil
	}
}

var staffGrantCmd = &cobra.Command{
	Use:   "grant <username>...",
	Short: "Make users staff",
	Args:  cobra.MinimumNArgs(1),
	RunE:  setStaff(true),
}

var staffRevokeCmd = &cobra.Command{
	Use:   "revoke <username>...",
	Short: "Remove staff rights",
	Args:  cobra.MinimumNArgs(1),
	RunE:  setStaff(false),
}

func init() {
	staffCmd.AddCommand(staffGrantCmd)
	staffCmd.AddCommand(staffRevokeCmd)
}
