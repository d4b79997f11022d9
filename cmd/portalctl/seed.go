package main

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/oksasatya/campus-events/internal/domain/entity"
	"github.com/oksasatya/campus-events/internal/domain/repository"
	pginfra "github.com/oksasatya/campus-events/internal/infrastructure/postgres"
	"github.com/oksasatya/campus-events/pkg/helpers"
)

// sampleEvents is the demo catalog, dated relative to now so it stays upcoming.
func sampleEvents(now time.Time) []entity.Event {
	day := func(n, hour int) time.Time {
		d := now.AddDate(0, 0, n)
		return time.Date(d.Year(), d.Month(), d.Day(), hour, 0, 0, 0, time.UTC)
	}
	return []entity.Event{
		{Title: "Intro to Machine Learning", Description: "Guest lecture on supervised learning basics.", Date: day(7, 10), Venue: "Seminar Hall A", Category: entity.CategorySeminar, Capacity: 120},
		{Title: "Cloud Careers Panel", Description: "Alumni talk about working in cloud infrastructure.", Date: day(9, 14), Venue: "Seminar Hall B", Category: entity.CategorySeminar, Capacity: 80},
		{Title: "Arduino Hands-on Workshop", Description: "Build a sensor board in three hours.", Date: day(10, 9), Venue: "ECE Lab 2", Category: entity.CategoryWorkshop, Capacity: 40},
		{Title: "Git and GitHub Workshop", Description: "Branching, pull requests and code review.", Date: day(12, 11), Venue: "CSE Lab 1", Category: entity.CategoryWorkshop, Capacity: 60},
		{Title: "Cultural Night", Description: "Music, dance and drama by the student clubs.", Date: day(14, 18), Venue: "Open Air Theatre", Category: entity.CategoryCultural, Capacity: 500},
		{Title: "Inter-branch Cricket Final", Description: "CSE vs MECH.", Date: day(16, 8), Venue: "Main Ground", Category: entity.CategorySports, Capacity: 300},
	}
}

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Insert demo events and an optional staff account",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()
		username, _ := cmd.Flags().GetString("staff-username")
		password, _ := cmd.Flags().GetString("staff-password")
		email, _ := cmd.Flags().GetString("staff-email")

		p, err := db(ctx)
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()

		events := pginfra.NewEventRepository(p)
		stats, err := events.Stats(ctx)
		if err != nil {
			return err
		}
		if stats.TotalEvents > 0 {
			fmt.Fprintf(out, "catalog already has %d events, skipping\n", stats.TotalEvents)
		} else {
			for _, e := range sampleEvents(time.Now()) {
				e := e
				if err := events.Create(ctx, &e); err != nil {
					return fmt.Errorf("seed event %q: %w", e.Title, err)
				}
				fmt.Fprintf(out, "seeded event id=%d title=%q\n", e.ID, e.Title)
			}
		}

		if username == "" {
			return nil
		}
		if password == "" {
			return errors.New("--staff-password is required with --staff-username")
		}
		hash, err := helpers.HashPassword(password)
		if err != nil {
			return fmt.Errorf("hash password: %w", err)
		}
		users := pginfra.NewUserRepository(p)
		u := &entity.User{Username: username, Email: email, Password: hash, IsStaff: true}
		switch err := users.Create(ctx, u); {
		case errors.Is(err, repository.ErrUsernameTaken):
			fmt.Fprintf(out, "user %s already exists, use `portalctl staff grant %s`\n", username, username)
		case err != nil:
			return fmt.Errorf("seed staff: %w", err)
		default:
			fmt.Fprintf(out, "seeded staff user id=%s username=%s\n", u.ID, u.Username)
		}
		return nil
	},
}

func init() {
	seedCmd.Flags().String("staff-username", "", "also create a staff account with this username")
	seedCmd.Flags().String("staff-password", "", "password of the staff account")
	seedCmd.Flags().String("staff-email", "", "email of the staff account")
}
