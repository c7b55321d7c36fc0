package cmd

import (
	"fmt"
	"time"

	"github.com/iackson05/streakd/internal/repository"
	"github.com/iackson05/streakd/internal/service"
	"github.com/spf13/cobra"
)

// RemindCmd is meant to run from a scheduler every few minutes.
func RemindCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "remind",
		Short: "Email owners whose goal streaks expire within four hours",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, database, err := openDatabase()
			if err != nil {
				return err
			}
			defer func() { _ = database.Close() }()

			emailService := service.NewEmailService(cfg.ResendAPIKey, cfg.EmailFrom, cfg.AppName, cfg.IsDevelopment())
			notifications := service.NewNotificationService(database, repository.NewNotificationRepository(database))
			reminders := service.NewReminderService(repository.NewGoalRepository(database), notifications, emailService)

			sent, err := reminders.SendDue(cmd.Context(), time.Now())
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "%d reminder(s) sent\n", sent)
			return nil
		},
	}
}
