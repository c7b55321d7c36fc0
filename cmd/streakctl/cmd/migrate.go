package cmd

import (
	"fmt"
	"text/tabwriter"

	"github.com/iackson05/streakd/internal/db"
	"github.com/spf13/cobra"
)

func MigrateCmd() *cobra.Command {
	migrateCmd := &cobra.Command{
		Use:   "migrate",
		Short: "Manage database migrations",
	}

	migrateCmd.AddCommand(&cobra.Command{
		Use:   "up",
		Short: "Apply all pending migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, database, err := openDatabase()
			if err != nil {
				return err
			}
			defer func() { _ = database.Close() }()

			return db.RunMigrations(cmd.Context(), database.DB, cfg.DBDriver)
		},
	})

	migrateCmd.AddCommand(&cobra.Command{
		Use:   "down",
		Short: "Roll back the most recent migration",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, database, err := openDatabase()
			if err != nil {
				return err
			}
			defer func() { _ = database.Close() }()

			return db.MigrateDown(cmd.Context(), database.DB, cfg.DBDriver)
		},
	})

	migrateCmd.AddCommand(&cobra.Command{
		Use:   "status",
		Short: "Show applied and pending migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, database, err := openDatabase()
			if err != nil {
				return err
			}
			defer func() { _ = database.Close() }()

			statuses, err := db.Status(cmd.Context(), database.DB, cfg.DBDriver)
			if err != nil {
				return err
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "VERSION\tSTATE\tPATH")
			for _, s := range statuses {
				state := "pending"
				if s.Applied {
					state = "applied"
				}
				fmt.Fprintf(w, "%d\t%s\t%s\n", s.Version, state, s.Path)
			}
			return w.Flush()
		},
	})

	return migrateCmd
}
