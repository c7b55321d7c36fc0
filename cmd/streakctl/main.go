package main

import (
	"os"

	"github.com/iackson05/streakd/cmd/streakctl/cmd"

	"github.com/spf13/cobra"
)

func main() {
	rootCmd := &cobra.Command{
		Use:          "streakctl",
		Short:        "Maintenance tools for streakd",
		SilenceUsage: true,
	}

	rootCmd.AddCommand(cmd.MigrateCmd())
	rootCmd.AddCommand(cmd.ReconcileCmd())
	rootCmd.AddCommand(cmd.RemindCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
