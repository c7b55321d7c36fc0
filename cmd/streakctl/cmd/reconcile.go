package cmd

import (
	"fmt"

	"github.com/iackson05/streakd/internal/model"
	"github.com/iackson05/streakd/internal/repository"
	"github.com/iackson05/streakd/internal/service"
	"github.com/spf13/cobra"
)

func ReconcileCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "reconcile",
		Short: "Recompute post reaction counters from reaction rows",
		RunE: func(cmd *cobra.Command, args []string) error {
			_, database, err := openDatabase()
			if err != nil {
				return err
			}
			defer func() { _ = database.Close() }()

			reactions := service.NewReactionService(
				database,
				repository.NewPostRepository(database),
				repository.NewReactionRepository(database),
			)

			results, err := reactions.Reconcile(cmd.Context())
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			for _, r := range results {
				fmt.Fprintf(out, "%s: %s -> %s\n", r.PostID, formatCounts(r.Before), formatCounts(r.After))
			}
			fmt.Fprintf(out, "%d post(s) repaired\n", len(results))
			return nil
		},
	}
}

func formatCounts(c model.ReactionCounts) string {
	return fmt.Sprintf("%s%d %s%d %s%d %s%d",
		model.EmojiFire, c.Fire,
		model.EmojiFist, c.Fist,
		model.EmojiParty, c.Party,
		model.EmojiHeart, c.Heart,
	)
}
