package root

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dharmeshiPhone/RealCalender-sub003/internal/ui"
)

func newQuestCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "quest",
		Short: "Inspect and drive quests",
	}
	cmd.AddCommand(newQuestDoCmd(), newQuestListCmd())
	return cmd
}

func newQuestDoCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "do <name>",
		Short: "Record one completion for a quest of the active batch",
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) != 1 {
				return errors.New("quest name is required")
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			s, cleanup, err := openSession(ctx)
			if err != nil {
				return err
			}
			defer cleanup()
			defer s.announceLevelUps(cmd)()

			s.svc.Quests.CompleteQuest(ctx, args[0])
			return printQuests(cmd, s)
		},
	}
}

func newQuestListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List quests of the active batch",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			s, cleanup, err := openSession(ctx)
			if err != nil {
				return err
			}
			defer cleanup()

			return printQuests(cmd, s)
		},
	}
}

func printQuests(cmd *cobra.Command, s *session) error {
	out := cmd.OutOrStdout()
	batch := s.svc.Quests.CurrentBatch()
	fmt.Fprintln(out, ui.Heading(ui.IconQuest, fmt.Sprintf("Batch %d", batch)))
	for _, q := range s.svc.Quests.Quests(batch) {
		mark := " "
		if q.IsCompleted() {
			mark = ui.IconDone
		}
		fmt.Fprintf(out, "- [%s] %s (%d/%d)\n", mark, q.Name, q.Completed, q.Required)
	}
	return nil
}
