package root

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dharmeshiPhone/RealCalender-sub003/internal/ui"
)

func newStatusCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show profile, quests, streak, and pets",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			s, cleanup, err := openSession(ctx)
			if err != nil {
				return err
			}
			defer cleanup()

			out := cmd.OutOrStdout()

			p := s.svc.Profile.Profile()
			xp, required := s.svc.Profile.XPProgress()
			fmt.Fprintln(out, ui.Heading(ui.IconSparkle, "Profile"))
			if p.Name != "" {
				fmt.Fprintln(out, ui.LabelValue("Name", p.Name))
			}
			fmt.Fprintln(out, ui.LabelValue("Level", p.Level))
			fmt.Fprintln(out, ui.LabelValue("XP", fmt.Sprintf("%.0f / %.0f", xp, required)))
			fmt.Fprintln(out, ui.LabelValue("Coins", fmt.Sprintf("%d %s", p.Coins, ui.IconCoin)))
			fmt.Fprintln(out, "")

			rec := s.svc.Streak.Record()
			fmt.Fprintln(out, ui.H2.Render(ui.IconStreak+" Streak"))
			fmt.Fprintf(out, "- current %d, longest %d, days logged %d\n",
				rec.CurrentStreak, rec.LongestStreak, rec.TotalDaysLogged)
			if rec.HasUsedFreeze {
				fmt.Fprintln(out, "- "+ui.Muted.Render("freeze used"))
			}
			if s.svc.Streak.ShouldShowPopup() {
				fmt.Fprintln(out, "- "+ui.Gold.Render("new streak!"))
				s.svc.Streak.MarkPopupShown()
			}
			fmt.Fprintln(out, "")

			batch := s.svc.Quests.CurrentBatch()
			fmt.Fprintln(out, ui.H2.Render(fmt.Sprintf("%s Quests (batch %d)", ui.IconQuest, batch)))
			quests := s.svc.Quests.Quests(batch)
			if len(quests) == 0 {
				fmt.Fprintln(out, ui.Muted.Render("- all batches complete"))
			}
			for _, q := range quests {
				mark := " "
				if q.IsCompleted() {
					mark = ui.IconDone
				}
				fmt.Fprintf(out, "- [%s] %s (%d/%d)\n", mark, q.Name, q.Completed, q.Required)
			}
			fmt.Fprintln(out, "")

			fmt.Fprintln(out, ui.H2.Render(ui.IconPet+" Pets"))
			for _, pet := range s.svc.Pets.Pets() {
				state, serr := s.svc.Pets.State(pet.ID)
				if serr != nil {
					return serr
				}
				fmt.Fprintf(out, "- %s (%s): %s, cost %d\n",
					pet.Name, pet.ID, ui.PetStateText(string(state)), pet.Cost)
			}
			fmt.Fprintln(out, "")

			fmt.Fprintln(out, ui.H2.Render(ui.IconTrophy+" Milestones"))
			for _, m := range s.svc.Achievements.Milestones() {
				fmt.Fprintf(out, "- %s: tier %d/%d\n", m.Name, m.Level, m.Tiers)
			}

			return nil
		},
	}
	return cmd
}
