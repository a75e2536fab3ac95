package root

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dharmeshiPhone/RealCalender-sub003/internal/ui"
)

func newStreakCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "streak",
		Short: "Show the daily streak",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			s, cleanup, err := openSession(ctx)
			if err != nil {
				return err
			}
			defer cleanup()

			out := cmd.OutOrStdout()
			rec := s.svc.Streak.Record()
			fmt.Fprintln(out, ui.Heading(ui.IconStreak, "Streak"))
			fmt.Fprintln(out, ui.LabelValue("Current", rec.CurrentStreak))
			fmt.Fprintln(out, ui.LabelValue("Longest", rec.LongestStreak))
			fmt.Fprintln(out, ui.LabelValue("Days logged", rec.TotalDaysLogged))
			if rec.LastLoginDate != nil {
				fmt.Fprintln(out, ui.LabelValue("Last activity", rec.LastLoginDate.Format("2006-01-02")))
			}
			if rec.HasUsedFreeze {
				fmt.Fprintln(out, ui.Muted.Render("freeze used"))
			}
			if s.svc.Streak.ShouldShowPopup() {
				fmt.Fprintln(out, ui.Gold.Render("new streak!"))
				s.svc.Streak.MarkPopupShown()
			}
			return nil
		},
	}
}
