package root

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/dharmeshiPhone/RealCalender-sub003/internal/event"
	"github.com/dharmeshiPhone/RealCalender-sub003/internal/ui"
)

// The commands below stand in for the app layers that normally publish
// its signals: the calendar reporter, the graph editor, and the
// daily-summary screen.

func countArg(args []string) (int, error) {
	if len(args) != 1 {
		return 0, errors.New("a running total is required")
	}
	n, err := strconv.Atoi(args[0])
	if err != nil || n < 0 {
		return 0, errors.New("total must be a non-negative integer")
	}
	return n, nil
}

func newLogCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "log <total>",
		Short: "Report the running total of logged calendar events",
		RunE: func(cmd *cobra.Command, args []string) error {
			total, err := countArg(args)
			if err != nil {
				return err
			}
			ctx := context.Background()
			s, cleanup, err := openSession(ctx)
			if err != nil {
				return err
			}
			defer cleanup()
			defer s.announceLevelUps(cmd)()

			s.bus.Publish(event.TypeCalendarEventCount, event.CalendarCountPayload{Total: total})
			return printQuests(cmd, s)
		},
	}
}

func newSchedCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "sched <total>",
		Short: "Report the running total of completed scheduled events",
		RunE: func(cmd *cobra.Command, args []string) error {
			total, err := countArg(args)
			if err != nil {
				return err
			}
			ctx := context.Background()
			s, cleanup, err := openSession(ctx)
			if err != nil {
				return err
			}
			defer cleanup()
			defer s.announceLevelUps(cmd)()

			s.bus.Publish(event.TypeScheduledEventCount, event.CalendarCountPayload{Total: total})
			return printQuests(cmd, s)
		},
	}
}

func newGraphCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "graph <field>",
		Short: "Report a filled-in profile graph field",
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) != 1 {
				return errors.New("field name is required")
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

			s.bus.Publish(event.TypeGraphUpdated, event.GraphUpdatedPayload{Field: args[0]})
			return printQuests(cmd, s)
		},
	}
}

func newSummaryCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "summary",
		Short: "Report a daily-summary view",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			s, cleanup, err := openSession(ctx)
			if err != nil {
				return err
			}
			defer cleanup()
			defer s.announceLevelUps(cmd)()

			s.bus.Publish(event.TypeDailySummaryViewed, nil)
			rec := s.svc.Streak.Record()
			fmt.Fprintln(cmd.OutOrStdout(),
				ui.LabelValue("Streak", fmt.Sprintf("%d %s", rec.CurrentStreak, ui.IconStreak)))
			return nil
		},
	}
}
