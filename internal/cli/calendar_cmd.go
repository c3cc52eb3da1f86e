package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/taskasaurus/taskrex/internal/calendar"
	"github.com/taskasaurus/taskrex/internal/cli/formatter"
	"github.com/taskasaurus/taskrex/internal/domain"
)

func newCalendarCmd(a *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "calendar",
		Aliases: []string{"cal"},
		Short:   "Calendar views of tasks by due date",
	}

	cmd.AddCommand(
		newCalendarTodayCmd(a),
		newCalendarDayCmd(a),
		newCalendarWeekCmd(a),
		newCalendarMonthCmd(a),
		newCalendarRangeCmd(a),
		newCalendarStatsCmd(a),
	)

	return cmd
}

func newCalendarTodayCmd(a *App) *cobra.Command {
	return &cobra.Command{
		Use:   "today",
		Short: "Tasks due today",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			view, err := a.Calendar.Today(cmd.Context())
			if err != nil {
				return err
			}
			return a.render(cmd, view, func() string {
				return formatter.FormatDay(view, a.now())
			})
		},
	}
}

func newCalendarDayCmd(a *App) *cobra.Command {
	return &cobra.Command{
		Use:   "day DATE",
		Short: "Tasks due on one day",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			date, err := calendar.ParseDate("date", args[0], a.location())
			if err != nil {
				return err
			}
			view, err := a.Calendar.Day(cmd.Context(), date)
			if err != nil {
				return err
			}
			return a.render(cmd, view, func() string {
				return formatter.FormatDay(view, a.now())
			})
		},
	}
}

func newCalendarWeekCmd(a *App) *cobra.Command {
	return &cobra.Command{
		Use:   "week [DATE]",
		Short: "The Monday-to-Sunday week containing DATE (default today)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			date := a.now().In(a.location())
			if len(args) == 1 {
				d, err := calendar.ParseDate("date", args[0], a.location())
				if err != nil {
					return err
				}
				date = d
			}
			view, err := a.Calendar.Week(cmd.Context(), date)
			if err != nil {
				return err
			}
			return a.render(cmd, view, func() string {
				return formatter.FormatWeek(view)
			})
		},
	}
}

func newCalendarMonthCmd(a *App) *cobra.Command {
	return &cobra.Command{
		Use:   "month [YEAR MONTH]",
		Short: "A month grid with due-task counts (default this month)",
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) != 0 && len(args) != 2 {
				return fmt.Errorf("expected no arguments or YEAR MONTH, got %d argument(s)", len(args))
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			now := a.now().In(a.location())
			year, month := now.Year(), int(now.Month())
			if len(args) == 2 {
				var err error
				if year, err = strconv.Atoi(args[0]); err != nil {
					return domain.Invalid("year", "must be an integer (got %q)", args[0])
				}
				if month, err = strconv.Atoi(args[1]); err != nil {
					return domain.Invalid("month", "must be an integer (got %q)", args[1])
				}
			}
			view, err := a.Calendar.Month(cmd.Context(), year, month)
			if err != nil {
				return err
			}
			return a.render(cmd, view, func() string {
				return formatter.FormatMonth(view, a.location())
			})
		},
	}
}

func newCalendarRangeCmd(a *App) *cobra.Command {
	groupBy := groupByFlag()

	cmd := &cobra.Command{
		Use:   "range START END",
		Short: "Tasks due between two dates, grouped by day, week or month",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			start, end, err := parseDatePair(a, args)
			if err != nil {
				return err
			}
			view, err := a.Calendar.Range(cmd.Context(), start, end, groupBy.String())
			if err != nil {
				return err
			}
			return a.render(cmd, view, func() string {
				return formatter.FormatRange(view)
			})
		},
	}
	cmd.Flags().VarP(groupBy, "group-by", "g", "day, week or month (default day)")
	return cmd
}

func newCalendarStatsCmd(a *App) *cobra.Command {
	return &cobra.Command{
		Use:   "stats START END",
		Short: "Tasks created and completed per day",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			start, end, err := parseDatePair(a, args)
			if err != nil {
				return err
			}
			view, err := a.Calendar.Stats(cmd.Context(), start, end)
			if err != nil {
				return err
			}
			return a.render(cmd, view, func() string {
				return formatter.FormatStats(view)
			})
		},
	}
}
