package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/teemow/timewise/internal/analytics"
	"github.com/teemow/timewise/internal/tools/scheduling_tools"
)

func newReportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "report",
		Short: "Meeting load reports",
		Long:  `Summarize meeting load for the current week or month, compare weeks and analyze meeting patterns.`,
	}

	cmd.AddCommand(
		reportSubcommand("weekly", "Report on the current week (Monday to Sunday)",
			func(ctx context.Context, r *analytics.Reporter) (interface{}, func() string, error) {
				rep, err := r.WeeklyReport(ctx)
				if err != nil {
					return nil, nil, err
				}
				return rep, func() string { return scheduling_tools.FormatReport("Weekly meeting report", rep) }, nil
			}),
		reportSubcommand("monthly", "Report on the current month with a weekly breakdown",
			func(ctx context.Context, r *analytics.Reporter) (interface{}, func() string, error) {
				rep, err := r.MonthlyReport(ctx)
				if err != nil {
					return nil, nil, err
				}
				return rep, func() string { return scheduling_tools.FormatMonthlyReport(rep) }, nil
			}),
		reportSubcommand("week-over-week", "Compare the number of meetings with last week",
			func(ctx context.Context, r *analytics.Reporter) (interface{}, func() string, error) {
				cmp, err := r.WeekOverWeek(ctx)
				if err != nil {
					return nil, nil, err
				}
				return cmp, func() string { return scheduling_tools.FormatWeekComparison(cmp) }, nil
			}),
		reportSubcommand("focus-saved", "Hours of focus time blocks this week",
			func(ctx context.Context, r *analytics.Reporter) (interface{}, func() string, error) {
				hours, err := r.FocusTimeSaved(ctx)
				if err != nil {
					return nil, nil, err
				}
				value := map[string]float64{"hoursSaved": hours}
				return value, func() string { return fmt.Sprintf("%.1f hours protected for focus time this week\n", hours) }, nil
			}),
		reportSubcommand("patterns", "Analyze the meetings of the last 30 days",
			func(ctx context.Context, r *analytics.Reporter) (interface{}, func() string, error) {
				p, err := r.AnalyzePatterns(ctx)
				if err != nil {
					return nil, nil, err
				}
				return p, func() string { return scheduling_tools.FormatPatterns(p) }, nil
			}),
	)

	return cmd
}

type reportFunc func(ctx context.Context, r *analytics.Reporter) (interface{}, func() string, error)

func reportSubcommand(use, short string, run reportFunc) *cobra.Command {
	return &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			sc, svc, err := accountServices(cmd.Context())
			if err != nil {
				return err
			}
			defer func() { _ = sc.Shutdown() }()

			value, text, err := run(cmd.Context(), svc.Reporter)
			if err != nil {
				return err
			}
			return render(cmd.OutOrStdout(), output, value, text)
		},
	}
}
