package cmd

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/teemow/timewise/internal/focustime"
	"github.com/teemow/timewise/internal/tools/scheduling_tools"
)

type focusFlags struct {
	start int
	end   int
	days  []int
	weeks int
}

func (f *focusFlags) register(cmd *cobra.Command) {
	cmd.Flags().IntVar(&f.start, "start", 9, "Start hour of each block")
	cmd.Flags().IntVar(&f.end, "end", 11, "End hour of each block")
	cmd.Flags().IntSliceVar(&f.days, "days", []int{1, 2, 3, 4, 5}, "Days of week (0=Sunday, 1=Monday, etc.)")
	cmd.Flags().IntVar(&f.weeks, "weeks", focustime.DefaultWeeksAhead, "Number of weeks to plan")
}

func (f *focusFlags) config() focustime.Config {
	cfg := focustime.Config{StartHour: f.start, EndHour: f.end}
	for _, d := range f.days {
		cfg.DaysOfWeek = append(cfg.DaysOfWeek, time.Weekday(d))
	}
	return cfg
}

func newFocusCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "focus",
		Short: "Recurring focus time blocks",
	}
	cmd.AddCommand(newFocusPlanCmd(), newFocusSetupCmd())
	return cmd
}

func newFocusPlanCmd() *cobra.Command {
	var flags focusFlags

	cmd := &cobra.Command{
		Use:   "plan",
		Short: "Show the focus blocks setup would create, without writing",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			sc, svc, err := accountServices(cmd.Context())
			if err != nil {
				return err
			}
			defer func() { _ = sc.Shutdown() }()

			blocks, err := svc.Planner.Blocks(flags.config(), flags.weeks)
			if err != nil {
				return err
			}
			return render(cmd.OutOrStdout(), output, blocks, func() string {
				var b strings.Builder
				fmt.Fprintf(&b, "%d focus block(s):\n", len(blocks))
				for _, w := range blocks {
					fmt.Fprintf(&b, "  %s - %s\n",
						w.Start.In(sc.Location()).Format("Mon 2006-01-02 15:04"),
						w.End.In(sc.Location()).Format("15:04"))
				}
				return b.String()
			})
		},
	}
	flags.register(cmd)
	return cmd
}

func newFocusSetupCmd() *cobra.Command {
	var flags focusFlags

	cmd := &cobra.Command{
		Use:   "setup",
		Short: "Create focus time blocks in every free window",
		Long: `Create "Focus Time - Do Not Book" events on the selected weekdays.
Windows that already contain an event are skipped. Requires a calendar
source that supports writing (google).`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			sc, svc, err := accountServices(cmd.Context())
			if err != nil {
				return err
			}
			defer func() { _ = sc.Shutdown() }()

			res, err := svc.Planner.Setup(cmd.Context(), flags.config(), flags.weeks)
			if err != nil {
				return err
			}
			return render(cmd.OutOrStdout(), output, res, func() string {
				return scheduling_tools.FormatFocusResult(res, sc.Location())
			})
		},
	}
	flags.register(cmd)
	return cmd
}
