package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/teemow/timewise/internal/availability"
	"github.com/teemow/timewise/internal/tools/scheduling_tools"
)

// slotView is the json and yaml shape of a slot.
type slotView struct {
	Start           time.Time `json:"start" yaml:"start"`
	End             time.Time `json:"end" yaml:"end"`
	DurationMinutes int       `json:"durationMinutes" yaml:"durationMinutes"`
	Score           *int      `json:"score,omitempty" yaml:"score,omitempty"`
	Reasons         []string  `json:"reasons,omitempty" yaml:"reasons,omitempty"`
}

type slotsResult struct {
	Total int        `json:"total" yaml:"total"`
	Slots []slotView `json:"slots" yaml:"slots"`
}

func viewSlot(s availability.Slot, loc *time.Location) slotView {
	return slotView{
		Start:           s.Start.In(loc),
		End:             s.End.In(loc),
		DurationMinutes: int(s.Duration.Minutes()),
	}
}

func newSlotsCmd() *cobra.Command {
	var (
		duration        int
		from, to        string
		hoursStart      int
		hoursEnd        int
		includeWeekends bool
		maxResults      int
	)

	cmd := &cobra.Command{
		Use:   "slots",
		Short: "List free slots of a given length",
		Long: `List free slots on a 30-minute grid inside working hours.

The range defaults to the next seven days. Times are RFC3339, e.g.
2025-01-06T09:00:00+01:00.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			sc, svc, err := accountServices(cmd.Context())
			if err != nil {
				return err
			}
			defer func() { _ = sc.Shutdown() }()

			start, end, err := parseRange(from, to, sc.Now())
			if err != nil {
				return err
			}

			req := availability.SlotRequest{
				Duration:        time.Duration(duration) * time.Minute,
				Range:           availability.TimeRange{Start: start, End: end},
				WorkingHours:    cfg.SlotWorkingHours(),
				IncludeWeekends: cfg.IncludeWeekends,
			}
			if cmd.Flags().Changed("working-hours-start") {
				req.WorkingHours.Start = hoursStart
			}
			if cmd.Flags().Changed("working-hours-end") {
				req.WorkingHours.End = hoursEnd
			}
			if cmd.Flags().Changed("include-weekends") {
				req.IncludeWeekends = includeWeekends
			}

			slots, err := svc.Engine.FindAvailableSlots(cmd.Context(), req)
			if err != nil {
				return err
			}

			total := len(slots)
			if maxResults > 0 && total > maxResults {
				slots = slots[:maxResults]
			}
			res := slotsResult{Total: total, Slots: make([]slotView, 0, len(slots))}
			for _, s := range slots {
				res.Slots = append(res.Slots, viewSlot(s, sc.Location()))
			}
			return render(cmd.OutOrStdout(), output, res, func() string {
				return scheduling_tools.FormatSlots(slots, total, sc.Location())
			})
		},
	}

	cmd.Flags().IntVarP(&duration, "duration", "d", 30, "Slot length in minutes")
	cmd.Flags().StringVar(&from, "from", "", "Start of the range (RFC3339, default: now)")
	cmd.Flags().StringVar(&to, "to", "", "End of the range (RFC3339, default: seven days after --from)")
	cmd.Flags().IntVar(&hoursStart, "working-hours-start", 0, "First hour a slot may start (default: working_hours.start)")
	cmd.Flags().IntVar(&hoursEnd, "working-hours-end", 0, "Hour at which slots may no longer start (default: working_hours.end)")
	cmd.Flags().BoolVar(&includeWeekends, "include-weekends", false, "Also search Saturdays and Sundays (default: include_weekends)")
	cmd.Flags().IntVarP(&maxResults, "max-results", "n", 0, "Maximum number of slots to print (0: all)")

	return cmd
}

func newOptimalCmd() *cobra.Command {
	var (
		duration       int
		daysAhead      int
		preferMornings bool
		avoidLunch     bool
		buffer         int
		preferredStart int
		preferredEnd   int
		maxResults     int
	)

	cmd := &cobra.Command{
		Use:   "optimal",
		Short: "Rank the free slots of the coming days by productivity score",
		RunE: func(cmd *cobra.Command, args []string) error {
			sc, svc, err := accountServices(cmd.Context())
			if err != nil {
				return err
			}
			defer func() { _ = sc.Shutdown() }()

			prefs := cfg.DefaultPreferences()
			flags := cmd.Flags()
			if flags.Changed("prefer-mornings") {
				prefs.PreferMornings = preferMornings
			}
			if flags.Changed("avoid-lunch") {
				prefs.AvoidLunchTime = avoidLunch
			}
			if flags.Changed("buffer") {
				prefs.BufferBetweenMeetings = time.Duration(buffer) * time.Minute
			}
			if flags.Changed("preferred-start") != flags.Changed("preferred-end") {
				return fmt.Errorf("--preferred-start and --preferred-end must be given together")
			}
			if flags.Changed("preferred-start") {
				prefs.PreferredHours = &availability.HourRange{Start: preferredStart, End: preferredEnd}
			}

			ranked, err := svc.Engine.FindOptimalSlots(cmd.Context(), availability.OptimalRequest{
				Duration:    time.Duration(duration) * time.Minute,
				DaysAhead:   daysAhead,
				Preferences: prefs,
			})
			if err != nil {
				return err
			}

			total := len(ranked)
			if maxResults > 0 && total > maxResults {
				ranked = ranked[:maxResults]
			}
			res := slotsResult{Total: total, Slots: make([]slotView, 0, len(ranked))}
			for _, s := range ranked {
				view := viewSlot(s.Slot, sc.Location())
				view.Score = &s.Score
				view.Reasons = s.Reasons
				res.Slots = append(res.Slots, view)
			}
			return render(cmd.OutOrStdout(), output, res, func() string {
				return scheduling_tools.FormatScoredSlots(ranked, total, sc.Location())
			})
		},
	}

	cmd.Flags().IntVarP(&duration, "duration", "d", 30, "Meeting duration in minutes")
	cmd.Flags().IntVar(&daysAhead, "days-ahead", availability.DefaultDaysAhead, "How many days ahead to search")
	cmd.Flags().BoolVar(&preferMornings, "prefer-mornings", false, "Prefer morning slots (default: preferences.prefer_mornings)")
	cmd.Flags().BoolVar(&avoidLunch, "avoid-lunch", true, "Penalize slots starting at lunch time (default: preferences.avoid_lunch_time)")
	cmd.Flags().IntVar(&buffer, "buffer", 15, "Minimum gap around meetings in minutes (default: preferences.buffer_minutes)")
	cmd.Flags().IntVar(&preferredStart, "preferred-start", 0, "Start of the preferred hours")
	cmd.Flags().IntVar(&preferredEnd, "preferred-end", 0, "End of the preferred hours")
	cmd.Flags().IntVarP(&maxResults, "max-results", "n", 5, "Number of top slots to print (0: all)")

	return cmd
}

// parseRange resolves the --from and --to flags. Empty values mean now and
// seven days later.
func parseRange(from, to string, now time.Time) (time.Time, time.Time, error) {
	start := now
	if from != "" {
		t, err := time.Parse(time.RFC3339, from)
		if err != nil {
			return time.Time{}, time.Time{}, fmt.Errorf("invalid --from: %w", err)
		}
		start = t
	}
	end := start.AddDate(0, 0, availability.DefaultDaysAhead)
	if to != "" {
		t, err := time.Parse(time.RFC3339, to)
		if err != nil {
			return time.Time{}, time.Time{}, fmt.Errorf("invalid --to: %w", err)
		}
		end = t
	}
	return start, end, nil
}
