package analytics

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/teemow/timewise/internal/calendar"
)

// NoMeetings is the busiest day of an empty period.
const NoMeetings = "No meetings"

// Report summarizes the meetings of one period.
type Report struct {
	Start                  time.Time              `json:"start" yaml:"start"`
	End                    time.Time              `json:"end" yaml:"end"`
	TotalMeetingHours      float64                `json:"totalMeetingHours" yaml:"totalMeetingHours"`
	MeetingCount           int                    `json:"meetingCount" yaml:"meetingCount"`
	AverageMeetingDuration int                    `json:"averageMeetingDuration" yaml:"averageMeetingDuration"`
	PercentageOfWorkTime   float64                `json:"percentageOfWorkTime" yaml:"percentageOfWorkTime"`
	BusiestDay             string                 `json:"busiestDay" yaml:"busiestDay"`
	LongestMeeting         *calendar.EventSummary `json:"longestMeeting,omitempty" yaml:"longestMeeting,omitempty"`
	MeetingsByDay          map[string]int         `json:"meetingsByDay" yaml:"meetingsByDay"`
	MeetingsByType         map[string]int         `json:"meetingsByType" yaml:"meetingsByType"`
	Recommendations        []string               `json:"recommendations" yaml:"recommendations"`
}

// WeekSummary is one row of a monthly breakdown.
type WeekSummary struct {
	Week         string    `json:"week" yaml:"week"`
	Start        time.Time `json:"start" yaml:"start"`
	MeetingCount int       `json:"meetingCount" yaml:"meetingCount"`
	TotalHours   float64   `json:"totalHours" yaml:"totalHours"`
}

// MonthlyReport adds a per-week breakdown to a Report.
type MonthlyReport struct {
	Report          `yaml:",inline"`
	WeeklyBreakdown []WeekSummary `json:"weeklyBreakdown" yaml:"weeklyBreakdown"`
}

// WeekComparison compares meeting counts of this week and the last.
type WeekComparison struct {
	CurrentWeek   int     `json:"currentWeek" yaml:"currentWeek"`
	PreviousWeek  int     `json:"previousWeek" yaml:"previousWeek"`
	Change        int     `json:"change" yaml:"change"`
	ChangePercent float64 `json:"changePercent" yaml:"changePercent"`
}

// WeeklyReport covers the current Monday to Sunday week.
func (r *Reporter) WeeklyReport(ctx context.Context) (*Report, error) {
	start := r.weekStart(r.now())
	end := start.AddDate(0, 0, 7)
	events, err := r.meetings(ctx, start, end)
	if err != nil {
		return nil, err
	}
	return buildReport(events, start, end, WeeklyWorkHours, r.loc), nil
}

// MonthlyReport covers the current calendar month.
func (r *Reporter) MonthlyReport(ctx context.Context) (*MonthlyReport, error) {
	start := r.monthStart(r.now())
	end := start.AddDate(0, 1, 0)

	// One read covers the month and the weeks overlapping its edges.
	firstWeek := r.weekStart(start)
	lastWeekEnd := r.weekStart(end.Add(-time.Nanosecond)).AddDate(0, 0, 7)
	events, err := r.meetings(ctx, firstWeek, lastWeekEnd)
	if err != nil {
		return nil, err
	}

	var inMonth []calendar.EventSummary
	for _, ev := range events {
		if ev.Start.Before(end) && ev.End.After(start) {
			inMonth = append(inMonth, ev)
		}
	}

	report := &MonthlyReport{Report: *buildReport(inMonth, start, end, MonthlyWorkHours, r.loc)}
	for week := firstWeek; week.Before(end); week = week.AddDate(0, 0, 7) {
		weekEnd := week.AddDate(0, 0, 7)
		row := WeekSummary{Week: "Week of " + week.Format("Jan 2"), Start: week}
		total := 0
		for _, ev := range events {
			if ev.Start.Before(weekEnd) && ev.End.After(week) {
				row.MeetingCount++
				total += minutes(ev)
			}
		}
		row.TotalHours = round1(float64(total) / 60)
		report.WeeklyBreakdown = append(report.WeeklyBreakdown, row)
	}
	return report, nil
}

// WeekOverWeek compares the number of meetings this week with last week.
func (r *Reporter) WeekOverWeek(ctx context.Context) (*WeekComparison, error) {
	current := r.weekStart(r.now())
	previous := current.AddDate(0, 0, -7)

	var cur, prev []calendar.EventSummary
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		cur, err = r.meetings(gctx, current, current.AddDate(0, 0, 7))
		return err
	})
	g.Go(func() error {
		var err error
		prev, err = r.meetings(gctx, previous, current)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	cmp := &WeekComparison{
		CurrentWeek:  len(cur),
		PreviousWeek: len(prev),
		Change:       len(cur) - len(prev),
	}
	if cmp.PreviousWeek > 0 {
		cmp.ChangePercent = round1(float64(cmp.Change) / float64(cmp.PreviousWeek) * 100)
	}
	return cmp, nil
}

// FocusTimeSaved returns the hours of focus blocks in the current week.
func (r *Reporter) FocusTimeSaved(ctx context.Context) (float64, error) {
	start := r.weekStart(r.now())
	events, err := r.meetings(ctx, start, start.AddDate(0, 0, 7))
	if err != nil {
		return 0, err
	}
	total := 0
	for _, ev := range events {
		if isFocusBlock(ev.Summary) {
			total += minutes(ev)
		}
	}
	return round1(float64(total) / 60), nil
}

func buildReport(events []calendar.EventSummary, start, end time.Time, workHours float64, loc *time.Location) *Report {
	rep := &Report{
		Start:          start,
		End:            end,
		MeetingCount:   len(events),
		MeetingsByDay:  make(map[string]int),
		MeetingsByType: make(map[string]int),
		BusiestDay:     NoMeetings,
	}

	totalMinutes, longest := 0, -1
	var byWeekday [7]int
	for i, ev := range events {
		m := minutes(ev)
		totalMinutes += m
		if m > longest {
			longest = m
			rep.LongestMeeting = &events[i]
		}
		day := ev.Start.In(loc).Weekday()
		byWeekday[day]++
		rep.MeetingsByDay[day.String()]++
		rep.MeetingsByType[Categorize(ev.Summary)]++
	}

	// Busiest day ties go to the earlier day of the week, Monday first.
	best := 0
	for i := 1; i <= 7; i++ {
		day := time.Weekday(i % 7)
		if byWeekday[day] > best {
			best = byWeekday[day]
			rep.BusiestDay = day.String()
		}
	}

	hours := float64(totalMinutes) / 60
	percent := hours / workHours * 100
	rep.TotalMeetingHours = round1(hours)
	rep.PercentageOfWorkTime = round1(percent)
	if len(events) > 0 {
		rep.AverageMeetingDuration = int(float64(totalMinutes)/float64(len(events)) + 0.5)
	}
	rep.Recommendations = reportRecommendations(hours, percent, len(events), best, rep.MeetingsByType[CategoryStandups])
	return rep
}

func reportRecommendations(hours, percent float64, count, busiest, standups int) []string {
	var recs []string
	switch {
	case percent > 50:
		recs = append(recs, fmt.Sprintf("Critical: You spend %.0f%% of time in meetings (industry avg: 31%%). Consider declining non-essential meetings.", percent))
	case percent > 40:
		recs = append(recs, fmt.Sprintf("You spend %.0f%% of time in meetings (industry avg: 31%%). Try to reduce by 20%%.", percent))
	}
	if count > 25 {
		recs = append(recs, "High meeting count detected. Consider batching meetings on specific days to create full days for deep work.")
	}
	if hours > 20 {
		recs = append(recs, "Block at least one full day per week as meeting-free for focused work.")
	}
	if busiest > 6 {
		recs = append(recs, fmt.Sprintf("Your busiest day has %d meetings. Try to redistribute across the week.", busiest))
	}
	if standups > 10 {
		recs = append(recs, "Consider reducing standup frequency or duration.")
	}
	if len(recs) == 0 {
		return []string{"Your meeting load looks healthy! Keep it up."}
	}
	return append(recs, "Implement these changes gradually over the next 2 weeks.")
}
