package scheduling_tools

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/teemow/timewise/internal/analytics"
	"github.com/teemow/timewise/internal/availability"
	"github.com/teemow/timewise/internal/focustime"
)

const (
	slotLayout = "Mon 2006-01-02 15:04"
	dayLayout  = "2006-01-02"
)

var weekdayOrder = []string{"Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday", "Sunday"}

// FormatSlots renders free slots, one per line.
func FormatSlots(slots []availability.Slot, total int, loc *time.Location) string {
	if len(slots) == 0 {
		return "No available slots found in the requested range."
	}

	var b strings.Builder
	if total > len(slots) {
		fmt.Fprintf(&b, "Found %d available slot(s), showing the first %d:\n\n", total, len(slots))
	} else {
		fmt.Fprintf(&b, "Found %d available slot(s):\n\n", total)
	}
	for i, s := range slots {
		fmt.Fprintf(&b, "%d. %s - %s (%d min)\n", i+1,
			s.Start.In(loc).Format(slotLayout), s.End.In(loc).Format("15:04"), int(s.Duration.Minutes()))
	}
	return b.String()
}

// FormatScoredSlots renders ranked slots with their score and reasons.
func FormatScoredSlots(slots []availability.ScoredSlot, total int, loc *time.Location) string {
	if len(slots) == 0 {
		return "No suitable time slots found. Try a longer search window or a shorter duration."
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Top %d of %d candidate slot(s):\n\n", len(slots), total)
	for i, s := range slots {
		fmt.Fprintf(&b, "%d. %s - %s (score %d)\n", i+1,
			s.Slot.Start.In(loc).Format(slotLayout), s.Slot.End.In(loc).Format("15:04"), s.Score)
		for _, r := range s.Reasons {
			fmt.Fprintf(&b, "   - %s\n", r)
		}
	}
	return b.String()
}

// FormatPatterns renders a productivity analysis.
func FormatPatterns(p *analytics.Patterns) string {
	var b strings.Builder
	b.WriteString("Productivity analysis (last 30 days)\n\n")

	hours := make([]string, 0, len(p.MostProductiveHours))
	for _, h := range p.MostProductiveHours {
		hours = append(hours, fmt.Sprintf("%02d:00", h))
	}
	fmt.Fprintf(&b, "Most productive hours: %s\n", orNone(strings.Join(hours, ", ")))
	fmt.Fprintf(&b, "Least busy days: %s\n", orNone(strings.Join(p.LeastBusyDayNames, ", ")))
	fmt.Fprintf(&b, "Average meetings per day: %.1f\n", p.AverageMeetingsPerDay)
	writeList(&b, "Recommendations", p.Recommendations)
	return b.String()
}

// FormatReport renders a weekly or monthly report.
func FormatReport(title string, r *analytics.Report) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s: %s to %s\n\n", title, r.Start.Format(dayLayout), r.End.AddDate(0, 0, -1).Format(dayLayout))
	fmt.Fprintf(&b, "Total meeting hours: %.1f\n", r.TotalMeetingHours)
	fmt.Fprintf(&b, "Meetings: %d\n", r.MeetingCount)
	fmt.Fprintf(&b, "Average duration: %d min\n", r.AverageMeetingDuration)
	fmt.Fprintf(&b, "Share of work time: %.1f%%\n", r.PercentageOfWorkTime)
	fmt.Fprintf(&b, "Busiest day: %s\n", r.BusiestDay)
	if r.LongestMeeting != nil {
		fmt.Fprintf(&b, "Longest meeting: %s (%d min)\n", r.LongestMeeting.Summary, int(r.LongestMeeting.Duration().Minutes()))
	}

	if len(r.MeetingsByDay) > 0 {
		b.WriteString("\nMeetings by day:\n")
		for _, day := range weekdayOrder {
			if n, ok := r.MeetingsByDay[day]; ok {
				fmt.Fprintf(&b, "  %s: %d\n", day, n)
			}
		}
	}
	if len(r.MeetingsByType) > 0 {
		b.WriteString("\nMeetings by type:\n")
		types := make([]string, 0, len(r.MeetingsByType))
		for t := range r.MeetingsByType {
			types = append(types, t)
		}
		sort.Strings(types)
		for _, t := range types {
			fmt.Fprintf(&b, "  %s: %d\n", t, r.MeetingsByType[t])
		}
	}
	writeList(&b, "Recommendations", r.Recommendations)
	return b.String()
}

// FormatMonthlyReport renders a monthly report with its weekly breakdown.
func FormatMonthlyReport(r *analytics.MonthlyReport) string {
	var b strings.Builder
	b.WriteString(FormatReport("Monthly meeting report", &r.Report))
	if len(r.WeeklyBreakdown) > 0 {
		b.WriteString("\nWeekly breakdown:\n")
		for _, w := range r.WeeklyBreakdown {
			fmt.Fprintf(&b, "  %s: %d meeting(s), %.1f h\n", w.Week, w.MeetingCount, w.TotalHours)
		}
	}
	return b.String()
}

// FormatWeekComparison renders a week-over-week comparison.
func FormatWeekComparison(c *analytics.WeekComparison) string {
	return fmt.Sprintf("This week: %d meeting(s)\nLast week: %d meeting(s)\nChange: %+d (%+.1f%%)\n",
		c.CurrentWeek, c.PreviousWeek, c.Change, c.ChangePercent)
}

// FormatFocusResult renders the outcome of a focus time setup.
func FormatFocusResult(res *focustime.Result, loc *time.Location) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Created %d focus block(s), skipped %d busy window(s).\n", res.Created, res.Skipped)
	for _, ev := range res.Events {
		fmt.Fprintf(&b, "  %s - %s\n", ev.Start.In(loc).Format(slotLayout), ev.End.In(loc).Format("15:04"))
	}
	return b.String()
}

func writeList(b *strings.Builder, title string, items []string) {
	if len(items) == 0 {
		return
	}
	fmt.Fprintf(b, "\n%s:\n", title)
	for _, item := range items {
		fmt.Fprintf(b, "- %s\n", item)
	}
}

func orNone(s string) string {
	if s == "" {
		return "none"
	}
	return s
}
