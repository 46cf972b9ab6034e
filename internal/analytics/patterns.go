package analytics

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"
)

const patternWindowDays = 30

// Patterns describes when meetings usually happen.
type Patterns struct {
	// MostProductiveHours are the three meeting hours with the fewest
	// meetings, in ascending order of meeting count.
	MostProductiveHours   []int          `json:"mostProductiveHours" yaml:"mostProductiveHours"`
	LeastBusyDays         []time.Weekday `json:"-" yaml:"-"`
	LeastBusyDayNames     []string       `json:"leastBusyDays" yaml:"leastBusyDays"`
	AverageMeetingsPerDay float64        `json:"averageMeetingsPerDay" yaml:"averageMeetingsPerDay"`
	Recommendations       []string       `json:"recommendations" yaml:"recommendations"`
}

type bucket struct {
	key   int
	count int
}

// leastBusy orders keys by ascending count, then by key.
func leastBusy(counts map[int]int, n int) []int {
	buckets := make([]bucket, 0, len(counts))
	for k, c := range counts {
		buckets = append(buckets, bucket{k, c})
	}
	sort.Slice(buckets, func(i, j int) bool {
		if buckets[i].count != buckets[j].count {
			return buckets[i].count < buckets[j].count
		}
		return buckets[i].key < buckets[j].key
	})
	if len(buckets) > n {
		buckets = buckets[:n]
	}
	keys := make([]int, len(buckets))
	for i, b := range buckets {
		keys[i] = b.key
	}
	return keys
}

// AnalyzePatterns looks at the meetings of the last 30 days.
func (r *Reporter) AnalyzePatterns(ctx context.Context) (*Patterns, error) {
	now := r.now()
	events, err := r.meetings(ctx, now.AddDate(0, 0, -patternWindowDays), now)
	if err != nil {
		return nil, err
	}

	byHour := make(map[int]int)
	byDay := make(map[int]int)
	for _, ev := range events {
		start := ev.Start.In(r.loc)
		byHour[start.Hour()]++
		byDay[int(start.Weekday())]++
	}

	p := &Patterns{
		MostProductiveHours:   leastBusy(byHour, 3),
		AverageMeetingsPerDay: round1(float64(len(events)) / patternWindowDays),
	}
	for _, d := range leastBusy(byDay, 2) {
		p.LeastBusyDays = append(p.LeastBusyDays, time.Weekday(d))
		p.LeastBusyDayNames = append(p.LeastBusyDayNames, time.Weekday(d).String())
	}
	p.Recommendations = patternRecommendations(p)
	return p, nil
}

func patternRecommendations(p *Patterns) []string {
	var recs []string
	if p.AverageMeetingsPerDay > 4 {
		recs = append(recs, "High meeting load detected. Consider blocking focus time.")
	}
	if len(p.MostProductiveHours) > 0 {
		hours := make([]string, len(p.MostProductiveHours))
		for i, h := range p.MostProductiveHours {
			hours[i] = fmt.Sprintf("%d:00", h)
		}
		recs = append(recs, fmt.Sprintf("Protect %s for deep work.", strings.Join(hours, ", ")))
	}
	if len(p.LeastBusyDayNames) > 0 {
		recs = append(recs, fmt.Sprintf("%s are your least busy days - ideal for focus work.",
			strings.Join(p.LeastBusyDayNames, " and ")))
	}
	return recs
}
