package ics

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/teemow/timewise/internal/calendar"
	"github.com/teemow/timewise/internal/logging"
)

// Calendar is a read-only calendar.EventSource over one or more ICS feeds.
type Calendar struct {
	sources []Source
	fetcher *Fetcher
	loc     *time.Location
	logger  *slog.Logger
}

var _ calendar.EventSource = (*Calendar)(nil)

// NewCalendar validates the sources and builds a Calendar. A nil loc means
// time.Local.
func NewCalendar(sources []Source, fetcher *Fetcher, loc *time.Location, logger *slog.Logger) (*Calendar, error) {
	if len(sources) == 0 {
		return nil, fmt.Errorf("at least one ics source is required")
	}
	seen := make(map[string]bool, len(sources))
	for i, src := range sources {
		if src.ID == "" {
			src.ID = fmt.Sprintf("feed-%d", i+1)
			sources[i] = src
		}
		if seen[src.ID] {
			return nil, fmt.Errorf("duplicate ics source id %q", src.ID)
		}
		seen[src.ID] = true
		if err := src.Validate(); err != nil {
			return nil, err
		}
	}
	if logger == nil {
		logger = slog.Default()
	}
	if fetcher == nil {
		fetcher = NewFetcher("", logger)
	}
	if loc == nil {
		loc = time.Local
	}
	return &Calendar{
		sources: sources,
		fetcher: fetcher,
		loc:     loc,
		logger:  logging.WithSource(logger, "ics"),
	}, nil
}

// Sources returns the configured feeds.
func (c *Calendar) Sources() []Source {
	return c.sources
}

// EventsInRange fetches every feed concurrently and returns the merged
// occurrences overlapping [start, end). A failing feed fails the call.
func (c *Calendar) EventsInRange(ctx context.Context, start, end time.Time) ([]calendar.EventSummary, error) {
	results := make([][]calendar.EventSummary, len(c.sources))

	g, gctx := errgroup.WithContext(ctx)
	for i, src := range c.sources {
		g.Go(func() error {
			res, err := c.fetcher.Fetch(gctx, src)
			if err != nil {
				return err
			}
			events, err := Parse(res.Body, c.loc)
			if err != nil {
				return fmt.Errorf("feed %s: %w", src.ID, err)
			}
			expanded := Expand(events, start, end)
			for j := range expanded {
				expanded[j].ID = src.ID + ":" + expanded[j].ID
			}
			results[i] = expanded
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var merged []calendar.EventSummary
	for _, r := range results {
		merged = append(merged, r...)
	}
	sort.SliceStable(merged, func(i, j int) bool {
		return merged[i].Start.Before(merged[j].Start)
	})

	c.logger.Debug("read ics events",
		logging.Range(start, end),
		slog.Int("feeds", len(c.sources)),
		slog.Int("events", len(merged)))
	return merged, nil
}
