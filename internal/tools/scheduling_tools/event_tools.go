package scheduling_tools

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/teemow/timewise/internal/calendar"
	"github.com/teemow/timewise/internal/server"
	"github.com/teemow/timewise/internal/tools/common"
)

const (
	defaultUpcomingEvents = 10
	maxUpcomingEvents     = 50
	eventTimestamp        = "Mon 2006-01-02 15:04"
)

// RegisterEventTools registers the tools that list and create calendar
// events. Creating events is skipped in read-only mode.
func RegisterEventTools(s *mcpserver.MCPServer, sc *server.ServerContext, readOnly bool) error {
	upcomingTool := mcp.NewTool("calendar_upcoming_events",
		mcp.WithDescription("List the next events of the calendar"),
		mcp.WithString("account",
			mcp.Description(accountDescription),
		),
		mcp.WithNumber("maxResults",
			mcp.Description(fmt.Sprintf("Maximum number of events to return, 1-%d (default: %d)", maxUpcomingEvents, defaultUpcomingEvents)),
		),
	)
	s.AddTool(upcomingTool, common.InstrumentedToolHandler("calendar_upcoming_events", sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return handleUpcomingEvents(ctx, request, sc)
		}))

	nextTool := mcp.NewTool("calendar_next_event",
		mcp.WithDescription("Get the very next event of the calendar, including one that is running now"),
		mcp.WithString("account",
			mcp.Description(accountDescription),
		),
	)
	s.AddTool(nextTool, common.InstrumentedToolHandler("calendar_next_event", sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return handleNextEvent(ctx, request, sc)
		}))

	if readOnly {
		return nil
	}

	createTool := mcp.NewTool("calendar_create_event",
		mcp.WithDescription("Create a calendar event, for example in a slot found with calendar_find_optimal_time"),
		mcp.WithString("account",
			mcp.Description(accountDescription),
		),
		mcp.WithString("summary",
			mcp.Required(),
			mcp.Description("Event title/summary"),
		),
		mcp.WithString("start",
			mcp.Required(),
			mcp.Description("Start time (RFC3339 format, e.g., '2025-01-15T14:00:00Z')"),
		),
		mcp.WithString("end",
			mcp.Required(),
			mcp.Description("End time (RFC3339 format, e.g., '2025-01-15T15:00:00Z')"),
		),
		mcp.WithString("description",
			mcp.Description("Event description"),
		),
		mcp.WithString("location",
			mcp.Description("Event location"),
		),
		mcp.WithString("timeZone",
			mcp.Description("Time zone (e.g., 'America/New_York'). Defaults to the configured time zone."),
		),
	)
	s.AddTool(createTool, common.InstrumentedToolHandler("calendar_create_event", sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return handleCreateEvent(ctx, request, sc)
		}))

	return nil
}

func handleUpcomingEvents(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	args := request.GetArguments()

	maxResults, err := common.IntArg(args, "maxResults", defaultUpcomingEvents)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if maxResults < 1 || maxResults > maxUpcomingEvents {
		return mcp.NewToolResultError(fmt.Sprintf("maxResults must be between 1 and %d", maxUpcomingEvents)), nil
	}

	svc, errResult := accountServices(ctx, sc, args)
	if errResult != nil {
		return errResult, nil
	}

	events, err := svc.Source.Upcoming(ctx, sc.Now(), maxResults)
	if err != nil {
		return failure("list upcoming events", err), nil
	}
	if len(events) == 0 {
		return mcp.NewToolResultText("No upcoming events."), nil
	}

	loc := sc.Location()
	var b strings.Builder
	fmt.Fprintf(&b, "Next %d event(s):\n\n", len(events))
	for i, ev := range events {
		fmt.Fprintf(&b, "%d. %s\n", i+1, formatEventLine(ev, loc))
		if ev.Location != "" {
			fmt.Fprintf(&b, "   Location: %s\n", ev.Location)
		}
	}
	return mcp.NewToolResultText(b.String()), nil
}

func handleNextEvent(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	svc, errResult := accountServices(ctx, sc, request.GetArguments())
	if errResult != nil {
		return errResult, nil
	}

	events, err := svc.Source.Upcoming(ctx, sc.Now(), 1)
	if err != nil {
		return failure("get the next event", err), nil
	}
	if len(events) == 0 {
		return mcp.NewToolResultText("No upcoming events."), nil
	}

	ev := events[0]
	loc := sc.Location()
	var b strings.Builder
	fmt.Fprintf(&b, "Next event: %s\n", formatEventLine(ev, loc))
	if !ev.AllDay {
		fmt.Fprintf(&b, "Ends: %s\n", ev.End.In(loc).Format(eventTimestamp))
	}
	if ev.Location != "" {
		fmt.Fprintf(&b, "Location: %s\n", ev.Location)
	}
	if ev.Start.After(sc.Now()) {
		fmt.Fprintf(&b, "Starts in: %s\n", ev.Start.Sub(sc.Now()).Round(time.Minute))
	} else {
		b.WriteString("In progress\n")
	}
	return mcp.NewToolResultText(b.String()), nil
}

func handleCreateEvent(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	args := request.GetArguments()

	summary, ok := args["summary"].(string)
	if !ok || strings.TrimSpace(summary) == "" {
		return mcp.NewToolResultError("summary is required"), nil
	}
	start, err := common.TimeArg(args, "start")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	end, err := common.TimeArg(args, "end")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if !start.Before(end) {
		return mcp.NewToolResultError("start must be before end"), nil
	}

	input := calendar.EventInput{
		Summary:  summary,
		Start:    start,
		End:      end,
		TimeZone: sc.Location().String(),
	}
	if desc, ok := args["description"].(string); ok {
		input.Description = desc
	}
	if location, ok := args["location"].(string); ok {
		input.Location = location
	}
	if tz, ok := args["timeZone"].(string); ok && tz != "" {
		if _, err := time.LoadLocation(tz); err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("Invalid timeZone: %v", err)), nil
		}
		input.TimeZone = tz
	}

	svc, errResult := accountServices(ctx, sc, args)
	if errResult != nil {
		return errResult, nil
	}

	event, err := svc.Source.CreateEvent(ctx, input)
	if errors.Is(err, calendar.ErrReadOnly) {
		return mcp.NewToolResultError(fmt.Sprintf("Cannot create events: the %s calendar source is read-only", sc.SourceName())), nil
	}
	if err != nil {
		return failure("create event", err), nil
	}

	loc := sc.Location()
	var b strings.Builder
	fmt.Fprintf(&b, "Successfully created event: %s\n", event.Summary)
	fmt.Fprintf(&b, "ID: %s\n", event.ID)
	fmt.Fprintf(&b, "Start: %s\n", event.Start.In(loc).Format(time.RFC3339))
	fmt.Fprintf(&b, "End: %s\n", event.End.In(loc).Format(time.RFC3339))
	return mcp.NewToolResultText(b.String()), nil
}

func formatEventLine(ev calendar.EventSummary, loc *time.Location) string {
	if ev.AllDay {
		return ev.Start.In(loc).Format("Mon 2006-01-02") + " (all day)  " + ev.Summary
	}
	return ev.Start.In(loc).Format(eventTimestamp) + "  " + ev.Summary
}
