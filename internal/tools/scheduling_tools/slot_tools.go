package scheduling_tools

import (
	"context"
	"fmt"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/teemow/timewise/internal/availability"
	"github.com/teemow/timewise/internal/server"
	"github.com/teemow/timewise/internal/tools/common"
)

const (
	defaultMaxSlots       = 10
	defaultMaxOptimal     = 5
	minOptimalDuration    = 15
	maxDaysAhead          = 30
	defaultBufferMinutes  = 15
	defaultAvoidLunchTime = true
	defaultPreferMornings = false
)

// RegisterSlotTools registers the slot search and ranking tools.
func RegisterSlotTools(s *mcpserver.MCPServer, sc *server.ServerContext) error {
	findSlotsTool := mcp.NewTool("calendar_find_available_slots",
		mcp.WithDescription("Find free time slots of a given length between two instants, on a 30-minute grid inside working hours"),
		mcp.WithString("account",
			mcp.Description(accountDescription),
		),
		mcp.WithNumber("durationMinutes",
			mcp.Required(),
			mcp.Description("Slot length in minutes"),
		),
		mcp.WithString("timeMin",
			mcp.Required(),
			mcp.Description("Start of the search range (RFC3339 format, e.g., '2025-01-06T00:00:00Z')"),
		),
		mcp.WithString("timeMax",
			mcp.Required(),
			mcp.Description("End of the search range (RFC3339 format, e.g., '2025-01-10T23:59:59Z')"),
		),
		mcp.WithNumber("workingHoursStart",
			mcp.Description("First hour a slot may start (0-23). Defaults to the configured working hours."),
		),
		mcp.WithNumber("workingHoursEnd",
			mcp.Description("Hour at which slots may no longer start (1-24). Defaults to the configured working hours."),
		),
		mcp.WithBoolean("includeWeekends",
			mcp.Description("Also search Saturdays and Sundays"),
		),
		mcp.WithNumber("maxResults",
			mcp.Description("Maximum number of slots to return (default: 10)"),
		),
	)
	s.AddTool(findSlotsTool, common.InstrumentedToolHandler("calendar_find_available_slots", sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return handleFindAvailableSlots(ctx, request, sc)
		}))

	optimalTool := mcp.NewTool("calendar_find_optimal_time",
		mcp.WithDescription("Find the best meeting times in the coming days, ranked by a productivity score with the reasons behind each score"),
		mcp.WithString("account",
			mcp.Description(accountDescription),
		),
		mcp.WithNumber("duration",
			mcp.Required(),
			mcp.Description("Meeting duration in minutes (at least 15)"),
		),
		mcp.WithNumber("daysAhead",
			mcp.Description("How many days ahead to search, 1-30 (default: 7)"),
		),
		mcp.WithBoolean("preferMornings",
			mcp.Description("Prefer morning time slots (default: false)"),
		),
		mcp.WithBoolean("avoidLunchTime",
			mcp.Description("Penalize slots starting between 12:00 and 13:00 (default: true)"),
		),
		mcp.WithNumber("bufferMinutes",
			mcp.Description("Minimum gap wanted around existing meetings in minutes (default: 15)"),
		),
		mcp.WithNumber("preferredStartHour",
			mcp.Description("Start of the preferred hours (0-23). Requires preferredEndHour."),
		),
		mcp.WithNumber("preferredEndHour",
			mcp.Description("End of the preferred hours (1-24). Requires preferredStartHour."),
		),
		mcp.WithNumber("maxResults",
			mcp.Description("Number of top slots to return (default: 5)"),
		),
	)
	s.AddTool(optimalTool, common.InstrumentedToolHandler("calendar_find_optimal_time", sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return handleFindOptimalTime(ctx, request, sc)
		}))

	return nil
}

func handleFindAvailableSlots(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	args := request.GetArguments()
	cfg := sc.Config()

	durationMinutes, err := common.IntArg(args, "durationMinutes", 0)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if durationMinutes <= 0 {
		return mcp.NewToolResultError("durationMinutes must be positive"), nil
	}
	timeMin, err := common.TimeArg(args, "timeMin")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	timeMax, err := common.TimeArg(args, "timeMax")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	hours := cfg.SlotWorkingHours()
	if hours.Start, err = common.IntArg(args, "workingHoursStart", hours.Start); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if hours.End, err = common.IntArg(args, "workingHoursEnd", hours.End); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	includeWeekends, err := common.BoolArg(args, "includeWeekends", cfg.IncludeWeekends)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	maxResults, err := common.IntArg(args, "maxResults", defaultMaxSlots)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if maxResults < 1 {
		return mcp.NewToolResultError("maxResults must be at least 1"), nil
	}

	svc, errResult := accountServices(ctx, sc, args)
	if errResult != nil {
		return errResult, nil
	}

	slots, err := svc.Engine.FindAvailableSlots(ctx, availability.SlotRequest{
		Duration:        time.Duration(durationMinutes) * time.Minute,
		Range:           availability.TimeRange{Start: timeMin, End: timeMax},
		WorkingHours:    hours,
		IncludeWeekends: includeWeekends,
	})
	if err != nil {
		return failure("find available slots", err), nil
	}

	total := len(slots)
	if total > maxResults {
		slots = slots[:maxResults]
	}
	return mcp.NewToolResultText(FormatSlots(slots, total, sc.Location())), nil
}

func handleFindOptimalTime(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	args := request.GetArguments()

	duration, err := common.IntArg(args, "duration", 0)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if duration < minOptimalDuration {
		return mcp.NewToolResultError(fmt.Sprintf("duration must be at least %d minutes", minOptimalDuration)), nil
	}
	daysAhead, err := common.IntArg(args, "daysAhead", availability.DefaultDaysAhead)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if daysAhead < 1 || daysAhead > maxDaysAhead {
		return mcp.NewToolResultError(fmt.Sprintf("daysAhead must be between 1 and %d", maxDaysAhead)), nil
	}
	maxResults, err := common.IntArg(args, "maxResults", defaultMaxOptimal)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if maxResults < 1 {
		return mcp.NewToolResultError("maxResults must be at least 1"), nil
	}

	prefs, err := preferencesFromArgs(args)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	svc, errResult := accountServices(ctx, sc, args)
	if errResult != nil {
		return errResult, nil
	}

	ranked, err := svc.Engine.FindOptimalSlots(ctx, availability.OptimalRequest{
		Duration:    time.Duration(duration) * time.Minute,
		DaysAhead:   daysAhead,
		Preferences: prefs,
	})
	if err != nil {
		return failure("find optimal time", err), nil
	}

	total := len(ranked)
	if total > maxResults {
		ranked = ranked[:maxResults]
	}
	return mcp.NewToolResultText(FormatScoredSlots(ranked, total, sc.Location())), nil
}

func preferencesFromArgs(args map[string]interface{}) (availability.Preferences, error) {
	var prefs availability.Preferences
	var err error

	if prefs.PreferMornings, err = common.BoolArg(args, "preferMornings", defaultPreferMornings); err != nil {
		return prefs, err
	}
	if prefs.AvoidLunchTime, err = common.BoolArg(args, "avoidLunchTime", defaultAvoidLunchTime); err != nil {
		return prefs, err
	}
	buffer, err := common.IntArg(args, "bufferMinutes", defaultBufferMinutes)
	if err != nil {
		return prefs, err
	}
	if buffer < 0 {
		return prefs, fmt.Errorf("bufferMinutes cannot be negative")
	}
	prefs.BufferBetweenMeetings = time.Duration(buffer) * time.Minute

	_, hasStart := args["preferredStartHour"]
	_, hasEnd := args["preferredEndHour"]
	if hasStart != hasEnd {
		return prefs, fmt.Errorf("preferredStartHour and preferredEndHour must be given together")
	}
	if hasStart {
		start, err := common.IntArg(args, "preferredStartHour", 0)
		if err != nil {
			return prefs, err
		}
		end, err := common.IntArg(args, "preferredEndHour", 0)
		if err != nil {
			return prefs, err
		}
		prefs.PreferredHours = &availability.HourRange{Start: start, End: end}
	}
	return prefs, nil
}
