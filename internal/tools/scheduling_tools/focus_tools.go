package scheduling_tools

import (
	"context"
	"fmt"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/teemow/timewise/internal/focustime"
	"github.com/teemow/timewise/internal/server"
	"github.com/teemow/timewise/internal/tools/common"
)

// RegisterFocusTools registers the focus time tools. Setup creates events,
// so nothing is registered in read-only mode.
func RegisterFocusTools(s *mcpserver.MCPServer, sc *server.ServerContext, readOnly bool) error {
	if readOnly {
		return nil
	}

	setupTool := mcp.NewTool("calendar_setup_focus_time",
		mcp.WithDescription("Create recurring 'Focus Time - Do Not Book' blocks for deep work. Windows that already have events are skipped."),
		mcp.WithString("account",
			mcp.Description(accountDescription),
		),
		mcp.WithNumber("startHour",
			mcp.Required(),
			mcp.Description("Start hour of each block (0-23)"),
		),
		mcp.WithNumber("endHour",
			mcp.Required(),
			mcp.Description("End hour of each block (1-24)"),
		),
		mcp.WithArray("daysOfWeek",
			mcp.Required(),
			mcp.Description("Days of week (0=Sunday, 1=Monday, etc.)"),
			mcp.Items(map[string]interface{}{"type": "number"}),
		),
		mcp.WithNumber("weeksAhead",
			mcp.Description(fmt.Sprintf("Number of weeks to plan, 1-%d (default: %d)", focustime.MaxWeeksAhead, focustime.DefaultWeeksAhead)),
		),
	)
	s.AddTool(setupTool, common.InstrumentedToolHandler("calendar_setup_focus_time", sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return handleSetupFocusTime(ctx, request, sc)
		}))

	return nil
}

func handleSetupFocusTime(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	args := request.GetArguments()

	cfg, weeks, err := focusConfigFromArgs(args)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	svc, errResult := accountServices(ctx, sc, args)
	if errResult != nil {
		return errResult, nil
	}

	res, err := svc.Planner.Setup(ctx, cfg, weeks)
	if err != nil {
		return failure("set up focus time", err), nil
	}
	return mcp.NewToolResultText(FormatFocusResult(res, sc.Location())), nil
}

func focusConfigFromArgs(args map[string]interface{}) (focustime.Config, int, error) {
	var cfg focustime.Config

	if _, ok := args["startHour"]; !ok {
		return cfg, 0, fmt.Errorf("startHour is required")
	}
	if _, ok := args["endHour"]; !ok {
		return cfg, 0, fmt.Errorf("endHour is required")
	}
	start, err := common.IntArg(args, "startHour", 0)
	if err != nil {
		return cfg, 0, err
	}
	end, err := common.IntArg(args, "endHour", 0)
	if err != nil {
		return cfg, 0, err
	}
	days, err := common.ParseIntOrArray(args["daysOfWeek"], "daysOfWeek")
	if err != nil {
		return cfg, 0, err
	}
	weeks, err := common.IntArg(args, "weeksAhead", focustime.DefaultWeeksAhead)
	if err != nil {
		return cfg, 0, err
	}

	cfg.StartHour, cfg.EndHour = start, end
	for _, d := range days {
		cfg.DaysOfWeek = append(cfg.DaysOfWeek, time.Weekday(d))
	}
	return cfg, weeks, cfg.Validate()
}
