package scheduling_tools

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/teemow/timewise/internal/server"
	"github.com/teemow/timewise/internal/tools/common"
)

// RegisterAnalyticsTools registers the productivity and meeting report tools.
func RegisterAnalyticsTools(s *mcpserver.MCPServer, sc *server.ServerContext) error {
	tools := []struct {
		name        string
		description string
		handler     func(context.Context, *server.AccountServices, *server.ServerContext) (*mcp.CallToolResult, error)
	}{
		{
			name:        "calendar_analyze_productivity",
			description: "Analyze the last 30 days of meetings to find the hours and days with the fewest meetings",
			handler:     handleAnalyzeProductivity,
		},
		{
			name:        "calendar_weekly_report",
			description: "Meeting report for the current week (Monday to Sunday) with load, categories and recommendations",
			handler:     handleWeeklyReport,
		},
		{
			name:        "calendar_monthly_report",
			description: "Meeting report for the current month with a weekly breakdown",
			handler:     handleMonthlyReport,
		},
		{
			name:        "calendar_week_over_week",
			description: "Compare the number of meetings this week with last week",
			handler:     handleWeekOverWeek,
		},
		{
			name:        "calendar_focus_time_saved",
			description: "Calculate hours protected by focus time blocks this week",
			handler:     handleFocusTimeSaved,
		},
	}

	for _, t := range tools {
		tool := mcp.NewTool(t.name,
			mcp.WithDescription(t.description),
			mcp.WithString("account",
				mcp.Description(accountDescription),
			),
		)
		s.AddTool(tool, common.InstrumentedToolHandler(t.name, sc,
			func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
				svc, errResult := accountServices(ctx, sc, request.GetArguments())
				if errResult != nil {
					return errResult, nil
				}
				return t.handler(ctx, svc, sc)
			}))
	}

	return nil
}

func handleAnalyzeProductivity(ctx context.Context, svc *server.AccountServices, _ *server.ServerContext) (*mcp.CallToolResult, error) {
	patterns, err := svc.Reporter.AnalyzePatterns(ctx)
	if err != nil {
		return failure("analyze productivity", err), nil
	}
	return mcp.NewToolResultText(FormatPatterns(patterns)), nil
}

func handleWeeklyReport(ctx context.Context, svc *server.AccountServices, _ *server.ServerContext) (*mcp.CallToolResult, error) {
	report, err := svc.Reporter.WeeklyReport(ctx)
	if err != nil {
		return failure("generate weekly report", err), nil
	}
	return mcp.NewToolResultText(FormatReport("Weekly meeting report", report)), nil
}

func handleMonthlyReport(ctx context.Context, svc *server.AccountServices, _ *server.ServerContext) (*mcp.CallToolResult, error) {
	report, err := svc.Reporter.MonthlyReport(ctx)
	if err != nil {
		return failure("generate monthly report", err), nil
	}
	return mcp.NewToolResultText(FormatMonthlyReport(report)), nil
}

func handleWeekOverWeek(ctx context.Context, svc *server.AccountServices, _ *server.ServerContext) (*mcp.CallToolResult, error) {
	cmp, err := svc.Reporter.WeekOverWeek(ctx)
	if err != nil {
		return failure("compare weeks", err), nil
	}
	return mcp.NewToolResultText(FormatWeekComparison(cmp)), nil
}

func handleFocusTimeSaved(ctx context.Context, svc *server.AccountServices, _ *server.ServerContext) (*mcp.CallToolResult, error) {
	hours, err := svc.Reporter.FocusTimeSaved(ctx)
	if err != nil {
		return failure("calculate focus time", err), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("%.1f hours protected for focus time this week", hours)), nil
}
