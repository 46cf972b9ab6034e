package scheduling_tools

import (
	"context"
	"errors"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/teemow/timewise/internal/availability"
	"github.com/teemow/timewise/internal/focustime"
	"github.com/teemow/timewise/internal/server"
	"github.com/teemow/timewise/internal/tools/common"
)

const accountDescription = "Account name (default: 'default'). Selects the calendar to use."

// RegisterSchedulingTools registers all timewise tools with the MCP server.
// Tools that write to the calendar are skipped in read-only mode.
func RegisterSchedulingTools(s *mcpserver.MCPServer, sc *server.ServerContext, readOnly bool) error {
	if err := RegisterSlotTools(s, sc); err != nil {
		return fmt.Errorf("failed to register slot tools: %w", err)
	}

	if err := RegisterEventTools(s, sc, readOnly); err != nil {
		return fmt.Errorf("failed to register event tools: %w", err)
	}

	if err := RegisterAnalyticsTools(s, sc); err != nil {
		return fmt.Errorf("failed to register analytics tools: %w", err)
	}

	if err := RegisterFocusTools(s, sc, readOnly); err != nil {
		return fmt.Errorf("failed to register focus time tools: %w", err)
	}

	return nil
}

// accountServices opens the calendar of the account named in args. Failures
// come back as a tool error result.
func accountServices(ctx context.Context, sc *server.ServerContext, args map[string]interface{}) (*server.AccountServices, *mcp.CallToolResult) {
	account := common.GetAccountFromArgs(args)
	svc, err := sc.ServicesForAccount(ctx, account)
	if err != nil {
		return nil, mcp.NewToolResultError(err.Error())
	}
	return svc, nil
}

// failure turns a service error into a tool error result. Validation errors
// are shown as they are.
func failure(action string, err error) *mcp.CallToolResult {
	if errors.Is(err, availability.ErrInvalidRange) || errors.Is(err, focustime.ErrInvalidConfig) {
		return mcp.NewToolResultError(err.Error())
	}
	return mcp.NewToolResultError(fmt.Sprintf("Failed to %s: %v", action, err))
}
