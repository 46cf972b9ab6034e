package resources

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/teemow/timewise/internal/server"
)

const (
	// SettingsURI is the resource with the effective scheduling settings.
	SettingsURI = "timewise://settings"

	// AccountsURI is the resource listing the accounts opened so far.
	AccountsURI = "timewise://accounts"
)

// Settings is the content of the settings resource.
type Settings struct {
	Timezone        string      `json:"timezone"`
	WorkingHours    HourRange   `json:"workingHours"`
	IncludeWeekends bool        `json:"includeWeekends"`
	Preferences     Preferences `json:"preferences"`
	CalendarSource  string      `json:"calendarSource"`
	Feeds           []string    `json:"feeds,omitempty"`
}

// HourRange is a daily window of whole hours.
type HourRange struct {
	Start int `json:"start"`
	End   int `json:"end"`
}

// Preferences are the default scoring preferences.
type Preferences struct {
	AvoidLunchTime bool       `json:"avoidLunchTime"`
	PreferMornings bool       `json:"preferMornings"`
	BufferMinutes  int        `json:"bufferMinutes"`
	PreferredHours *HourRange `json:"preferredHours,omitempty"`
}

// RegisterUserResources registers the read-only resources describing how
// the server schedules.
func RegisterUserResources(s *mcpserver.MCPServer, sc *server.ServerContext) error {
	settingsResource := mcp.NewResource(
		SettingsURI,
		"Scheduling Settings",
		mcp.WithResourceDescription("Time zone, working hours and scoring preferences used by the scheduling tools"),
		mcp.WithMIMEType("application/json"),
	)

	s.AddResource(settingsResource, func(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		return jsonContents(request.Params.URI, CurrentSettings(sc))
	})

	accountsResource := mcp.NewResource(
		AccountsURI,
		"Accounts",
		mcp.WithResourceDescription("Accounts whose calendars have been opened by this server"),
		mcp.WithMIMEType("application/json"),
	)

	s.AddResource(accountsResource, func(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		return jsonContents(request.Params.URI, map[string]interface{}{
			"defaultAccount": server.DefaultAccount,
			"accounts":       sc.Accounts(),
		})
	})

	return nil
}

// CurrentSettings reads the effective settings from sc.
func CurrentSettings(sc *server.ServerContext) Settings {
	cfg := sc.Config()
	settings := Settings{
		Timezone:        sc.Location().String(),
		WorkingHours:    HourRange{Start: cfg.WorkingHours.Start, End: cfg.WorkingHours.End},
		IncludeWeekends: cfg.IncludeWeekends,
		Preferences: Preferences{
			AvoidLunchTime: cfg.Preferences.AvoidLunchTime,
			PreferMornings: cfg.Preferences.PreferMornings,
			BufferMinutes:  cfg.Preferences.BufferMinutes,
		},
		CalendarSource: sc.SourceName(),
	}
	if h := cfg.DefaultPreferences().PreferredHours; h != nil {
		settings.Preferences.PreferredHours = &HourRange{Start: h.Start, End: h.End}
	}
	for _, src := range cfg.ICS.Sources {
		settings.Feeds = append(settings.Feeds, src.String())
	}
	return settings
}

func jsonContents(uri string, v interface{}) ([]mcp.ResourceContents, error) {
	jsonData, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal %s: %w", uri, err)
	}

	return []mcp.ResourceContents{
		&mcp.TextResourceContents{
			URI:      uri,
			MIMEType: "application/json",
			Text:     string(jsonData),
		},
	}, nil
}
