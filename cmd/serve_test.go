package cmd

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadMetricsEnv(t *testing.T) {
	tests := []struct {
		name     string
		args     []string
		env      map[string]string
		expected MetricsConfig
	}{
		{
			name:     "defaults",
			expected: MetricsConfig{Enabled: true, Addr: ":9090"},
		},
		{
			name:     "env overrides defaults",
			env:      map[string]string{"METRICS_ENABLED": "false", "METRICS_ADDR": ":9100"},
			expected: MetricsConfig{Enabled: false, Addr: ":9100"},
		},
		{
			name:     "flags win over env",
			args:     []string{"--metrics-enabled=true", "--metrics-addr=:9200"},
			env:      map[string]string{"METRICS_ENABLED": "false", "METRICS_ADDR": ":9100"},
			expected: MetricsConfig{Enabled: true, Addr: ":9200"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("METRICS_ENABLED", "")
			t.Setenv("METRICS_ADDR", "")
			for k, v := range tt.env {
				t.Setenv(k, v)
			}

			cmd := newServeCmd()
			require.NoError(t, cmd.ParseFlags(tt.args))

			mc := MetricsConfig{}
			mc.Enabled, _ = cmd.Flags().GetBool("metrics-enabled")
			mc.Addr, _ = cmd.Flags().GetString("metrics-addr")
			loadMetricsEnv(cmd, &mc)
			assert.Equal(t, tt.expected, mc)
		})
	}
}

func TestRender(t *testing.T) {
	value := struct {
		Total int    `json:"total" yaml:"total"`
		Name  string `json:"name" yaml:"name"`
	}{Total: 2, Name: "slots"}

	tests := []struct {
		format   string
		expected string
	}{
		{format: outputText, expected: "two slots"},
		{format: outputJSON, expected: "{\n  \"total\": 2,\n  \"name\": \"slots\"\n}\n"},
		{format: outputYAML, expected: "total: 2\nname: slots\n"},
	}

	for _, tt := range tests {
		t.Run(tt.format, func(t *testing.T) {
			var buf bytes.Buffer
			require.NoError(t, render(&buf, tt.format, value, func() string { return "two slots" }))
			assert.Equal(t, tt.expected, buf.String())
		})
	}
}

func TestValidateOutput(t *testing.T) {
	for _, f := range []string{outputText, outputJSON, outputYAML} {
		assert.NoError(t, validateOutput(f))
	}
	assert.Error(t, validateOutput("xml"))
}

func TestParseRange(t *testing.T) {
	now := time.Date(2025, time.January, 8, 8, 0, 0, 0, time.UTC)

	start, end, err := parseRange("", "", now)
	require.NoError(t, err)
	assert.Equal(t, now, start)
	assert.Equal(t, now.AddDate(0, 0, 7), end)

	start, end, err = parseRange("2025-01-06T09:00:00Z", "2025-01-06T17:00:00Z", now)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2025, time.January, 6, 9, 0, 0, 0, time.UTC), start)
	assert.Equal(t, time.Date(2025, time.January, 6, 17, 0, 0, 0, time.UTC), end)

	_, _, err = parseRange("tomorrow", "", now)
	assert.ErrorContains(t, err, "invalid --from")
}

func TestGetCategoryFromToolName(t *testing.T) {
	tests := map[string]string{
		"calendar_find_available_slots": "Scheduling Tools",
		"calendar_find_optimal_time":    "Scheduling Tools",
		"calendar_upcoming_events":      "Event Tools",
		"calendar_next_event":           "Event Tools",
		"calendar_create_event":         "Event Tools",
		"calendar_setup_focus_time":     "Focus Time Tools",
		"calendar_weekly_report":        "Analytics Tools",
		"calendar_focus_time_saved":     "Analytics Tools",
		"something_else":                "Other",
	}
	for name, expected := range tests {
		assert.Equal(t, expected, getCategoryFromToolName(name), name)
	}
}

func TestGenerateToolsMarkdown(t *testing.T) {
	tool := mcp.NewTool("calendar_find_optimal_time",
		mcp.WithDescription("Rank free slots"),
		mcp.WithNumber("duration", mcp.Required(), mcp.Description("Meeting duration in minutes")),
		mcp.WithString("account", mcp.Description("Account name")),
	)

	md := generateToolsMarkdown([]mcp.Tool{tool})
	assert.Contains(t, md, "## Scheduling Tools")
	assert.Contains(t, md, "### calendar_find_optimal_time")
	assert.Contains(t, md, "- `duration` (required): Meeting duration in minutes")
	assert.Contains(t, md, "- `account` (optional): Account name")
	assert.Less(t, strings.Index(md, "- `account`"), strings.Index(md, "- `duration`"))
}

func TestRootCommandTree(t *testing.T) {
	want := []string{"focus", "generate-docs", "optimal", "report", "serve", "slots", "version"}
	var got []string
	for _, c := range rootCmd.Commands() {
		if c.Name() == "help" || c.Name() == "completion" {
			continue
		}
		got = append(got, c.Name())
	}
	assert.ElementsMatch(t, want, got)

	report, _, err := rootCmd.Find([]string{"report", "weekly"})
	require.NoError(t, err)
	assert.Equal(t, "weekly", report.Name())

	var sub []string
	for _, c := range findCmd(t, "report").Commands() {
		sub = append(sub, c.Name())
	}
	assert.ElementsMatch(t, []string{"weekly", "monthly", "week-over-week", "focus-saved", "patterns"}, sub)
}

func findCmd(t *testing.T, name string) *cobra.Command {
	t.Helper()
	c, _, err := rootCmd.Find([]string{name})
	require.NoError(t, err)
	return c
}
