// Package cmd implements the command-line interface for timewise.
//
// This package provides the following commands:
//   - serve: Start the MCP server to provide tools for AI assistants
//   - slots: List free slots of a given length
//   - optimal: Rank the free slots of the coming days by productivity score
//   - report: Weekly, monthly, week-over-week, focus time and pattern reports
//   - focus: Plan and create recurring focus time blocks
//   - version: Display version information
//   - generate-docs: Generate markdown documentation for all MCP tools
//
// Every command reads timewise.yaml (see --config) and TIMEWISE_ environment
// variables before it runs.
package cmd
