// Package scheduling_tools provides the MCP tools of timewise.
//
// The tools find free slots, rank them by productivity score, report on
// meeting load and set up recurring focus time. Every tool accepts an
// optional "account" argument that selects the calendar. The focus time
// setup tool writes to the calendar and is only registered when the server
// runs with write operations enabled.
package scheduling_tools
