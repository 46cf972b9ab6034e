// Package resources provides MCP resources that describe the scheduling
// setup of the server. Resources are read-only data sources that MCP clients
// can fetch, such as the effective working hours or the opened accounts.
package resources
