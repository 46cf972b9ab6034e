// Package server holds the state shared by the CLI commands and the MCP
// server.
//
// ServerContext resolves a calendar backend (Google Calendar or ICS feeds)
// per account and builds the availability engine, the analytics reporter and
// the focus time planner on top of it. Accounts are opened lazily and cached
// for the lifetime of the process.
//
// MetricsServer exposes Prometheus metrics and the health endpoints of
// HealthChecker on a dedicated port.
package server
