// Package logging provides structured logging utilities for timewise.
//
// All packages log through log/slog. This package holds the shared attribute
// keys, small attribute constructors, and the process logger setup used by
// the CLI.
//
// # Usage Patterns
//
// Create a logger with standard attributes:
//
//	logger := logging.WithOperation(slog.Default(), "calendar.events_in_range")
//	logger.Info("fetched events",
//	    logging.Source("google"),
//	    logging.Range(start, end))
//
// Calendar IDs and feed URLs may identify a person or carry a secret:
//
//	logger.Debug("fetching feed", slog.String("url", logging.SanitizeURL(url)))
//	logger.Debug("listing events", logging.Calendar(calendarID))
package logging
