// Package logging provides structured logging for hmpanel.
//
// This package wraps a zap logger with convenience functions for the log
// lines the panel and the CLI write: attribute commits, preview refreshes
// and inform stream events.
//
// # Log Levels
//
//   - Debug: requests sent to FHEMWEB, preview refreshes, inform events
//   - Info: committed attributes, connections
//   - Warn: failed commits, dropped inform connections
//   - Error: startup failures
//
// # Configuration
//
// Logging is silent unless a level is given, either with --log-level or the
// HMPANEL_LOG_LEVEL environment variable:
//
//	if err := logging.Initialize(level); err != nil {
//	    log.Fatal(err)
//	}
//	defer logging.Sync()
//
// Output goes to stderr. Set HMPANEL_LOG_FILE to write to a file instead,
// which is required while the terminal panel is running.
package logging
