// Package logging provides a structured logging system for reactor that supports both
// CLI and TUI execution modes with unified log handling and flexible output formatting.
//
// This package implements a dual-mode logging architecture that can operate in either
// CLI mode (direct output) or TUI mode (channel-based message passing), enabling
// consistent logging behavior across different user interface paradigms.
//
// # Architecture
//
// The logging system is built around these core concepts:
//
// ## Log Levels
//   - **Debug**: Detailed information for debugging and development
//   - **Info**: General informational messages about application operation
//   - **Warn**: Warning messages that indicate potential issues
//   - **Error**: Error messages for failures and exceptional conditions
//
// ## Execution Modes
//   - **CLI Mode**: Direct logging to specified output writer (stdout/stderr)
//   - **TUI Mode**: Logging via buffered channel for consumption by an interactive
//     REPL or status view
//
// ## Structured Logging
// All log entries include:
//   - Timestamp with nanosecond precision
//   - Log level (Debug, Info, Warn, Error)
//   - Subsystem identifier for categorization
//   - Message content with optional formatting
//   - Optional error information
//
// # Usage
//
//	import "reactor/pkg/logging"
//
//	logging.InitForCLI(logging.LevelInfo, os.Stdout)
//
//	logging.Info("initsvc", "boot sequence starting")
//	logging.Debug("lifecycle", "service %s entering state %s", name, state)
//	logging.Warn("statemachine", "transition budget exceeded")
//	logging.Error("lifecycle", err, "dependency wait failed")
//
// For a channel-based mode suitable for an interactive REPL:
//
//	logChannel := logging.Initcommon("tui", logging.LevelDebug, os.Stdout, 4096)
//	go func() {
//	    for entry := range logChannel {
//	        render(entry)
//	    }
//	}()
//
// # Subsystem Organization
//
// Logs are organized by subsystem for filtering:
//
//   - **initsvc**: boot and shutdown orchestration, systemd notification
//   - **lifecycle**: dependency-wait timeouts
//   - **config**: fileconfig watch and reload problems
//   - the subsystem name an Observable was constructed with: recovered
//     subscriber panics
//
// # Integration with slog
//
// The logging system is a thin façade over Go's standard slog package:
//   - Uses slog.Handler implementations for output formatting
//   - Converts the package's LogLevel to slog.Level for compatibility
//   - Drops CLI-mode log calls made before the logger has been initialized
//
// # Transition auditing
//
// TransitionEvent emits a single fixed-shape line describing one bounded
// state transition, independent of the free-form message log, so
// transition outcomes can be greped or ingested without parsing prose.
// No package in this module calls it.
package logging
