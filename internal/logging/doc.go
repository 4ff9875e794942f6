// Package logging provides structured logging for the LDAP client.
//
// # Overview
//
// The logging package provides a structured logging interface with support for:
//
//   - Multiple log levels (debug, info, warn, error)
//   - Text and JSON output formats
//   - Request ID tracking for distributed tracing
//   - Field-based contextual logging
//
// # Creating a Logger
//
// Create a logger with configuration:
//
//	logger := logging.New(logging.Config{
//	    Level:  "info",
//	    Format: "json",
//	    Output: "stderr",
//	})
//
// Or use defaults:
//
//	logger := logging.NewDefault() // Info level, text format, stdout
//
// For testing, use a no-op logger:
//
//	logger := logging.NewNop()
//
// # Log Levels
//
// Four log levels are supported:
//
//	logger.Debug("detailed debugging info", "key", "value")
//	logger.Info("informational message", "key", "value")
//	logger.Warn("warning message", "key", "value")
//	logger.Error("error message", "key", "value")
//
// Parse level from string:
//
//	level := logging.ParseLevel("debug") // Returns LevelDebug
//
// # Structured Logging
//
// Add key-value pairs to log entries:
//
//	logger.Info("bind succeeded",
//	    "dn", "uid=alice,ou=users,dc=example,dc=com",
//	    "server", "ldap.example.com:636",
//	    "duration_ms", 2,
//	)
//
// Output (JSON format, one line, keys in sorted order):
//
//	{"dn":"uid=alice,ou=users,dc=example,dc=com","duration_ms":2,"level":"info","msg":"bind succeeded","server":"ldap.example.com:636","ts":"2026-02-18T10:30:00Z"}
//
// # Request ID Tracking
//
// Add a request ID for tracing a single operation across the client's
// layers (the mux, the connection, the operation call itself):
//
//	requestID := logging.GenerateRequestID()
//	opLogger := logger.WithRequestID(requestID)
//
//	opLogger.Info("search started") // Includes request_id field
//
// # Contextual Fields
//
// Create loggers with persistent fields:
//
//	connLogger := logger.WithFields(
//	    "server", conn.RemoteAddr().String(),
//	    "connection_id", connID,
//	)
//
//	// All subsequent logs include these fields
//	connLogger.Info("connection established")
//	connLogger.Info("bind succeeded")
//
// # Output Formats
//
// Text format (human-readable):
//
//	2026-02-18T10:30:00Z [info] bind succeeded dn=uid=alice,... duration_ms=2
//
// JSON format (machine-parseable):
//
//	{"dn":"uid=alice,...","duration_ms":2,"level":"info","msg":"bind succeeded",...,"ts":"2026-02-18T10:30:00Z"}
//
// # Output Destinations
//
// Configure output destination:
//
//	logging.Config{Output: "stdout"}              // Standard output
//	logging.Config{Output: "stderr"}              // Standard error
//	logging.Config{Output: "/var/log/ldapc.log"}  // File path
package logging
