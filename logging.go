package ldapc

import "github.com/oba-ldap/ldapc/internal/logging"

// Logger is the structured logging interface a Client's multiplexer reports
// diagnostic events (responses dropped for an unknown MessageID, unsolicited
// messages it cannot handle) through. It is a type alias for internal/logging.Logger so a caller can
// implement one without needing to import an internal package.
type Logger = logging.Logger

// LoggerConfig configures NewLogger.
type LoggerConfig = logging.Config

// NewLogger returns a Logger writing at the configured level/format/output.
func NewLogger(cfg LoggerConfig) Logger { return logging.New(cfg) }

// NewDefaultLogger returns a Logger at info level, text format, stdout.
func NewDefaultLogger() Logger { return logging.NewDefault() }

// NewNopLogger returns a Logger that discards everything, the default when
// Config.Logger is left nil.
func NewNopLogger() Logger { return logging.NewNop() }
