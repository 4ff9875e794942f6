package config

import (
	"fmt"
	"strings"
)

// ValidationError represents a single configuration validation failure.
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// Validate checks a Config for internally-inconsistent or out-of-range
// values. An empty slice means the configuration is valid; Load and Parse
// do not call this automatically, so callers that want validation must call
// it explicitly.
func Validate(cfg *Config) []error {
	var errs []error

	errs = append(errs, validateConnection(&cfg.Connection)...)
	errs = append(errs, validateTLS(&cfg.TLS)...)
	errs = append(errs, validateLogging(&cfg.Logging)...)

	return errs
}

func validateConnection(c *ConnectionConfig) []error {
	var errs []error

	if c.URL == "" {
		errs = append(errs, ValidationError{Field: "connection.url", Message: "is required"})
	} else {
		switch {
		case strings.HasPrefix(c.URL, "ldap://"),
			strings.HasPrefix(c.URL, "ldaps://"),
			strings.HasPrefix(c.URL, "ldapi://"):
		default:
			errs = append(errs, ValidationError{
				Field:   "connection.url",
				Message: "must use the ldap://, ldaps://, or ldapi:// scheme",
			})
		}
	}

	if c.DialTimeout < 0 {
		errs = append(errs, ValidationError{Field: "connection.dialTimeout", Message: "must be non-negative"})
	}
	if c.RequestTimeout < 0 {
		errs = append(errs, ValidationError{Field: "connection.requestTimeout", Message: "must be non-negative"})
	}
	if c.StartTLS && strings.HasPrefix(c.URL, "ldaps://") {
		errs = append(errs, ValidationError{
			Field:   "connection.startTLS",
			Message: "is redundant on an ldaps:// URL, which is already implicitly TLS",
		})
	}

	return errs
}

func validateTLS(c *TLSConfig) []error {
	var errs []error

	if c.CertFile != "" && c.KeyFile == "" {
		errs = append(errs, ValidationError{Field: "tls.keyFile", Message: "is required when tls.certFile is set"})
	}
	if c.KeyFile != "" && c.CertFile == "" {
		errs = append(errs, ValidationError{Field: "tls.certFile", Message: "is required when tls.keyFile is set"})
	}

	return errs
}

func validateLogging(c *LogConfig) []error {
	var errs []error

	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if c.Level != "" && !validLevels[strings.ToLower(c.Level)] {
		errs = append(errs, ValidationError{Field: "logging.level", Message: "must be debug, info, warn, or error"})
	}

	validFormats := map[string]bool{"text": true, "json": true}
	if c.Format != "" && !validFormats[strings.ToLower(c.Format)] {
		errs = append(errs, ValidationError{Field: "logging.format", Message: "must be text or json"})
	}

	if c.Output != "" && c.Output != "stdout" && c.Output != "stderr" {
		if !strings.HasPrefix(c.Output, "/") {
			errs = append(errs, ValidationError{
				Field:   "logging.output",
				Message: "must be stdout, stderr, or an absolute file path",
			})
		}
	}

	return errs
}
