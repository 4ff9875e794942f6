// Package config loads on-disk connection profiles for ldapc clients and
// the obaldap CLI: a YAML document naming a server, its TLS posture, bind
// credentials, and logging preferences, so the same profile can be reused
// across invocations instead of respecifying flags every time.
package config

import "time"

// Config is the root of a connection profile. Zero values mean "use the
// library default" -- see DefaultConfig for what that resolves to.
type Config struct {
	Connection ConnectionConfig `yaml:"connection"`
	TLS        TLSConfig        `yaml:"tls"`
	Bind       BindConfig       `yaml:"bind"`
	Logging    LogConfig        `yaml:"logging"`
}

// ConnectionConfig mirrors spec.md section 6's connection configuration
// value: a URL to dial, an optional connect timeout, a StartTLS toggle, and
// per-operation timeout defaults a Client can be built with.
type ConnectionConfig struct {
	// URL is an ldap://, ldaps://, or ldapi:// endpoint.
	URL string `yaml:"url"`
	// DialTimeout bounds the initial TCP/TLS connect. Zero means no timeout.
	DialTimeout time.Duration `yaml:"dialTimeout"`
	// StartTLS requests an upgrade to TLS immediately after connecting to
	// an ldap:// (not ldaps://) endpoint.
	StartTLS bool `yaml:"startTLS"`
	// RequestTimeout is the profile's per-operation deadline. Zero means no
	// deadline. Nothing in this module applies it to a Client.
	RequestTimeout time.Duration `yaml:"requestTimeout"`
}

// TLSConfig configures certificate verification for ldaps:// and StartTLS
// connections.
type TLSConfig struct {
	// CAFile, when set, is a PEM bundle used in place of the system trust
	// store.
	CAFile string `yaml:"caFile"`
	// CertFile and KeyFile configure a client certificate for mutual TLS or
	// for a subsequent SASL EXTERNAL bind.
	CertFile string `yaml:"certFile"`
	KeyFile  string `yaml:"keyFile"`
	// ServerName overrides the hostname used for certificate verification
	// (SNI and hostname check); defaults to the connection URL's host.
	ServerName string `yaml:"serverName"`
	// InsecureSkipVerify disables certificate verification. Corresponds to
	// spec.md's no_tls_verify option. Never the default.
	InsecureSkipVerify bool `yaml:"insecureSkipVerify"`
}

// BindConfig names the credentials a CLI invocation binds with before
// running its command. Empty DN means an anonymous bind.
type BindConfig struct {
	DN       string `yaml:"dn"`
	Password string `yaml:"password"`
	// SASLMechanism, when set, selects a SASL mechanism ("EXTERNAL" or
	// "GSSAPI") instead of a simple bind.
	SASLMechanism string `yaml:"saslMechanism"`
}

// LogConfig configures the client-side structured logger.
type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
	Output string `yaml:"output"`
}

// DefaultConfig returns a Config with the library's documented defaults:
// no timeout, system TLS with verification, no StartTLS, info-level text
// logging to stderr.
func DefaultConfig() *Config {
	return &Config{
		Connection: ConnectionConfig{
			URL:         "ldap://localhost:389",
			DialTimeout: 0,
			StartTLS:    false,
		},
		TLS: TLSConfig{
			InsecureSkipVerify: false,
		},
		Logging: LogConfig{
			Level:  "info",
			Format: "text",
			Output: "stderr",
		},
	}
}
