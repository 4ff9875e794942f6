package ldapc

import (
	"crypto/tls"
	"time"

	"golang.org/x/net/proxy"

	"github.com/oba-ldap/ldapc/internal/transport"
)

// Config is the connection configuration value spec.md section 6 defines:
// everything Connect needs beyond the target URL. The zero value is the
// documented default -- no timeout, system TLS with verification, no
// StartTLS, system resolver.
type Config struct {
	// ConnTimeout bounds the initial dial (and, for ldaps://, the TLS
	// handshake). Zero means no timeout.
	ConnTimeout time.Duration
	// TLSConfig is the opaque TLS provider used for ldaps:// connections
	// and, when StartTLS is set, for the upgrade. Nil means
	// tls.Config{} (system trust store, verification enabled), modified
	// by NoTLSVerify and ServerName.
	TLSConfig *tls.Config
	// ServerName overrides the hostname used for certificate verification
	// (SNI and hostname check). Defaults to the connection URL's host.
	ServerName string
	// StartTLS requests a StartTLS upgrade immediately after connecting to
	// an ldap:// endpoint. Invalid (and ignored) on ldaps:// and ldapi://.
	StartTLS bool
	// NoTLSVerify disables certificate verification entirely. Never
	// silently enabled by anything else in this package.
	NoTLSVerify bool
	// Resolver resolves a "host:port" address before dialing. Nil means
	// the system resolver (net.DefaultResolver).
	Resolver transport.Resolver
	// Logger receives structured diagnostic events from the multiplexer.
	// Nil means no logging.
	Logger Logger
	// StreamBacklog bounds a streaming search's sink queue depth. Zero
	// means the library default (64).
	StreamBacklog int
	// MaxMessageSize bounds the size of a single inbound LDAPMessage PDU.
	// Zero means the library default (16 MiB).
	MaxMessageSize int
	// ProxyDialer, when set, routes the ldap:// or ldaps:// TCP dial
	// through it instead of dialing the target directly -- e.g. a SOCKS5
	// dialer from golang.org/x/net/proxy for a server reachable only
	// through a jump host. Has no effect on ldapi:// connections.
	ProxyDialer proxy.Dialer
}

// transportConfig builds the internal/transport.Config this Config implies,
// filling in the TLS verification/hostname overrides.
func (c Config) transportConfig(endpoint *Endpoint) transport.Config {
	tlsCfg := c.TLSConfig
	if tlsCfg == nil {
		tlsCfg = &tls.Config{}
	} else {
		tlsCfg = tlsCfg.Clone()
	}
	if c.ServerName != "" {
		tlsCfg.ServerName = c.ServerName
	} else if tlsCfg.ServerName == "" && endpoint != nil {
		tlsCfg.ServerName = endpoint.Host
	}
	if c.NoTLSVerify {
		tlsCfg.InsecureSkipVerify = true
	}

	return transport.Config{
		Resolver:    c.Resolver,
		TLSConfig:   tlsCfg,
		ProxyDialer: c.ProxyDialer,
	}
}
