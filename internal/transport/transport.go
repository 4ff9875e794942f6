// Package transport dials the byte streams an LDAP connection can run over
// -- plain TCP, implicit TLS ("ldaps"), and Unix domain sockets ("ldapi") --
// and performs the in-place StartTLS upgrade. Plain, TLS, and UDS streams are
// a closed variant set that all satisfy net.Conn, so there is no separate
// Stream interface here: net.Conn already is the "single-method byte stream
// abstraction" the protocol core needs.
package transport

import (
	"context"
	"crypto/tls"
	"errors"
	"net"
	"net/url"

	"golang.org/x/net/proxy"
)

// ErrNoTLSConfig is returned by UpgradeTLS when called with a nil config.
var ErrNoTLSConfig = errors.New("transport: StartTLS upgrade requires a TLS config")

// Resolver resolves a "host:port" address to a concrete TCP address before
// dialing. It mirrors *net.Resolver's ResolveTCPAddr signature so that a
// caller can pass the system resolver (net.DefaultResolver), a custom
// net.Resolver pointed at a different DNS server, or any other
// implementation (e.g. one backed by a service registry) without this
// package needing to know the difference.
type Resolver interface {
	ResolveTCPAddr(ctx context.Context, network, address string) (*net.TCPAddr, error)
}

// Config carries everything Dial needs beyond the target address.
type Config struct {
	// Resolver resolves host:port before dialing. Defaults to
	// net.DefaultResolver (the system resolver) when nil.
	Resolver Resolver
	// TLSConfig is used for implicit ldaps:// connections and, when a
	// StartTLS upgrade is requested, for the upgrade itself.
	TLSConfig *tls.Config
	// ProxyDialer, when set, is used in place of a direct net.Dialer --
	// e.g. a SOCKS dialer obtained from golang.org/x/net/proxy for an
	// ldap:// endpoint reachable only through a jump host.
	ProxyDialer proxy.Dialer
}

// DialTCP opens a plain TCP connection to address ("host:port"), resolving
// through cfg.Resolver (or the system resolver) first unless a ProxyDialer
// is configured, in which case resolution is delegated to the proxy.
func DialTCP(ctx context.Context, address string, cfg Config) (net.Conn, error) {
	if cfg.ProxyDialer != nil {
		return dialThroughProxy(ctx, cfg.ProxyDialer, address)
	}

	resolver := cfg.Resolver
	if resolver == nil {
		resolver = net.DefaultResolver
	}
	resolved, err := resolver.ResolveTCPAddr(ctx, "tcp", address)
	if err != nil {
		return nil, err
	}

	var d net.Dialer
	return d.DialContext(ctx, "tcp", resolved.String())
}

// dialThroughProxy adapts the context-less proxy.Dialer interface to this
// package's context-aware Dial functions, using proxy.Dialer's context-aware
// variant when the concrete dialer supports it (as x/net/proxy's SOCKS5
// dialer does via proxy.ContextDialer).
func dialThroughProxy(ctx context.Context, dialer proxy.Dialer, address string) (net.Conn, error) {
	if cd, ok := dialer.(proxy.ContextDialer); ok {
		return cd.DialContext(ctx, "tcp", address)
	}
	return dialer.Dial("tcp", address)
}

// DialTLS opens an implicitly-TLS connection (the ldaps:// scheme): dial
// plain TCP, then perform the TLS handshake before returning.
func DialTLS(ctx context.Context, address string, cfg Config) (net.Conn, error) {
	if cfg.TLSConfig == nil {
		return nil, ErrNoTLSConfig
	}
	raw, err := DialTCP(ctx, address, cfg)
	if err != nil {
		return nil, err
	}
	tlsConn := tls.Client(raw, cfg.TLSConfig)
	if err := tlsConn.HandshakeContext(ctx); err != nil {
		raw.Close()
		return nil, err
	}
	return tlsConn, nil
}

// DialUnix opens a Unix domain socket connection, for the ldapi:// scheme.
func DialUnix(ctx context.Context, path string) (net.Conn, error) {
	var d net.Dialer
	return d.DialContext(ctx, "unix", path)
}

// UpgradeTLS performs the StartTLS in-place upgrade: it wraps an already
// open, plaintext conn in a TLS client connection and completes the
// handshake, returning the new net.Conn the caller must read/write from
// instead of conn. The caller (internal/mux) is responsible for quiescing
// the reader loop around this call per spec.md's Open→Upgrading→Open state
// machine -- this function only performs the handshake itself.
func UpgradeTLS(ctx context.Context, conn net.Conn, cfg *tls.Config) (net.Conn, error) {
	if cfg == nil {
		return nil, ErrNoTLSConfig
	}
	tlsConn := tls.Client(conn, cfg)
	if err := tlsConn.HandshakeContext(ctx); err != nil {
		return nil, err
	}
	return tlsConn, nil
}

// ParseUnixSocketPath percent-decodes the host component of an ldapi:// URL
// into a filesystem path, per spec.md section 6: "ldapi://%2Fpath%2Fto%2Fsocket"
// (path percent-decoded).
func ParseUnixSocketPath(host string) (string, error) {
	return url.PathUnescape(host)
}
