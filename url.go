package ldapc

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/oba-ldap/ldapc/internal/transport"
)

// Scheme identifies which of the three URL schemes spec.md section 6
// defines a parsed endpoint uses.
type Scheme int

const (
	// SchemeLDAP is a plaintext TCP connection, default port 389.
	SchemeLDAP Scheme = iota
	// SchemeLDAPS is an implicit-TLS TCP connection, default port 636.
	SchemeLDAPS
	// SchemeLDAPI is a Unix domain socket connection.
	SchemeLDAPI
)

// String returns the URL scheme name.
func (s Scheme) String() string {
	switch s {
	case SchemeLDAP:
		return "ldap"
	case SchemeLDAPS:
		return "ldaps"
	case SchemeLDAPI:
		return "ldapi"
	default:
		return "unknown"
	}
}

// Endpoint is a parsed connection target.
type Endpoint struct {
	Scheme Scheme
	// Address is "host:port" for SchemeLDAP/SchemeLDAPS, or a filesystem
	// path for SchemeLDAPI.
	Address string
	// Host is the bare hostname (no port), used for certificate
	// verification when the caller hasn't overridden ServerName. Empty for
	// SchemeLDAPI.
	Host string
}

// ParseURL parses an ldap://, ldaps://, or ldapi:// endpoint per spec.md
// section 6: default ports 389/636, and ldapi's host component
// percent-decoded into a Unix socket path.
func ParseURL(raw string) (*Endpoint, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return nil, &Error{Kind: Protocol, Err: fmt.Errorf("ldapc: invalid url: %w", err)}
	}

	switch strings.ToLower(u.Scheme) {
	case "ldap":
		return &Endpoint{Scheme: SchemeLDAP, Address: hostPort(u, "389"), Host: u.Hostname()}, nil
	case "ldaps":
		return &Endpoint{Scheme: SchemeLDAPS, Address: hostPort(u, "636"), Host: u.Hostname()}, nil
	case "ldapi":
		path, err := transport.ParseUnixSocketPath(u.Host)
		if err != nil {
			return nil, &Error{Kind: Protocol, Err: fmt.Errorf("ldapc: invalid ldapi socket path: %w", err)}
		}
		return &Endpoint{Scheme: SchemeLDAPI, Address: path}, nil
	default:
		return nil, &Error{Kind: Protocol, Err: fmt.Errorf("ldapc: unsupported url scheme %q", u.Scheme)}
	}
}

func hostPort(u *url.URL, defaultPort string) string {
	host := u.Hostname()
	port := u.Port()
	if port == "" {
		port = defaultPort
	}
	return host + ":" + port
}
