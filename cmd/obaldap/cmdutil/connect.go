// Package cmdutil provides shared connection/bind plumbing for obaldap's
// subcommands: every command needs the same "parse global flags, dial,
// optionally bind" preamble, so it lives here once instead of once per file.
package cmdutil

import (
	"context"
	"crypto/tls"
	"fmt"
	"time"

	"golang.org/x/net/proxy"

	"github.com/oba-ldap/ldapc"
)

// Flags holds the persistent (root-level) flag values every subcommand
// reads to build its Client.
var Flags = &GlobalFlags{}

// GlobalFlags mirrors the connection configuration spec.md section 6
// describes, plus the bind credentials a command needs before it can do
// anything else.
type GlobalFlags struct {
	URL         string
	BindDN      string
	BindPasswd  string
	StartTLS    bool
	Insecure    bool
	Timeout     time.Duration
	RequestTime time.Duration
	Verbose     bool
	SOCKSProxy  string
}

// Connect dials Flags.URL with the configured TLS/StartTLS posture and, if
// BindDN or BindPasswd is set, performs a simple bind before returning the
// Client. With both empty no bind is sent.
func Connect(ctx context.Context) (*ldapc.Client, error) {
	if Flags.URL == "" {
		return nil, fmt.Errorf("obaldap: --url is required")
	}

	cfg := ldapc.Config{
		ConnTimeout: Flags.Timeout,
		StartTLS:    Flags.StartTLS,
		NoTLSVerify: Flags.Insecure,
		TLSConfig:   &tls.Config{},
	}
	if Flags.Verbose {
		cfg.Logger = ldapc.NewDefaultLogger()
	}
	if Flags.SOCKSProxy != "" {
		dialer, err := proxy.SOCKS5("tcp", Flags.SOCKSProxy, nil, proxy.Direct)
		if err != nil {
			return nil, fmt.Errorf("obaldap: socks proxy %s: %w", Flags.SOCKSProxy, err)
		}
		cfg.ProxyDialer = dialer
	}

	client, err := ldapc.Connect(ctx, Flags.URL, cfg)
	if err != nil {
		return nil, fmt.Errorf("connect %s: %w", Flags.URL, err)
	}

	if Flags.BindDN != "" || Flags.BindPasswd != "" {
		bindCtx := ctx
		if Flags.RequestTime > 0 {
			var cancel context.CancelFunc
			bindCtx, cancel = context.WithTimeout(ctx, Flags.RequestTime)
			defer cancel()
		}
		if err := client.BindSimple(bindCtx, Flags.BindDN, Flags.BindPasswd); err != nil {
			_ = client.Close()
			return nil, fmt.Errorf("bind as %s: %w", Flags.BindDN, err)
		}
	}

	return client, nil
}

// RequestContext derives a context bounded by Flags.RequestTime, if set,
// from parent. The returned cancel must be called once the request completes.
func RequestContext(parent context.Context) (context.Context, context.CancelFunc) {
	if Flags.RequestTime <= 0 {
		return parent, func() {}
	}
	return context.WithTimeout(parent, Flags.RequestTime)
}
