package transport

import (
	"context"
	"net"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestDialUnix(t *testing.T) {
	dir := t.TempDir()
	sockPath := filepath.Join(dir, "ldap.sock")

	ln, err := net.Listen("unix", sockPath)
	require.NoError(t, err)
	defer ln.Close()

	accepted := make(chan net.Conn, 1)
	go func() {
		conn, err := ln.Accept()
		if err == nil {
			accepted <- conn
		}
	}()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	conn, err := DialUnix(ctx, sockPath)
	require.NoError(t, err)
	defer conn.Close()

	select {
	case server := <-accepted:
		server.Close()
	case <-time.After(2 * time.Second):
		t.Fatal("server never accepted the connection")
	}
}

func TestParseUnixSocketPath(t *testing.T) {
	path, err := ParseUnixSocketPath("%2Fvar%2Frun%2Fldapi")
	require.NoError(t, err)
	require.Equal(t, "/var/run/ldapi", path)
}

func TestDialTLSRequiresConfig(t *testing.T) {
	_, err := DialTLS(context.Background(), "localhost:3890", Config{})
	require.ErrorIs(t, err, ErrNoTLSConfig)
}

func TestUpgradeTLSRequiresConfig(t *testing.T) {
	server, client := net.Pipe()
	defer server.Close()
	defer client.Close()

	_, err := UpgradeTLS(context.Background(), client, nil)
	require.ErrorIs(t, err, ErrNoTLSConfig)
}
