package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	t.Run("connection defaults", func(t *testing.T) {
		if cfg.Connection.URL != "ldap://localhost:389" {
			t.Errorf("expected url 'ldap://localhost:389', got %q", cfg.Connection.URL)
		}
		if cfg.Connection.StartTLS {
			t.Errorf("expected startTLS false by default")
		}
		if cfg.Connection.DialTimeout != 0 {
			t.Errorf("expected no dial timeout by default, got %v", cfg.Connection.DialTimeout)
		}
	})

	t.Run("tls defaults", func(t *testing.T) {
		if cfg.TLS.InsecureSkipVerify {
			t.Errorf("expected certificate verification enabled by default")
		}
	})

	t.Run("logging defaults", func(t *testing.T) {
		if cfg.Logging.Level != "info" {
			t.Errorf("expected log level 'info', got %q", cfg.Logging.Level)
		}
		if cfg.Logging.Format != "text" {
			t.Errorf("expected log format 'text', got %q", cfg.Logging.Format)
		}
		if cfg.Logging.Output != "stderr" {
			t.Errorf("expected log output 'stderr', got %q", cfg.Logging.Output)
		}
	})
}

func TestParseMergesOntoDefaults(t *testing.T) {
	data := []byte(`
connection:
  url: ldaps://dc1.example.com:636
bind:
  dn: uid=alice,ou=users,dc=example,dc=com
`)

	cfg, err := Parse(data)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}

	if cfg.Connection.URL != "ldaps://dc1.example.com:636" {
		t.Errorf("expected overridden url, got %q", cfg.Connection.URL)
	}
	if cfg.Bind.DN != "uid=alice,ou=users,dc=example,dc=com" {
		t.Errorf("expected overridden bind dn, got %q", cfg.Bind.DN)
	}
	// Untouched sections keep their defaults.
	if cfg.Logging.Level != "info" {
		t.Errorf("expected default log level to survive merge, got %q", cfg.Logging.Level)
	}
}

func TestParseExpandsEnvVars(t *testing.T) {
	t.Setenv("LDAPC_TEST_PASSWORD", "hunter2")

	data := []byte(`
bind:
  dn: uid=alice,ou=users,dc=example,dc=com
  password: ${LDAPC_TEST_PASSWORD}
connection:
  url: ${LDAPC_TEST_URL:-ldap://fallback.example.com:389}
`)

	cfg, err := Parse(data)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}

	if cfg.Bind.Password != "hunter2" {
		t.Errorf("expected expanded password, got %q", cfg.Bind.Password)
	}
	if cfg.Connection.URL != "ldap://fallback.example.com:389" {
		t.Errorf("expected default fallback, got %q", cfg.Connection.URL)
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "does-not-exist.yaml"))
	if err != ErrFileNotFound {
		t.Errorf("expected ErrFileNotFound, got %v", err)
	}
}

func TestLoadFromDisk(t *testing.T) {
	path := filepath.Join(t.TempDir(), "profile.yaml")
	content := "connection:\n  url: ldap://dc2.example.com:389\n  requestTimeout: 5s\n"
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Connection.URL != "ldap://dc2.example.com:389" {
		t.Errorf("expected loaded url, got %q", cfg.Connection.URL)
	}
	if cfg.Connection.RequestTimeout != 5*time.Second {
		t.Errorf("expected 5s request timeout, got %v", cfg.Connection.RequestTimeout)
	}
}

func TestValidateRejectsBadURLScheme(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Connection.URL = "http://example.com"

	errs := Validate(cfg)
	if len(errs) == 0 {
		t.Fatal("expected a validation error for a non-LDAP scheme")
	}
}

func TestValidateRejectsMismatchedClientCertPair(t *testing.T) {
	cfg := DefaultConfig()
	cfg.TLS.CertFile = "/etc/ldapc/client.crt"

	errs := Validate(cfg)
	if len(errs) == 0 {
		t.Fatal("expected a validation error for certFile without keyFile")
	}
}

func TestValidateAcceptsDefaults(t *testing.T) {
	errs := Validate(DefaultConfig())
	if len(errs) != 0 {
		t.Fatalf("expected no validation errors on defaults, got %v", errs)
	}
}
