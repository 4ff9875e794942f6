package config

import (
	"fmt"
	"os"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"
)

// ErrFileNotFound is returned by Load when the given path does not exist.
var ErrFileNotFound = fmt.Errorf("config: file not found")

// envPattern matches ${VAR} and ${VAR:-default}.
var envPattern = regexp.MustCompile(`\$\{([^}]+)\}`)

// Load reads a YAML connection profile from path, expands environment
// variable references, and merges it onto DefaultConfig.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrFileNotFound
		}
		return nil, err
	}
	return Parse(data)
}

// Parse parses a YAML connection profile from data, expands environment
// variable references, and merges it onto DefaultConfig. A bind password
// of "${LDAP_PASSWORD}" lets a profile committed to a repository pull its
// secret from the environment at load time rather than storing it.
func Parse(data []byte) (*Config, error) {
	data = substituteEnvVars(data)

	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("config: parse yaml: %w", err)
	}
	return cfg, nil
}

// substituteEnvVars replaces ${VAR} with os.Getenv(VAR) and ${VAR:-default}
// with the environment value or, when unset or empty, default.
func substituteEnvVars(data []byte) []byte {
	return envPattern.ReplaceAllFunc(data, func(match []byte) []byte {
		content := string(match[2 : len(match)-1])

		if idx := strings.Index(content, ":-"); idx != -1 {
			varName := content[:idx]
			defaultVal := content[idx+2:]
			if val := os.Getenv(varName); val != "" {
				return []byte(val)
			}
			return []byte(defaultVal)
		}

		return []byte(os.Getenv(content))
	})
}
