// Package config loads and validates on-disk YAML connection profiles for
// ldapc clients and the obaldap CLI.
//
// # Loading a profile
//
//	cfg, err := config.Load("profile.yaml")
//	if err != nil {
//	    // ...
//	}
//	if errs := config.Validate(cfg); len(errs) > 0 {
//	    // ...
//	}
//
// # Environment variable expansion
//
// ${VAR} and ${VAR:-default} references anywhere in the YAML document are
// expanded against the process environment before parsing, so a committed
// profile can keep secrets like bind passwords out of the file:
//
//	bind:
//	  dn: uid=svc-ldapc,ou=users,dc=example,dc=com
//	  password: ${LDAPC_BIND_PASSWORD}
//
// # Defaults
//
// Load and Parse start from DefaultConfig and merge the YAML document onto
// it field by field, so a profile only needs to name what it overrides.
package config
