// Package commands implements the obaldap CLI commands.
package commands

import (
	"github.com/spf13/cobra"

	"github.com/oba-ldap/ldapc/cmd/obaldap/cmdutil"
)

// Version information injected at build time.
var (
	Version = "dev"
	Commit  = "none"
)

var rootCmd = &cobra.Command{
	Use:   "obaldap",
	Short: "obaldap is a command-line LDAP client",
	Long: `obaldap drives an RFC 4511 LDAP connection from the command line:
bind, search, add, modify, delete, modifydn, compare, and whoami, over
ldap://, ldaps://, or ldapi:// endpoints.

Use "obaldap [command] --help" for more information about a command.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute adds all child commands to the root command and runs it.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.StringVar(&cmdutil.Flags.URL, "url", "ldap://localhost:389", "Server URL (ldap://, ldaps://, or ldapi://)")
	flags.StringVarP(&cmdutil.Flags.BindDN, "bind-dn", "D", "", "Bind DN (omit for anonymous)")
	flags.StringVarP(&cmdutil.Flags.BindPasswd, "bind-password", "w", "", "Bind password")
	flags.BoolVar(&cmdutil.Flags.StartTLS, "starttls", false, "Upgrade an ldap:// connection with StartTLS")
	flags.BoolVarP(&cmdutil.Flags.Insecure, "insecure", "k", false, "Skip TLS certificate verification")
	flags.DurationVar(&cmdutil.Flags.Timeout, "connect-timeout", 0, "Connection dial timeout (0 = none)")
	flags.DurationVar(&cmdutil.Flags.RequestTime, "request-timeout", 0, "Per-operation deadline (0 = none)")
	flags.BoolVarP(&cmdutil.Flags.Verbose, "verbose", "v", false, "Log protocol-level diagnostics to stderr")
	flags.StringVar(&cmdutil.Flags.SOCKSProxy, "socks-proxy", "", "Dial through a SOCKS5 proxy at host:port")

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(searchCmd)
	rootCmd.AddCommand(addCmd)
	rootCmd.AddCommand(modifyCmd)
	rootCmd.AddCommand(deleteCmd)
	rootCmd.AddCommand(modifyDNCmd)
	rootCmd.AddCommand(compareCmd)
	rootCmd.AddCommand(whoamiCmd)
}
