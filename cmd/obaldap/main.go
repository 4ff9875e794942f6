// Command obaldap is a command-line client exercising the ldapc package:
// bind, search, add, modify, delete, modifydn, compare, and whoami against
// an ldap://, ldaps://, or ldapi:// endpoint.
package main

import (
	"fmt"
	"os"

	"github.com/oba-ldap/ldapc/cmd/obaldap/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
