package commands

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/oba-ldap/ldapc"
	"github.com/oba-ldap/ldapc/cmd/obaldap/cmdutil"
)

var addAttrs []string

var addCmd = &cobra.Command{
	Use:   "add <dn>",
	Short: "Create a new entry",
	Long: `Create a new entry with the given attributes.

Example:
  obaldap add 'cn=New User,ou=People,dc=example,dc=org' \
    -a objectClass=inetOrgPerson -a cn=New -a sn=User`,
	Args: cobra.ExactArgs(1),
	RunE: runAdd,
}

func init() {
	addCmd.Flags().StringArrayVarP(&addAttrs, "attr", "a", nil, "attr=value pair (repeatable; repeat the attr name for multiple values)")
}

func runAdd(cmd *cobra.Command, args []string) error {
	attrs, err := parseAttrPairs(addAttrs)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	client, err := cmdutil.Connect(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = client.Unbind(ctx) }()

	reqCtx, cancel := cmdutil.RequestContext(ctx)
	defer cancel()
	if err := client.Add(reqCtx, args[0], attrs); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "added %s\n", args[0])
	return nil
}

// parseAttrPairs groups repeated "attr=value" flags into one ldapc.Attribute
// per distinct attr name, preserving the order each attr first appeared in.
func parseAttrPairs(pairs []string) ([]ldapc.Attribute, error) {
	var order []string
	byName := make(map[string][][]byte)
	for _, pair := range pairs {
		eq := strings.IndexByte(pair, '=')
		if eq < 0 {
			return nil, fmt.Errorf("invalid -a value %q, want attr=value", pair)
		}
		name, value := pair[:eq], pair[eq+1:]
		if _, seen := byName[name]; !seen {
			order = append(order, name)
		}
		byName[name] = append(byName[name], []byte(value))
	}

	attrs := make([]ldapc.Attribute, 0, len(order))
	for _, name := range order {
		attrs = append(attrs, ldapc.Attribute{Type: name, Values: byName[name]})
	}
	return attrs, nil
}
