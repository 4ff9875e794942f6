package commands

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/oba-ldap/ldapc"
	"github.com/oba-ldap/ldapc/cmd/obaldap/cmdutil"
)

var (
	searchScope string
	searchAttrs []string
	searchSize  int
	searchPage  int32
	typesOnly   bool
)

var searchCmd = &cobra.Command{
	Use:   "search <base-dn> <filter>",
	Short: "Run a search and print matching entries",
	Long: `Run a search and print every matching entry to stdout.

Examples:
  # Subtree search for all people under an organizational unit
  obaldap search -D 'cn=Manager,dc=example,dc=org' -w secret \
    'ou=People,dc=example,dc=org' '(objectClass=person)'

  # Paged search, 100 entries per page, only the cn and mail attributes
  obaldap search --page-size 100 -a cn -a mail \
    'dc=example,dc=org' '(objectClass=*)'`,
	Args: cobra.ExactArgs(2),
	RunE: runSearch,
}

func init() {
	flags := searchCmd.Flags()
	flags.StringVar(&searchScope, "scope", "sub", "Search scope: base, one, or sub")
	flags.StringArrayVarP(&searchAttrs, "attr", "a", nil, "Attribute to return (repeatable; omit for all)")
	flags.IntVar(&searchSize, "size-limit", 0, "Server-side size limit (0 = unlimited)")
	flags.Int32Var(&searchPage, "page-size", 0, "Request results via the Simple Paged Results control, this many entries per page (0 = disabled)")
	flags.BoolVar(&typesOnly, "types-only", false, "Return attribute names without values")
}

func parseScope(s string) (ldapc.SearchScope, error) {
	switch strings.ToLower(s) {
	case "base":
		return ldapc.ScopeBaseObject, nil
	case "one", "onelevel", "single":
		return ldapc.ScopeSingleLevel, nil
	case "sub", "subtree":
		return ldapc.ScopeWholeSubtree, nil
	default:
		return 0, fmt.Errorf("unknown scope %q (want base, one, or sub)", s)
	}
}

func runSearch(cmd *cobra.Command, args []string) error {
	scope, err := parseScope(searchScope)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	client, err := cmdutil.Connect(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = client.Unbind(ctx) }()

	opts := ldapc.SearchOptions{
		Scope:      scope,
		SizeLimit:  searchSize,
		TypesOnly:  typesOnly,
		Attributes: searchAttrs,
	}

	if searchPage > 0 {
		return runPagedSearch(cmd, client, args[0], args[1], opts)
	}

	reqCtx, cancel := cmdutil.RequestContext(ctx)
	defer cancel()
	entries, referrals, err := client.Search(reqCtx, args[0], args[1], opts)
	if err != nil {
		return err
	}
	printEntries(cmd, entries, referrals)
	return nil
}

// runPagedSearch drives the Simple Paged Results control (RFC 2696) across
// as many pages as the server has, one SearchStream call per page.
func runPagedSearch(cmd *cobra.Command, client *ldapc.Client, baseDN, filterStr string, opts ldapc.SearchOptions) error {
	var cookie []byte
	for page := 1; ; page++ {
		pr := &ldapc.PagedResults{Size: searchPage, Cookie: cookie}
		ctrl, err := pr.ToLDAPControl()
		if err != nil {
			return err
		}

		reqCtx, cancel := cmdutil.RequestContext(cmd.Context())
		cursor, err := client.WithControls(ctrl).SearchStream(reqCtx, baseDN, filterStr, opts)
		if err != nil {
			cancel()
			return err
		}

		var entries []*ldapc.Entry
		var referrals []ldapc.Referral
		for {
			entry, ref, done, nerr := cursor.Next(reqCtx)
			if nerr != nil {
				cancel()
				return nerr
			}
			if entry != nil {
				entries = append(entries, entry)
			}
			if ref != nil {
				referrals = append(referrals, *ref)
			}
			if done {
				break
			}
		}
		cancel()
		printEntries(cmd, entries, referrals)
		fmt.Fprintf(cmd.ErrOrStderr(), "--- page %d: %d entries ---\n", page, len(entries))

		next, perr := ldapc.FindPagedResults(cursor.ResponseControls())
		if perr != nil {
			return perr
		}
		if next == nil || len(next.Cookie) == 0 {
			return nil
		}
		cookie = next.Cookie
	}
}

func printEntries(cmd *cobra.Command, entries []*ldapc.Entry, referrals []ldapc.Referral) {
	out := cmd.OutOrStdout()
	for _, e := range entries {
		fmt.Fprintf(out, "dn: %s\n", e.DN)
		for _, a := range e.Attributes {
			for _, v := range a.Values {
				fmt.Fprintf(out, "%s: %s\n", a.Type, v)
			}
		}
		fmt.Fprintln(out)
	}
	for _, r := range referrals {
		fmt.Fprintf(out, "ref: %s\n\n", strings.Join(r.URIs, " "))
	}
}
