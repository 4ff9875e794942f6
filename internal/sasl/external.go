package sasl

// External implements the SASL EXTERNAL mechanism (RFC 4422 appendix A):
// authentication has already happened at a lower layer -- a client
// certificate presented during the TLS handshake, or peer credentials on a
// Unix domain socket -- and the bind simply asserts (optionally) which
// authorization identity to use.
type External struct {
	// AuthzID is the optional authorization identity string (e.g.
	// "dn:uid=alice,ou=users,dc=example,dc=com"). Empty means "derive it
	// from whatever the lower layer already authenticated".
	AuthzID string
}

func (e *External) Mechanism() string { return "EXTERNAL" }

// Step is a single round trip: there is nothing to negotiate, so the first
// call both sends the authorization identity and completes the exchange.
func (e *External) Step(challenge []byte) ([]byte, bool, error) {
	if e.AuthzID == "" {
		return nil, true, nil
	}
	return []byte(e.AuthzID), true, nil
}
