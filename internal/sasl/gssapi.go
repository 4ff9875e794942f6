package sasl

import (
	"fmt"

	"github.com/jcmturner/gokrb5/v8/client"
	"github.com/jcmturner/gokrb5/v8/messages"
	"github.com/jcmturner/gokrb5/v8/types"
)

// krb5OID is the DER encoding of the Kerberos V5 mechanism OID
// (1.2.840.113554.1.2.2), RFC 4121 section 1.
var krb5OID = []byte{0x06, 0x09, 0x2a, 0x86, 0x48, 0x86, 0xf7, 0x12, 0x01, 0x02, 0x02}

// GSSAPI implements the SASL GSSAPI mechanism (RFC 4752): a two-round-trip
// exchange built on an already-configured Kerberos client from
// github.com/jcmturner/gokrb5/v8/client, used here to acquire a service
// ticket.
type GSSAPI struct {
	// Client is a logged-in (or login-capable) Kerberos client, built with
	// client.NewWithPassword or client.NewWithKeytab.
	Client *client.Client
	// SPN is the target service principal name, e.g. "ldap/dc1.example.com".
	SPN string

	step int
}

// NewGSSAPI returns an Exchanger for the given Kerberos client and target
// service principal.
func NewGSSAPI(cl *client.Client, spn string) *GSSAPI {
	return &GSSAPI{Client: cl, SPN: spn}
}

func (g *GSSAPI) Mechanism() string { return "GSSAPI" }

func (g *GSSAPI) Step(challenge []byte) ([]byte, bool, error) {
	switch g.step {
	case 0:
		g.step++
		return g.initialToken()
	case 1:
		g.step++
		return g.securityLayerReply(challenge)
	default:
		return nil, true, ErrExchangeComplete
	}
}

// initialToken logs in (if not already) and presents the service ticket for
// SPN as a raw GSS-API init token -- the AP-REQ, wrapped in the generic
// framing RFC 2743 section 3.1 defines, with no SPNEGO layer: LDAP's SASL
// GSSAPI binding carries the Kerberos mechanism token directly.
func (g *GSSAPI) initialToken() ([]byte, bool, error) {
	if err := g.Client.Login(); err != nil {
		return nil, false, fmt.Errorf("sasl: kerberos login failed: %w", err)
	}

	tkt, sessionKey, err := g.Client.GetServiceTicket(g.SPN)
	if err != nil {
		return nil, false, fmt.Errorf("sasl: get service ticket for %s: %w", g.SPN, err)
	}

	auth, err := types.NewAuthenticator(g.Client.Credentials.Domain(), g.Client.Credentials.CName())
	if err != nil {
		return nil, false, fmt.Errorf("sasl: build authenticator: %w", err)
	}

	apReq, err := messages.NewAPReq(tkt, sessionKey, auth)
	if err != nil {
		return nil, false, fmt.Errorf("sasl: build AP-REQ: %w", err)
	}

	reqBytes, err := apReq.Marshal()
	if err != nil {
		return nil, false, fmt.Errorf("sasl: marshal AP-REQ: %w", err)
	}

	return wrapGSSToken(reqBytes), false, nil
}

// securityLayerReply answers the server's security-layer negotiation
// offer (RFC 4752 section 3.1: one octet of layer bitmask, three octets of
// maximum buffer size). This client only ever replies noSecurityLayer
// (0x01) with a zero buffer size -- it does not implement a GSSAPI
// confidentiality or integrity wrap/unwrap layer over the LDAP connection
// after the bind completes, only the authentication exchange itself.
func (g *GSSAPI) securityLayerReply(serverOffer []byte) ([]byte, bool, error) {
	if len(serverOffer) < 4 {
		return nil, true, fmt.Errorf("sasl: malformed GSSAPI security layer offer (%d bytes)", len(serverOffer))
	}
	return []byte{0x01, 0x00, 0x00, 0x00}, true, nil
}

// wrapGSSToken wraps an inner mechanism token in the generic GSS-API token
// framing RFC 2743 section 3.1 defines: an APPLICATION 0 (constructed) tag,
// a DER length, the mechanism OID, then the inner token verbatim.
func wrapGSSToken(inner []byte) []byte {
	body := make([]byte, 0, len(krb5OID)+len(inner))
	body = append(body, krb5OID...)
	body = append(body, inner...)

	out := []byte{0x60}
	out = append(out, derLength(len(body))...)
	out = append(out, body...)
	return out
}

func derLength(n int) []byte {
	if n < 128 {
		return []byte{byte(n)}
	}
	var lenBytes []byte
	for n > 0 {
		lenBytes = append([]byte{byte(n & 0xFF)}, lenBytes...)
		n >>= 8
	}
	return append([]byte{0x80 | byte(len(lenBytes))}, lenBytes...)
}
