package ldapc

import (
	"github.com/jcmturner/gokrb5/v8/client"

	"github.com/oba-ldap/ldapc/internal/sasl"
)

// SASLExchanger drives one SASL mechanism's challenge/response loop for
// BindSASL. See internal/sasl.Exchanger for the contract.
type SASLExchanger = sasl.Exchanger

// NewSASLExternal returns a SASLExchanger for the SASL EXTERNAL mechanism
// (RFC 4422 appendix A): the bind asserts authzID as the authorization
// identity, relying on authentication already performed by a lower layer
// (a TLS client certificate, Unix socket peer credentials). An empty
// authzID derives the identity from whatever the lower layer authenticated.
func NewSASLExternal(authzID string) SASLExchanger {
	return &sasl.External{AuthzID: authzID}
}

// NewSASLGSSAPI returns a SASLExchanger for the SASL GSSAPI mechanism (RFC
// 4752), presenting a Kerberos service ticket for spn over an already
// configured gokrb5 client (built with client.NewWithPassword or
// client.NewWithKeytab).
func NewSASLGSSAPI(cl *client.Client, spn string) SASLExchanger {
	return sasl.NewGSSAPI(cl, spn)
}
