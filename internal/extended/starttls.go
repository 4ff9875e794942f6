package extended

// NewStartTLSRequest builds the ExtendedRequest that negotiates a TLS upgrade
// on an already-open connection. It carries no request value; success is
// signaled solely by a success resultCode in the matching Response.
func NewStartTLSRequest() *Request {
	return &Request{OID: OIDStartTLS}
}
