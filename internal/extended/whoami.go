package extended

// NewWhoAmIRequest builds the ExtendedRequest for RFC 4532's Who Am I?
// operation. It carries no request value.
func NewWhoAmIRequest() *Request {
	return &Request{OID: OIDWhoAmI}
}

// ParseWhoAmIResponseValue interprets the responseValue of a Who Am I?
// Response as the authzId string. Per RFC 4532 Section 2 the value is not
// wrapped in any further BER structure, just the raw authzId bytes
// (expected shape "dn:..." or "u:...").
func ParseWhoAmIResponseValue(value []byte) string {
	return string(value)
}
