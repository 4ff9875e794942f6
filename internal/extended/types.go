// Package extended implements the LDAP extended operation envelope (RFC
// 4511 Section 4.12) plus typed builders/parsers for the well-known
// extended operations a client actually issues: StartTLS, Who Am I?, and
// Password Modify.
package extended

import (
	"github.com/oba-ldap/ldapc/internal/ber"
	"github.com/oba-ldap/ldapc/internal/ldap"
)

// Context-specific tags used by the ExtendedRequest/ExtendedResponse envelope.
const (
	tagRequestName   = 0
	tagRequestValue  = 1
	tagResponseName  = 10
	tagResponseValue = 11
)

// Request represents an LDAP Extended Request.
// Per RFC 4511 Section 4.12:
// ExtendedRequest ::= [APPLICATION 23] SEQUENCE {
//
//	requestName      [0] LDAPOID,
//	requestValue     [1] OCTET STRING OPTIONAL
//
// }
type Request struct {
	OID   string
	Value []byte
}

// Encode encodes the Request to BER format, including the APPLICATION 23 tag.
func (r *Request) Encode() ([]byte, error) {
	encoder := ber.NewBEREncoder(128)
	appPos := encoder.WriteApplicationTag(ldap.ApplicationExtendedRequest, true)
	if err := encoder.WriteTaggedValue(tagRequestName, false, []byte(r.OID)); err != nil {
		return nil, err
	}
	if r.Value != nil {
		if err := encoder.WriteTaggedValue(tagRequestValue, false, r.Value); err != nil {
			return nil, err
		}
	}
	if err := encoder.EndApplicationTag(appPos); err != nil {
		return nil, err
	}
	return encoder.Bytes(), nil
}

// ParseRequest parses a Request from raw operation data. A client never
// receives an ExtendedRequest, but this exists for round-trip tests and for
// anything that wants to log what it sent.
func ParseRequest(data []byte) (*Request, error) {
	if len(data) == 0 {
		return nil, ldap.NewParseError(0, "empty extended request data", nil)
	}
	decoder := ber.NewBERDecoder(data)
	req := &Request{}

	tagNum, _, oidBytes, err := decoder.ReadTaggedValue()
	if err != nil {
		return nil, ldap.NewParseError(decoder.Offset(), "failed to read requestName", err)
	}
	if tagNum != tagRequestName {
		return nil, ldap.NewParseError(decoder.Offset(), "expected context tag [0] for requestName", nil)
	}
	req.OID = string(oidBytes)

	if decoder.Remaining() > 0 && decoder.IsContextTag(tagRequestValue) {
		tagNum, _, valueBytes, err := decoder.ReadTaggedValue()
		if err != nil {
			return nil, ldap.NewParseError(decoder.Offset(), "failed to read requestValue", err)
		}
		if tagNum != tagRequestValue {
			return nil, ldap.NewParseError(decoder.Offset(), "expected context tag [1] for requestValue", nil)
		}
		req.Value = valueBytes
	}

	return req, nil
}

// Response represents an LDAP Extended Response.
// Per RFC 4511 Section 4.12:
// ExtendedResponse ::= [APPLICATION 24] SEQUENCE {
//
//	COMPONENTS OF LDAPResult,
//	responseName     [10] LDAPOID OPTIONAL,
//	responseValue    [11] OCTET STRING OPTIONAL
//
// }
type Response struct {
	ldap.LDAPResult
	OID   string
	Value []byte
}

// ParseResponse parses a Response from the contents of an APPLICATION 24 tag.
func ParseResponse(data []byte) (*Response, error) {
	decoder := ber.NewBERDecoder(data)

	result, err := ldap.ParseLDAPResult(decoder)
	if err != nil {
		return nil, err
	}
	resp := &Response{LDAPResult: result}

	for decoder.Remaining() > 0 {
		if decoder.IsContextTag(tagResponseName) {
			_, _, oidBytes, err := decoder.ReadTaggedValue()
			if err != nil {
				return nil, ldap.NewParseError(decoder.Offset(), "failed to read responseName", err)
			}
			resp.OID = string(oidBytes)
			continue
		}
		if decoder.IsContextTag(tagResponseValue) {
			_, _, valueBytes, err := decoder.ReadTaggedValue()
			if err != nil {
				return nil, ldap.NewParseError(decoder.Offset(), "failed to read responseValue", err)
			}
			resp.Value = valueBytes
			continue
		}
		// Unrecognized trailing field (e.g. a control-bearing server quirk); skip it.
		if err := decoder.Skip(); err != nil {
			return nil, ldap.NewParseError(decoder.Offset(), "failed to skip unexpected extended response field", err)
		}
	}

	return resp, nil
}

// Encode encodes the Response to BER format, including the APPLICATION 24 tag.
// Used by round-trip tests against ParseResponse.
func (r *Response) Encode() ([]byte, error) {
	encoder := ber.NewBEREncoder(128)
	appPos := encoder.WriteApplicationTag(ldap.ApplicationExtendedResponse, true)
	if err := r.LDAPResult.Encode(encoder); err != nil {
		return nil, err
	}
	if r.OID != "" {
		if err := encoder.WriteTaggedValue(tagResponseName, false, []byte(r.OID)); err != nil {
			return nil, err
		}
	}
	if len(r.Value) > 0 {
		if err := encoder.WriteTaggedValue(tagResponseValue, false, r.Value); err != nil {
			return nil, err
		}
	}
	if err := encoder.EndApplicationTag(appPos); err != nil {
		return nil, err
	}
	return encoder.Bytes(), nil
}
