// Package controls implements LDAP request/response controls: the Simple
// Paged Results control (RFC 2696) and the LDAP transaction Transaction
// Specification control (RFC 5805), plus an OID-keyed registry so a caller
// can decode an arbitrary response control without knowing its type ahead
// of time.
package controls

import (
	"github.com/oba-ldap/ldapc/internal/ber"
	"github.com/oba-ldap/ldapc/internal/ldap"
)

// PagedResultsOID is the OID for the Simple Paged Results Control (RFC 2696).
const PagedResultsOID = "1.2.840.113556.1.4.319"

// PagedResults represents the Simple Paged Results Control (RFC 2696). A
// client sends one with Size set to the desired page size and an empty
// Cookie to request the first page, then re-sends the Cookie the server
// returned in its response control to fetch the next page.
//
// realSearchControlValue ::= SEQUENCE {
//
//	size            INTEGER (0..maxInt),
//	cookie          OCTET STRING
//
// }
type PagedResults struct {
	// Size is the requested page size (client→server) or the server's
	// estimate of the total result count (server→client).
	Size int32
	// Cookie is an opaque cursor for pagination. An empty cookie on a
	// server response means there are no more pages.
	Cookie      []byte
	Criticality bool
}

// ParsePagedResults parses a PagedResults control value out of ctrl. Returns
// nil, nil if ctrl isn't a paged results control.
func ParsePagedResults(ctrl ldap.Control) (*PagedResults, error) {
	if ctrl.OID != PagedResultsOID {
		return nil, nil
	}

	pr := &PagedResults{Criticality: ctrl.Criticality}
	if len(ctrl.Value) == 0 {
		return pr, nil
	}

	decoder := ber.NewBERDecoder(ctrl.Value)
	if _, err := decoder.ExpectSequence(); err != nil {
		return nil, err
	}
	size, err := decoder.ReadInteger()
	if err != nil {
		return nil, err
	}
	pr.Size = int32(size)
	cookie, err := decoder.ReadOctetString()
	if err != nil {
		return nil, err
	}
	pr.Cookie = cookie
	return pr, nil
}

// Encode encodes the control value (the realSearchControlValue SEQUENCE).
func (p *PagedResults) Encode() ([]byte, error) {
	encoder := ber.NewBEREncoder(64)
	seqPos := encoder.BeginSequence()
	if err := encoder.WriteInteger(int64(p.Size)); err != nil {
		return nil, err
	}
	if err := encoder.WriteOctetString(p.Cookie); err != nil {
		return nil, err
	}
	if err := encoder.EndSequence(seqPos); err != nil {
		return nil, err
	}
	return encoder.Bytes(), nil
}

// ToLDAPControl wraps the control value as an ldap.Control ready to attach
// to a request's Controls field.
func (p *PagedResults) ToLDAPControl() (ldap.Control, error) {
	value, err := p.Encode()
	if err != nil {
		return ldap.Control{}, err
	}
	return ldap.Control{OID: PagedResultsOID, Criticality: p.Criticality, Value: value}, nil
}

// FindPagedResults returns the first PagedResults control in controls, or
// nil if none is present.
func FindPagedResults(controls []ldap.Control) (*PagedResults, error) {
	for _, ctrl := range controls {
		if ctrl.OID == PagedResultsOID {
			return ParsePagedResults(ctrl)
		}
	}
	return nil, nil
}
