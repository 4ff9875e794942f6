// Package ldap implements LDAP protocol message parsing and encoding
// as specified in RFC 4511.
package ldap

import (
	"errors"

	"github.com/oba-ldap/ldapc/internal/ber"
	"github.com/oba-ldap/ldapc/internal/filter"
)

// SearchScope represents the scope of an LDAP search operation.
type SearchScope int

const (
	// ScopeBaseObject searches only the base object.
	ScopeBaseObject SearchScope = 0
	// ScopeSingleLevel searches one level below the base object.
	ScopeSingleLevel SearchScope = 1
	// ScopeWholeSubtree searches the entire subtree.
	ScopeWholeSubtree SearchScope = 2
)

// String returns the string representation of the search scope.
func (s SearchScope) String() string {
	switch s {
	case ScopeBaseObject:
		return "BaseObject"
	case ScopeSingleLevel:
		return "SingleLevel"
	case ScopeWholeSubtree:
		return "WholeSubtree"
	default:
		return "Unknown"
	}
}

// DerefAliases represents how aliases should be dereferenced during search.
type DerefAliases int

const (
	// DerefNever never dereferences aliases.
	DerefNever DerefAliases = 0
	// DerefInSearching dereferences aliases when searching subordinates.
	DerefInSearching DerefAliases = 1
	// DerefFindingBaseObj dereferences aliases when finding the base object.
	DerefFindingBaseObj DerefAliases = 2
	// DerefAlways always dereferences aliases.
	DerefAlways DerefAliases = 3
)

// String returns the string representation of the deref aliases setting.
func (d DerefAliases) String() string {
	switch d {
	case DerefNever:
		return "NeverDerefAliases"
	case DerefInSearching:
		return "DerefInSearching"
	case DerefFindingBaseObj:
		return "DerefFindingBaseObj"
	case DerefAlways:
		return "DerefAlways"
	default:
		return "Unknown"
	}
}

// SearchRequest represents an LDAP Search Request.
// SearchRequest ::= [APPLICATION 3] SEQUENCE {
//
//	baseObject      LDAPDN,
//	scope           ENUMERATED { baseObject(0), singleLevel(1), wholeSubtree(2) },
//	derefAliases    ENUMERATED { neverDerefAliases(0), derefInSearching(1),
//	                             derefFindingBaseObj(2), derefAlways(3) },
//	sizeLimit       INTEGER (0 .. maxInt),
//	timeLimit       INTEGER (0 .. maxInt),
//	typesOnly       BOOLEAN,
//	filter          Filter,
//	attributes      AttributeSelection
//
// }
type SearchRequest struct {
	BaseObject   string
	Scope        SearchScope
	DerefAliases DerefAliases
	SizeLimit    int
	TimeLimit    int
	TypesOnly    bool
	Filter       *filter.Filter
	Attributes   []string
}

// Errors for SearchRequest parsing and encoding.
var (
	ErrInvalidSearchScope  = errors.New("ldap: invalid search scope")
	ErrInvalidDerefAliases = errors.New("ldap: invalid deref aliases value")
	ErrMissingSearchFilter = errors.New("ldap: search request requires a filter")
)

// Encode encodes the SearchRequest to BER format (without the APPLICATION tag).
func (r *SearchRequest) Encode() ([]byte, error) {
	if r.Filter == nil {
		return nil, ErrMissingSearchFilter
	}

	encoder := ber.NewBEREncoder(256)

	if err := encoder.WriteOctetString([]byte(r.BaseObject)); err != nil {
		return nil, err
	}
	if err := encoder.WriteEnumerated(int64(r.Scope)); err != nil {
		return nil, err
	}
	if err := encoder.WriteEnumerated(int64(r.DerefAliases)); err != nil {
		return nil, err
	}
	if err := encoder.WriteInteger(int64(r.SizeLimit)); err != nil {
		return nil, err
	}
	if err := encoder.WriteInteger(int64(r.TimeLimit)); err != nil {
		return nil, err
	}
	if err := encoder.WriteBoolean(r.TypesOnly); err != nil {
		return nil, err
	}
	if err := filter.Encode(encoder, r.Filter); err != nil {
		return nil, err
	}

	attrsPos := encoder.BeginSequence()
	for _, attr := range r.Attributes {
		if err := encoder.WriteOctetString([]byte(attr)); err != nil {
			return nil, err
		}
	}
	if err := encoder.EndSequence(attrsPos); err != nil {
		return nil, err
	}

	return encoder.Bytes(), nil
}

// ParseSearchRequest parses a SearchRequest from raw operation data. A client
// never receives a SearchRequest over the wire; this exists so encode/decode
// round-trip tests can verify Encode against the same sub-decoders the rest
// of this package uses.
func ParseSearchRequest(data []byte) (*SearchRequest, error) {
	if len(data) == 0 {
		return nil, NewParseError(0, "empty search request data", nil)
	}

	decoder := ber.NewBERDecoder(data)
	req := &SearchRequest{}

	baseBytes, err := decoder.ReadOctetString()
	if err != nil {
		return nil, NewParseError(decoder.Offset(), "failed to read baseObject", err)
	}
	req.BaseObject = string(baseBytes)

	scope, err := decoder.ReadEnumerated()
	if err != nil {
		return nil, NewParseError(decoder.Offset(), "failed to read scope", err)
	}
	if scope < 0 || scope > 2 {
		return nil, ErrInvalidSearchScope
	}
	req.Scope = SearchScope(scope)

	deref, err := decoder.ReadEnumerated()
	if err != nil {
		return nil, NewParseError(decoder.Offset(), "failed to read derefAliases", err)
	}
	if deref < 0 || deref > 3 {
		return nil, ErrInvalidDerefAliases
	}
	req.DerefAliases = DerefAliases(deref)

	sizeLimit, err := decoder.ReadInteger()
	if err != nil {
		return nil, NewParseError(decoder.Offset(), "failed to read sizeLimit", err)
	}
	req.SizeLimit = int(sizeLimit)

	timeLimit, err := decoder.ReadInteger()
	if err != nil {
		return nil, NewParseError(decoder.Offset(), "failed to read timeLimit", err)
	}
	req.TimeLimit = int(timeLimit)

	typesOnly, err := decoder.ReadBoolean()
	if err != nil {
		return nil, NewParseError(decoder.Offset(), "failed to read typesOnly", err)
	}
	req.TypesOnly = typesOnly

	f, err := filter.Decode(decoder)
	if err != nil {
		return nil, NewParseError(decoder.Offset(), "failed to read filter", err)
	}
	req.Filter = f

	attrSeqLen, err := decoder.ExpectSequence()
	if err != nil {
		return nil, NewParseError(decoder.Offset(), "failed to read attributes sequence", err)
	}
	attrEnd := decoder.Offset() + attrSeqLen
	var attributes []string
	for decoder.Offset() < attrEnd && decoder.Remaining() > 0 {
		attrBytes, err := decoder.ReadOctetString()
		if err != nil {
			return nil, NewParseError(decoder.Offset(), "failed to read attribute", err)
		}
		attributes = append(attributes, string(attrBytes))
	}
	req.Attributes = attributes

	return req, nil
}
