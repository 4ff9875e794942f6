package ldapc

import (
	"github.com/oba-ldap/ldapc/internal/controls"
	"github.com/oba-ldap/ldapc/internal/ldap"
)

// SearchScope selects how far below the base object a Search descends.
type SearchScope = ldap.SearchScope

const (
	ScopeBaseObject   = ldap.ScopeBaseObject
	ScopeSingleLevel  = ldap.ScopeSingleLevel
	ScopeWholeSubtree = ldap.ScopeWholeSubtree
)

// DerefAliases selects when a server should dereference alias entries
// during a Search.
type DerefAliases = ldap.DerefAliases

const (
	DerefNever          = ldap.DerefNever
	DerefInSearching    = ldap.DerefInSearching
	DerefFindingBaseObj = ldap.DerefFindingBaseObj
	DerefAlways         = ldap.DerefAlways
)

// ResultCode is an RFC 4511 LDAPResult result code.
type ResultCode = ldap.ResultCode

// ModifyOp selects the kind of change a Modification applies.
type ModifyOp = ldap.ModifyOperation

const (
	ModAdd     = ldap.ModifyOperationAdd
	ModDelete  = ldap.ModifyOperationDelete
	ModReplace = ldap.ModifyOperationReplace
)

// Control is a request or response control: an OID, a criticality flag, and
// an opaque value.
type Control = ldap.Control

// PagedResults is the Simple Paged Results control (RFC 2696).
type PagedResults = controls.PagedResults

// FindPagedResults returns the first PagedResults response control in
// ctrls (as returned by SearchCursor.ResponseControls), or nil if none is
// present.
func FindPagedResults(ctrls []Control) (*PagedResults, error) {
	return controls.FindPagedResults(ctrls)
}

// Attribute is an attribute type name paired with its values.
type Attribute struct {
	Type   string
	Values [][]byte
}

func (a Attribute) toLDAP() ldap.Attribute {
	return ldap.Attribute{Type: a.Type, Values: a.Values}
}

func attributesToLDAP(attrs []Attribute) []ldap.Attribute {
	out := make([]ldap.Attribute, len(attrs))
	for i, a := range attrs {
		out[i] = a.toLDAP()
	}
	return out
}

func attributeFromPartial(p ldap.PartialAttribute) Attribute {
	return Attribute{Type: p.Type, Values: p.Values}
}

// Modification is one change in a Modify request: add, delete, or replace
// the given attribute's values.
type Modification struct {
	Op        ModifyOp
	Attribute Attribute
}

func (m Modification) toLDAP() ldap.Modification {
	return ldap.Modification{Operation: m.Op, Attribute: m.Attribute.toLDAP()}
}

// Entry is one directory entry returned by a search, its DN paired with the
// attributes the server decided to return.
type Entry struct {
	DN         string
	Attributes []Attribute
}

// GetAttributeValues returns the raw values for attrType, or nil if the
// entry has no such attribute.
func (e *Entry) GetAttributeValues(attrType string) [][]byte {
	for _, a := range e.Attributes {
		if a.Type == attrType {
			return a.Values
		}
	}
	return nil
}

// GetAttributeStrings returns the values for attrType decoded as strings,
// or nil if the entry has no such attribute.
func (e *Entry) GetAttributeStrings(attrType string) []string {
	values := e.GetAttributeValues(attrType)
	if values == nil {
		return nil
	}
	out := make([]string, len(values))
	for i, v := range values {
		out[i] = string(v)
	}
	return out
}

// Referral is a SearchResultReference delivered in the middle of a search
// stream: one or more alternate URIs the client may choose to follow.
type Referral struct {
	URIs []string
}

// SearchOptions configures one Search/SearchStream call. Unlike
// WithControls/WithTimeout, options are always passed explicitly per call
// rather than consumed from sticky per-connection state.
type SearchOptions struct {
	Scope        SearchScope
	DerefAliases DerefAliases
	SizeLimit    int
	TimeLimit    int
	TypesOnly    bool
	Attributes   []string
}
