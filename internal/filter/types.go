// Package filter parses RFC 4515 LDAP filter strings and encodes them onto
// the wire as the RFC 4511 Filter CHOICE.
package filter

// Type identifies which RFC 4511 Filter CHOICE arm a Filter represents.
type Type int

const (
	// And represents an AND filter (&).
	And Type = iota
	// Or represents an OR filter (|).
	Or
	// Not represents a NOT filter (!).
	Not
	// Equality represents an equality filter (attr=value).
	Equality
	// Substring represents a substring filter (attr=init*any*final).
	Substring
	// GreaterOrEqual represents a greater-or-equal filter (attr>=value).
	GreaterOrEqual
	// LessOrEqual represents a less-or-equal filter (attr<=value).
	LessOrEqual
	// Present represents a presence filter (attr=*).
	Present
	// ApproxMatch represents an approximate match filter (attr~=value).
	ApproxMatch
	// Extensible represents an extensible match filter (attr:dn:rule:=value).
	Extensible
)

// String returns the name of the filter type.
func (t Type) String() string {
	switch t {
	case And:
		return "AND"
	case Or:
		return "OR"
	case Not:
		return "NOT"
	case Equality:
		return "EQUALITY"
	case Substring:
		return "SUBSTRING"
	case GreaterOrEqual:
		return "GREATER_OR_EQUAL"
	case LessOrEqual:
		return "LESS_OR_EQUAL"
	case Present:
		return "PRESENT"
	case ApproxMatch:
		return "APPROX_MATCH"
	case Extensible:
		return "EXTENSIBLE_MATCH"
	default:
		return "UNKNOWN"
	}
}

// Filter is the parsed form of an RFC 4515 filter string, shaped to encode
// directly onto the RFC 4511 Filter CHOICE without any intermediate
// evaluation step — a client only ever sends a filter, never matches one
// against an entry.
type Filter struct {
	Type       Type
	Attribute  string
	Value      []byte
	Children   []*Filter        // And, Or
	Child      *Filter          // Not
	Substring  *SubstringFilter // Substring
	Extensible *ExtensibleMatch // Extensible
}

// SubstringFilter holds the initial/any/final components of a substring
// filter, split on unescaped '*' boundaries.
type SubstringFilter struct {
	Attribute string
	Initial   []byte
	Any       [][]byte
	Final     []byte
}

// ExtensibleMatch holds the components of an extensible match filter.
type ExtensibleMatch struct {
	MatchingRule string
	Type         string
	MatchValue   []byte
	DNAttributes bool
}

// NewAnd creates an AND filter over the given children.
func NewAnd(children ...*Filter) *Filter {
	return &Filter{Type: And, Children: children}
}

// NewOr creates an OR filter over the given children.
func NewOr(children ...*Filter) *Filter {
	return &Filter{Type: Or, Children: children}
}

// NewNot creates a NOT filter over the given child.
func NewNot(child *Filter) *Filter {
	return &Filter{Type: Not, Child: child}
}

// NewEquality creates an equality filter.
func NewEquality(attribute string, value []byte) *Filter {
	return &Filter{Type: Equality, Attribute: attribute, Value: value}
}

// NewSubstring creates a substring filter.
func NewSubstring(sf *SubstringFilter) *Filter {
	return &Filter{Type: Substring, Attribute: sf.Attribute, Substring: sf}
}

// NewPresent creates a presence filter.
func NewPresent(attribute string) *Filter {
	return &Filter{Type: Present, Attribute: attribute}
}

// NewGreaterOrEqual creates a greater-or-equal filter.
func NewGreaterOrEqual(attribute string, value []byte) *Filter {
	return &Filter{Type: GreaterOrEqual, Attribute: attribute, Value: value}
}

// NewLessOrEqual creates a less-or-equal filter.
func NewLessOrEqual(attribute string, value []byte) *Filter {
	return &Filter{Type: LessOrEqual, Attribute: attribute, Value: value}
}

// NewApproxMatch creates an approximate match filter.
func NewApproxMatch(attribute string, value []byte) *Filter {
	return &Filter{Type: ApproxMatch, Attribute: attribute, Value: value}
}

// NewExtensible creates an extensible match filter.
func NewExtensible(em *ExtensibleMatch) *Filter {
	return &Filter{Type: Extensible, Attribute: em.Type, Extensible: em}
}
