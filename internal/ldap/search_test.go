package ldap

import (
	"testing"

	"github.com/oba-ldap/ldapc/internal/filter"
)

func TestSearchRequest_RoundTrip(t *testing.T) {
	f, err := filter.Parse("(&(objectClass=person)(|(cn=a*)(sn=b)))")
	if err != nil {
		t.Fatalf("filter.Parse: %v", err)
	}
	req := &SearchRequest{
		BaseObject:   "dc=example,dc=com",
		Scope:        ScopeWholeSubtree,
		DerefAliases: DerefNever,
		SizeLimit:    100,
		TimeLimit:    30,
		TypesOnly:    false,
		Filter:       f,
		Attributes:   []string{"cn", "sn", "mail"},
	}
	data, err := req.Encode()
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	got, err := ParseSearchRequest(data)
	if err != nil {
		t.Fatalf("ParseSearchRequest: %v", err)
	}
	if got.BaseObject != req.BaseObject || got.Scope != req.Scope || got.DerefAliases != req.DerefAliases {
		t.Fatalf("got %+v, want %+v", got, req)
	}
	if got.SizeLimit != req.SizeLimit || got.TimeLimit != req.TimeLimit || got.TypesOnly != req.TypesOnly {
		t.Fatalf("limits/typesOnly mismatch: %+v", got)
	}
	if len(got.Attributes) != 3 || got.Attributes[0] != "cn" {
		t.Fatalf("Attributes = %v, want %v", got.Attributes, req.Attributes)
	}
	if got.Filter.Type != filter.And {
		t.Fatalf("Filter.Type = %v, want And", got.Filter.Type)
	}
}

func TestSearchRequest_MissingFilter(t *testing.T) {
	req := &SearchRequest{BaseObject: "dc=example,dc=com"}
	if _, err := req.Encode(); err != ErrMissingSearchFilter {
		t.Errorf("expected ErrMissingSearchFilter, got %v", err)
	}
}

func TestSearchScope_String(t *testing.T) {
	tests := map[SearchScope]string{
		ScopeBaseObject:   "BaseObject",
		ScopeSingleLevel:  "SingleLevel",
		ScopeWholeSubtree: "WholeSubtree",
		SearchScope(99):   "Unknown",
	}
	for scope, want := range tests {
		if got := scope.String(); got != want {
			t.Errorf("SearchScope(%d).String() = %q, want %q", scope, got, want)
		}
	}
}

func TestSearchResultEntry_RoundTrip(t *testing.T) {
	entry := &SearchResultEntry{
		ObjectName: "cn=alice,dc=example,dc=com",
		Attributes: []PartialAttribute{
			{Type: "cn", Values: [][]byte{[]byte("alice")}},
			{Type: "mail", Values: [][]byte{[]byte("alice@example.com"), []byte("a@example.com")}},
		},
	}
	data, err := entry.Encode()
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	_, _, content, err := decodeApplicationTag(data)
	if err != nil {
		t.Fatalf("decodeApplicationTag: %v", err)
	}
	got, err := ParseSearchResultEntry(content)
	if err != nil {
		t.Fatalf("ParseSearchResultEntry: %v", err)
	}
	if got.ObjectName != entry.ObjectName || len(got.Attributes) != 2 {
		t.Fatalf("got %+v", got)
	}
	if got.Attributes[1].Type != "mail" || len(got.Attributes[1].Values) != 2 {
		t.Fatalf("mail attribute mismatch: %+v", got.Attributes[1])
	}
}

func TestSearchResultReference_RoundTrip(t *testing.T) {
	ref := &SearchResultReference{URIs: []string{"ldap://other.example.com/dc=example,dc=com"}}
	data, err := ref.Encode()
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	_, _, content, err := decodeApplicationTag(data)
	if err != nil {
		t.Fatalf("decodeApplicationTag: %v", err)
	}
	got, err := ParseSearchResultReference(content)
	if err != nil {
		t.Fatalf("ParseSearchResultReference: %v", err)
	}
	if len(got.URIs) != 1 || got.URIs[0] != ref.URIs[0] {
		t.Fatalf("got %+v", got)
	}
}

func TestSearchResultDone_RoundTrip(t *testing.T) {
	done := &SearchResultDone{LDAPResult: NewSuccessResult()}
	data, err := done.Encode()
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	_, _, content, err := decodeApplicationTag(data)
	if err != nil {
		t.Fatalf("decodeApplicationTag: %v", err)
	}
	got, err := ParseSearchResultDone(content)
	if err != nil {
		t.Fatalf("ParseSearchResultDone: %v", err)
	}
	if got.ResultCode != ResultSuccess {
		t.Errorf("ResultCode = %v, want Success", got.ResultCode)
	}
}
