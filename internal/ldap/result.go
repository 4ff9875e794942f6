// Package ldap implements LDAP protocol message parsing and encoding
// as specified in RFC 4511.
package ldap

import (
	"github.com/oba-ldap/ldapc/internal/ber"
)

// Context-specific tags for response fields.
const (
	// ContextTagReferral is the tag for referral URIs in LDAPResult [3].
	ContextTagReferral = 3
	// ContextTagServerSASLCreds is the tag for server SASL credentials in BindResponse [7].
	ContextTagServerSASLCreds = 7
)

// LDAPResult represents the common result structure used in most LDAP responses.
// Per RFC 4511 Section 4.1.9:
// LDAPResult ::= SEQUENCE {
//
//	resultCode         ENUMERATED { ... },
//	matchedDN          LDAPDN,
//	diagnosticMessage  LDAPString,
//	referral           [3] Referral OPTIONAL
//
// }
type LDAPResult struct {
	ResultCode        ResultCode
	MatchedDN         string
	DiagnosticMessage string
	Referral          []string
}

// Encode encodes the LDAPResult to BER format (without outer tag). Used when
// building a request that carries a result-shaped payload for round-trip
// testing against ParseLDAPResult.
func (r *LDAPResult) Encode(encoder *ber.BEREncoder) error {
	if err := encoder.WriteEnumerated(int64(r.ResultCode)); err != nil {
		return err
	}
	if err := encoder.WriteOctetString([]byte(r.MatchedDN)); err != nil {
		return err
	}
	if err := encoder.WriteOctetString([]byte(r.DiagnosticMessage)); err != nil {
		return err
	}
	if len(r.Referral) > 0 {
		refPos := encoder.WriteContextTag(ContextTagReferral, true)
		for _, uri := range r.Referral {
			if err := encoder.WriteOctetString([]byte(uri)); err != nil {
				return err
			}
		}
		if err := encoder.EndContextTag(refPos); err != nil {
			return err
		}
	}
	return nil
}

// ParseLDAPResult reads the common LDAPResult fields from decoder. Unlike the
// request parsers elsewhere in this package, this one is on the client's hot
// path: every non-search response starts with these four fields.
func ParseLDAPResult(decoder *ber.BERDecoder) (LDAPResult, error) {
	var r LDAPResult

	code, err := decoder.ReadEnumerated()
	if err != nil {
		return r, NewParseError(decoder.Offset(), "failed to read resultCode", err)
	}
	r.ResultCode = ResultCode(code)

	matchedDN, err := decoder.ReadOctetString()
	if err != nil {
		return r, NewParseError(decoder.Offset(), "failed to read matchedDN", err)
	}
	r.MatchedDN = string(matchedDN)

	diag, err := decoder.ReadOctetString()
	if err != nil {
		return r, NewParseError(decoder.Offset(), "failed to read diagnosticMessage", err)
	}
	r.DiagnosticMessage = string(diag)

	if decoder.Remaining() > 0 && decoder.IsContextTag(ContextTagReferral) {
		tagNum, _, value, err := decoder.ReadTaggedValue()
		if err != nil {
			return r, NewParseError(decoder.Offset(), "failed to read referral", err)
		}
		if tagNum == ContextTagReferral {
			sub := ber.NewBERDecoder(value)
			for sub.Remaining() > 0 {
				uri, err := sub.ReadOctetString()
				if err != nil {
					return r, NewParseError(decoder.Offset(), "failed to read referral URI", err)
				}
				r.Referral = append(r.Referral, string(uri))
			}
		}
	}

	return r, nil
}

// BindResponse represents an LDAP Bind response.
// Per RFC 4511 Section 4.2.2:
// BindResponse ::= [APPLICATION 1] SEQUENCE {
//
//	COMPONENTS OF LDAPResult,
//	serverSaslCreds    [7] OCTET STRING OPTIONAL
//
// }
type BindResponse struct {
	LDAPResult
	ServerSASLCreds []byte
}

// ParseBindResponse parses a BindResponse from raw operation data.
// The data should be the contents of the APPLICATION 1 tag.
func ParseBindResponse(data []byte) (*BindResponse, error) {
	decoder := ber.NewBERDecoder(data)
	result, err := ParseLDAPResult(decoder)
	if err != nil {
		return nil, err
	}
	resp := &BindResponse{LDAPResult: result}
	if decoder.Remaining() > 0 && decoder.IsContextTag(ContextTagServerSASLCreds) {
		_, _, value, err := decoder.ReadTaggedValue()
		if err != nil {
			return nil, NewParseError(decoder.Offset(), "failed to read serverSaslCreds", err)
		}
		resp.ServerSASLCreds = value
	}
	return resp, nil
}

// Encode encodes the BindResponse to BER format.
func (r *BindResponse) Encode() ([]byte, error) {
	encoder := ber.NewBEREncoder(128)
	appPos := encoder.WriteApplicationTag(ApplicationBindResponse, true)
	if err := r.LDAPResult.Encode(encoder); err != nil {
		return nil, err
	}
	if len(r.ServerSASLCreds) > 0 {
		if err := encoder.WriteTaggedValue(ContextTagServerSASLCreds, false, r.ServerSASLCreds); err != nil {
			return nil, err
		}
	}
	if err := encoder.EndApplicationTag(appPos); err != nil {
		return nil, err
	}
	return encoder.Bytes(), nil
}

// PartialAttribute represents an attribute with its values.
// Per RFC 4511 Section 4.1.7:
// PartialAttribute ::= SEQUENCE {
//
//	type       AttributeDescription,
//	vals       SET OF value AttributeValue
//
// }
type PartialAttribute struct {
	Type   string
	Values [][]byte
}

func parsePartialAttributeEntry(decoder *ber.BERDecoder) (PartialAttribute, error) {
	var attr PartialAttribute

	attrDecoder, err := decoder.ReadSequenceContents()
	if err != nil {
		return attr, NewParseError(decoder.Offset(), "failed to read partial attribute sequence", err)
	}

	typeBytes, err := attrDecoder.ReadOctetString()
	if err != nil {
		return attr, NewParseError(decoder.Offset(), "failed to read attribute type", err)
	}
	attr.Type = string(typeBytes)

	valSetLen, err := attrDecoder.ExpectSet()
	if err != nil {
		return attr, NewParseError(decoder.Offset(), "failed to read attribute values set", err)
	}
	valSetEnd := attrDecoder.Offset() + valSetLen
	var values [][]byte
	for attrDecoder.Offset() < valSetEnd && attrDecoder.Remaining() > 0 {
		valueBytes, err := attrDecoder.ReadOctetString()
		if err != nil {
			return attr, NewParseError(decoder.Offset(), "failed to read attribute value", err)
		}
		values = append(values, valueBytes)
	}
	attr.Values = values
	return attr, nil
}

func encodePartialAttributeEntry(encoder *ber.BEREncoder, attr PartialAttribute) error {
	attrPos := encoder.BeginSequence()
	if err := encoder.WriteOctetString([]byte(attr.Type)); err != nil {
		return err
	}
	valsPos := encoder.BeginSet()
	for _, val := range attr.Values {
		if err := encoder.WriteOctetString(val); err != nil {
			return err
		}
	}
	if err := encoder.EndSet(valsPos); err != nil {
		return err
	}
	return encoder.EndSequence(attrPos)
}

// SearchResultEntry represents a search result entry.
// Per RFC 4511 Section 4.5.2:
// SearchResultEntry ::= [APPLICATION 4] SEQUENCE {
//
//	objectName      LDAPDN,
//	attributes      PartialAttributeList
//
// }
type SearchResultEntry struct {
	ObjectName string
	Attributes []PartialAttribute
}

// ParseSearchResultEntry parses a SearchResultEntry from raw operation data.
// The data should be the contents of the APPLICATION 4 tag.
func ParseSearchResultEntry(data []byte) (*SearchResultEntry, error) {
	decoder := ber.NewBERDecoder(data)
	entry := &SearchResultEntry{}

	objBytes, err := decoder.ReadOctetString()
	if err != nil {
		return nil, NewParseError(decoder.Offset(), "failed to read objectName", err)
	}
	entry.ObjectName = string(objBytes)

	attrSeqLen, err := decoder.ExpectSequence()
	if err != nil {
		return nil, NewParseError(decoder.Offset(), "failed to read attributes sequence", err)
	}
	attrEnd := decoder.Offset() + attrSeqLen
	for decoder.Offset() < attrEnd && decoder.Remaining() > 0 {
		attr, err := parsePartialAttributeEntry(decoder)
		if err != nil {
			return nil, err
		}
		entry.Attributes = append(entry.Attributes, attr)
	}

	return entry, nil
}

// Encode encodes the SearchResultEntry to BER format.
func (r *SearchResultEntry) Encode() ([]byte, error) {
	encoder := ber.NewBEREncoder(256)
	appPos := encoder.WriteApplicationTag(ApplicationSearchResultEntry, true)
	if err := encoder.WriteOctetString([]byte(r.ObjectName)); err != nil {
		return nil, err
	}
	attrSeqPos := encoder.BeginSequence()
	for _, attr := range r.Attributes {
		if err := encodePartialAttributeEntry(encoder, attr); err != nil {
			return nil, err
		}
	}
	if err := encoder.EndSequence(attrSeqPos); err != nil {
		return nil, err
	}
	if err := encoder.EndApplicationTag(appPos); err != nil {
		return nil, err
	}
	return encoder.Bytes(), nil
}

// SearchResultReference represents a continuation reference returned instead
// of (or alongside) entries, per RFC 4511 Section 4.5.3.
// SearchResultReference ::= [APPLICATION 19] SEQUENCE SIZE (1..MAX) OF uri URI
type SearchResultReference struct {
	URIs []string
}

// ParseSearchResultReference parses a SearchResultReference from raw operation data.
func ParseSearchResultReference(data []byte) (*SearchResultReference, error) {
	decoder := ber.NewBERDecoder(data)
	ref := &SearchResultReference{}
	for decoder.Remaining() > 0 {
		uri, err := decoder.ReadOctetString()
		if err != nil {
			return nil, NewParseError(decoder.Offset(), "failed to read reference URI", err)
		}
		ref.URIs = append(ref.URIs, string(uri))
	}
	return ref, nil
}

// Encode encodes the SearchResultReference to BER format.
func (r *SearchResultReference) Encode() ([]byte, error) {
	encoder := ber.NewBEREncoder(128)
	appPos := encoder.WriteApplicationTag(ApplicationSearchResultReference, true)
	for _, uri := range r.URIs {
		if err := encoder.WriteOctetString([]byte(uri)); err != nil {
			return nil, err
		}
	}
	if err := encoder.EndApplicationTag(appPos); err != nil {
		return nil, err
	}
	return encoder.Bytes(), nil
}

// SearchResultDone represents the final response to a search operation.
// Per RFC 4511 Section 4.5.2: SearchResultDone ::= [APPLICATION 5] LDAPResult
type SearchResultDone struct {
	LDAPResult
}

// ParseSearchResultDone parses a SearchResultDone from raw operation data.
func ParseSearchResultDone(data []byte) (*SearchResultDone, error) {
	decoder := ber.NewBERDecoder(data)
	result, err := ParseLDAPResult(decoder)
	if err != nil {
		return nil, err
	}
	return &SearchResultDone{LDAPResult: result}, nil
}

// Encode encodes the SearchResultDone to BER format.
func (r *SearchResultDone) Encode() ([]byte, error) {
	encoder := ber.NewBEREncoder(64)
	appPos := encoder.WriteApplicationTag(ApplicationSearchResultDone, true)
	if err := r.LDAPResult.Encode(encoder); err != nil {
		return nil, err
	}
	if err := encoder.EndApplicationTag(appPos); err != nil {
		return nil, err
	}
	return encoder.Bytes(), nil
}

// simpleResultResponse is the shape shared by ModifyResponse, AddResponse,
// DeleteResponse, ModifyDNResponse, and CompareResponse: nothing but an
// LDAPResult under a different APPLICATION tag.
func parseSimpleResultResponse(data []byte) (LDAPResult, error) {
	return ParseLDAPResult(ber.NewBERDecoder(data))
}

func encodeSimpleResultResponse(tag int, result LDAPResult) ([]byte, error) {
	encoder := ber.NewBEREncoder(64)
	appPos := encoder.WriteApplicationTag(tag, true)
	if err := result.Encode(encoder); err != nil {
		return nil, err
	}
	if err := encoder.EndApplicationTag(appPos); err != nil {
		return nil, err
	}
	return encoder.Bytes(), nil
}

// ModifyResponse represents the response to a modify operation.
// Per RFC 4511 Section 4.6: ModifyResponse ::= [APPLICATION 7] LDAPResult
type ModifyResponse struct{ LDAPResult }

// ParseModifyResponse parses a ModifyResponse from raw operation data.
func ParseModifyResponse(data []byte) (*ModifyResponse, error) {
	r, err := parseSimpleResultResponse(data)
	if err != nil {
		return nil, err
	}
	return &ModifyResponse{LDAPResult: r}, nil
}

// Encode encodes the ModifyResponse to BER format.
func (r *ModifyResponse) Encode() ([]byte, error) {
	return encodeSimpleResultResponse(ApplicationModifyResponse, r.LDAPResult)
}

// AddResponse represents the response to an add operation.
// Per RFC 4511 Section 4.7: AddResponse ::= [APPLICATION 9] LDAPResult
type AddResponse struct{ LDAPResult }

// ParseAddResponse parses an AddResponse from raw operation data.
func ParseAddResponse(data []byte) (*AddResponse, error) {
	r, err := parseSimpleResultResponse(data)
	if err != nil {
		return nil, err
	}
	return &AddResponse{LDAPResult: r}, nil
}

// Encode encodes the AddResponse to BER format.
func (r *AddResponse) Encode() ([]byte, error) {
	return encodeSimpleResultResponse(ApplicationAddResponse, r.LDAPResult)
}

// DeleteResponse represents the response to a delete operation.
// Per RFC 4511 Section 4.8: DelResponse ::= [APPLICATION 11] LDAPResult
type DeleteResponse struct{ LDAPResult }

// ParseDeleteResponse parses a DeleteResponse from raw operation data.
func ParseDeleteResponse(data []byte) (*DeleteResponse, error) {
	r, err := parseSimpleResultResponse(data)
	if err != nil {
		return nil, err
	}
	return &DeleteResponse{LDAPResult: r}, nil
}

// Encode encodes the DeleteResponse to BER format.
func (r *DeleteResponse) Encode() ([]byte, error) {
	return encodeSimpleResultResponse(ApplicationDelResponse, r.LDAPResult)
}

// ModifyDNResponse represents the response to a modify DN operation.
// Per RFC 4511 Section 4.9: ModifyDNResponse ::= [APPLICATION 13] LDAPResult
type ModifyDNResponse struct{ LDAPResult }

// ParseModifyDNResponse parses a ModifyDNResponse from raw operation data.
func ParseModifyDNResponse(data []byte) (*ModifyDNResponse, error) {
	r, err := parseSimpleResultResponse(data)
	if err != nil {
		return nil, err
	}
	return &ModifyDNResponse{LDAPResult: r}, nil
}

// Encode encodes the ModifyDNResponse to BER format.
func (r *ModifyDNResponse) Encode() ([]byte, error) {
	return encodeSimpleResultResponse(ApplicationModifyDNResponse, r.LDAPResult)
}

// CompareResponse represents the response to a compare operation.
// Per RFC 4511 Section 4.10: CompareResponse ::= [APPLICATION 15] LDAPResult
// ResultCode is ResultCompareTrue or ResultCompareFalse on success.
type CompareResponse struct{ LDAPResult }

// ParseCompareResponse parses a CompareResponse from raw operation data.
func ParseCompareResponse(data []byte) (*CompareResponse, error) {
	r, err := parseSimpleResultResponse(data)
	if err != nil {
		return nil, err
	}
	return &CompareResponse{LDAPResult: r}, nil
}

// Encode encodes the CompareResponse to BER format.
func (r *CompareResponse) Encode() ([]byte, error) {
	return encodeSimpleResultResponse(ApplicationCompareResponse, r.LDAPResult)
}

// NewSuccessResult creates a new LDAPResult with success status.
func NewSuccessResult() LDAPResult {
	return LDAPResult{ResultCode: ResultSuccess}
}

// NewErrorResult creates a new LDAPResult with the specified error.
func NewErrorResult(code ResultCode, message string) LDAPResult {
	return LDAPResult{ResultCode: code, DiagnosticMessage: message}
}

// NewErrorResultWithDN creates a new LDAPResult with error and matched DN.
func NewErrorResultWithDN(code ResultCode, matchedDN, message string) LDAPResult {
	return LDAPResult{ResultCode: code, MatchedDN: matchedDN, DiagnosticMessage: message}
}
