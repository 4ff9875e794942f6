package extended

import "github.com/oba-ldap/ldapc/internal/ber"

// Context-specific tags for the Password Modify request/response values,
// per RFC 3062.
const (
	tagPasswdUserIdentity = 0
	tagPasswdOldPassword  = 1
	tagPasswdNewPassword  = 2
	tagPasswdGenPassword  = 0
)

// PasswordModifyRequest builds the request value for RFC 3062's Password
// Modify extended operation.
// passwdModifyRequestValue ::= SEQUENCE {
//
//	userIdentity    [0]  OCTET STRING OPTIONAL,
//	oldPasswd       [1]  OCTET STRING OPTIONAL,
//	newPasswd       [2]  OCTET STRING OPTIONAL
//
// }
type PasswordModifyRequest struct {
	// UserIdentity identifies the user whose password is being changed. An
	// empty string means "the identity associated with this connection".
	UserIdentity string
	OldPassword  []byte
	// NewPassword requests a specific new password. If empty, the server is
	// asked to generate one (returned in PasswordModifyResponse.GeneratedPassword).
	NewPassword []byte
}

// Encode builds the *Request for this operation. The value SEQUENCE is
// always encoded; an all-empty request becomes an empty SEQUENCE.
func (r *PasswordModifyRequest) Encode() (*Request, error) {
	encoder := ber.NewBEREncoder(64)
	seq := encoder.BeginSequence()
	if r.UserIdentity != "" {
		if err := encoder.WriteTaggedValue(tagPasswdUserIdentity, false, []byte(r.UserIdentity)); err != nil {
			return nil, err
		}
	}
	if len(r.OldPassword) > 0 {
		if err := encoder.WriteTaggedValue(tagPasswdOldPassword, false, r.OldPassword); err != nil {
			return nil, err
		}
	}
	if len(r.NewPassword) > 0 {
		if err := encoder.WriteTaggedValue(tagPasswdNewPassword, false, r.NewPassword); err != nil {
			return nil, err
		}
	}
	if err := encoder.EndSequence(seq); err != nil {
		return nil, err
	}
	return &Request{OID: OIDPasswordModify, Value: encoder.Bytes()}, nil
}

// ParsePasswordModifyRequestValue decodes a Password Modify request value.
// Kept for round-trip tests against Encode; a client never receives one.
func ParsePasswordModifyRequestValue(data []byte) (*PasswordModifyRequest, error) {
	req := &PasswordModifyRequest{}
	if len(data) == 0 {
		return req, nil
	}
	decoder := ber.NewBERDecoder(data)
	seqLen, err := decoder.ExpectSequence()
	if err != nil {
		return nil, err
	}
	end := decoder.Offset() + seqLen
	for decoder.Offset() < end && decoder.Remaining() > 0 {
		tagNum, _, value, err := decoder.ReadTaggedValue()
		if err != nil {
			return nil, err
		}
		switch tagNum {
		case tagPasswdUserIdentity:
			req.UserIdentity = string(value)
		case tagPasswdOldPassword:
			req.OldPassword = value
		case tagPasswdNewPassword:
			req.NewPassword = value
		}
	}
	return req, nil
}

// PasswordModifyResponse is the parsed value of a Password Modify response.
// passwdModifyResponseValue ::= SEQUENCE {
//
//	genPasswd       [0]     OCTET STRING OPTIONAL
//
// }
type PasswordModifyResponse struct {
	GeneratedPassword []byte
}

// ParsePasswordModifyResponseValue decodes the responseValue of a Password
// Modify Response. The value is absent entirely when the caller supplied its
// own new password and the server generated none.
func ParsePasswordModifyResponseValue(data []byte) (*PasswordModifyResponse, error) {
	resp := &PasswordModifyResponse{}
	if len(data) == 0 {
		return resp, nil
	}
	decoder := ber.NewBERDecoder(data)
	seqLen, err := decoder.ExpectSequence()
	if err != nil {
		return nil, err
	}
	end := decoder.Offset() + seqLen
	for decoder.Offset() < end && decoder.Remaining() > 0 {
		tagNum, _, value, err := decoder.ReadTaggedValue()
		if err != nil {
			return nil, err
		}
		if tagNum == tagPasswdGenPassword {
			resp.GeneratedPassword = value
		}
	}
	return resp, nil
}

// Encode re-encodes a PasswordModifyResponse value. Used by round-trip tests.
func (r *PasswordModifyResponse) Encode() ([]byte, error) {
	encoder := ber.NewBEREncoder(32)
	seq := encoder.BeginSequence()
	if len(r.GeneratedPassword) > 0 {
		if err := encoder.WriteTaggedValue(tagPasswdGenPassword, false, r.GeneratedPassword); err != nil {
			return nil, err
		}
	}
	if err := encoder.EndSequence(seq); err != nil {
		return nil, err
	}
	return encoder.Bytes(), nil
}
