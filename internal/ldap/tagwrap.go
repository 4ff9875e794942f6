// Package ldap implements LDAP protocol message parsing and encoding
// as specified in RFC 4511.
package ldap

import (
	"github.com/oba-ldap/ldapc/internal/ber"
)

// WrapApplicationTag wraps content (the result of a request's own Encode,
// which never includes its own APPLICATION tag) in the APPLICATION tag for
// tag, choosing the primitive/constructed bit the same way message.go's
// encoder does for the outbound LDAPMessage.
func WrapApplicationTag(tag int, content []byte) ([]byte, error) {
	encoder := ber.NewBEREncoder(len(content) + 16)
	pos := encoder.WriteApplicationTag(tag, isConstructedOperation(tag))
	encoder.WriteRaw(content)
	if err := encoder.EndApplicationTag(pos); err != nil {
		return nil, err
	}
	return encoder.Bytes(), nil
}

// EncodeMessage builds a full LDAPMessage envelope around an operation that
// has already been wrapped in its APPLICATION tag (by WrapApplicationTag, or
// self-tagged as extended.Request.Encode does). Splicing the pre-tagged bytes
// in with WriteRaw rather than re-deriving a RawOperation lets a single
// envelope builder serve every caller, whether the operation came from this
// package's per-type constructors or from internal/extended.
func EncodeMessage(msgID int, taggedOp []byte, controls []Control) ([]byte, error) {
	if msgID < MinMessageID || msgID > MaxMessageID {
		return nil, ErrInvalidMessageID
	}
	if len(taggedOp) == 0 {
		return nil, ErrMissingOperation
	}

	encoder := ber.NewBEREncoder(len(taggedOp) + 32)
	seqPos := encoder.BeginSequence()
	if err := encoder.WriteInteger(int64(msgID)); err != nil {
		return nil, err
	}
	encoder.WriteRaw(taggedOp)
	if len(controls) > 0 {
		if err := encodeControls(encoder, controls); err != nil {
			return nil, err
		}
	}
	if err := encoder.EndSequence(seqPos); err != nil {
		return nil, err
	}
	return encoder.Bytes(), nil
}
