package extended

import "github.com/oba-ldap/ldapc/internal/ber"

// Start/End Transaction extended operation OIDs (RFC 5805 Section 4). The
// control that tags an individual update request as part of the resulting
// transaction lives in internal/controls (TransactionSpecOID), not here:
// it travels as a request control, not an extended operation.
const (
	OIDStartTransaction = "1.3.6.1.1.21.1"
	OIDEndTransaction   = "1.3.6.1.1.21.3"
)

// NewStartTransactionRequest builds the ExtendedRequest that begins an LDAP
// transaction. It carries no request value; the transaction identifier is
// returned in the responseValue.
func NewStartTransactionRequest() *Request {
	return &Request{OID: OIDStartTransaction}
}

// ParseStartTransactionResponseValue interprets a Start Transaction
// responseValue as the raw transaction identifier (RFC 5805 defines no
// further structure around it).
func ParseStartTransactionResponseValue(value []byte) []byte {
	return value
}

// EndTransactionRequest builds the request value for RFC 5805's End
// Transaction extended operation.
// txnEndReq ::= SEQUENCE {
//
//	commit          BOOLEAN DEFAULT TRUE,
//	identifier      OCTET STRING
//
// }
type EndTransactionRequest struct {
	// Commit is true to commit the transaction, false to abort it.
	Commit bool
	TxnID  []byte
}

// Encode builds the *Request for this operation.
func (r *EndTransactionRequest) Encode() (*Request, error) {
	encoder := ber.NewBEREncoder(32)
	seq := encoder.BeginSequence()
	if !r.Commit {
		if err := encoder.WriteBoolean(false); err != nil {
			return nil, err
		}
	}
	if err := encoder.WriteOctetString(r.TxnID); err != nil {
		return nil, err
	}
	if err := encoder.EndSequence(seq); err != nil {
		return nil, err
	}
	return &Request{OID: OIDEndTransaction, Value: encoder.Bytes()}, nil
}

// ParseEndTransactionRequestValue decodes an End Transaction request value.
// Kept for round-trip tests against Encode.
func ParseEndTransactionRequestValue(data []byte) (*EndTransactionRequest, error) {
	req := &EndTransactionRequest{Commit: true}
	decoder := ber.NewBERDecoder(data)
	seqLen, err := decoder.ExpectSequence()
	if err != nil {
		return nil, err
	}
	end := decoder.Offset() + seqLen

	if decoder.Offset() < end {
		class, _, number, err := decoder.PeekTag()
		if err != nil {
			return nil, err
		}
		if class == ber.ClassUniversal && number == ber.TagBoolean {
			commit, err := decoder.ReadBoolean()
			if err != nil {
				return nil, err
			}
			req.Commit = commit
		}
	}

	txnID, err := decoder.ReadOctetString()
	if err != nil {
		return nil, err
	}
	req.TxnID = txnID
	return req, nil
}
