package controls

import "github.com/oba-ldap/ldapc/internal/ldap"

// TransactionSpecOID is the OID for the Transaction Specification control
// (RFC 5805 Section 4.2) that tags an update request as part of a
// previously-started LDAP transaction.
const TransactionSpecOID = "1.3.6.1.1.21.2"

// TransactionSpec represents the Transaction Specification control. Unlike
// PagedResults its value is not a SEQUENCE: RFC 5805 defines controlValue as
// simply the transaction identifier octets returned by Start Transaction, so
// there's nothing to BER-encode beyond the identifier itself. Always
// critical: a server that doesn't understand transactions must reject the
// request rather than silently apply it outside the transaction.
type TransactionSpec struct {
	TxnID []byte
}

// ToLDAPControl wraps TxnID as an ldap.Control ready to attach to a request's
// Controls field.
func (t *TransactionSpec) ToLDAPControl() ldap.Control {
	return ldap.Control{OID: TransactionSpecOID, Criticality: true, Value: t.TxnID}
}

// ParseTransactionSpec extracts a TransactionSpec from ctrl. Returns nil
// if ctrl isn't a transaction spec control.
func ParseTransactionSpec(ctrl ldap.Control) *TransactionSpec {
	if ctrl.OID != TransactionSpecOID {
		return nil
	}
	return &TransactionSpec{TxnID: ctrl.Value}
}
