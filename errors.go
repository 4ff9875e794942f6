package ldapc

import (
	"errors"
	"fmt"

	"github.com/oba-ldap/ldapc/internal/ber"
	"github.com/oba-ldap/ldapc/internal/filter"
	"github.com/oba-ldap/ldapc/internal/ldap"
	"github.com/oba-ldap/ldapc/internal/mux"
	"github.com/oba-ldap/ldapc/internal/transport"
)

// Kind classifies an Error per spec.md section 7's error taxonomy.
type Kind int

const (
	// Io is a transport read/write failure.
	Io Kind = iota
	// Codec is a BER decoding failure or a PDU that violates the schema.
	Codec
	// FilterParse is an RFC 4515 filter string parse failure.
	FilterParse
	// Protocol is a well-formed but unexpected PDU (e.g. response tag mismatch).
	Protocol
	// Result is a non-success LDAP result code returned by the server.
	Result
	// Timeout is a per-operation deadline expiring before completion.
	Timeout
	// Cancelled is a local abandon of an in-flight operation.
	Cancelled
	// ServerDisconnect is a Notice of Disconnection unsolicited notification.
	ServerDisconnect
	// Tls is a TLS handshake or StartTLS upgrade failure.
	Tls
)

// String returns the name of the Kind.
func (k Kind) String() string {
	switch k {
	case Io:
		return "Io"
	case Codec:
		return "Codec"
	case FilterParse:
		return "FilterParse"
	case Protocol:
		return "Protocol"
	case Result:
		return "Result"
	case Timeout:
		return "Timeout"
	case Cancelled:
		return "Cancelled"
	case ServerDisconnect:
		return "ServerDisconnect"
	case Tls:
		return "Tls"
	default:
		return "Unknown"
	}
}

// Error is the error type every exported Client method that can fail
// returns. Callers classify it by switching on Kind; classify has already
// mapped the internal mux/transport sentinels to a Kind, and the wrapped
// error stays reachable through Unwrap.
type Error struct {
	Kind Kind
	// ResultCode, MatchedDN, DiagnosticMessage, and Referral are populated
	// only when Kind is Result.
	ResultCode        ldap.ResultCode
	MatchedDN         string
	DiagnosticMessage string
	Referral          []string

	Err error
}

func (e *Error) Error() string {
	if e.Kind == Result {
		return fmt.Sprintf("ldapc: %s: result %s: %s", e.Kind, e.ResultCode, e.DiagnosticMessage)
	}
	if e.Err != nil {
		return fmt.Sprintf("ldapc: %s: %v", e.Kind, e.Err)
	}
	return fmt.Sprintf("ldapc: %s", e.Kind)
}

func (e *Error) Unwrap() error { return e.Err }

// resultError builds a Result-kind Error from an ldap.LDAPResult whose
// ResultCode is not ResultSuccess (and, for compare, not ResultCompareFalse).
func resultError(r ldap.LDAPResult) *Error {
	return &Error{
		Kind:              Result,
		ResultCode:        r.ResultCode,
		MatchedDN:         r.MatchedDN,
		DiagnosticMessage: r.DiagnosticMessage,
		Referral:          r.Referral,
	}
}

// classify wraps err (from the mux, transport, ber, ldap, or filter layers)
// in an *Error with the appropriate Kind. A nil err returns nil.
func classify(err error) error {
	if err == nil {
		return nil
	}
	var ferr *Error
	if errors.As(err, &ferr) {
		return err
	}

	switch {
	case errors.Is(err, mux.ErrTimeout):
		return &Error{Kind: Timeout, Err: err}
	case errors.Is(err, mux.ErrCancelled):
		return &Error{Kind: Cancelled, Err: err}
	case errors.Is(err, mux.ErrServerDisconnect):
		return &Error{Kind: ServerDisconnect, Err: err}
	case errors.Is(err, mux.ErrClosed):
		return &Error{Kind: Io, Err: err}
	case errors.Is(err, transport.ErrMessageTooLarge), errors.Is(err, transport.ErrInvalidFrame):
		return &Error{Kind: Codec, Err: err}
	case errors.Is(err, transport.ErrNoTLSConfig):
		return &Error{Kind: Tls, Err: err}
	}

	var filterErr *filter.ParseError
	if errors.As(err, &filterErr) {
		return &Error{Kind: FilterParse, Err: err}
	}

	var berErr error
	for _, sentinel := range []error{
		ber.ErrUnexpectedEOF, ber.ErrInvalidLength, ber.ErrIndefiniteLength,
		ber.ErrInvalidBoolean, ber.ErrInvalidInteger, ber.ErrInvalidNull,
		ber.ErrTagMismatch, ber.ErrIncomplete,
	} {
		if errors.Is(err, sentinel) {
			berErr = sentinel
			break
		}
	}
	if berErr != nil {
		return &Error{Kind: Codec, Err: err}
	}

	var parseErr *ldap.ParseError
	if errors.As(err, &parseErr) {
		return &Error{Kind: Codec, Err: err}
	}

	return &Error{Kind: Io, Err: err}
}
