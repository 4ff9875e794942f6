// Package mux implements the LDAP connection multiplexer: MessageID
// allocation, the pending-response table, the background reader loop that
// routes PDUs back to their originating caller, the StartTLS quiesce
// sequence, and abandon/timeout handling. It owns exactly one transport
// connection for its lifetime.
package mux

import (
	"errors"

	"github.com/oba-ldap/ldapc/internal/ldap"
)

// Sentinel errors surfaced on operation sinks and from Submit/Abandon.
// These are the wire-level vocabulary the top-level package's Error/Kind
// classify against with errors.Is -- mux itself has no notion of "Kind".
var (
	// ErrTimeout is delivered to an operation's sink when its deadline
	// expires before a terminal response arrives.
	ErrTimeout = errors.New("mux: operation timed out")
	// ErrCancelled is delivered when a handle is abandoned locally.
	ErrCancelled = errors.New("mux: operation cancelled")
	// ErrServerDisconnect is delivered to every pending sink when the
	// server sends a Notice of Disconnection unsolicited notification.
	ErrServerDisconnect = errors.New("mux: server sent notice of disconnection")
	// ErrClosed is the termination reason after a local Close: Submit
	// returns it, and pending sinks receive it, from then on. After any
	// other termination they get that termination's own error instead.
	ErrClosed = errors.New("mux: connection closed")
)

// sinkKind distinguishes the three operation-record lifecycles spec.md §3
// defines: single request/response, streaming search, and fire-and-forget
// (abandon, unbind -- no response is ever expected).
type sinkKind int

const (
	sinkSingle sinkKind = iota
	sinkStreaming
	sinkSolo
)

// defaultStreamBacklog bounds a streaming search's sink queue. spec.md §4.4
// calls 64 "a reasonable default" and leaves the exact bound up to the
// implementation.
const defaultStreamBacklog = 64

// Envelope is one routed response: its operation tag, raw operation content
// (ldap.RawOperation.Data shape -- tag and length already stripped), and any
// response controls that rode along with it.
type Envelope struct {
	Tag      int
	Data     []byte
	Controls []ldap.Control
}

// Result is what a single-response sink receives: exactly one of Envelope or
// Err will be meaningful.
type Result struct {
	Envelope Envelope
	Err      error
}

// StreamItem is one item delivered to a streaming search's sink: a
// SearchResultEntry or SearchResultReference envelope, or -- as the final
// item -- a SearchResultDone envelope (Done=true) or a terminal Err.
type StreamItem struct {
	Envelope Envelope
	Done     bool
	Err      error
}

// operationRecord is the pending-table entry described in spec.md §3.
type operationRecord struct {
	kind      sinkKind
	single    chan Result
	stream    chan StreamItem
	abandoned bool
	timer     *timerHandle
}

func newOperationRecord(kind sinkKind, streamBacklog int) *operationRecord {
	rec := &operationRecord{kind: kind}
	switch kind {
	case sinkSingle:
		rec.single = make(chan Result, 1)
	case sinkStreaming:
		if streamBacklog <= 0 {
			streamBacklog = defaultStreamBacklog
		}
		rec.stream = make(chan StreamItem, streamBacklog)
	}
	return rec
}
