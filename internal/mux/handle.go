package mux

import (
	"context"
)

// Handle is a caller's view of one single-response operation submitted via
// SubmitSingle.
type Handle struct {
	id  int
	mux *Multiplexer
	rec *operationRecord
}

// ID returns the MessageID this handle was assigned.
func (h *Handle) ID() int { return h.id }

// Wait blocks until the response arrives, the context is cancelled, or the
// connection terminates, whichever comes first. Cancelling ctx does not by
// itself abandon the operation on the wire -- call Abandon for that.
func (h *Handle) Wait(ctx context.Context) (Envelope, error) {
	select {
	case res := <-h.rec.single:
		return res.Envelope, res.Err
	case <-ctx.Done():
		return Envelope{}, ctx.Err()
	case <-h.mux.doneCh:
		return Envelope{}, h.mux.closeErr
	}
}

// Abandon sends an AbandonRequest for this operation and fails any pending
// Wait with ErrCancelled. Idempotent.
func (h *Handle) Abandon() error {
	return h.mux.Abandon(h.id)
}

// StreamHandle is a caller's view of one streaming search submitted via
// SubmitStream.
type StreamHandle struct {
	id  int
	mux *Multiplexer
	rec *operationRecord
}

// ID returns the MessageID this handle was assigned.
func (h *StreamHandle) ID() int { return h.id }

// Next blocks for the next item (entry, reference, or the terminal done/
// error item), the context being cancelled, or the connection terminating.
// ok is false once the stream has been fully drained -- callers should stop
// calling Next at that point.
func (h *StreamHandle) Next(ctx context.Context) (item StreamItem, ok bool) {
	select {
	case item, ok = <-h.rec.stream:
		return item, ok
	case <-ctx.Done():
		return StreamItem{Err: ctx.Err(), Done: true}, false
	case <-h.mux.doneCh:
		return StreamItem{Err: h.mux.closeErr, Done: true}, false
	}
}

// Abandon sends an AbandonRequest for this search and closes the stream
// after delivering one final ErrCancelled item. Idempotent.
func (h *StreamHandle) Abandon() error {
	return h.mux.Abandon(h.id)
}
