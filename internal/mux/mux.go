package mux

import (
	"context"
	"crypto/tls"
	"net"
	"sync"
	"time"

	"github.com/oba-ldap/ldapc/internal/extended"
	"github.com/oba-ldap/ldapc/internal/ldap"
	"github.com/oba-ldap/ldapc/internal/logging"
	"github.com/oba-ldap/ldapc/internal/transport"
)

// Multiplexer owns one net.Conn for its lifetime: it allocates MessageIDs,
// tracks in-flight operations, writes outbound PDUs atomically, and runs the
// background loop that routes inbound PDUs back to the caller that submitted
// them. There is exactly one Multiplexer per connection.
type Multiplexer struct {
	logger        logging.Logger
	streamBacklog int
	maxMessage    int

	// writeMu serializes everything that touches the wire: allocating a
	// MessageID, encoding, and writing must happen as one atomic unit so two
	// concurrent Submit calls can never interleave their PDU bytes. StartTLS
	// holds this lock for its entire upgrade sequence, which is what makes
	// "submissions during Upgrading are queued" true.
	writeMu sync.Mutex
	conn    net.Conn
	reader  *transport.FrameReader
	nextID  int

	pendingMu sync.Mutex
	pending   map[int]*operationRecord
	abandoned map[int]struct{}

	upgradeMu      sync.Mutex
	upgradePending bool
	upgradeResume  chan struct{}

	doneCh     chan struct{}
	closeOnce  sync.Once
	closeErr   error

	// OnNotification, if set, is invoked for any unsolicited notification
	// (RFC 4511 section 4.4) other than Notice of Disconnection, which the
	// Multiplexer handles itself by tearing down the connection.
	OnNotification func(oid string, value []byte)
}

// New starts a Multiplexer over conn. The reader loop begins running
// immediately in a background goroutine; Close (or a fatal read/write error)
// stops it.
func New(conn net.Conn, logger logging.Logger, streamBacklog, maxMessage int) *Multiplexer {
	if logger == nil {
		logger = logging.NewNop()
	}
	m := &Multiplexer{
		logger:        logger,
		streamBacklog: streamBacklog,
		maxMessage:    maxMessage,
		conn:          conn,
		reader:        transport.NewFrameReader(conn, maxMessage),
		nextID:        1,
		pending:       make(map[int]*operationRecord),
		abandoned:     make(map[int]struct{}),
		doneCh:        make(chan struct{}),
	}
	go m.readLoop()
	return m
}

// Done returns a channel that's closed once the connection has terminated,
// for any reason (local Close, a read error, a server disconnect).
func (m *Multiplexer) Done() <-chan struct{} { return m.doneCh }

// Err returns the reason the connection terminated, or nil while it's still
// open.
func (m *Multiplexer) Err() error {
	select {
	case <-m.doneCh:
		return m.closeErr
	default:
		return nil
	}
}

// Close tears down the connection immediately, failing every pending
// operation with ErrClosed. Idempotent.
func (m *Multiplexer) Close() error {
	m.terminate(ErrClosed)
	return nil
}

// ---- submission ----

// SubmitSingle sends a request that expects exactly one terminal response
// (bind, add, modify, delete, modify DN, compare, extended).
func (m *Multiplexer) SubmitSingle(ctx context.Context, taggedOp []byte, controls []ldap.Control, deadline time.Time) (*Handle, error) {
	m.writeMu.Lock()
	id, rec, err := m.submitLocked(sinkSingle, taggedOp, controls, deadline)
	m.writeMu.Unlock()
	if err != nil {
		return nil, err
	}
	return &Handle{id: id, mux: m, rec: rec}, nil
}

// SubmitStream sends a search request, whose responses are zero or more
// SearchResultEntry/SearchResultReference messages followed by one
// SearchResultDone.
func (m *Multiplexer) SubmitStream(ctx context.Context, taggedOp []byte, controls []ldap.Control, deadline time.Time) (*StreamHandle, error) {
	m.writeMu.Lock()
	id, rec, err := m.submitLocked(sinkStreaming, taggedOp, controls, deadline)
	m.writeMu.Unlock()
	if err != nil {
		return nil, err
	}
	return &StreamHandle{id: id, mux: m, rec: rec}, nil
}

// SubmitSolo sends a request that never has a response (AbandonRequest,
// UnbindRequest). There is nothing to wait on, so the MessageID is never
// even inserted into the pending table.
func (m *Multiplexer) SubmitSolo(taggedOp []byte, controls []ldap.Control) error {
	m.writeMu.Lock()
	_, _, err := m.submitLocked(sinkSolo, taggedOp, controls, time.Time{})
	m.writeMu.Unlock()
	return err
}

// submitLocked performs the send-side sequence spec.md section 3 lays out:
// allocate a MessageID, encode the envelope, register the pending entry (if
// any), write the PDU. Caller must hold writeMu.
func (m *Multiplexer) submitLocked(kind sinkKind, taggedOp []byte, controls []ldap.Control, deadline time.Time) (int, *operationRecord, error) {
	if err := m.Err(); err != nil {
		return 0, nil, err
	}

	id := m.nextID
	m.nextID++

	pdu, err := ldap.EncodeMessage(id, taggedOp, controls)
	if err != nil {
		return 0, nil, err
	}

	rec := newOperationRecord(kind, m.streamBacklog)

	if kind != sinkSolo {
		m.pendingMu.Lock()
		m.pending[id] = rec
		m.pendingMu.Unlock()
	}

	if err := transport.WritePDU(m.conn, pdu); err != nil {
		m.pendingMu.Lock()
		delete(m.pending, id)
		m.pendingMu.Unlock()
		m.terminate(err)
		return 0, nil, err
	}

	if kind != sinkSolo && !deadline.IsZero() {
		rec.timer = newTimerHandle(deadline, func() { m.onTimeout(id) })
	}

	return id, rec, nil
}

// ---- abandon / timeout ----

// abandon removes id's pending entry (if still present) and delivers
// ErrCancelled to its sink, then returns whether an AbandonRequest should be
// sent for it. A second Abandon call for the same id is a silent no-op, per
// SPEC_FULL.md's idempotent-Abandon decision.
func (m *Multiplexer) abandon(id int) bool {
	m.pendingMu.Lock()
	rec, ok := m.pending[id]
	if !ok {
		m.pendingMu.Unlock()
		return false
	}
	delete(m.pending, id)
	m.abandoned[id] = struct{}{}
	m.pendingMu.Unlock()

	rec.timer.stop()

	switch rec.kind {
	case sinkSingle:
		rec.single <- Result{Err: ErrCancelled}
	case sinkStreaming:
		drainAndClose(rec.stream, StreamItem{Err: ErrCancelled, Done: true})
	}
	return true
}

// Abandon sends an AbandonRequest for id after locally cancelling its
// pending operation. It is idempotent: abandoning an id that has already
// completed, timed out, or been abandoned is a no-op that returns nil.
func (m *Multiplexer) Abandon(id int) error {
	if !m.abandon(id) {
		return nil
	}
	body := &ldap.AbandonRequest{MessageID: id}
	content, err := body.Encode()
	if err != nil {
		return err
	}
	tagged, err := ldap.WrapApplicationTag(ldap.ApplicationAbandonRequest, content)
	if err != nil {
		return err
	}
	return m.SubmitSolo(tagged, nil)
}

func (m *Multiplexer) onTimeout(id int) {
	m.pendingMu.Lock()
	rec, ok := m.pending[id]
	if !ok {
		m.pendingMu.Unlock()
		return
	}
	delete(m.pending, id)
	m.abandoned[id] = struct{}{}
	m.pendingMu.Unlock()

	switch rec.kind {
	case sinkSingle:
		rec.single <- Result{Err: ErrTimeout}
	case sinkStreaming:
		drainAndClose(rec.stream, StreamItem{Err: ErrTimeout, Done: true})
	}
}

// drainAndClose empties whatever is already buffered in ch (since nobody
// else will), delivers one final item, and closes it. Safe to call only
// once the record has already been removed from the pending table, so the
// reader loop can no longer be writing to ch concurrently.
func drainAndClose(ch chan StreamItem, final StreamItem) {
	for {
		select {
		case <-ch:
			continue
		default:
		}
		break
	}
	ch <- final
	close(ch)
}

// ---- reader loop ----

func (m *Multiplexer) readLoop() {
	for {
		m.waitForUpgrade()

		pdu, err := m.reader.ReadPDU()
		if err != nil {
			m.terminate(err)
			return
		}

		msg, err := ldap.ParseLDAPMessage(pdu)
		if err != nil {
			// A malformed response desynchronizes the stream: there's no
			// way to know where the next PDU begins. Fatal per spec.md
			// section 7.
			m.terminate(err)
			return
		}

		m.route(msg)
	}
}

func (m *Multiplexer) route(msg *ldap.LDAPMessage) {
	if msg.MessageID == 0 {
		m.handleUnsolicited(msg)
		return
	}

	m.pendingMu.Lock()
	rec, ok := m.pending[msg.MessageID]
	if !ok {
		_, wasAbandoned := m.abandoned[msg.MessageID]
		m.pendingMu.Unlock()
		if !wasAbandoned {
			m.logger.Warn("dropping response for unknown message id", "message_id", msg.MessageID, "op", msg.OperationType().String())
		}
		return
	}
	m.pendingMu.Unlock()

	env := Envelope{Tag: msg.Operation.Tag, Data: msg.Operation.Data, Controls: msg.Controls}

	switch rec.kind {
	case sinkSingle:
		rec.timer.stop()
		m.pendingMu.Lock()
		delete(m.pending, msg.MessageID)
		m.pendingMu.Unlock()
		rec.single <- Result{Envelope: env}

	case sinkStreaming:
		done := env.Tag == ldap.ApplicationSearchResultDone
		if done {
			rec.timer.stop()
			m.pendingMu.Lock()
			delete(m.pending, msg.MessageID)
			m.pendingMu.Unlock()
		}
		rec.stream <- StreamItem{Envelope: env, Done: done}
		if done {
			close(rec.stream)
		}
	}
}

// handleUnsolicited processes an unsolicited notification (messageID 0),
// RFC 4511 section 4.4. The only one with a mandated reaction is Notice of
// Disconnection; anything else is handed to OnNotification if the caller
// registered one.
func (m *Multiplexer) handleUnsolicited(msg *ldap.LDAPMessage) {
	if msg.OperationType() != ldap.ApplicationExtendedResponse {
		m.logger.Warn("dropping unsolicited message with unexpected operation", "op", msg.OperationType().String())
		return
	}

	resp, err := extended.ParseResponse(msg.Operation.Data)
	if err != nil {
		m.logger.Warn("failed to parse unsolicited notification", "error", err)
		return
	}

	if resp.OID == extended.OIDNoticeOfDisconnection {
		m.terminate(ErrServerDisconnect)
		return
	}

	if m.OnNotification != nil {
		m.OnNotification(resp.OID, resp.Value)
	}
}

// terminate closes the connection and fails every pending operation with
// err. Safe to call more than once and from multiple goroutines; only the
// first call has any effect.
func (m *Multiplexer) terminate(err error) {
	m.closeOnce.Do(func() {
		m.closeErr = err
		m.conn.Close()

		m.pendingMu.Lock()
		pending := m.pending
		m.pending = make(map[int]*operationRecord)
		m.pendingMu.Unlock()

		for _, rec := range pending {
			rec.timer.stop()
			switch rec.kind {
			case sinkSingle:
				rec.single <- Result{Err: err}
			case sinkStreaming:
				drainAndClose(rec.stream, StreamItem{Err: err, Done: true})
			}
		}

		close(m.doneCh)
	})
}

// ---- StartTLS ----

// StartTLS negotiates the extended operation and, on success, performs the
// in-place TLS handshake on the existing connection. It implements
// spec.md's Open -> Upgrading -> Open state machine: the reader loop is
// quiesced the moment upgradePending is set (long before the response
// actually arrives, so the race window is closed by construction) and is
// only allowed to call ReadPDU again once the handshake has completed and
// the connection/reader have been swapped. writeMu is held for the whole
// sequence, so concurrent Submit calls queue until the upgrade finishes.
func (m *Multiplexer) StartTLS(ctx context.Context, cfg *tls.Config) error {
	m.writeMu.Lock()
	defer m.writeMu.Unlock()

	resume := make(chan struct{})
	m.upgradeMu.Lock()
	m.upgradePending = true
	m.upgradeResume = resume
	m.upgradeMu.Unlock()

	release := func() {
		m.upgradeMu.Lock()
		m.upgradePending = false
		m.upgradeMu.Unlock()
		close(resume)
	}

	req := extended.NewStartTLSRequest()
	body, err := req.Encode()
	if err != nil {
		release()
		return err
	}

	id, rec, err := m.submitLocked(sinkSingle, body, nil, time.Time{})
	if err != nil {
		release()
		return err
	}

	var env Envelope
	select {
	case res := <-rec.single:
		env, err = res.Envelope, res.Err
	case <-ctx.Done():
		m.abandon(id)
		err = ctx.Err()
	case <-m.doneCh:
		err = m.closeErr
	}
	if err != nil {
		release()
		return err
	}

	resp, err := extended.ParseResponse(env.Data)
	if err != nil {
		release()
		return err
	}
	if resp.ResultCode != ldap.ResultSuccess {
		release()
		return &ldap.ParseError{Message: "StartTLS refused: " + resp.DiagnosticMessage}
	}

	newConn, err := transport.UpgradeTLS(ctx, m.conn, cfg)
	if err != nil {
		release()
		m.terminate(err)
		return err
	}

	m.conn = newConn
	m.reader = transport.NewFrameReader(newConn, m.maxMessage)
	release()
	return nil
}

func (m *Multiplexer) waitForUpgrade() {
	m.upgradeMu.Lock()
	pending := m.upgradePending
	resume := m.upgradeResume
	m.upgradeMu.Unlock()
	if pending {
		<-resume
	}
}
