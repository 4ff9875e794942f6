// Package ldapc is an RFC 4511 LDAP client: a BER codec, an RFC 4515
// filter parser, and a message-multiplexed request/response engine wired
// together behind a single Client, over TCP, implicit TLS, StartTLS, or
// Unix domain sockets.
package ldapc

import (
	"context"
	"fmt"
	"net"
	"sync"
	"time"

	"github.com/oba-ldap/ldapc/internal/extended"
	"github.com/oba-ldap/ldapc/internal/filter"
	"github.com/oba-ldap/ldapc/internal/ldap"
	"github.com/oba-ldap/ldapc/internal/mux"
	"github.com/oba-ldap/ldapc/internal/transport"
)

// Client is one LDAP connection: a multiplexer plus the sticky per-call
// state spec.md section 4.6 describes (controls, timeout), each consumed
// exactly once by the next submission.
type Client struct {
	mux         *mux.Multiplexer
	unboundOnce sync.Once

	pendingMu       sync.Mutex
	pendingControls []ldap.Control
	pendingTimeout  time.Duration
}

// Connect resolves rawURL (ldap://, ldaps://, or ldapi://), opens the
// transport, performs an implicit TLS handshake for ldaps:// or a StartTLS
// upgrade when cfg.StartTLS is set, and starts the multiplexer's reader
// loop.
func Connect(ctx context.Context, rawURL string, cfg Config) (*Client, error) {
	endpoint, err := ParseURL(rawURL)
	if err != nil {
		return nil, err
	}

	if cfg.ConnTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, cfg.ConnTimeout)
		defer cancel()
	}

	tc := cfg.transportConfig(endpoint)

	var conn net.Conn
	switch endpoint.Scheme {
	case SchemeLDAP:
		conn, err = transport.DialTCP(ctx, endpoint.Address, tc)
	case SchemeLDAPS:
		conn, err = transport.DialTLS(ctx, endpoint.Address, tc)
	case SchemeLDAPI:
		conn, err = transport.DialUnix(ctx, endpoint.Address)
	default:
		return nil, &Error{Kind: Protocol, Err: fmt.Errorf("ldapc: unsupported scheme %q", endpoint.Scheme)}
	}
	if err != nil {
		return nil, classify(err)
	}

	return newClient(ctx, conn, endpoint, cfg)
}

// NewClient wraps an already-connected transport (so that, for example, a
// sandboxed process that cannot open new file descriptors can still use a
// connection it was handed) in a Client. scheme and serverName select
// hostname verification and StartTLS behavior exactly as Connect's URL
// parsing would have.
func NewClient(ctx context.Context, conn net.Conn, scheme Scheme, serverName string, cfg Config) (*Client, error) {
	endpoint := &Endpoint{Scheme: scheme, Host: serverName}
	return newClient(ctx, conn, endpoint, cfg)
}

func newClient(ctx context.Context, conn net.Conn, endpoint *Endpoint, cfg Config) (*Client, error) {
	logger := cfg.Logger
	if logger == nil {
		logger = NewNopLogger()
	}
	maxMsg := cfg.MaxMessageSize
	if maxMsg <= 0 {
		maxMsg = transport.DefaultMaxMessageSize
	}

	m := mux.New(conn, logger, cfg.StreamBacklog, maxMsg)

	if cfg.StartTLS && endpoint.Scheme == SchemeLDAP {
		tc := cfg.transportConfig(endpoint)
		if err := m.StartTLS(ctx, tc.TLSConfig); err != nil {
			m.Close()
			return nil, classify(err)
		}
	}

	return &Client{mux: m}, nil
}

// WithControls attaches controls to the next submission only, per spec.md
// section 4.6: if the caller submits no operation before calling
// WithControls again, the previous value is overwritten silently.
func (c *Client) WithControls(ctrls ...Control) *Client {
	c.pendingMu.Lock()
	c.pendingControls = ctrls
	c.pendingMu.Unlock()
	return c
}

// WithTimeout sets a per-operation deadline for the next submission only,
// per spec.md section 4.6. d is added to time.Now() at submission time, not
// at the time of this call.
func (c *Client) WithTimeout(d time.Duration) *Client {
	c.pendingMu.Lock()
	c.pendingTimeout = d
	c.pendingMu.Unlock()
	return c
}

// consume atomically reads and clears the sticky controls/timeout,
// combining the timeout with ctx's own deadline (the nearer of the two
// wins) into the deadline the multiplexer arms its timer with.
func (c *Client) consume(ctx context.Context) ([]ldap.Control, time.Time) {
	c.pendingMu.Lock()
	ctrls := c.pendingControls
	timeout := c.pendingTimeout
	c.pendingControls = nil
	c.pendingTimeout = 0
	c.pendingMu.Unlock()

	var deadline time.Time
	if timeout > 0 {
		deadline = time.Now().Add(timeout)
	}
	if ctxDeadline, ok := ctx.Deadline(); ok {
		if deadline.IsZero() || ctxDeadline.Before(deadline) {
			deadline = ctxDeadline
		}
	}
	return ctrls, deadline
}

// Done returns a channel closed once the connection has terminated.
func (c *Client) Done() <-chan struct{} { return c.mux.Done() }

// Err returns the reason the connection terminated, or nil while open.
func (c *Client) Err() error { return classify(c.mux.Err()) }

// submitSingle is the shared path for every non-search, non-solo operation:
// wrap tagged content in its APPLICATION tag, submit, wait, and classify
// any error.
func (c *Client) submitSingle(ctx context.Context, tag int, content []byte) (mux.Envelope, error) {
	tagged, err := ldap.WrapApplicationTag(tag, content)
	if err != nil {
		return mux.Envelope{}, classify(err)
	}
	ctrls, deadline := c.consume(ctx)
	h, err := c.mux.SubmitSingle(ctx, tagged, ctrls, deadline)
	if err != nil {
		return mux.Envelope{}, classify(err)
	}
	env, err := h.Wait(ctx)
	if err != nil {
		return mux.Envelope{}, classify(err)
	}
	return env, nil
}

// ---- Bind ----

func (c *Client) sendBindRequest(ctx context.Context, req *ldap.BindRequest) (*ldap.BindResponse, error) {
	content, err := req.Encode()
	if err != nil {
		return nil, classify(err)
	}
	env, err := c.submitSingle(ctx, ldap.ApplicationBindRequest, content)
	if err != nil {
		return nil, err
	}
	if env.Tag != ldap.ApplicationBindResponse {
		return nil, &Error{Kind: Protocol, Err: fmt.Errorf("ldapc: expected BindResponse, got tag %d", env.Tag)}
	}
	resp, err := ldap.ParseBindResponse(env.Data)
	if err != nil {
		return nil, classify(err)
	}
	return resp, nil
}

// BindSimple performs a simple (DN + password) bind. An empty dn and
// password perform an anonymous bind.
func (c *Client) BindSimple(ctx context.Context, dn, password string) error {
	resp, err := c.sendBindRequest(ctx, &ldap.BindRequest{
		Version:        3,
		Name:           dn,
		AuthMethod:     ldap.AuthMethodSimple,
		SimplePassword: []byte(password),
	})
	if err != nil {
		return err
	}
	if resp.ResultCode != ldap.ResultSuccess {
		return classify(resultError(resp.LDAPResult))
	}
	return nil
}

// BindSASL drives ex's challenge/response loop (RFC 4513 section 5.2)
// against the server until the mechanism and the server both agree the
// bind is complete.
func (c *Client) BindSASL(ctx context.Context, ex SASLExchanger) error {
	var serverCreds []byte
	for {
		respBytes, _, err := ex.Step(serverCreds)
		if err != nil {
			return classify(err)
		}

		resp, err := c.sendBindRequest(ctx, &ldap.BindRequest{
			Version:    3,
			AuthMethod: ldap.AuthMethodSASL,
			SASLCredentials: &ldap.SASLCredentials{
				Mechanism:   ex.Mechanism(),
				Credentials: respBytes,
			},
		})
		if err != nil {
			return err
		}

		switch resp.ResultCode {
		case ldap.ResultSuccess:
			return nil
		case ldap.ResultSaslBindInProgress:
			// Loop regardless of done: the server, not the mechanism, has
			// the final say on whether another round is needed.
			serverCreds = resp.ServerSASLCreds
		default:
			return classify(resultError(resp.LDAPResult))
		}
	}
}

// ---- Search ----

// Search runs a search to completion and returns every entry. For a large
// result set, prefer SearchStream to avoid buffering everything in memory.
func (c *Client) Search(ctx context.Context, baseDN, filterStr string, opts SearchOptions) ([]*Entry, []Referral, error) {
	cursor, err := c.SearchStream(ctx, baseDN, filterStr, opts)
	if err != nil {
		return nil, nil, err
	}

	var entries []*Entry
	var referrals []Referral
	for {
		entry, ref, done, err := cursor.Next(ctx)
		if err != nil {
			return entries, referrals, err
		}
		if entry != nil {
			entries = append(entries, entry)
		}
		if ref != nil {
			referrals = append(referrals, *ref)
		}
		if done {
			return entries, referrals, nil
		}
	}
}

// SearchCursor is a caller's view of an in-flight search's result stream.
type SearchCursor struct {
	client       *Client
	stream       *mux.StreamHandle
	doneControls []ldap.Control
}

// ResponseControls returns the controls attached to the terminal
// SearchResultDone, once Next has reported done. A paged search reads the
// PagedResults response control from here to fetch the next page's cookie.
func (s *SearchCursor) ResponseControls() []Control {
	return s.doneControls
}

// Next returns the next search result: exactly one of entry or ref will be
// non-nil on a non-final, non-error call. done is true once the stream is
// exhausted (whether by a successful SearchResultDone or by a terminal
// error); callers should stop calling Next once done is true.
func (s *SearchCursor) Next(ctx context.Context) (entry *Entry, ref *Referral, done bool, err error) {
	item, ok := s.stream.Next(ctx)
	if !ok && item.Err == nil {
		return nil, nil, true, nil
	}
	if item.Err != nil {
		return nil, nil, true, classify(item.Err)
	}
	if item.Done {
		s.doneControls = item.Envelope.Controls
		result, perr := ldap.ParseSearchResultDone(item.Envelope.Data)
		if perr != nil {
			return nil, nil, true, classify(perr)
		}
		if result.ResultCode != ldap.ResultSuccess {
			return nil, nil, true, classify(resultError(result.LDAPResult))
		}
		return nil, nil, true, nil
	}

	switch item.Envelope.Tag {
	case ldap.ApplicationSearchResultEntry:
		raw, perr := ldap.ParseSearchResultEntry(item.Envelope.Data)
		if perr != nil {
			return nil, nil, true, classify(perr)
		}
		e := &Entry{DN: raw.ObjectName}
		for _, a := range raw.Attributes {
			e.Attributes = append(e.Attributes, attributeFromPartial(a))
		}
		return e, nil, false, nil
	case ldap.ApplicationSearchResultReference:
		raw, perr := ldap.ParseSearchResultReference(item.Envelope.Data)
		if perr != nil {
			return nil, nil, true, classify(perr)
		}
		return nil, &Referral{URIs: raw.URIs}, false, nil
	default:
		return nil, nil, true, &Error{Kind: Protocol, Err: fmt.Errorf("ldapc: unexpected search stream tag %d", item.Envelope.Tag)}
	}
}

// Abandon sends an AbandonRequest for this search and stops the stream.
func (s *SearchCursor) Abandon() error {
	return classify(s.stream.Abandon())
}

// SearchStream issues a search request and returns a cursor over its
// result stream without buffering entries in memory.
func (c *Client) SearchStream(ctx context.Context, baseDN, filterStr string, opts SearchOptions) (*SearchCursor, error) {
	f, err := filter.Parse(filterStr)
	if err != nil {
		return nil, classify(err)
	}

	req := &ldap.SearchRequest{
		BaseObject:   baseDN,
		Scope:        opts.Scope,
		DerefAliases: opts.DerefAliases,
		SizeLimit:    opts.SizeLimit,
		TimeLimit:    opts.TimeLimit,
		TypesOnly:    opts.TypesOnly,
		Filter:       f,
		Attributes:   opts.Attributes,
	}
	content, err := req.Encode()
	if err != nil {
		return nil, classify(err)
	}
	tagged, err := ldap.WrapApplicationTag(ldap.ApplicationSearchRequest, content)
	if err != nil {
		return nil, classify(err)
	}

	ctrls, deadline := c.consume(ctx)
	h, err := c.mux.SubmitStream(ctx, tagged, ctrls, deadline)
	if err != nil {
		return nil, classify(err)
	}
	return &SearchCursor{client: c, stream: h}, nil
}

// ---- Add / Modify / Delete / ModifyDN / Compare ----

// Add creates a new entry with the given attributes.
func (c *Client) Add(ctx context.Context, dn string, attrs []Attribute) error {
	req := &ldap.AddRequest{Entry: dn, Attributes: attributesToLDAP(attrs)}
	content, err := req.Encode()
	if err != nil {
		return classify(err)
	}
	env, err := c.submitSingle(ctx, ldap.ApplicationAddRequest, content)
	if err != nil {
		return err
	}
	resp, err := ldap.ParseAddResponse(env.Data)
	if err != nil {
		return classify(err)
	}
	if resp.ResultCode != ldap.ResultSuccess {
		return classify(resultError(resp.LDAPResult))
	}
	return nil
}

// Modify applies a set of changes to an existing entry.
func (c *Client) Modify(ctx context.Context, dn string, mods []Modification) error {
	req := &ldap.ModifyRequest{Object: dn}
	for _, m := range mods {
		req.Changes = append(req.Changes, m.toLDAP())
	}
	content, err := req.Encode()
	if err != nil {
		return classify(err)
	}
	env, err := c.submitSingle(ctx, ldap.ApplicationModifyRequest, content)
	if err != nil {
		return err
	}
	resp, err := ldap.ParseModifyResponse(env.Data)
	if err != nil {
		return classify(err)
	}
	if resp.ResultCode != ldap.ResultSuccess {
		return classify(resultError(resp.LDAPResult))
	}
	return nil
}

// Delete removes an entry.
func (c *Client) Delete(ctx context.Context, dn string) error {
	req := &ldap.DeleteRequest{DN: dn}
	content, err := req.Encode()
	if err != nil {
		return classify(err)
	}
	env, err := c.submitSingle(ctx, ldap.ApplicationDelRequest, content)
	if err != nil {
		return err
	}
	resp, err := ldap.ParseDeleteResponse(env.Data)
	if err != nil {
		return classify(err)
	}
	if resp.ResultCode != ldap.ResultSuccess {
		return classify(resultError(resp.LDAPResult))
	}
	return nil
}

// ModifyDN renames and/or moves an entry. newSuperior is optional; an empty
// string leaves the entry under its current parent.
func (c *Client) ModifyDN(ctx context.Context, dn, newRDN string, deleteOldRDN bool, newSuperior string) error {
	req := &ldap.ModifyDNRequest{
		Entry:        dn,
		NewRDN:       newRDN,
		DeleteOldRDN: deleteOldRDN,
		NewSuperior:  newSuperior,
	}
	content, err := req.Encode()
	if err != nil {
		return classify(err)
	}
	env, err := c.submitSingle(ctx, ldap.ApplicationModifyDNRequest, content)
	if err != nil {
		return err
	}
	resp, err := ldap.ParseModifyDNResponse(env.Data)
	if err != nil {
		return classify(err)
	}
	if resp.ResultCode != ldap.ResultSuccess {
		return classify(resultError(resp.LDAPResult))
	}
	return nil
}

// Compare checks whether attr on the entry named by dn has value as one of
// its values. true/ResultCompareTrue means it does.
func (c *Client) Compare(ctx context.Context, dn, attr string, value []byte) (bool, error) {
	req := &ldap.CompareRequest{DN: dn, Attribute: attr, Value: value}
	content, err := req.Encode()
	if err != nil {
		return false, classify(err)
	}
	env, err := c.submitSingle(ctx, ldap.ApplicationCompareRequest, content)
	if err != nil {
		return false, err
	}
	resp, err := ldap.ParseCompareResponse(env.Data)
	if err != nil {
		return false, classify(err)
	}
	switch resp.ResultCode {
	case ldap.ResultCompareTrue:
		return true, nil
	case ldap.ResultCompareFalse:
		return false, nil
	default:
		return false, classify(resultError(resp.LDAPResult))
	}
}

// ---- Extended ----

// ExtendedResult is the parsed outcome of an extended operation: the
// responseName/responseValue RFC 4511 section 4.12 allows alongside the
// result code.
type ExtendedResult struct {
	OID   string
	Value []byte
}

// Extended issues an arbitrary extended operation (RFC 4511 section 4.12).
// WhoAmI wraps this; StartTLS does not go through it, the multiplexer sends
// that request itself.
func (c *Client) Extended(ctx context.Context, oid string, value []byte) (*ExtendedResult, error) {
	req := &extended.Request{OID: oid, Value: value}
	content, err := req.Encode()
	if err != nil {
		return nil, classify(err)
	}
	// extended.Request.Encode already includes its own APPLICATION tag.
	ctrls, deadline := c.consume(ctx)
	h, err := c.mux.SubmitSingle(ctx, content, ctrls, deadline)
	if err != nil {
		return nil, classify(err)
	}
	env, err := h.Wait(ctx)
	if err != nil {
		return nil, classify(err)
	}
	resp, err := extended.ParseResponse(env.Data)
	if err != nil {
		return nil, classify(err)
	}
	if resp.ResultCode != ldap.ResultSuccess {
		return nil, classify(resultError(resp.LDAPResult))
	}
	return &ExtendedResult{OID: resp.OID, Value: resp.Value}, nil
}

// WhoAmI issues the Who Am I? extended operation (RFC 4532) and returns the
// authorization identity string the server reports.
func (c *Client) WhoAmI(ctx context.Context) (string, error) {
	res, err := c.Extended(ctx, extended.OIDWhoAmI, nil)
	if err != nil {
		return "", err
	}
	return string(res.Value), nil
}

// ---- Abandon / Unbind ----

// Abandon sends an AbandonRequest for the given MessageID. It is a no-op,
// returning nil, if the operation has already completed or was already
// abandoned.
func (c *Client) Abandon(messageID int) error {
	return classify(c.mux.Abandon(messageID))
}

// Unbind sends the UnbindRequest (a primitive, content-free APPLICATION 2
// PDU with no expected response) and closes the connection.
func (c *Client) Unbind(ctx context.Context) error {
	var err error
	c.unboundOnce.Do(func() {
		tagged, encErr := ldap.WrapApplicationTag(ldap.ApplicationUnbindRequest, nil)
		if encErr != nil {
			err = classify(encErr)
			return
		}
		_ = c.mux.SubmitSolo(tagged, nil)
		err = classify(c.mux.Close())
	})
	return err
}

// Close tears down the connection without sending UnbindRequest first.
// Prefer Unbind for a graceful shutdown.
func (c *Client) Close() error {
	return classify(c.mux.Close())
}
