package ldapc

import (
	"context"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/oba-ldap/ldapc/internal/ldap"
	"github.com/oba-ldap/ldapc/internal/transport"
)

func serverReadPDU(t *testing.T, conn net.Conn) *ldap.LDAPMessage {
	t.Helper()
	fr := transport.NewFrameReader(conn, 0)
	pdu, err := fr.ReadPDU()
	require.NoError(t, err)
	msg, err := ldap.ParseLDAPMessage(pdu)
	require.NoError(t, err)
	return msg
}

func serverWriteTagged(t *testing.T, conn net.Conn, msgID int, tagged []byte) {
	t.Helper()
	pdu, err := ldap.EncodeMessage(msgID, tagged, nil)
	require.NoError(t, err)
	require.NoError(t, transport.WritePDU(conn, pdu))
}

func newPipeClient(t *testing.T) (*Client, net.Conn) {
	t.Helper()
	server, clientConn := net.Pipe()
	c, err := NewClient(context.Background(), clientConn, SchemeLDAP, "example.com", Config{})
	require.NoError(t, err)
	t.Cleanup(func() { c.Close(); server.Close() })
	return c, server
}

func TestBindSimpleSuccess(t *testing.T) {
	c, server := newPipeClient(t)

	go func() {
		msg := serverReadPDU(t, server)
		require.Equal(t, ldap.ApplicationBindRequest, msg.Operation.Tag)
		req, err := ldap.ParseBindRequest(msg.Operation.Data)
		require.NoError(t, err)
		require.Equal(t, "cn=admin,dc=example,dc=com", req.Name)

		resp := &ldap.BindResponse{LDAPResult: ldap.NewSuccessResult()}
		body, err := resp.Encode()
		require.NoError(t, err)
		serverWriteTagged(t, server, msg.MessageID, body)
	}()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	err := c.BindSimple(ctx, "cn=admin,dc=example,dc=com", "secret")
	require.NoError(t, err)
}

func TestBindSimpleInvalidCredentials(t *testing.T) {
	c, server := newPipeClient(t)

	go func() {
		msg := serverReadPDU(t, server)
		resp := &ldap.BindResponse{LDAPResult: ldap.NewErrorResult(ldap.ResultInvalidCredentials, "bad password")}
		body, err := resp.Encode()
		require.NoError(t, err)
		serverWriteTagged(t, server, msg.MessageID, body)
	}()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	err := c.BindSimple(ctx, "cn=admin,dc=example,dc=com", "wrong")
	require.Error(t, err)

	var ldapErr *Error
	require.ErrorAs(t, err, &ldapErr)
	require.Equal(t, Result, ldapErr.Kind)
	require.Equal(t, ldap.ResultInvalidCredentials, ldapErr.ResultCode)
}

func TestSearchCollectsEntriesAndReferrals(t *testing.T) {
	c, server := newPipeClient(t)

	go func() {
		msg := serverReadPDU(t, server)
		require.Equal(t, ldap.ApplicationSearchRequest, msg.Operation.Tag)

		entry := &ldap.SearchResultEntry{
			ObjectName: "cn=alice,dc=example,dc=com",
			Attributes: []ldap.PartialAttribute{{Type: "cn", Values: [][]byte{[]byte("alice")}}},
		}
		body, err := entry.Encode()
		require.NoError(t, err)
		serverWriteTagged(t, server, msg.MessageID, body)

		ref := &ldap.SearchResultReference{URIs: []string{"ldap://other.example.com/dc=example,dc=com"}}
		refBody, err := ref.Encode()
		require.NoError(t, err)
		serverWriteTagged(t, server, msg.MessageID, refBody)

		done := &ldap.SearchResultDone{LDAPResult: ldap.NewSuccessResult()}
		doneBody, err := done.Encode()
		require.NoError(t, err)
		serverWriteTagged(t, server, msg.MessageID, doneBody)
	}()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	entries, referrals, err := c.Search(ctx, "dc=example,dc=com", "(cn=alice)", SearchOptions{Scope: ScopeWholeSubtree})
	require.NoError(t, err)
	require.Len(t, entries, 1)
	require.Equal(t, "cn=alice,dc=example,dc=com", entries[0].DN)
	require.Equal(t, []string{"alice"}, entries[0].GetAttributeStrings("cn"))
	require.Len(t, referrals, 1)
	require.Equal(t, []string{"ldap://other.example.com/dc=example,dc=com"}, referrals[0].URIs)
}

func TestAddModifyDeleteRoundTrip(t *testing.T) {
	c, server := newPipeClient(t)

	go func() {
		addMsg := serverReadPDU(t, server)
		require.Equal(t, ldap.ApplicationAddRequest, addMsg.Operation.Tag)
		addResp := &ldap.AddResponse{LDAPResult: ldap.NewSuccessResult()}
		addBody, err := addResp.Encode()
		require.NoError(t, err)
		serverWriteTagged(t, server, addMsg.MessageID, addBody)

		modMsg := serverReadPDU(t, server)
		require.Equal(t, ldap.ApplicationModifyRequest, modMsg.Operation.Tag)
		modResp := &ldap.ModifyResponse{LDAPResult: ldap.NewSuccessResult()}
		modBody, err := modResp.Encode()
		require.NoError(t, err)
		serverWriteTagged(t, server, modMsg.MessageID, modBody)

		delMsg := serverReadPDU(t, server)
		require.Equal(t, ldap.ApplicationDelRequest, delMsg.Operation.Tag)
		delResp := &ldap.DeleteResponse{LDAPResult: ldap.NewSuccessResult()}
		delBody, err := delResp.Encode()
		require.NoError(t, err)
		serverWriteTagged(t, server, delMsg.MessageID, delBody)
	}()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	require.NoError(t, c.Add(ctx, "cn=bob,dc=example,dc=com", []Attribute{
		{Type: "cn", Values: [][]byte{[]byte("bob")}},
	}))
	require.NoError(t, c.Modify(ctx, "cn=bob,dc=example,dc=com", []Modification{
		{Op: ModReplace, Attribute: Attribute{Type: "mail", Values: [][]byte{[]byte("bob@example.com")}}},
	}))
	require.NoError(t, c.Delete(ctx, "cn=bob,dc=example,dc=com"))
}

func TestCompareTrueFalse(t *testing.T) {
	c, server := newPipeClient(t)

	go func() {
		msg := serverReadPDU(t, server)
		require.Equal(t, ldap.ApplicationCompareRequest, msg.Operation.Tag)
		resp := &ldap.CompareResponse{LDAPResult: ldap.NewErrorResult(ldap.ResultCompareTrue, "")}
		body, err := resp.Encode()
		require.NoError(t, err)
		serverWriteTagged(t, server, msg.MessageID, body)
	}()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	ok, err := c.Compare(ctx, "cn=bob,dc=example,dc=com", "cn", []byte("bob"))
	require.NoError(t, err)
	require.True(t, ok)
}

func TestWithControlsConsumedOnce(t *testing.T) {
	c, server := newPipeClient(t)

	want := Control{OID: "1.2.840.113556.1.4.473", Criticality: false}

	go func() {
		first := serverReadPDU(t, server)
		require.Len(t, first.Controls, 1)
		require.Equal(t, want.OID, first.Controls[0].OID)
		resp := &ldap.DeleteResponse{LDAPResult: ldap.NewSuccessResult()}
		body, err := resp.Encode()
		require.NoError(t, err)
		serverWriteTagged(t, server, first.MessageID, body)

		second := serverReadPDU(t, server)
		require.Empty(t, second.Controls)
		resp2 := &ldap.DeleteResponse{LDAPResult: ldap.NewSuccessResult()}
		body2, err := resp2.Encode()
		require.NoError(t, err)
		serverWriteTagged(t, server, second.MessageID, body2)
	}()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	require.NoError(t, c.WithControls(want).Delete(ctx, "cn=first,dc=example,dc=com"))
	require.NoError(t, c.Delete(ctx, "cn=second,dc=example,dc=com"))
}

func TestUnbindSendsUnbindRequestAndClosesConnection(t *testing.T) {
	c, server := newPipeClient(t)

	readDone := make(chan struct{})
	go func() {
		defer close(readDone)
		msg := serverReadPDU(t, server)
		require.Equal(t, ldap.ApplicationUnbindRequest, msg.Operation.Tag)
	}()

	require.NoError(t, c.Unbind(context.Background()))
	<-readDone

	select {
	case <-c.Done():
	case <-time.After(2 * time.Second):
		t.Fatal("client did not close after Unbind")
	}
}
