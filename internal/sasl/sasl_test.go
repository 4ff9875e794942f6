package sasl

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestExternalWithAuthzID(t *testing.T) {
	e := &External{AuthzID: "dn:uid=alice,ou=users,dc=example,dc=com"}
	require.Equal(t, "EXTERNAL", e.Mechanism())

	resp, done, err := e.Step(nil)
	require.NoError(t, err)
	require.True(t, done)
	require.Equal(t, []byte("dn:uid=alice,ou=users,dc=example,dc=com"), resp)
}

func TestExternalAnonymous(t *testing.T) {
	e := &External{}
	resp, done, err := e.Step(nil)
	require.NoError(t, err)
	require.True(t, done)
	require.Nil(t, resp)
}

func TestWrapGSSTokenShortForm(t *testing.T) {
	inner := []byte{0xDE, 0xAD, 0xBE, 0xEF}
	wrapped := wrapGSSToken(inner)

	require.Equal(t, byte(0x60), wrapped[0])
	bodyLen := len(krb5OID) + len(inner)
	require.Equal(t, byte(bodyLen), wrapped[1])
	require.Equal(t, krb5OID, wrapped[2:2+len(krb5OID)])
	require.Equal(t, inner, wrapped[2+len(krb5OID):])
}

func TestWrapGSSTokenLongForm(t *testing.T) {
	inner := make([]byte, 200)
	wrapped := wrapGSSToken(inner)

	require.Equal(t, byte(0x60), wrapped[0])
	require.Equal(t, byte(0x81), wrapped[1]) // one length octet follows
	bodyLen := len(krb5OID) + len(inner)
	require.Equal(t, byte(bodyLen), wrapped[2])
}

func TestSecurityLayerReplyRejectsShortOffer(t *testing.T) {
	g := &GSSAPI{step: 1}
	_, _, err := g.securityLayerReply([]byte{0x01})
	require.Error(t, err)
}

func TestSecurityLayerReplyNoSecurityLayer(t *testing.T) {
	g := &GSSAPI{step: 1}
	reply, done, err := g.securityLayerReply([]byte{0x01, 0x00, 0x10, 0x00})
	require.NoError(t, err)
	require.True(t, done)
	require.Equal(t, []byte{0x01, 0x00, 0x00, 0x00}, reply)
}

func TestGSSAPIStepAfterCompleteErrors(t *testing.T) {
	g := &GSSAPI{step: 2}
	_, done, err := g.Step(nil)
	require.ErrorIs(t, err, ErrExchangeComplete)
	require.True(t, done)
}
