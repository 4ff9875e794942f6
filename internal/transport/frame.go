package transport

import (
	"errors"
	"io"
	"net"

	"github.com/oba-ldap/ldapc/internal/ber"
)

// DefaultMaxMessageSize bounds a single LDAPMessage's wire size. A server
// that's misbehaving (or malicious) shouldn't be able to make the client
// allocate unbounded memory for one PDU.
const DefaultMaxMessageSize = 16 * 1024 * 1024

// ErrMessageTooLarge is returned by ReadPDU when a declared message length
// exceeds the configured maximum.
var ErrMessageTooLarge = errors.New("transport: message exceeds maximum size")

// ErrInvalidFrame is returned by ReadPDU when the leading octet of a PDU is
// not the SEQUENCE tag every LDAPMessage starts with.
var ErrInvalidFrame = errors.New("transport: expected LDAPMessage SEQUENCE tag")

// ldapMessageTag is the single-byte identifier octet every LDAPMessage
// begins with: universal class, constructed, tag number 16 (SEQUENCE).
const ldapMessageTag = byte(ber.ClassUniversal | ber.TypeConstructed | ber.TagSequence)

// readChunkSize is how many bytes FrameReader asks the transport for on
// each underlying Read while it doesn't yet know a PDU's total length.
// Once the length is known it reads the rest of the payload in one shot.
const readChunkSize = 4096

// FrameReader reads one complete LDAPMessage PDU at a time from a stream.
// LDAPMessage's outer tag is always a low-tag-number universal SEQUENCE, so
// the identifier octet is always exactly one byte; only the length may be
// multi-octet.
//
// It leans on ber.PeekMessageLength to tell a truncated-so-far PDU (read
// more) apart from a structurally invalid one (give up), per spec.md
// section 4.1's Incomplete/Invalid distinction: buf accumulates bytes read
// from the transport until PeekMessageLength reports a complete TLV length,
// at which point that many bytes are sliced off as the PDU and whatever's
// left over (the start of the next PDU, if the transport delivered more
// than one at once) stays buffered for the next call.
type FrameReader struct {
	r          io.Reader
	maxMessage int
	buf        []byte
}

// NewFrameReader wraps r. maxMessage of 0 uses DefaultMaxMessageSize.
func NewFrameReader(r io.Reader, maxMessage int) *FrameReader {
	if maxMessage <= 0 {
		maxMessage = DefaultMaxMessageSize
	}
	return &FrameReader{r: r, maxMessage: maxMessage}
}

// ReadPDU blocks until one full LDAPMessage has arrived and returns its
// bytes, tag and length octets included, ready for ldap.ParseLDAPMessage.
func (f *FrameReader) ReadPDU() ([]byte, error) {
	for {
		if len(f.buf) > 0 {
			total, err := ber.PeekMessageLength(f.buf)
			switch {
			case err == nil:
				if total > f.maxMessage {
					return nil, ErrMessageTooLarge
				}
				if len(f.buf) >= total {
					if f.buf[0] != ldapMessageTag {
						return nil, ErrInvalidFrame
					}
					pdu := make([]byte, total)
					copy(pdu, f.buf[:total])
					f.buf = append([]byte(nil), f.buf[total:]...)
					return pdu, nil
				}
				// Not reached: a nil error means the whole PDU is buffered.
			case ber.IsIncomplete(err):
				// The length octets or the payload are still missing. A
				// declared length already over the limit is rejected now;
				// otherwise fall through to read more.
				if total > f.maxMessage {
					return nil, ErrMessageTooLarge
				}
			default:
				return nil, err
			}
		}

		if err := f.readMore(); err != nil {
			if err == io.EOF && len(f.buf) > 0 {
				return nil, io.ErrUnexpectedEOF
			}
			return nil, err
		}
	}
}

// readMore reads whatever is available from the transport (up to
// readChunkSize bytes) and appends it to buf. A zero-byte, nil-error read
// (permitted but discouraged by io.Reader's contract) is not an error here:
// the caller just loops back around and tries PeekMessageLength again.
func (f *FrameReader) readMore() error {
	chunk := make([]byte, readChunkSize)
	n, err := f.r.Read(chunk)
	if n > 0 {
		f.buf = append(f.buf, chunk[:n]...)
	}
	return err
}

// WritePDU writes one already-encoded LDAPMessage to conn in a single Write
// call, matching spec.md's "a PDU is written atomically" invariant -- no
// interleaving of bytes from different MessageIDs on the wire. Serializing
// concurrent callers of WritePDU is the caller's (internal/mux's)
// responsibility via its send-side lock.
func WritePDU(conn net.Conn, data []byte) error {
	_, err := conn.Write(data)
	return err
}
