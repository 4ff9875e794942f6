package extended

import (
	"errors"
	"sort"
	"sync"
)

// ErrNilDecoder is returned by Register when passed a nil decoder func.
var ErrNilDecoder = errors.New("extended: cannot register nil decoder")

// ErrEmptyOID is returned by Register when passed an empty OID.
var ErrEmptyOID = errors.New("extended: cannot register decoder with empty OID")

// ResponseDecoder turns a raw extended responseValue into a typed result.
// Callers that don't need a typed result can ignore the registry and read
// Response.Value directly.
type ResponseDecoder func(value []byte) (any, error)

// Registry maps extended operation OIDs to ResponseDecoders, so a caller that
// doesn't know ahead of time which extended operations it will receive
// unsolicited (or via Client.Extended with a generic OID) can still get a
// typed result back. The built-in operations are registered by NewRegistry.
type Registry struct {
	mu       sync.RWMutex
	decoders map[string]ResponseDecoder
}

// NewRegistry returns a Registry with Password Modify pre-registered.
func NewRegistry() *Registry {
	r := &Registry{decoders: make(map[string]ResponseDecoder)}
	// StartTLS and Who Am I? carry no structured value worth a decoder beyond
	// the raw bytes/string already exposed on Response; registering a decoder
	// for them would just be an identity function, so only PasswordModify,
	// which has real internal structure, gets one by default.
	_ = r.Register(OIDPasswordModify, func(value []byte) (any, error) {
		return ParsePasswordModifyResponseValue(value)
	})
	return r
}

// Register installs decoder for oid, replacing any existing registration.
func (r *Registry) Register(oid string, decoder ResponseDecoder) error {
	if decoder == nil {
		return ErrNilDecoder
	}
	if oid == "" {
		return ErrEmptyOID
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.decoders[oid] = decoder
	return nil
}

// Unregister removes the decoder for oid. Returns true if one was removed.
func (r *Registry) Unregister(oid string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.decoders[oid]; ok {
		delete(r.decoders, oid)
		return true
	}
	return false
}

// Decode looks up a decoder for resp.OID and, if found, runs it against
// resp.Value. If no decoder is registered, it returns (nil, false, nil): the
// caller should fall back to the raw Value field.
func (r *Registry) Decode(resp *Response) (value any, ok bool, err error) {
	r.mu.RLock()
	decoder, exists := r.decoders[resp.OID]
	r.mu.RUnlock()
	if !exists {
		return nil, false, nil
	}
	v, err := decoder(resp.Value)
	if err != nil {
		return nil, true, err
	}
	return v, true, nil
}

// SupportedOIDs returns a sorted list of OIDs with a registered decoder.
func (r *Registry) SupportedOIDs() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	oids := make([]string, 0, len(r.decoders))
	for oid := range r.decoders {
		oids = append(oids, oid)
	}
	sort.Strings(oids)
	return oids
}
