package controls

import (
	"errors"
	"sort"
	"sync"

	"github.com/oba-ldap/ldapc/internal/ldap"
)

// ErrNilDecoder is returned by Register when passed a nil decoder func.
var ErrNilDecoder = errors.New("controls: cannot register nil decoder")

// ErrEmptyOID is returned by Register when passed an empty OID.
var ErrEmptyOID = errors.New("controls: cannot register decoder with empty OID")

// Decoder turns an ldap.Control into a typed representation.
type Decoder func(ctrl ldap.Control) (any, error)

// Registry maps control OIDs to Decoders, letting a caller decode every
// control on a response without a type switch over every OID it knows
// about. Controls with no registered decoder are left as raw ldap.Control
// values for the caller to interpret itself.
type Registry struct {
	mu       sync.RWMutex
	decoders map[string]Decoder
}

// NewRegistry returns a Registry with PagedResults and TransactionSpec
// pre-registered.
func NewRegistry() *Registry {
	r := &Registry{decoders: make(map[string]Decoder)}
	_ = r.Register(PagedResultsOID, func(ctrl ldap.Control) (any, error) {
		return ParsePagedResults(ctrl)
	})
	_ = r.Register(TransactionSpecOID, func(ctrl ldap.Control) (any, error) {
		return ParseTransactionSpec(ctrl), nil
	})
	return r
}

// Register installs decoder for oid, replacing any existing registration.
func (r *Registry) Register(oid string, decoder Decoder) error {
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

// Decode looks up a decoder for ctrl.OID and runs it. ok is false if no
// decoder is registered, in which case the caller should fall back to the
// raw ldap.Control.
func (r *Registry) Decode(ctrl ldap.Control) (value any, ok bool, err error) {
	r.mu.RLock()
	decoder, exists := r.decoders[ctrl.OID]
	r.mu.RUnlock()
	if !exists {
		return nil, false, nil
	}
	v, err := decoder(ctrl)
	if err != nil {
		return nil, true, err
	}
	return v, true, nil
}

// DecodeAll runs Decode over every control in controls and returns the
// decoded values for the ones with a registered decoder, preserving order.
func (r *Registry) DecodeAll(controls []ldap.Control) ([]any, error) {
	var decoded []any
	for _, ctrl := range controls {
		v, ok, err := r.Decode(ctrl)
		if err != nil {
			return nil, err
		}
		if ok {
			decoded = append(decoded, v)
		}
	}
	return decoded, nil
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
