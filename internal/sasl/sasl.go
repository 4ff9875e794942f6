// Package sasl implements the SASL bind exchanger side of RFC 4513 section
// 5.2: a client-driven challenge/response loop that hands the server's
// serverSaslCreds back in and gets the next token to send, until the
// mechanism reports it's done.
package sasl

import "errors"

// ErrExchangeComplete is returned by Step once a mechanism has already
// finished its exchange.
var ErrExchangeComplete = errors.New("sasl: exchange already complete")

// Exchanger drives one SASL mechanism's challenge/response loop. Step is
// called once per BindRequest/BindResponse round trip: challenge is the
// server's serverSaslCreds from the previous BindResponse (nil for the
// first call), and the returned response becomes the credentials of the
// next BindRequest. done reports whether the exchange is now complete --
// the caller still needs to check the final BindResponse's resultCode, a
// mechanism reporting done does not by itself mean the server accepted it.
type Exchanger interface {
	// Mechanism returns the SASL mechanism name carried in the BindRequest's
	// SaslCredentials.
	Mechanism() string
	Step(challenge []byte) (response []byte, done bool, err error)
}
