// Package wire holds the RFC 5246 wire encodings for the handshake
// bodies the driver in the parent package dispatches by name. Cipher
// suite semantics, certificate validation, and key exchange math are
// external collaborators; these types carry only the bytes RFC 5246
// puts on the wire for each message body.
package wire

import "errors"

var (
	errBufferTooSmall = errors.New("wire: buffer too small")
	errMalformed      = errors.New("wire: malformed message body")
)

// Random is the 32-byte ClientHello/ServerHello random field (RFC
// 5246 section 7.4.1.2).
type Random [32]byte
