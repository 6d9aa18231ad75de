package wire

import "golang.org/x/crypto/cryptobyte"

// ClientHello is RFC 5246 section 7.4.1.2's ClientHello body.
// Extension contents are left opaque - the driver's job is only to
// know that an extensions block exists and hand its raw bytes to
// whatever extension parser the embedder supplies; this package does
// not itself understand any extension's semantics.
type ClientHello struct {
	Version            uint16
	Random             Random
	SessionID          []byte
	CipherSuites       []uint16
	CompressionMethods []uint8
	Extensions         []byte
}

// Marshal encodes the ClientHello body.
func (h *ClientHello) Marshal() ([]byte, error) {
	var b cryptobyte.Builder
	b.AddUint16(h.Version)
	b.AddBytes(h.Random[:])
	b.AddUint8LengthPrefixed(func(b *cryptobyte.Builder) { b.AddBytes(h.SessionID) })
	b.AddUint16LengthPrefixed(func(b *cryptobyte.Builder) {
		for _, cs := range h.CipherSuites {
			b.AddUint16(cs)
		}
	})
	b.AddUint8LengthPrefixed(func(b *cryptobyte.Builder) { b.AddBytes(h.CompressionMethods) })
	if len(h.Extensions) > 0 {
		b.AddUint16LengthPrefixed(func(b *cryptobyte.Builder) { b.AddBytes(h.Extensions) })
	}
	return b.Bytes()
}

// Unmarshal decodes a ClientHello body.
func (h *ClientHello) Unmarshal(data []byte) error {
	s := cryptobyte.String(data)
	var sessionID, compression cryptobyte.String
	var suites cryptobyte.String
	var random []byte
	if !s.ReadUint16(&h.Version) ||
		!s.ReadBytes(&random, len(h.Random)) ||
		!s.ReadUint8LengthPrefixed(&sessionID) ||
		!s.ReadUint16LengthPrefixed(&suites) ||
		!s.ReadUint8LengthPrefixed(&compression) {
		return errMalformed
	}
	copy(h.Random[:], random)
	h.SessionID = append([]byte(nil), sessionID...)
	h.CompressionMethods = append([]byte(nil), compression...)

	h.CipherSuites = h.CipherSuites[:0]
	for !suites.Empty() {
		var cs uint16
		if !suites.ReadUint16(&cs) {
			return errMalformed
		}
		h.CipherSuites = append(h.CipherSuites, cs)
	}

	if !s.Empty() {
		var ext cryptobyte.String
		if !s.ReadUint16LengthPrefixed(&ext) || !s.Empty() {
			return errMalformed
		}
		h.Extensions = append([]byte(nil), ext...)
	}
	return nil
}

// ServerHello is RFC 5246 section 7.4.1.3's ServerHello body.
type ServerHello struct {
	Version           uint16
	Random            Random
	SessionID         []byte
	CipherSuite       uint16
	CompressionMethod uint8
	Extensions        []byte
}

// Marshal encodes the ServerHello body.
func (h *ServerHello) Marshal() ([]byte, error) {
	var b cryptobyte.Builder
	b.AddUint16(h.Version)
	b.AddBytes(h.Random[:])
	b.AddUint8LengthPrefixed(func(b *cryptobyte.Builder) { b.AddBytes(h.SessionID) })
	b.AddUint16(h.CipherSuite)
	b.AddUint8(h.CompressionMethod)
	if len(h.Extensions) > 0 {
		b.AddUint16LengthPrefixed(func(b *cryptobyte.Builder) { b.AddBytes(h.Extensions) })
	}
	return b.Bytes()
}

// Unmarshal decodes a ServerHello body.
func (h *ServerHello) Unmarshal(data []byte) error {
	s := cryptobyte.String(data)
	var sessionID cryptobyte.String
	var random []byte
	if !s.ReadUint16(&h.Version) ||
		!s.ReadBytes(&random, len(h.Random)) ||
		!s.ReadUint8LengthPrefixed(&sessionID) ||
		!s.ReadUint16(&h.CipherSuite) ||
		!s.ReadUint8(&h.CompressionMethod) {
		return errMalformed
	}
	copy(h.Random[:], random)
	h.SessionID = append([]byte(nil), sessionID...)

	if !s.Empty() {
		var ext cryptobyte.String
		if !s.ReadUint16LengthPrefixed(&ext) || !s.Empty() {
			return errMalformed
		}
		h.Extensions = append([]byte(nil), ext...)
	}
	return nil
}
