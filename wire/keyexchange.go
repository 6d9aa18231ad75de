package wire

import "golang.org/x/crypto/cryptobyte"

// ServerKeyExchange and ClientKeyExchange are RFC 5246 sections 7.4.3
// and 7.4.7's bodies. Their internal structure is entirely a function
// of the negotiated key-exchange algorithm (an external collaborator
// per spec.md 1), so this driver treats both as an opaque payload it
// neither generates nor interprets, sized by whatever the record
// framing already delimits.
type ServerKeyExchange struct {
	Params []byte
}

func (k *ServerKeyExchange) Marshal() ([]byte, error) {
	var b cryptobyte.Builder
	b.AddBytes(k.Params)
	return b.Bytes()
}

func (k *ServerKeyExchange) Unmarshal(data []byte) error {
	k.Params = append([]byte(nil), data...)
	return nil
}

type ClientKeyExchange struct {
	Params []byte
}

func (k *ClientKeyExchange) Marshal() ([]byte, error) {
	var b cryptobyte.Builder
	b.AddBytes(k.Params)
	return b.Bytes()
}

func (k *ClientKeyExchange) Unmarshal(data []byte) error {
	k.Params = append([]byte(nil), data...)
	return nil
}

// NewSessionTicket is RFC 5077 section 3.3's body.
type NewSessionTicket struct {
	LifetimeHint uint32
	Ticket       []byte
}

func (t *NewSessionTicket) Marshal() ([]byte, error) {
	var b cryptobyte.Builder
	b.AddUint32(t.LifetimeHint)
	b.AddUint16LengthPrefixed(func(b *cryptobyte.Builder) { b.AddBytes(t.Ticket) })
	return b.Bytes()
}

func (t *NewSessionTicket) Unmarshal(data []byte) error {
	s := cryptobyte.String(data)
	var ticket cryptobyte.String
	if !s.ReadUint32(&t.LifetimeHint) || !s.ReadUint16LengthPrefixed(&ticket) || !s.Empty() {
		return errMalformed
	}
	t.Ticket = append([]byte(nil), ticket...)
	return nil
}

// Finished is RFC 5246 section 7.4.9's body: the PRF output over the
// transcript, whose length is fixed by the cipher suite's PRF (an
// external collaborator) rather than by this wire encoding.
type Finished struct {
	VerifyData []byte
}

func (f *Finished) Marshal() ([]byte, error) {
	var b cryptobyte.Builder
	b.AddBytes(f.VerifyData)
	return b.Bytes()
}

func (f *Finished) Unmarshal(data []byte) error {
	if len(data) == 0 {
		return errBufferTooSmall
	}
	f.VerifyData = append([]byte(nil), data...)
	return nil
}
