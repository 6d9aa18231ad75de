package wire

import "golang.org/x/crypto/cryptobyte"

// CertificateList is RFC 5246 section 7.4.2's Certificate body: an
// ordered chain of opaque DER certificates. Parsing and validating
// the certificates themselves is an external collaborator.
type CertificateList struct {
	Certs [][]byte
}

// Marshal encodes the certificate chain.
func (c *CertificateList) Marshal() ([]byte, error) {
	var b cryptobyte.Builder
	b.AddUint24LengthPrefixed(func(b *cryptobyte.Builder) {
		for _, cert := range c.Certs {
			b.AddUint24LengthPrefixed(func(b *cryptobyte.Builder) { b.AddBytes(cert) })
		}
	})
	return b.Bytes()
}

// Unmarshal decodes a certificate chain.
func (c *CertificateList) Unmarshal(data []byte) error {
	s := cryptobyte.String(data)
	var chain cryptobyte.String
	if !s.ReadUint24LengthPrefixed(&chain) || !s.Empty() {
		return errMalformed
	}
	c.Certs = c.Certs[:0]
	for !chain.Empty() {
		var cert cryptobyte.String
		if !chain.ReadUint24LengthPrefixed(&cert) {
			return errMalformed
		}
		c.Certs = append(c.Certs, append([]byte(nil), cert...))
	}
	return nil
}

// CertificateStatus is RFC 6066 section 8's CertificateStatus body,
// restricted to the OCSP status type this driver's OCSP_STATUS flag
// concerns itself with.
type CertificateStatus struct {
	Response []byte
}

func (c *CertificateStatus) Marshal() ([]byte, error) {
	var b cryptobyte.Builder
	b.AddUint8(1) // status_type: ocsp
	b.AddUint24LengthPrefixed(func(b *cryptobyte.Builder) { b.AddBytes(c.Response) })
	return b.Bytes()
}

func (c *CertificateStatus) Unmarshal(data []byte) error {
	s := cryptobyte.String(data)
	var statusType uint8
	var resp cryptobyte.String
	if !s.ReadUint8(&statusType) || statusType != 1 || !s.ReadUint24LengthPrefixed(&resp) || !s.Empty() {
		return errMalformed
	}
	c.Response = append([]byte(nil), resp...)
	return nil
}

// CertificateRequest is RFC 5246 section 7.4.4's body, kept in its
// raw opaque-vector shape - which certificate types and signature
// algorithms are acceptable is negotiated policy, an external
// collaborator.
type CertificateRequest struct {
	CertificateTypes        []byte
	SupportedSignatureAlgos []byte
	DistinguishedNames      []byte
}

func (c *CertificateRequest) Marshal() ([]byte, error) {
	var b cryptobyte.Builder
	b.AddUint8LengthPrefixed(func(b *cryptobyte.Builder) { b.AddBytes(c.CertificateTypes) })
	b.AddUint16LengthPrefixed(func(b *cryptobyte.Builder) { b.AddBytes(c.SupportedSignatureAlgos) })
	b.AddUint16LengthPrefixed(func(b *cryptobyte.Builder) { b.AddBytes(c.DistinguishedNames) })
	return b.Bytes()
}

func (c *CertificateRequest) Unmarshal(data []byte) error {
	s := cryptobyte.String(data)
	var types, algos, names cryptobyte.String
	if !s.ReadUint8LengthPrefixed(&types) ||
		!s.ReadUint16LengthPrefixed(&algos) ||
		!s.ReadUint16LengthPrefixed(&names) ||
		!s.Empty() {
		return errMalformed
	}
	c.CertificateTypes = append([]byte(nil), types...)
	c.SupportedSignatureAlgos = append([]byte(nil), algos...)
	c.DistinguishedNames = append([]byte(nil), names...)
	return nil
}

// CertificateVerify is RFC 5246 section 7.4.8's body: an opaque
// signature over the transcript so far. Which hash/signature
// algorithm pair and the signature math itself are external
// collaborators.
type CertificateVerify struct {
	SignatureAndHashAlgorithm uint16
	Signature                 []byte
}

func (c *CertificateVerify) Marshal() ([]byte, error) {
	var b cryptobyte.Builder
	b.AddUint16(c.SignatureAndHashAlgorithm)
	b.AddUint16LengthPrefixed(func(b *cryptobyte.Builder) { b.AddBytes(c.Signature) })
	return b.Bytes()
}

func (c *CertificateVerify) Unmarshal(data []byte) error {
	s := cryptobyte.String(data)
	var sig cryptobyte.String
	if !s.ReadUint16(&c.SignatureAndHashAlgorithm) || !s.ReadUint16LengthPrefixed(&sig) || !s.Empty() {
		return errMalformed
	}
	c.Signature = append([]byte(nil), sig...)
	return nil
}
