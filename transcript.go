package handshake

import (
	"crypto/md5"
	"crypto/sha1"
	"crypto/sha256"
	"crypto/sha512"
	"hash"
)

// transcriptSet is the Transcript Hasher of spec.md 4.2: a set of
// running digests over every handshake message header and body seen
// so far, keyed by hash algorithm. Digests are read out mid-handshake
// (Finished, CertificateVerify) by cloning the running hash.Hash via
// its encoding.BinaryMarshaler/Unmarshaler pair rather than by
// resetting it, so hashing can continue afterward.
//
// Grounded on the teacher's handshakeCacheItem/handshakeCache
// (handshake_cache.go, deleted): kept the "append raw bytes to every
// still-required digest" shape, dropped its single-hash HandshakeHash
// assumption since TLS 1.0-1.2 must track several digests at once and
// only settles on which ones matter once negotiation completes.
type transcriptSet struct {
	hashers map[HashAlgorithm]hash.Hash
}

func newTranscriptSet() *transcriptSet {
	return &transcriptSet{hashers: make(map[HashAlgorithm]hash.Hash)}
}

func newHasher(alg HashAlgorithm) hash.Hash {
	switch alg {
	case HashMD5:
		return md5.New()
	case HashSHA1:
		return sha1.New()
	case HashSHA224:
		return sha256.New224()
	case HashSHA256:
		return sha256.New()
	case HashSHA384:
		return sha512.New384()
	case HashSHA512:
		return sha512.New()
	default:
		panic("handshake: unsupported transcript hash algorithm")
	}
}

// requiredHashAlgorithms decides, from the connection's currently
// known negotiated parameters, which digests still matter. Evaluated
// fresh on every Update rather than cached once: the answer only ever
// narrows as version and cipher suite become known, and caching a
// stale answer from before negotiation would under-hash.
//
// Before the version and cipher suite are known the answer is
// conservative - every candidate algorithm - since ClientHello and
// ServerHello must be hashed before the driver has any basis to
// exclude one.
func (c *Conn) requiredHashAlgorithms() []HashAlgorithm {
	if c.NegotiatedVersion == 0 || c.CipherSuite == nil {
		return allHashAlgorithms
	}
	seen := make(map[HashAlgorithm]bool, 2+len(c.SigHashAlgorithms))
	if c.NegotiatedVersion < VersionTLS12 {
		seen[HashMD5] = true
		seen[HashSHA1] = true
	} else {
		seen[c.CipherSuite.PRFHash()] = true
	}
	for _, h := range c.SigHashAlgorithms {
		seen[h] = true
	}
	out := make([]HashAlgorithm, 0, len(seen))
	for h := range seen {
		out = append(out, h)
	}
	return out
}

// update appends header and body to every hash algorithm currently
// required, creating each lazily on first use.
func (t *transcriptSet) update(required []HashAlgorithm, header, body []byte) {
	for _, alg := range required {
		h, ok := t.hashers[alg]
		if !ok {
			h = newHasher(alg)
			t.hashers[alg] = h
		}
		h.Write(header)
		h.Write(body)
	}
}

// updateTranscript feeds one handshake message's header and body into the
// transcript, per spec.md 4.2: called for both inbound and outbound
// messages, and for inbound must run after the message's Handler so a
// resolver adjustment made while handling it is reflected in which
// digests are "required" before the bytes are committed.
func (c *Conn) updateTranscript(header, body []byte) {
	c.transcript.update(c.requiredHashAlgorithms(), header, body)
}

// TranscriptSum returns a clone of the running digest for alg without
// disturbing it, so Finished and CertificateVerify handlers can read
// a snapshot mid-handshake. Panics if alg was never required; callers
// only ask for algorithms requiredHashAlgorithms already reports.
func (c *Conn) TranscriptSum(alg HashAlgorithm) []byte {
	h, ok := c.transcript.hashers[alg]
	if !ok {
		panic("handshake: transcript sum requested for a hash never started: " + hashAlgorithmName(alg))
	}
	// crypto/md5, crypto/sha1, crypto/sha256 and crypto/sha512's
	// Hash implementations all support MarshalBinary, letting the
	// running state be captured without resetting it.
	marshaler, ok := h.(interface{ MarshalBinary() ([]byte, error) })
	if !ok {
		return h.Sum(nil)
	}
	state, err := marshaler.MarshalBinary()
	if err != nil {
		return h.Sum(nil)
	}
	clone := newHasher(alg)
	if unmarshaler, ok := clone.(interface{ UnmarshalBinary([]byte) error }); ok {
		if err := unmarshaler.UnmarshalBinary(state); err == nil {
			return clone.Sum(nil)
		}
	}
	return h.Sum(nil)
}

func hashAlgorithmName(alg HashAlgorithm) string {
	switch alg {
	case HashMD5:
		return "md5"
	case HashSHA1:
		return "sha1"
	case HashSHA224:
		return "sha224"
	case HashSHA256:
		return "sha256"
	case HashSHA384:
		return "sha384"
	case HashSHA512:
		return "sha512"
	default:
		return "none"
	}
}
