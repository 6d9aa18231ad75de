package handshake

// HashAlgorithm names a transcript hash primitive, matching the hash
// half of RFC 5246 section 7.4.1.4.1's HashAlgorithm enum plus the
// legacy MD5+SHA1 concatenation TLS 1.0/1.1 use for Finished and
// CertificateVerify. Signature algorithm pairing, negotiation, and
// verification are external collaborators (spec.md 1); this package
// only needs enough of the enum to decide which transcript hashes to
// keep running.
type HashAlgorithm uint8

const (
	HashNone HashAlgorithm = iota
	HashMD5
	HashSHA1
	HashSHA224
	HashSHA256
	HashSHA384
	HashSHA512
)

// allHashAlgorithms is the full candidate set kept running before
// enough of the connection is negotiated to narrow it (transcript.go
// requiredHashAlgorithms).
var allHashAlgorithms = []HashAlgorithm{
	HashMD5, HashSHA1, HashSHA224, HashSHA256, HashSHA384, HashSHA512,
}

// hashAlgorithmFromScheme extracts the hash half of an RFC 5246
// section 7.4.1.4.1 SignatureAndHashAlgorithm pair, encoded here as
// uint16(hash)<<8 | uint16(signature).
func hashAlgorithmFromScheme(scheme uint16) HashAlgorithm {
	switch scheme >> 8 {
	case 1:
		return HashMD5
	case 2:
		return HashSHA1
	case 3:
		return HashSHA224
	case 4:
		return HashSHA256
	case 5:
		return HashSHA384
	case 6:
		return HashSHA512
	default:
		return HashNone
	}
}
