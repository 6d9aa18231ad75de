package handshake

// RecordIO is the record layer this driver consumes (spec.md 1, 6).
// Encryption, MAC/AEAD protection, and record fragmentation live on
// the other side of this interface; RecordIO only hands the driver
// already-decrypted record bodies and accepts already-plaintext
// bodies to protect and frame.
//
// Grounded on the teacher's recordLayer (record_layer.go, deleted -
// its DTLS epoch/sequence-number header does not apply to a TLS
// 1.0-1.2 stream) reduced to the shape spec.md 6 actually names:
// read_full_record, record_max_write_payload_size, record_write,
// flush.
type RecordIO interface {
	// ReadRecord reads exactly one record and returns its content
	// type, its fully reassembled body, and - only for an SSLv2-format
	// record (only legal when the driver's current expected message is
	// ClientHello) - the three TLS-version bytes carried at offset 2 of
	// the SSLv2 header (RFC 5246 Appendix E.2). sslv2Version is nil for
	// every ordinary TLS record. Returns a *BlockedError if the
	// transport did not yet have a full record available; the caller
	// (Conn.readInbound) simply returns that error upward unchanged.
	ReadRecord() (t RecordType, sslv2Version []byte, body []byte, err error)

	// MaxWritePayload returns how many plaintext bytes may be placed
	// in a single outgoing record right now (accounts for the
	// negotiated cipher's MAC/padding/AEAD overhead, entirely the
	// record layer's concern).
	MaxWritePayload() int

	// WriteRecord submits a plaintext fragment for protection and
	// framing. It does not necessarily reach the transport until
	// Flush is called.
	WriteRecord(t RecordType, payload []byte) error

	// Flush drains any buffered, framed records to the transport.
	// blocked is true if the transport accepted only part of the
	// buffered bytes; the caller must retry Flush before doing
	// anything else.
	Flush() (blocked bool, err error)
}
