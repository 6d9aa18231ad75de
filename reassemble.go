package handshake

import "encoding/binary"

const handshakeHeaderLength = 4

// needMoreError is returned internally by reassembleHeader and
// reassembleBody to signal that the current record was fully consumed
// without completing a message; the caller (readHandshakeMessages)
// reports the read direction blocked so another record is read.
type needMoreError struct{}

func (needMoreError) Error() string { return "handshake: need more bytes" }

func (c *Conn) needMore() error { return needMoreError{} }

func isNeedMore(err error) bool {
	_, ok := err.(needMoreError)
	return ok
}

// pullFromCurrentRecord consumes up to n bytes from the record
// currently being drained and appends them to io_buffer, returning how
// many bytes were actually available.
func (c *Conn) pullFromCurrentRecord(n int) int {
	if n > len(c.curRecordBody) {
		n = len(c.curRecordBody)
	}
	c.ioBuffer = append(c.ioBuffer, c.curRecordBody[:n]...)
	c.curRecordBody = c.curRecordBody[n:]
	return n
}

// reassembleHeader is step 4.4.6a: ensure the 4-byte handshake header
// is present in io_buffer, pulling from the current record as
// available. Returns needMoreError if the record was drained before
// the header completed.
//
// Grounded on the teacher's fragmentBuffer (fragment_buffer.go): kept
// the "buffer partial header/body until a full message is present"
// shape, dropped its out-of-order multi-message-sequence tracking
// since TLS's single reliable stream never reorders or retransmits
// (spec.md 4.4, adapted from DTLS's per-flight fragment reassembly).
func (c *Conn) reassembleHeader() error {
	if len(c.ioBuffer) >= handshakeHeaderLength {
		return nil
	}
	need := handshakeHeaderLength - len(c.ioBuffer)
	c.pullFromCurrentRecord(need)
	if len(c.ioBuffer) < handshakeHeaderLength {
		return c.needMore()
	}
	return nil
}

// parsedHeader is the decoded 4-byte handshake header.
type parsedHeader struct {
	Wire   wireType
	Length int
}

func parseHandshakeHeader(header []byte) parsedHeader {
	var lenBuf [4]byte
	copy(lenBuf[1:], header[1:4])
	return parsedHeader{
		Wire:   wireType(header[0]),
		Length: int(binary.BigEndian.Uint32(lenBuf[:])),
	}
}

// reassembleBody is step 4.4.6c: pull up to the declared body length
// from the current record into io_buffer, past the 4-byte header.
// Returns needMoreError if the record was drained before the body
// completed.
func (c *Conn) reassembleBody(declaredLength int) error {
	haveBody := len(c.ioBuffer) - handshakeHeaderLength
	need := declaredLength - haveBody
	if need <= 0 {
		return nil
	}
	c.pullFromCurrentRecord(need)
	if len(c.ioBuffer)-handshakeHeaderLength < declaredLength {
		return c.needMore()
	}
	return nil
}
