package handshake

import "encoding/binary"

// writeOutbound is the Outbound Driver of spec.md 4.5: writes exactly
// one handshake message, possibly spanning several records, and
// advances the cursor. Returns a *BlockedError when a flush could not
// fully drain; the caller resumes by calling writeOutbound again with
// the same Conn, which skips re-invoking the handler since io_buffer
// is no longer fresh (spec.md 5).
//
// Grounded on the teacher's handshaker write path (handshaker.go,
// deleted) and flighthandler.go's getFlightGenerator, adapted from
// DTLS's whole-flight-at-once generation to TLS's per-message framing
// with a real 3-byte wire length rather than DTLS's fragment offsets.
func (c *Conn) writeOutbound() error {
	action := c.currentAction()

	if c.ioWiped {
		c.log.Tracef("[handshake:%s] -> %s", c.Role, c.CurrentMessageType())
		switch action.Record {
		case RecordHandshake:
			c.ioBuffer = append(c.ioBuffer, 0, 0, 0, 0)
			c.ioWiped = false
			if err := action.HandlerFor(c.Role).Handle(c); err != nil {
				return err
			}
			bodyLen := len(c.ioBuffer) - handshakeHeaderLength
			c.ioBuffer[0] = byte(action.Wire)
			var lenBuf [4]byte
			binary.BigEndian.PutUint32(lenBuf[:], uint32(bodyLen))
			copy(c.ioBuffer[1:4], lenBuf[1:])
		case RecordChangeCipherSpec:
			c.ioWiped = false
			if err := action.HandlerFor(c.Role).Handle(c); err != nil {
				return err
			}
		default:
			return badMessage("outbound driver invoked for a non-writable record type")
		}
	}

	for len(c.ioBuffer) > 0 {
		maxPayload := c.Record.MaxWritePayload()
		if maxPayload <= 0 {
			maxPayload = len(c.ioBuffer)
		}
		n := maxPayload
		if n > len(c.ioBuffer) {
			n = len(c.ioBuffer)
		}
		chunk := c.ioBuffer[:n]

		if err := c.Record.WriteRecord(action.Record, chunk); err != nil {
			return err
		}

		if action.Record == RecordHandshake {
			c.updateTranscript(nil, chunk)
		}

		c.ioBuffer = c.ioBuffer[n:]

		blocked, err := c.Record.Flush()
		if err != nil {
			return err
		}
		if blocked {
			return &BlockedError{Direction: DirectionWrite}
		}
	}

	c.wipeIO()
	c.advanceMessage()
	return nil
}
