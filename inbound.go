package handshake

// AlertProcessor is the external collaborator that classifies an
// alert record's fatality (spec.md 6). Kept as a narrow interface so
// this package never needs to import an alert-parsing package.
type AlertProcessor interface {
	Process(body []byte) error
}

// SSLv2HelloHandler decodes an SSLv2-format ClientHello. Only legal
// when the current expected message is ClientHello (spec.md 4.4.1).
type SSLv2HelloHandler interface {
	HandleSSLv2(c *Conn) error
}

func adjustForArrival(t HandshakeType, seq []MessageID, from int, arrivedWire wireType) (int, bool) {
	for i := from; i < len(seq); i++ {
		if ActionFor(seq[i]).Wire == arrivedWire {
			return i, true
		}
	}
	return 0, false
}

// applyAdaptiveAdjustments implements the two mid-flight adjustments
// of spec.md 4.3/4.4.6d. Only the client makes either adjustment; a
// server never mis-predicts its own flight.
func (c *Conn) applyAdaptiveAdjustments(arrivedWire wireType) {
	if c.Role != RoleClient {
		return
	}
	expected := c.CurrentMessageType()

	if expected == ServerHelloDone && arrivedWire == wireCertificateReq {
		candidate := c.handshakeType | ClientAuth
		if idx, ok := adjustForArrival(candidate, SequenceFor(candidate), c.messageNumber, arrivedWire); ok {
			c.handshakeType = candidate
			c.messageNumber = idx
		}
		return
	}

	if expected == ServerCertStatus && arrivedWire != ActionFor(ServerCertStatus).Wire {
		candidate := c.handshakeType &^ OCSPStatus
		if idx, ok := adjustForArrival(candidate, SequenceFor(candidate), c.messageNumber, arrivedWire); ok {
			c.handshakeType = candidate
			c.messageNumber = idx
		}
	}
}

// readInbound is the Inbound Driver of spec.md 4.4: reads records
// until one handshake message completes, dispatches it, and advances.
// Returns a *BlockedError when the record layer has no full record
// available yet; the caller resumes by calling readInbound again with
// the same Conn.
//
// Grounded on the teacher's handshaker read path (handshaker.go,
// deleted) and flighthandler.go's getFlightParser dispatch table,
// adapted from DTLS's per-flight batch parse to TLS's one-message-at-
// a-time drive and stripped of retransmission handling (spec.md 5).
func (c *Conn) readInbound(sslv2 SSLv2HelloHandler, alerts AlertProcessor) error {
	if len(c.curRecordBody) == 0 {
		rt, sslv2Version, body, err := c.Record.ReadRecord()
		if err != nil {
			return err
		}
		c.curRecordType = rt
		c.curRecordBody = body

		if sslv2Version != nil {
			if c.CurrentMessageType() != ClientHello {
				return badMessage("SSLv2-format record is only legal for ClientHello")
			}
			if len(sslv2Version) != 3 {
				return badMessage("SSLv2 version header must be exactly 3 bytes")
			}
			c.updateTranscript(nil, sslv2Version)
			c.updateTranscript(nil, body)
			if sslv2 == nil {
				return badMessage("no SSLv2 ClientHello handler registered")
			}
			if err := sslv2.HandleSSLv2(c); err != nil {
				return err
			}
			c.wipeIO()
			c.advanceMessage()
			c.curRecordBody = nil
			c.inStatus = inStatusEncrypted
			return nil
		}
	}

	switch c.curRecordType {
	case RecordApplicationData:
		return badMessage("application data received during handshake")

	case RecordChangeCipherSpec:
		if len(c.curRecordBody) != 1 {
			return badMessage("change_cipher_spec body must be exactly one byte")
		}
		action := c.currentAction()
		if action.Record != RecordChangeCipherSpec {
			return badMessage("unexpected change_cipher_spec record")
		}
		handler := action.HandlerFor(c.Role)
		c.ioBuffer = append(c.ioBuffer[:0], c.curRecordBody...)
		c.curRecordBody = nil
		if err := handler.Handle(c); err != nil {
			return err
		}
		c.wipeIO()
		c.advanceMessage()
		c.inStatus = inStatusEncrypted
		return nil

	case RecordAlert:
		body := c.curRecordBody
		c.curRecordBody = nil
		c.inStatus = inStatusEncrypted
		if alerts == nil {
			return badMessage("no alert processor registered")
		}
		return alerts.Process(body)

	case RecordHandshake:
		return c.readHandshakeMessages()

	default:
		c.curRecordBody = nil
		c.inStatus = inStatusEncrypted
		return nil
	}
}

// readHandshakeMessages implements spec.md 4.4 step 6: loop until the
// current record is drained, dispatching one complete handshake
// message at a time.
func (c *Conn) readHandshakeMessages() error {
	for len(c.curRecordBody) > 0 || len(c.ioBuffer) > 0 {
		if err := c.reassembleHeader(); err != nil {
			if isNeedMore(err) {
				return &BlockedError{Direction: DirectionRead}
			}
			return err
		}

		header := parseHandshakeHeader(c.ioBuffer[:handshakeHeaderLength])
		if header.Length > MaxHandshakeMessageLength {
			return badMessage("handshake message exceeds maximum length")
		}

		if err := c.reassembleBody(header.Length); err != nil {
			if isNeedMore(err) {
				return &BlockedError{Direction: DirectionRead}
			}
			return err
		}

		c.applyAdaptiveAdjustments(header.Wire)

		expected := c.currentAction()
		if expected.Wire != header.Wire {
			return badMessage("unexpected handshake message type at current sequence position")
		}
		c.log.Tracef("[handshake:%s] <- %s", c.Role, c.CurrentMessageType())

		headerBytes := append([]byte(nil), c.ioBuffer[:handshakeHeaderLength]...)
		body := c.ioBuffer[handshakeHeaderLength:]

		// Handlers see only the body, per the inbound precondition
		// (handler.go): reslice, don't copy, so this is the same
		// backing array the transcript update below reads.
		c.ioBuffer = body

		handler := expected.HandlerFor(c.Role)
		if err := handler.Handle(c); err != nil {
			return err
		}

		c.updateTranscript(headerBytes, body)

		c.wipeIO()
		c.advanceMessage()
	}
	c.inStatus = inStatusEncrypted
	return nil
}
