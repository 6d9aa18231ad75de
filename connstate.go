package handshake

import "github.com/pion/logging"

// inStatus mirrors s2n's conn->in_status: after a record has been
// fully consumed, ENCRYPTED signals the record layer to expect a
// fresh record header next time it is asked to read.
type inStatus uint8

const (
	inStatusPlaintext inStatus = iota
	inStatusEncrypted
)

// MaxHandshakeMessageLength is S2N_MAXIMUM_HANDSHAKE_MESSAGE_LENGTH:
// the ceiling s2n_handshake_io.c enforces on a single handshake
// message's declared length, which is exactly the 24-bit wire length
// field's own ceiling.
const MaxHandshakeMessageLength = 1<<24 - 1

// CipherSuite is the narrow view this driver needs of the negotiated
// cipher suite. Suite registration, key derivation, and AEAD/CBC
// implementations are external collaborators (spec.md 1); this
// package only needs to know which hash the suite's PRF uses and
// whether its key exchange is ephemeral.
type CipherSuite interface {
	PRFHash() HashAlgorithm
	IsEphemeral() bool
}

// ClientAuthPolicy mirrors s2n's s2n_cert_auth_type.
type ClientAuthPolicy uint8

const (
	ClientAuthNone ClientAuthPolicy = iota
	ClientAuthOptional
	ClientAuthRequired
)

// Version is the negotiated protocol version, used to decide which
// transcript hashes the Transcript Hasher still needs (spec.md 4.2).
type Version uint16

const (
	VersionTLS10 Version = 0x0301
	VersionTLS11 Version = 0x0302
	VersionTLS12 Version = 0x0303
)

// Conn holds the per-connection handshake state of spec.md 3. It is
// created with the connection, mutated only by the drivers and the
// resolver, and frozen once ApplicationData is reached.
//
// Grounded on the teacher's State (state.go, deleted): kept as a
// plain struct of handshake fields, dropped the DTLS epoch/gob
// serialize-for-resumption machinery since session persistence is an
// external collaborator here (spec.md 1).
type Conn struct {
	Role   Role
	Config *Config
	Record RecordIO

	handshakeType HandshakeType
	messageNumber int

	ioBuffer []byte
	ioWiped  bool

	transcript *transcriptSet

	corkedIO bool
	inStatus inStatus

	NegotiatedVersion Version
	CipherSuite       CipherSuite
	SigHashAlgorithms []HashAlgorithm

	SessionID []byte

	// TicketSupport/CacheSupport gate the resolver's two resumption
	// paths (spec.md 4.3 steps 2-3).
	TicketSupport bool
	CacheSupport  bool

	// curRecordBody/curRecordType track the inbound record currently
	// being drained across possibly several handshake messages
	// (spec.md 4.4 step 6's loop).
	curRecordBody []byte
	curRecordType RecordType

	log logging.LeveledLogger

	// Scratch state the reference ClientHello/ServerHello handlers
	// (handlers_hello.go) stash between decoding an incoming message and
	// calling ResolveHandshakeType or encoding the reply.
	offeredCipherSuites  []uint16
	chosenCipherSuiteID  uint16
	presentedSessionID   []byte
	presentedTicket      []byte
	offeredSigSchemes    []uint16
	ocspStapled          bool
	serverKeyParams      []byte

	lastErr errSnapshot
}

// NewConn creates handshake state for one connection, in the INITIAL
// handshake type, positioned at message 0 of {ClientHello,
// ServerHello}.
func NewConn(role Role, cfg *Config, rec RecordIO) *Conn {
	return &Conn{
		Role:          role,
		Config:        cfg,
		Record:        rec,
		handshakeType: Initial,
		ioWiped:       true,
		transcript:    newTranscriptSet(),
		log:           cfg.logger(),
	}
}

// HandshakeType returns the current handshake-type bitmask.
func (c *Conn) HandshakeType() HandshakeType { return c.handshakeType }

// activeSequence returns the ordered message sequence this connection
// is currently following.
func (c *Conn) activeSequence() []MessageID {
	seq := SequenceFor(c.handshakeType)
	if seq == nil {
		panic("handshake: active handshake type has no sequence entry: " + c.handshakeType.Name())
	}
	return seq
}

// CurrentMessageType returns the logical message at the current
// cursor position.
func (c *Conn) CurrentMessageType() MessageID {
	return c.activeSequence()[c.messageNumber]
}

// currentAction returns the static action entry for the message at
// the current cursor position.
func (c *Conn) currentAction() Action {
	return ActionFor(c.CurrentMessageType())
}

// GetLastMessageName returns the name of the message the cursor last
// completed, or "" before any message has completed.
func (c *Conn) GetLastMessageName() string {
	if c.messageNumber == 0 {
		return ""
	}
	seq := c.activeSequence()
	idx := c.messageNumber - 1
	if idx >= len(seq) {
		idx = len(seq) - 1
	}
	return seq[idx].String()
}

// GetHandshakeTypeName returns the human-readable handshake type name.
func (c *Conn) GetHandshakeTypeName() string { return c.handshakeType.Name() }

// SetHandshakeType commits the connection to a handshake-type bitmask
// and sequence. Called once, by the Resolver, after the ClientHello/
// ServerHello exchange (spec.md 4.3). Every sequence shares the
// {ClientHello, ServerHello} prefix, so committing to a new sequence
// here never needs to re-anchor messageNumber - unlike the two
// mid-flight adaptive adjustments in inbound.go, which do.
func (c *Conn) SetHandshakeType(t HandshakeType) {
	c.log.Tracef("[handshake:%s] resolved handshake type: %s", c.Role, t.Name())
	c.handshakeType = t
}

// SetNoClientCert sets NO_CLIENT_CERT after observing the client send
// an empty certificate list under optional auth. Valid only when the
// client auth policy is OPTIONAL (spec.md 4.3).
func (c *Conn) SetNoClientCert() error {
	if c.Config.ClientAuth != ClientAuthOptional {
		return badMessage("NO_CLIENT_CERT is only valid under optional client auth")
	}
	c.handshakeType |= NoClientCert
	return nil
}

// wipeIO clears the reassembly buffer between messages, matching
// s2n_stuffer_wipe(&conn->handshake.io).
func (c *Conn) wipeIO() {
	c.ioBuffer = c.ioBuffer[:0]
	c.ioWiped = true
}

// AppendOutbound appends encoded bytes to the outbound message body.
// Outbound Handler implementations call this to produce their wire
// bytes (spec.md 6's outbound postcondition).
func (c *Conn) AppendOutbound(b []byte) {
	c.ioBuffer = append(c.ioBuffer, b...)
	c.ioWiped = false
}

// InboundBody returns the fully reassembled body of the message
// currently being decoded. Inbound Handler implementations read from
// this (spec.md 6's inbound precondition).
func (c *Conn) InboundBody() []byte {
	return c.ioBuffer
}

// advanceMessage moves the cursor to the next entry in the active
// sequence. Mirrors s2n_advance_message.
func (c *Conn) advanceMessage() {
	prev := c.currentAction()
	prevName := c.CurrentMessageType().String()
	c.messageNumber++
	c.applyCorkingTransition(prev)
	if c.messageNumber < len(c.activeSequence()) {
		c.log.Tracef("[handshake:%s] %s -> %s", c.Role, prevName, c.CurrentMessageType().String())
	}
}
