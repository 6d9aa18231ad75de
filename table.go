package handshake

import (
	"strings"
	"sync"
)

// HandshakeType is the bitmask that describes the shape of the
// in-progress handshake, mirroring s2n's handshake_type_t. INITIAL
// is the zero value: no flags have been decided yet.
type HandshakeType uint16

const (
	Initial HandshakeType = 0

	Negotiated               HandshakeType = 1 << iota // any post-INITIAL state
	FullHandshake                                       // not resumed
	PerfectForwardSecrecy                               // ephemeral key exchange
	OCSPStatus                                          // server will send or has sent a stapled response
	ClientAuth                                          // server requested a certificate
	NoClientCert                                        // optional auth, client sent an empty certificate list
	WithSessionTicket                                   // a NewSessionTicket will be issued
)

var handshakeTypeNames sync.Map // HandshakeType -> string, populated lazily (spec.md 9's "replace the global cache")

var flagNames = []struct {
	flag HandshakeType
	name string
}{
	{Negotiated, "NEGOTIATED"},
	{FullHandshake, "FULL_HANDSHAKE"},
	{PerfectForwardSecrecy, "PERFECT_FORWARD_SECRECY"},
	{OCSPStatus, "OCSP_STATUS"},
	{ClientAuth, "CLIENT_AUTH"},
	{NoClientCert, "NO_CLIENT_CERT"},
	{WithSessionTicket, "WITH_SESSION_TICKET"},
}

// Name returns the human-readable, '|'-joined name of a handshake
// type, e.g. "NEGOTIATED|FULL_HANDSHAKE|PERFECT_FORWARD_SECRECY".
// Names are pure functions of the bitmask and are cached per bitmask.
func (t HandshakeType) Name() string {
	if t == Initial {
		return "INITIAL"
	}
	if cached, ok := handshakeTypeNames.Load(t); ok {
		return cached.(string)
	}
	var parts []string
	for _, f := range flagNames {
		if t&f.flag != 0 {
			parts = append(parts, f.name)
		}
	}
	name := strings.Join(parts, "|")
	handshakeTypeNames.Store(t, name)
	return name
}

// Action is the static, per-message entry in the Handshake Table: the
// record it rides on, its wire type byte, who writes it, and the
// server/client handler pair. Mirrors s2n's s2n_handshake_action.
type Action struct {
	Record  RecordType
	Wire    wireType
	Writer  Role
	handler [2]Handler // indexed by Role (RoleServer=0, RoleClient=1)
}

// HandlerFor returns the handler this connection's role must invoke
// for this action: the writer encodes, the other side decodes.
func (a Action) HandlerFor(role Role) Handler {
	return a.handler[role]
}

// actionTable is the per-message action table, indexed by MessageID.
// Handlers are wired in by RegisterHandlers (below); until then
// entries carry nil handlers, matching the spec's declaration that
// per-message codecs are an external collaborator whose interface
// alone is specified here.
var actionTable = [numMessageIDs]Action{
	ClientHello:            {Record: RecordHandshake, Wire: wireClientHello, Writer: RoleClient},
	ServerHello:            {Record: RecordHandshake, Wire: wireServerHello, Writer: RoleServer},
	ServerNewSessionTicket: {Record: RecordHandshake, Wire: wireNewSessionTicket, Writer: RoleServer},
	ServerCert:             {Record: RecordHandshake, Wire: wireCertificate, Writer: RoleServer},
	ServerCertStatus:       {Record: RecordHandshake, Wire: wireCertificateStatus, Writer: RoleServer},
	ServerKey:              {Record: RecordHandshake, Wire: wireServerKeyExchange, Writer: RoleServer},
	ServerCertReq:          {Record: RecordHandshake, Wire: wireCertificateReq, Writer: RoleServer},
	ServerHelloDone:        {Record: RecordHandshake, Wire: wireServerHelloDone, Writer: RoleServer},
	ClientCert:             {Record: RecordHandshake, Wire: wireCertificate, Writer: RoleClient},
	ClientKey:              {Record: RecordHandshake, Wire: wireClientKeyExchange, Writer: RoleClient},
	ClientCertVerify:       {Record: RecordHandshake, Wire: wireCertificateVerify, Writer: RoleClient},
	ClientChangeCipherSpec: {Record: RecordChangeCipherSpec, Writer: RoleClient},
	ClientFinished:         {Record: RecordHandshake, Wire: wireFinished, Writer: RoleClient},
	ServerChangeCipherSpec: {Record: RecordChangeCipherSpec, Writer: RoleServer},
	ServerFinished:         {Record: RecordHandshake, Wire: wireFinished, Writer: RoleServer},
	ApplicationData:        {Record: RecordApplicationData, Writer: RoleBoth},
}

// RegisterHandlers installs the server/client handler pair for a
// logical message. Called once at package init by handlers_*.go for the
// bundled reference handlers, and may be called again by an embedder
// that supplies its own per-message codecs (spec.md 6: handlers are a
// consumed external collaborator, this package only fixes their
// shape).
func RegisterHandlers(id MessageID, server, client Handler) {
	a := actionTable[id]
	a.handler[RoleServer] = server
	a.handler[RoleClient] = client
	actionTable[id] = a
}

// ActionFor returns the static action entry for a logical message.
func ActionFor(id MessageID) Action {
	return actionTable[id]
}

// sequenceTable is the immutable bitmask -> ordered-message-sequence
// mapping. Populated once at init by buildSequenceTable and verified
// against the size of the fixed catalog s2n enumerates (27 entries), per
// spec.md 4.1's construction-time invariant check.
var sequenceTable map[HandshakeType][]MessageID

func init() {
	sequenceTable = buildSequenceTable()
}

// SequenceFor returns the ordered message sequence for a handshake
// type, or nil if the bitmask is not one of the enumerated
// combinations.
func SequenceFor(t HandshakeType) []MessageID {
	return sequenceTable[t]
}

// buildSequenceTable generates every valid sequence from the ordering
// rules of spec.md 4.1, mirroring s2n_handshake_io.c's `handshakes`
// table. Rather than list all 27 combinations by hand (as the C table
// does, entry by entry) this enumerates the feature flags and applies
// the fixed ordering rules: INITIAL, NEGOTIATED alone, NEGOTIATED
// with a ticket, and every FULL_HANDSHAKE combination of
// {PFS, OCSP_STATUS, CLIENT_AUTH[+NO_CLIENT_CERT], WITH_SESSION_TICKET}.
// The only construction-time check is on the number of generated
// entries; the generated sequences are not compared against a
// separately written catalog.
func buildSequenceTable() map[HandshakeType][]MessageID {
	out := map[HandshakeType][]MessageID{
		Initial: {ClientHello, ServerHello},
	}

	// Resumed handshakes: no client auth, no PFS, no OCSP - none of
	// those features apply when the key exchange itself is skipped.
	for _, withTicket := range []bool{false, true} {
		t := Negotiated
		if withTicket {
			t |= WithSessionTicket
		}
		out[t] = resumedSequence(withTicket)
	}

	// Full handshakes: every combination of the four independent
	// feature flags, plus NO_CLIENT_CERT only meaningful alongside
	// CLIENT_AUTH.
	for _, pfs := range []bool{false, true} {
		for _, ocsp := range []bool{false, true} {
			for _, clientAuth := range []bool{false, true} {
				noClientCertOptions := []bool{false}
				if clientAuth {
					noClientCertOptions = []bool{false, true}
				}
				for _, noClientCert := range noClientCertOptions {
					for _, withTicket := range []bool{false, true} {
						t := Negotiated | FullHandshake
						if pfs {
							t |= PerfectForwardSecrecy
						}
						if ocsp {
							t |= OCSPStatus
						}
						if clientAuth {
							t |= ClientAuth
						}
						if noClientCert {
							t |= NoClientCert
						}
						if withTicket {
							t |= WithSessionTicket
						}
						out[t] = fullSequence(pfs, ocsp, clientAuth, noClientCert, withTicket)
					}
				}
			}
		}
	}

	// INITIAL(1) + resumed{no-ticket,ticket}(2) + full handshakes:
	// pfs(2) x ocsp(2) x [no-auth(1) + auth{cert,no-cert}(2)] x ticket(2) = 24.
	// Matches s2n_handshake_io.c's 27-entry `handshakes` table exactly.
	if got, want := len(out), 27; got != want {
		panic("handshake: generated sequence table does not match the enumerated catalog")
	}
	return out
}

func resumedSequence(withTicket bool) []MessageID {
	seq := []MessageID{ClientHello, ServerHello}
	if withTicket {
		seq = append(seq, ServerNewSessionTicket)
	}
	seq = append(seq,
		ServerChangeCipherSpec, ServerFinished,
		ClientChangeCipherSpec, ClientFinished,
		ApplicationData,
	)
	return seq
}

func fullSequence(pfs, ocsp, clientAuth, noClientCert, withTicket bool) []MessageID {
	seq := []MessageID{ClientHello, ServerHello, ServerCert}
	if ocsp {
		seq = append(seq, ServerCertStatus)
	}
	if pfs {
		seq = append(seq, ServerKey)
	}
	if clientAuth {
		seq = append(seq, ServerCertReq)
	}
	seq = append(seq, ServerHelloDone)

	if clientAuth {
		seq = append(seq, ClientCert)
	}
	seq = append(seq, ClientKey)
	if clientAuth && !noClientCert {
		seq = append(seq, ClientCertVerify)
	}
	seq = append(seq, ClientChangeCipherSpec, ClientFinished)

	if withTicket {
		seq = append(seq, ServerNewSessionTicket)
	}
	seq = append(seq, ServerChangeCipherSpec, ServerFinished, ApplicationData)
	return seq
}
