package handshake

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// These exercise applyAdaptiveAdjustments directly - the wired
// implementation of spec.md 4.3/4.4.6d's two mid-flight adjustments,
// called from readHandshakeMessages (inbound.go). End-to-end coverage
// through a full Negotiate run lives in negotiate_test.go.

func TestApplyAdaptiveAdjustmentsUpgradesClientAuth(t *testing.T) {
	base := Negotiated | FullHandshake | PerfectForwardSecrecy
	seq := SequenceFor(base)
	idx := indexOf(t, seq, ServerHelloDone)

	c := &Conn{Role: RoleClient, handshakeType: base, messageNumber: idx}
	c.applyAdaptiveAdjustments(wireCertificateReq)

	want := base | ClientAuth
	assert.Equal(t, want, c.handshakeType)
	assert.Equal(t, ServerCertReq, c.CurrentMessageType())
}

func TestApplyAdaptiveAdjustmentsDropsOCSPStatus(t *testing.T) {
	base := Negotiated | FullHandshake | OCSPStatus
	seq := SequenceFor(base)
	idx := indexOf(t, seq, ServerCertStatus)

	c := &Conn{Role: RoleClient, handshakeType: base, messageNumber: idx}
	c.applyAdaptiveAdjustments(wireServerHelloDone)

	want := Negotiated | FullHandshake
	assert.Equal(t, want, c.handshakeType)
	assert.Equal(t, ServerHelloDone, c.CurrentMessageType())
}

func TestApplyAdaptiveAdjustmentsNoopWhenNotAtAdjustmentPoint(t *testing.T) {
	base := Negotiated | FullHandshake | PerfectForwardSecrecy
	seq := SequenceFor(base)
	idx := indexOf(t, seq, ServerCert)

	c := &Conn{Role: RoleClient, handshakeType: base, messageNumber: idx}
	c.applyAdaptiveAdjustments(wireCertificateReq)

	assert.Equal(t, base, c.handshakeType)
	assert.Equal(t, idx, c.messageNumber)
}

func TestApplyAdaptiveAdjustmentsServerNeverAdjusts(t *testing.T) {
	base := Negotiated | FullHandshake | PerfectForwardSecrecy
	seq := SequenceFor(base)
	idx := indexOf(t, seq, ServerHelloDone)

	c := &Conn{Role: RoleServer, handshakeType: base, messageNumber: idx}
	c.applyAdaptiveAdjustments(wireCertificateReq)

	assert.Equal(t, base, c.handshakeType)
	assert.Equal(t, idx, c.messageNumber)
}

// sslv2OnceRecordIO hands back a single SSLv2-format record, then
// reports the read direction blocked forever.
type sslv2OnceRecordIO struct {
	version []byte
	body    []byte
	served  bool
}

func (s *sslv2OnceRecordIO) ReadRecord() (RecordType, []byte, []byte, error) {
	if s.served {
		return 0, nil, nil, &BlockedError{Direction: DirectionRead}
	}
	s.served = true
	return RecordHandshake, s.version, s.body, nil
}

func (s *sslv2OnceRecordIO) MaxWritePayload() int                 { return 16384 }
func (s *sslv2OnceRecordIO) WriteRecord(RecordType, []byte) error { return nil }
func (s *sslv2OnceRecordIO) Flush() (bool, error)                 { return false, nil }

type acceptingSSLv2Handler struct{}

func (acceptingSSLv2Handler) HandleSSLv2(*Conn) error { return nil }

// TestReadInboundSSLv2MarksEncrypted checks that a fully drained SSLv2
// record leaves the connection in the same ENCRYPTED in_status any
// other fully drained record does (spec.md 4.4.7), matching
// s2n_handshake_handle_sslv2.
func TestReadInboundSSLv2MarksEncrypted(t *testing.T) {
	rec := &sslv2OnceRecordIO{version: []byte{3, 1, 0}, body: []byte("hello")}
	c := NewConn(RoleServer, NewConfig(), rec)

	err := c.readInbound(acceptingSSLv2Handler{}, DefaultAlertProcessor{})

	assert.NoError(t, err)
	assert.Equal(t, inStatusEncrypted, c.inStatus)
	assert.Equal(t, 1, c.messageNumber)
	assert.Nil(t, c.curRecordBody)
}

func indexOf(t *testing.T, seq []MessageID, want MessageID) int {
	t.Helper()
	for i, id := range seq {
		if id == want {
			return i
		}
	}
	t.Fatalf("%s not found in sequence", want)
	return -1
}
