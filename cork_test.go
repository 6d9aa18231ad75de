package handshake

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

type corkingRecordIO struct {
	fuzzOnceRecordIO
	corked  bool
	already bool
}

func (c *corkingRecordIO) Cork() error   { c.corked = true; return nil }
func (c *corkingRecordIO) Uncork() error { c.corked = false; return nil }

func (c *corkingRecordIO) AlreadyCorked() bool { return c.already }

func newCorkTestConn(rec RecordIO, manage bool) *Conn {
	cfg := NewConfig()
	cfg.ManageCorking = manage
	return NewConn(RoleServer, cfg, rec)
}

func TestApplyCorkingTransitionNoopWithoutOptIn(t *testing.T) {
	rec := &corkingRecordIO{}
	c := newCorkTestConn(rec, false)
	c.applyCorkingTransition(ActionFor(ClientHello))
	assert.False(t, rec.corked)
	assert.False(t, c.corkedIO)
}

func TestApplyCorkingTransitionCorksOnBecomingWriter(t *testing.T) {
	rec := &corkingRecordIO{}
	c := newCorkTestConn(rec, true)
	c.handshakeType = Negotiated | FullHandshake
	c.messageNumber = 2 // ServerCert, server-written
	c.applyCorkingTransition(ActionFor(ClientHello))
	assert.True(t, rec.corked)
	assert.True(t, c.corkedIO)
}

func TestApplyCorkingTransitionSkipsWhenAlreadyCorkedByCaller(t *testing.T) {
	rec := &corkingRecordIO{already: true}
	c := newCorkTestConn(rec, true)
	c.handshakeType = Negotiated | FullHandshake
	c.messageNumber = 2
	c.applyCorkingTransition(ActionFor(ClientHello))
	assert.False(t, rec.corked)
	assert.False(t, c.corkedIO)
}
