package handshake

// applyCorkingTransition implements spec.md 4.7's corking policy: cork
// the record layer's transport while this side is about to produce a
// run of consecutive outbound messages, uncork as soon as it becomes
// this side's turn to read or the handshake completes. prev is the
// action for the message the cursor is leaving.
//
// Only active when the caller opted in via Config.ManageCorking and
// the socket wasn't already corked by the caller (alreadyCorked) -
// spec.md 4.7. Without the opt-in this is a no-op even when Record
// happens to implement corker: an embedder managing its own corking
// (or running over a transport corking doesn't apply to) shouldn't
// have this package start toggling it.
//
// Grounded on s2n_handshake_io.c's cork/uncork calls around
// s2n_advance_message (original_source, not carried in the Go pack):
// s2n corks on becoming the writer and uncorks on becoming the
// reader, plus a TCP_QUICKACK nudge on every transition so a corked
// peer's delayed ACK doesn't stall the next flight.
func (c *Conn) applyCorkingTransition(prev Action) {
	if !c.Config.ManageCorking {
		return
	}
	if k, ok := c.Record.(alreadyCorked); ok && k.AlreadyCorked() {
		return
	}

	wasWriter := prev.Writer == c.Role || prev.Writer == RoleBoth
	done := c.messageNumber >= len(c.activeSequence())
	// Reaching ApplicationData (RoleBoth) counts as no longer writing,
	// so the handshake's completion uncorks.
	nowWriter := !done && c.currentAction().Writer == c.Role

	switch {
	case nowWriter && !wasWriter:
		c.cork()
	case (!nowWriter || done) && wasWriter:
		c.uncork()
	}
	c.quickAck()
}

// cork/uncork/quickAck delegate to the transport when it exposes the
// optional Corker interface; a RecordIO that doesn't is simply run
// uncorked, which is correct, just less efficient.
type corker interface {
	Cork() error
	Uncork() error
}

type quickAcker interface {
	SetQuickAck() error
}

// alreadyCorked lets a RecordIO tell this package its transport is
// already under the caller's own corking management, so
// applyCorkingTransition should leave it alone.
type alreadyCorked interface {
	AlreadyCorked() bool
}

func (c *Conn) cork() {
	if c.corkedIO {
		return
	}
	if k, ok := c.Record.(corker); ok {
		_ = k.Cork()
	}
	c.corkedIO = true
}

func (c *Conn) uncork() {
	if !c.corkedIO {
		return
	}
	if k, ok := c.Record.(corker); ok {
		_ = k.Uncork()
	}
	c.corkedIO = false
}

func (c *Conn) quickAck() {
	if k, ok := c.Record.(quickAcker); ok {
		_ = k.SetQuickAck()
	}
}
