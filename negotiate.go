package handshake

// Negotiate is the top-level pump of spec.md 4.6: it drives inbound
// and outbound turns until the current action's writer role is the
// Both sentinel (ApplicationData), or returns a *BlockedError for the
// caller to retry once the transport is ready.
//
// Grounded on s2n_negotiate (original_source, s2n_handshake_io.c):
// reproduced its flush-before-turn ordering and its write-then-read-
// for-alert error recovery, using errSnapshot (errors.go) in place of
// s2n's errno/s2n_errno save-and-restore.
func (c *Conn) Negotiate(sslv2 SSLv2HelloHandler, alerts AlertProcessor) error {
	for {
		if c.currentAction().Writer == RoleBoth {
			c.ioBuffer = nil
			return nil
		}

		if blocked, err := c.Record.Flush(); err != nil {
			return err
		} else if blocked {
			return &BlockedError{Direction: DirectionWrite}
		}

		if c.currentAction().Writer == c.Role {
			if err := c.writeOutbound(); err != nil {
				if IsBlocked(err) {
					c.log.Tracef("[handshake:%s] blocked on write", c.Role)
					return err
				}
				c.log.Debugf("[handshake:%s] write failed, attempting a recovery read: %s", c.Role, err)
				snap := snapshotError(err)
				readErr := c.readInbound(sslv2, alerts)
				return snap.resolve(readErr)
			}
			continue
		}

		if err := c.readInbound(sslv2, alerts); err != nil {
			if !IsBlocked(err) {
				c.log.Debugf("[handshake:%s] read failed: %s", c.Role, err)
				c.deleteCacheEntryOnError()
			}
			return err
		}
	}
}

// deleteCacheEntryOnError implements the "on surfaced non-transient
// errors during handshake, delete the poisoned cache entry" policy of
// spec.md 4.6/7.
func (c *Conn) deleteCacheEntryOnError() {
	if c.CacheSupport && c.Config.SessionCache != nil && len(c.SessionID) > 0 {
		c.Config.SessionCache.Delete(c.SessionID)
	}
}
