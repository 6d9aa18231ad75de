package handshake

// resolutionInput carries the facts the resolver needs that this
// package cannot observe on its own - they come from the ClientHello/
// ServerHello handlers as they parse extensions and negotiate the
// cipher suite. Kept as a struct rather than more Conn fields so the
// resolver's inputs are explicit at the call site.
type resolutionInput struct {
	PresentedTicket   []byte
	TicketKeyReady    bool
	WillIssueTicket   bool
	CacheLookupResume bool
	ClientSawResume   bool
	KeyExchangeIsPFS  bool
	WillSendOCSP      bool

	// ClientRequiresAuth/ServerAuthPolicy feed step 6; ServerAuthPolicy
	// is read from c.Config.ClientAuth directly rather than duplicated
	// here.
	ClientRequiresAuth bool
}

// ResolveHandshakeType is the Handshake-Type Resolver of spec.md 4.3:
// invoked by the server once after processing ClientHello and by the
// client once after processing ServerHello, at the point enough is
// known to commit to a sequence.
//
// Grounded on s2n_conn_set_handshake_type (original_source,
// s2n_handshake_io.c): reproduced its ticket-then-cache-then-full
// decision order, including the "goto skip_cache_lookup" behavior -
// modeled here as the explicit ticketHandled bool - by which any
// ticket-path outcome (successful resumption or not) skips the cache
// lookup entirely, not just a successful one.
func (c *Conn) ResolveHandshakeType(in resolutionInput) error {
	t := Negotiated
	ticketHandled := false

	// Step 2: ticket path.
	if c.TicketSupport && len(in.PresentedTicket) > 0 {
		ticketHandled = true
		if c.Config.TicketStore != nil {
			if found := c.Config.TicketStore.Decrypt(in.PresentedTicket); found {
				// Resumed via ticket; cache lookup is skipped
				// regardless of outcome once this branch is taken.
				if in.TicketKeyReady || in.WillIssueTicket {
					t |= WithSessionTicket
				}
				c.SetHandshakeType(t)
				return nil
			}
		}
		if in.TicketKeyReady || in.WillIssueTicket {
			t |= WithSessionTicket
		}
	}

	// Step 3: cache path, only reached if the ticket path was not
	// taken at all; a presented ticket that failed to decrypt still
	// skips it.
	if !ticketHandled && c.CacheSupport && in.CacheLookupResume {
		c.SetHandshakeType(t)
		return nil
	}

	// Step 4: client observed its own session resumed.
	if in.ClientSawResume {
		c.SetHandshakeType(t)
		return nil
	}

	// Step 5: full handshake.
	t |= FullHandshake

	// Step 6: client auth.
	if in.ClientRequiresAuth || c.Config.ClientAuth == ClientAuthRequired || c.Config.ClientAuth == ClientAuthOptional {
		t |= ClientAuth
	}

	// Step 7: perfect forward secrecy.
	if in.KeyExchangeIsPFS {
		t |= PerfectForwardSecrecy
	}

	// Step 8: OCSP stapling.
	if in.WillSendOCSP {
		t |= OCSPStatus
	}

	c.SetHandshakeType(t)
	return nil
}

// The two adaptive mid-flight adjustments spec.md 4.3/4.4 describe -
// re-anchoring message_number after a client observes CLIENT_CERT_REQ
// or a missing SERVER_CERT_STATUS - are implemented once, on the wired
// read path, as applyAdaptiveAdjustments/adjustForArrival in
// inbound.go. They belong there rather than here: the resolver commits
// to a handshake type from the ClientHello/ServerHello exchange, but
// the two adjustments react to a later message actually arriving,
// which only the Inbound Driver observes.
