package handshake

import (
	"bytes"
	"crypto/rand"

	"github.com/segmentcorp/tlshandshake/wire"
)

func init() {
	RegisterHandlers(ClientHello, HandlerFunc(handleClientHelloServer), HandlerFunc(handleClientHelloClient))
	RegisterHandlers(ServerHello, HandlerFunc(handleServerHelloServer), HandlerFunc(handleServerHelloClient))
}

func fillRandom(b []byte) error {
	_, err := rand.Read(b)
	return err
}

// handleClientHelloClient encodes the outbound ClientHello. A caller
// wanting to attempt stateful resumption pre-populates c.SessionID
// before calling Negotiate. The ClientHello carries no extensions, so
// no session ticket is sent; c.presentedTicket only reaches the
// client-side resolver.
func handleClientHelloClient(c *Conn) error {
	if c.Config.CipherSuites == nil {
		return badMessage("no cipher suite registry configured")
	}
	var random wire.Random
	if err := fillRandom(random[:]); err != nil {
		return err
	}
	c.presentedSessionID = c.SessionID

	ch := &wire.ClientHello{
		Version:            uint16(VersionTLS12),
		Random:             random,
		SessionID:          c.SessionID,
		CipherSuites:       c.Config.CipherSuites.Offered(),
		CompressionMethods: []byte{0},
	}
	body, err := ch.Marshal()
	if err != nil {
		return err
	}
	c.AppendOutbound(body)
	return nil
}

// handleClientHelloServer decodes an inbound ClientHello, selects a
// cipher suite, and runs the Handshake-Type Resolver (spec.md 4.3).
func handleClientHelloServer(c *Conn) error {
	var ch wire.ClientHello
	if err := ch.Unmarshal(c.InboundBody()); err != nil {
		return badMessage("malformed ClientHello: " + err.Error())
	}
	if c.Config.CipherSuites == nil {
		return badMessage("no cipher suite registry configured")
	}

	c.offeredCipherSuites = ch.CipherSuites
	c.presentedSessionID = ch.SessionID

	id, suite, ok := c.Config.CipherSuites.Select(ch.CipherSuites)
	if !ok {
		return badMessage("no mutually supported cipher suite")
	}
	c.CipherSuite = suite
	c.chosenCipherSuiteID = id
	if uint16(VersionTLS12) <= ch.Version {
		c.NegotiatedVersion = VersionTLS12
	} else if uint16(VersionTLS11) <= ch.Version {
		c.NegotiatedVersion = VersionTLS11
	} else {
		c.NegotiatedVersion = VersionTLS10
	}

	var sigSchemes []uint16
	var presentedTicket []byte
	wantsOCSP := false
	if c.Config.ClientExtensions != nil {
		sigSchemes, presentedTicket, wantsOCSP = c.Config.ClientExtensions.ParseClientExtensions(ch.Extensions)
	}
	c.offeredSigSchemes = sigSchemes
	c.presentedTicket = presentedTicket
	for _, scheme := range sigSchemes {
		c.SigHashAlgorithms = append(c.SigHashAlgorithms, hashAlgorithmFromScheme(scheme))
	}

	cacheResume := false
	if c.CacheSupport && c.Config.SessionCache != nil && len(ch.SessionID) > 0 {
		cacheResume = c.Config.SessionCache.Get(ch.SessionID)
	}

	willIssueTicket := c.TicketSupport && c.Config.TicketStore != nil
	willSendOCSP := wantsOCSP && c.Config.OCSPResponder != nil

	if err := c.ResolveHandshakeType(resolutionInput{
		PresentedTicket:    presentedTicket,
		TicketKeyReady:     willIssueTicket,
		WillIssueTicket:    willIssueTicket,
		CacheLookupResume:  cacheResume,
		KeyExchangeIsPFS:   suite.IsEphemeral(),
		WillSendOCSP:       willSendOCSP,
		ClientRequiresAuth: false,
	}); err != nil {
		return err
	}

	if c.handshakeType&FullHandshake != 0 {
		if c.Config.NewSessionID != nil {
			c.SessionID = c.Config.NewSessionID()
		} else {
			id := make([]byte, 32)
			if err := fillRandom(id); err != nil {
				return err
			}
			c.SessionID = id
		}
	} else {
		c.SessionID = ch.SessionID
	}
	c.ocspStapled = willSendOCSP
	return nil
}

// handleServerHelloServer encodes the outbound ServerHello, reusing
// state the ClientHello handler stashed on the connection.
func handleServerHelloServer(c *Conn) error {
	var random wire.Random
	if err := fillRandom(random[:]); err != nil {
		return err
	}
	sh := &wire.ServerHello{
		Version:           uint16(c.NegotiatedVersion),
		Random:            random,
		SessionID:         c.SessionID,
		CipherSuite:       c.chosenCipherSuiteID,
		CompressionMethod: 0,
	}
	body, err := sh.Marshal()
	if err != nil {
		return err
	}
	c.AppendOutbound(body)
	return nil
}

// handleServerHelloClient decodes the inbound ServerHello and runs the
// Handshake-Type Resolver from the client's side (spec.md 4.3).
func handleServerHelloClient(c *Conn) error {
	var sh wire.ServerHello
	if err := sh.Unmarshal(c.InboundBody()); err != nil {
		return badMessage("malformed ServerHello: " + err.Error())
	}
	if c.Config.CipherSuites == nil {
		return badMessage("no cipher suite registry configured")
	}
	suite, ok := c.Config.CipherSuites.ByID(sh.CipherSuite)
	if !ok {
		return badMessage("server chose an unrecognized cipher suite")
	}
	c.CipherSuite = suite
	c.chosenCipherSuiteID = sh.CipherSuite
	c.NegotiatedVersion = Version(sh.Version)

	clientSawResume := len(c.presentedSessionID) > 0 && bytes.Equal(c.presentedSessionID, sh.SessionID)
	c.SessionID = sh.SessionID

	issuingTicket := false
	ackedOCSPStatus := false
	if c.Config.ServerExtensions != nil {
		issuingTicket, ackedOCSPStatus = c.Config.ServerExtensions.ParseServerExtensions(sh.Extensions)
	}

	return c.ResolveHandshakeType(resolutionInput{
		PresentedTicket:    c.presentedTicket,
		TicketKeyReady:     issuingTicket,
		WillIssueTicket:    issuingTicket,
		CacheLookupResume:  false,
		ClientSawResume:    clientSawResume,
		KeyExchangeIsPFS:   suite.IsEphemeral(),
		WillSendOCSP:       ackedOCSPStatus,
		ClientRequiresAuth: c.Config.ClientAuth == ClientAuthRequired,
	})
}
