package handshake

import "github.com/segmentcorp/tlshandshake/wire"

func init() {
	RegisterHandlers(ClientChangeCipherSpec, HandlerFunc(handleClientCCSDecode), HandlerFunc(handleClientCCSEncode))
	RegisterHandlers(ServerChangeCipherSpec, HandlerFunc(handleServerCCSEncode), HandlerFunc(handleServerCCSDecode))
	RegisterHandlers(ClientFinished, HandlerFunc(handleClientFinishedDecode), HandlerFunc(handleClientFinishedEncode))
	RegisterHandlers(ServerFinished, HandlerFunc(handleServerFinishedEncode), HandlerFunc(handleServerFinishedDecode))
}

// change_cipher_spec's single-byte body (RFC 5246 section 7.1) never
// varies; both directions just assert it and let the record layer
// (an external collaborator) actually flip to the negotiated cipher.
func handleClientCCSEncode(c *Conn) error {
	c.AppendOutbound([]byte{1})
	return nil
}

func handleClientCCSDecode(c *Conn) error {
	if len(c.InboundBody()) != 1 || c.InboundBody()[0] != 1 {
		return badMessage("malformed change_cipher_spec body")
	}
	return nil
}

func handleServerCCSEncode(c *Conn) error {
	c.AppendOutbound([]byte{1})
	return nil
}

func handleServerCCSDecode(c *Conn) error {
	if len(c.InboundBody()) != 1 || c.InboundBody()[0] != 1 {
		return badMessage("malformed change_cipher_spec body")
	}
	return nil
}

func finishedHashAlgorithm(c *Conn) HashAlgorithm {
	if c.NegotiatedVersion < VersionTLS12 {
		return HashMD5 // placeholder key; the PRF combines MD5+SHA1 itself
	}
	return c.CipherSuite.PRFHash()
}

func handleClientFinishedEncode(c *Conn) error {
	if c.Config.PRF == nil {
		return badMessage("no Finished PRF configured")
	}
	verifyData := c.Config.PRF.Compute(RoleClient, c.TranscriptSum(finishedHashAlgorithm(c)))
	msg := &wire.Finished{VerifyData: verifyData}
	body, err := msg.Marshal()
	if err != nil {
		return err
	}
	c.AppendOutbound(body)
	return nil
}

func handleClientFinishedDecode(c *Conn) error {
	var msg wire.Finished
	if err := msg.Unmarshal(c.InboundBody()); err != nil {
		return badMessage("malformed Finished: " + err.Error())
	}
	if c.Config.PRF == nil {
		return badMessage("no Finished PRF configured")
	}
	return c.Config.PRF.Verify(RoleClient, c.TranscriptSum(finishedHashAlgorithm(c)), msg.VerifyData)
}

func handleServerFinishedEncode(c *Conn) error {
	if c.Config.PRF == nil {
		return badMessage("no Finished PRF configured")
	}
	verifyData := c.Config.PRF.Compute(RoleServer, c.TranscriptSum(finishedHashAlgorithm(c)))
	msg := &wire.Finished{VerifyData: verifyData}
	body, err := msg.Marshal()
	if err != nil {
		return err
	}
	c.AppendOutbound(body)
	return nil
}

func handleServerFinishedDecode(c *Conn) error {
	var msg wire.Finished
	if err := msg.Unmarshal(c.InboundBody()); err != nil {
		return badMessage("malformed Finished: " + err.Error())
	}
	if c.Config.PRF == nil {
		return badMessage("no Finished PRF configured")
	}
	return c.Config.PRF.Verify(RoleServer, c.TranscriptSum(finishedHashAlgorithm(c)), msg.VerifyData)
}
