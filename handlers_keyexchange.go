package handshake

import "github.com/segmentcorp/tlshandshake/wire"

func init() {
	RegisterHandlers(ServerKey, HandlerFunc(handleServerKeyEncode), HandlerFunc(handleServerKeyDecode))
	RegisterHandlers(ClientKey, HandlerFunc(handleClientKeyDecode), HandlerFunc(handleClientKeyEncode))
	RegisterHandlers(ServerNewSessionTicket, HandlerFunc(handleNewSessionTicketEncode), HandlerFunc(handleNewSessionTicketDecode))
}

// KeyExchange is the external collaborator that produces and consumes
// the opaque key-exchange parameters this driver only frames, never
// interprets (spec.md 1).
type KeyExchange interface {
	ServerParams() ([]byte, error)
	ClientParams(serverParams []byte) ([]byte, error)
	ProcessClientParams(clientParams []byte) error
}

func handleServerKeyEncode(c *Conn) error {
	ke, _ := c.CipherSuite.(KeyExchange)
	if ke == nil {
		return badMessage("negotiated cipher suite requires ServerKeyExchange but does not implement KeyExchange")
	}
	params, err := ke.ServerParams()
	if err != nil {
		return err
	}
	msg := &wire.ServerKeyExchange{Params: params}
	body, err := msg.Marshal()
	if err != nil {
		return err
	}
	c.AppendOutbound(body)
	return nil
}

func handleServerKeyDecode(c *Conn) error {
	var msg wire.ServerKeyExchange
	if err := msg.Unmarshal(c.InboundBody()); err != nil {
		return badMessage("malformed ServerKeyExchange: " + err.Error())
	}
	c.serverKeyParams = msg.Params
	return nil
}

func handleClientKeyEncode(c *Conn) error {
	ke, _ := c.CipherSuite.(KeyExchange)
	if ke == nil {
		return badMessage("negotiated cipher suite does not implement KeyExchange")
	}
	params, err := ke.ClientParams(c.serverKeyParams)
	if err != nil {
		return err
	}
	msg := &wire.ClientKeyExchange{Params: params}
	body, err := msg.Marshal()
	if err != nil {
		return err
	}
	c.AppendOutbound(body)
	return nil
}

func handleClientKeyDecode(c *Conn) error {
	var msg wire.ClientKeyExchange
	if err := msg.Unmarshal(c.InboundBody()); err != nil {
		return badMessage("malformed ClientKeyExchange: " + err.Error())
	}
	ke, _ := c.CipherSuite.(KeyExchange)
	if ke == nil {
		return badMessage("negotiated cipher suite does not implement KeyExchange")
	}
	return ke.ProcessClientParams(msg.Params)
}

func handleNewSessionTicketEncode(c *Conn) error {
	if c.Config.TicketStore == nil {
		return badMessage("NewSessionTicket scheduled but no ticket store configured")
	}
	issuer, ok := c.Config.TicketStore.(interface{ Issue(c *Conn) (wire.NewSessionTicket, error) })
	if !ok {
		return badMessage("configured ticket store cannot issue tickets")
	}
	ticket, err := issuer.Issue(c)
	if err != nil {
		return err
	}
	body, err := ticket.Marshal()
	if err != nil {
		return err
	}
	c.AppendOutbound(body)
	return nil
}

func handleNewSessionTicketDecode(c *Conn) error {
	var msg wire.NewSessionTicket
	if err := msg.Unmarshal(c.InboundBody()); err != nil {
		return badMessage("malformed NewSessionTicket: " + err.Error())
	}
	c.presentedTicket = msg.Ticket
	return nil
}
