package handshake

import "github.com/segmentcorp/tlshandshake/wire"

func init() {
	RegisterHandlers(ServerCert, HandlerFunc(handleServerCertEncode), HandlerFunc(handleServerCertDecode))
	RegisterHandlers(ServerCertStatus, HandlerFunc(handleServerCertStatusEncode), HandlerFunc(handleServerCertStatusDecode))
	RegisterHandlers(ServerCertReq, HandlerFunc(handleServerCertReqEncode), HandlerFunc(handleServerCertReqDecode))
	RegisterHandlers(ServerHelloDone, HandlerFunc(handleServerHelloDoneEncode), HandlerFunc(handleServerHelloDoneDecode))
	RegisterHandlers(ClientCert, HandlerFunc(handleClientCertDecode), HandlerFunc(handleClientCertEncode))
	RegisterHandlers(ClientCertVerify, HandlerFunc(handleClientCertVerifyDecode), HandlerFunc(handleClientCertVerifyEncode))
}

func handleServerCertEncode(c *Conn) error {
	if c.Config.Credentials == nil {
		return badMessage("no server credentials configured")
	}
	msg := &wire.CertificateList{Certs: c.Config.Credentials.Chain()}
	body, err := msg.Marshal()
	if err != nil {
		return err
	}
	c.AppendOutbound(body)
	return nil
}

func handleServerCertDecode(c *Conn) error {
	var msg wire.CertificateList
	if err := msg.Unmarshal(c.InboundBody()); err != nil {
		return badMessage("malformed Certificate: " + err.Error())
	}
	return nil
}

func handleServerCertStatusEncode(c *Conn) error {
	if c.Config.OCSPResponder == nil || c.Config.Credentials == nil {
		return badMessage("server cert status requested but no OCSP responder configured")
	}
	response, ok := c.Config.OCSPResponder(c.Config.Credentials.Chain())
	if !ok {
		return badMessage("OCSP responder had no response for the presented chain")
	}
	msg := &wire.CertificateStatus{Response: response}
	body, err := msg.Marshal()
	if err != nil {
		return err
	}
	c.AppendOutbound(body)
	return nil
}

func handleServerCertStatusDecode(c *Conn) error {
	var msg wire.CertificateStatus
	if err := msg.Unmarshal(c.InboundBody()); err != nil {
		return badMessage("malformed CertificateStatus: " + err.Error())
	}
	return nil
}

func handleServerCertReqEncode(c *Conn) error {
	msg := &wire.CertificateRequest{
		CertificateTypes: []byte{1}, // rsa_sign
	}
	for _, scheme := range c.Config.SignatureSchemes {
		msg.SupportedSignatureAlgos = append(msg.SupportedSignatureAlgos, byte(scheme>>8), byte(scheme))
	}
	body, err := msg.Marshal()
	if err != nil {
		return err
	}
	c.AppendOutbound(body)
	return nil
}

func handleServerCertReqDecode(c *Conn) error {
	var msg wire.CertificateRequest
	if err := msg.Unmarshal(c.InboundBody()); err != nil {
		return badMessage("malformed CertificateRequest: " + err.Error())
	}
	return nil
}

func handleServerHelloDoneEncode(c *Conn) error {
	return nil
}

func handleServerHelloDoneDecode(c *Conn) error {
	if len(c.InboundBody()) != 0 {
		return badMessage("ServerHelloDone must have an empty body")
	}
	return nil
}

func handleClientCertEncode(c *Conn) error {
	var chain [][]byte
	if c.Config.ClientCredentials != nil {
		chain = c.Config.ClientCredentials.Chain()
	}
	if len(chain) == 0 {
		if err := c.SetNoClientCert(); err != nil {
			return err
		}
	}
	msg := &wire.CertificateList{Certs: chain}
	body, err := msg.Marshal()
	if err != nil {
		return err
	}
	c.AppendOutbound(body)
	return nil
}

func handleClientCertDecode(c *Conn) error {
	var msg wire.CertificateList
	if err := msg.Unmarshal(c.InboundBody()); err != nil {
		return badMessage("malformed Certificate: " + err.Error())
	}
	if len(msg.Certs) == 0 {
		return c.SetNoClientCert()
	}
	return nil
}

func handleClientCertVerifyEncode(c *Conn) error {
	if c.Config.Signer == nil {
		return badMessage("client certificate verify requested but no signer configured")
	}
	scheme := pickSignatureScheme(c.Config.SignatureSchemes)
	hashAlg := hashAlgorithmFromScheme(scheme)
	sig, err := c.Config.Signer.Sign(scheme, c.TranscriptSum(hashAlg))
	if err != nil {
		return err
	}
	msg := &wire.CertificateVerify{SignatureAndHashAlgorithm: scheme, Signature: sig}
	body, err := msg.Marshal()
	if err != nil {
		return err
	}
	c.AppendOutbound(body)
	return nil
}

func handleClientCertVerifyDecode(c *Conn) error {
	var msg wire.CertificateVerify
	if err := msg.Unmarshal(c.InboundBody()); err != nil {
		return badMessage("malformed CertificateVerify: " + err.Error())
	}
	if c.Config.Verifier == nil {
		return badMessage("client certificate verify received but no verifier configured")
	}
	hashAlg := hashAlgorithmFromScheme(msg.SignatureAndHashAlgorithm)
	return c.Config.Verifier.Verify(msg.SignatureAndHashAlgorithm, c.TranscriptSum(hashAlg), msg.Signature)
}

func pickSignatureScheme(offered []uint16) uint16 {
	if len(offered) == 0 {
		return uint16(HashSHA256)<<8 | 1 // sha256+rsa fallback
	}
	return offered[0]
}
