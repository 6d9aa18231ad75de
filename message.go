// Package handshake drives a TLS 1.0-1.2 peer through the RFC 5246
// handshake: it decides which message sequence applies to the
// negotiated parameters, dispatches per-message encode/decode
// handlers, validates that the peer's messages arrive in the expected
// order, accumulates the running transcript hash, fragments outgoing
// messages into records, and reassembles incoming messages that may
// be split across records or interleaved with non-handshake record
// types.
//
// Record-layer encryption/fragmentation, cryptographic primitives,
// certificate validation, per-message wire codecs, the session cache
// and ticket store, and the alert protocol proper are all external
// collaborators; this package only specifies and drives the
// interfaces they must present.
package handshake

// MessageID is the closed enumeration of logical handshake messages,
// mirroring s2n's message_type_t and RFC 5246's handshake catalogue.
type MessageID uint8

const (
	ClientHello MessageID = iota
	ServerHello
	ServerNewSessionTicket
	ServerCert
	ServerCertStatus
	ServerKey
	ServerCertReq
	ServerHelloDone
	ClientCert
	ClientKey
	ClientCertVerify
	ClientChangeCipherSpec
	ClientFinished
	ServerChangeCipherSpec
	ServerFinished
	ApplicationData
	numMessageIDs
)

var messageNames = [numMessageIDs]string{
	ClientHello:            "CLIENT_HELLO",
	ServerHello:            "SERVER_HELLO",
	ServerNewSessionTicket: "SERVER_NEW_SESSION_TICKET",
	ServerCert:             "SERVER_CERT",
	ServerCertStatus:       "SERVER_CERT_STATUS",
	ServerKey:              "SERVER_KEY",
	ServerCertReq:          "SERVER_CERT_REQ",
	ServerHelloDone:        "SERVER_HELLO_DONE",
	ClientCert:             "CLIENT_CERT",
	ClientKey:              "CLIENT_KEY",
	ClientCertVerify:       "CLIENT_CERT_VERIFY",
	ClientChangeCipherSpec: "CLIENT_CHANGE_CIPHER_SPEC",
	ClientFinished:         "CLIENT_FINISHED",
	ServerChangeCipherSpec: "SERVER_CHANGE_CIPHER_SPEC",
	ServerFinished:         "SERVER_FINISHED",
	ApplicationData:        "APPLICATION_DATA",
}

// String returns the RFC-5246-style name of the logical message, e.g.
// "CLIENT_HELLO".
func (m MessageID) String() string {
	if int(m) >= len(messageNames) {
		return "UNKNOWN_MESSAGE"
	}
	return messageNames[m]
}

// RecordType is the record-layer content type a logical message rides
// on.
type RecordType uint8

const (
	RecordHandshake RecordType = iota
	RecordChangeCipherSpec
	RecordApplicationData
	// RecordAlert and RecordHeartbeat are never a MessageID's home
	// record type; they only appear as observed inbound record types
	// in the Inbound Driver (table.go / inbound.go).
	RecordAlert
	RecordHeartbeat
)

// Role identifies which side of the connection writes a given
// message. RoleBoth is a sentinel used only by ApplicationData, the
// point at which the handshake proper has ended.
type Role uint8

const (
	RoleServer Role = iota
	RoleClient
	RoleBoth
)

func (r Role) String() string {
	switch r {
	case RoleServer:
		return "server"
	case RoleClient:
		return "client"
	default:
		return "both"
	}
}

// wireType is the RFC 5246 section 7.4 handshake message type byte.
// SERVER_CERT_REQ and CLIENT_CERT_REQ share wire value 13; SERVER_CERT
// and CLIENT_CERT share wire value 11; CLIENT_FINISHED and
// SERVER_FINISHED share wire value 20 - the direction is disambiguated
// by which side is expected to write at that point in the sequence,
// never by the wire byte alone.
type wireType uint8

const (
	wireHelloRequest      wireType = 0
	wireClientHello       wireType = 1
	wireServerHello       wireType = 2
	wireNewSessionTicket  wireType = 4
	wireCertificate       wireType = 11
	wireServerKeyExchange wireType = 12
	wireCertificateReq    wireType = 13
	wireServerHelloDone   wireType = 14
	wireCertificateVerify wireType = 15
	wireClientKeyExchange wireType = 16
	wireFinished          wireType = 20
	wireCertificateStatus wireType = 22
)
