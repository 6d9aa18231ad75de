// Package alertproto is the thin shape the handshake driver needs to
// observe and emit TLS alerts. The alert protocol itself - classifying
// which descriptions are fatal, deciding when to send one - is an
// external collaborator (spec.md 1); this package only carries the
// two bytes RFC 5246 section 7.2 puts on the wire.
package alertproto

import "errors"

// Level is the alert severity byte.
type Level uint8

const (
	Warning Level = 1
	Fatal   Level = 2
)

// Description is the alert description byte (RFC 5246 section 7.2).
type Description uint8

const (
	CloseNotify            Description = 0
	UnexpectedMessage      Description = 10
	BadRecordMac           Description = 20
	HandshakeFailure       Description = 40
	BadCertificate         Description = 42
	CertificateExpired     Description = 45
	IllegalParameter       Description = 47
	DecodeError            Description = 50
	DecryptError           Description = 51
	ProtocolVersion        Description = 70
	InsufficientSecurity   Description = 71
	InternalError          Description = 80
	UnsupportedExtension   Description = 110
)

// Alert is the two-byte alert record body.
type Alert struct {
	Level       Level
	Description Description
}

var errBufferTooSmall = errors.New("alertproto: buffer too small")

// Marshal encodes the alert to its two-byte wire form.
func (a Alert) Marshal() ([]byte, error) {
	return []byte{byte(a.Level), byte(a.Description)}, nil
}

// Unmarshal decodes an alert from its two-byte wire form.
func (a *Alert) Unmarshal(data []byte) error {
	if len(data) != 2 {
		return errBufferTooSmall
	}
	a.Level = Level(data[0])
	a.Description = Description(data[1])
	return nil
}

// IsFatal reports whether the alert is fatal per its Level byte. Real
// alert processors may classify some warning-level alerts (e.g.
// close_notify without a prior close) as fatal too; that policy
// belongs to the external alert-processing collaborator, not here.
func (a Alert) IsFatal() bool {
	return a.Level == Fatal
}
