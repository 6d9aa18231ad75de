package handshake

import "github.com/segmentcorp/tlshandshake/alertproto"

// DefaultAlertProcessor is the reference AlertProcessor (spec.md 6):
// it decodes the two-byte alert body and reports every fatal alert as
// an error, silently accepting warnings. Embedders that need
// finer-grained warning handling (e.g. treating close_notify
// specially) supply their own AlertProcessor to Negotiate instead.
type DefaultAlertProcessor struct{}

func (DefaultAlertProcessor) Process(body []byte) error {
	var a alertproto.Alert
	if err := a.Unmarshal(body); err != nil {
		return badMessage("malformed alert: " + err.Error())
	}
	if a.IsFatal() {
		return &AlertError{Level: uint8(a.Level), Description: uint8(a.Description)}
	}
	return nil
}
