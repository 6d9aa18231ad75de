package handshake

import "testing"

// fuzzOnceRecordIO hands back a single fixed record, then reports the
// read direction blocked forever - enough to drive readInbound once
// against arbitrary bytes without a live peer.
type fuzzOnceRecordIO struct {
	t      RecordType
	body   []byte
	served bool
}

func (f *fuzzOnceRecordIO) ReadRecord() (RecordType, []byte, []byte, error) {
	if f.served {
		return 0, nil, nil, &BlockedError{Direction: DirectionRead}
	}
	f.served = true
	return f.t, nil, f.body, nil
}

func (f *fuzzOnceRecordIO) MaxWritePayload() int                 { return 16384 }
func (f *fuzzOnceRecordIO) WriteRecord(RecordType, []byte) error { return nil }
func (f *fuzzOnceRecordIO) Flush() (bool, error)                 { return false, nil }

// FuzzReadInboundHandshakeRecord feeds arbitrary bytes into the Inbound
// Driver as a single handshake record while the connection is
// positioned at ClientHello. It must never panic - only *BlockedError
// or a typed protocol error may come back, no matter how the header
// and body are malformed.
//
// Grounded on the teacher's FuzzUnmarshalBinary/FuzzRecordLayer
// (fuzz_test.go, pkg/protocol/recordlayer/fuzz_test.go, both deleted):
// same "feed raw bytes at the parser, assert no panic" shape, retargeted
// from DTLS's State/RecordLayer wire format to this module's own
// header reassembly and message dispatch.
func FuzzReadInboundHandshakeRecord(f *testing.F) {
	f.Add([]byte{})
	f.Add([]byte{0, 0, 0, 0})
	f.Add([]byte{1, 0, 0, 4, 3, 3, 0, 0})
	f.Add([]byte{0x16, 0x00, 0x00, 0x00, 0x01, 0x02})
	f.Add([]byte{1, 0xFF, 0xFF, 0xFF, 3, 3})

	f.Fuzz(func(t *testing.T, data []byte) {
		cfg := NewConfig(WithCipherSuites(fakeSuiteRegistry{suite: fakeCipherSuite{}, id: 0xC02F}))
		c := NewConn(RoleServer, cfg, &fuzzOnceRecordIO{t: RecordHandshake, body: data})

		defer func() {
			if r := recover(); r != nil {
				t.Fatalf("readInbound panicked on input %v: %v", data, r)
			}
		}()

		err := c.readInbound(nil, DefaultAlertProcessor{})
		if err == nil {
			return
		}
		switch err.(type) {
		case *BlockedError, *BadMessageError, *AlertError:
			return
		default:
			t.Fatalf("unexpected error type %T: %v", err, err)
		}
	})
}
