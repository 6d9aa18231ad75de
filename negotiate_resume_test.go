package handshake

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
)

// TestNegotiateFullHandshakeChunked re-runs TestNegotiateFullHandshakePFS
// with every outbound handshake record split into small pieces, so the
// Inbound Driver must resume across several *BlockedError{DirectionRead}
// returns per message instead of ever seeing a whole record at once.
// The final state must not depend on where the record boundaries land.
func TestNegotiateFullHandshakeChunked(t *testing.T) {
	for _, chunkSize := range []int{1, 2, 3, 5, 7, 16384} {
		chunkSize := chunkSize
		t.Run(fmt.Sprintf("chunk=%d", chunkSize), func(t *testing.T) {
			link := &memLink{}
			serverCfg, clientCfg := newFullHandshakeConfig()

			server := NewConn(RoleServer, serverCfg, &memRecordIO{link: link, isServer: true, chunkSize: chunkSize})
			client := NewConn(RoleClient, clientCfg, &memRecordIO{link: link, isServer: false, chunkSize: chunkSize})

			runToCompletion(t, server, client)

			require.Equal(t, Negotiated|FullHandshake|PerfectForwardSecrecy, server.HandshakeType())
			require.Equal(t, Negotiated|FullHandshake|PerfectForwardSecrecy, client.HandshakeType())
			require.NotEmpty(t, server.SessionID)
			require.Equal(t, server.SessionID, client.SessionID)
		})
	}
}

// TestNegotiateResumptionChunked is the same treatment applied to
// TestNegotiateResumption's abbreviated resumed flight.
func TestNegotiateResumptionChunked(t *testing.T) {
	for _, chunkSize := range []int{1, 2, 4, 16384} {
		chunkSize := chunkSize
		t.Run(fmt.Sprintf("chunk=%d", chunkSize), func(t *testing.T) {
			link := &memLink{}
			serverCfg, clientCfg := newFullHandshakeConfig()

			knownSessionID := []byte("session-id-0123456789abcdef0123")
			serverCfg.SessionCache = recordingCache{sessionID: knownSessionID}
			server := NewConn(RoleServer, serverCfg, &memRecordIO{link: link, isServer: true, chunkSize: chunkSize})
			server.CacheSupport = true

			client := NewConn(RoleClient, clientCfg, &memRecordIO{link: link, isServer: false, chunkSize: chunkSize})
			client.SessionID = knownSessionID

			runToCompletion(t, server, client)

			require.Equal(t, Negotiated, server.HandshakeType())
			require.Equal(t, Negotiated, client.HandshakeType())
		})
	}
}
