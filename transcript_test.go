package handshake

import (
	"crypto/sha256"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRequiredHashAlgorithmsBeforeNegotiation(t *testing.T) {
	c := newTestConn(RoleServer, nil)
	got := c.requiredHashAlgorithms()
	assert.ElementsMatch(t, allHashAlgorithms, got)
}

func TestRequiredHashAlgorithmsTLS12(t *testing.T) {
	c := newTestConn(RoleServer, nil)
	c.NegotiatedVersion = VersionTLS12
	c.CipherSuite = fakeCipherSuite{hash: HashSHA256}
	got := c.requiredHashAlgorithms()
	assert.ElementsMatch(t, []HashAlgorithm{HashSHA256}, got)
}

func TestRequiredHashAlgorithmsTLS10IncludesMD5AndSHA1(t *testing.T) {
	c := newTestConn(RoleServer, nil)
	c.NegotiatedVersion = VersionTLS10
	c.CipherSuite = fakeCipherSuite{hash: HashSHA256}
	got := c.requiredHashAlgorithms()
	assert.ElementsMatch(t, []HashAlgorithm{HashMD5, HashSHA1}, got)
}

func TestUpdateTranscriptAndSum(t *testing.T) {
	c := newTestConn(RoleServer, nil)
	c.NegotiatedVersion = VersionTLS12
	c.CipherSuite = fakeCipherSuite{hash: HashSHA256}

	header := []byte{1, 0, 0, 3}
	body := []byte{0xAA, 0xBB, 0xCC}
	c.updateTranscript(header, body)

	want := sha256.Sum256(append(append([]byte{}, header...), body...))
	assert.Equal(t, want[:], c.TranscriptSum(HashSHA256))

	// Reading the sum must not disturb the running hash: hashing more
	// bytes afterward should equal hashing the concatenation in one shot.
	more := []byte{0x01}
	c.updateTranscript(nil, more)
	want2 := sha256.Sum256(append(append(append([]byte{}, header...), body...), more...))
	assert.Equal(t, want2[:], c.TranscriptSum(HashSHA256))
}

func TestTranscriptSumPanicsForUnstartedAlgorithm(t *testing.T) {
	c := newTestConn(RoleServer, nil)
	require.Panics(t, func() { c.TranscriptSum(HashSHA384) })
}
