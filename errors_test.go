package handshake

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsBlocked(t *testing.T) {
	assert.True(t, IsBlocked(&BlockedError{Direction: DirectionRead}))
	assert.False(t, IsBlocked(badMessage("nope")))
	assert.False(t, IsBlocked(errors.New("plain")))
}

func TestIsAlert(t *testing.T) {
	assert.True(t, IsAlert(&AlertError{Level: 2, Description: 40}))
	assert.False(t, IsAlert(badMessage("nope")))
}

func TestErrSnapshotResolve(t *testing.T) {
	writeErr := badMessage("write failed")
	snap := snapshotError(writeErr)

	assert.Equal(t, writeErr, snap.resolve(errors.New("plain read error")))

	alertErr := &AlertError{Level: 2, Description: 20}
	assert.Equal(t, error(alertErr), snap.resolve(alertErr))
}

func TestDirectionString(t *testing.T) {
	assert.Equal(t, "read", DirectionRead.String())
	assert.Equal(t, "write", DirectionWrite.String())
	assert.Equal(t, "none", DirectionNone.String())
}
