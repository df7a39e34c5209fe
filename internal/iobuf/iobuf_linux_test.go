package iobuf

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAllocateReturnsRequestedSize(t *testing.T) {
	buf, err := Allocate(8192)
	require.NoError(t, err)
	defer buf.Release()

	assert.Len(t, buf.Bytes(), 8192)
	assert.GreaterOrEqual(t, buf.Align(), 4096)
}

func TestAllocateRejectsNonPositiveSize(t *testing.T) {
	_, err := Allocate(0)
	assert.Error(t, err)
	_, err = Allocate(-1)
	assert.Error(t, err)
}

func TestReleaseIsIdempotent(t *testing.T) {
	buf, err := Allocate(4096)
	require.NoError(t, err)
	require.NoError(t, buf.Release())
	assert.NoError(t, buf.Release())
}
