package randfill

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFillProducesNonZeroContent(t *testing.T) {
	f := New(42)
	buf := make([]byte, 4096)
	f.Fill(buf)

	var allZero = true
	for _, b := range buf {
		if b != 0 {
			allZero = false
			break
		}
	}
	assert.False(t, allZero)
}

func TestFillHandlesUnalignedLength(t *testing.T) {
	f := New(1)
	buf := make([]byte, 13)
	f.Fill(buf)
	assert.Len(t, buf, 13)
}

func TestFillIsDeterministicForFixedSeed(t *testing.T) {
	a := make([]byte, 64)
	b := make([]byte, 64)
	New(7).Fill(a)
	New(7).Fill(b)
	assert.Equal(t, a, b)
}

func TestPoolReturnsRequestedSize(t *testing.T) {
	p := NewPool(8192)
	buf := p.Get()
	assert.Len(t, buf, 8192)
	p.Put(buf)

	buf2 := p.Get()
	assert.Len(t, buf2, 8192)
}

func TestPoolIgnoresMismatchedCapacityOnPut(t *testing.T) {
	p := NewPool(4096)
	wrongSize := make([]byte, 128)
	p.Put(wrongSize) // must not panic
}
