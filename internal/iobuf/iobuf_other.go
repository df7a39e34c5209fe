//go:build !linux && !windows

package iobuf

import "fmt"

// Allocate falls back to a plain heap allocation on platforms without a
// dedicated page-aligned allocator wired up. Go's allocator does not
// guarantee page alignment, so direct I/O fidelity is reduced here; this
// path exists only so the module builds on darwin/bsd, not as a tuned
// target.
func Allocate(size int) (*Buffer, error) {
	if size <= 0 {
		return nil, fmt.Errorf("iobuf: invalid size %d", size)
	}
	return &Buffer{data: make([]byte, size), align: 0}, nil
}

// Release is a no-op; the buffer is reclaimed by the garbage collector.
func (b *Buffer) Release() error {
	b.data = nil
	return nil
}
