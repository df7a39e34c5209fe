package iobuf

import (
	"fmt"

	"golang.org/x/sys/unix"
)

// Allocate returns a page-aligned buffer of at least size bytes, backed by
// an anonymous private mmap. The kernel always returns page-aligned
// addresses for mmap, which satisfies the >=4096 alignment O_DIRECT
// requires on every architecture this module targets.
func Allocate(size int) (*Buffer, error) {
	if size <= 0 {
		return nil, fmt.Errorf("iobuf: invalid size %d", size)
	}
	data, err := unix.Mmap(-1, 0, size, unix.PROT_READ|unix.PROT_WRITE, unix.MAP_PRIVATE|unix.MAP_ANONYMOUS)
	if err != nil {
		return nil, fmt.Errorf("iobuf: mmap %d bytes: %w", size, err)
	}
	return &Buffer{data: data, align: unix.Getpagesize()}, nil
}

// Release returns the buffer's memory to the OS.
func (b *Buffer) Release() error {
	if b.data == nil {
		return nil
	}
	err := unix.Munmap(b.data)
	b.data = nil
	return err
}
