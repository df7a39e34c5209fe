// Package iobuf allocates page-aligned buffers suitable for direct I/O.
// Linux's O_DIRECT and Windows' FILE_FLAG_NO_BUFFERING both require the
// user-space buffer address, offset, and length to be aligned to the
// device's sector size (always satisfied by page alignment, since every
// supported platform's page size is a multiple of 4096).
package iobuf

// Buffer is a page-aligned, anonymously-backed memory region suitable for
// direct I/O. It must be released with Release when no longer needed.
type Buffer struct {
	data  []byte
	align int
}

// Bytes returns the underlying byte slice.
func (b *Buffer) Bytes() []byte { return b.data }

// Align returns the alignment guaranteed for this buffer's base address.
func (b *Buffer) Align() int { return b.align }
