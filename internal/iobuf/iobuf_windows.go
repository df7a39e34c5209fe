package iobuf

import (
	"fmt"
	"unsafe"

	"golang.org/x/sys/windows"
)

// Allocate returns a page-aligned buffer of at least size bytes, backed by
// VirtualAlloc, which always returns addresses aligned to the system's
// allocation granularity (at minimum the 4096-byte page size).
func Allocate(size int) (*Buffer, error) {
	if size <= 0 {
		return nil, fmt.Errorf("iobuf: invalid size %d", size)
	}
	addr, err := windows.VirtualAlloc(0, uintptr(size), windows.MEM_COMMIT|windows.MEM_RESERVE, windows.PAGE_READWRITE)
	if err != nil {
		return nil, fmt.Errorf("iobuf: VirtualAlloc %d bytes: %w", size, err)
	}
	data := unsafe.Slice((*byte)(unsafe.Pointer(addr)), size)
	return &Buffer{data: data, align: 4096}, nil
}

// Release returns the buffer's memory to the OS.
func (b *Buffer) Release() error {
	if b.data == nil {
		return nil
	}
	addr := uintptr(unsafe.Pointer(&b.data[0]))
	b.data = nil
	return windows.VirtualFree(addr, 0, windows.MEM_RELEASE)
}
