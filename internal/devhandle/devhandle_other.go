//go:build !linux && !windows

package devhandle

import (
	"fmt"
	"os"
)

// Handle is a reduced-fidelity fallback for platforms without a dedicated
// direct-I/O path wired up (darwin, bsd). It opens the file normally; reads
// and writes go through the page cache, so throughput/latency numbers on
// this path are not representative of raw device performance.
type Handle struct {
	f    *os.File
	path string
}

// Open opens path without O_DIRECT.
func Open(path string, mode Mode) (*Handle, error) {
	flag := os.O_RDONLY
	if mode == ReadWrite {
		flag = os.O_RDWR
	}
	f, err := os.OpenFile(path, flag, 0)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	return &Handle{f: f, path: path}, nil
}

func (h *Handle) Close() error { return h.f.Close() }
func (h *Handle) File() *os.File { return h.f }
func (h *Handle) Path() string  { return h.path }

// Size returns path's size via stat; does not handle raw block devices on
// this fallback path.
func Size(path string) (int64, error) {
	fi, err := os.Stat(path)
	if err != nil {
		return 0, fmt.Errorf("stat %s: %w", path, err)
	}
	return fi.Size(), nil
}
