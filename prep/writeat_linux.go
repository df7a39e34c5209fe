package prep

import (
	"golang.org/x/sys/unix"

	"github.com/ehrlich-b/go-4c/internal/devhandle"
)

func writeAt(dev *devhandle.Handle, buf []byte, off int64) error {
	_, err := unix.Pwrite(dev.FD(), buf, off)
	return err
}
