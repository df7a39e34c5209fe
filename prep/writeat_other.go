//go:build !linux && !windows

package prep

import "github.com/ehrlich-b/go-4c/internal/devhandle"

func writeAt(dev *devhandle.Handle, buf []byte, off int64) error {
	_, err := dev.File().WriteAt(buf, off)
	return err
}
