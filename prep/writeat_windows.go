package prep

import (
	"golang.org/x/sys/windows"

	"github.com/ehrlich-b/go-4c/internal/devhandle"
)

func writeAt(dev *devhandle.Handle, buf []byte, off int64) error {
	var ov windows.Overlapped
	ov.Offset = uint32(off)
	ov.OffsetHigh = uint32(off >> 32)

	event, err := windows.CreateEvent(nil, 1, 0, nil)
	if err != nil {
		return err
	}
	defer windows.CloseHandle(event)
	ov.HEvent = event

	var n uint32
	err = windows.WriteFile(dev.Win(), buf, &n, &ov)
	if err == windows.ERROR_IO_PENDING {
		err = windows.GetOverlappedResult(dev.Win(), &ov, &n, true)
	}
	return err
}
