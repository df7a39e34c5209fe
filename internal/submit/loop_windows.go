package submit

import (
	"context"
	"fmt"
	"runtime"
	"time"
	"unsafe"

	"golang.org/x/sys/windows"

	"github.com/ehrlich-b/go-4c/internal/constants"
	"github.com/ehrlich-b/go-4c/internal/devhandle"
	"github.com/ehrlich-b/go-4c/internal/iobuf"
	"github.com/ehrlich-b/go-4c/internal/randfill"
)

// overlappedSlot extends windows.Overlapped with the slot index, so the
// OVERLAPPED pointer a completion returns leads straight back to the owning
// slot without a separate lookup table.
type overlappedSlot struct {
	windows.Overlapped
	slot int
}

// Run drives one worker's queue-depth-maintaining I/O loop against one
// device using an I/O completion port, batching completions via
// GetQueuedCompletionStatusEx exactly as the io_uring path batches CQEs.
func Run(ctx context.Context, p Params) error {
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()

	mode := devhandle.ReadOnly
	if p.IsWrite {
		mode = devhandle.ReadWrite
	}
	dev, err := devhandle.Open(p.DevicePath, mode)
	if err != nil {
		return fmt.Errorf("submit: %w", err)
	}
	defer dev.Close()

	iocp, err := windows.CreateIoCompletionPort(dev.Win(), 0, 0, 0)
	if err != nil {
		return fmt.Errorf("submit: create IOCP: %w", err)
	}
	defer windows.CloseHandle(iocp)

	seed := p.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	offsetFiller := randfill.New(seed)
	offsets := buildOffsetTable(offsetFiller, p.DeviceSize, p.IOSize)
	nextOffset := 0

	bufFiller := randfill.New(seed + 1)
	bufs := make([][]byte, p.QueueDepth)
	for i := range bufs {
		b, err := iobuf.Allocate(p.IOSize)
		if err != nil {
			return fmt.Errorf("submit: %w", err)
		}
		defer b.Release()
		if p.IsWrite {
			bufFiller.Fill(b.Bytes())
		}
		bufs[i] = b.Bytes()
	}

	ovs := make([]*overlappedSlot, p.QueueDepth)
	slots := make([]slot, p.QueueDepth)

	issue := func(i int) {
		idx := nextOffset % len(offsets)
		nextOffset++
		off := uint64(offsets[idx])

		ov := &overlappedSlot{slot: i}
		ov.Offset = uint32(off)
		ov.OffsetHigh = uint32(off >> 32)
		ovs[i] = ov
		slots[i] = slot{bufIdx: i, offsetIdx: idx, issuedAt: time.Now()}

		var rc error
		if p.IsWrite {
			var n uint32
			rc = windows.WriteFile(dev.Win(), bufs[i], &n, (*windows.Overlapped)(unsafe.Pointer(ov)))
		} else {
			var n uint32
			rc = windows.ReadFile(dev.Win(), bufs[i], &n, (*windows.Overlapped)(unsafe.Pointer(ov)))
		}
		if rc != nil && rc != windows.ERROR_IO_PENDING {
			// Treat a synchronous failure as a zero-byte completion; the
			// worker keeps running rather than aborting the whole test.
			windows.PostQueuedCompletionStatus(iocp, 0, 0, (*windows.Overlapped)(unsafe.Pointer(ov)))
		}
	}

	for i := 0; i < p.QueueDepth; i++ {
		issue(i)
	}

	var local localCounters
	opCount := uint64(0)
	const batch = constants.CompletionBatchSize
	entries := make([]windows.OverlappedEntry, batch)

	for !p.Stop.Stopped() && ctx.Err() == nil {
		var n uint32
		err := windows.GetQueuedCompletionStatusEx(iocp, entries, &n, uint32(constants.CompletionWaitTimeout/time.Millisecond), false)
		if err != nil {
			continue
		}
		for i := uint32(0); i < n; i++ {
			e := entries[i]
			ov := (*overlappedSlot)(unsafe.Pointer(e.Overlapped))
			slotIdx := ov.slot

			if e.BytesTransferred > 0 {
				local.record(int(e.BytesTransferred))
				opCount++
				if opCount%constants.LatencySampleStride == 0 {
					p.Observer.RecordLatency(uint64(time.Since(slots[slotIdx].issuedAt)))
				}
			}

			issue(slotIdx)
		}

		if local.full() {
			local.flush(p.Observer)
		}
	}

	local.flush(p.Observer)
	return nil
}
