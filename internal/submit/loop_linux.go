package submit

import (
	"context"
	"fmt"
	"runtime"
	"time"
	"unsafe"

	"github.com/pawelgaczynski/giouring"

	"github.com/ehrlich-b/go-4c/internal/constants"
	"github.com/ehrlich-b/go-4c/internal/devhandle"
	"github.com/ehrlich-b/go-4c/internal/iobuf"
	"github.com/ehrlich-b/go-4c/internal/randfill"
)

// Run drives one worker's queue-depth-maintaining I/O loop against one
// device using io_uring, mirroring the issue/reap/reissue algorithm: prime
// QueueDepth operations, then on every completion immediately resubmit the
// same slot against a new offset, until Stop is signalled.
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

	ring, err := giouring.CreateRing(uint32(p.QueueDepth * 2))
	if err != nil {
		return fmt.Errorf("submit: create io_uring: %w", err)
	}
	defer ring.QueueExit()

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

	slots := make([]slot, p.QueueDepth)
	fd := dev.FD()

	issue := func(i int) {
		sqe := ring.GetSQE()
		if sqe == nil {
			ring.SubmitAndWait(0)
			sqe = ring.GetSQE()
		}
		idx := nextOffset % len(offsets)
		nextOffset++
		off := uint64(offsets[idx])
		addr := uintptr(unsafe.Pointer(&bufs[i][0]))
		if p.IsWrite {
			sqe.PrepWrite(fd, addr, uint32(p.IOSize), off)
		} else {
			sqe.PrepRead(fd, addr, uint32(p.IOSize), off)
		}
		sqe.UserData = uint64(i)
		slots[i] = slot{bufIdx: i, offsetIdx: idx, issuedAt: time.Now()}
	}

	for i := 0; i < p.QueueDepth; i++ {
		issue(i)
	}
	if _, err := ring.Submit(); err != nil {
		return fmt.Errorf("submit: initial submit: %w", err)
	}

	var local localCounters
	opCount := uint64(0)
	cqes := make([]*giouring.CompletionQueueEvent, constants.CompletionBatchSize)

	for !p.Stop.Stopped() && ctx.Err() == nil {
		if _, err := ring.SubmitAndWaitCQEs(1); err != nil {
			continue
		}
		n := ring.PeekBatchCQE(cqes)
		for i := uint32(0); i < n; i++ {
			cqe := cqes[i]
			slotIdx := int(cqe.UserData)
			res := cqe.Res

			if res > 0 {
				local.record(int(res))
				opCount++
				if opCount%constants.LatencySampleStride == 0 {
					p.Observer.RecordLatency(uint64(time.Since(slots[slotIdx].issuedAt)))
				}
			}

			issue(slotIdx)
		}
		ring.CQAdvance(n)
		if _, err := ring.Submit(); err != nil {
			return fmt.Errorf("submit: resubmit: %w", err)
		}

		if local.full() {
			local.flush(p.Observer)
		}
	}

	local.flush(p.Observer)
	return nil
}
