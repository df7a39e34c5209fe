//go:build !linux && !windows

package submit

import (
	"context"
	"fmt"
	"time"

	"github.com/ehrlich-b/go-4c/internal/constants"
	"github.com/ehrlich-b/go-4c/internal/devhandle"
	"github.com/ehrlich-b/go-4c/internal/iobuf"
	"github.com/ehrlich-b/go-4c/internal/randfill"
)

// completion reports one slot's synchronous pread/pwrite result.
type completion struct {
	slotIdx  int
	n        int
	issuedAt time.Time
}

// Run provides a portable fallback on platforms without a wired-up
// completion-based primitive: a fixed pool of QueueDepth goroutines, each
// blocking on pread/pwrite for its own slot and posting the result to a
// shared channel from which the reap loop takes one completion at a time.
// This sacrifices the
// single-syscall-per-batch efficiency of io_uring/IOCP but preserves the
// same queue-depth-maintaining, reissue-on-completion contract.
func Run(ctx context.Context, p Params) error {
	mode := devhandle.ReadOnly
	if p.IsWrite {
		mode = devhandle.ReadWrite
	}
	dev, err := devhandle.Open(p.DevicePath, mode)
	if err != nil {
		return fmt.Errorf("submit: %w", err)
	}
	defer dev.Close()

	seed := p.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	offsetFiller := randfill.New(seed)
	offsets := buildOffsetTable(offsetFiller, p.DeviceSize, p.IOSize)

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
	issueCh := make([]chan struct{}, p.QueueDepth)
	results := make(chan completion, p.QueueDepth)
	nextOffset := make([]int, p.QueueDepth)

	for i := 0; i < p.QueueDepth; i++ {
		issueCh[i] = make(chan struct{}, 1)
		i := i
		go func() {
			for range issueCh[i] {
				idx := nextOffset[i] % len(offsets)
				nextOffset[i]++
				off := offsets[idx]
				slots[i] = slot{bufIdx: i, offsetIdx: idx, issuedAt: time.Now()}

				var n int
				var err error
				if p.IsWrite {
					n, err = dev.File().WriteAt(bufs[i], off)
				} else {
					n, err = dev.File().ReadAt(bufs[i], off)
				}
				if err != nil {
					n = 0
				}
				results <- completion{slotIdx: i, n: n, issuedAt: slots[i].issuedAt}
			}
		}()
		issueCh[i] <- struct{}{}
	}
	defer func() {
		for i := range issueCh {
			close(issueCh[i])
		}
	}()

	var local localCounters
	opCount := uint64(0)
	ticker := time.NewTicker(constants.CompletionWaitTimeout)
	defer ticker.Stop()

	for !p.Stop.Stopped() && ctx.Err() == nil {
		select {
		case c := <-results:
			if c.n > 0 {
				local.record(c.n)
				opCount++
				if opCount%constants.LatencySampleStride == 0 {
					p.Observer.RecordLatency(uint64(time.Since(c.issuedAt)))
				}
			}
			issueCh[c.slotIdx] <- struct{}{}
			if local.full() {
				local.flush(p.Observer)
			}
		case <-ticker.C:
		}
	}

	local.flush(p.Observer)
	return nil
}
