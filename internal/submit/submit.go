// Package submit drives the async I/O hot loop for one worker against one
// device: maintain a fixed queue depth of in-flight operations, reissue
// each slot against a fresh offset as soon as it completes, and fold
// completions into a shared Metrics observer in small batches. The actual
// submission primitive (io_uring, IOCP, or a synchronous fallback) is
// selected per build target; this file holds the OS-agnostic pieces shared
// by all three: parameters, slot bookkeeping, and offset table generation.
package submit

import (
	"sync/atomic"
	"time"

	"github.com/ehrlich-b/go-4c/internal/constants"
	"github.com/ehrlich-b/go-4c/internal/interfaces"
	"github.com/ehrlich-b/go-4c/internal/randfill"
)

// Params configures one worker's run against one device. A single TestConfig
// (see fourc.TestConfig) spawns one Params per (device, worker) pair.
type Params struct {
	DevicePath string
	DeviceSize int64
	IOSize     int
	QueueDepth int
	IsWrite    bool
	Stop       *StopFlag
	Observer   interfaces.Observer
	Seed       int64 // 0 means "pick an unreproducible seed"
}

// StopFlag is a cooperative cancellation signal shared by every worker in a
// test run, flipped once by the orchestrator when the test duration elapses.
type StopFlag struct {
	flag atomic.Bool
}

// Stop requests every worker watching f to exit at its next completion
// check.
func (f *StopFlag) Stop() { f.flag.Store(true) }

// Stopped reports whether Stop has been called.
func (f *StopFlag) Stopped() bool { return f.flag.Load() }

// slot tracks the in-flight operation owning one buffer index.
type slot struct {
	bufIdx    int
	offsetIdx int
	issuedAt  time.Time
}

// buildOffsetTable pre-computes constants.OffsetTableSize candidate offsets,
// each a multiple of ioSize within [0, deviceSize). Drawing from this fixed
// ring at issue time avoids a PRNG call on every single I/O, which matters
// once a worker is issuing hundreds of thousands of operations per second.
func buildOffsetTable(filler *randfill.Filler, deviceSize int64, ioSize int) []int64 {
	maxOffset := deviceSize / int64(ioSize)
	if maxOffset < 1 {
		maxOffset = 1
	}
	table := make([]int64, constants.OffsetTableSize)
	for i := range table {
		table[i] = int64(filler.Uint64()%uint64(maxOffset)) * int64(ioSize)
	}
	return table
}

// localCounters accumulates completions between flushes to the shared
// Metrics observer, so the observer's atomics are touched once per
// constants.MetricsFlushBatch operations instead of once per operation.
type localCounters struct {
	ops   uint64
	bytes uint64
}

func (c *localCounters) record(n int) {
	c.ops++
	c.bytes += uint64(n)
}

func (c *localCounters) full() bool {
	return c.ops >= constants.MetricsFlushBatch
}

func (c *localCounters) flush(obs interfaces.Observer) {
	if c.ops == 0 {
		return
	}
	obs.AddOps(c.ops)
	obs.AddBytes(c.bytes)
	c.ops, c.bytes = 0, 0
}
