// Package constants holds tunables shared across the engine packages that
// would otherwise be duplicated between internal/submit, internal/iobuf,
// and the root fourc package.
package constants

import "time"

const (
	// SectorAlignment is the minimum alignment, in bytes, required for
	// direct I/O buffers and offsets on both Linux (O_DIRECT) and Windows
	// (FILE_FLAG_NO_BUFFERING). 4096 covers every logical/physical sector
	// size in common use; a device with a larger native sector size still
	// accepts offsets/lengths that are multiples of 4096.
	SectorAlignment = 4096

	// DefaultQueueDepth is a reference queue depth. The engine does not
	// apply it: RunTest rejects a zero QueueDepth, and the CLI's queue-depth
	// flags carry their own defaults.
	DefaultQueueDepth = 32

	// OffsetTableSize is the number of pre-computed random offsets each
	// worker generates at startup. Drawing from a fixed-size ring avoids a
	// PRNG call on every single I/O issue, which matters at the IOPS
	// workloads' op rates.
	OffsetTableSize = 16384

	// MetricsFlushBatch is how many local operations a worker accumulates
	// before flushing into the shared Metrics counters, trading a small
	// amount of reporting latency for far less atomic-counter contention.
	MetricsFlushBatch = 256

	// LatencySampleStride mirrors fourc.LatencySampleStride; duplicated
	// here so internal/submit does not need to import the root package.
	LatencySampleStride = 64

	// CompletionBatchSize caps how many completions a platform submitter
	// drains from the kernel in one syscall.
	CompletionBatchSize = 64
)

// CompletionWaitTimeout bounds how long a submitter blocks waiting for at
// least one completion before re-checking the stop flag, keeping shutdown
// latency low even at very low queue depths.
const CompletionWaitTimeout = time.Millisecond

// ProgressReportInterval is how often the orchestrator's supervisor prints
// an in-progress throughput/IOPS/latency line.
const ProgressReportInterval = 5 * time.Second

// SupervisorPollInterval is how often the orchestrator wakes to check
// whether the test duration has elapsed or a progress line is due.
const SupervisorPollInterval = 100 * time.Millisecond
