package fourc

import (
	"math/rand"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/ehrlich-b/go-4c/internal/interfaces"
)

var reservoirSeedCounter atomic.Int64

// reservoirSeed produces a distinct seed per Metrics instance even when
// several are constructed within the same nanosecond (e.g. tests that each
// build their own Metrics back to back).
func reservoirSeed() int64 {
	return time.Now().UnixNano() + reservoirSeedCounter.Add(1)
}

// ReservoirCapacity bounds the number of latency samples kept in memory at
// once. Once full, every new sample replaces a uniformly random existing
// entry, so memory stays bounded however long a test runs. Because each new
// sample is always kept, the reservoir leans towards recent samples rather
// than being a uniform sample of the whole latency stream.
const ReservoirCapacity = 100_000

// LatencySampleStride controls how often a completed operation's latency is
// actually recorded. Sampling every operation at high IOPS would make the
// mutex around the reservoir a bottleneck; sampling every Nth op keeps
// overhead low while still producing a representative distribution. 64 was
// chosen empirically: frequent enough for percentiles to converge within a
// few seconds of a test even at modest IOPS, infrequent enough that the
// reservoir lock is never contended at six-figure IOPS.
const LatencySampleStride = 64

// Metrics aggregates the results of many concurrent workers into a single
// set of counters plus a latency reservoir. All counter methods are safe
// for concurrent use by any number of worker goroutines; Percentile may be
// called concurrently with AddOps/AddBytes/RecordLatency at any time,
// including mid-test for progress reporting.
type Metrics struct {
	totalOps   atomic.Uint64
	totalBytes atomic.Uint64

	latencySumNs     atomic.Uint64
	latencySampleCnt atomic.Uint64

	mu        sync.Mutex
	reservoir []uint64
	rng       *rand.Rand
}

// NewMetrics returns an empty Metrics ready to accumulate a single test run.
func NewMetrics() *Metrics {
	return &Metrics{
		reservoir: make([]uint64, 0, ReservoirCapacity),
		rng:       rand.New(rand.NewSource(reservoirSeed())),
	}
}

// AddOps adds n completed operations to the running total.
func (m *Metrics) AddOps(n uint64) {
	m.totalOps.Add(n)
}

// AddBytes adds n transferred bytes to the running total.
func (m *Metrics) AddBytes(n uint64) {
	m.totalBytes.Add(n)
}

// RecordLatency folds one latency sample, in nanoseconds, into the running
// sum/count (used for the mean) and into the bounded reservoir (used for
// percentiles). Callers are expected to apply LatencySampleStride themselves
// so that every recorded sample here is already post-sampling.
func (m *Metrics) RecordLatency(ns uint64) {
	m.latencySumNs.Add(ns)
	m.latencySampleCnt.Add(1)

	m.mu.Lock()
	if len(m.reservoir) < ReservoirCapacity {
		m.reservoir = append(m.reservoir, ns)
	} else {
		m.reservoir[m.rng.Intn(len(m.reservoir))] = ns
	}
	m.mu.Unlock()
}

// TotalOps returns the number of completed operations recorded so far.
func (m *Metrics) TotalOps() uint64 { return m.totalOps.Load() }

// TotalBytes returns the number of bytes transferred so far.
func (m *Metrics) TotalBytes() uint64 { return m.totalBytes.Load() }

// AverageLatencyUs returns the mean latency in microseconds across every
// sampled operation, or 0 if none have been recorded yet.
func (m *Metrics) AverageLatencyUs() float64 {
	cnt := m.latencySampleCnt.Load()
	if cnt == 0 {
		return 0
	}
	return float64(m.latencySumNs.Load()) / float64(cnt) / 1000.0
}

// Percentile returns the p-th percentile latency (0 <= p <= 100) in
// microseconds, computed by sorting the current reservoir contents. Safe to
// call while other goroutines are still recording; the reservoir is copied
// under lock before sorting so the hot path is never blocked for long.
func (m *Metrics) Percentile(p float64) float64 {
	m.mu.Lock()
	if len(m.reservoir) == 0 {
		m.mu.Unlock()
		return 0
	}
	samples := make([]uint64, len(m.reservoir))
	copy(samples, m.reservoir)
	m.mu.Unlock()

	sort.Slice(samples, func(i, j int) bool { return samples[i] < samples[j] })

	idx := int((p / 100.0) * float64(len(samples)-1))
	if idx < 0 {
		idx = 0
	}
	if idx >= len(samples) {
		idx = len(samples) - 1
	}
	return float64(samples[idx]) / 1000.0
}

// Metrics satisfies interfaces.Observer directly: AddOps, AddBytes, and
// RecordLatency are exactly the batched-reporting contract internal/submit
// expects, so no adapter type is needed between the two packages.
var _ interfaces.Observer = (*Metrics)(nil)
