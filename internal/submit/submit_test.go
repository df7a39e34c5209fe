package submit

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ehrlich-b/go-4c/internal/constants"
	"github.com/ehrlich-b/go-4c/internal/randfill"
)

func TestBuildOffsetTableSizeAndAlignment(t *testing.T) {
	f := randfill.New(1)
	const ioSize = 4096
	table := buildOffsetTable(f, 1<<30, ioSize)

	assert.Len(t, table, constants.OffsetTableSize)
	for _, off := range table {
		assert.GreaterOrEqual(t, off, int64(0))
		assert.Zero(t, off%ioSize)
	}
}

func TestBuildOffsetTableStaysWithinDeviceSize(t *testing.T) {
	f := randfill.New(2)
	const ioSize = 65536
	const deviceSize = 10 * ioSize
	table := buildOffsetTable(f, deviceSize, ioSize)

	for _, off := range table {
		assert.Less(t, off, int64(deviceSize))
	}
}

func TestBuildOffsetTableHandlesTinyDevice(t *testing.T) {
	f := randfill.New(3)
	table := buildOffsetTable(f, 100, 4096)
	for _, off := range table {
		assert.Equal(t, int64(0), off)
	}
}

func TestStopFlag(t *testing.T) {
	var sf StopFlag
	assert.False(t, sf.Stopped())
	sf.Stop()
	assert.True(t, sf.Stopped())
}

type countingObserver struct {
	ops, bytes uint64
	latencies  []uint64
}

func (o *countingObserver) AddOps(n uint64)       { o.ops += n }
func (o *countingObserver) AddBytes(n uint64)      { o.bytes += n }
func (o *countingObserver) RecordLatency(ns uint64) { o.latencies = append(o.latencies, ns) }

func TestLocalCountersFlushesAtBatchSize(t *testing.T) {
	obs := &countingObserver{}
	var lc localCounters
	for i := 0; i < int(constants.MetricsFlushBatch); i++ {
		lc.record(4096)
	}
	assert.True(t, lc.full())
	lc.flush(obs)

	assert.Equal(t, uint64(constants.MetricsFlushBatch), obs.ops)
	assert.Equal(t, uint64(constants.MetricsFlushBatch*4096), obs.bytes)
	assert.False(t, lc.full())
}

func TestLocalCountersFlushNoopWhenEmpty(t *testing.T) {
	obs := &countingObserver{}
	var lc localCounters
	lc.flush(obs)
	assert.Equal(t, uint64(0), obs.ops)
}
