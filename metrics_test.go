package fourc

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetricsAddOpsAndBytes(t *testing.T) {
	m := NewMetrics()
	m.AddOps(5)
	m.AddBytes(4096)
	m.AddOps(3)
	m.AddBytes(1024)

	assert.Equal(t, uint64(8), m.TotalOps())
	assert.Equal(t, uint64(5120), m.TotalBytes())
}

func TestMetricsRecordLatencyBeforeCapacity(t *testing.T) {
	m := NewMetrics()
	for i := uint64(1); i <= 100; i++ {
		m.RecordLatency(i * 1000)
	}
	assert.InDelta(t, 50.5, m.AverageLatencyUs(), 0.01)
	// p50 of 1..100 (in us) should land near the middle of the range.
	p50 := m.Percentile(50)
	assert.Greater(t, p50, 0.0)
	assert.LessOrEqual(t, p50, 100.0)
}

func TestMetricsReservoirNeverExceedsCapacity(t *testing.T) {
	m := NewMetrics()
	for i := 0; i < ReservoirCapacity*2; i++ {
		m.RecordLatency(uint64(i))
	}
	m.mu.Lock()
	n := len(m.reservoir)
	m.mu.Unlock()
	require.Equal(t, ReservoirCapacity, n)
}

func TestMetricsPercentileEmptyReservoir(t *testing.T) {
	m := NewMetrics()
	assert.Equal(t, 0.0, m.Percentile(50))
	assert.Equal(t, 0.0, m.Percentile(99))
	assert.Equal(t, 0.0, m.AverageLatencyUs())
}

func TestMetricsPercentileMonotonic(t *testing.T) {
	m := NewMetrics()
	for i := uint64(1); i <= 1000; i++ {
		m.RecordLatency(i * 1000)
	}
	p50 := m.Percentile(50)
	p90 := m.Percentile(90)
	p99 := m.Percentile(99)
	assert.LessOrEqual(t, p50, p90)
	assert.LessOrEqual(t, p90, p99)
}

func TestMetricsConcurrentAccumulation(t *testing.T) {
	m := NewMetrics()
	var wg sync.WaitGroup
	const goroutines = 16
	const perGoroutine = 1000

	for g := 0; g < goroutines; g++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < perGoroutine; i++ {
				m.AddOps(1)
				m.AddBytes(4096)
				m.RecordLatency(uint64(i + 1))
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, uint64(goroutines*perGoroutine), m.TotalOps())
	assert.Equal(t, uint64(goroutines*perGoroutine*4096), m.TotalBytes())
}
