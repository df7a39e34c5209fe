package fourc

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/ehrlich-b/go-4c/internal/logging"
)

func TestRunTestRejectsNoDevices(t *testing.T) {
	_, err := RunTest(context.Background(), TestConfig{}, logging.Default())
	assert.True(t, IsCode(err, ErrCodeNoDevices))
}

func TestRunTestRejectsZeroParameters(t *testing.T) {
	cfg := TestConfig{
		DevicePaths: []string{"/tmp/does-not-matter"},
		BlockSizeKB: 0,
		Threads:     1,
		QueueDepth:  1,
		Duration:    time.Second,
	}
	_, err := RunTest(context.Background(), cfg, logging.Default())
	assert.True(t, IsCode(err, ErrCodeInvalidParameters))
}

func TestRunTestRejectsMissingDevice(t *testing.T) {
	cfg := TestConfig{
		DevicePaths: []string{"/nonexistent/path/for/go-4c/tests"},
		BlockSizeKB: 4,
		Threads:     1,
		QueueDepth:  1,
		Duration:    time.Second,
	}
	_, err := RunTest(context.Background(), cfg, logging.Default())
	assert.Error(t, err)
}

func TestBuildResultComputesRates(t *testing.T) {
	m := NewMetrics()
	m.AddOps(1000)
	m.AddBytes(1000 * 4096)
	for i := uint64(1); i <= 100; i++ {
		m.RecordLatency(i * 1000)
	}

	cfg := TestConfig{
		DevicePaths: []string{"/dev/null"},
		BlockSizeKB: 4,
		Threads:     4,
		QueueDepth:  8,
		Duration:    time.Second,
	}
	result := buildResult(m, cfg, time.Second)

	assert.InDelta(t, 1000.0, result.IOPS, 0.01)
	assert.Greater(t, result.ThroughputMBps, 0.0)
	assert.Equal(t, uint32(4), result.Threads)
	assert.Equal(t, uint32(8), result.QueueDepth)
	assert.Equal(t, uint32(4), result.BlockSizeKB)
}
