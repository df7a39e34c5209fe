package fourc

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateTextReportIncludesCompletedTestsOnly(t *testing.T) {
	report := NewBenchmarkReport([]string{"/dev/sdx"})
	report.ReadThroughput = &TestResult{ThroughputMBps: 512, IOPS: 4000, Threads: 30, QueueDepth: 1, BlockSizeKB: 128, DurationSecs: 30}

	text := report.GenerateTextReport()
	assert.Contains(t, text, "Read Throughput Test")
	assert.NotContains(t, text, "Write Throughput Test")
	assert.NotContains(t, text, "Read IOPS Test")
}

func TestBenchmarkReportJSONFieldNames(t *testing.T) {
	report := NewBenchmarkReport([]string{"/dev/sdx"})
	report.WriteIOPS = &TestResult{ThroughputMBps: 1, IOPS: 50000, LatencyAvgUs: 20, LatencyP50Us: 18, LatencyP99Us: 45, Threads: 120, QueueDepth: 1, BlockSizeKB: 4, DurationSecs: 30}

	data, err := json.Marshal(report)
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Contains(t, decoded, "write_iops")
	assert.Contains(t, decoded, "test_date")
	assert.Contains(t, decoded, "device")

	writeIOPS := decoded["write_iops"].(map[string]any)
	assert.Contains(t, writeIOPS, "throughput_mbps")
	assert.Contains(t, writeIOPS, "latency_p99_us")
}

func TestBenchmarkReportSaveWritesBothFiles(t *testing.T) {
	dir := t.TempDir()
	report := NewBenchmarkReport([]string{"/dev/sdx"})
	report.ReadIOPS = &TestResult{ThroughputMBps: 10, IOPS: 2000, Threads: 120, QueueDepth: 1, BlockSizeKB: 4, DurationSecs: 30}

	require.NoError(t, report.Save(dir))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)

	var sawTxt, sawJSON bool
	for _, e := range entries {
		switch filepath.Ext(e.Name()) {
		case ".txt":
			sawTxt = true
		case ".json":
			sawJSON = true
		}
	}
	assert.True(t, sawTxt)
	assert.True(t, sawJSON)
}
