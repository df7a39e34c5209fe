package fourc

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// TestResult holds the derived statistics for one completed workload run.
// Field names and JSON tags match the report schema exactly.
type TestResult struct {
	ThroughputMBps float64 `json:"throughput_mbps"`
	IOPS           float64 `json:"iops"`
	LatencyAvgUs   float64 `json:"latency_avg_us"`
	LatencyP50Us   float64 `json:"latency_p50_us"`
	LatencyP99Us   float64 `json:"latency_p99_us"`
	Threads        uint32  `json:"threads"`
	QueueDepth     uint32  `json:"queue_depth"`
	BlockSizeKB    uint32  `json:"block_size_kb"`
	DurationSecs   uint32  `json:"duration_secs"`
}

// BenchmarkReport aggregates the four canonical workloads for one benchmark
// invocation, any subset of which may have been skipped via --tests.
type BenchmarkReport struct {
	TestDate        time.Time   `json:"test_date"`
	Device          string      `json:"device"`
	ReadThroughput  *TestResult `json:"read_throughput"`
	WriteThroughput *TestResult `json:"write_throughput"`
	ReadIOPS        *TestResult `json:"read_iops"`
	WriteIOPS       *TestResult `json:"write_iops"`
}

// NewBenchmarkReport returns an empty report stamped with the current time
// for the given device (or comma-joined devices, if more than one).
func NewBenchmarkReport(devices []string) *BenchmarkReport {
	return &BenchmarkReport{
		TestDate: time.Now(),
		Device:   strings.Join(devices, ","),
	}
}

// GenerateTextReport renders the report as the same human-readable text
// format saved alongside the JSON file.
func (r *BenchmarkReport) GenerateTextReport() string {
	var b strings.Builder
	b.WriteString("========================================\n")
	b.WriteString("go-4c Disk Benchmark Report\n")
	b.WriteString("========================================\n\n")
	fmt.Fprintf(&b, "Test Date: %s\n", r.TestDate.Format("2006-01-02 15:04:05"))
	fmt.Fprintf(&b, "Device: %s\n\n", r.Device)

	writeBlock(&b, "Read Throughput Test", r.ReadThroughput)
	writeBlock(&b, "Write Throughput Test", r.WriteThroughput)
	writeBlock(&b, "Read IOPS Test", r.ReadIOPS)
	writeBlock(&b, "Write IOPS Test", r.WriteIOPS)

	b.WriteString("========================================\n")
	return b.String()
}

func writeBlock(b *strings.Builder, title string, r *TestResult) {
	if r == nil {
		return
	}
	fmt.Fprintf(b, "%s:\n", title)
	fmt.Fprintf(b, "  Threads:         %d\n", r.Threads)
	fmt.Fprintf(b, "  Queue Depth:     %d\n", r.QueueDepth)
	fmt.Fprintf(b, "  Block Size:      %d KB\n", r.BlockSizeKB)
	fmt.Fprintf(b, "  Duration:        %d seconds\n", r.DurationSecs)
	fmt.Fprintf(b, "  Throughput:    %10.2f MB/s\n", r.ThroughputMBps)
	fmt.Fprintf(b, "  IOPS:          %10.0f\n", r.IOPS)
	fmt.Fprintf(b, "  Avg Latency:   %10.2f us\n", r.LatencyAvgUs)
	fmt.Fprintf(b, "  P50 Latency:   %10.2f us\n", r.LatencyP50Us)
	fmt.Fprintf(b, "  P99 Latency:   %10.2f us\n", r.LatencyP99Us)
	b.WriteString("\n")
}

// Save writes both the text and JSON renditions of the report to dir,
// named 4c-report-<timestamp>.{txt,json}.
func (r *BenchmarkReport) Save(dir string) error {
	ts := r.TestDate.Format("20060102-150405")

	textPath := filepath.Join(dir, fmt.Sprintf("4c-report-%s.txt", ts))
	if err := os.WriteFile(textPath, []byte(r.GenerateTextReport()), 0o644); err != nil {
		return &Error{Op: "save-report", Device: textPath, Code: ErrCodeReportWriteFailed, Msg: err.Error(), Inner: err}
	}

	jsonPath := filepath.Join(dir, fmt.Sprintf("4c-report-%s.json", ts))
	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return NewError("save-report", ErrCodeReportWriteFailed, err.Error())
	}
	if err := os.WriteFile(jsonPath, data, 0o644); err != nil {
		return &Error{Op: "save-report", Device: jsonPath, Code: ErrCodeReportWriteFailed, Msg: err.Error(), Inner: err}
	}
	return nil
}
