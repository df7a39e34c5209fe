package fourc

import (
	"context"
	"sync"
	"time"

	"github.com/ehrlich-b/go-4c/internal/constants"
	"github.com/ehrlich-b/go-4c/internal/devhandle"
	"github.com/ehrlich-b/go-4c/internal/logging"
	"github.com/ehrlich-b/go-4c/internal/submit"
)

// TestConfig describes one workload run: a set of devices, exercised by
// Threads workers each, each worker maintaining QueueDepth in-flight
// operations of BlockSizeKB kilobytes, for Duration.
type TestConfig struct {
	DevicePaths []string
	BlockSizeKB uint32
	Threads     uint32
	QueueDepth  uint32
	Duration    time.Duration
	IsWrite     bool
}

// RunTest spawns Threads workers per device, lets them run for the
// configured duration maintaining QueueDepth in-flight operations each, and
// returns the aggregated TestResult. A logger is used for progress output;
// pass logging.Default() for the package default.
func RunTest(ctx context.Context, cfg TestConfig, log *logging.Logger) (*TestResult, error) {
	if len(cfg.DevicePaths) == 0 {
		return nil, NewError("run-test", ErrCodeNoDevices, "no device paths given")
	}
	if cfg.BlockSizeKB == 0 || cfg.Threads == 0 || cfg.QueueDepth == 0 {
		return nil, NewError("run-test", ErrCodeInvalidParameters, "block size, threads, and queue depth must all be non-zero")
	}

	ioSize := int(cfg.BlockSizeKB) * 1024

	sizes := make(map[string]int64, len(cfg.DevicePaths))
	for _, path := range cfg.DevicePaths {
		sz, err := devhandle.Size(path)
		if err != nil {
			return nil, &Error{Op: "size-query", Device: path, Code: ErrCodeSizeQueryFailed, Msg: err.Error(), Inner: err}
		}
		if sz == 0 {
			return nil, NewDeviceError("run-test", path, ErrCodeZeroSizeDevice, "device reports zero size")
		}
		sizes[path] = sz
	}

	log.Infof("starting test: devices=%v threads=%d qd=%d block=%dKB duration=%s write=%v",
		cfg.DevicePaths, cfg.Threads, cfg.QueueDepth, cfg.BlockSizeKB, cfg.Duration, cfg.IsWrite)

	metrics := NewMetrics()
	stop := &submit.StopFlag{}

	workerCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	var wg sync.WaitGroup
	for _, path := range cfg.DevicePaths {
		path := path
		size := sizes[path]
		for w := uint32(0); w < cfg.Threads; w++ {
			seed := int64(w) + 1
			wg.Add(1)
			go func() {
				defer wg.Done()
				params := submit.Params{
					DevicePath: path,
					DeviceSize: size,
					IOSize:     ioSize,
					QueueDepth: int(cfg.QueueDepth),
					IsWrite:    cfg.IsWrite,
					Stop:       stop,
					Observer:   metrics,
					Seed:       seed,
				}
				if err := submit.Run(workerCtx, params); err != nil {
					log.Errorf("worker for %s exited: %v", path, err)
				}
			}()
		}
	}

	start := time.Now()
	deadline := start.Add(cfg.Duration)
	nextReport := start.Add(constants.ProgressReportInterval)

	ticker := time.NewTicker(constants.SupervisorPollInterval)
	defer ticker.Stop()

supervise:
	for {
		select {
		case <-ctx.Done():
			break supervise
		case now := <-ticker.C:
			if now.After(nextReport) {
				reportProgress(log, metrics, now.Sub(start))
				nextReport = now.Add(constants.ProgressReportInterval)
			}
			if !now.Before(deadline) {
				break supervise
			}
		}
	}

	stop.Stop()
	elapsed := time.Since(start)
	wg.Wait()

	return buildResult(metrics, cfg, elapsed), nil
}

func reportProgress(log *logging.Logger, m *Metrics, elapsed time.Duration) {
	secs := elapsed.Seconds()
	if secs <= 0 {
		return
	}
	mbps := float64(m.TotalBytes()) / secs / (1024 * 1024)
	iops := float64(m.TotalOps()) / secs
	log.Infof("elapsed=%.0fs %.2f MB/s %.0f IOPS avg_lat=%.2fus", secs, mbps, iops, m.AverageLatencyUs())
}

func buildResult(m *Metrics, cfg TestConfig, elapsed time.Duration) *TestResult {
	secs := elapsed.Seconds()
	var mbps, iops float64
	if secs > 0 {
		mbps = float64(m.TotalBytes()) / secs / (1024 * 1024)
		iops = float64(m.TotalOps()) / secs
	}
	return &TestResult{
		ThroughputMBps: mbps,
		IOPS:           iops,
		LatencyAvgUs:   m.AverageLatencyUs(),
		LatencyP50Us:   m.Percentile(50),
		LatencyP99Us:   m.Percentile(99),
		Threads:        cfg.Threads * uint32(len(cfg.DevicePaths)),
		QueueDepth:     cfg.QueueDepth,
		BlockSizeKB:    cfg.BlockSizeKB,
		DurationSecs:   uint32(cfg.Duration.Seconds()),
	}
}
