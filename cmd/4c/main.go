// Command 4c measures raw block-device and large-file I/O capability with
// concurrent, direct, asynchronous I/O across four canonical workloads:
// read throughput, write throughput, read IOPS, and write IOPS.
package main

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	fourc "github.com/ehrlich-b/go-4c"
	"github.com/ehrlich-b/go-4c/internal/logging"
	"github.com/ehrlich-b/go-4c/prep"
)

type options struct {
	devices    []string
	duration   uint32
	tests      string
	doPrep     bool
	createFile bool
	fileSizeGB uint64

	readTPThreads, writeTPThreads, readIOPSThreads, writeIOPSThreads uint32
	readTPQD, writeTPQD, readIOPSQD, writeIOPSQD                     uint32
	readTPBS, writeTPBS, readIOPSBS, writeIOPSBS                     uint32
}

func main() {
	opts := &options{}

	root := &cobra.Command{
		Use:   "4c",
		Short: "Async direct I/O disk benchmark",
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd.Context(), opts)
		},
	}

	flags := root.Flags()
	flags.StringSliceVar(&opts.devices, "device", nil, "device or file path to benchmark (repeatable, or comma-separated)")
	flags.Uint32Var(&opts.duration, "duration", 30, "duration of each test in seconds")
	flags.StringVar(&opts.tests, "tests", "all", "comma-separated subset of read-tp,write-tp,read-iops,write-iops, or \"all\"")
	flags.BoolVar(&opts.doPrep, "prep", false, "sequentially pre-write each device before testing")
	flags.BoolVar(&opts.createFile, "create-file", false, "create a backing file at each device path before testing")
	flags.Uint64Var(&opts.fileSizeGB, "file-size", 10, "size in GB of the file created by --create-file")

	flags.Uint32Var(&opts.readTPThreads, "read-tp-threads", 30, "read throughput test: worker threads per device")
	flags.Uint32Var(&opts.writeTPThreads, "write-tp-threads", 16, "write throughput test: worker threads per device")
	flags.Uint32Var(&opts.readIOPSThreads, "read-iops-threads", 120, "read IOPS test: worker threads per device")
	flags.Uint32Var(&opts.writeIOPSThreads, "write-iops-threads", 120, "write IOPS test: worker threads per device")

	flags.Uint32Var(&opts.readTPQD, "read-tp-qd", 1, "read throughput test: queue depth per worker")
	flags.Uint32Var(&opts.writeTPQD, "write-tp-qd", 1, "write throughput test: queue depth per worker")
	flags.Uint32Var(&opts.readIOPSQD, "read-iops-qd", 1, "read IOPS test: queue depth per worker")
	flags.Uint32Var(&opts.writeIOPSQD, "write-iops-qd", 1, "write IOPS test: queue depth per worker")

	flags.Uint32Var(&opts.readTPBS, "read-tp-bs", 128, "read throughput test: block size in KB")
	flags.Uint32Var(&opts.writeTPBS, "write-tp-bs", 64, "write throughput test: block size in KB")
	flags.Uint32Var(&opts.readIOPSBS, "read-iops-bs", 4, "read IOPS test: block size in KB")
	flags.Uint32Var(&opts.writeIOPSBS, "write-iops-bs", 4, "write IOPS test: block size in KB")

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(ctx context.Context, opts *options) error {
	log := logging.Default()

	if len(opts.devices) == 0 {
		return fourc.NewError("cli", fourc.ErrCodeNoDevices, "--device is required")
	}

	if opts.createFile {
		for _, path := range opts.devices {
			if err := prep.CreateFile(path, opts.fileSizeGB, log); err != nil {
				return err
			}
		}
	}
	if opts.doPrep {
		for _, path := range opts.devices {
			if err := prep.Device(path, log); err != nil {
				return err
			}
		}
	}

	want := selectedTests(opts.tests)

	report := fourc.NewBenchmarkReport(opts.devices)
	duration := time.Duration(opts.duration) * time.Second

	if want["read-tp"] {
		r, err := fourc.RunTest(ctx, fourc.TestConfig{
			DevicePaths: opts.devices, BlockSizeKB: opts.readTPBS,
			Threads: opts.readTPThreads, QueueDepth: opts.readTPQD,
			Duration: duration, IsWrite: false,
		}, log)
		if err != nil {
			log.Errorf("read throughput test failed: %v", err)
		} else {
			report.ReadThroughput = r
		}
	}
	if want["write-tp"] {
		r, err := fourc.RunTest(ctx, fourc.TestConfig{
			DevicePaths: opts.devices, BlockSizeKB: opts.writeTPBS,
			Threads: opts.writeTPThreads, QueueDepth: opts.writeTPQD,
			Duration: duration, IsWrite: true,
		}, log)
		if err != nil {
			log.Errorf("write throughput test failed: %v", err)
		} else {
			report.WriteThroughput = r
		}
	}
	if want["read-iops"] {
		r, err := fourc.RunTest(ctx, fourc.TestConfig{
			DevicePaths: opts.devices, BlockSizeKB: opts.readIOPSBS,
			Threads: opts.readIOPSThreads, QueueDepth: opts.readIOPSQD,
			Duration: duration, IsWrite: false,
		}, log)
		if err != nil {
			log.Errorf("read IOPS test failed: %v", err)
		} else {
			report.ReadIOPS = r
		}
	}
	if want["write-iops"] {
		r, err := fourc.RunTest(ctx, fourc.TestConfig{
			DevicePaths: opts.devices, BlockSizeKB: opts.writeIOPSBS,
			Threads: opts.writeIOPSThreads, QueueDepth: opts.writeIOPSQD,
			Duration: duration, IsWrite: true,
		}, log)
		if err != nil {
			log.Errorf("write IOPS test failed: %v", err)
		} else {
			report.WriteIOPS = r
		}
	}

	fmt.Print(report.GenerateTextReport())

	if err := report.Save("."); err != nil {
		log.Warnf("failed to save report: %v", err)
	}
	return nil
}

func selectedTests(spec string) map[string]bool {
	all := map[string]bool{"read-tp": true, "write-tp": true, "read-iops": true, "write-iops": true}
	if spec == "" || spec == "all" {
		return all
	}
	want := map[string]bool{}
	for _, name := range strings.Split(spec, ",") {
		name = strings.TrimSpace(name)
		if name != "" {
			want[name] = true
		}
	}
	return want
}
