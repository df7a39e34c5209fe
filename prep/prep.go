// Package prep implements the two external-collaborator operations that
// precede a benchmark run: creating a fixed-size backing file when no raw
// device is available, and sequentially pre-writing a device/file so later
// random-access tests don't pay a first-write-ever cost on sparse or
// thin-provisioned storage.
package prep

import (
	"fmt"
	"os"
	"time"

	"github.com/ehrlich-b/go-4c/internal/devhandle"
	"github.com/ehrlich-b/go-4c/internal/logging"
	"github.com/ehrlich-b/go-4c/internal/randfill"
)

const (
	createChunkSize = 1 << 20 // 1MB
	prepChunkSize   = 4 << 20 // 4MB, sector-aligned
	prepLogInterval = 256 << 20
)

// CreateFile creates (or truncates) a plain file at path and fills it with
// fileSizeGB gigabytes of pseudo-random content, for use as a benchmark
// target when no spare raw device is available.
func CreateFile(path string, fileSizeGB uint64, log *logging.Logger) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("prep: create %s: %w", path, err)
	}
	defer f.Close()

	total := fileSizeGB * (1 << 30)
	pool := randfill.NewPool(createChunkSize)
	log.Infof("creating file %s (%d GB)", path, fileSizeGB)

	var written uint64
	start := time.Now()
	for written < total {
		n := createChunkSize
		if remaining := total - written; remaining < uint64(n) {
			n = int(remaining)
		}
		buf := pool.Get()[:n]
		if _, err := f.Write(buf); err != nil {
			pool.Put(buf[:createChunkSize])
			return fmt.Errorf("prep: write %s at %d: %w", path, written, err)
		}
		pool.Put(buf[:createChunkSize])
		written += uint64(n)
	}

	log.Infof("created %s in %s", path, time.Since(start).Round(time.Millisecond))
	return nil
}

// Device sequentially overwrites the full size of path with pseudo-random
// content, in prepChunkSize-aligned chunks, logging progress periodically.
func Device(path string, log *logging.Logger) error {
	size, err := devhandle.Size(path)
	if err != nil {
		return fmt.Errorf("prep: %w", err)
	}
	if size == 0 {
		return fmt.Errorf("prep: %s reports zero size", path)
	}

	dev, err := devhandle.Open(path, devhandle.ReadWrite)
	if err != nil {
		return fmt.Errorf("prep: %w", err)
	}
	defer dev.Close()

	pool := randfill.NewPool(prepChunkSize)
	log.Infof("prepping %s (%d bytes)", path, size)

	var written int64
	nextLog := int64(prepLogInterval)
	start := time.Now()

	for written < size {
		n := prepChunkSize
		if remaining := size - written; remaining < int64(n) {
			n = int(remaining)
		}
		buf := pool.Get()[:n]
		if err := writeAt(dev, buf, written); err != nil {
			pool.Put(buf[:prepChunkSize])
			return fmt.Errorf("prep: write %s at %d: %w", path, written, err)
		}
		pool.Put(buf[:prepChunkSize])
		written += int64(n)

		if written >= nextLog {
			log.Infof("prep %s: %d/%d bytes", path, written, size)
			nextLog += prepLogInterval
		}
	}

	log.Infof("prepped %s in %s", path, time.Since(start).Round(time.Second))
	return nil
}
