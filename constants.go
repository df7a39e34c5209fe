package fourc

import "github.com/ehrlich-b/go-4c/internal/constants"

// Re-exported tunables; see internal/constants for documentation.
const (
	SectorAlignment     = constants.SectorAlignment
	DefaultQueueDepth   = constants.DefaultQueueDepth
	OffsetTableSize     = constants.OffsetTableSize
	MetricsFlushBatch   = constants.MetricsFlushBatch
	CompletionBatchSize = constants.CompletionBatchSize
)

var (
	ProgressReportInterval = constants.ProgressReportInterval
	SupervisorPollInterval = constants.SupervisorPollInterval
)
