package ports

import "time"

// PersistMetrics receives the outcome of every persistence run.
type PersistMetrics interface {
	RecordSave(runID string, rows int, elapsed time.Duration)
	RecordLoad(runID string, rows int, elapsed time.Duration)
	RecordDecodeFailure()
	RecordFailure()
	RecordDecaySteps(n int)
}
