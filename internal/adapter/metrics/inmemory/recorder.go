package inmemory

import (
	"sync"
	"time"
)

type Snapshot struct {
	SaveTotal      uint64  `json:"save_total"`
	LoadTotal      uint64  `json:"load_total"`
	FailureTotal   uint64  `json:"failure_total"`
	DecodeFailures uint64  `json:"decode_failures"`
	DecaySteps     uint64  `json:"decay_steps"`
	LastSaveRows   int     `json:"last_save_rows"`
	LastLoadRows   int     `json:"last_load_rows"`
	LastSaveSecs   float64 `json:"last_save_seconds"`
	LastRunID      string  `json:"last_run_id"`
}

type Recorder struct {
	mu             sync.Mutex
	saves          uint64
	loads          uint64
	failures       uint64
	decodeFailures uint64
	decaySteps     uint64
	lastSaveRows   int
	lastLoadRows   int
	lastSave       time.Duration
	lastRunID      string
}

func NewRecorder() *Recorder {
	return &Recorder{}
}

func (r *Recorder) RecordSave(runID string, rows int, elapsed time.Duration) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.saves++
	r.lastSaveRows = rows
	r.lastSave = elapsed
	r.lastRunID = runID
}

func (r *Recorder) RecordLoad(runID string, rows int, _ time.Duration) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.loads++
	r.lastLoadRows = rows
	r.lastRunID = runID
}

func (r *Recorder) RecordDecodeFailure() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.decodeFailures++
}

func (r *Recorder) RecordFailure() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.failures++
}

func (r *Recorder) RecordDecaySteps(n int) {
	if n <= 0 {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.decaySteps += uint64(n)
}

func (r *Recorder) Snapshot() Snapshot {
	r.mu.Lock()
	defer r.mu.Unlock()

	return Snapshot{
		SaveTotal:      r.saves,
		LoadTotal:      r.loads,
		FailureTotal:   r.failures,
		DecodeFailures: r.decodeFailures,
		DecaySteps:     r.decaySteps,
		LastSaveRows:   r.lastSaveRows,
		LastLoadRows:   r.lastLoadRows,
		LastSaveSecs:   r.lastSave.Seconds(),
		LastRunID:      r.lastRunID,
	}
}

func (r *Recorder) SnapshotAny() any {
	return r.Snapshot()
}
