package inmemory

import (
	"testing"
	"time"
)

func TestRecorderSnapshot(t *testing.T) {
	r := NewRecorder()
	r.RecordSave("01J0SAVE", 3, 1500*time.Millisecond)
	r.RecordLoad("01J0LOAD", 7, time.Second)
	r.RecordDecodeFailure()
	r.RecordFailure()
	r.RecordDecaySteps(4)
	r.RecordDecaySteps(0)

	s := r.Snapshot()
	if s.SaveTotal != 1 || s.LoadTotal != 1 {
		t.Fatalf("expected one save and one load, got %d/%d", s.SaveTotal, s.LoadTotal)
	}
	if s.LastSaveRows != 3 || s.LastLoadRows != 7 {
		t.Fatalf("unexpected row counts: save=%d load=%d", s.LastSaveRows, s.LastLoadRows)
	}
	if s.LastSaveSecs != 1.5 {
		t.Fatalf("expected last save 1.5s, got %v", s.LastSaveSecs)
	}
	if s.DecodeFailures != 1 || s.FailureTotal != 1 {
		t.Fatalf("expected one decode failure and one failure, got %d/%d", s.DecodeFailures, s.FailureTotal)
	}
	if s.DecaySteps != 4 {
		t.Fatalf("expected 4 decay steps, got %d", s.DecaySteps)
	}
	if s.LastRunID != "01J0LOAD" {
		t.Fatalf("expected last run id of the load, got %q", s.LastRunID)
	}
}
