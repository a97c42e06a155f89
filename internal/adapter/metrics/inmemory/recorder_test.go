package inmemory

import (
	"testing"

	"goldraid/internal/app/ports"
)

func TestRecorderSnapshot(t *testing.T) {
	r := NewRecorder()
	r.RecordSuccess(ports.ActionAttack)
	r.RecordSuccess(ports.ActionAttack)
	r.RecordSuccess(ports.ActionDeposit)
	r.RecordFailure(ports.ActionAttack)
	r.RecordFailure(ports.ActionRepair)

	s := r.Snapshot()
	if s.ActionTotal != 5 {
		t.Fatalf("expected total 5, got %d", s.ActionTotal)
	}
	if s.ActionSuccess != 3 {
		t.Fatalf("expected success 3, got %d", s.ActionSuccess)
	}
	if s.ActionFailure != 2 {
		t.Fatalf("expected failure 2, got %d", s.ActionFailure)
	}
	if s.SuccessByAction[string(ports.ActionAttack)] != 2 {
		t.Fatalf("expected attack successes 2, got %d", s.SuccessByAction[string(ports.ActionAttack)])
	}
	if s.FailureByAction[string(ports.ActionRepair)] != 1 {
		t.Fatalf("expected repair failures 1")
	}
}

func TestRecorderSnapshotIsACopy(t *testing.T) {
	r := NewRecorder()
	r.RecordSuccess(ports.ActionLogin)
	s := r.Snapshot()
	s.SuccessByAction["login"] = 99
	if got := r.Snapshot().SuccessByAction["login"]; got != 1 {
		t.Fatalf("snapshot aliases recorder state: %d", got)
	}
}
