package inmemory

import (
	"sync"

	"goldraid/internal/app/ports"
)

type Snapshot struct {
	ActionTotal     uint64            `json:"action_total"`
	ActionSuccess   uint64            `json:"action_success"`
	ActionFailure   uint64            `json:"action_failure"`
	SuccessByAction map[string]uint64 `json:"success_by_action"`
	FailureByAction map[string]uint64 `json:"failure_by_action"`
}

type Recorder struct {
	mu      sync.Mutex
	success map[ports.ActionKind]uint64
	failure map[ports.ActionKind]uint64
}

func NewRecorder() *Recorder {
	return &Recorder{
		success: map[ports.ActionKind]uint64{},
		failure: map[ports.ActionKind]uint64{},
	}
}

func (r *Recorder) RecordSuccess(kind ports.ActionKind) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.success[kind]++
}

func (r *Recorder) RecordFailure(kind ports.ActionKind) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.failure[kind]++
}

func (r *Recorder) Snapshot() Snapshot {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := Snapshot{
		SuccessByAction: make(map[string]uint64, len(r.success)),
		FailureByAction: make(map[string]uint64, len(r.failure)),
	}
	for k, v := range r.success {
		out.SuccessByAction[string(k)] = v
		out.ActionSuccess += v
	}
	for k, v := range r.failure {
		out.FailureByAction[string(k)] = v
		out.ActionFailure += v
	}
	out.ActionTotal = out.ActionSuccess + out.ActionFailure
	return out
}

func (r *Recorder) SnapshotAny() any {
	return r.Snapshot()
}
