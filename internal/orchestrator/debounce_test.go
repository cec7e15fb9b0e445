package orchestrator

import (
	"testing"
	"time"
)

func TestAcceptTriggerLeadingEdgeDebounce(t *testing.T) {
	orch := New(t.TempDir(), nil, nil, nil, nil, nil, WithDebounce(time.Minute))

	base := time.Now()
	if !orch.acceptTrigger(base) {
		t.Fatal("first trigger must be accepted")
	}
	if orch.acceptTrigger(base.Add(30 * time.Second)) {
		t.Fatal("trigger inside the window must be dropped")
	}
	if orch.acceptTrigger(base.Add(time.Minute)) {
		t.Fatal("window boundary is inclusive")
	}
	if !orch.acceptTrigger(base.Add(61 * time.Second)) {
		t.Fatal("trigger after the window must be accepted")
	}
	// The accepted trigger resets the window.
	if orch.acceptTrigger(base.Add(90 * time.Second)) {
		t.Fatal("window must reset from the last accepted trigger")
	}
}
