package system

import (
	"testing"
	"time"
)

type recordingSystem struct {
	name  string
	phase Phase
	log   *[]string
}

func (s *recordingSystem) Phase() Phase { return s.phase }

func (s *recordingSystem) Update(_ time.Duration) {
	*s.log = append(*s.log, s.name)
}

func TestRunnerPhaseOrder(t *testing.T) {
	var log []string
	r := NewRunner()
	r.Register(&recordingSystem{name: "graph", phase: PhaseGraph, log: &log})
	r.Register(&recordingSystem{name: "events", phase: PhaseEvents, log: &log})
	r.Register(&recordingSystem{name: "tasks-a", phase: PhaseTasks, log: &log})
	r.Register(&recordingSystem{name: "tasks-b", phase: PhaseTasks, log: &log})
	r.Register(&recordingSystem{name: "clock", phase: PhaseClock, log: &log})
	r.Register(nil)

	r.Tick(16 * time.Millisecond)

	want := []string{"clock", "tasks-a", "tasks-b", "events", "graph"}
	if len(log) != len(want) {
		t.Fatalf("expected %v, got %v", want, log)
	}
	for i := range want {
		if log[i] != want[i] {
			t.Fatalf("position %d: expected %q, got %q (%v)", i, want[i], log[i], log)
		}
	}
	if r.Len() != 5 {
		t.Fatalf("expected 5 systems, got %d", r.Len())
	}
}

func TestRunnerDropsUnknownPhase(t *testing.T) {
	var log []string
	r := NewRunner()
	r.Register(&recordingSystem{name: "bogus", phase: Phase(99), log: &log})
	r.Register(&recordingSystem{name: "notify", phase: PhaseNotify, log: &log})

	r.Tick(0)
	if r.Len() != 1 || len(log) != 1 || log[0] != "notify" {
		t.Fatalf("expected only notify registered, got len %d log %v", r.Len(), log)
	}
	if Phase(99).String() != "unknown" {
		t.Fatalf("unexpected phase name %q", Phase(99).String())
	}
}
