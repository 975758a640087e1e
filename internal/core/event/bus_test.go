package event

import (
	"errors"
	"testing"
)

func TestBusDeliversNextTick(t *testing.T) {
	b := NewBus()
	var applied []string
	var skipped int
	Subscribe(b, func(ev EventApplied) { applied = append(applied, ev.Type) })
	Subscribe(b, func(ev EventSkipped) { skipped++ })

	Emit(b, EventApplied{Time: 1, Type: "SET_CAMERA"})
	Emit(b, EventApplied{Time: 2, Type: "START_PSYS"})
	Emit(b, EventSkipped{Time: 2, Type: "ATTACH_ENTITY", Err: errors.New("boom")})

	// nothing is delivered before the swap
	b.DispatchAll()
	if len(applied) != 0 || skipped != 0 {
		t.Fatalf("expected no delivery before swap, got %v %d", applied, skipped)
	}
	if b.Pending() != 3 {
		t.Fatalf("expected 3 pending, got %d", b.Pending())
	}

	b.SwapBuffers()
	b.DispatchAll()
	if len(applied) != 2 || applied[0] != "SET_CAMERA" || applied[1] != "START_PSYS" {
		t.Fatalf("unexpected applied order %v", applied)
	}
	if skipped != 1 {
		t.Fatalf("expected 1 skipped, got %d", skipped)
	}

	// a second swap must not redeliver
	b.SwapBuffers()
	b.DispatchAll()
	if len(applied) != 2 {
		t.Fatalf("notifications redelivered: %v", applied)
	}
}

func TestBusFlush(t *testing.T) {
	b := NewBus()
	got := 0
	Subscribe(b, func(TaskFinished) { got++ })
	Emit(b, TaskFinished{Kind: "fog"})
	b.Flush()
	if got != 1 {
		t.Fatalf("expected flush to deliver, got %d", got)
	}
	var nilBus *Bus
	Emit(nilBus, TaskFinished{}) // must not panic
}
