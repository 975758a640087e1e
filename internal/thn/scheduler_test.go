package thn

import "testing"

func runFog(s *Scheduler, delta float64, trace *[]string) []Task {
	return s.Tick(delta, func(t Task, d float64) bool {
		*trace = append(*trace, t.Kind())
		ft := t.(*fogPropTask)
		return !ft.advance(d)
	})
}

func TestSchedulerFinishesAfterDuration(t *testing.T) {
	s := newScheduler()
	s.Add(&fogPropTask{taskClock: taskClock{duration: 1}})
	var trace []string

	if done := runFog(s, 0.5, &trace); len(done) != 0 {
		t.Fatalf("finished early")
	}
	if done := runFog(s, 0.5, &trace); len(done) != 0 {
		t.Fatalf("finished at exactly the duration")
	}
	if done := runFog(s, 0.5, &trace); len(done) != 1 {
		t.Fatalf("not finished once elapsed exceeds duration")
	}
	if s.Len() != 0 {
		t.Fatalf("len = %d after finish", s.Len())
	}
}

func TestSchedulerTasksAddedDuringTickStartNextCycle(t *testing.T) {
	s := newScheduler()
	first := &attachCameraTask{taskClock: taskClock{duration: 10}}
	second := &objectPathTask{pathMotion: pathMotion{taskClock: taskClock{duration: 10}}}
	s.Add(first)

	var ran []Task
	added := false
	step := func(tk Task, _ float64) bool {
		ran = append(ran, tk)
		if !added {
			s.Add(second)
			added = true
		}
		return true
	}

	s.Tick(1, step)
	if len(ran) != 1 || ran[0] != first {
		t.Fatalf("first tick ran %v", ran)
	}
	if s.Len() != 2 {
		t.Fatalf("len = %d, want 2 including pending", s.Len())
	}
	ran = nil
	s.Tick(1, step)
	if len(ran) != 2 || ran[0] != first || ran[1] != second {
		t.Fatalf("second tick ran %v, want first then second", ran)
	}
}

func TestSchedulerRemovalKeepsOrder(t *testing.T) {
	s := newScheduler()
	tasks := make([]*fogPropTask, 5)
	for i := range tasks {
		tasks[i] = &fogPropTask{taskClock: taskClock{duration: float64(i % 2)}}
		s.Add(tasks[i])
	}
	var order []Task
	s.Tick(0.5, func(tk Task, d float64) bool {
		order = append(order, tk)
		return !tk.(*fogPropTask).advance(d)
	})
	if len(order) != 5 {
		t.Fatalf("stepped %d tasks, want 5", len(order))
	}
	for i, tk := range order {
		if tk != Task(tasks[i]) {
			t.Fatalf("task %d stepped out of order", i)
		}
	}
	// zero duration tasks finish on their first tick
	if s.Len() != 2 {
		t.Fatalf("survivors = %d, want 2", s.Len())
	}
	for i, tk := range s.Tasks() {
		if tk != Task(tasks[2*i+1]) {
			t.Fatalf("survivor %d is not task %d", i, 2*i+1)
		}
	}
}

func TestEventQueueStableOrder(t *testing.T) {
	d := NewDispatcher([]Event{
		{Time: 2, Type: "c"},
		{Time: 1, Type: "a"},
		{Time: 2, Type: "d"},
		{Time: 1, Type: "b"},
		{Time: 5, Type: "e"},
	})
	var got []string
	apply := func(ev *Event) error {
		got = append(got, ev.Type)
		return nil
	}
	if n := d.Advance(2, apply, nil); n != 4 {
		t.Fatalf("advanced %d events, want 4", n)
	}
	if n := d.Advance(2, apply, nil); n != 0 {
		t.Fatalf("re-advancing to the same clock dispatched %d events", n)
	}
	want := []string{"a", "b", "c", "d"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("order = %v, want %v", got, want)
		}
	}
	if d.Pending() != 1 {
		t.Fatalf("pending = %d, want 1", d.Pending())
	}
}
