package thn

// Scheduler owns the active task list. Tasks added while a tick is running,
// or between ticks, start stepping on the next Tick.
type Scheduler struct {
	active  []Task
	pending []Task
}

func newScheduler() *Scheduler {
	return &Scheduler{}
}

// Add registers a task; it first steps on the next Tick.
func (s *Scheduler) Add(t Task) {
	if t == nil {
		return
	}
	s.pending = append(s.pending, t)
}

// Tick steps every active task in registration order and drops those that
// report completion. run returns false when a task is finished. The
// finished tasks are returned in the order they completed.
func (s *Scheduler) Tick(delta float64, run func(Task, float64) bool) []Task {
	if len(s.pending) > 0 {
		s.active = append(s.active, s.pending...)
		s.pending = s.pending[:0]
	}
	if len(s.active) == 0 {
		return nil
	}

	current := s.active
	survivors := make([]Task, 0, len(current))
	var finished []Task
	for _, t := range current {
		if run(t, delta) {
			survivors = append(survivors, t)
		} else {
			finished = append(finished, t)
		}
	}
	s.active = survivors
	return finished
}

// Len returns the number of active and pending tasks.
func (s *Scheduler) Len() int { return len(s.active) + len(s.pending) }

// Tasks returns the active tasks followed by pending ones.
func (s *Scheduler) Tasks() []Task {
	out := make([]Task, 0, s.Len())
	out = append(out, s.active...)
	return append(out, s.pending...)
}
