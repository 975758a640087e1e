package system

import "time"

// Runner executes systems phase by phase each tick. Systems sharing a phase
// run in registration order.
type Runner struct {
	phases [phaseCount][]System
	n      int
}

func NewRunner() *Runner {
	return &Runner{}
}

// Register adds s to its phase. Systems reporting an unknown phase are
// dropped, as are nil systems.
func (r *Runner) Register(s System) {
	if s == nil {
		return
	}
	p := s.Phase()
	if p < 0 || p >= phaseCount {
		return
	}
	r.phases[p] = append(r.phases[p], s)
	r.n++
}

func (r *Runner) Tick(dt time.Duration) {
	for _, systems := range r.phases {
		for _, s := range systems {
			s.Update(dt)
		}
	}
}

// Len returns the number of registered systems.
func (r *Runner) Len() int { return r.n }
