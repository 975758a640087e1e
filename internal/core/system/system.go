package system

import "time"

// Phase defines execution ordering within a single tick.
type Phase int

const (
	PhaseNotify Phase = iota // 0: deliver last tick's notifications
	PhaseClock               // 1: advance the playback clock
	PhaseTasks               // 2: step active animation tasks
	PhaseEvents              // 3: dispatch due timeline events
	PhaseCamera              // 4: resolve the camera rig
	PhaseGraph               // 5: propagate transforms, clips, effects

	phaseCount
)

func (p Phase) String() string {
	switch p {
	case PhaseNotify:
		return "notify"
	case PhaseClock:
		return "clock"
	case PhaseTasks:
		return "tasks"
	case PhaseEvents:
		return "events"
	case PhaseCamera:
		return "camera"
	case PhaseGraph:
		return "graph"
	}
	return "unknown"
}

// System is the interface every per-tick system implements.
type System interface {
	Phase() Phase
	Update(dt time.Duration)
}
