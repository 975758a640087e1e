package event

import "github.com/thnplay/thnplay/internal/core/ecs"

// Playback notifications emitted by the cutscene engine.

// EventApplied reports a timeline event that was dispatched.
type EventApplied struct {
	Time    float64
	Type    string
	Targets []string
}

// EventSkipped reports a timeline event that failed and was skipped.
type EventSkipped struct {
	Time    float64
	Type    string
	Targets []string
	Err     error
}

// TaskFinished reports an animation task that completed.
type TaskFinished struct {
	Kind   string
	Target ecs.EntityID
	Clock  float64
}
