package thn

import (
	"time"

	"github.com/thnplay/thnplay/internal/core/event"
	coresys "github.com/thnplay/thnplay/internal/core/system"
	"go.uber.org/zap"
)

// NotifySystem delivers the notifications emitted during the previous tick.
// Phase 0 (Notify).
type NotifySystem struct {
	bus *event.Bus
}

func (s *NotifySystem) Phase() coresys.Phase { return coresys.PhaseNotify }

func (s *NotifySystem) Update(_ time.Duration) {
	s.bus.SwapBuffers()
	s.bus.DispatchAll()
}

// ClockSystem advances the playback clock. Phase 1 (Clock).
type ClockSystem struct {
	c *Cutscene
}

func (s *ClockSystem) Phase() coresys.Phase { return coresys.PhaseClock }

func (s *ClockSystem) Update(dt time.Duration) {
	s.c.delta = dt.Seconds()
	s.c.clock += s.c.delta
}

// TaskSystem steps active animation tasks and drops finished ones.
// Phase 2 (Tasks).
type TaskSystem struct {
	c *Cutscene
}

func (s *TaskSystem) Phase() coresys.Phase { return coresys.PhaseTasks }

func (s *TaskSystem) Update(_ time.Duration) {
	c := s.c
	finished := c.scheduler.Tick(c.delta, c.runTask)
	for _, t := range finished {
		c.log.Debug("task finished",
			zap.String("kind", t.Kind()),
			zap.Float64("clock", c.clock),
		)
		event.Emit(c.bus, event.TaskFinished{Kind: t.Kind(), Target: t.Target(), Clock: c.clock})
	}
}

// EventSystem dispatches every timeline event that is due. A failing event
// is logged, recorded and skipped. Phase 3 (Events).
type EventSystem struct {
	c *Cutscene
}

func (s *EventSystem) Phase() coresys.Phase { return coresys.PhaseEvents }

func (s *EventSystem) Update(_ time.Duration) {
	c := s.c
	c.dispatcher.Advance(c.clock, c.applyEvent, c.skipEvent)
}

// CameraSystem resolves the active camera view. Phase 4 (Camera).
type CameraSystem struct {
	c *Cutscene
}

func (s *CameraSystem) Phase() coresys.Phase { return coresys.PhaseCamera }

func (s *CameraSystem) Update(_ time.Duration) {
	s.c.rig.update(s.c)
}

// GraphSystem propagates world transforms and advances clips and effects.
// Phase 5 (Graph).
type GraphSystem struct {
	c *Cutscene
}

func (s *GraphSystem) Phase() coresys.Phase { return coresys.PhaseGraph }

func (s *GraphSystem) Update(_ time.Duration) {
	s.c.propagate(s.c.delta)
}
