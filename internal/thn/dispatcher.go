package thn

import "sort"

// EventQueue is a time-ordered queue of events. Ingestion sorts stably, so
// events with equal times keep their script order.
type EventQueue struct {
	events []Event
	next   int
}

func NewEventQueue(events []Event) *EventQueue {
	q := &EventQueue{events: append([]Event(nil), events...)}
	sort.SliceStable(q.events, func(i, j int) bool {
		return q.events[i].Time < q.events[j].Time
	})
	return q
}

// PopDue removes and returns the earliest event if its time is <= clock.
func (q *EventQueue) PopDue(clock float64) (*Event, bool) {
	if q.next >= len(q.events) || q.events[q.next].Time > clock {
		return nil, false
	}
	ev := &q.events[q.next]
	q.next++
	return ev, true
}

// Len returns the number of events not yet dispatched.
func (q *EventQueue) Len() int { return len(q.events) - q.next }

// Next returns the time of the next event.
func (q *EventQueue) Next() (float64, bool) {
	if q.next >= len(q.events) {
		return 0, false
	}
	return q.events[q.next].Time, true
}

// Dispatcher drains due events from its queue and routes them to a handler.
type Dispatcher struct {
	queue      *EventQueue
	dispatched int
}

func NewDispatcher(events []Event) *Dispatcher {
	return &Dispatcher{queue: NewEventQueue(events)}
}

// Advance pops every event due at clock and hands it to apply. A failing
// event does not stop the drain; onError sees each failure.
func (d *Dispatcher) Advance(clock float64, apply func(*Event) error, onError func(*Event, error)) int {
	n := 0
	for {
		ev, ok := d.queue.PopDue(clock)
		if !ok {
			return n
		}
		n++
		d.dispatched++
		if err := apply(ev); err != nil && onError != nil {
			onError(ev, err)
		}
	}
}

func (d *Dispatcher) Pending() int    { return d.queue.Len() }
func (d *Dispatcher) Dispatched() int { return d.dispatched }

// Next returns the time of the next undispatched event.
func (d *Dispatcher) Next() (float64, bool) { return d.queue.Next() }
