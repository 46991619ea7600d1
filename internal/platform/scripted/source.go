// Package scripted provides an event source that replays a fixed list of
// steps against a manual clock. It drives headless replays and tests.
package scripted

import (
	"sync"
	"time"

	"tickloop/internal/event"
)

// Clock is a manually advanced time source.
type Clock struct {
	mu  sync.Mutex
	now time.Time
}

func NewClock(start time.Time) *Clock {
	return &Clock{now: start}
}

func (c *Clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *Clock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

// Step advances the clock by Advance, then delivers Event if set.
type Step struct {
	Advance time.Duration
	Event   event.Event
}

// Emit is a step delivering ev without moving the clock.
func Emit(ev event.Event) Step {
	return Step{Event: ev}
}

// Wait is a step moving the clock without delivering anything.
func Wait(d time.Duration) Step {
	return Step{Advance: d}
}

// Idle is a step delivering the all-events-cleared marker.
func Idle() Step {
	return Step{Event: event.MainEventsCleared{}}
}

// Source replays steps in order. Custom events sent through its proxy are
// delivered right after the event whose handling sent them.
type Source[C any] struct {
	steps     []Step
	clock     *Clock
	proxy     *event.Proxy[C]
	delivered []event.Event
}

// New creates a source replaying steps. clock may be nil when no step
// advances time.
func New[C any](clock *Clock, steps ...Step) *Source[C] {
	return &Source[C]{
		steps: steps,
		clock: clock,
		proxy: event.NewProxy[C](),
	}
}

func (s *Source[C]) Proxy() *event.Proxy[C] {
	return s.proxy
}

// Delivered returns every event passed to dispatch so far.
func (s *Source[C]) Delivered() []event.Event {
	return s.delivered
}

// Run delivers every step until dispatch returns event.Exit or the steps
// run out, then closes the proxy and delivers LoopDestroyed.
func (s *Source[C]) Run(dispatch func(event.Event) event.ControlFlow) error {
	deliver := func(ev event.Event) event.ControlFlow {
		s.delivered = append(s.delivered, ev)
		return dispatch(ev)
	}

replay:
	for _, step := range s.steps {
		if step.Advance > 0 && s.clock != nil {
			s.clock.Advance(step.Advance)
		}
		if step.Event == nil {
			continue
		}
		if deliver(step.Event) == event.Exit {
			break
		}
		for _, payload := range s.proxy.Drain() {
			if deliver(event.UserEvent[C]{Payload: payload}) == event.Exit {
				break replay
			}
		}
	}

	s.proxy.Close()
	deliver(event.LoopDestroyed{})
	return nil
}
