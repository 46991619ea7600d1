package event

import (
	"errors"
	"fmt"
	"sync"
)

// ControlFlow is returned by a dispatch callback to tell the source
// whether to keep delivering events.
type ControlFlow int

const (
	Poll ControlFlow = iota
	Exit
)

// Source delivers an ordered stream of events to a single dispatch callback.
//
// Run blocks on the calling goroutine until the source stops. Once dispatch
// returns Exit the source delivers nothing else except one final
// LoopDestroyed. Sources that never receive Exit stop when they run out of
// events (scripted) or when the platform shuts them down.
type Source[C any] interface {
	Run(dispatch func(Event) ControlFlow) error
	Proxy() *Proxy[C]
}

// ErrLoopClosed is returned by Proxy.Send once the source has stopped.
var ErrLoopClosed = errors.New("event loop closed")

// Proxy queues custom events for delivery by the source that owns it.
// Send may be called from any goroutine.
type Proxy[C any] struct {
	mu      sync.Mutex
	pending []C
	closed  bool
}

func NewProxy[C any]() *Proxy[C] {
	return &Proxy[C]{}
}

// Send queues payload for delivery as a UserEvent.
func (p *Proxy[C]) Send(payload C) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return fmt.Errorf("send custom event: %w", ErrLoopClosed)
	}
	p.pending = append(p.pending, payload)
	return nil
}

// Drain removes and returns every queued payload in send order.
func (p *Proxy[C]) Drain() []C {
	p.mu.Lock()
	defer p.mu.Unlock()
	if len(p.pending) == 0 {
		return nil
	}
	out := p.pending
	p.pending = nil
	return out
}

// Close makes every later Send fail. Queued payloads are dropped.
func (p *Proxy[C]) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.closed = true
	p.pending = nil
}

func (p *Proxy[C]) Closed() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.closed
}
