package event

// NewEvents starts a batch of events.
type NewEvents struct {
	Cause StartCause
}

// MainEventsCleared is sent once every pending event of the batch has been
// delivered. The application runs its update phase on it.
type MainEventsCleared struct{}

type RedrawRequested struct {
	Window WindowID
}

type RedrawEventsCleared struct{}

type Suspended struct{}

type Resumed struct{}

// LoopDestroyed is the last event a source delivers.
type LoopDestroyed struct{}

func (NewEvents) isEvent()           {}
func (MainEventsCleared) isEvent()   {}
func (RedrawRequested) isEvent()     {}
func (RedrawEventsCleared) isEvent() {}
func (Suspended) isEvent()           {}
func (Resumed) isEvent()             {}
func (LoopDestroyed) isEvent()       {}
