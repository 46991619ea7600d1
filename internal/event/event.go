// Package event defines the ordered stream of window, device and lifecycle
// notifications an event source delivers to the application loop.
package event

// Event is a single notification produced by an event source.
// The set of implementations is closed: only types in this package
// (plus UserEvent for any payload type) satisfy it.
type Event interface {
	isEvent()
}

// WindowID identifies a window owned by the event source.
type WindowID uint64

// DeviceID identifies a physical input device.
type DeviceID uint64

// StartCause describes why a new batch of events started.
type StartCause int

const (
	StartInit StartCause = iota
	StartPoll
	StartWaitCancelled
	StartResumeTimeReached
)

func (c StartCause) String() string {
	switch c {
	case StartInit:
		return "init"
	case StartPoll:
		return "poll"
	case StartWaitCancelled:
		return "wait_cancelled"
	case StartResumeTimeReached:
		return "resume_time_reached"
	default:
		return "unknown"
	}
}

// ElementState is the pressed or released state of a key or button.
// The zero value is Released.
type ElementState int

const (
	Released ElementState = iota
	Pressed
)

func (s ElementState) String() string {
	if s == Pressed {
		return "pressed"
	}
	return "released"
}

// ScanCode is the platform scan code of a physical key.
type ScanCode uint32

// KeyCode is the symbolic name of a key. Empty when the platform could not
// resolve one.
type KeyCode string

// ModifiersState is a bit set of held modifier keys.
type ModifiersState uint8

const (
	ModShift ModifiersState = 1 << iota
	ModCtrl
	ModAlt
	ModLogo
)

func (m ModifiersState) Shift() bool { return m&ModShift != 0 }
func (m ModifiersState) Ctrl() bool  { return m&ModCtrl != 0 }
func (m ModifiersState) Alt() bool   { return m&ModAlt != 0 }
func (m ModifiersState) Logo() bool  { return m&ModLogo != 0 }

// KeyboardInput is a raw key state change.
type KeyboardInput struct {
	ScanCode ScanCode
	KeyCode  KeyCode
	State    ElementState
}

// MouseButton identifies a mouse button. Values above MouseMiddle are
// additional buttons.
type MouseButton int

const (
	MouseLeft MouseButton = iota
	MouseRight
	MouseMiddle
)

// ScrollUnit tells whether a scroll delta is in lines or pixels.
type ScrollUnit int

const (
	LineDelta ScrollUnit = iota
	PixelDelta
)

// ScrollDelta is the amount scrolled on each axis.
type ScrollDelta struct {
	X, Y float64
	Unit ScrollUnit
}

// TouchPhase is the stage of a touch or scroll gesture.
type TouchPhase int

const (
	TouchStarted TouchPhase = iota
	TouchMoved
	TouchEnded
	TouchCancelled
)

func (p TouchPhase) String() string {
	switch p {
	case TouchStarted:
		return "started"
	case TouchMoved:
		return "moved"
	case TouchEnded:
		return "ended"
	case TouchCancelled:
		return "cancelled"
	default:
		return "unknown"
	}
}

// Force is the pressure of a touch, as reported by the device.
type Force struct {
	Value float64
	Max   float64
}

// Normalized returns the force in the range [0, 1].
func (f Force) Normalized() float64 {
	if f.Max <= 0 {
		return 0
	}
	return f.Value / f.Max
}

// AxisID identifies an analog axis on a device.
type AxisID uint32

// ButtonID identifies a raw device button.
type ButtonID uint32

// PhysicalPosition is a position or delta in physical pixels.
type PhysicalPosition struct {
	X, Y float64
}

// Position is an integer position in physical pixels.
type Position struct {
	X, Y int32
}

// PhysicalSize is a size in physical pixels.
type PhysicalSize struct {
	Width, Height uint32
}

// UserEvent carries a custom payload sent through a Proxy.
type UserEvent[C any] struct {
	Payload C
}

func (UserEvent[C]) isEvent() {}
