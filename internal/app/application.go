// Package app drives a Handler from an event source: it forwards discrete
// events, runs fixed-rate and capped variable-rate updates on every idle
// marker, and stops when the handler fails or asks to close.
package app

import (
	"errors"
	"fmt"
	"log"
	"time"

	"tickloop/internal/config"
	"tickloop/internal/event"
	"tickloop/internal/keytracker"
	"tickloop/internal/monitoring"
)

// ErrInvalidFrequency is returned when an update rate cannot be used.
var ErrInvalidFrequency = errors.New("invalid update frequency")

// Application owns the loop timers and the keyboard state for one run.
// It is not safe for concurrent use: every call happens on the goroutine
// that runs the event source.
type Application[C any] struct {
	keyboardState           *keytracker.KeyboardState
	fixedUpdatePeriod       time.Duration
	variableUpdateMinPeriod time.Duration
	lastFixedUpdateTime     time.Time
	lastVariableUpdateTime  time.Time

	now     func() time.Time
	logger  *log.Logger
	monitor *monitoring.LoopMonitor
}

type options struct {
	now     func() time.Time
	logger  *log.Logger
	monitor *monitoring.LoopMonitor
}

// Option configures an Application.
type Option func(*options)

// WithClock replaces time.Now as the loop time source.
func WithClock(now func() time.Time) Option {
	return func(o *options) { o.now = now }
}

// WithLogger sets where handler failures are reported.
func WithLogger(logger *log.Logger) Option {
	return func(o *options) { o.logger = logger }
}

// WithMonitor records loop metrics into m.
func WithMonitor(m *monitoring.LoopMonitor) Option {
	return func(o *options) { o.monitor = m }
}

// New creates an application running fixed updates at fixedUpdateHz and
// variable updates at most at variableUpdateMaxHz. A variableUpdateMaxHz of
// 0 leaves the variable update uncapped.
func New[C any](fixedUpdateHz, variableUpdateMaxHz uint64, opts ...Option) (*Application[C], error) {
	if fixedUpdateHz == 0 {
		return nil, fmt.Errorf("%w: the fixed update frequency must be higher than 0", ErrInvalidFrequency)
	}
	return NewWithPeriods[C](config.PeriodFromHz(fixedUpdateHz), config.PeriodFromHz(variableUpdateMaxHz), opts...)
}

// MustNew is like New but panics on invalid frequencies.
func MustNew[C any](fixedUpdateHz, variableUpdateMaxHz uint64, opts ...Option) *Application[C] {
	a, err := New[C](fixedUpdateHz, variableUpdateMaxHz, opts...)
	if err != nil {
		panic(err)
	}
	return a
}

// NewFromConfig creates an application from the loop section of cfg.
func NewFromConfig[C any](cfg *config.Config, opts ...Option) (*Application[C], error) {
	return New[C](cfg.Loop.FixedUpdateHz, cfg.Loop.VariableUpdateMaxHz, opts...)
}

// NewWithPeriods creates an application from update periods directly.
// fixedUpdatePeriod must be positive; a zero variableUpdateMinPeriod leaves
// the variable update uncapped.
func NewWithPeriods[C any](fixedUpdatePeriod, variableUpdateMinPeriod time.Duration, opts ...Option) (*Application[C], error) {
	if fixedUpdatePeriod <= 0 {
		return nil, fmt.Errorf("%w: fixed update period %v", ErrInvalidFrequency, fixedUpdatePeriod)
	}
	if variableUpdateMinPeriod < 0 {
		return nil, fmt.Errorf("%w: variable update period %v", ErrInvalidFrequency, variableUpdateMinPeriod)
	}

	o := options{
		now:    time.Now,
		logger: log.Default(),
	}
	for _, opt := range opts {
		opt(&o)
	}
	if o.monitor != nil {
		o.monitor.SetFixedPeriod(fixedUpdatePeriod)
	}

	current := o.now()
	return &Application[C]{
		keyboardState:           keytracker.NewKeyboardState(),
		fixedUpdatePeriod:       fixedUpdatePeriod,
		variableUpdateMinPeriod: variableUpdateMinPeriod,
		lastFixedUpdateTime:     current,
		lastVariableUpdateTime:  current,
		now:                     o.now,
		logger:                  o.logger,
		monitor:                 o.monitor,
	}, nil
}

func (a *Application[C]) FixedUpdatePeriod() time.Duration {
	return a.fixedUpdatePeriod
}

func (a *Application[C]) VariableUpdateMinPeriod() time.Duration {
	return a.variableUpdateMinPeriod
}

// Run builds the handler with newHandler and pumps src until it stops.
//
// A constructor failure is reported and returned without starting src.
// A handler failure is reported, stops the source on the same event and
// is returned once the source has shut down.
func (a *Application[C]) Run(src event.Source[C], newHandler Constructor[C]) error {
	handler, err := newHandler(src)
	if err != nil {
		a.reportError(err)
		return fmt.Errorf("failed to initialize the event handler: %w", err)
	}

	// Handler construction does not count as simulated time.
	current := a.now()
	a.lastFixedUpdateTime = current
	a.lastVariableUpdateTime = current

	var runErr error
	stopped := false
	destroyed := false

	srcErr := src.Run(func(ev event.Event) event.ControlFlow {
		_, isDestroyed := ev.(event.LoopDestroyed)
		if isDestroyed {
			if destroyed {
				return event.Exit
			}
			destroyed = true
		} else if stopped {
			return event.Exit
		}

		if err := a.handleEvent(handler, ev); err != nil {
			a.reportError(err)
			if runErr == nil {
				runErr = err
			}
			stopped = true
			return event.Exit
		}

		if stopped || handler.IsCloseRequested() {
			stopped = true
			return event.Exit
		}
		return event.Poll
	})

	if runErr != nil {
		return fmt.Errorf("application shut down due to an error: %w", runErr)
	}
	if srcErr != nil {
		return fmt.Errorf("event source failed: %w", srcErr)
	}
	return nil
}

func (a *Application[C]) reportError(err error) {
	if a.monitor != nil {
		a.monitor.RecordError()
	}
	a.logger.Printf("The application shut down due to an error (%v)", err)
}

// handleEvent forwards ev to the matching handler method. Events the
// handler has no method for are ignored.
func (a *Application[C]) handleEvent(h Handler[C], ev event.Event) error {
	if a.monitor != nil {
		a.monitor.RecordEvent()
	}

	switch e := ev.(type) {
	// Lifecycle
	case event.NewEvents:
		return h.OnNewEvents(e.Cause)
	case event.UserEvent[C]:
		return h.OnCustomEvent(e.Payload)
	case event.Suspended:
		return h.OnSuspended()
	case event.Resumed:
		return h.OnResumed()
	case event.MainEventsCleared:
		return a.update(h)
	case event.RedrawRequested:
		return h.OnRedrawRequested(e.Window)
	case event.RedrawEventsCleared:
		return h.OnRedrawEventsCleared()
	case event.LoopDestroyed:
		return h.OnEventLoopDestroyed()

	// Window
	case event.CloseRequested:
		return h.OnCloseRequested(e.Window)
	case event.Destroyed:
		return h.OnDestroyed(e.Window)
	case event.Focused:
		if e.Focused {
			return h.OnFocusGained(e.Window)
		}
		return h.OnFocusLost(e.Window)
	case event.Resized:
		return h.OnResized(e.Window, e.Size)
	case event.ScaleFactorChanged:
		size := e.NewInnerSize
		if size == nil {
			size = &event.PhysicalSize{}
		}
		return h.OnScaleFactorChanged(e.Window, e.ScaleFactor, size)
	case event.Moved:
		return h.OnMoved(e.Window, e.Position)
	case event.ReceivedCharacter:
		return h.OnReceivedCharacter(e.Window, e.Char)
	case event.DroppedFile:
		return h.OnHoveredFileDropped(e.Window, e.Path)
	case event.HoveredFile:
		return h.OnHoveredFileEntered(e.Window, e.Path)
	case event.HoveredFileCancelled:
		return h.OnHoveredFileLeft(e.Window)
	case event.KeyboardInputEvent:
		in := e.Input
		isRepeat := a.keyboardState.Observe(keytracker.WindowScope(e.Window), e.Device, in.ScanCode, in.State)
		if in.State == event.Pressed {
			return h.OnKeyPressed(e.Window, e.Device, in.ScanCode, in.KeyCode, e.IsSynthetic, isRepeat)
		}
		return h.OnKeyReleased(e.Window, e.Device, in.ScanCode, in.KeyCode, e.IsSynthetic)
	case event.ModifiersChanged:
		return h.OnModifiersChanged(e.Window, e.Modifiers)
	case event.CursorMoved:
		return h.OnCursorMoved(e.Window, e.Device, e.Position)
	case event.CursorEntered:
		return h.OnCursorEntered(e.Window, e.Device)
	case event.CursorLeft:
		return h.OnCursorLeft(e.Window, e.Device)
	case event.MouseInput:
		if e.State == event.Pressed {
			return h.OnMouseButtonPressed(e.Window, e.Device, e.Button)
		}
		return h.OnMouseButtonReleased(e.Window, e.Device, e.Button)
	case event.MouseWheel:
		return h.OnScroll(e.Window, e.Device, e.Delta, e.Phase)
	case event.Touch:
		return h.OnTouch(e.Window, e.Device, e.Phase, e.Location, e.Force, e.ID)
	case event.AxisMotion:
		return h.OnAxisMoved(e.Window, e.Device, e.Axis, e.Value)
	case event.TouchpadPressure, event.ThemeChanged:
		// Not universally supported.
		return nil

	// Device
	case event.DeviceAdded:
		return h.OnDeviceAdded(e.Device)
	case event.DeviceRemoved:
		return h.OnDeviceRemoved(e.Device)
	case event.DeviceMouseMotion:
		return h.OnDeviceCursorMoved(e.Device, e.Delta)
	case event.DeviceMouseWheel:
		return h.OnDeviceScroll(e.Device, e.Delta)
	case event.DeviceMotion:
		return h.OnDeviceAxisMoved(e.Device, e.Axis, e.Value)
	case event.DeviceButton:
		if e.State == event.Pressed {
			return h.OnDeviceButtonPressed(e.Device, e.Button)
		}
		return h.OnDeviceButtonReleased(e.Device, e.Button)
	case event.DeviceKey:
		in := e.Input
		isRepeat := a.keyboardState.Observe(keytracker.DeviceScope, e.Device, in.ScanCode, in.State)
		if in.State == event.Pressed {
			return h.OnDeviceKeyPressed(e.Device, in.ScanCode, in.KeyCode, isRepeat)
		}
		return h.OnDeviceKeyReleased(e.Device, in.ScanCode, in.KeyCode)
	case event.DeviceText:
		return h.OnDeviceText(e.Device, e.Codepoint)
	}
	return nil
}

// update runs the fixed updates owed since the last one, then at most one
// variable update, then the main-events-cleared hook.
func (a *Application[C]) update(h Handler[C]) error {
	current := a.now()

	ran := 0
	for current.Sub(a.lastFixedUpdateTime) >= a.fixedUpdatePeriod {
		if err := a.fixedUpdate(h); err != nil {
			a.recordIdleMarker(ran)
			return err
		}
		a.lastFixedUpdateTime = a.lastFixedUpdateTime.Add(a.fixedUpdatePeriod)
		ran++
	}
	a.recordIdleMarker(ran)

	// The timestamp is kept when skipped so elapsed time accumulates.
	sinceVariable := current.Sub(a.lastVariableUpdateTime)
	if a.variableUpdateMinPeriod == 0 || sinceVariable > a.variableUpdateMinPeriod {
		if err := h.OnVariableUpdate(sinceVariable); err != nil {
			return err
		}
		if a.monitor != nil {
			a.monitor.RecordVariableUpdate(sinceVariable)
		}
		a.lastVariableUpdateTime = current
	}

	return h.OnMainEventsCleared()
}

func (a *Application[C]) fixedUpdate(h Handler[C]) error {
	if a.monitor == nil {
		return h.OnFixedUpdate(a.fixedUpdatePeriod)
	}
	timer := a.monitor.StartFixedUpdate()
	err := h.OnFixedUpdate(a.fixedUpdatePeriod)
	timer.EndFixedUpdate()
	return err
}

func (a *Application[C]) recordIdleMarker(fixedUpdatesRun int) {
	if a.monitor != nil {
		a.monitor.RecordIdleMarker(fixedUpdatesRun)
	}
}
