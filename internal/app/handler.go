package app

import (
	"time"

	"tickloop/internal/event"
)

// Handler receives every event the Application forwards plus the two update
// hooks. Embed BaseHandler to get no-op defaults and override only the
// methods you need. Any method returning an error stops the run.
type Handler[C any] interface {
	// IsCloseRequested is polled after every processed event.
	IsCloseRequested() bool

	// Window events
	OnCloseRequested(w event.WindowID) error
	OnDestroyed(w event.WindowID) error
	OnFocusGained(w event.WindowID) error
	OnFocusLost(w event.WindowID) error
	OnResized(w event.WindowID, size event.PhysicalSize) error
	OnScaleFactorChanged(w event.WindowID, scaleFactor float64, newInnerSize *event.PhysicalSize) error
	OnMoved(w event.WindowID, position event.Position) error
	OnReceivedCharacter(w event.WindowID, c rune) error
	OnHoveredFileDropped(w event.WindowID, path string) error
	OnHoveredFileEntered(w event.WindowID, path string) error
	OnHoveredFileLeft(w event.WindowID) error
	OnKeyPressed(w event.WindowID, d event.DeviceID, scanCode event.ScanCode, keyCode event.KeyCode, isSynthetic, isRepeat bool) error
	OnKeyReleased(w event.WindowID, d event.DeviceID, scanCode event.ScanCode, keyCode event.KeyCode, isSynthetic bool) error
	OnModifiersChanged(w event.WindowID, modifiers event.ModifiersState) error
	OnCursorMoved(w event.WindowID, d event.DeviceID, position event.PhysicalPosition) error
	OnCursorEntered(w event.WindowID, d event.DeviceID) error
	OnCursorLeft(w event.WindowID, d event.DeviceID) error
	OnMouseButtonPressed(w event.WindowID, d event.DeviceID, button event.MouseButton) error
	OnMouseButtonReleased(w event.WindowID, d event.DeviceID, button event.MouseButton) error
	OnScroll(w event.WindowID, d event.DeviceID, delta event.ScrollDelta, phase event.TouchPhase) error
	OnTouch(w event.WindowID, d event.DeviceID, phase event.TouchPhase, location event.PhysicalPosition, force *event.Force, id uint64) error
	OnAxisMoved(w event.WindowID, d event.DeviceID, axis event.AxisID, value float64) error

	// Device events
	OnDeviceAdded(d event.DeviceID) error
	OnDeviceRemoved(d event.DeviceID) error
	OnDeviceCursorMoved(d event.DeviceID, delta event.PhysicalPosition) error
	OnDeviceScroll(d event.DeviceID, delta event.ScrollDelta) error
	OnDeviceAxisMoved(d event.DeviceID, axis event.AxisID, value float64) error
	OnDeviceButtonPressed(d event.DeviceID, button event.ButtonID) error
	OnDeviceButtonReleased(d event.DeviceID, button event.ButtonID) error
	OnDeviceKeyPressed(d event.DeviceID, scanCode event.ScanCode, keyCode event.KeyCode, isRepeat bool) error
	OnDeviceKeyReleased(d event.DeviceID, scanCode event.ScanCode, keyCode event.KeyCode) error
	OnDeviceText(d event.DeviceID, codepoint rune) error

	// Lifecycle events
	OnCustomEvent(payload C) error
	OnNewEvents(cause event.StartCause) error
	OnMainEventsCleared() error
	OnRedrawRequested(w event.WindowID) error
	OnRedrawEventsCleared() error
	OnSuspended() error
	OnResumed() error
	OnEventLoopDestroyed() error

	// Updates
	OnFixedUpdate(dt time.Duration) error
	OnVariableUpdate(dt time.Duration) error
}

// Constructor builds the handler once the event source exists. The source
// gives access to its Proxy for sending custom events back into the loop.
type Constructor[C any] func(src event.Source[C]) (Handler[C], error)

// BaseHandler implements every Handler method as a no-op.
type BaseHandler[C any] struct{}

func (BaseHandler[C]) IsCloseRequested() bool {
	return false
}

func (BaseHandler[C]) OnCloseRequested(event.WindowID) error {
	return nil
}

func (BaseHandler[C]) OnDestroyed(event.WindowID) error {
	return nil
}

func (BaseHandler[C]) OnFocusGained(event.WindowID) error {
	return nil
}

func (BaseHandler[C]) OnFocusLost(event.WindowID) error {
	return nil
}

func (BaseHandler[C]) OnResized(event.WindowID, event.PhysicalSize) error {
	return nil
}

func (BaseHandler[C]) OnScaleFactorChanged(event.WindowID, float64, *event.PhysicalSize) error {
	return nil
}

func (BaseHandler[C]) OnMoved(event.WindowID, event.Position) error {
	return nil
}

func (BaseHandler[C]) OnReceivedCharacter(event.WindowID, rune) error {
	return nil
}

func (BaseHandler[C]) OnHoveredFileDropped(event.WindowID, string) error {
	return nil
}

func (BaseHandler[C]) OnHoveredFileEntered(event.WindowID, string) error {
	return nil
}

func (BaseHandler[C]) OnHoveredFileLeft(event.WindowID) error {
	return nil
}

func (BaseHandler[C]) OnKeyPressed(event.WindowID, event.DeviceID, event.ScanCode, event.KeyCode, bool, bool) error {
	return nil
}

func (BaseHandler[C]) OnKeyReleased(event.WindowID, event.DeviceID, event.ScanCode, event.KeyCode, bool) error {
	return nil
}

func (BaseHandler[C]) OnModifiersChanged(event.WindowID, event.ModifiersState) error {
	return nil
}

func (BaseHandler[C]) OnCursorMoved(event.WindowID, event.DeviceID, event.PhysicalPosition) error {
	return nil
}

func (BaseHandler[C]) OnCursorEntered(event.WindowID, event.DeviceID) error {
	return nil
}

func (BaseHandler[C]) OnCursorLeft(event.WindowID, event.DeviceID) error {
	return nil
}

func (BaseHandler[C]) OnMouseButtonPressed(event.WindowID, event.DeviceID, event.MouseButton) error {
	return nil
}

func (BaseHandler[C]) OnMouseButtonReleased(event.WindowID, event.DeviceID, event.MouseButton) error {
	return nil
}

func (BaseHandler[C]) OnScroll(event.WindowID, event.DeviceID, event.ScrollDelta, event.TouchPhase) error {
	return nil
}

func (BaseHandler[C]) OnTouch(event.WindowID, event.DeviceID, event.TouchPhase, event.PhysicalPosition, *event.Force, uint64) error {
	return nil
}

func (BaseHandler[C]) OnAxisMoved(event.WindowID, event.DeviceID, event.AxisID, float64) error {
	return nil
}

func (BaseHandler[C]) OnDeviceAdded(event.DeviceID) error {
	return nil
}

func (BaseHandler[C]) OnDeviceRemoved(event.DeviceID) error {
	return nil
}

func (BaseHandler[C]) OnDeviceCursorMoved(event.DeviceID, event.PhysicalPosition) error {
	return nil
}

func (BaseHandler[C]) OnDeviceScroll(event.DeviceID, event.ScrollDelta) error {
	return nil
}

func (BaseHandler[C]) OnDeviceAxisMoved(event.DeviceID, event.AxisID, float64) error {
	return nil
}

func (BaseHandler[C]) OnDeviceButtonPressed(event.DeviceID, event.ButtonID) error {
	return nil
}

func (BaseHandler[C]) OnDeviceButtonReleased(event.DeviceID, event.ButtonID) error {
	return nil
}

func (BaseHandler[C]) OnDeviceKeyPressed(event.DeviceID, event.ScanCode, event.KeyCode, bool) error {
	return nil
}

func (BaseHandler[C]) OnDeviceKeyReleased(event.DeviceID, event.ScanCode, event.KeyCode) error {
	return nil
}

func (BaseHandler[C]) OnDeviceText(event.DeviceID, rune) error {
	return nil
}

func (BaseHandler[C]) OnCustomEvent(C) error {
	return nil
}

func (BaseHandler[C]) OnNewEvents(event.StartCause) error {
	return nil
}

func (BaseHandler[C]) OnMainEventsCleared() error {
	return nil
}

func (BaseHandler[C]) OnRedrawRequested(event.WindowID) error {
	return nil
}

func (BaseHandler[C]) OnRedrawEventsCleared() error {
	return nil
}

func (BaseHandler[C]) OnSuspended() error {
	return nil
}

func (BaseHandler[C]) OnResumed() error {
	return nil
}

func (BaseHandler[C]) OnEventLoopDestroyed() error {
	return nil
}

func (BaseHandler[C]) OnFixedUpdate(time.Duration) error {
	return nil
}

func (BaseHandler[C]) OnVariableUpdate(time.Duration) error {
	return nil
}
