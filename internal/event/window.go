package event

// CloseRequested is sent when the user asks to close a window.
type CloseRequested struct {
	Window WindowID
}

// Destroyed is sent after a window has been destroyed.
type Destroyed struct {
	Window WindowID
}

// Focused reports a change of keyboard focus.
type Focused struct {
	Window  WindowID
	Focused bool
}

type Resized struct {
	Window WindowID
	Size   PhysicalSize
}

type Moved struct {
	Window   WindowID
	Position Position
}

// ScaleFactorChanged is sent when the DPI scale of a window changes.
// NewInnerSize is the size the source will apply; a handler may change it.
type ScaleFactorChanged struct {
	Window       WindowID
	ScaleFactor  float64
	NewInnerSize *PhysicalSize
}

type ReceivedCharacter struct {
	Window WindowID
	Char   rune
}

// HoveredFile is sent when a file is dragged over a window.
type HoveredFile struct {
	Window WindowID
	Path   string
}

// HoveredFileCancelled is sent when a hovered file leaves the window
// without being dropped.
type HoveredFileCancelled struct {
	Window WindowID
}

type DroppedFile struct {
	Window WindowID
	Path   string
}

// KeyboardInputEvent is a key state change while a window has focus.
type KeyboardInputEvent struct {
	Window      WindowID
	Device      DeviceID
	Input       KeyboardInput
	IsSynthetic bool
}

type ModifiersChanged struct {
	Window    WindowID
	Modifiers ModifiersState
}

type CursorMoved struct {
	Window   WindowID
	Device   DeviceID
	Position PhysicalPosition
}

type CursorEntered struct {
	Window WindowID
	Device DeviceID
}

type CursorLeft struct {
	Window WindowID
	Device DeviceID
}

type MouseInput struct {
	Window WindowID
	Device DeviceID
	State  ElementState
	Button MouseButton
}

type MouseWheel struct {
	Window WindowID
	Device DeviceID
	Delta  ScrollDelta
	Phase  TouchPhase
}

type Touch struct {
	Window   WindowID
	Device   DeviceID
	Phase    TouchPhase
	Location PhysicalPosition
	Force    *Force
	ID       uint64
}

type AxisMotion struct {
	Window WindowID
	Device DeviceID
	Axis   AxisID
	Value  float64
}

// TouchpadPressure is only delivered on some platforms.
type TouchpadPressure struct {
	Window   WindowID
	Device   DeviceID
	Pressure float32
	Stage    int64
}

// ThemeChanged is only delivered on some platforms.
type ThemeChanged struct {
	Window WindowID
	Dark   bool
}

func (CloseRequested) isEvent()       {}
func (Destroyed) isEvent()            {}
func (Focused) isEvent()              {}
func (Resized) isEvent()              {}
func (Moved) isEvent()                {}
func (ScaleFactorChanged) isEvent()   {}
func (ReceivedCharacter) isEvent()    {}
func (HoveredFile) isEvent()          {}
func (HoveredFileCancelled) isEvent() {}
func (DroppedFile) isEvent()          {}
func (KeyboardInputEvent) isEvent()   {}
func (ModifiersChanged) isEvent()     {}
func (CursorMoved) isEvent()          {}
func (CursorEntered) isEvent()        {}
func (CursorLeft) isEvent()           {}
func (MouseInput) isEvent()           {}
func (MouseWheel) isEvent()           {}
func (Touch) isEvent()                {}
func (AxisMotion) isEvent()           {}
func (TouchpadPressure) isEvent()     {}
func (ThemeChanged) isEvent()         {}
