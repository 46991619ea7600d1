package ebitensrc

import (
	"math"

	"github.com/hajimehoshi/ebiten/v2"

	"tickloop/internal/event"
	"tickloop/internal/keytracker"
)

// MainWindow is the only window an ebiten game has.
const MainWindow event.WindowID = 1

// Device IDs assigned to ebiten input devices. Gamepads start at
// GamepadDeviceBase plus their ebiten ID.
const (
	KeyboardDevice    event.DeviceID = 1
	MouseDevice       event.DeviceID = 2
	TouchDevice       event.DeviceID = 3
	GamepadDeviceBase event.DeviceID = 16
)

func gamepadDevice(id ebiten.GamepadID) event.DeviceID {
	return GamepadDeviceBase + event.DeviceID(id)
}

type keyHold struct {
	key      ebiten.Key
	duration int
}

type touchPoint struct {
	id   ebiten.TouchID
	x, y int
}

type gamepadAxis struct {
	gamepad ebiten.GamepadID
	axis    ebiten.StandardGamepadAxis
	value   float64
}

type gamepadButton struct {
	gamepad ebiten.GamepadID
	button  ebiten.StandardGamepadButton
	pressed bool
}

// snapshot is the input state read from ebiten during one tick.
type snapshot struct {
	closing bool
	focused bool

	width, height int
	x, y          int
	scale         float64

	chars        []rune
	droppedFiles []string

	keysPressed  []ebiten.Key
	keysReleased []ebiten.Key
	keysHeld     []keyHold

	cursorX, cursorY int
	wheelX, wheelY   float64
	mousePressed     []ebiten.MouseButton
	mouseReleased    []ebiten.MouseButton

	touches         []touchPoint
	touchesReleased []ebiten.TouchID

	gamepadsConnected    []ebiten.GamepadID
	gamepadsDisconnected []ebiten.GamepadID
	gamepadAxes          []gamepadAxis
	gamepadButtons       []gamepadButton
}

type axisKey struct {
	gamepad ebiten.GamepadID
	axis    ebiten.StandardGamepadAxis
}

// tracker turns consecutive snapshots into events. It keeps the state ebiten
// only reports as levels so that changes can be emitted as edges.
type tracker struct {
	repeatDelay    int
	repeatInterval int

	initialized bool
	focused     bool
	width       int
	height      int
	x, y        int
	scale       float64
	cursorX     int
	cursorY     int
	modifiers   event.ModifiersState

	touches  map[ebiten.TouchID]event.PhysicalPosition
	gamepads map[ebiten.GamepadID]bool
	axes     map[axisKey]float64
}

func newTracker(repeatDelay, repeatInterval int) *tracker {
	return &tracker{
		repeatDelay:    repeatDelay,
		repeatInterval: repeatInterval,
		touches:        make(map[ebiten.TouchID]event.PhysicalPosition),
		gamepads:       make(map[ebiten.GamepadID]bool),
		axes:           make(map[axisKey]float64),
	}
}

// connectedGamepads lists the gamepads seen so far, for disconnect checks.
func (t *tracker) connectedGamepads() []ebiten.GamepadID {
	ids := make([]ebiten.GamepadID, 0, len(t.gamepads))
	for id := range t.gamepads {
		ids = append(ids, id)
	}
	return ids
}

// diff appends the events that lead from the previous snapshot to s.
func (t *tracker) diff(s *snapshot, evs []event.Event) []event.Event {
	if !t.initialized {
		t.initialized = true
		t.focused = s.focused
		t.width, t.height = s.width, s.height
		t.x, t.y = s.x, s.y
		t.scale = s.scale
		t.cursorX, t.cursorY = s.cursorX, s.cursorY
	}

	evs = t.diffWindow(s, evs)
	evs = t.diffKeyboard(s, evs)
	evs = t.diffMouse(s, evs)
	evs = t.diffTouches(s, evs)
	evs = t.diffGamepads(s, evs)
	return evs
}

func (t *tracker) diffWindow(s *snapshot, evs []event.Event) []event.Event {
	if s.closing {
		evs = append(evs, event.CloseRequested{Window: MainWindow})
	}
	if s.focused != t.focused {
		t.focused = s.focused
		evs = append(evs, event.Focused{Window: MainWindow, Focused: s.focused})
	}
	if s.scale != t.scale && s.scale > 0 {
		t.scale = s.scale
		evs = append(evs, event.ScaleFactorChanged{
			Window:       MainWindow,
			ScaleFactor:  s.scale,
			NewInnerSize: &event.PhysicalSize{Width: physical(s.width, s.scale), Height: physical(s.height, s.scale)},
		})
	}
	if s.width != t.width || s.height != t.height {
		t.width, t.height = s.width, s.height
		evs = append(evs, event.Resized{Window: MainWindow, Size: event.PhysicalSize{Width: physical(s.width, t.scale), Height: physical(s.height, t.scale)}})
	}
	if s.x != t.x || s.y != t.y {
		t.x, t.y = s.x, s.y
		evs = append(evs, event.Moved{Window: MainWindow, Position: event.Position{X: int32(s.x), Y: int32(s.y)}})
	}
	for _, path := range s.droppedFiles {
		evs = append(evs, event.DroppedFile{Window: MainWindow, Path: path})
	}
	for _, c := range s.chars {
		evs = append(evs, event.ReceivedCharacter{Window: MainWindow, Char: c})
	}
	return evs
}

func (t *tracker) diffKeyboard(s *snapshot, evs []event.Event) []event.Event {
	if mods := modifiersFrom(s.keysHeld); mods != t.modifiers {
		t.modifiers = mods
		evs = append(evs, event.ModifiersChanged{Window: MainWindow, Modifiers: mods})
	}

	for _, k := range s.keysPressed {
		if in, ok := keyboardInput(k, event.Pressed); ok {
			evs = append(evs,
				event.DeviceKey{Device: KeyboardDevice, Input: in},
				event.KeyboardInputEvent{Window: MainWindow, Device: KeyboardDevice, Input: in},
			)
		}
	}
	// Held keys repeat at the configured rate, like an OS key repeat.
	for _, h := range s.keysHeld {
		if !isRepeatTick(h.duration, t.repeatDelay, t.repeatInterval) {
			continue
		}
		if in, ok := keyboardInput(h.key, event.Pressed); ok {
			evs = append(evs, event.KeyboardInputEvent{Window: MainWindow, Device: KeyboardDevice, Input: in})
		}
	}
	for _, k := range s.keysReleased {
		if in, ok := keyboardInput(k, event.Released); ok {
			evs = append(evs,
				event.DeviceKey{Device: KeyboardDevice, Input: in},
				event.KeyboardInputEvent{Window: MainWindow, Device: KeyboardDevice, Input: in},
			)
		}
	}
	return evs
}

func (t *tracker) diffMouse(s *snapshot, evs []event.Event) []event.Event {
	if s.cursorX != t.cursorX || s.cursorY != t.cursorY {
		delta := event.PhysicalPosition{X: float64(s.cursorX - t.cursorX), Y: float64(s.cursorY - t.cursorY)}
		t.cursorX, t.cursorY = s.cursorX, s.cursorY
		evs = append(evs,
			event.DeviceMouseMotion{Device: MouseDevice, Delta: delta},
			event.CursorMoved{Window: MainWindow, Device: MouseDevice, Position: event.PhysicalPosition{X: float64(s.cursorX), Y: float64(s.cursorY)}},
		)
	}
	if s.wheelX != 0 || s.wheelY != 0 {
		delta := event.ScrollDelta{X: s.wheelX, Y: s.wheelY, Unit: event.LineDelta}
		evs = append(evs,
			event.DeviceMouseWheel{Device: MouseDevice, Delta: delta},
			event.MouseWheel{Window: MainWindow, Device: MouseDevice, Delta: delta, Phase: event.TouchMoved},
		)
	}
	for _, b := range s.mousePressed {
		evs = append(evs, event.MouseInput{Window: MainWindow, Device: MouseDevice, State: event.Pressed, Button: mouseButton(b)})
	}
	for _, b := range s.mouseReleased {
		evs = append(evs, event.MouseInput{Window: MainWindow, Device: MouseDevice, State: event.Released, Button: mouseButton(b)})
	}
	return evs
}

func (t *tracker) diffTouches(s *snapshot, evs []event.Event) []event.Event {
	for _, p := range s.touches {
		pos := event.PhysicalPosition{X: float64(p.x), Y: float64(p.y)}
		last, known := t.touches[p.id]
		switch {
		case !known:
			evs = append(evs, event.Touch{Window: MainWindow, Device: TouchDevice, Phase: event.TouchStarted, Location: pos, ID: uint64(p.id)})
		case last != pos:
			evs = append(evs, event.Touch{Window: MainWindow, Device: TouchDevice, Phase: event.TouchMoved, Location: pos, ID: uint64(p.id)})
		}
		t.touches[p.id] = pos
	}
	for _, id := range s.touchesReleased {
		pos, known := t.touches[id]
		if !known {
			continue
		}
		delete(t.touches, id)
		evs = append(evs, event.Touch{Window: MainWindow, Device: TouchDevice, Phase: event.TouchEnded, Location: pos, ID: uint64(id)})
	}
	return evs
}

func (t *tracker) diffGamepads(s *snapshot, evs []event.Event) []event.Event {
	for _, id := range s.gamepadsConnected {
		t.gamepads[id] = true
		evs = append(evs, event.DeviceAdded{Device: gamepadDevice(id)})
	}
	for _, a := range s.gamepadAxes {
		k := axisKey{gamepad: a.gamepad, axis: a.axis}
		if last, ok := t.axes[k]; ok && last == a.value {
			continue
		}
		t.axes[k] = a.value
		evs = append(evs, event.DeviceMotion{Device: gamepadDevice(a.gamepad), Axis: event.AxisID(a.axis), Value: a.value})
	}
	for _, b := range s.gamepadButtons {
		state := event.Released
		if b.pressed {
			state = event.Pressed
		}
		evs = append(evs, event.DeviceButton{Device: gamepadDevice(b.gamepad), Button: event.ButtonID(b.button), State: state})
	}
	for _, id := range s.gamepadsDisconnected {
		delete(t.gamepads, id)
		for k := range t.axes {
			if k.gamepad == id {
				delete(t.axes, k)
			}
		}
		evs = append(evs, event.DeviceRemoved{Device: gamepadDevice(id)})
	}
	return evs
}

// isRepeatTick reports whether a key held for duration ticks repeats on
// this tick. A zero delay or interval disables repeats.
func isRepeatTick(duration, delay, interval int) bool {
	if delay <= 0 || interval <= 0 || duration <= 1 {
		return false
	}
	return duration >= delay && (duration-delay)%interval == 0
}

// ScanCode maps an ebiten key to the scan code used for repeat tracking.
func ScanCode(k ebiten.Key) event.ScanCode {
	return event.ScanCode(k)
}

func keyboardInput(k ebiten.Key, state event.ElementState) (event.KeyboardInput, bool) {
	if k < 0 || int(k) >= keytracker.MaxScanCodes || isVirtualKey(k) {
		return event.KeyboardInput{}, false
	}
	return event.KeyboardInput{ScanCode: ScanCode(k), KeyCode: event.KeyCode(k.String()), State: state}, true
}

// isVirtualKey reports keys ebiten derives from a left/right pair.
func isVirtualKey(k ebiten.Key) bool {
	switch k {
	case ebiten.KeyShift, ebiten.KeyControl, ebiten.KeyAlt, ebiten.KeyMeta:
		return true
	}
	return false
}

func modifiersFrom(held []keyHold) event.ModifiersState {
	var mods event.ModifiersState
	for _, h := range held {
		switch h.key {
		case ebiten.KeyShiftLeft, ebiten.KeyShiftRight:
			mods |= event.ModShift
		case ebiten.KeyControlLeft, ebiten.KeyControlRight:
			mods |= event.ModCtrl
		case ebiten.KeyAltLeft, ebiten.KeyAltRight:
			mods |= event.ModAlt
		case ebiten.KeyMetaLeft, ebiten.KeyMetaRight:
			mods |= event.ModLogo
		}
	}
	return mods
}

func mouseButton(b ebiten.MouseButton) event.MouseButton {
	switch b {
	case ebiten.MouseButtonLeft:
		return event.MouseLeft
	case ebiten.MouseButtonRight:
		return event.MouseRight
	case ebiten.MouseButtonMiddle:
		return event.MouseMiddle
	}
	return event.MouseButton(b)
}

func physical(logical int, scale float64) uint32 {
	if logical <= 0 {
		return 0
	}
	if scale <= 0 {
		scale = 1
	}
	return uint32(float64(logical)*scale + 0.5)
}

// resizeFor converts the inner size a handler chose in ScaleFactorChanged
// back to a logical window size. ok is false when the handler kept the
// proposed size or the result is empty.
func resizeFor(proposed, chosen event.PhysicalSize, scale float64) (width, height int, ok bool) {
	if chosen == proposed || scale <= 0 {
		return 0, 0, false
	}
	width = int(math.Round(float64(chosen.Width) / scale))
	height = int(math.Round(float64(chosen.Height) / scale))
	return width, height, width > 0 && height > 0
}
