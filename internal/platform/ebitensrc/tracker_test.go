package ebitensrc

import (
	"testing"

	"github.com/hajimehoshi/ebiten/v2"

	"tickloop/internal/event"
)

func baseSnapshot() *snapshot {
	return &snapshot{focused: true, width: 800, height: 600, x: 10, y: 20, scale: 1}
}

func TestFirstSnapshotIsBaseline(t *testing.T) {
	tr := newTracker(30, 3)
	if evs := tr.diff(baseSnapshot(), nil); len(evs) != 0 {
		t.Errorf("Expected no events for the baseline snapshot, got %#v", evs)
	}
}

func TestWindowChanges(t *testing.T) {
	tr := newTracker(30, 3)
	tr.diff(baseSnapshot(), nil)

	s := baseSnapshot()
	s.closing = true
	s.focused = false
	s.width, s.height = 1024, 768
	s.x = 50
	s.droppedFiles = []string{"level.yaml"}
	s.chars = []rune("hi")

	evs := tr.diff(s, nil)
	want := []event.Event{
		event.CloseRequested{Window: MainWindow},
		event.Focused{Window: MainWindow, Focused: false},
		event.Resized{Window: MainWindow, Size: event.PhysicalSize{Width: 1024, Height: 768}},
		event.Moved{Window: MainWindow, Position: event.Position{X: 50, Y: 20}},
		event.DroppedFile{Window: MainWindow, Path: "level.yaml"},
		event.ReceivedCharacter{Window: MainWindow, Char: 'h'},
		event.ReceivedCharacter{Window: MainWindow, Char: 'i'},
	}
	if len(evs) != len(want) {
		t.Fatalf("Expected %d events, got %d: %#v", len(want), len(evs), evs)
	}
	for i := range want {
		if evs[i] != want[i] {
			t.Errorf("Event %d: expected %#v, got %#v", i, want[i], evs[i])
		}
	}

	// Levels that stay the same produce nothing.
	s.closing = false
	s.droppedFiles = nil
	s.chars = nil
	if evs := tr.diff(s, nil); len(evs) != 0 {
		t.Errorf("Expected no events for an unchanged snapshot, got %#v", evs)
	}
}

func TestScaleFactorChangeReportsPhysicalSize(t *testing.T) {
	tr := newTracker(30, 3)
	tr.diff(baseSnapshot(), nil)

	s := baseSnapshot()
	s.scale = 2
	evs := tr.diff(s, nil)
	if len(evs) != 1 {
		t.Fatalf("Expected one event, got %#v", evs)
	}
	sc, ok := evs[0].(event.ScaleFactorChanged)
	if !ok {
		t.Fatalf("Expected ScaleFactorChanged, got %T", evs[0])
	}
	if sc.ScaleFactor != 2 || sc.NewInnerSize == nil || *sc.NewInnerSize != (event.PhysicalSize{Width: 1600, Height: 1200}) {
		t.Errorf("Unexpected scale event %+v", sc)
	}
}

func TestKeyboardEvents(t *testing.T) {
	tr := newTracker(30, 3)
	tr.diff(baseSnapshot(), nil)

	s := baseSnapshot()
	s.keysPressed = []ebiten.Key{ebiten.KeyA}
	s.keysHeld = []keyHold{{key: ebiten.KeyA, duration: 1}, {key: ebiten.KeyShiftLeft, duration: 5}}
	evs := tr.diff(s, nil)

	pressed := event.KeyboardInput{ScanCode: ScanCode(ebiten.KeyA), KeyCode: event.KeyCode(ebiten.KeyA.String()), State: event.Pressed}
	want := []event.Event{
		event.ModifiersChanged{Window: MainWindow, Modifiers: event.ModShift},
		event.DeviceKey{Device: KeyboardDevice, Input: pressed},
		event.KeyboardInputEvent{Window: MainWindow, Device: KeyboardDevice, Input: pressed},
	}
	if len(evs) != len(want) {
		t.Fatalf("Expected %d events, got %d: %#v", len(want), len(evs), evs)
	}
	for i := range want {
		if evs[i] != want[i] {
			t.Errorf("Event %d: expected %#v, got %#v", i, want[i], evs[i])
		}
	}

	// Held past the delay: a window-scoped press without a device event.
	s = baseSnapshot()
	s.keysHeld = []keyHold{{key: ebiten.KeyA, duration: 30}, {key: ebiten.KeyShiftLeft, duration: 34}}
	evs = tr.diff(s, nil)
	if len(evs) != 1 || evs[0] != (event.KeyboardInputEvent{Window: MainWindow, Device: KeyboardDevice, Input: pressed}) {
		t.Errorf("Expected a single repeated press, got %#v", evs)
	}

	s = baseSnapshot()
	s.keysReleased = []ebiten.Key{ebiten.KeyA, ebiten.KeyShift}
	evs = tr.diff(s, nil)
	released := pressed
	released.State = event.Released
	want = []event.Event{
		event.ModifiersChanged{Window: MainWindow, Modifiers: 0},
		event.DeviceKey{Device: KeyboardDevice, Input: released},
		event.KeyboardInputEvent{Window: MainWindow, Device: KeyboardDevice, Input: released},
	}
	if len(evs) != len(want) {
		t.Fatalf("Expected %d events, got %d: %#v", len(want), len(evs), evs)
	}
	for i := range want {
		if evs[i] != want[i] {
			t.Errorf("Event %d: expected %#v, got %#v", i, want[i], evs[i])
		}
	}
}

func TestIsRepeatTick(t *testing.T) {
	tests := []struct {
		duration, delay, interval int
		want                      bool
	}{
		{1, 30, 3, false},
		{29, 30, 3, false},
		{30, 30, 3, true},
		{31, 30, 3, false},
		{33, 30, 3, true},
		{36, 30, 3, true},
		{40, 0, 3, false},
		{40, 30, 0, false},
		{1, 1, 1, false},
		{2, 1, 1, true},
	}
	for _, tt := range tests {
		if got := isRepeatTick(tt.duration, tt.delay, tt.interval); got != tt.want {
			t.Errorf("isRepeatTick(%d, %d, %d) = %v, want %v", tt.duration, tt.delay, tt.interval, got, tt.want)
		}
	}
}

func TestMouseEvents(t *testing.T) {
	tr := newTracker(30, 3)
	tr.diff(baseSnapshot(), nil)

	s := baseSnapshot()
	s.cursorX, s.cursorY = 5, 7
	s.wheelY = -1
	s.mousePressed = []ebiten.MouseButton{ebiten.MouseButtonRight}
	s.mouseReleased = []ebiten.MouseButton{ebiten.MouseButtonLeft}
	evs := tr.diff(s, nil)

	delta := event.ScrollDelta{Y: -1, Unit: event.LineDelta}
	want := []event.Event{
		event.DeviceMouseMotion{Device: MouseDevice, Delta: event.PhysicalPosition{X: 5, Y: 7}},
		event.CursorMoved{Window: MainWindow, Device: MouseDevice, Position: event.PhysicalPosition{X: 5, Y: 7}},
		event.DeviceMouseWheel{Device: MouseDevice, Delta: delta},
		event.MouseWheel{Window: MainWindow, Device: MouseDevice, Delta: delta, Phase: event.TouchMoved},
		event.MouseInput{Window: MainWindow, Device: MouseDevice, State: event.Pressed, Button: event.MouseRight},
		event.MouseInput{Window: MainWindow, Device: MouseDevice, State: event.Released, Button: event.MouseLeft},
	}
	if len(evs) != len(want) {
		t.Fatalf("Expected %d events, got %d: %#v", len(want), len(evs), evs)
	}
	for i := range want {
		if evs[i] != want[i] {
			t.Errorf("Event %d: expected %#v, got %#v", i, want[i], evs[i])
		}
	}
}

func TestTouchLifecycle(t *testing.T) {
	tr := newTracker(30, 3)
	tr.diff(baseSnapshot(), nil)

	phases := func(evs []event.Event) []event.TouchPhase {
		var out []event.TouchPhase
		for _, ev := range evs {
			if touch, ok := ev.(event.Touch); ok {
				out = append(out, touch.Phase)
			}
		}
		return out
	}

	s := baseSnapshot()
	s.touches = []touchPoint{{id: 4, x: 1, y: 1}}
	if got := phases(tr.diff(s, nil)); len(got) != 1 || got[0] != event.TouchStarted {
		t.Errorf("Expected a started touch, got %v", got)
	}
	if got := phases(tr.diff(s, nil)); len(got) != 0 {
		t.Errorf("Expected a still touch to be quiet, got %v", got)
	}
	s.touches = []touchPoint{{id: 4, x: 3, y: 1}}
	if got := phases(tr.diff(s, nil)); len(got) != 1 || got[0] != event.TouchMoved {
		t.Errorf("Expected a moved touch, got %v", got)
	}

	s = baseSnapshot()
	s.touchesReleased = []ebiten.TouchID{4}
	evs := tr.diff(s, nil)
	if len(evs) != 1 {
		t.Fatalf("Expected one event, got %#v", evs)
	}
	ended := evs[0].(event.Touch)
	if ended.Phase != event.TouchEnded || ended.Location.X != 3 || ended.ID != 4 {
		t.Errorf("Expected the touch to end at its last position, got %+v", ended)
	}
}

func TestGamepadEvents(t *testing.T) {
	tr := newTracker(30, 3)
	tr.diff(baseSnapshot(), nil)

	s := baseSnapshot()
	s.gamepadsConnected = []ebiten.GamepadID{2}
	s.gamepadAxes = []gamepadAxis{{gamepad: 2, axis: 0, value: 0.5}}
	s.gamepadButtons = []gamepadButton{{gamepad: 2, button: 1, pressed: true}}
	evs := tr.diff(s, nil)

	dev := GamepadDeviceBase + 2
	want := []event.Event{
		event.DeviceAdded{Device: dev},
		event.DeviceMotion{Device: dev, Axis: 0, Value: 0.5},
		event.DeviceButton{Device: dev, Button: 1, State: event.Pressed},
	}
	if len(evs) != len(want) {
		t.Fatalf("Expected %d events, got %d: %#v", len(want), len(evs), evs)
	}
	for i := range want {
		if evs[i] != want[i] {
			t.Errorf("Event %d: expected %#v, got %#v", i, want[i], evs[i])
		}
	}
	if ids := tr.connectedGamepads(); len(ids) != 1 || ids[0] != 2 {
		t.Errorf("Expected gamepad 2 to be tracked, got %v", ids)
	}

	// An unchanged axis is quiet.
	s = baseSnapshot()
	s.gamepadAxes = []gamepadAxis{{gamepad: 2, axis: 0, value: 0.5}}
	if evs := tr.diff(s, nil); len(evs) != 0 {
		t.Errorf("Expected no events, got %#v", evs)
	}

	s = baseSnapshot()
	s.gamepadsDisconnected = []ebiten.GamepadID{2}
	evs = tr.diff(s, nil)
	if len(evs) != 1 || evs[0] != (event.DeviceRemoved{Device: dev}) {
		t.Errorf("Expected the gamepad to be removed, got %#v", evs)
	}
	if len(tr.connectedGamepads()) != 0 || len(tr.axes) != 0 {
		t.Error("Expected the gamepad state to be dropped")
	}
}

func TestKeyboardInputFiltersVirtualKeys(t *testing.T) {
	if _, ok := keyboardInput(ebiten.KeyShift, event.Pressed); ok {
		t.Error("Expected the virtual shift key to be skipped")
	}
	in, ok := keyboardInput(ebiten.KeyEscape, event.Pressed)
	if !ok || in.KeyCode != "Escape" {
		t.Errorf("Expected Escape, got %+v", in)
	}
}

func TestResizeForUntouchedSize(t *testing.T) {
	for _, scale := range []float64{1, 1.25, 1.5, 1.75, 2} {
		for width := 100; width < 2000; width++ {
			proposed := event.PhysicalSize{Width: physical(width, scale), Height: physical(width/2, scale)}
			if w, h, ok := resizeFor(proposed, proposed, scale); ok {
				t.Fatalf("width %d scale %v: expected no resize, got %dx%d", width, scale, w, h)
			}
		}
	}
}

func TestResizeForChosenSize(t *testing.T) {
	for _, scale := range []float64{1, 1.25, 1.5, 1.75, 2} {
		for width := 100; width < 2000; width++ {
			proposed := event.PhysicalSize{Width: 1, Height: 1}
			chosen := event.PhysicalSize{Width: physical(width, scale), Height: physical(width/2, scale)}
			w, h, ok := resizeFor(proposed, chosen, scale)
			if !ok || w != width || h != width/2 {
				t.Fatalf("width %d scale %v: expected %dx%d, got %dx%d (ok=%v)", width, scale, width, width/2, w, h, ok)
			}
		}
	}

	if _, _, ok := resizeFor(event.PhysicalSize{Width: 10, Height: 10}, event.PhysicalSize{}, 2); ok {
		t.Error("Expected an empty size to be ignored")
	}
	if _, _, ok := resizeFor(event.PhysicalSize{Width: 10, Height: 10}, event.PhysicalSize{Width: 20, Height: 20}, 0); ok {
		t.Error("Expected a zero scale to be ignored")
	}
}
