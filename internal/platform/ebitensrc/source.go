// Package ebitensrc runs the event loop inside an ebiten game. Each ebiten
// tick becomes one pump of the loop: NewEvents, the input changes seen
// since the last tick, queued custom events and the idle marker. Each frame
// drawn becomes a redraw request.
package ebitensrc

import (
	"fmt"
	"io/fs"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	"tickloop/internal/config"
	"tickloop/internal/event"
)

// Source implements ebiten.Game and event.Source.
type Source[C any] struct {
	cfg      *config.Config
	proxy    *event.Proxy[C]
	tracker  *tracker
	overlay  func(screen *ebiten.Image)
	dispatch func(event.Event) event.ControlFlow

	started bool
	stopped bool
	pending []event.Event
}

// New creates a source using the display and input sections of cfg.
func New[C any](cfg *config.Config) *Source[C] {
	return &Source[C]{
		cfg:     cfg,
		proxy:   event.NewProxy[C](),
		tracker: newTracker(cfg.Input.KeyRepeatDelayTicks, cfg.Input.KeyRepeatIntervalTicks),
	}
}

func (s *Source[C]) Proxy() *event.Proxy[C] {
	return s.proxy
}

// SetOverlay registers a function that draws after each redraw request has
// been dispatched.
func (s *Source[C]) SetOverlay(draw func(screen *ebiten.Image)) {
	s.overlay = draw
}

// Run opens the window and blocks until the game terminates. LoopDestroyed
// is dispatched once after ebiten returns.
func (s *Source[C]) Run(dispatch func(event.Event) event.ControlFlow) error {
	s.dispatch = dispatch

	ebiten.SetWindowSize(s.cfg.GetScreenWidth(), s.cfg.GetScreenHeight())
	ebiten.SetWindowTitle(s.cfg.Display.WindowTitle)
	if s.cfg.Display.Resizable {
		ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	}
	// Closing is reported as CloseRequested and left to the handler.
	ebiten.SetWindowClosingHandled(true)
	if s.cfg.Input.TPS > 0 {
		ebiten.SetTPS(s.cfg.Input.TPS)
	} else {
		ebiten.SetTPS(ebiten.SyncWithFPS)
	}

	err := ebiten.RunGame(s)
	s.proxy.Close()
	dispatch(event.LoopDestroyed{})
	if err != nil {
		return fmt.Errorf("ebiten: %w", err)
	}
	return nil
}

// Update pumps the loop once.
func (s *Source[C]) Update() error {
	if s.stopped {
		return ebiten.Termination
	}

	cause := event.StartPoll
	if !s.started {
		s.started = true
		cause = event.StartInit
	}

	snap := s.readSnapshot()
	s.pending = append(s.pending[:0], event.NewEvents{Cause: cause})
	s.pending = s.tracker.diff(snap, s.pending)
	for _, ev := range s.pending {
		if !s.emit(ev) {
			return ebiten.Termination
		}
	}
	for _, payload := range s.proxy.Drain() {
		if !s.emit(event.UserEvent[C]{Payload: payload}) {
			return ebiten.Termination
		}
	}
	if !s.emit(event.MainEventsCleared{}) {
		return ebiten.Termination
	}
	return nil
}

// Draw dispatches a redraw request, then draws the overlay.
func (s *Source[C]) Draw(screen *ebiten.Image) {
	if !s.emit(event.RedrawRequested{Window: MainWindow}) {
		return
	}
	if s.overlay != nil {
		s.overlay(screen)
	}
	s.emit(event.RedrawEventsCleared{})
}

// Layout returns the screen dimensions
func (s *Source[C]) Layout(outsideWidth, outsideHeight int) (screenWidth, screenHeight int) {
	return s.cfg.GetScreenWidth(), s.cfg.GetScreenHeight()
}

// emit dispatches ev and reports whether the loop keeps running.
func (s *Source[C]) emit(ev event.Event) bool {
	if s.stopped {
		return false
	}
	sc, isScale := ev.(event.ScaleFactorChanged)
	var proposed event.PhysicalSize
	if isScale && sc.NewInnerSize != nil {
		proposed = *sc.NewInnerSize
	}

	if s.dispatch(ev) == event.Exit {
		s.stopped = true
		return false
	}

	// The window is only resized when the handler picked a different size.
	if isScale && sc.NewInnerSize != nil {
		if w, h, ok := resizeFor(proposed, *sc.NewInnerSize, sc.ScaleFactor); ok {
			ebiten.SetWindowSize(w, h)
		}
	}
	return true
}

func (s *Source[C]) readSnapshot() *snapshot {
	snap := &snapshot{
		closing: ebiten.IsWindowBeingClosed(),
		focused: ebiten.IsFocused(),
		scale:   ebiten.Monitor().DeviceScaleFactor(),
	}
	snap.width, snap.height = ebiten.WindowSize()
	snap.x, snap.y = ebiten.WindowPosition()
	snap.chars = ebiten.AppendInputChars(nil)
	snap.droppedFiles = droppedFileNames(ebiten.DroppedFiles())

	snap.keysPressed = inpututil.AppendJustPressedKeys(nil)
	snap.keysReleased = inpututil.AppendJustReleasedKeys(nil)
	for _, k := range inpututil.AppendPressedKeys(nil) {
		snap.keysHeld = append(snap.keysHeld, keyHold{key: k, duration: inpututil.KeyPressDuration(k)})
	}

	snap.cursorX, snap.cursorY = ebiten.CursorPosition()
	snap.wheelX, snap.wheelY = ebiten.Wheel()
	for b := ebiten.MouseButton0; b <= ebiten.MouseButtonMax; b++ {
		if inpututil.IsMouseButtonJustPressed(b) {
			snap.mousePressed = append(snap.mousePressed, b)
		}
		if inpututil.IsMouseButtonJustReleased(b) {
			snap.mouseReleased = append(snap.mouseReleased, b)
		}
	}

	for _, id := range ebiten.AppendTouchIDs(nil) {
		x, y := ebiten.TouchPosition(id)
		snap.touches = append(snap.touches, touchPoint{id: id, x: x, y: y})
	}
	snap.touchesReleased = inpututil.AppendJustReleasedTouchIDs(nil)

	snap.gamepadsConnected = inpututil.AppendJustConnectedGamepadIDs(nil)
	for _, id := range s.tracker.connectedGamepads() {
		if inpututil.IsGamepadJustDisconnected(id) {
			snap.gamepadsDisconnected = append(snap.gamepadsDisconnected, id)
		}
	}
	for _, id := range ebiten.AppendGamepadIDs(nil) {
		if !ebiten.IsStandardGamepadLayoutAvailable(id) {
			continue
		}
		for a := ebiten.StandardGamepadAxis(0); a <= ebiten.StandardGamepadAxisMax; a++ {
			snap.gamepadAxes = append(snap.gamepadAxes, gamepadAxis{gamepad: id, axis: a, value: ebiten.StandardGamepadAxisValue(id, a)})
		}
		for b := ebiten.StandardGamepadButton(0); b <= ebiten.StandardGamepadButtonMax; b++ {
			if inpututil.IsStandardGamepadButtonJustPressed(id, b) {
				snap.gamepadButtons = append(snap.gamepadButtons, gamepadButton{gamepad: id, button: b, pressed: true})
			}
			if inpututil.IsStandardGamepadButtonJustReleased(id, b) {
				snap.gamepadButtons = append(snap.gamepadButtons, gamepadButton{gamepad: id, button: b})
			}
		}
	}
	return snap
}

func droppedFileNames(files fs.FS) []string {
	if files == nil {
		return nil
	}
	entries, err := fs.ReadDir(files, ".")
	if err != nil {
		return nil
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, e.Name())
	}
	return names
}
