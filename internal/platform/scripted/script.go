package scripted

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"tickloop/internal/event"
	"tickloop/internal/keytracker"
)

// Script is the YAML form of a replay.
type Script struct {
	Name  string     `yaml:"name"`
	Steps []StepSpec `yaml:"steps"`
}

// StepSpec describes one step. Only the fields the event kind uses are read.
type StepSpec struct {
	Advance string `yaml:"advance"`
	Repeat  int    `yaml:"repeat"`
	Event   string `yaml:"event"`

	Window    uint64   `yaml:"window"`
	Device    uint64   `yaml:"device"`
	ScanCode  uint32   `yaml:"scan_code"`
	KeyCode   string   `yaml:"key_code"`
	State     string   `yaml:"state"`
	Synthetic bool     `yaml:"synthetic"`
	Focused   bool     `yaml:"focused"`
	Width     uint32   `yaml:"width"`
	Height    uint32   `yaml:"height"`
	X         float64  `yaml:"x"`
	Y         float64  `yaml:"y"`
	Scale     float64  `yaml:"scale"`
	Button    int      `yaml:"button"`
	Axis      uint32   `yaml:"axis"`
	Value     float64  `yaml:"value"`
	Char      string   `yaml:"char"`
	Path      string   `yaml:"path"`
	Cause     string   `yaml:"cause"`
	Phase     string   `yaml:"phase"`
	Touch     uint64   `yaml:"touch_id"`
	Modifiers []string `yaml:"modifiers"`

	// Payload is decoded into the custom event type of the replay.
	Payload yaml.Node `yaml:"payload"`
}

// LoadScript reads a YAML replay script.
func LoadScript[C any](filename string) ([]Step, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read script: %w", err)
	}
	return ParseScript[C](data)
}

// ParseScript decodes a YAML replay script into steps.
func ParseScript[C any](data []byte) ([]Step, error) {
	var script Script
	if err := yaml.Unmarshal(data, &script); err != nil {
		return nil, fmt.Errorf("failed to parse script: %w", err)
	}

	steps := make([]Step, 0, len(script.Steps))
	for i, spec := range script.Steps {
		step, err := buildStep[C](spec)
		if err != nil {
			return nil, fmt.Errorf("step %d: %w", i+1, err)
		}
		n := spec.Repeat
		if n <= 0 {
			n = 1
		}
		for j := 0; j < n; j++ {
			steps = append(steps, step)
		}
	}
	return steps, nil
}

func buildStep[C any](spec StepSpec) (Step, error) {
	var step Step
	if spec.Advance != "" {
		d, err := time.ParseDuration(spec.Advance)
		if err != nil {
			return step, fmt.Errorf("invalid advance %q: %w", spec.Advance, err)
		}
		if d < 0 {
			return step, fmt.Errorf("negative advance %q", spec.Advance)
		}
		step.Advance = d
	}
	if spec.Event == "" {
		return step, nil
	}
	ev, err := buildEvent[C](spec)
	if err != nil {
		return step, err
	}
	step.Event = ev
	return step, nil
}

func buildEvent[C any](s StepSpec) (event.Event, error) {
	w := event.WindowID(s.Window)
	d := event.DeviceID(s.Device)

	switch s.Event {
	case "new_events":
		cause, err := parseCause(s.Cause)
		if err != nil {
			return nil, err
		}
		return event.NewEvents{Cause: cause}, nil
	case "idle", "main_events_cleared":
		return event.MainEventsCleared{}, nil
	case "redraw_requested":
		return event.RedrawRequested{Window: w}, nil
	case "redraw_events_cleared":
		return event.RedrawEventsCleared{}, nil
	case "suspended":
		return event.Suspended{}, nil
	case "resumed":
		return event.Resumed{}, nil
	case "custom":
		if s.Payload.Kind == 0 {
			return nil, fmt.Errorf("custom event without payload")
		}
		var payload C
		if err := s.Payload.Decode(&payload); err != nil {
			return nil, fmt.Errorf("invalid custom payload: %w", err)
		}
		return event.UserEvent[C]{Payload: payload}, nil

	case "close_requested":
		return event.CloseRequested{Window: w}, nil
	case "destroyed":
		return event.Destroyed{Window: w}, nil
	case "focused":
		return event.Focused{Window: w, Focused: s.Focused}, nil
	case "resized":
		return event.Resized{Window: w, Size: event.PhysicalSize{Width: s.Width, Height: s.Height}}, nil
	case "moved":
		return event.Moved{Window: w, Position: event.Position{X: int32(s.X), Y: int32(s.Y)}}, nil
	case "scale_factor_changed":
		return event.ScaleFactorChanged{
			Window:       w,
			ScaleFactor:  s.Scale,
			NewInnerSize: &event.PhysicalSize{Width: s.Width, Height: s.Height},
		}, nil
	case "character":
		r, err := singleRune(s.Char)
		if err != nil {
			return nil, err
		}
		return event.ReceivedCharacter{Window: w, Char: r}, nil
	case "hovered_file":
		return event.HoveredFile{Window: w, Path: s.Path}, nil
	case "hovered_file_cancelled":
		return event.HoveredFileCancelled{Window: w}, nil
	case "dropped_file":
		return event.DroppedFile{Window: w, Path: s.Path}, nil
	case "key":
		in, err := keyboardInput(s)
		if err != nil {
			return nil, err
		}
		return event.KeyboardInputEvent{Window: w, Device: d, Input: in, IsSynthetic: s.Synthetic}, nil
	case "modifiers":
		mods, err := parseModifiers(s.Modifiers)
		if err != nil {
			return nil, err
		}
		return event.ModifiersChanged{Window: w, Modifiers: mods}, nil
	case "cursor_moved":
		return event.CursorMoved{Window: w, Device: d, Position: event.PhysicalPosition{X: s.X, Y: s.Y}}, nil
	case "cursor_entered":
		return event.CursorEntered{Window: w, Device: d}, nil
	case "cursor_left":
		return event.CursorLeft{Window: w, Device: d}, nil
	case "mouse_button":
		state, err := parseState(s.State)
		if err != nil {
			return nil, err
		}
		return event.MouseInput{Window: w, Device: d, State: state, Button: event.MouseButton(s.Button)}, nil
	case "scroll":
		phase, err := parsePhase(s.Phase)
		if err != nil {
			return nil, err
		}
		return event.MouseWheel{Window: w, Device: d, Delta: event.ScrollDelta{X: s.X, Y: s.Y}, Phase: phase}, nil
	case "touch":
		phase, err := parsePhase(s.Phase)
		if err != nil {
			return nil, err
		}
		return event.Touch{Window: w, Device: d, Phase: phase, Location: event.PhysicalPosition{X: s.X, Y: s.Y}, ID: s.Touch}, nil
	case "axis":
		return event.AxisMotion{Window: w, Device: d, Axis: event.AxisID(s.Axis), Value: s.Value}, nil

	case "device_added":
		return event.DeviceAdded{Device: d}, nil
	case "device_removed":
		return event.DeviceRemoved{Device: d}, nil
	case "device_motion":
		return event.DeviceMouseMotion{Device: d, Delta: event.PhysicalPosition{X: s.X, Y: s.Y}}, nil
	case "device_scroll":
		return event.DeviceMouseWheel{Device: d, Delta: event.ScrollDelta{X: s.X, Y: s.Y}}, nil
	case "device_axis":
		return event.DeviceMotion{Device: d, Axis: event.AxisID(s.Axis), Value: s.Value}, nil
	case "device_button":
		state, err := parseState(s.State)
		if err != nil {
			return nil, err
		}
		return event.DeviceButton{Device: d, Button: event.ButtonID(s.Button), State: state}, nil
	case "device_key":
		in, err := keyboardInput(s)
		if err != nil {
			return nil, err
		}
		return event.DeviceKey{Device: d, Input: in}, nil
	case "device_text":
		r, err := singleRune(s.Char)
		if err != nil {
			return nil, err
		}
		return event.DeviceText{Device: d, Codepoint: r}, nil
	}
	return nil, fmt.Errorf("unknown event %q", s.Event)
}

func keyboardInput(s StepSpec) (event.KeyboardInput, error) {
	if s.ScanCode >= keytracker.MaxScanCodes {
		return event.KeyboardInput{}, fmt.Errorf("scan code %d out of range", s.ScanCode)
	}
	state, err := parseState(s.State)
	if err != nil {
		return event.KeyboardInput{}, err
	}
	return event.KeyboardInput{
		ScanCode: event.ScanCode(s.ScanCode),
		KeyCode:  event.KeyCode(s.KeyCode),
		State:    state,
	}, nil
}

func parseState(s string) (event.ElementState, error) {
	switch s {
	case "pressed":
		return event.Pressed, nil
	case "released":
		return event.Released, nil
	}
	return event.Released, fmt.Errorf("invalid state %q", s)
}

func parseCause(s string) (event.StartCause, error) {
	switch s {
	case "", "poll":
		return event.StartPoll, nil
	case "init":
		return event.StartInit, nil
	case "wait_cancelled":
		return event.StartWaitCancelled, nil
	case "resume_time_reached":
		return event.StartResumeTimeReached, nil
	}
	return event.StartPoll, fmt.Errorf("invalid start cause %q", s)
}

func parsePhase(s string) (event.TouchPhase, error) {
	switch s {
	case "", "moved":
		return event.TouchMoved, nil
	case "started":
		return event.TouchStarted, nil
	case "ended":
		return event.TouchEnded, nil
	case "cancelled":
		return event.TouchCancelled, nil
	}
	return event.TouchMoved, fmt.Errorf("invalid phase %q", s)
}

func parseModifiers(names []string) (event.ModifiersState, error) {
	var mods event.ModifiersState
	for _, name := range names {
		switch name {
		case "shift":
			mods |= event.ModShift
		case "ctrl":
			mods |= event.ModCtrl
		case "alt":
			mods |= event.ModAlt
		case "logo":
			mods |= event.ModLogo
		default:
			return 0, fmt.Errorf("invalid modifier %q", name)
		}
	}
	return mods, nil
}

func singleRune(s string) (rune, error) {
	runes := []rune(s)
	if len(runes) != 1 {
		return 0, fmt.Errorf("expected a single character, got %q", s)
	}
	return runes[0], nil
}
