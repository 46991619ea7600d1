// Package keytracker remembers the last observed state of every physical key
// so raw "key state changed" notifications can be tagged as auto-repeats.
package keytracker

import (
	"fmt"

	"tickloop/internal/event"
)

// MaxScanCodes is the number of scan codes tracked per keyboard.
// Scan codes on the supported platforms stay below this bound.
const MaxScanCodes = 128

// Scope selects the key table: either a window or, for raw device events
// that arrive outside any window focus, the device-global table.
type Scope struct {
	Window   event.WindowID
	InWindow bool
}

// WindowScope returns the scope of keyboard events delivered to window w.
func WindowScope(w event.WindowID) Scope {
	return Scope{Window: w, InWindow: true}
}

// DeviceScope is the scope of raw device keyboard events.
var DeviceScope = Scope{}

type trackerKey struct {
	scope  Scope
	device event.DeviceID
}

// KeyboardState tracks the last known state of each key per (scope, device).
// Tables are created on first use and kept for the lifetime of the tracker.
type KeyboardState struct {
	state map[trackerKey]*[MaxScanCodes]event.ElementState
}

// NewKeyboardState creates an empty tracker.
func NewKeyboardState() *KeyboardState {
	return &KeyboardState{
		state: make(map[trackerKey]*[MaxScanCodes]event.ElementState),
	}
}

// KeyState returns the stored state of a key, Released if never seen.
// The returned pointer stays valid for the lifetime of the tracker.
// It panics if scanCode is not below MaxScanCodes.
func (k *KeyboardState) KeyState(scope Scope, device event.DeviceID, scanCode event.ScanCode) *event.ElementState {
	if scanCode >= MaxScanCodes {
		panic(fmt.Sprintf("keytracker: invalid scan code %d", scanCode))
	}
	key := trackerKey{scope: scope, device: device}
	table, ok := k.state[key]
	if !ok {
		table = new([MaxScanCodes]event.ElementState)
		k.state[key] = table
	}
	return &table[scanCode]
}

// Observe records a new state for a key and reports whether it is a repeat,
// i.e. equal to the previously stored state.
func (k *KeyboardState) Observe(scope Scope, device event.DeviceID, scanCode event.ScanCode, state event.ElementState) bool {
	last := k.KeyState(scope, device, scanCode)
	isRepeat := *last == state
	*last = state
	return isRepeat
}

// Len returns the number of (scope, device) tables created so far.
func (k *KeyboardState) Len() int {
	return len(k.state)
}
