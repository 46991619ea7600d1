package event

// Device events are raw and not tied to any window. They keep arriving
// while no window of the application has focus.

type DeviceAdded struct {
	Device DeviceID
}

type DeviceRemoved struct {
	Device DeviceID
}

// DeviceMouseMotion carries an unfiltered pointer delta.
type DeviceMouseMotion struct {
	Device DeviceID
	Delta  PhysicalPosition
}

type DeviceMouseWheel struct {
	Device DeviceID
	Delta  ScrollDelta
}

// DeviceMotion is a raw analog axis change.
type DeviceMotion struct {
	Device DeviceID
	Axis   AxisID
	Value  float64
}

type DeviceButton struct {
	Device DeviceID
	Button ButtonID
	State  ElementState
}

type DeviceKey struct {
	Device DeviceID
	Input  KeyboardInput
}

type DeviceText struct {
	Device    DeviceID
	Codepoint rune
}

func (DeviceAdded) isEvent()       {}
func (DeviceRemoved) isEvent()     {}
func (DeviceMouseMotion) isEvent() {}
func (DeviceMouseWheel) isEvent()  {}
func (DeviceMotion) isEvent()      {}
func (DeviceButton) isEvent()      {}
func (DeviceKey) isEvent()         {}
func (DeviceText) isEvent()        {}
