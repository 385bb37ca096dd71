// Package input models the per-frame input vector consumed by the
// simulation. The simulation itself is stateless with respect to input:
// callers (netplay, replay, AI) supply a fixed 8-frame history window per
// controlled entity and this package derives edge values from it.
package input

// HistoryLen is the number of frames of controller state carried in a
// PlayerInput window: the current frame plus seven prior.
const HistoryLen = 8

// ControllerInput is the raw state of one controller for one frame, after
// deadzone filtering.
type ControllerInput struct {
	PluggedIn bool

	A     bool
	B     bool
	X     bool
	Y     bool
	Left  bool
	Right bool
	Down  bool
	Up    bool
	Start bool
	Z     bool
	R     bool
	L     bool

	StickX   float64
	StickY   float64
	CStickX  float64
	CStickY  float64
	RTrigger float64
	LTrigger float64
}

// Button is a digital input with its press edge for the current frame.
type Button struct {
	Value bool // held
	Press bool // off -> on this frame
}

// Stick is an analog axis with its delta from the previous frame.
type Stick struct {
	Value float64
	Diff  float64
}

// Trigger is an analog trigger with its delta from the previous frame.
type Trigger struct {
	Value float64
	Diff  float64
}

// PlayerInput is the derived input view for one entity. History[0] is the
// current frame, History[7] the oldest.
type PlayerInput struct {
	PluggedIn bool

	A     Button
	B     Button
	X     Button
	Y     Button
	Left  Button
	Right Button
	Down  Button
	Up    Button
	Start Button
	Z     Button
	R     Button
	L     Button

	StickX   Stick
	StickY   Stick
	CStickX  Stick
	CStickY  Stick
	RTrigger Trigger
	LTrigger Trigger

	History [HistoryLen]ControllerInput
}

// At returns the controller state i frames ago. At(0) is the current frame.
func (p *PlayerInput) At(i int) ControllerInput {
	return p.History[i]
}

// Empty returns the input of an unplugged controller.
func Empty() PlayerInput {
	return PlayerInput{}
}

func button(curr, prev bool) Button {
	return Button{Value: curr, Press: curr && !prev}
}

// FromHistory derives a PlayerInput from a raw history window.
func FromHistory(history [HistoryLen]ControllerInput) PlayerInput {
	curr := history[0]
	prev := history[1]
	return PlayerInput{
		PluggedIn: curr.PluggedIn,

		A:     button(curr.A, prev.A),
		B:     button(curr.B, prev.B),
		X:     button(curr.X, prev.X),
		Y:     button(curr.Y, prev.Y),
		Left:  button(curr.Left, prev.Left),
		Right: button(curr.Right, prev.Right),
		Down:  button(curr.Down, prev.Down),
		Up:    button(curr.Up, prev.Up),
		Start: button(curr.Start, prev.Start),
		Z:     button(curr.Z, prev.Z),
		R:     button(curr.R, prev.R),
		L:     button(curr.L, prev.L),

		StickX:   Stick{Value: curr.StickX, Diff: curr.StickX - prev.StickX},
		StickY:   Stick{Value: curr.StickY, Diff: curr.StickY - prev.StickY},
		CStickX:  Stick{Value: curr.CStickX, Diff: curr.CStickX - prev.CStickX},
		CStickY:  Stick{Value: curr.CStickY, Diff: curr.CStickY - prev.CStickY},
		RTrigger: Trigger{Value: curr.RTrigger, Diff: curr.RTrigger - prev.RTrigger},
		LTrigger: Trigger{Value: curr.LTrigger, Diff: curr.LTrigger - prev.LTrigger},

		History: history,
	}
}
